package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// DiscoverColumns builds column definitions from information_schema for a
// table in the given schema.
func DiscoverColumns(ctx context.Context, q Querier, schema, table string) ([]models.ColumnDef, error) {
	query := `
		SELECT
			column_name,
			data_type,
			udt_name
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := q.Query(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	columns := make([]models.ColumnDef, 0, len(rows))
	for _, row := range rows {
		name := toString(row["column_name"])
		columns = append(columns, models.ColumnDef{
			Field: name,
			Type:  ColumnType(toString(row["data_type"]), toString(row["udt_name"])),
		})
	}
	return columns, nil
}

var numericTypes = map[string]bool{
	"smallint": true, "integer": true, "bigint": true,
	"numeric": true, "decimal": true, "real": true, "double precision": true,
}

// ColumnType maps a PostgreSQL data type to the closest grid column type
func ColumnType(dataType, udtName string) models.ColumnType {
	dataType = strings.ToLower(dataType)
	switch {
	case dataType == "array":
		return models.TypeTags
	case dataType == "boolean":
		return models.TypeBoolean
	case dataType == "date":
		return models.TypeDate
	case strings.HasPrefix(dataType, "timestamp"):
		return models.TypeDateTime
	case strings.HasPrefix(dataType, "time"):
		return models.TypeTime
	case dataType == "money":
		return models.TypeCurrency
	case dataType == "uuid":
		return models.TypeID
	case numericTypes[dataType]:
		return models.TypeNumber
	case udtName == "jsonb" || udtName == "json":
		return models.TypeLongText
	default:
		return models.TypeText
	}
}

// SplitTable separates an optional schema prefix, defaulting to public
func SplitTable(name string) (schema, table string) {
	if i := strings.Index(name, "."); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "public", name
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
