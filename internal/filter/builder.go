package filter

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/values"
)

// Builder generates parameterized PostgreSQL clauses from filter models.
// Only fields of known columns are emitted; anything else is skipped so a
// stale filter never breaks the query.
type Builder struct {
	columns []models.ColumnDef
}

// NewBuilder creates a new filter builder for the given columns
func NewBuilder(cols []models.ColumnDef) *Builder {
	return &Builder{columns: cols}
}

// BuildWhere generates a WHERE clause from a model and a search. Parameters
// are numbered from start.
func (b *Builder) BuildWhere(model models.FilterModel, search, searchField string, start int) (string, []any) {
	var clauses []string
	var args []any
	param := start

	if search != "" {
		if clause, arg, ok := b.buildSearch(search, searchField, param); ok {
			clauses = append(clauses, clause)
			args = append(args, arg)
			param++
		}
	}

	for _, item := range model.Items {
		clause, itemArgs, ok := b.buildCondition(item, param)
		if !ok {
			continue
		}
		clauses = append(clauses, clause)
		args = append(args, itemArgs...)
		param += len(itemArgs)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// BuildOrderBy returns an ORDER BY clause keeping nulls last in both directions
func (b *Builder) BuildOrderBy(sort *models.SortModel) string {
	if sort == nil || sort.Direction == "" {
		return ""
	}
	col, ok := models.FindColumn(b.columns, sort.Field)
	if !ok || !col.IsSortable() {
		return ""
	}
	dir := "ASC"
	if sort.Direction == models.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s NULLS LAST", quote(col.Field), dir)
}

func (b *Builder) buildSearch(search, searchField string, param int) (string, any, bool) {
	var targets []string
	for _, c := range b.columns {
		if c.IsCheckbox() || c.Type == models.TypeActions {
			continue
		}
		if searchField != "" && searchField != models.SearchAllFields && c.Field != searchField {
			continue
		}
		targets = append(targets, fmt.Sprintf("%s::text ILIKE $%d", quote(c.Field), param))
	}
	if len(targets) == 0 {
		return "", nil, false
	}
	return "(" + strings.Join(targets, " OR ") + ")", "%" + escapeLike(search) + "%", true
}

// buildCondition builds a single filter condition
func (b *Builder) buildCondition(item models.FilterItem, param int) (string, []any, bool) {
	col, ok := models.FindColumn(b.columns, item.Field)
	if !ok || col.IsCheckbox() {
		return "", nil, false
	}
	column := quote(col.Field)

	switch item.Operator {
	case models.OpIsEmpty:
		return fmt.Sprintf("(%s IS NULL OR %s::text = '')", column, column), nil, true
	case models.OpIsNotEmpty:
		return fmt.Sprintf("(%s IS NOT NULL AND %s::text <> '')", column, column), nil, true
	}
	if !HasValue(item.Value) {
		return "", nil, false
	}

	text := escapeLike(values.String(item.Value))
	switch item.Operator {
	case models.OpContains:
		return fmt.Sprintf("%s::text ILIKE $%d", column, param), []any{"%" + text + "%"}, true
	case models.OpStartsWith:
		return fmt.Sprintf("%s::text ILIKE $%d", column, param), []any{text + "%"}, true
	case models.OpEndsWith:
		return fmt.Sprintf("%s::text ILIKE $%d", column, param), []any{"%" + text}, true
	case models.OpEquals:
		return fmt.Sprintf("LOWER(%s::text) = $%d", column, param), []any{values.Normalize(item.Value)}, true
	case models.OpIsAnyOf:
		list, isList := asSlice(item.Value)
		if !isList {
			return fmt.Sprintf("LOWER(%s::text) = $%d", column, param), []any{values.Normalize(item.Value)}, true
		}
		options := make([]string, len(list))
		for i, v := range list {
			options[i] = values.Normalize(v)
		}
		return fmt.Sprintf("LOWER(%s::text) = ANY($%d)", column, param), []any{options}, true
	default:
		return "", nil, false
	}
}

// quote turns a dot path into a quoted, possibly qualified identifier
func quote(field string) string {
	return pgx.Identifier(strings.Split(field, ".")).Sanitize()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
