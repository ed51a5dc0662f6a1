// Package values reads, normalizes, compares and formats cell values.
package values

import (
	"strings"
	"sync"

	"github.com/ohler55/ojg/jp"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

var paths sync.Map // string -> jp.Expr

// Get resolves a dot path such as "customer.address.city" against a row.
// A key that literally contains dots wins over the nested lookup.
func Get(row models.Row, path string) any {
	if row == nil || path == "" {
		return nil
	}
	if v, ok := row[path]; ok || !strings.Contains(path, ".") {
		return v
	}
	results := compile(path).Get(map[string]any(row))
	if len(results) == 0 {
		return nil
	}
	return results[0]
}

func compile(path string) jp.Expr {
	if x, ok := paths.Load(path); ok {
		return x.(jp.Expr)
	}
	parts := strings.Split(path, ".")
	x := jp.C(parts[0])
	for _, p := range parts[1:] {
		x = x.C(p)
	}
	paths.Store(path, x)
	return x
}

// Cell returns the value shown in a column: the column's getter when it has
// one, otherwise the value at its field path.
func Cell(row models.Row, col models.ColumnDef) any {
	if col.ValueGetter != nil {
		return col.ValueGetter(row)
	}
	return Get(row, col.Field)
}

// Field reads a field using its column definition when one exists
func Field(row models.Row, field string, columns []models.ColumnDef) any {
	if col, ok := models.FindColumn(columns, field); ok {
		return Cell(row, col)
	}
	return Get(row, field)
}
