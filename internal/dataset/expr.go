package dataset

import (
	"fmt"

	"github.com/d5/tengo/v2"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// CompileExpressions gives every column with an Expression a ValueGetter that
// evaluates it against the row. The row is bound as "row"; a runtime error
// yields nil.
func CompileExpressions(cols []models.ColumnDef) ([]models.ColumnDef, error) {
	out := make([]models.ColumnDef, len(cols))
	copy(out, cols)
	for i, c := range out {
		if c.Expression == "" || c.ValueGetter != nil {
			continue
		}
		getter, err := Compile(c.Expression)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Field, err)
		}
		out[i].ValueGetter = getter
	}
	return out, nil
}

// Compile turns an expression into a row getter
func Compile(expr string) (func(models.Row) any, error) {
	script := tengo.NewScript([]byte("__value := " + expr))
	if err := script.Add("row", map[string]any{}); err != nil {
		return nil, err
	}
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression: %w", err)
	}

	return func(row models.Row) any {
		c := compiled.Clone()
		if err := c.Set("row", map[string]any(row)); err != nil {
			return nil
		}
		if err := c.Run(); err != nil {
			return nil
		}
		return c.Get("__value").Value()
	}, nil
}
