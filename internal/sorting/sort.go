// Package sorting orders rows by a single column.
package sorting

import (
	"cmp"
	"sort"
	"strings"
	"time"

	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/values"
)

// Compare orders two cell values. Nil sorts last in both directions;
// numbers compare numerically, times by instant and everything else as
// case-insensitive text.
func Compare(a, b any, dir models.SortDirection) int {
	if values.Equal(a, b) {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}

	if fa, ok := values.Number(a); ok {
		if fb, ok := values.Number(b); ok {
			return direct(cmp.Compare(fa, fb), dir)
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return direct(ta.Compare(tb), dir)
		}
	}
	return direct(strings.Compare(values.Normalize(a), values.Normalize(b)), dir)
}

func direct(c int, dir models.SortDirection) int {
	if dir == models.SortDesc {
		return -c
	}
	return c
}

// Toggle cycles the sort of a field: asc, desc, then none. A different
// field starts at asc.
func Toggle(current *models.SortModel, field string) *models.SortModel {
	if current == nil || current.Field != field {
		return &models.SortModel{Field: field, Direction: models.SortAsc}
	}
	switch current.Direction {
	case models.SortAsc:
		return &models.SortModel{Field: field, Direction: models.SortDesc}
	case models.SortDesc:
		return nil
	}
	return &models.SortModel{Field: field, Direction: models.SortAsc}
}

// Set applies an explicit direction; an empty direction clears the sort
func Set(field string, dir models.SortDirection) *models.SortModel {
	if dir != models.SortAsc && dir != models.SortDesc {
		return nil
	}
	return &models.SortModel{Field: field, Direction: dir}
}

// Rows returns a stably sorted copy. Sorting on the checkbox column or an
// unsortable column returns the rows unchanged.
func Rows(rows []models.Row, model *models.SortModel, cols []models.ColumnDef) []models.Row {
	if model == nil || model.Direction == "" || len(rows) < 2 {
		return rows
	}
	col, known := models.FindColumn(cols, model.Field)
	if known && (col.IsCheckbox() || !col.IsSortable()) {
		return rows
	}

	keys := make([]any, len(rows))
	for i, r := range rows {
		if known {
			keys[i] = values.Cell(r, col)
		} else {
			keys[i] = values.Get(r, model.Field)
		}
	}
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return Compare(keys[idx[i]], keys[idx[j]], model.Direction) < 0
	})

	out := make([]models.Row, len(rows))
	for i, k := range idx {
		out[i] = rows[k]
	}
	return out
}
