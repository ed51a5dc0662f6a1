// Package filter applies global search, advanced filters and fast filters to rows.
package filter

import (
	"strings"

	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/values"
)

// Apply runs the search and then every filter item under AND. The input
// slice is never modified.
func Apply(rows []models.Row, model models.FilterModel, fast models.FastFilterState, search, searchField string, columns []models.ColumnDef) []models.Row {
	merged := Merge(model, FastModel(fast, columns))
	needle := strings.ToLower(search)
	if needle == "" && len(merged.Items) == 0 {
		return rows
	}

	out := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		if needle != "" && !matchesSearch(row, needle, searchField, columns) {
			continue
		}
		if !MatchesAll(row, merged.Items, columns) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// MatchesSearch reports whether any searched column contains the text.
// An empty search matches everything.
func MatchesSearch(row models.Row, search, searchField string, columns []models.ColumnDef) bool {
	if search == "" {
		return true
	}
	return matchesSearch(row, strings.ToLower(search), searchField, columns)
}

func matchesSearch(row models.Row, needle, searchField string, columns []models.ColumnDef) bool {
	if searchField != "" && searchField != models.SearchAllFields {
		col, ok := models.FindColumn(columns, searchField)
		if !ok {
			return cellContains(values.Get(row, searchField), models.ColumnDef{Field: searchField}, needle)
		}
		return cellContains(values.Cell(row, col), col, needle)
	}
	for _, col := range columns {
		if col.IsCheckbox() || col.Type == models.TypeActions {
			continue
		}
		if cellContains(values.Cell(row, col), col, needle) {
			return true
		}
	}
	return false
}

// cellContains checks the raw value and the type-formatted rendering
func cellContains(v any, col models.ColumnDef, needle string) bool {
	if v == nil {
		return false
	}
	if strings.Contains(values.Normalize(v), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(values.TypeFormatter(col.Type)(v)), needle)
}

// MatchesAll reports whether a row passes every item. Items on the
// checkbox column are ignored.
func MatchesAll(row models.Row, items []models.FilterItem, columns []models.ColumnDef) bool {
	for _, item := range items {
		col, ok := models.FindColumn(columns, item.Field)
		if ok && col.IsCheckbox() {
			continue
		}
		var v any
		if ok {
			v = values.Cell(row, col)
		} else {
			v = values.Get(row, item.Field)
		}
		if !Match(v, item) {
			return false
		}
	}
	return true
}

// Match evaluates one item against a row value. Unknown operators and items
// with no value at all pass. An empty string or an empty list is a real value:
// equals "" keeps only blank cells and isAnyOf [] keeps nothing.
func Match(v any, item models.FilterItem) bool {
	switch item.Operator {
	case models.OpIsEmpty:
		return values.IsEmpty(v)
	case models.OpIsNotEmpty:
		return !values.IsEmpty(v)
	}
	if item.Value == nil {
		return true
	}

	if item.Operator == models.OpIsAnyOf {
		return matchAnyOf(v, item.Value)
	}

	got, want := values.Normalize(v), values.Normalize(item.Value)
	switch item.Operator {
	case models.OpContains:
		return strings.Contains(got, want)
	case models.OpEquals:
		return got == want
	case models.OpStartsWith:
		return strings.HasPrefix(got, want)
	case models.OpEndsWith:
		return strings.HasSuffix(got, want)
	}
	return true
}

func matchAnyOf(v any, filterValue any) bool {
	options, ok := asSlice(filterValue)
	if !ok {
		return values.Normalize(v) == values.Normalize(filterValue)
	}
	// array cells (tags) match when any element is among the options
	cells, isList := asSlice(v)
	if !isList {
		cells = []any{v}
	}
	for _, c := range cells {
		cell := values.Normalize(c)
		for _, o := range options {
			if values.Normalize(o) == cell {
				return true
			}
		}
	}
	return false
}

// AsList returns a multi-value filter value as a list
func AsList(v any) ([]any, bool) {
	return asSlice(v)
}

func asSlice(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// HasValue reports whether a filter value restricts anything: nil, "" and
// empty lists do not.
func HasValue(v any) bool {
	if values.IsEmpty(v) {
		return false
	}
	if list, ok := asSlice(v); ok {
		return len(list) > 0
	}
	return true
}
