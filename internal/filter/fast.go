package filter

import (
	"sort"

	"github.com/rebeliceyang/lazygrid/internal/columns"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/values"
)

// FastIDPrefix prefixes the ids of items synthesized from fast filters
const FastIDPrefix = "fast-"

// FastFilters holds the per-column quick filter values.
// It is not safe for concurrent use.
type FastFilters struct {
	state models.FastFilterState
}

// NewFastFilters seeds the state from each filterable column's default value
func NewFastFilters(cols []models.ColumnDef) *FastFilters {
	f := &FastFilters{state: models.FastFilterState{}}
	for _, c := range cols {
		if c.EnableColumnFilter && HasValue(c.DefaultFilterValue) {
			f.state[c.Field] = c.DefaultFilterValue
		}
	}
	return f
}

// Set stores a value; values that restrict nothing remove the entry
func (f *FastFilters) Set(field string, v any) {
	if !HasValue(v) {
		delete(f.state, field)
		return
	}
	f.state[field] = v
}

// Get returns the value of a field
func (f *FastFilters) Get(field string) (any, bool) {
	v, ok := f.state[field]
	return v, ok
}

// Clear removes one field
func (f *FastFilters) Clear(field string) {
	delete(f.state, field)
}

// ClearAll removes every value
func (f *FastFilters) ClearAll() {
	f.state = models.FastFilterState{}
}

// Replace swaps in a whole state, e.g. from a saved view
func (f *FastFilters) Replace(state models.FastFilterState) {
	f.state = models.FastFilterState{}
	for k, v := range state {
		f.Set(k, v)
	}
}

// State returns a copy of the values
func (f *FastFilters) State() models.FastFilterState {
	out := f.state.Clone()
	if out == nil {
		out = models.FastFilterState{}
	}
	return out
}

// Len is the number of active fast filters
func (f *FastFilters) Len() int {
	return len(f.state)
}

// Model converts the values to filter items
func (f *FastFilters) Model(cols []models.ColumnDef) models.FilterModel {
	return FastModel(f.state, cols)
}

// FastModel converts fast filter values into synthetic items, ordered by field
func FastModel(state models.FastFilterState, cols []models.ColumnDef) models.FilterModel {
	m := models.NewFilterModel()
	if len(state) == 0 {
		return m
	}
	fields := make([]string, 0, len(state))
	for field, v := range state {
		if HasValue(v) {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	for _, field := range fields {
		filterType := models.FilterText
		if c, ok := models.FindColumn(cols, field); ok {
			filterType = columns.Normalize(c).FilterType
		}
		m.Items = append(m.Items, models.FilterItem{
			ID:       FastIDPrefix + field,
			Field:    field,
			Operator: FastOperator(filterType),
			Value:    state[field],
		})
	}
	return m
}

// FastOperator picks the operator a quick filter of the given type uses
func FastOperator(t models.FilterType) models.FilterOperator {
	switch t {
	case models.FilterSelect, models.FilterMultiSelect:
		return models.OpIsAnyOf
	case models.FilterDate, models.FilterBoolean:
		return models.OpEquals
	}
	return models.OpContains
}

// Options lists the choices of select-style fast filters. Columns with their
// own options keep them; others get the distinct values found in rows.
func Options(cols []models.ColumnDef, rows []models.Row) map[string][]models.FilterOption {
	out := make(map[string][]models.FilterOption)
	for _, c := range cols {
		if !c.EnableColumnFilter {
			continue
		}
		c = columns.Normalize(c)
		if c.FilterType != models.FilterSelect && c.FilterType != models.FilterMultiSelect {
			continue
		}
		if len(c.FilterOptions) > 0 {
			out[c.Field] = c.FilterOptions
			continue
		}
		out[c.Field] = distinct(c, rows)
	}
	return out
}

func distinct(c models.ColumnDef, rows []models.Row) []models.FilterOption {
	seen := make(map[string]bool)
	var opts []models.FilterOption
	add := func(v any) {
		if values.IsEmpty(v) {
			return
		}
		label := values.String(v)
		if seen[label] {
			return
		}
		seen[label] = true
		opts = append(opts, models.FilterOption{Label: label, Value: v})
	}
	for _, r := range rows {
		v := values.Cell(r, c)
		if list, ok := asSlice(v); ok {
			for _, e := range list {
				add(e)
			}
			continue
		}
		add(v)
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Label < opts[j].Label })
	return opts
}
