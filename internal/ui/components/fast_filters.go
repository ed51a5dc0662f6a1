package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
	"github.com/rebeliceyang/lazygrid/internal/values"
)

// RenderFastFilters draws the quick filter inputs of columns that have one
func RenderFastFilters(th theme.Theme, registry *filter.Registry, cols []models.ColumnDef, state models.FastFilterState) string {
	var parts []string
	for _, c := range cols {
		if !c.EnableColumnFilter {
			continue
		}
		v, active := state[c.Field]
		text := registry.For(c.FilterType).RenderQuickInput(c, v)
		style := lipgloss.NewStyle().Foreground(th.Muted)
		if active && filter.HasValue(v) {
			style = lipgloss.NewStyle().Foreground(th.FilterBadge).Bold(true)
		}
		parts = append(parts, style.Render(text))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ")
}

// NextFastValue steps a select or boolean quick filter through its
// choices, ending with no value. Other filter types return ok false.
func NextFastValue(col models.ColumnDef, options []models.FilterOption, current any, has bool) (next any, clear bool, ok bool) {
	switch col.FilterType {
	case models.FilterBoolean:
		switch {
		case !has:
			return true, false, true
		case current == true:
			return false, false, true
		default:
			return nil, true, true
		}
	case models.FilterSelect, models.FilterMultiSelect:
		if len(options) == 0 {
			return nil, true, true
		}
		if !has {
			return options[0].Value, false, true
		}
		for i, o := range options {
			if values.Equal(o.Value, current) && i+1 < len(options) {
				return options[i+1].Value, false, true
			}
		}
		return nil, true, true
	default:
		return nil, false, false
	}
}
