// Package columns resolves column order, pinning, visibility and widths.
package columns

import "github.com/rebeliceyang/lazygrid/internal/models"

// TypeConfig holds the defaults of a column type
type TypeConfig struct {
	Width int
	// AutoWidth measures content even when the grid is not auto-fitting
	AutoWidth bool
	// FixedWidth turns measurement off entirely
	FixedWidth bool
	Sortable   bool
	Resizable  bool
	ColumnMenu bool
	FilterType models.FilterType
}

var typeConfigs = map[models.ColumnType]TypeConfig{
	models.TypeID:       {Width: 70, AutoWidth: true, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterNumber},
	models.TypeNumber:   {Width: 100, AutoWidth: true, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterNumber},
	models.TypeCurrency: {Width: 120, AutoWidth: true, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterNumber},
	models.TypePercent:  {Width: 100, AutoWidth: true, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterNumber},
	models.TypeDate:     {Width: 120, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterDate},
	models.TypeDateTime: {Width: 180, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterDateTime},
	models.TypeTime:     {Width: 100, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterText},
	models.TypeText:     {Width: 150, AutoWidth: true, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterText},
	models.TypeLongText: {Width: 300, AutoWidth: true, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterText},
	models.TypeStatus:   {Width: 120, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterSelect},
	models.TypeBoolean:  {Width: 80, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterBoolean},
	models.TypeActions:  {Width: 50, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterText},
	models.TypeUser:     {Width: 200, AutoWidth: true, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterText},
	models.TypeTags:     {Width: 150, AutoWidth: true, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterMultiSelect},
	models.TypeLink:     {Width: 200, AutoWidth: true, Sortable: true, Resizable: true, ColumnMenu: true, FilterType: models.FilterText},
	models.TypeCheckbox: {Width: 60, FixedWidth: true},
}

// ConfigFor returns the defaults of a type. Unknown types use text.
func ConfigFor(t models.ColumnType) TypeConfig {
	if cfg, ok := typeConfigs[t]; ok {
		return cfg
	}
	return typeConfigs[models.TypeText]
}

// Normalize fills unset column options from the type defaults. Width is left
// alone so an explicit width stays distinguishable from a default one.
func Normalize(col models.ColumnDef) models.ColumnDef {
	if col.Type == "" {
		col.Type = models.TypeText
	}
	cfg := ConfigFor(col.Type)
	if col.Sortable == nil {
		col.Sortable = models.Bool(cfg.Sortable)
	}
	if col.Resizable == nil {
		col.Resizable = models.Bool(cfg.Resizable)
	}
	if col.EnableColumnMenu == nil {
		col.EnableColumnMenu = models.Bool(cfg.ColumnMenu)
	}
	if col.Filterable == nil {
		col.Filterable = models.Bool(!col.IsCheckbox())
	}
	if col.FilterType == "" {
		col.FilterType = cfg.FilterType
		if len(col.FilterOptions) > 0 && col.FilterType != models.FilterMultiSelect {
			col.FilterType = models.FilterSelect
		}
	}
	return col
}

// NormalizeAll normalizes every column
func NormalizeAll(cols []models.ColumnDef) []models.ColumnDef {
	out := make([]models.ColumnDef, len(cols))
	for i, c := range cols {
		out[i] = Normalize(c)
	}
	return out
}
