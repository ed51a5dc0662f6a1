package models

import (
	"encoding/json"
	"fmt"
)

// ColumnType selects default width, formatter and filter input for a column
type ColumnType string

const (
	TypeID       ColumnType = "id"
	TypeNumber   ColumnType = "number"
	TypeCurrency ColumnType = "currency"
	TypePercent  ColumnType = "percent"
	TypeDate     ColumnType = "date"
	TypeDateTime ColumnType = "datetime"
	TypeTime     ColumnType = "time"
	TypeText     ColumnType = "text"
	TypeLongText ColumnType = "longText"
	TypeStatus   ColumnType = "status"
	TypeBoolean  ColumnType = "boolean"
	TypeActions  ColumnType = "actions"
	TypeUser     ColumnType = "user"
	TypeTags     ColumnType = "tags"
	TypeLink     ColumnType = "link"
	TypeCheckbox ColumnType = "checkbox"
)

// FilterType selects the input and operator set of a column filter
type FilterType string

const (
	FilterText        FilterType = "text"
	FilterNumber      FilterType = "number"
	FilterDate        FilterType = "date"
	FilterDateTime    FilterType = "datetime"
	FilterSelect      FilterType = "select"
	FilterMultiSelect FilterType = "multiSelect"
	FilterBoolean     FilterType = "boolean"
)

// PinSide fixes a column to one edge of the grid
type PinSide string

const (
	// PinNone is an explicit "not pinned"; it encodes as JSON null
	PinNone  PinSide = ""
	PinLeft  PinSide = "left"
	PinRight PinSide = "right"
)

// MarshalJSON encodes PinNone as null
func (p PinSide) MarshalJSON() ([]byte, error) {
	if p == PinNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON accepts "left", "right" or null
func (p *PinSide) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = PinNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch PinSide(s) {
	case PinLeft, PinRight:
		*p = PinSide(s)
	default:
		*p = PinNone
	}
	return nil
}

// FilterOption is one choice of a select filter
type FilterOption struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// ColumnDef describes one column of the grid
type ColumnDef struct {
	Field      string     `json:"field" yaml:"field"`
	HeaderName string     `json:"headerName,omitempty" yaml:"headerName,omitempty"`
	Type       ColumnType `json:"type,omitempty" yaml:"type,omitempty"`

	Width    int     `json:"width,omitempty" yaml:"width,omitempty"`
	Flex     float64 `json:"flex,omitempty" yaml:"flex,omitempty"`
	MinWidth int     `json:"minWidth,omitempty" yaml:"minWidth,omitempty"`
	MaxWidth int     `json:"maxWidth,omitempty" yaml:"maxWidth,omitempty"`
	Pinned   PinSide `json:"pinned,omitempty" yaml:"pinned,omitempty"`

	Sortable         *bool `json:"sortable,omitempty" yaml:"sortable,omitempty"`
	Resizable        *bool `json:"resizable,omitempty" yaml:"resizable,omitempty"`
	Filterable       *bool `json:"filterable,omitempty" yaml:"filterable,omitempty"`
	EnableColumnMenu *bool `json:"enableColumnMenu,omitempty" yaml:"enableColumnMenu,omitempty"`

	// EnableColumnFilter gives the column a fast filter
	EnableColumnFilter     bool           `json:"enableColumnFilter,omitempty" yaml:"enableColumnFilter,omitempty"`
	FilterType             FilterType     `json:"filterType,omitempty" yaml:"filterType,omitempty"`
	FilterOptions          []FilterOption `json:"filterOptions,omitempty" yaml:"filterOptions,omitempty"`
	FilterVisibleInitially bool           `json:"filterVisibleInitially,omitempty" yaml:"filterVisibleInitially,omitempty"`
	DefaultFilterValue     any            `json:"defaultFilterValue,omitempty" yaml:"defaultFilterValue,omitempty"`

	// Expression computes the value from the row, e.g. "row.price * row.qty"
	Expression string `json:"expression,omitempty" yaml:"expression,omitempty"`

	ValueGetter    func(Row) any    `json:"-" yaml:"-"`
	ValueFormatter func(any) string `json:"-" yaml:"-"`
	// Render is opaque to the engine and passed through to renderers
	Render any `json:"-" yaml:"-"`
}

// Title returns the header name, falling back to the field
func (c ColumnDef) Title() string {
	if c.HeaderName != "" {
		return c.HeaderName
	}
	return c.Field
}

// IsCheckbox reports whether this is the selection column
func (c ColumnDef) IsCheckbox() bool {
	return c.Type == TypeCheckbox
}

// IsSortable defaults to true, except for the checkbox column
func (c ColumnDef) IsSortable() bool {
	return flag(c.Sortable, !c.IsCheckbox())
}

// IsResizable defaults to true, except for the checkbox column
func (c ColumnDef) IsResizable() bool {
	return flag(c.Resizable, !c.IsCheckbox())
}

// IsFilterable defaults to true, except for the checkbox column
func (c ColumnDef) IsFilterable() bool {
	return flag(c.Filterable, !c.IsCheckbox())
}

// HasColumnMenu defaults to true, except for the checkbox column
func (c ColumnDef) HasColumnMenu() bool {
	return flag(c.EnableColumnMenu, !c.IsCheckbox())
}

func flag(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Bool returns a pointer for the optional column flags
func Bool(v bool) *bool {
	return &v
}

// FindColumn returns the column with the given field
func FindColumn(columns []ColumnDef, field string) (ColumnDef, bool) {
	for _, c := range columns {
		if c.Field == field {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// ValidateColumns rejects duplicate fields and more than one checkbox column
func ValidateColumns(columns []ColumnDef) error {
	seen := make(map[string]bool, len(columns))
	checkboxes := 0
	for _, c := range columns {
		if c.Field == "" {
			return fmt.Errorf("column without field")
		}
		if seen[c.Field] {
			return fmt.Errorf("duplicate column field %q", c.Field)
		}
		seen[c.Field] = true
		if c.IsCheckbox() {
			checkboxes++
		}
	}
	if checkboxes > 1 {
		return fmt.Errorf("at most one checkbox column allowed, got %d", checkboxes)
	}
	return nil
}
