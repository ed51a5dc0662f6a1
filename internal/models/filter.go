package models

// FilterOperator is a comparison applied to one row value
type FilterOperator string

const (
	OpContains   FilterOperator = "contains"
	OpEquals     FilterOperator = "equals"
	OpStartsWith FilterOperator = "startsWith"
	OpEndsWith   FilterOperator = "endsWith"
	OpIsEmpty    FilterOperator = "isEmpty"
	OpIsNotEmpty FilterOperator = "isNotEmpty"
	OpIsAnyOf    FilterOperator = "isAnyOf"
)

// LogicOperator combines filter items. Only AND is evaluated; OR is kept in
// the model so it survives a save and restore.
type LogicOperator string

const (
	LogicAnd LogicOperator = "AND"
	LogicOr  LogicOperator = "OR"
)

// FilterItem is one condition of an advanced filter
type FilterItem struct {
	ID       string         `json:"id"`
	Field    string         `json:"field"`
	Operator FilterOperator `json:"operator"`
	Value    any            `json:"value,omitempty"`
}

// FilterModel is the list of advanced filter items
type FilterModel struct {
	Items         []FilterItem  `json:"items"`
	LogicOperator LogicOperator `json:"logicOperator"`
}

// NewFilterModel returns an empty AND model
func NewFilterModel() FilterModel {
	return FilterModel{Items: []FilterItem{}, LogicOperator: LogicAnd}
}

// Clone copies the item list
func (m FilterModel) Clone() FilterModel {
	items := make([]FilterItem, len(m.Items))
	copy(items, m.Items)
	logic := m.LogicOperator
	if logic == "" {
		logic = LogicAnd
	}
	return FilterModel{Items: items, LogicOperator: logic}
}

// FastFilterState maps a field to its quick-filter value
type FastFilterState map[string]any

// Clone copies the map
func (s FastFilterState) Clone() FastFilterState {
	if s == nil {
		return nil
	}
	out := make(FastFilterState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// SearchAllFields is the search field value that searches every column
const SearchAllFields = "all"
