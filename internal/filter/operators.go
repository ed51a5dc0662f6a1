package filter

import (
	"strings"

	"github.com/rebeliceyang/lazygrid/internal/columns"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/values"
)

var operatorSets = map[models.FilterType][]models.FilterOperator{
	models.FilterText: {
		models.OpContains, models.OpEquals, models.OpStartsWith, models.OpEndsWith,
		models.OpIsEmpty, models.OpIsNotEmpty,
	},
	models.FilterNumber:      {models.OpEquals, models.OpIsEmpty, models.OpIsNotEmpty},
	models.FilterDate:        {models.OpEquals, models.OpIsEmpty, models.OpIsNotEmpty},
	models.FilterDateTime:    {models.OpEquals, models.OpIsEmpty, models.OpIsNotEmpty},
	models.FilterBoolean:     {models.OpEquals, models.OpIsEmpty, models.OpIsNotEmpty},
	models.FilterSelect:      {models.OpIsAnyOf, models.OpEquals, models.OpIsEmpty, models.OpIsNotEmpty},
	models.FilterMultiSelect: {models.OpIsAnyOf, models.OpIsEmpty, models.OpIsNotEmpty},
}

var operatorLabels = map[models.FilterOperator]string{
	models.OpContains:   "contains",
	models.OpEquals:     "equals",
	models.OpStartsWith: "starts with",
	models.OpEndsWith:   "ends with",
	models.OpIsEmpty:    "is empty",
	models.OpIsNotEmpty: "is not empty",
	models.OpIsAnyOf:    "is any of",
}

// OperatorsFor returns the operators offered for a column's filter type
func OperatorsFor(col models.ColumnDef) []models.FilterOperator {
	return OperatorsForType(columns.Normalize(col).FilterType)
}

// OperatorsForType returns the operator set of a filter type; unknown types use text
func OperatorsForType(t models.FilterType) []models.FilterOperator {
	ops, ok := operatorSets[t]
	if !ok {
		ops = operatorSets[models.FilterText]
	}
	out := make([]models.FilterOperator, len(ops))
	copy(out, ops)
	return out
}

// OperatorLabel is the human readable name of an operator
func OperatorLabel(op models.FilterOperator) string {
	if l, ok := operatorLabels[op]; ok {
		return l
	}
	return string(op)
}

// NeedsValue reports whether an operator takes a value
func NeedsValue(op models.FilterOperator) bool {
	return op != models.OpIsEmpty && op != models.OpIsNotEmpty
}

// InputStrategy renders the filter inputs of one filter type. The pipeline
// never calls it; only renderers do.
type InputStrategy interface {
	RenderAdvancedInput(col models.ColumnDef, value any) string
	RenderQuickInput(col models.ColumnDef, value any) string
}

// Registry maps filter types to input strategies
type Registry struct {
	strategies map[models.FilterType]InputStrategy
}

// NewRegistry returns a registry with the built-in text, select and boolean inputs
func NewRegistry() *Registry {
	r := &Registry{strategies: map[models.FilterType]InputStrategy{}}
	text := textInput{}
	for _, t := range []models.FilterType{models.FilterText, models.FilterNumber, models.FilterDate, models.FilterDateTime} {
		r.Register(t, text)
	}
	r.Register(models.FilterSelect, selectInput{})
	r.Register(models.FilterMultiSelect, selectInput{})
	r.Register(models.FilterBoolean, booleanInput{})
	return r
}

// Register sets the strategy of a filter type
func (r *Registry) Register(t models.FilterType, s InputStrategy) {
	r.strategies[t] = s
}

// For returns the strategy of a type, falling back to text
func (r *Registry) For(t models.FilterType) InputStrategy {
	if s, ok := r.strategies[t]; ok {
		return s
	}
	if s, ok := r.strategies[models.FilterText]; ok {
		return s
	}
	return textInput{}
}

type textInput struct{}

func (textInput) RenderAdvancedInput(col models.ColumnDef, value any) string {
	return col.Title() + ": " + values.String(value)
}

func (textInput) RenderQuickInput(col models.ColumnDef, value any) string {
	if !HasValue(value) {
		return col.Title() + " …"
	}
	return col.Title() + " ~ " + values.String(value)
}

type selectInput struct{}

func (selectInput) RenderAdvancedInput(col models.ColumnDef, value any) string {
	return col.Title() + " in [" + joinValues(value) + "]"
}

func (selectInput) RenderQuickInput(col models.ColumnDef, value any) string {
	if !HasValue(value) {
		return col.Title() + ": any"
	}
	return col.Title() + ": " + joinValues(value)
}

type booleanInput struct{}

func (booleanInput) RenderAdvancedInput(col models.ColumnDef, value any) string {
	return col.Title() + " = " + values.YesNo(value)
}

func (booleanInput) RenderQuickInput(col models.ColumnDef, value any) string {
	if !HasValue(value) {
		return col.Title() + ": any"
	}
	return col.Title() + ": " + values.YesNo(value)
}

func joinValues(v any) string {
	list, ok := asSlice(v)
	if !ok {
		return values.String(v)
	}
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = values.String(e)
	}
	return strings.Join(parts, ", ")
}
