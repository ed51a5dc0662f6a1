package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazygrid/internal/columns"
	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

// ApplyFilterModelMsg is sent when the edited model should replace the grid's
type ApplyFilterModelMsg struct {
	Model models.FilterModel
}

// CloseFilterEditorMsg is sent when the filter editor should close
type CloseFilterEditorMsg struct{}

type editMode int

const (
	modeList editMode = iota
	modeColumn
	modeOperator
	modeValue
)

// FilterEditor edits the advanced filter model one condition at a time
type FilterEditor struct {
	Width  int
	Height int
	Theme  theme.Theme

	registry *filter.Registry
	builder  *filter.Builder
	columns  []models.ColumnDef
	options  map[string][]models.FilterOption
	model    models.FilterModel

	mode         editMode
	currentIndex int
	columnIndex  int
	opIndex      int
	optionIndex  int
	ops          []models.FilterOperator
	value        textinput.Model
	// editing is the id of the condition being changed, empty when adding
	editing string

	validationError string
	previewSQL      string
}

// NewFilterEditor creates a filter editor using the given input strategies
func NewFilterEditor(th theme.Theme, registry *filter.Registry) *FilterEditor {
	if registry == nil {
		registry = filter.NewRegistry()
	}
	ti := textinput.New()
	ti.Placeholder = "value"
	ti.CharLimit = 256
	return &FilterEditor{
		Width:    80,
		Height:   24,
		Theme:    th,
		registry: registry,
		builder:  filter.NewBuilder(nil),
		value:    ti,
		model:    models.NewFilterModel(),
	}
}

// Open loads the grid's columns, option lists and current model
func (fe *FilterEditor) Open(cols []models.ColumnDef, options map[string][]models.FilterOption, model models.FilterModel) {
	fe.columns = fe.columns[:0]
	for _, c := range cols {
		c = columns.Normalize(c)
		if c.IsFilterable() {
			fe.columns = append(fe.columns, c)
		}
	}
	fe.options = options
	fe.model = model.Clone()
	fe.builder = filter.NewBuilder(fe.columns)
	fe.mode = modeList
	fe.currentIndex = 0
	fe.validationError = ""
	fe.updatePreview()
}

// Model returns the model being edited
func (fe *FilterEditor) Model() models.FilterModel {
	return fe.model.Clone()
}

// Update handles keyboard input
func (fe *FilterEditor) Update(msg tea.KeyMsg) (*FilterEditor, tea.Cmd) {
	switch fe.mode {
	case modeColumn:
		return fe.handleColumnMode(msg)
	case modeOperator:
		return fe.handleOperatorMode(msg)
	case modeValue:
		return fe.handleValueMode(msg)
	default:
		return fe.handleListMode(msg)
	}
}

func (fe *FilterEditor) handleListMode(msg tea.KeyMsg) (*FilterEditor, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if fe.currentIndex > 0 {
			fe.currentIndex--
		}
	case "down", "j":
		if fe.currentIndex < len(fe.model.Items)-1 {
			fe.currentIndex++
		}
	case "a", "n":
		if len(fe.columns) == 0 {
			fe.validationError = "No filterable columns"
			return fe, nil
		}
		fe.editing = ""
		fe.columnIndex = 0
		fe.mode = modeColumn
	case "e":
		if item, ok := fe.current(); ok {
			fe.editing = item.ID
			fe.columnIndex = max(fe.columnPos(item.Field), 0)
			fe.mode = modeColumn
		}
	case "d", "x":
		if item, ok := fe.current(); ok {
			fe.model = filter.Remove(fe.model, item.ID)
			if fe.currentIndex >= len(fe.model.Items) && fe.currentIndex > 0 {
				fe.currentIndex--
			}
			fe.updatePreview()
		}
	case "C":
		fe.model = filter.Clear(fe.model)
		fe.currentIndex = 0
		fe.updatePreview()
	case "enter":
		fe.validationError = ""
		model := fe.model.Clone()
		return fe, func() tea.Msg {
			return ApplyFilterModelMsg{Model: model}
		}
	case "esc":
		return fe, func() tea.Msg {
			return CloseFilterEditorMsg{}
		}
	}
	return fe, nil
}

func (fe *FilterEditor) handleColumnMode(msg tea.KeyMsg) (*FilterEditor, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fe.mode = modeList
	case "up", "k":
		if fe.columnIndex > 0 {
			fe.columnIndex--
		}
	case "down", "j":
		if fe.columnIndex < len(fe.columns)-1 {
			fe.columnIndex++
		}
	case "enter":
		fe.ops = filter.OperatorsFor(fe.column())
		fe.opIndex = 0
		fe.mode = modeOperator
	}
	return fe, nil
}

func (fe *FilterEditor) handleOperatorMode(msg tea.KeyMsg) (*FilterEditor, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fe.mode = modeColumn
	case "up", "k":
		if fe.opIndex > 0 {
			fe.opIndex--
		}
	case "down", "j":
		if fe.opIndex < len(fe.ops)-1 {
			fe.opIndex++
		}
	case "enter":
		op := fe.ops[fe.opIndex]
		if !filter.NeedsValue(op) {
			fe.commit(nil)
			return fe, nil
		}
		fe.optionIndex = 0
		fe.value.SetValue("")
		fe.value.Focus()
		fe.mode = modeValue
	}
	return fe, nil
}

func (fe *FilterEditor) handleValueMode(msg tea.KeyMsg) (*FilterEditor, tea.Cmd) {
	options := fe.options[fe.column().Field]
	switch msg.String() {
	case "esc":
		fe.value.Blur()
		fe.mode = modeOperator
		return fe, nil
	case "enter":
		v := fe.parseValue()
		if !filter.HasValue(v) {
			fe.validationError = "Enter a value"
			return fe, nil
		}
		fe.value.Blur()
		fe.commit(v)
		return fe, nil
	case "up":
		if len(options) > 0 && fe.optionIndex > 0 {
			fe.optionIndex--
			fe.value.SetValue(optionValues(options[fe.optionIndex : fe.optionIndex+1]))
		}
		return fe, nil
	case "down":
		if len(options) > 0 && fe.optionIndex < len(options)-1 {
			fe.optionIndex++
			fe.value.SetValue(optionValues(options[fe.optionIndex : fe.optionIndex+1]))
		}
		return fe, nil
	}

	var cmd tea.Cmd
	fe.value, cmd = fe.value.Update(msg)
	return fe, cmd
}

// parseValue reads the typed text; isAnyOf takes a comma separated list
func (fe *FilterEditor) parseValue() any {
	text := strings.TrimSpace(fe.value.Value())
	if fe.ops[fe.opIndex] != models.OpIsAnyOf {
		return text
	}
	var list []any
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}

func (fe *FilterEditor) commit(v any) {
	item := models.FilterItem{
		ID:       fe.editing,
		Field:    fe.column().Field,
		Operator: fe.ops[fe.opIndex],
		Value:    v,
	}
	if fe.editing != "" {
		fe.model = filter.Update(fe.model, item)
	} else {
		fe.model = filter.Add(fe.model, item)
		fe.currentIndex = len(fe.model.Items) - 1
	}
	fe.editing = ""
	fe.validationError = ""
	fe.mode = modeList
	fe.updatePreview()
}

func (fe *FilterEditor) current() (models.FilterItem, bool) {
	if fe.currentIndex < 0 || fe.currentIndex >= len(fe.model.Items) {
		return models.FilterItem{}, false
	}
	return fe.model.Items[fe.currentIndex], true
}

func (fe *FilterEditor) column() models.ColumnDef {
	if fe.columnIndex < 0 || fe.columnIndex >= len(fe.columns) {
		return models.ColumnDef{}
	}
	return fe.columns[fe.columnIndex]
}

func (fe *FilterEditor) columnPos(field string) int {
	for i, c := range fe.columns {
		if c.Field == field {
			return i
		}
	}
	return -1
}

// updatePreview shows the WHERE clause a PostgreSQL source would run
func (fe *FilterEditor) updatePreview() {
	where, args := fe.builder.BuildWhere(fe.model, "", "", 1)
	if where == "" {
		fe.previewSQL = ""
		return
	}
	fe.previewSQL = fmt.Sprintf("%s  %v", where, args)
}

// Describe renders one condition with the input strategy of its column
func (fe *FilterEditor) Describe(item models.FilterItem) string {
	pos := fe.columnPos(item.Field)
	if pos < 0 {
		return fmt.Sprintf("%s %s %v", item.Field, filter.OperatorLabel(item.Operator), item.Value)
	}
	col := fe.columns[pos]
	if !filter.NeedsValue(item.Operator) {
		return col.Title() + " " + filter.OperatorLabel(item.Operator)
	}
	return fmt.Sprintf("[%s] %s", filter.OperatorLabel(item.Operator),
		fe.registry.For(col.FilterType).RenderAdvancedInput(col, item.Value))
}

// View renders the filter editor
func (fe *FilterEditor) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(fe.Theme.Foreground).
		Background(fe.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Filters"))

	instructionStyle := lipgloss.NewStyle().
		Foreground(fe.Theme.Muted).
		Padding(0, 1)

	var instructions string
	switch fe.mode {
	case modeColumn:
		instructions = "↑↓ Select column, Enter to confirm, Esc to cancel"
	case modeOperator:
		instructions = "↑↓ Select operator, Enter to confirm, Esc to go back"
	case modeValue:
		instructions = "Type value (comma separated for 'is any of'), ↑↓ pick option, Enter to confirm"
	default:
		instructions = "a=Add e=Edit d=Delete C=Clear Enter=Apply Esc=Cancel"
	}
	sections = append(sections, instructionStyle.Render(instructions))

	if fe.validationError != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(fe.Theme.Error).
			Padding(0, 1).
			Bold(true)
		sections = append(sections, errorStyle.Render("Error: "+fe.validationError))
	}

	selectedStyle := lipgloss.NewStyle().Padding(0, 1).Background(fe.Theme.Selection).Foreground(fe.Theme.Foreground)
	plainStyle := lipgloss.NewStyle().Padding(0, 1)

	if len(fe.model.Items) == 0 {
		sections = append(sections, plainStyle.Render("No conditions"))
	} else {
		sections = append(sections, "\nConditions (all must match):")
		for i, item := range fe.model.Items {
			style := plainStyle
			if i == fe.currentIndex && fe.mode == modeList {
				style = selectedStyle
			}
			sections = append(sections, style.Render(fmt.Sprintf(" %d. %s", i+1, fe.Describe(item))))
		}
	}

	switch fe.mode {
	case modeColumn:
		sections = append(sections, "\nColumn:")
		for i, c := range fe.columns {
			style := plainStyle
			if i == fe.columnIndex {
				style = selectedStyle
			}
			sections = append(sections, style.Render("  "+c.Title()))
		}
	case modeOperator:
		sections = append(sections, "\nColumn: "+fe.column().Title(), "Operator:")
		for i, op := range fe.ops {
			style := plainStyle
			if i == fe.opIndex {
				style = selectedStyle
			}
			sections = append(sections, style.Render("  "+filter.OperatorLabel(op)))
		}
	case modeValue:
		sections = append(sections,
			fmt.Sprintf("\n%s %s", fe.column().Title(), filter.OperatorLabel(fe.ops[fe.opIndex])),
			fe.value.View())
		if opts := fe.options[fe.column().Field]; len(opts) > 0 {
			sections = append(sections, instructionStyle.Render("Options: "+optionLabels(opts)))
		}
	}

	if fe.previewSQL != "" {
		previewStyle := lipgloss.NewStyle().
			Foreground(fe.Theme.Muted).
			Padding(0, 1).
			Italic(true)
		sections = append(sections, "\nSQL Preview:", previewStyle.Render(fe.previewSQL))
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fe.Theme.Border).
		Foreground(fe.Theme.Foreground).
		Width(fe.Width).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}

func optionValues(opts []models.FilterOption) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		parts[i] = fmt.Sprint(o.Value)
	}
	return strings.Join(parts, ", ")
}

func optionLabels(opts []models.FilterOption) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		parts[i] = o.Label
	}
	return strings.Join(parts, ", ")
}
