package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

// SearchChangedMsg is sent on every edit of the query or field
type SearchChangedMsg struct {
	Query string
	Field string
}

// SearchSubmitMsg is sent when the query should apply right away
type SearchSubmitMsg struct {
	Query string
	Field string
}

// CloseSearchMsg is sent when search should be closed
type CloseSearchMsg struct{}

// SearchField is one choice of the field selector
type SearchField struct {
	Field string
	Label string
}

// SearchInput provides a search box with a field selector
type SearchInput struct {
	Input   textinput.Model
	Theme   theme.Theme
	Width   int
	Visible bool

	fields []SearchField
	field  int
}

// NewSearchInput creates a new search input
func NewSearchInput(th theme.Theme) *SearchInput {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 40

	return &SearchInput{
		Input:  ti,
		Theme:  th,
		fields: []SearchField{{Field: models.SearchAllFields, Label: "All"}},
	}
}

// SetColumns offers every searchable column next to "All"
func (s *SearchInput) SetColumns(cols []models.ColumnDef) {
	current := s.Field()
	s.fields = []SearchField{{Field: models.SearchAllFields, Label: "All"}}
	s.field = 0
	for _, c := range cols {
		if c.IsCheckbox() || c.Type == models.TypeActions {
			continue
		}
		s.fields = append(s.fields, SearchField{Field: c.Field, Label: c.Title()})
		if c.Field == current {
			s.field = len(s.fields) - 1
		}
	}
}

// Field returns the selected search field
func (s *SearchInput) Field() string {
	if s.field < 0 || s.field >= len(s.fields) {
		return models.SearchAllFields
	}
	return s.fields[s.field].Field
}

// NextField cycles the field selector
func (s *SearchInput) NextField() {
	if len(s.fields) > 0 {
		s.field = (s.field + 1) % len(s.fields)
	}
}

// Reset clears the query and field
func (s *SearchInput) Reset() {
	s.Input.SetValue("")
	s.field = 0
}

// Update handles messages
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab":
			s.NextField()
			return s, s.changed()
		case "enter":
			query, field := s.Input.Value(), s.Field()
			return s, func() tea.Msg {
				return SearchSubmitMsg{Query: query, Field: field}
			}
		case "esc":
			return s, func() tea.Msg {
				return CloseSearchMsg{}
			}
		}
	}

	before := s.Input.Value()
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if s.Input.Value() != before {
		return s, tea.Batch(cmd, s.changed())
	}
	return s, cmd
}

func (s *SearchInput) changed() tea.Cmd {
	query, field := s.Input.Value(), s.Field()
	return func() tea.Msg {
		return SearchChangedMsg{Query: query, Field: field}
	}
}

// View renders the search input
func (s *SearchInput) View() string {
	label := "All"
	if s.field >= 0 && s.field < len(s.fields) {
		label = s.fields[s.field].Label
	}
	fieldStyle := lipgloss.NewStyle().
		Foreground(s.Theme.Success).
		Bold(true)

	s.Input.Width = max(s.Width-24, 20)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.BorderFocused).
		Padding(0, 1).
		Width(max(s.Width, 30))

	helpStyle := lipgloss.NewStyle().
		Foreground(s.Theme.Muted).
		Italic(true)

	content := fieldStyle.Render("["+label+"]") + " " + s.Input.View()
	helpText := helpStyle.Render("Tab: field │ Enter: apply now │ Esc: close")

	return boxStyle.Render(content + "\n" + helpText)
}
