package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestSearchInput_TypingEmitsChange(t *testing.T) {
	s := NewSearchInput(theme.DefaultTheme())
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})

	var got *SearchChangedMsg
	for _, msg := range runCmd(cmd) {
		if m, ok := msg.(SearchChangedMsg); ok {
			got = &m
		}
	}
	if got == nil || got.Query != "a" || got.Field != models.SearchAllFields {
		t.Errorf("expected change to %q in all fields, got %+v", "a", got)
	}
}

func TestSearchInput_TabCyclesFields(t *testing.T) {
	s := NewSearchInput(theme.DefaultTheme())
	s.SetColumns([]models.ColumnDef{
		{Field: "sel", Type: models.TypeCheckbox},
		{Field: "name"},
		{Field: "city"},
	})

	s.Update(tea.KeyMsg{Type: tea.KeyTab})
	if s.Field() != "name" {
		t.Errorf("expected name, got %s", s.Field())
	}
	s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s.Update(tea.KeyMsg{Type: tea.KeyTab})
	if s.Field() != models.SearchAllFields {
		t.Errorf("expected wrap to all, got %s", s.Field())
	}
}

func TestSearchInput_EnterAndEsc(t *testing.T) {
	s := NewSearchInput(theme.DefaultTheme())
	s.Input.SetValue("ada")

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if msg, ok := cmd().(SearchSubmitMsg); !ok || msg.Query != "ada" {
		t.Errorf("expected submit of ada, got %#v", cmd())
	}
	_, cmd = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(CloseSearchMsg); !ok {
		t.Errorf("expected close message")
	}
}
