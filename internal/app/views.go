package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazygrid/internal/views"
)

func (a *App) handleSaveView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.nameInput.Blur()
		a.mode = a.closeNameMode()
		return a, nil
	case "enter":
		name := a.nameInput.Value()
		a.nameInput.Blur()
		next := a.closeNameMode()
		a.mode = next

		if a.opts.Views == nil {
			a.setStatus("saved views are not available")
			return a, nil
		}
		if a.renaming != "" {
			if err := a.opts.Views.Rename(a.renaming, name); err != nil {
				a.ShowError("Rename failed", err.Error())
			}
			a.renaming = ""
			return a, nil
		}
		view, err := a.opts.Views.Save(name, a.grid.State(), views.Meta{})
		if err != nil {
			a.ShowError("Save failed", err.Error())
			return a, nil
		}
		a.setStatus("saved view %q", view.Name)
		return a, nil
	}

	var cmd tea.Cmd
	a.nameInput, cmd = a.nameInput.Update(msg)
	return a, cmd
}

// closeNameMode returns to the views list after a rename, otherwise to the grid
func (a *App) closeNameMode() ViewMode {
	if a.renaming != "" {
		return ViewsMode
	}
	return NormalMode
}

func (a *App) handleViews(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := a.opts.Views.List()
	switch msg.String() {
	case "esc", "V", "q":
		a.mode = NormalMode
	case "up", "k":
		if a.viewCursor > 0 {
			a.viewCursor--
		}
	case "down", "j":
		if a.viewCursor < len(list)-1 {
			a.viewCursor++
		}
	case "enter":
		if a.viewCursor < len(list) {
			a.grid.ApplyView(list[a.viewCursor])
			a.gridView.Cursor = 0
			a.mode = NormalMode
			a.setStatus("applied view %q", list[a.viewCursor].Name)
		}
	case "d", "x":
		if a.viewCursor < len(list) {
			if err := a.opts.Views.Delete(list[a.viewCursor].ID); err != nil {
				a.ShowError("Delete failed", err.Error())
				return a, nil
			}
			if a.viewCursor > 0 && a.viewCursor >= len(list)-1 {
				a.viewCursor--
			}
		}
	case "r":
		if a.viewCursor < len(list) {
			a.renaming = list[a.viewCursor].ID
			a.nameInput.SetValue(list[a.viewCursor].Name)
			a.nameInput.Focus()
			a.mode = SaveViewMode
		}
	}
	return a, nil
}

func (a *App) renderViews() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(a.theme.Foreground).
		Background(a.theme.Info).
		Padding(0, 1).
		Bold(true)
	b.WriteString(title.Render("Saved Views"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(a.theme.Muted).Render("Enter=Apply r=Rename d=Delete Esc=Close"))
	b.WriteString("\n\n")

	list := a.opts.Views.List()
	if len(list) == 0 {
		b.WriteString("No saved views. Press v on the grid to save one.")
	}
	for i, v := range list {
		line := fmt.Sprintf("%-30s %-12s %s  %s", v.Name, v.Area, v.CreatedAt.Local().Format("2006-01-02 15:04"), v.CreatedBy)
		style := lipgloss.NewStyle().Padding(0, 1)
		if i == a.viewCursor {
			style = style.Background(a.theme.Selection).Foreground(a.theme.Foreground)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.theme.Border).
		Padding(1).
		Width(min(max(a.width-4, 50), 100)).
		Render(b.String())
}
