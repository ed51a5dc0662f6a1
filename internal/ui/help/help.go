package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// Section is a titled group of bindings
type Section struct {
	Title string
	Keys  []KeyBinding
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{"Esc", "Close dialog or dismiss error"},
		{"r, F5", "Refresh remote data"},
		{"Ctrl+S", "Write grid state now"},
		{"R", "Reset grid state"},
	}
}

// GetNavigationKeys returns navigation key bindings
func GetNavigationKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"←/h", "Previous column"},
		{"→/l", "Next column"},
		{"n, ]", "Next page"},
		{"p, [", "Previous page"},
		{"g / G", "First or last page"},
	}
}

// GetGridKeys returns key bindings that change the grid
func GetGridKeys() []KeyBinding {
	return []KeyBinding{
		{"/", "Search"},
		{"s", "Cycle sort on column"},
		{"f", "Open filter editor"},
		{"F", "Clear all filters"},
		{"space", "Toggle row selection"},
		{"a", "Toggle page selection"},
		{"A", "Select all rows"},
		{"u", "Clear selection"},
		{"t", "Cycle quick filter on column"},
		{"T", "Clear quick filters"},
		{"D", "Cycle density"},
	}
}

// GetColumnKeys returns column key bindings
func GetColumnKeys() []KeyBinding {
	return []KeyBinding{
		{"H", "Hide column"},
		{"U", "Show all columns"},
		{"P", "Cycle column pin"},
		{"< / >", "Move column"},
		{"- / +", "Resize column"},
	}
}

// GetShareKeys returns export and saved view key bindings
func GetShareKeys() []KeyBinding {
	return []KeyBinding{
		{"e", "Export filtered rows to CSV"},
		{"E", "Export selected rows to CSV"},
		{"x", "Export filtered rows to Excel"},
		{"y", "Copy grid state to clipboard"},
		{"Ctrl+V", "Import grid state from clipboard"},
		{"c", "Copy row to clipboard"},
		{"v", "Save current view"},
		{"V", "Open saved views"},
	}
}

// Sections returns every group shown in the help panel
func Sections() []Section {
	return []Section{
		{"Global", GetGlobalKeys()},
		{"Navigation", GetNavigationKeys()},
		{"Grid", GetGridKeys()},
		{"Columns", GetColumnKeys()},
		{"Export & Views", GetShareKeys()},
	}
}

// Render creates the help view
func Render(width, height int, th theme.Theme) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	b.WriteString(titleStyle.Render("lazygrid - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, s := range Sections() {
		b.WriteString(sectionStyle.Render(s.Title))
		b.WriteString("\n")
		for _, kb := range s.Keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(max(width-4, 20)).
		Height(max(height-4, 5))

	return boxStyle.Render(b.String())
}
