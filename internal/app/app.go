package app

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rebeliceyang/lazygrid/internal/config"
	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/grid"
	"github.com/rebeliceyang/lazygrid/internal/ui/components"
	"github.com/rebeliceyang/lazygrid/internal/ui/help"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
	"github.com/rebeliceyang/lazygrid/internal/views"
)

// ViewMode is the screen the app is showing
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
	SearchMode
	FilterMode
	SaveViewMode
	ViewsMode
)

// GridChangedMsg is sent when the grid changed outside the update loop,
// for example when a remote page arrives
type GridChangedMsg struct{}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Title   string
	Message string
}

// Notifier turns grid change callbacks into messages for the program
type Notifier struct {
	ch chan struct{}
}

// NewNotifier creates a notifier
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Notify never blocks; changes that arrive while one is pending merge.
// It is meant for grid.Options.OnChange.
func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *Notifier) wait() tea.Cmd {
	return func() tea.Msg {
		<-n.ch
		return GridChangedMsg{}
	}
}

// Options configures the App
type Options struct {
	Grid     *grid.Grid
	Config   *config.Config
	Views    *views.Manager
	Notifier *Notifier
	Logger   *zap.Logger
	// Title is shown in the top bar
	Title string
	// ExportDir receives CSV exports, the working directory when empty
	ExportDir string
	// CopyText and PasteText default to the system clipboard
	CopyText  func(string) error
	PasteText func() (string, error)
}

// App is the main application model
type App struct {
	opts   Options
	grid   *grid.Grid
	config *config.Config
	theme  theme.Theme
	logger *zap.Logger

	mode   ViewMode
	width  int
	height int

	registry     *filter.Registry
	gridView     *components.GridView
	searchInput  *components.SearchInput
	filterEditor *components.FilterEditor
	nameInput    textinput.Model

	viewCursor int
	// renaming is the id of the saved view being renamed
	renaming string

	status    string
	showError bool
	errTitle  string
	errText   string
}

// New creates a new App instance
func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.CopyText == nil {
		opts.CopyText = clipboard.WriteAll
	}
	if opts.PasteText == nil {
		opts.PasteText = clipboard.ReadAll
	}
	if opts.Title == "" {
		opts.Title = "lazygrid"
	}

	th := theme.Get(cfg.UI.Theme)
	registry := filter.NewRegistry()

	name := textinput.New()
	name.Placeholder = "View name"
	name.CharLimit = 120

	a := &App{
		opts:         opts,
		grid:         opts.Grid,
		config:       cfg,
		theme:        th,
		logger:       opts.Logger.Named("app"),
		registry:     registry,
		gridView:     components.NewGridView(th, cfg.UI.PxPerCell),
		searchInput:  components.NewSearchInput(th),
		filterEditor: components.NewFilterEditor(th, registry),
		nameInput:    name,
	}
	a.searchInput.SetColumns(a.grid.Columns())
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.opts.Notifier == nil {
		return nil
	}
	return a.opts.Notifier.wait()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case GridChangedMsg:
		if a.opts.Notifier == nil {
			return a, nil
		}
		return a, a.opts.Notifier.wait()

	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.grid.SetContainerWidth(msg.Width * max(a.config.UI.PxPerCell, 1))
		return a, nil

	case components.SearchChangedMsg:
		a.grid.SetSearchField(msg.Field)
		a.grid.SetSearch(msg.Query)
		return a, nil

	case components.SearchSubmitMsg:
		a.grid.SetSearchField(msg.Field)
		a.grid.SetSearch(msg.Query)
		a.grid.FlushSearch()
		a.mode = NormalMode
		return a, nil

	case components.CloseSearchMsg:
		a.mode = NormalMode
		return a, nil

	case components.ApplyFilterModelMsg:
		a.grid.SetFilterModel(msg.Model)
		a.mode = NormalMode
		a.setStatus("%d filters applied", len(msg.Model.Items))
		return a, nil

	case components.CloseFilterEditorMsg:
		a.mode = NormalMode
		return a, nil

	case tea.KeyMsg:
		if a.showError {
			switch msg.String() {
			case "esc", "enter":
				a.DismissError()
			case "ctrl+c":
				return a, tea.Quit
			}
			return a, nil
		}
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case HelpMode:
		switch msg.String() {
		case "?", "esc", "q":
			a.mode = NormalMode
		}
		return a, nil
	case SearchMode:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	case FilterMode:
		var cmd tea.Cmd
		a.filterEditor, cmd = a.filterEditor.Update(msg)
		return a, cmd
	case SaveViewMode:
		return a.handleSaveView(msg)
	case ViewsMode:
		return a.handleViews(msg)
	}
	return a.handleGridKey(msg)
}

// ShowError displays an error overlay
func (a *App) ShowError(title, message string) {
	a.showError = true
	a.errTitle = title
	a.errText = message
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}

// Status returns the last status line message
func (a *App) Status() string {
	return a.status
}

// Mode returns the current screen
func (a *App) Mode() ViewMode {
	return a.mode
}

func (a *App) setStatus(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
}

// View implements tea.Model
func (a *App) View() string {
	if a.showError {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.renderError())
	}

	switch a.mode {
	case HelpMode:
		return help.Render(a.width, a.height, a.theme)
	case FilterMode:
		a.filterEditor.Width = max(a.width-4, 40)
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.filterEditor.View())
	case ViewsMode:
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.renderViews())
	}
	return a.renderNormalView()
}

func (a *App) renderNormalView() string {
	v := a.grid.View()

	topBar := lipgloss.NewStyle().
		Width(max(a.width, 1)).
		Background(a.theme.BorderFocused).
		Foreground(lipgloss.Color("230")).
		Padding(0, 2).
		Render(a.formatStatusBar(a.opts.Title, fmt.Sprintf("%s · %s", v.Mode, v.Density)))

	var sections []string
	sections = append(sections, topBar)

	if bar := components.RenderFastFilters(a.theme, a.registry, v.Layout.Columns, v.FastFilters); bar != "" {
		sections = append(sections, bar)
	}

	switch a.mode {
	case SearchMode:
		a.searchInput.Width = max(a.width-2, 30)
		sections = append(sections, a.searchInput.View())
	case SaveViewMode:
		label := "Save view as: "
		if a.renaming != "" {
			label = "Rename view to: "
		}
		sections = append(sections, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(a.theme.BorderFocused).
			Padding(0, 1).
			Render(label+a.nameInput.View()))
	}

	chrome := 0
	for _, s := range sections {
		chrome += lipgloss.Height(s)
	}
	footer := a.config.UI.ShowFooter
	if footer {
		chrome++
	}
	a.gridView.Width = a.width
	a.gridView.Height = max(a.height-chrome, 4)
	sections = append(sections, a.gridView.Render(v, a.grid.IsSelected))

	if footer {
		left := "[?] Help | [/] Search | [f] Filters | [q] Quit"
		if a.status != "" {
			left = a.status
		}
		sections = append(sections, lipgloss.NewStyle().
			Width(max(a.width, 1)).
			Background(a.theme.Selection).
			Foreground(a.theme.Foreground).
			Padding(0, 2).
			Render(a.formatStatusBar(left, "[v] Save view")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderError() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Error).Render(a.errTitle)
	body := lipgloss.NewStyle().Foreground(a.theme.Foreground).Render(a.errText)
	hint := lipgloss.NewStyle().Faint(true).Render("Press Esc or Enter to dismiss")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.theme.Error).
		Padding(1, 2).
		Width(min(max(a.width-10, 30), 80)).
		Render(title + "\n\n" + body + "\n\n" + hint)
}

// formatStatusBar places left and right text on one line
func (a *App) formatStatusBar(left, right string) string {
	gap := a.width - 4 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", gap) + right
}
