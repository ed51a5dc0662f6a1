package app

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rebeliceyang/lazygrid/internal/export"
	"github.com/rebeliceyang/lazygrid/internal/grid"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/ui/components"
)

// resizeStep is how far one keypress resizes a column, in cells
const resizeStep = 2

var densityCycle = []models.Density{models.DensityCompact, models.DensityStandard, models.DensityComfortable}

func (a *App) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := a.grid.View()
	col, hasCol := a.gridView.CurrentColumn(v)
	a.status = ""

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "?":
		a.mode = HelpMode

	// Navigation
	case "up", "k":
		a.gridView.MoveCursor(-1, len(v.Rows))
	case "down", "j":
		a.gridView.MoveCursor(1, len(v.Rows))
	case "left", "h":
		a.gridView.MoveColumn(-1, len(v.Layout.Columns))
	case "right", "l":
		a.gridView.MoveColumn(1, len(v.Layout.Columns))
	case "n", "]":
		a.grid.NextPage()
		a.gridView.Cursor = 0
	case "p", "[":
		a.grid.PrevPage()
		a.gridView.Cursor = 0
	case "g":
		a.grid.SetPage(1)
		a.gridView.Cursor = 0
	case "G":
		a.grid.SetPage(max(v.PageCount, 1))
		a.gridView.Cursor = 0

	// Data
	case "r", "f5":
		a.grid.Refresh()
	case "/":
		a.searchInput.SetColumns(a.grid.Columns())
		a.searchInput.Input.SetValue(v.Search)
		a.searchInput.Input.Focus()
		a.mode = SearchMode
	case "s":
		if hasCol {
			a.grid.Sort(col.Field)
		}
	case "f":
		a.filterEditor.Open(a.grid.Columns(), v.FilterOptions, v.Filters)
		a.mode = FilterMode
	case "F":
		a.grid.ClearFilters()
		a.grid.ClearFastFilters()
		a.setStatus("filters cleared")
	case "t":
		if hasCol {
			a.cycleFastFilter(v, col)
		}
	case "T":
		a.grid.ClearFastFilters()

	// Selection
	case " ", "space":
		if row, ok := a.gridView.CurrentRow(v); ok {
			a.grid.ToggleRow(row)
		}
	case "a":
		a.grid.TogglePage()
	case "A":
		a.grid.SelectGlobal()
		a.setStatus("all %d rows selected", v.Total)
	case "u":
		a.grid.ClearSelection()

	// Columns
	case "H":
		if hasCol {
			a.grid.HideColumn(col.Field)
		}
	case "U":
		for _, c := range a.grid.Columns() {
			a.grid.ShowColumn(c.Field)
		}
	case "P":
		if hasCol {
			a.grid.PinColumn(col.Field, nextPin(col.Pinned))
		}
	case "<":
		if hasCol {
			a.grid.MoveColumn(col.Field, -1)
			a.gridView.MoveColumn(-1, len(v.Layout.Columns))
		}
	case ">":
		if hasCol {
			a.grid.MoveColumn(col.Field, 1)
			a.gridView.MoveColumn(1, len(v.Layout.Columns))
		}
	case "+", "=":
		if hasCol {
			a.resize(v, col, resizeStep)
		}
	case "-":
		if hasCol {
			a.resize(v, col, -resizeStep)
		}
	case "D":
		a.grid.SetDensity(nextDensity(v.Density))

	// State
	case "ctrl+s":
		a.grid.FlushState()
		a.setStatus("grid state saved")
	case "R":
		if err := a.grid.ResetState(); err != nil {
			a.ShowError("Reset failed", err.Error())
			return a, nil
		}
		a.setStatus("saved grid state cleared")
	case "y":
		a.copyState()
	case "ctrl+v":
		a.pasteState()

	// Export and views
	case "c":
		if row, ok := a.gridView.CurrentRow(v); ok {
			a.copyRow(row)
		}
	case "e":
		a.exportFile(grid.ScopeFiltered, "csv")
	case "E":
		a.exportFile(grid.ScopeSelected, "csv")
	case "x":
		a.exportFile(grid.ScopeFiltered, "xlsx")
	case "v":
		a.renaming = ""
		a.nameInput.SetValue("")
		a.nameInput.Focus()
		a.mode = SaveViewMode
	case "V":
		if a.opts.Views == nil {
			a.setStatus("saved views are not available")
			return a, nil
		}
		a.viewCursor = 0
		a.mode = ViewsMode
	}
	return a, nil
}

func (a *App) cycleFastFilter(v grid.View, col models.ColumnDef) {
	if !col.EnableColumnFilter {
		a.setStatus("%s has no quick filter", col.Title())
		return
	}
	current, has := v.FastFilters[col.Field]
	next, clear, ok := components.NextFastValue(col, v.FilterOptions[col.Field], current, has)
	if !ok {
		a.setStatus("use / to search %s", col.Title())
		return
	}
	if clear {
		a.grid.ClearFastFilter(col.Field)
		return
	}
	a.grid.SetFastFilter(col.Field, next)
}

func (a *App) resize(v grid.View, col models.ColumnDef, cells int) {
	px := max(a.config.UI.PxPerCell, 1)
	width := a.grid.ResizeColumn(col.Field, v.Layout.Width(col.Field)+cells*px)
	a.setStatus("%s width %dpx", col.Title(), width)
}

func nextPin(p models.PinSide) models.PinSide {
	switch p {
	case models.PinNone:
		return models.PinLeft
	case models.PinLeft:
		return models.PinRight
	default:
		return models.PinNone
	}
}

func nextDensity(d models.Density) models.Density {
	for i, x := range densityCycle {
		if x == d {
			return densityCycle[(i+1)%len(densityCycle)]
		}
	}
	return models.DensityStandard
}

func (a *App) copyState() {
	var buf bytes.Buffer
	if err := a.grid.ExportState(&buf); err != nil {
		a.ShowError("Copy failed", err.Error())
		return
	}
	if err := a.opts.CopyText(buf.String()); err != nil {
		a.ShowError("Clipboard error", err.Error())
		return
	}
	a.setStatus("grid state copied to clipboard")
}

func (a *App) pasteState() {
	text, err := a.opts.PasteText()
	if err != nil {
		a.ShowError("Clipboard error", err.Error())
		return
	}
	if err := a.grid.ImportState(strings.NewReader(text)); err != nil {
		a.ShowError("Import failed", err.Error())
		return
	}
	a.setStatus("grid state imported")
}

func (a *App) copyRow(row models.Row) {
	var buf bytes.Buffer
	if err := export.WriteRows(&buf, export.FormatText, []models.Row{row}, export.Columns(a.grid.Columns())); err != nil {
		a.ShowError("Copy failed", err.Error())
		return
	}
	if err := a.opts.CopyText(buf.String()); err != nil {
		a.ShowError("Clipboard error", err.Error())
		return
	}
	a.setStatus("row copied to clipboard")
}

func (a *App) exportFile(scope grid.ExportScope, ext string) {
	name := fmt.Sprintf("lazygrid-%s-%s.%s", scope, time.Now().Format("20060102-150405"), ext)
	path := filepath.Join(a.opts.ExportDir, name)

	write := a.grid.ExportCSV
	if ext == "xlsx" {
		write = a.grid.ExportXLSX
	}
	err := export.WriteFile(path, func(w io.Writer) error { return write(w, scope) })
	if err != nil {
		a.ShowError("Export failed", err.Error())
		return
	}
	a.logger.Info("exported rows", zap.String("path", path), zap.String("scope", string(scope)))
	a.setStatus("exported to %s", path)
}
