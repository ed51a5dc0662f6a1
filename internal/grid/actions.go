package grid

import (
	"github.com/rebeliceyang/lazygrid/internal/columns"
	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/query"
	"github.com/rebeliceyang/lazygrid/internal/sorting"
)

// SetRows replaces the client rows. Server grids ignore it.
func (g *Grid) SetRows(rows []models.Row) {
	if g.mode == models.ModeServer {
		g.logger.Debug("SetRows ignored in server mode")
		return
	}
	g.apply(func() { g.rows = rows })
}

// SetColumns replaces the column definitions, keeping the user's order for
// fields that still exist.
func (g *Grid) SetColumns(cols []models.ColumnDef) error {
	cols = columns.NormalizeAll(cols)
	if err := models.ValidateColumns(cols); err != nil {
		return err
	}
	g.apply(func() {
		g.cols = cols
		g.tracker.Sync(cols)
	})
	return nil
}

// SetSearch records the search text. Client grids apply it after the
// client debounce; server grids hand it to the orchestrator, which
// debounces it on its own.
func (g *Grid) SetSearch(text string) {
	g.apply(func() { g.searchInput = text })
	if g.mode == models.ModeClient {
		g.clientSearch.Trigger(g.applySearch)
	}
}

func (g *Grid) applySearch() {
	g.apply(func() { g.search = g.searchInput })
}

// FlushSearch applies pending search text immediately
func (g *Grid) FlushSearch() {
	g.clientSearch.Flush()
	if g.orch != nil {
		g.orch.FlushSearch()
	}
}

// SetSearchField limits search to one field; "" or "all" searches every column
func (g *Grid) SetSearchField(field string) {
	if field == "" {
		field = models.SearchAllFields
	}
	g.apply(func() { g.searchField = field })
}

// Sort cycles a column through asc, desc and unsorted
func (g *Grid) Sort(field string) {
	g.apply(func() {
		if !g.sortableLocked(field) {
			return
		}
		g.sort.Set(sorting.Toggle(g.sort.Get(), field))
	})
}

// SortDirection sorts a column in an explicit direction; "" clears the sort
func (g *Grid) SortDirection(field string, dir models.SortDirection) {
	g.apply(func() {
		if !g.sortableLocked(field) {
			return
		}
		g.sort.Set(sorting.Set(field, dir))
	})
}

func (g *Grid) sortableLocked(field string) bool {
	col, ok := models.FindColumn(g.cols, field)
	return ok && col.IsSortable()
}

func (g *Grid) SetPage(page int) {
	g.apply(func() { g.page.SetPage(page) })
}

// SetPageSize changes the page size and returns to the first page
func (g *Grid) SetPageSize(size int) {
	g.apply(func() { g.page.SetPageSize(size) })
}

// NextPage moves one page forward when there is one
func (g *Grid) NextPage() {
	g.apply(func() {
		m := g.page.Model()
		if m.Page < g.pageCountLocked() {
			g.page.SetPage(m.Page + 1)
		}
	})
}

// PrevPage moves one page back
func (g *Grid) PrevPage() {
	g.apply(func() {
		if m := g.page.Model(); m.Page > 1 {
			g.page.SetPage(m.Page - 1)
		}
	})
}

// SetFilterModel replaces the advanced filters
func (g *Grid) SetFilterModel(m models.FilterModel) {
	g.apply(func() { g.filters.Set(m.Clone()) })
}

// AddFilter appends an advanced filter item and returns its id
func (g *Grid) AddFilter(item models.FilterItem) string {
	var id string
	g.apply(func() {
		next := filter.Add(g.filters.Get(), item)
		id = next.Items[len(next.Items)-1].ID
		g.filters.Set(next)
	})
	return id
}

func (g *Grid) RemoveFilter(id string) {
	g.apply(func() { g.filters.Set(filter.Remove(g.filters.Get(), id)) })
}

func (g *Grid) UpdateFilter(item models.FilterItem) {
	g.apply(func() { g.filters.Set(filter.Update(g.filters.Get(), item)) })
}

// ClearFilters removes every advanced filter item
func (g *Grid) ClearFilters() {
	g.apply(func() { g.filters.Set(filter.Clear(g.filters.Get())) })
}

// SetFastFilter sets a column's quick filter; an empty value removes it
func (g *Grid) SetFastFilter(field string, v any) {
	g.apply(func() { g.fast.Set(field, v) })
}

func (g *Grid) ClearFastFilter(field string) {
	g.apply(func() { g.fast.Clear(field) })
}

func (g *Grid) ClearFastFilters() {
	g.apply(func() { g.fast.ClearAll() })
}

// HideColumn hides a column and drops every filter on it
func (g *Grid) HideColumn(field string) {
	g.apply(func() { g.tracker.Hide(field) })
}

func (g *Grid) ShowColumn(field string) {
	g.apply(func() { g.tracker.Show(field) })
}

// PinColumn pins a column to an edge; models.PinNone unpins it
func (g *Grid) PinColumn(field string, side models.PinSide) {
	g.apply(func() { g.tracker.Pin(field, side) })
}

// ReorderColumns sets the field order. Unknown fields are dropped and
// missing ones appended.
func (g *Grid) ReorderColumns(order []string) {
	g.apply(func() {
		g.tracker.Reorder(order)
		g.tracker.Sync(g.cols)
	})
}

// MoveColumn shifts a column by delta positions
func (g *Grid) MoveColumn(field string, delta int) {
	g.apply(func() { g.tracker.Move(field, delta) })
}

// ResizeColumn sets a manual width and returns the width applied
func (g *Grid) ResizeColumn(field string, width int) int {
	var applied int
	g.apply(func() { applied = g.tracker.Resize(field, width) })
	return applied
}

// SetContainerWidth sets the width surplus is distributed into
func (g *Grid) SetContainerWidth(width int) {
	g.apply(func() { g.containerWidth = width })
}

// SetDensity changes row density; unknown values are ignored
func (g *Grid) SetDensity(d models.Density) {
	if !d.Valid() {
		return
	}
	g.apply(func() { g.density.Set(d) })
}

func (g *Grid) ToggleRow(row models.Row) {
	g.apply(func() { g.sel.ToggleRow(row) })
}

// SelectPage selects every row on the current page
func (g *Grid) SelectPage() {
	g.apply(func() { g.sel.SelectPage(g.visibleLocked()) })
}

// TogglePage deselects a fully selected page, otherwise selects it
func (g *Grid) TogglePage() {
	g.apply(func() { g.sel.TogglePage(g.visibleLocked()) })
}

// SelectGlobal selects every row, loaded or not
func (g *Grid) SelectGlobal() {
	g.apply(func() { g.sel.SelectGlobal() })
}

func (g *Grid) ClearSelection() {
	g.apply(func() { g.sel.Clear() })
}

// SetSelection replaces the selection state
func (g *Grid) SetSelection(s models.SelectionState) {
	g.apply(func() { g.sel.SetState(s) })
}

// Selection returns the current selection state
func (g *Grid) Selection() models.SelectionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sel.State()
}

// IsSelected reports whether a row is selected
func (g *Grid) IsSelected(row models.Row) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sel.IsSelected(row)
}

// Refresh re-fetches the current page in server mode. Client grids log
// and do nothing.
func (g *Grid) Refresh() {
	if g.orch == nil {
		g.logger.Warn("refresh called on a client-side grid; ignoring")
		return
	}
	g.orch.Refresh()
}

// SetFetcher swaps the fetcher of a server grid and refetches when its
// identity changed. Client grids ignore it; the mode is fixed at New.
func (g *Grid) SetFetcher(f query.Fetcher) {
	if g.orch == nil {
		g.logger.Debug("SetFetcher called on a client-side grid; ignoring")
		return
	}
	g.orch.SetFetcher(f)
}

// UnstableFetcherChanges counts fetcher identity changes after the first
// fetch. It is always zero on a client grid.
func (g *Grid) UnstableFetcherChanges() int {
	if g.orch == nil {
		return 0
	}
	return g.orch.UnstableFetcherChanges()
}

// UpdateRow replaces the row with the same identity, in the client rows or
// in the loaded server page. It reports whether a row was replaced.
func (g *Grid) UpdateRow(row models.Row) bool {
	if g.orch != nil {
		return g.orch.ReplaceRow(g.sel.RowID, row)
	}

	var (
		replaced bool
		next     []models.Row
	)
	g.apply(func() {
		id := g.sel.RowID(row)
		next = make([]models.Row, len(g.rows))
		for i, r := range g.rows {
			if !replaced && g.sel.RowID(r) == id {
				next[i] = row
				replaced = true
				continue
			}
			next[i] = r
		}
		if replaced {
			g.rows = next
		}
	})
	if replaced && g.opts.OnRowsChange != nil {
		g.opts.OnRowsChange(next)
	}
	return replaced
}
