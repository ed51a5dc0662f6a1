package grid

import (
	"github.com/rebeliceyang/lazygrid/internal/columns"
	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/pagination"
)

// View is an immutable snapshot of what to render
type View struct {
	Mode models.Mode
	// Rows is the current page in display order
	Rows    []models.Row
	Total   int
	Loading bool
	Err     error

	Layout        columns.Layout
	Sort          *models.SortModel
	Filters       models.FilterModel
	FastFilters   models.FastFilterState
	ActiveFilters int
	FilterOptions map[string][]models.FilterOption
	Search        string
	SearchField   string

	Pagination models.PaginationModel
	PageCount  int

	SelectedCount   int
	PageSelected    bool
	GlobalSelection bool
	Density         models.Density

	// Empty means there is no data at all; NoResults means filters hid every row
	Empty     bool
	NoResults bool
}

// View derives the current page, totals and layout
func (g *Grid) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := View{
		Mode:        g.mode,
		Sort:        g.sort.Get().Clone(),
		Filters:     g.filters.Get().Clone(),
		FastFilters: g.fast.State(),
		Search:      g.searchInput,
		SearchField: g.searchField,
		Pagination:  g.page.Model(),
		Density:     g.density.Get(),
	}
	v.ActiveFilters = filter.ActiveCount(v.Filters) + g.fast.Len()

	var raw []models.Row
	if g.orch != nil {
		snap := g.orch.Snapshot()
		raw = snap.Rows
		v.Rows = snap.Rows
		v.Total = snap.Total
		v.Loading = snap.Loading
		v.Err = snap.Err
	} else {
		raw = g.rows
		processed := g.processedLocked()
		v.Total = len(processed)
		v.Rows = g.page.Page(processed)
		v.FilterOptions = filter.Options(g.cols, g.rows)
	}
	if g.opts.RowCount > 0 {
		v.Total = g.opts.RowCount
	}
	if v.FilterOptions == nil {
		v.FilterOptions = filter.Options(g.cols, nil)
	}

	v.PageCount = pagination.PageCount(v.Total, v.Pagination.PageSize)
	v.SelectedCount = g.sel.SelectedCount(v.Total)
	v.PageSelected = g.sel.IsPageSelected(v.Rows)
	v.GlobalSelection = g.sel.IsGlobal()
	v.Empty = !v.Loading && len(raw) == 0
	v.NoResults = !v.Loading && len(raw) > 0 && len(v.Rows) == 0

	v.Layout = g.tracker.Layout(columns.LayoutInput{
		Columns:        g.cols,
		SampleRows:     raw,
		ContainerWidth: g.containerWidth,
		AutoFit:        g.opts.AutoFit,
		Measurer:       g.opts.Measurer,
		Padding:        g.opts.Padding,
		SampleSize:     g.opts.SampleSize,
	})
	return v
}

// visibleLocked returns the rows on the current page
func (g *Grid) visibleLocked() []models.Row {
	if g.orch != nil {
		return g.orch.Snapshot().Rows
	}
	return g.page.Page(g.processedLocked())
}

func (g *Grid) pageCountLocked() int {
	total := g.opts.RowCount
	if total <= 0 {
		if g.orch != nil {
			total = g.orch.Snapshot().Total
		} else {
			total = len(g.filteredLocked())
		}
	}
	return pagination.PageCount(total, g.page.Model().PageSize)
}
