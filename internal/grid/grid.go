// Package grid is the controller that owns a grid's state and derives the
// rows, totals and layout a renderer paints.
package grid

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rebeliceyang/lazygrid/internal/columns"
	"github.com/rebeliceyang/lazygrid/internal/controlled"
	"github.com/rebeliceyang/lazygrid/internal/debounce"
	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/pagination"
	"github.com/rebeliceyang/lazygrid/internal/persistence"
	"github.com/rebeliceyang/lazygrid/internal/query"
	"github.com/rebeliceyang/lazygrid/internal/selection"
	"github.com/rebeliceyang/lazygrid/internal/sorting"
)

// Grid is safe for concurrent use. Every entry point applies its change,
// reconciles dependent state, then feeds the query orchestrator and the
// persister.
type Grid struct {
	mu     sync.Mutex
	opts   Options
	logger *zap.Logger
	mode   models.Mode

	cols    []models.ColumnDef
	rows    []models.Row
	tracker *columns.Tracker
	fast    *filter.FastFilters
	filters *controlled.Value[models.FilterModel]
	sort    *controlled.Value[*models.SortModel]
	page    *pagination.Controller
	sel     *selection.Model
	density *controlled.Value[models.Density]

	searchInput    string
	search         string
	searchField    string
	containerWidth int

	clientSearch *debounce.Debouncer
	orch         *query.Orchestrator
	persister    *persistence.Persister
	closed       bool

	// change callbacks queued under mu, run after it is released
	callbacks []func()
}

// New builds a grid. Server mode is chosen when opts.Fetcher is set; the
// first fetch is issued before New returns. Saved state under
// opts.PersistID is restored first.
func New(opts Options) (*Grid, error) {
	opts = opts.withDefaults()
	cols := columns.NormalizeAll(opts.Columns)
	if err := models.ValidateColumns(cols); err != nil {
		return nil, fmt.Errorf("invalid columns: %w", err)
	}

	g := &Grid{
		opts:           opts,
		logger:         opts.Logger.Named("grid"),
		mode:           models.ModeClient,
		cols:           cols,
		tracker:        columns.NewTracker(),
		fast:           filter.NewFastFilters(cols),
		searchField:    opts.SearchField,
		containerWidth: opts.ContainerWidth,
		clientSearch:   debounce.New(opts.ClientSearchDebounce),
	}
	if opts.Fetcher != nil {
		g.mode = models.ModeServer
	} else {
		g.rows = opts.Rows
	}
	g.tracker.Sync(cols)
	g.initState()

	if g.mode == models.ModeServer {
		g.orch = query.New(opts.Fetcher, query.Options{
			SearchDebounce:      opts.ServerSearchDebounce,
			WarnUnstableFetcher: opts.WarnUnstableFetcher,
			Logger:              opts.Logger,
			OnChange:            func(query.Snapshot) { g.notify() },
		})
	}

	if opts.PersistID != "" {
		g.persister = persistence.NewPersister(opts.Store, opts.PersistID, opts.PersistDelay, opts.Logger)
		if s, ok := g.persister.Load(); ok {
			g.mu.Lock()
			g.restoreLocked(s)
			calls := g.takeCallbacksLocked()
			g.mu.Unlock()
			run(calls)
			g.logger.Debug("restored saved state", zap.String("key", g.persister.Key()))
		}
	}

	g.mu.Lock()
	g.reconcileLocked(g.page.Model().Page)
	params := g.paramsLocked()
	calls := g.takeCallbacksLocked()
	g.mu.Unlock()
	run(calls)
	if g.orch != nil {
		g.orch.Update(params)
	}

	g.logger.Debug("grid created",
		zap.String("mode", string(g.mode)),
		zap.Int("columns", len(cols)),
		zap.Int("rows", len(g.rows)))
	return g, nil
}

func (g *Grid) initState() {
	o := g.opts

	onFilter := queued(g, o.OnFilterModelChange)
	if o.FilterModel != nil {
		g.filters = controlled.Controlled(o.FilterModel, onFilter)
	} else {
		initial := models.NewFilterModel()
		if o.InitialFilterModel != nil {
			initial = o.InitialFilterModel.Clone()
		}
		g.filters = controlled.New(initial, onFilter)
	}

	onSort := queued(g, o.OnSortModelChange)
	if o.SortModel != nil {
		g.sort = controlled.Controlled(o.SortModel, onSort)
	} else {
		g.sort = controlled.New(o.InitialSort.Clone(), onSort)
	}

	onPage := queued(g, o.OnPaginationModelChange)
	if o.PaginationModel != nil {
		g.page = pagination.NewControlled(g.mode, o.PaginationModel, onPage)
	} else {
		g.page = pagination.New(g.mode, o.PageSize, onPage)
	}

	onSelect := queued(g, o.OnSelectionChange)
	if o.Selection != nil {
		g.sel = selection.NewControlled(o.RowID, o.Selection, onSelect)
	} else {
		g.sel = selection.New(o.RowID, onSelect)
	}

	onDensity := queued(g, o.OnDensityChange)
	if o.Density != nil {
		g.density = controlled.Controlled(o.Density, onDensity)
	} else {
		g.density = controlled.New(o.InitialDensity, onDensity)
	}
}

// queued wraps a change callback so that calling it under mu only records
// the call
func queued[T any](g *Grid, cb func(T)) func(T) {
	if cb == nil {
		return nil
	}
	return func(v T) {
		g.callbacks = append(g.callbacks, func() { cb(v) })
	}
}

// takeCallbacksLocked settles caller-owned state and returns the queued
// change callbacks, in the order the changes happened
func (g *Grid) takeCallbacksLocked() []func() {
	g.filters.Settle()
	g.sort.Settle()
	g.page.Settle()
	g.sel.Settle()
	g.density.Settle()
	calls := g.callbacks
	g.callbacks = nil
	return calls
}

func run(calls []func()) {
	for _, call := range calls {
		call()
	}
}

// Mode reports whether the grid filters locally or through its fetcher
func (g *Grid) Mode() models.Mode {
	return g.mode
}

// Columns returns the normalized column definitions
func (g *Grid) Columns() []models.ColumnDef {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]models.ColumnDef, len(g.cols))
	copy(out, g.cols)
	return out
}

// apply runs fn under the lock, reconciles, then syncs outside the lock
func (g *Grid) apply(fn func()) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	prevPage := g.page.Model().Page
	fn()
	g.reconcileLocked(prevPage)
	params := g.paramsLocked()
	state := g.stateLocked()
	calls := g.takeCallbacksLocked()
	g.mu.Unlock()

	run(calls)
	if g.orch != nil {
		g.orch.Update(params)
	}
	if g.persister != nil {
		g.persister.Schedule(state)
	}
	g.notify()
}

// reconcileLocked keeps dependent state consistent after any change:
// filters on hidden columns are dropped, the client page is clamped and
// the selection is cleared when the page moved.
func (g *Grid) reconcileLocked(prevPage int) {
	for field, hidden := range g.tracker.Hidden() {
		if !hidden {
			continue
		}
		if _, ok := g.fast.Get(field); ok {
			g.fast.Clear(field)
		}
		if fm := g.filters.Get(); filter.HasField(fm, field) {
			g.filters.Set(filter.RemoveField(fm, field))
		}
	}

	if g.mode == models.ModeClient {
		g.page.Clamp(g.clientTotalLocked())
	}

	if !g.opts.KeepSelectionOnPageChange && g.page.Model().Page != prevPage && g.hasSelectionLocked() {
		g.sel.Clear()
	}
}

func (g *Grid) hasSelectionLocked() bool {
	s := g.sel.State()
	return s.Type == models.SelectExclude || len(s.IDs) > 0
}

func (g *Grid) paramsLocked() models.FetchParams {
	return models.FetchParams{
		Pagination:  g.page.Model(),
		Sort:        g.sort.Get().Clone(),
		Filters:     g.mergedLocked(),
		Search:      g.searchInput,
		SearchField: g.searchField,
	}
}

func (g *Grid) mergedLocked() models.FilterModel {
	return filter.Merge(g.filters.Get(), g.fast.Model(g.cols))
}

func (g *Grid) filteredLocked() []models.Row {
	return filter.Apply(g.rows, g.filters.Get(), g.fast.State(), g.search, g.searchField, g.cols)
}

// processedLocked is the client pipeline before paging: filter then sort
func (g *Grid) processedLocked() []models.Row {
	return sorting.Rows(g.filteredLocked(), g.sort.Get(), g.cols)
}

func (g *Grid) clientTotalLocked() int {
	if g.opts.RowCount > 0 {
		return g.opts.RowCount
	}
	return len(g.filteredLocked())
}

func (g *Grid) notify() {
	if g.opts.OnChange != nil {
		g.opts.OnChange()
	}
}

// Close stops timers, drops in-flight fetches and writes pending state
func (g *Grid) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.mu.Unlock()

	g.clientSearch.Stop()
	if g.orch != nil {
		g.orch.Close()
	}
	if g.persister != nil {
		g.persister.Close()
	}
}

// Wait blocks until in-flight fetches have returned
func (g *Grid) Wait() {
	if g.orch != nil {
		g.orch.Wait()
	}
}
