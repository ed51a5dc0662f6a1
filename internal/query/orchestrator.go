// Package query decides when a server-mode grid fetches and discards stale responses.
package query

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rebeliceyang/lazygrid/internal/debounce"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

// DefaultSearchDebounce is how long search text settles before it is sent
const DefaultSearchDebounce = 500 * time.Millisecond

// Fetcher loads one page of remote rows
type Fetcher interface {
	Fetch(ctx context.Context, params models.FetchParams) (models.FetchResult, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, params models.FetchParams) (models.FetchResult, error)

// Fetch calls f
func (f FetcherFunc) Fetch(ctx context.Context, params models.FetchParams) (models.FetchResult, error) {
	return f(ctx, params)
}

// Snapshot is the settled or loading state of the remote data
type Snapshot struct {
	Rows      []models.Row
	Total     int
	Loading   bool
	Err       error
	RequestID uint64
}

// Options configures an Orchestrator
type Options struct {
	SearchDebounce time.Duration
	// WarnUnstableFetcher logs when the fetcher identity changes between updates
	WarnUnstableFetcher bool
	Logger              *zap.Logger
	// OnChange is called after every state change, without locks held
	OnChange func(Snapshot)
}

// Orchestrator issues fetches when parameters change and applies only the
// response of the latest request.
type Orchestrator struct {
	mu       sync.Mutex
	fetcher  Fetcher
	opts     Options
	logger   *zap.Logger
	search   *debounce.Debouncer
	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup

	params        models.FetchParams
	pendingSearch string
	started       bool
	closed        bool
	latest        uint64
	unstable      int

	rows    []models.Row
	total   int
	loading bool
	err     error
}

// New creates an orchestrator. A nil fetcher disables it (client mode).
func New(fetcher Fetcher, opts Options) *Orchestrator {
	if opts.SearchDebounce == 0 {
		opts.SearchDebounce = DefaultSearchDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger.Named("query"),
		search:  debounce.New(opts.SearchDebounce),
		ctx:     ctx,
		cancel:  cancel,
		rows:    []models.Row{},
		loading: fetcher != nil,
	}
}

// Enabled reports whether a fetcher is attached
func (o *Orchestrator) Enabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fetcher != nil
}

// Update feeds the latest parameters. The first call fetches immediately;
// later changes fetch right away except for search text, which is debounced.
func (o *Orchestrator) Update(params models.FetchParams) {
	o.mu.Lock()
	if o.closed || o.fetcher == nil {
		o.mu.Unlock()
		return
	}

	if !o.started {
		o.started = true
		o.params = cloneParams(params)
		o.pendingSearch = params.Search
		snap, run := o.issueLocked()
		o.mu.Unlock()
		o.notify(snap)
		run()
		return
	}

	search := params.Search
	params.Search = o.params.Search
	changed := !reflect.DeepEqual(params, o.params)
	if changed {
		o.params = cloneParams(params)
	}
	searchChanged := search != o.pendingSearch
	o.pendingSearch = search
	o.mu.Unlock()

	if searchChanged {
		o.search.Trigger(o.applySearch)
	}
	if changed {
		o.reissue()
	}
}

func (o *Orchestrator) applySearch() {
	o.mu.Lock()
	if o.closed || o.fetcher == nil || o.pendingSearch == o.params.Search {
		o.mu.Unlock()
		return
	}
	o.params.Search = o.pendingSearch
	snap, run := o.issueLocked()
	o.mu.Unlock()
	o.notify(snap)
	run()
}

// FlushSearch sends pending search text without waiting for the debounce
func (o *Orchestrator) FlushSearch() {
	o.search.Flush()
}

// Refresh re-issues the current parameters even when nothing changed.
// It does nothing when no fetcher is attached.
func (o *Orchestrator) Refresh() {
	o.mu.Lock()
	if o.fetcher == nil {
		o.mu.Unlock()
		o.logger.Debug("refresh ignored without fetcher")
		return
	}
	o.mu.Unlock()
	o.reissue()
}

func (o *Orchestrator) reissue() {
	o.mu.Lock()
	if o.closed || o.fetcher == nil {
		o.mu.Unlock()
		return
	}
	o.started = true
	snap, run := o.issueLocked()
	o.mu.Unlock()
	o.notify(snap)
	run()
}

// issueLocked bumps the request counter and prepares the fetch goroutine
func (o *Orchestrator) issueLocked() (Snapshot, func()) {
	o.latest++
	id := o.latest
	o.loading = true
	o.err = nil
	params := cloneParams(o.params)
	fetcher := o.fetcher
	ctx := o.ctx
	snap := o.snapshotLocked()

	o.inflight.Add(1)
	return snap, func() {
		go func() {
			defer o.inflight.Done()
			res, err := fetcher.Fetch(ctx, params)
			o.complete(id, res, err)
		}()
	}
}

func (o *Orchestrator) complete(id uint64, res models.FetchResult, err error) {
	o.mu.Lock()
	if o.closed || id != o.latest {
		o.mu.Unlock()
		o.logger.Debug("dropping stale response", zap.Uint64("request", id))
		return
	}
	o.loading = false
	if err != nil {
		o.err = err
		if !errors.Is(err, context.Canceled) {
			o.logger.Warn("fetch failed", zap.Uint64("request", id), zap.Error(err))
		}
	} else {
		o.err = nil
		o.rows = res.Data
		if o.rows == nil {
			o.rows = []models.Row{}
		}
		o.total = res.Total
	}
	snap := o.snapshotLocked()
	o.mu.Unlock()
	o.notify(snap)
}

// SetFetcher swaps the data source. Changing identity between updates
// usually means the caller rebuilds its fetcher every time, which would
// trigger endless refetches; that is logged, not corrected.
func (o *Orchestrator) SetFetcher(f Fetcher) {
	o.mu.Lock()
	if sameFetcher(o.fetcher, f) {
		o.mu.Unlock()
		return
	}
	if o.fetcher != nil && f != nil && o.started {
		o.unstable++
		if o.opts.WarnUnstableFetcher {
			o.logger.Warn("fetcher identity changed; pass a stable fetcher to avoid refetch loops",
				zap.Int("changes", o.unstable))
		}
	}
	o.fetcher = f
	if f == nil {
		o.loading = false
	}
	started := o.started
	o.mu.Unlock()

	if f != nil && started {
		o.reissue()
	}
}

// UnstableFetcherChanges counts fetcher identity changes after the first fetch
func (o *Orchestrator) UnstableFetcherChanges() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.unstable
}

// ReplaceRow swaps a loaded row with the same identity
func (o *Orchestrator) ReplaceRow(rowID models.RowIDFunc, row models.Row) bool {
	o.mu.Lock()
	id := models.NormalizeID(rowID(row))
	replaced := false
	next := make([]models.Row, len(o.rows))
	for i, r := range o.rows {
		if !replaced && models.NormalizeID(rowID(r)) == id {
			next[i] = row
			replaced = true
			continue
		}
		next[i] = r
	}
	if replaced {
		o.rows = next
	}
	snap := o.snapshotLocked()
	o.mu.Unlock()
	if replaced {
		o.notify(snap)
	}
	return replaced
}

// Snapshot returns the current state
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{Rows: o.rows, Total: o.total, Loading: o.loading, Err: o.err, RequestID: o.latest}
}

// Params returns the parameters of the latest request
func (o *Orchestrator) Params() models.FetchParams {
	o.mu.Lock()
	defer o.mu.Unlock()
	return cloneParams(o.params)
}

// Wait blocks until every issued fetch has returned
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}

// Close stops the search timer, cancels in-flight fetches and ignores
// their results.
func (o *Orchestrator) Close() {
	o.search.Stop()
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	o.cancel()
}

func (o *Orchestrator) notify(s Snapshot) {
	if o.opts.OnChange != nil {
		o.opts.OnChange(s)
	}
}

func cloneParams(p models.FetchParams) models.FetchParams {
	p.Sort = p.Sort.Clone()
	p.Filters = p.Filters.Clone()
	return p
}

// sameFetcher compares fetcher identity: function values by code pointer,
// comparable values with ==.
func sameFetcher(a, b Fetcher) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}
	if va.Type().Comparable() {
		return a == b
	}
	return false
}
