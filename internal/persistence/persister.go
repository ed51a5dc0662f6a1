package persistence

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rebeliceyang/lazygrid/internal/debounce"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

// DefaultWriteDelay is how long state settles before it is written
const DefaultWriteDelay = 500 * time.Millisecond

// Persister saves the state of one grid. Writes are debounced so a burst of
// changes produces a single document.
type Persister struct {
	store    Store
	key      string
	logger   *zap.Logger
	debounce *debounce.Debouncer

	mu      sync.Mutex
	latest  *models.GridState
	closed  bool
	written int
}

// NewPersister binds a store to a grid id. A zero delay uses
// DefaultWriteDelay; a negative one writes synchronously.
func NewPersister(store Store, gridID string, delay time.Duration, logger *zap.Logger) *Persister {
	if store == nil {
		store = NewMemoryStore()
	}
	if delay == 0 {
		delay = DefaultWriteDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Persister{
		store:    store,
		key:      Key(gridID),
		logger:   logger.Named("persistence").With(zap.String("key", Key(gridID))),
		debounce: debounce.New(delay),
	}
}

// Key returns the storage key
func (p *Persister) Key() string {
	return p.key
}

// Load reads the stored state once. Missing or malformed documents report
// false and leave the caller on its defaults.
func (p *Persister) Load() (models.GridState, bool) {
	data, err := p.store.Get(p.key)
	if errors.Is(err, ErrNotFound) {
		return models.GridState{}, false
	}
	if err != nil {
		p.logger.Warn("failed to read saved state", zap.Error(err))
		return models.GridState{}, false
	}

	s, err := DecodeState(data)
	if err != nil {
		p.logger.Warn("ignoring malformed saved state", zap.Error(err))
		return models.GridState{}, false
	}
	return s, true
}

// Schedule queues state for writing, replacing anything still pending
func (p *Persister) Schedule(s models.GridState) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.latest = &s
	p.mu.Unlock()

	p.debounce.Trigger(p.write)
}

func (p *Persister) write() {
	p.mu.Lock()
	s := p.latest
	p.latest = nil
	p.mu.Unlock()
	if s == nil {
		return
	}

	data, err := EncodeState(*s)
	if err != nil {
		p.logger.Error("failed to encode state", zap.Error(err))
		return
	}
	if err := p.store.Set(p.key, data); err != nil {
		p.logger.Error("failed to save state", zap.Error(err))
		return
	}

	p.mu.Lock()
	p.written++
	p.mu.Unlock()
	p.logger.Debug("state saved", zap.Int("bytes", len(data)))
}

// Writes counts documents written so far
func (p *Persister) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written
}

// Flush writes pending state now
func (p *Persister) Flush() {
	p.debounce.Flush()
}

// Clear deletes the stored document and drops pending writes
func (p *Persister) Clear() error {
	p.debounce.Stop()
	p.mu.Lock()
	p.latest = nil
	p.mu.Unlock()
	return p.store.Delete(p.key)
}

// Close flushes pending state and ignores later schedules
func (p *Persister) Close() {
	p.Flush()
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.debounce.Stop()
}
