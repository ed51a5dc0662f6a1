package grid

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/persistence"
)

// State snapshots everything that persistence and saved views keep
func (g *Grid) State() models.GridState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

func (g *Grid) stateLocked() models.GridState {
	fm := g.filters.Get().Clone()
	pm := g.page.Model()
	return models.GridState{
		FilterModel:           &fm,
		SortModel:             g.sort.Get().Clone(),
		HasSort:               true,
		PaginationModel:       &pm,
		Density:               g.density.Get(),
		FastFilters:           g.fast.State(),
		ColumnVisibilityModel: g.tracker.Hidden(),
		PinnedColumns:         g.tracker.Pinned(),
		ColumnOrder:           g.tracker.Order(),
	}
}

// RestoreState merges a partial state. Absent parts are left untouched.
// Saved views, imported documents and persisted state all come through here.
func (g *Grid) RestoreState(s models.GridState) {
	g.apply(func() { g.restoreLocked(s) })
}

func (g *Grid) restoreLocked(s models.GridState) {
	if s.FilterModel != nil {
		g.filters.Set(s.FilterModel.Clone())
	}
	if s.HasSort {
		g.sort.Set(s.SortModel.Clone())
	}
	if s.PaginationModel != nil {
		g.page.SetModel(*s.PaginationModel)
	}
	if s.Density.Valid() {
		g.density.Set(s.Density)
	}
	if s.FastFilters != nil {
		g.fast.Replace(s.FastFilters)
	}
	if s.ColumnVisibilityModel != nil {
		g.tracker.SetHidden(s.ColumnVisibilityModel)
	}
	if s.PinnedColumns != nil {
		g.tracker.SetPinned(s.PinnedColumns)
	}
	if s.ColumnOrder != nil {
		g.tracker.Reorder(s.ColumnOrder)
		g.tracker.Sync(g.cols)
	}
}

// ApplyView restores a saved view
func (g *Grid) ApplyView(v models.SavedView) {
	g.logger.Debug("applying saved view", zap.String("id", v.ID), zap.String("name", v.Name))
	g.RestoreState(v.State)
}

// ExportState writes the current state as indented JSON
func (g *Grid) ExportState(w io.Writer) error {
	return persistence.ExportState(w, g.State())
}

// ImportState reads a state document and restores it. A malformed
// document is logged and returned, and the current state is kept.
func (g *Grid) ImportState(r io.Reader) error {
	s, err := persistence.ImportState(r)
	if err != nil {
		g.logger.Warn("ignoring malformed state document", zap.Error(err))
		return fmt.Errorf("failed to import state: %w", err)
	}
	g.RestoreState(s)
	return nil
}

// FlushState writes pending persisted state now
func (g *Grid) FlushState() {
	if g.persister != nil {
		g.persister.Flush()
	}
}

// ResetState deletes the persisted document of this grid
func (g *Grid) ResetState() error {
	if g.persister == nil {
		return nil
	}
	return g.persister.Clear()
}
