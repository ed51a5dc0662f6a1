package grid

import (
	"fmt"
	"io"

	"github.com/rebeliceyang/lazygrid/internal/export"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

// ExportScope selects the rows written by an export
type ExportScope string

const (
	// ScopeAll is every client row, or the loaded page on a server grid
	ScopeAll ExportScope = "all"
	// ScopeFiltered is the filtered and sorted client rows
	ScopeFiltered ExportScope = "filtered"
	// ScopeSelected is the selected rows among those in memory
	ScopeSelected ExportScope = "selected"
)

// ExportRows returns the rows an export of scope would write
func (g *Grid) ExportRows(scope ExportScope) ([]models.Row, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.orch != nil {
		loaded := g.orch.Snapshot().Rows
		switch scope {
		case ScopeAll, ScopeFiltered:
			return loaded, nil
		case ScopeSelected:
			return g.sel.Filter(loaded), nil
		}
		return nil, fmt.Errorf("unknown export scope %q", scope)
	}

	switch scope {
	case ScopeAll:
		return g.rows, nil
	case ScopeFiltered:
		return g.processedLocked(), nil
	case ScopeSelected:
		return g.sel.Filter(g.rows), nil
	}
	return nil, fmt.Errorf("unknown export scope %q", scope)
}

// ExportCSV writes the rows of scope as CSV
func (g *Grid) ExportCSV(w io.Writer, scope ExportScope) error {
	rows, err := g.ExportRows(scope)
	if err != nil {
		return err
	}
	return export.WriteCSV(w, rows, g.Columns())
}

// ExportStream writes the rows of scope as text, JSON lines or msgpack
func (g *Grid) ExportStream(w io.Writer, scope ExportScope, format export.Format) error {
	rows, err := g.ExportRows(scope)
	if err != nil {
		return err
	}
	return export.WriteRows(w, format, rows, g.Columns())
}

// ExportXLSX writes the rows of scope as an Excel workbook
func (g *Grid) ExportXLSX(w io.Writer, scope ExportScope) error {
	rows, err := g.ExportRows(scope)
	if err != nil {
		return err
	}
	return export.WriteXLSX(w, rows, g.Columns())
}
