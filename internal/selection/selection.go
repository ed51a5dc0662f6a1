// Package selection tracks selected rows as an include or exclude set, so
// "select everything" never has to enumerate rows.
package selection

import (
	"fmt"
	"sort"

	"github.com/rebeliceyang/lazygrid/internal/controlled"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

// Model is the selection of one grid. Every write stores a fresh state.
type Model struct {
	state *controlled.Value[models.SelectionState]
	rowID models.RowIDFunc
}

// New creates an internally owned, empty selection
func New(rowID models.RowIDFunc, onChange func(models.SelectionState)) *Model {
	return &Model{state: controlled.New(models.NewSelectionState(), onChange), rowID: orDefault(rowID)}
}

// NewControlled creates a selection owned by the caller
func NewControlled(rowID models.RowIDFunc, get func() models.SelectionState, onChange func(models.SelectionState)) *Model {
	return &Model{state: controlled.Controlled(get, onChange), rowID: orDefault(rowID)}
}

func orDefault(f models.RowIDFunc) models.RowIDFunc {
	if f == nil {
		return models.DefaultRowID
	}
	return func(r models.Row) models.RowID { return models.NormalizeID(f(r)) }
}

// Settle hands reads back to the caller-owned state
func (m *Model) Settle() { m.state.Settle() }

// State returns a copy of the current selection
func (m *Model) State() models.SelectionState {
	return m.state.Get().Clone()
}

// SetState replaces the selection
func (m *Model) SetState(s models.SelectionState) {
	m.state.Set(s.Clone())
}

// RowID returns the identity of a row
func (m *Model) RowID(row models.Row) models.RowID {
	return m.rowID(row)
}

// IsSelected reports whether a row is selected under the current mode
func (m *Model) IsSelected(row models.Row) bool {
	s := m.state.Get()
	has := s.Has(m.rowID(row))
	if s.Type == models.SelectExclude {
		return !has
	}
	return has
}

// ToggleRow flips the row's membership in the id set
func (m *Model) ToggleRow(row models.Row) {
	next := m.State()
	id := m.rowID(row)
	if _, ok := next.IDs[id]; ok {
		delete(next.IDs, id)
	} else {
		next.IDs[id] = struct{}{}
	}
	m.state.Set(next)
}

// SelectPage selects every visible row
func (m *Model) SelectPage(visible []models.Row) {
	next := m.State()
	for _, r := range visible {
		id := m.rowID(r)
		if next.Type == models.SelectExclude {
			delete(next.IDs, id)
		} else {
			next.IDs[id] = struct{}{}
		}
	}
	m.state.Set(next)
}

// DeselectPage removes every visible row from the selection
func (m *Model) DeselectPage(visible []models.Row) {
	next := m.State()
	for _, r := range visible {
		id := m.rowID(r)
		if next.Type == models.SelectExclude {
			next.IDs[id] = struct{}{}
		} else {
			delete(next.IDs, id)
		}
	}
	m.state.Set(next)
}

// TogglePage deselects a fully selected page, otherwise selects it
func (m *Model) TogglePage(visible []models.Row) {
	if m.IsPageSelected(visible) {
		m.DeselectPage(visible)
		return
	}
	m.SelectPage(visible)
}

// SelectGlobal selects every row, including rows not loaded
func (m *Model) SelectGlobal() {
	m.state.Set(models.SelectionState{Type: models.SelectExclude, IDs: map[models.RowID]struct{}{}})
}

// Clear deselects everything
func (m *Model) Clear() {
	m.state.Set(models.NewSelectionState())
}

// SelectedCount is the number of selected rows out of total
func (m *Model) SelectedCount(total int) int {
	s := m.state.Get()
	if s.Type == models.SelectExclude {
		return max(0, total-len(s.IDs))
	}
	return len(s.IDs)
}

// IsPageSelected reports whether every visible row is selected
func (m *Model) IsPageSelected(visible []models.Row) bool {
	if len(visible) == 0 {
		return false
	}
	for _, r := range visible {
		if !m.IsSelected(r) {
			return false
		}
	}
	return true
}

// SelectedIDs lists the ids of an include selection in a stable order. An
// exclude selection cannot be enumerated without the rows, so ok is false;
// use Filter instead.
func (m *Model) SelectedIDs() (ids []models.RowID, ok bool) {
	s := m.state.Get()
	if s.Type == models.SelectExclude {
		return nil, false
	}
	ids = make([]models.RowID, 0, len(s.IDs))
	for id := range s.IDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return fmt.Sprint(ids[i]) < fmt.Sprint(ids[j])
	})
	return ids, true
}

// IsGlobal reports whether the selection is in exclude mode
func (m *Model) IsGlobal() bool {
	return m.state.Get().Type == models.SelectExclude
}

// Filter returns the selected rows among rows
func (m *Model) Filter(rows []models.Row) []models.Row {
	out := make([]models.Row, 0)
	for _, r := range rows {
		if m.IsSelected(r) {
			out = append(out, r)
		}
	}
	return out
}
