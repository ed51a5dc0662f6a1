package models

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Row is a single record of grid data. Nested objects are reached with dot paths.
type Row = map[string]any

// RowID identifies a row across pages. It must be usable as a map key.
type RowID = any

// RowIDFunc extracts the stable identity of a row
type RowIDFunc func(Row) RowID

// DefaultRowID reads the "id" field
func DefaultRowID(row Row) RowID {
	return NormalizeID(row["id"])
}

// NormalizeID makes an id usable as a map key. Non-comparable values are
// replaced with their printed form.
func NormalizeID(id any) RowID {
	if id == nil {
		return nil
	}
	if !reflect.TypeOf(id).Comparable() {
		return fmt.Sprint(id)
	}
	return id
}

// Mode selects where filtering, sorting and paging happen
type Mode string

const (
	ModeClient Mode = "client"
	ModeServer Mode = "server"
)

// Density controls row height in a renderer
type Density string

const (
	DensityCompact     Density = "compact"
	DensityStandard    Density = "standard"
	DensityComfortable Density = "comfortable"
)

// Valid reports whether d is one of the known densities
func (d Density) Valid() bool {
	switch d {
	case DensityCompact, DensityStandard, DensityComfortable:
		return true
	}
	return false
}

// SortDirection is the direction of the active sort
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortModel is the single active sort. A nil *SortModel means unsorted.
type SortModel struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

// Clone returns a copy of the sort, or nil
func (s *SortModel) Clone() *SortModel {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// PaginationModel holds the current page (1-based) and page size
type PaginationModel struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// DefaultPageSize is used when no page size is configured
const DefaultPageSize = 25

// NewPaginationModel starts on page 1
func NewPaginationModel(pageSize int) PaginationModel {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return PaginationModel{Page: 1, PageSize: pageSize}
}

// SelectionType is the selection mode
type SelectionType string

const (
	// SelectInclude means IDs lists the selected rows
	SelectInclude SelectionType = "include"
	// SelectExclude means every row is selected except IDs
	SelectExclude SelectionType = "exclude"
)

// SelectionState is an include or exclude set of row ids
type SelectionState struct {
	Type SelectionType
	IDs  map[RowID]struct{}
}

// NewSelectionState returns an empty include selection
func NewSelectionState() SelectionState {
	return SelectionState{Type: SelectInclude, IDs: map[RowID]struct{}{}}
}

// Clone copies the id set
func (s SelectionState) Clone() SelectionState {
	ids := make(map[RowID]struct{}, len(s.IDs))
	for id := range s.IDs {
		ids[id] = struct{}{}
	}
	t := s.Type
	if t == "" {
		t = SelectInclude
	}
	return SelectionState{Type: t, IDs: ids}
}

// Has reports whether id is in the set
func (s SelectionState) Has(id RowID) bool {
	_, ok := s.IDs[NormalizeID(id)]
	return ok
}

// selectionJSON is the wire form of SelectionState
type selectionJSON struct {
	Type SelectionType `json:"type"`
	IDs  []RowID       `json:"ids"`
}

// MarshalJSON encodes the id set as an array
func (s SelectionState) MarshalJSON() ([]byte, error) {
	out := selectionJSON{Type: s.Type, IDs: make([]RowID, 0, len(s.IDs))}
	if out.Type == "" {
		out.Type = SelectInclude
	}
	for id := range s.IDs {
		out.IDs = append(out.IDs, id)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the array form
func (s *SelectionState) UnmarshalJSON(data []byte) error {
	var in selectionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.Type = in.Type
	if s.Type != SelectExclude {
		s.Type = SelectInclude
	}
	s.IDs = make(map[RowID]struct{}, len(in.IDs))
	for _, id := range in.IDs {
		s.IDs[NormalizeID(id)] = struct{}{}
	}
	return nil
}
