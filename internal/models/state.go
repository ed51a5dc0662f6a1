package models

import (
	"encoding/json"
	"time"
)

// GridState is the persistable part of a grid. Every field is optional: a nil
// field is absent and leaves the matching live state untouched on restore.
//
// SortModel needs a third state, so HasSort marks it present. HasSort with a
// nil SortModel is an explicit "unsorted".
type GridState struct {
	FilterModel           *FilterModel
	SortModel             *SortModel
	HasSort               bool
	PaginationModel       *PaginationModel
	Density               Density
	FastFilters           FastFilterState
	ColumnVisibilityModel map[string]bool
	PinnedColumns         map[string]PinSide
	ColumnOrder           []string
}

type gridStateJSON struct {
	FilterModel           *FilterModel        `json:"filterModel,omitempty"`
	SortModel             json.RawMessage     `json:"sortModel,omitempty"`
	PaginationModel       *PaginationModel    `json:"paginationModel,omitempty"`
	Density               Density             `json:"density,omitempty"`
	FastFilters           *FastFilterState    `json:"fastFilters,omitempty"`
	ColumnVisibilityModel *map[string]bool    `json:"columnVisibilityModel,omitempty"`
	PinnedColumns         *map[string]PinSide `json:"pinnedColumns,omitempty"`
	ColumnOrder           []string            `json:"columnOrder,omitempty"`
}

// MarshalJSON writes sortModel as null when explicitly unsorted and omits it when absent.
// Empty but present maps are written as {} so that restoring them clears the live state.
func (s GridState) MarshalJSON() ([]byte, error) {
	out := gridStateJSON{
		FilterModel:     s.FilterModel,
		PaginationModel: s.PaginationModel,
		Density:         s.Density,
		ColumnOrder:     s.ColumnOrder,
	}
	if s.FastFilters != nil {
		out.FastFilters = &s.FastFilters
	}
	if s.ColumnVisibilityModel != nil {
		out.ColumnVisibilityModel = &s.ColumnVisibilityModel
	}
	if s.PinnedColumns != nil {
		out.PinnedColumns = &s.PinnedColumns
	}
	if s.HasSort {
		if s.SortModel == nil {
			out.SortModel = json.RawMessage("null")
		} else {
			b, err := json.Marshal(s.SortModel)
			if err != nil {
				return nil, err
			}
			out.SortModel = b
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON
func (s *GridState) UnmarshalJSON(data []byte) error {
	var in gridStateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = GridState{
		FilterModel:     in.FilterModel,
		PaginationModel: in.PaginationModel,
		Density:         in.Density,
		ColumnOrder:     in.ColumnOrder,
	}
	if in.FastFilters != nil {
		s.FastFilters = *in.FastFilters
		if s.FastFilters == nil {
			s.FastFilters = FastFilterState{}
		}
	}
	if in.ColumnVisibilityModel != nil {
		s.ColumnVisibilityModel = *in.ColumnVisibilityModel
		if s.ColumnVisibilityModel == nil {
			s.ColumnVisibilityModel = map[string]bool{}
		}
	}
	if in.PinnedColumns != nil {
		s.PinnedColumns = *in.PinnedColumns
		if s.PinnedColumns == nil {
			s.PinnedColumns = map[string]PinSide{}
		}
	}
	if len(in.SortModel) > 0 {
		s.HasSort = true
		if string(in.SortModel) != "null" {
			var sm SortModel
			if err := json.Unmarshal(in.SortModel, &sm); err != nil {
				return err
			}
			s.SortModel = &sm
		}
	}
	if s.FilterModel != nil && s.FilterModel.Items == nil {
		s.FilterModel.Items = []FilterItem{}
	}
	return nil
}

// SavedView is a named snapshot of grid state
type SavedView struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	State     GridState `json:"state" yaml:"-"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	CreatedBy string    `json:"createdBy" yaml:"created_by"`
	Area      string    `json:"area" yaml:"area"`
}

// FetchParams is what a server-mode grid asks its data source for
type FetchParams struct {
	Pagination  PaginationModel `json:"pagination"`
	Sort        *SortModel      `json:"sort"`
	Filters     FilterModel     `json:"filters"`
	Search      string          `json:"search"`
	SearchField string          `json:"searchField,omitempty"`
}

// FetchResult is one page of server data plus the total row count
type FetchResult struct {
	Data  []Row `json:"data"`
	Total int   `json:"total"`
}
