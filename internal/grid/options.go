package grid

import (
	"time"

	"go.uber.org/zap"

	"github.com/rebeliceyang/lazygrid/internal/columns"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/persistence"
	"github.com/rebeliceyang/lazygrid/internal/query"
)

// DefaultClientSearchDebounce is the settle time of search text in client mode
const DefaultClientSearchDebounce = 300 * time.Millisecond

// Options configures a Grid. Each state with a getter (FilterModel,
// SortModel, PaginationModel, Selection, Density) is owned by the caller
// when the getter is set; its change callback must update what the getter
// returns. Callbacks run after the grid lock is released, in the order the
// changes happened, so they may read the grid or change it again.
type Options struct {
	Columns []models.ColumnDef
	// Rows are the client-side rows; ignored when Fetcher is set
	Rows []models.Row
	// Fetcher switches the grid to server mode
	Fetcher query.Fetcher
	RowID   models.RowIDFunc
	// RowCount overrides the reported total when positive
	RowCount int

	PageSize                  int
	KeepSelectionOnPageChange bool
	InitialFilterModel        *models.FilterModel
	InitialSort               *models.SortModel
	InitialDensity            models.Density
	SearchField               string

	FilterModel             func() models.FilterModel
	OnFilterModelChange     func(models.FilterModel)
	SortModel               func() *models.SortModel
	OnSortModelChange       func(*models.SortModel)
	PaginationModel         func() models.PaginationModel
	OnPaginationModelChange func(models.PaginationModel)
	Selection               func() models.SelectionState
	OnSelectionChange       func(models.SelectionState)
	Density                 func() models.Density
	OnDensityChange         func(models.Density)
	// OnRowsChange receives the client rows after UpdateRow
	OnRowsChange func([]models.Row)

	AutoFit        bool
	ContainerWidth int
	Measurer       columns.Measurer
	Padding        int
	SampleSize     int

	// Debounce delays; zero uses the default and a negative value applies at once
	ClientSearchDebounce time.Duration
	ServerSearchDebounce time.Duration
	PersistDelay         time.Duration
	WarnUnstableFetcher  bool

	// PersistID enables persistence under persistence.Key(PersistID)
	PersistID string
	Store     persistence.Store

	Logger *zap.Logger
	// OnChange is called without locks after every change, including fetch completions
	OnChange func()
}

func (o Options) withDefaults() Options {
	if o.PageSize < 1 {
		o.PageSize = models.DefaultPageSize
	}
	if !o.InitialDensity.Valid() {
		o.InitialDensity = models.DensityStandard
	}
	if o.SearchField == "" {
		o.SearchField = models.SearchAllFields
	}
	if o.Measurer == nil {
		o.Measurer = columns.CellMeasurer{PxPerCell: columns.DefaultPxPerCell}
	}
	if o.Padding == 0 {
		o.Padding = columns.DefaultPadding
	}
	if o.SampleSize == 0 {
		o.SampleSize = columns.DefaultSampleSize
	}
	if o.ClientSearchDebounce == 0 {
		o.ClientSearchDebounce = DefaultClientSearchDebounce
	}
	if o.ServerSearchDebounce == 0 {
		o.ServerSearchDebounce = query.DefaultSearchDebounce
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
