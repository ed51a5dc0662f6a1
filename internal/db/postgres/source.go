package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

// ErrNoTable is returned when a source is created without a table name
var ErrNoTable = errors.New("table name is required")

// Querier runs a query and returns rows keyed by column name. *Pool satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) ([]models.Row, error)
}

// Source fetches grid pages from one table
type Source struct {
	q       Querier
	table   string
	builder *filter.Builder
	logger  *zap.Logger
}

// NewSource creates a source over table, which may be schema-qualified
func NewSource(q Querier, table string, cols []models.ColumnDef, logger *zap.Logger) (*Source, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, ErrNoTable
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		q:       q,
		table:   pgx.Identifier(strings.Split(table, ".")).Sanitize(),
		builder: filter.NewBuilder(cols),
		logger:  logger.Named("postgres").With(zap.String("table", table)),
	}, nil
}

// Queries returns the count and page statements for params along with
// their arguments. The page statement takes two extra trailing arguments
// for LIMIT and OFFSET.
func (s *Source) Queries(params models.FetchParams) (count, page string, args []any) {
	where, args := s.builder.BuildWhere(params.Filters, params.Search, params.SearchField, 1)
	orderBy := s.builder.BuildOrderBy(params.Sort)

	count = joinClauses("SELECT COUNT(*) AS total FROM "+s.table, where)

	next := len(args) + 1
	page = joinClauses("SELECT * FROM "+s.table, where, orderBy,
		fmt.Sprintf("LIMIT $%d OFFSET $%d", next, next+1))
	return count, page, args
}

// Fetch implements the grid fetcher contract
func (s *Source) Fetch(ctx context.Context, params models.FetchParams) (models.FetchResult, error) {
	countSQL, pageSQL, args := s.Queries(params)

	countRows, err := s.q.Query(ctx, countSQL, args...)
	if err != nil {
		return models.FetchResult{}, fmt.Errorf("failed to get row count: %w", err)
	}
	total := 0
	if len(countRows) > 0 {
		total = toInt(countRows[0]["total"])
	}

	size := params.Pagination.PageSize
	if size < 1 {
		size = models.DefaultPageSize
	}
	page := max(params.Pagination.Page, 1)
	offset := (page - 1) * size

	rows, err := s.q.Query(ctx, pageSQL, append(args, size, offset)...)
	if err != nil {
		return models.FetchResult{}, fmt.Errorf("failed to get table data: %w", err)
	}

	s.logger.Debug("fetched page",
		zap.Int("page", page),
		zap.Int("rows", len(rows)),
		zap.Int("total", total))
	return models.FetchResult{Data: rows, Total: total}, nil
}

func joinClauses(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int32:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
