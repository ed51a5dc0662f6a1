package postgres

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

type call struct {
	sql  string
	args []any
}

// fakeQuerier records statements and answers counts and pages from fixed rows
type fakeQuerier struct {
	calls []call
	total int64
	page  []models.Row
	err   error
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...any) ([]models.Row, error) {
	f.calls = append(f.calls, call{sql: sql, args: args})
	if f.err != nil {
		return nil, f.err
	}
	if strings.Contains(sql, "COUNT(*)") {
		return []models.Row{{"total": f.total}}, nil
	}
	return f.page, nil
}

var sourceColumns = []models.ColumnDef{
	{Field: "sel", Type: models.TypeCheckbox},
	{Field: "id", Type: models.TypeNumber},
	{Field: "name"},
}

func TestNewSource_RequiresTable(t *testing.T) {
	if _, err := NewSource(&fakeQuerier{}, "  ", sourceColumns, nil); !errors.Is(err, ErrNoTable) {
		t.Errorf("expected ErrNoTable, got %v", err)
	}
}

func TestQueries(t *testing.T) {
	s, err := NewSource(&fakeQuerier{}, "crm.customers", sourceColumns, nil)
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}

	count, page, args := s.Queries(models.FetchParams{
		Search:      "ada",
		SearchField: models.SearchAllFields,
		Sort:        &models.SortModel{Field: "name", Direction: models.SortAsc},
	})

	where := `WHERE ("id"::text ILIKE $1 OR "name"::text ILIKE $1)`
	if want := `SELECT COUNT(*) AS total FROM "crm"."customers" ` + where; count != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, count)
	}
	if want := `SELECT * FROM "crm"."customers" ` + where + ` ORDER BY "name" ASC NULLS LAST LIMIT $2 OFFSET $3`; page != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, page)
	}
	if !reflect.DeepEqual(args, []any{"%ada%"}) {
		t.Errorf("unexpected args %v", args)
	}
}

func TestQueries_NoFilters(t *testing.T) {
	s, _ := NewSource(&fakeQuerier{}, "customers", sourceColumns, nil)
	count, page, args := s.Queries(models.FetchParams{Filters: models.NewFilterModel()})

	if count != `SELECT COUNT(*) AS total FROM "customers"` {
		t.Errorf("unexpected count query %q", count)
	}
	if page != `SELECT * FROM "customers" LIMIT $1 OFFSET $2` {
		t.Errorf("unexpected page query %q", page)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestFetch(t *testing.T) {
	q := &fakeQuerier{total: 42, page: []models.Row{{"id": int64(11)}}}
	s, _ := NewSource(q, "customers", sourceColumns, nil)

	res, err := s.Fetch(context.Background(), models.FetchParams{
		Pagination: models.PaginationModel{Page: 3, PageSize: 5},
		Filters:    models.NewFilterModel(),
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if res.Total != 42 || len(res.Data) != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	if len(q.calls) != 2 {
		t.Fatalf("expected count and page queries, got %d", len(q.calls))
	}
	if got := q.calls[1].args; !reflect.DeepEqual(got, []any{5, 10}) {
		t.Errorf("expected limit 5 offset 10, got %v", got)
	}
}

func TestFetch_DefaultsPageSize(t *testing.T) {
	q := &fakeQuerier{}
	s, _ := NewSource(q, "customers", sourceColumns, nil)

	if _, err := s.Fetch(context.Background(), models.FetchParams{}); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got := q.calls[1].args; !reflect.DeepEqual(got, []any{models.DefaultPageSize, 0}) {
		t.Errorf("expected default limit and zero offset, got %v", got)
	}
}

func TestFetch_WrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	s, _ := NewSource(&fakeQuerier{err: boom}, "customers", sourceColumns, nil)

	_, err := s.Fetch(context.Background(), models.FetchParams{})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestDiscoverColumns(t *testing.T) {
	q := &fakeQuerier{page: []models.Row{
		{"column_name": "id", "data_type": "bigint", "udt_name": "int8"},
		{"column_name": "payload", "data_type": "jsonb", "udt_name": "jsonb"},
		{"column_name": "tags", "data_type": "ARRAY", "udt_name": "_text"},
		{"column_name": "seen_at", "data_type": "timestamp with time zone", "udt_name": "timestamptz"},
	}}

	cols, err := DiscoverColumns(context.Background(), q, "public", "events")
	if err != nil {
		t.Fatalf("DiscoverColumns failed: %v", err)
	}
	want := []models.ColumnType{models.TypeNumber, models.TypeLongText, models.TypeTags, models.TypeDateTime}
	for i, c := range cols {
		if c.Type != want[i] {
			t.Errorf("column %s: expected %s, got %s", c.Field, want[i], c.Type)
		}
	}
	if !reflect.DeepEqual(q.calls[0].args, []any{"public", "events"}) {
		t.Errorf("unexpected args %v", q.calls[0].args)
	}
}

func TestSplitTable(t *testing.T) {
	if s, tb := SplitTable("crm.customers"); s != "crm" || tb != "customers" {
		t.Errorf("expected crm.customers, got %s.%s", s, tb)
	}
	if s, tb := SplitTable("customers"); s != "public" || tb != "customers" {
		t.Errorf("expected public.customers, got %s.%s", s, tb)
	}
}
