package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/rebeliceyang/lazygrid/internal/columns"
	"github.com/rebeliceyang/lazygrid/internal/grid"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(grid.Options{
		Columns: []models.ColumnDef{
			{Field: "sel", Type: models.TypeCheckbox},
			{Field: "id", Type: models.TypeNumber, Width: 48},
			{Field: "name", HeaderName: "Name", Width: 120},
		},
		Rows: []models.Row{
			{"id": 1, "name": "Ada"},
			{"id": 2, "name": "Grace"},
		},
		ClientSearchDebounce: -1,
	})
	if err != nil {
		t.Fatalf("grid.New failed: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

func TestGridView_Render(t *testing.T) {
	g := testGrid(t)
	gv := NewGridView(theme.DefaultTheme(), 8)
	gv.Width = 120

	out := gv.Render(g.View(), g.IsSelected)
	for _, want := range []string{"Name", "Ada", "Grace", "1-2 of 2 rows", "page 1/1", "[ ]"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestGridView_SortAndSelection(t *testing.T) {
	g := testGrid(t)
	g.Sort("name")
	g.ToggleRow(models.Row{"id": 2})

	gv := NewGridView(theme.DefaultTheme(), 8)
	gv.Width = 120
	out := gv.Render(g.View(), g.IsSelected)

	if !strings.Contains(out, "Name ▲") {
		t.Errorf("expected ascending indicator in:\n%s", out)
	}
	if !strings.Contains(out, "[x]") || !strings.Contains(out, "1 selected") {
		t.Errorf("expected selected row in:\n%s", out)
	}
}

func TestGridView_NoResults(t *testing.T) {
	g := testGrid(t)
	g.SetSearch("nobody")

	out := NewGridView(theme.DefaultTheme(), 8).Render(g.View(), g.IsSelected)
	if !strings.Contains(out, "No results") {
		t.Errorf("expected no results message, got:\n%s", out)
	}
}

func TestGridView_ErrorWithoutRows(t *testing.T) {
	v := grid.View{
		Layout: columns.Layout{
			Columns: []models.ColumnDef{{Field: "name"}},
			Widths:  map[string]int{"name": 80},
		},
		Err:        errors.New("connection refused"),
		Pagination: models.PaginationModel{Page: 1, PageSize: 10},
	}
	out := NewGridView(theme.DefaultTheme(), 8).Render(v, nil)
	if !strings.Contains(out, "Error: connection refused") {
		t.Errorf("expected error message, got:\n%s", out)
	}
}

func TestGridView_CursorClamps(t *testing.T) {
	g := testGrid(t)
	gv := NewGridView(theme.DefaultTheme(), 8)
	v := g.View()

	gv.MoveCursor(10, len(v.Rows))
	if gv.Cursor != 1 {
		t.Errorf("expected cursor 1, got %d", gv.Cursor)
	}
	row, ok := gv.CurrentRow(v)
	if !ok || row["name"] != "Grace" {
		t.Errorf("expected Grace under cursor, got %v", row)
	}

	gv.MoveColumn(-5, len(v.Layout.Columns))
	col, ok := gv.CurrentColumn(v)
	if !ok || col.Field != "sel" {
		t.Errorf("expected first column, got %+v", col)
	}
}

func TestGridView_KeepsPinnedColumns(t *testing.T) {
	layout := columns.Layout{
		Columns: []models.ColumnDef{
			{Field: "id", Pinned: models.PinLeft},
			{Field: "a"}, {Field: "b"}, {Field: "c"},
		},
		Widths: map[string]int{"id": 40, "a": 80, "b": 80, "c": 80},
	}
	gv := NewGridView(theme.DefaultTheme(), 8)
	gv.Width = 30
	gv.ColCursor = 3

	cols := gv.visibleColumns(layout)
	if len(cols) == 0 || cols[0] != 0 {
		t.Fatalf("expected pinned column first, got %v", cols)
	}
	if cols[len(cols)-1] != 3 {
		t.Errorf("expected cursor column visible, got %v", cols)
	}
}

func TestFit(t *testing.T) {
	if got := fit("abcdef", 4); got != "abc…" {
		t.Errorf("expected truncated text, got %q", got)
	}
	if got := fit("ab", 4); got != "ab  " {
		t.Errorf("expected padded text, got %q", got)
	}
	if got := fit("日本語", 4); got != "日…  " && got != "日… " {
		t.Errorf("expected wide runes truncated by cells, got %q", got)
	}
}

func TestCellText_SingleLine(t *testing.T) {
	col := models.ColumnDef{Field: "note"}
	if got := CellText(col, models.Row{"note": "a\nb  c"}); got != "a b c" {
		t.Errorf("expected collapsed whitespace, got %q", got)
	}
}
