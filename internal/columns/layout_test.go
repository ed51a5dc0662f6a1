package columns

import (
	"reflect"
	"testing"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// tenPx measures every byte as 10 pixels
var tenPx = MeasureFunc(func(s string) int { return len(s) * 10 })

func fields(cols []models.ColumnDef) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Field
	}
	return out
}

func TestArrange_OrderPinAndHide(t *testing.T) {
	cols := []models.ColumnDef{{Field: "a"}, {Field: "b"}, {Field: "c"}, {Field: "d"}}
	got := Arrange(cols,
		[]string{"c", "gone", "a"},
		map[string]bool{"a": true},
		map[string]models.PinSide{"d": models.PinLeft, "b": models.PinRight},
	)

	want := []string{"d", "c", "b"}
	if !reflect.DeepEqual(fields(got), want) {
		t.Errorf("expected %v, got %v", want, fields(got))
	}
}

func TestArrange_StoredUnpinOverridesDefinition(t *testing.T) {
	cols := []models.ColumnDef{{Field: "a"}, {Field: "b", Pinned: models.PinLeft}}

	got := Arrange(cols, nil, nil, nil)
	if fields(got)[0] != "b" {
		t.Errorf("expected b pinned first, got %v", fields(got))
	}

	got = Arrange(cols, nil, nil, map[string]models.PinSide{"b": models.PinNone})
	if !reflect.DeepEqual(fields(got), []string{"a", "b"}) {
		t.Errorf("expected definition order after unpin, got %v", fields(got))
	}
	if got[1].Pinned != models.PinNone {
		t.Errorf("expected b unpinned, got %q", got[1].Pinned)
	}
}

func TestResolveLayout_WidthLayers(t *testing.T) {
	cols := []models.ColumnDef{
		{Field: "a", Width: 200},
		{Field: "b", Type: models.TypeNumber},
		{Field: "c", Type: models.TypeDate},
		{Field: "d", Type: models.TypeNumber, MaxWidth: 130},
	}
	rows := []models.Row{{"b": "123456789012", "c": "a very long date string", "d": "123456789012"}}

	l := ResolveLayout(LayoutInput{Columns: cols, SampleRows: rows, Measurer: tenPx})

	want := map[string]int{"a": 200, "b": 152, "c": 120, "d": 130}
	if !reflect.DeepEqual(l.Widths, want) {
		t.Errorf("expected %v, got %v", want, l.Widths)
	}
}

func TestResolveLayout_MeasuredSmallerThanDefault(t *testing.T) {
	cols := []models.ColumnDef{{Field: "b", Type: models.TypeNumber}}
	rows := []models.Row{{"b": 1}}

	l := ResolveLayout(LayoutInput{Columns: cols, SampleRows: rows, Measurer: tenPx})
	if l.Width("b") != 100 {
		t.Errorf("expected default width 100, got %d", l.Width("b"))
	}
}

func TestResolveLayout_SampleSizeLimit(t *testing.T) {
	cols := []models.ColumnDef{{Field: "t"}}
	rows := make([]models.Row, 0, 25)
	for i := 0; i < 20; i++ {
		rows = append(rows, models.Row{"t": "x"})
	}
	rows = append(rows, models.Row{"t": "this value is past the sample and never measured"})

	l := ResolveLayout(LayoutInput{Columns: cols, SampleRows: rows, Measurer: tenPx})
	if l.Width("t") != 150 {
		t.Errorf("expected 150, got %d", l.Width("t"))
	}
}

func TestResolveLayout_SurplusExactFit(t *testing.T) {
	cols := []models.ColumnDef{
		{Field: "a", Width: 100},
		{Field: "b"},
		{Field: "c", Type: models.TypeNumber},
	}

	l := ResolveLayout(LayoutInput{Columns: cols, ContainerWidth: 501})

	if l.Width("a") != 100 {
		t.Errorf("expected explicit width untouched, got %d", l.Width("a"))
	}
	if l.Width("b") != 225 || l.Width("c") != 176 {
		t.Errorf("expected b=225 c=176, got b=%d c=%d", l.Width("b"), l.Width("c"))
	}
	if l.TotalWidth != 501 {
		t.Errorf("expected exact fit 501, got %d", l.TotalWidth)
	}
}

func TestResolveLayout_NoSurplusWhenOverflowing(t *testing.T) {
	cols := []models.ColumnDef{{Field: "a"}, {Field: "b"}}
	l := ResolveLayout(LayoutInput{Columns: cols, ContainerWidth: 200})
	if l.TotalWidth != 300 {
		t.Errorf("expected default widths summing to 300, got %d", l.TotalWidth)
	}
}

func TestResolveLayout_AutoFitAllFixed(t *testing.T) {
	cols := []models.ColumnDef{{Field: "a", Width: 100}, {Field: "b", Width: 100}}

	l := ResolveLayout(LayoutInput{Columns: cols, ContainerWidth: 301})
	if l.TotalWidth != 200 {
		t.Errorf("expected no growth without autoFit, got %d", l.TotalWidth)
	}

	l = ResolveLayout(LayoutInput{Columns: cols, ContainerWidth: 301, AutoFit: true})
	if l.Width("a") != 150 || l.Width("b") != 151 {
		t.Errorf("expected a=150 b=151, got a=%d b=%d", l.Width("a"), l.Width("b"))
	}
}

func TestResolveLayout_CheckboxNotMeasured(t *testing.T) {
	cols := []models.ColumnDef{{Field: "sel", Type: models.TypeCheckbox}, {Field: "name"}}
	rows := []models.Row{{"sel": "a long value that would widen the column", "name": "x"}}

	l := ResolveLayout(LayoutInput{Columns: cols, SampleRows: rows, Measurer: tenPx, AutoFit: true})
	if l.Width("sel") != 60 {
		t.Errorf("expected checkbox width 60, got %d", l.Width("sel"))
	}
}

func TestResolveLayout_CheckboxSharesSurplus(t *testing.T) {
	cols := []models.ColumnDef{{Field: "sel", Type: models.TypeCheckbox}, {Field: "name"}}

	l := ResolveLayout(LayoutInput{Columns: cols, ContainerWidth: 410})
	if l.Width("sel") != 160 || l.Width("name") != 250 {
		t.Errorf("expected sel=160 name=250, got sel=%d name=%d", l.Width("sel"), l.Width("name"))
	}

	cols[0].Width = 60
	l = ResolveLayout(LayoutInput{Columns: cols, ContainerWidth: 410})
	if l.Width("sel") != 60 || l.Width("name") != 350 {
		t.Errorf("expected explicit checkbox width kept, got sel=%d name=%d", l.Width("sel"), l.Width("name"))
	}
}

func TestStickyOffsets(t *testing.T) {
	cols := []models.ColumnDef{
		{Field: "l1", Width: 60, Pinned: models.PinLeft},
		{Field: "l2", Width: 100, Pinned: models.PinLeft},
		{Field: "mid", Width: 300},
		{Field: "r1", Width: 80, Pinned: models.PinRight},
		{Field: "r2", Width: 50, Pinned: models.PinRight},
	}

	l := ResolveLayout(LayoutInput{Columns: cols})

	want := map[string]int{"l1": 0, "l2": 60, "r1": 50, "r2": 0}
	if !reflect.DeepEqual(l.Offsets, want) {
		t.Errorf("expected %v, got %v", want, l.Offsets)
	}
}

func TestConfigFor_UnknownFallsBackToText(t *testing.T) {
	if got := ConfigFor("nonsense").Width; got != 150 {
		t.Errorf("expected text width 150, got %d", got)
	}
}

func TestNormalize_Checkbox(t *testing.T) {
	c := Normalize(models.ColumnDef{Field: "sel", Type: models.TypeCheckbox})
	if c.IsSortable() || c.IsResizable() || c.HasColumnMenu() {
		t.Error("expected checkbox to be neither sortable, resizable nor menu-enabled")
	}
	if c.Width != 0 {
		t.Errorf("expected width to stay unset, got %d", c.Width)
	}
}
