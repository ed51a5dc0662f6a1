package pagination

import (
	"reflect"
	"testing"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

func rowsN(n int) []models.Row {
	rows := make([]models.Row, n)
	for i := range rows {
		rows[i] = models.Row{"id": i}
	}
	return rows
}

func TestPage_SecondPageOfFive(t *testing.T) {
	c := New(models.ModeClient, 2, nil)
	c.SetPage(2)

	got := c.Page(rowsN(5))

	if len(got) != 2 || got[0]["id"] != 2 || got[1]["id"] != 3 {
		t.Errorf("expected rows 2 and 3, got %v", got)
	}
}

func TestSlice_PagesReconstructAll(t *testing.T) {
	for _, n := range []int{0, 1, 7, 10, 23} {
		for _, size := range []int{1, 3, 5, 10} {
			items := make([]int, n)
			for i := range items {
				items[i] = i
			}

			var all []int
			for p := 1; p <= PageCount(n, size); p++ {
				page := Slice(items, p, size)
				if len(page) > size {
					t.Fatalf("n=%d size=%d page %d has %d items", n, size, p, len(page))
				}
				all = append(all, page...)
			}
			if n == 0 {
				all = []int{}
			}
			if !reflect.DeepEqual(all, items) {
				t.Errorf("n=%d size=%d: pages do not reconstruct input, got %v", n, size, all)
			}
		}
	}
}

func TestSetPageSize_ResetsPage(t *testing.T) {
	c := New(models.ModeClient, 10, nil)
	c.SetPage(4)
	c.SetPageSize(50)

	if m := c.Model(); m.Page != 1 || m.PageSize != 50 {
		t.Errorf("expected page 1 size 50, got %+v", m)
	}
}

func TestSetPage_BelowOne(t *testing.T) {
	c := New(models.ModeClient, 10, nil)
	c.SetPage(-3)
	if c.Model().Page != 1 {
		t.Errorf("expected page 1, got %d", c.Model().Page)
	}
}

func TestClamp(t *testing.T) {
	c := New(models.ModeClient, 10, nil)
	c.SetPage(5)

	if !c.Clamp(25) {
		t.Fatal("expected clamp to move the page")
	}
	if c.Model().Page != 3 {
		t.Errorf("expected page 3, got %d", c.Model().Page)
	}
	if c.Clamp(25) {
		t.Error("expected no change when in range")
	}
	c.SetPage(9)
	if c.Clamp(0) {
		t.Error("expected no clamp with zero rows")
	}
}

func TestClamp_ServerModeNoop(t *testing.T) {
	c := New(models.ModeServer, 10, nil)
	c.SetPage(5)
	if c.Clamp(3) || c.Model().Page != 5 {
		t.Errorf("expected server mode to keep page 5, got %d", c.Model().Page)
	}
	if rows := rowsN(3); len(c.Page(rows)) != 3 {
		t.Error("expected server rows passed through")
	}
}

func TestControlled_SameBehaviour(t *testing.T) {
	owned := models.PaginationModel{Page: 1, PageSize: 2}
	var changes []models.PaginationModel
	c := NewControlled(models.ModeClient,
		func() models.PaginationModel { return owned },
		func(m models.PaginationModel) {
			changes = append(changes, m)
			owned = m
		})

	c.SetPage(3)
	got := c.Page(rowsN(6))

	if len(changes) != 1 || changes[0].Page != 3 {
		t.Fatalf("expected one change to page 3, got %v", changes)
	}
	if len(got) != 2 || got[0]["id"] != 4 {
		t.Errorf("expected rows 4 and 5, got %v", got)
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct{ total, size, want int }{
		{0, 10, 0}, {1, 10, 1}, {10, 10, 1}, {11, 10, 2}, {5, 0, 0},
	}
	for _, tt := range tests {
		if got := PageCount(tt.total, tt.size); got != tt.want {
			t.Errorf("PageCount(%d, %d): expected %d, got %d", tt.total, tt.size, tt.want, got)
		}
	}
}
