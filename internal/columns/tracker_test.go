package columns

import (
	"reflect"
	"testing"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

func TestTracker_SyncKeepsOrderAndAppends(t *testing.T) {
	tr := NewTracker()
	tr.Sync([]models.ColumnDef{{Field: "a"}, {Field: "b"}, {Field: "c"}})
	tr.Reorder([]string{"c", "a", "b"})

	tr.Sync([]models.ColumnDef{{Field: "a"}, {Field: "c"}, {Field: "d"}})

	want := []string{"c", "a", "d"}
	if !reflect.DeepEqual(tr.Order(), want) {
		t.Errorf("expected %v, got %v", want, tr.Order())
	}
}

func TestTracker_SeedsPinsOnce(t *testing.T) {
	tr := NewTracker()
	tr.Sync([]models.ColumnDef{{Field: "id", Pinned: models.PinLeft}, {Field: "name"}})

	if tr.Pinned()["id"] != models.PinLeft {
		t.Fatalf("expected id seeded as left, got %v", tr.Pinned())
	}

	tr.Pin("id", models.PinNone)
	tr.Sync([]models.ColumnDef{{Field: "id", Pinned: models.PinLeft}, {Field: "name"}})

	side, ok := tr.Pinned()["id"]
	if !ok || side != models.PinNone {
		t.Errorf("expected explicit unpin to survive sync, got %q (present=%v)", side, ok)
	}
}

func TestTracker_ResizeMinimumAndExplicit(t *testing.T) {
	tr := NewTracker()
	cols := []models.ColumnDef{{Field: "a"}, {Field: "b"}}
	tr.Sync(cols)

	if got := tr.Resize("a", 10); got != MinResizeWidth {
		t.Errorf("expected resize clamped to %d, got %d", MinResizeWidth, got)
	}
	tr.Resize("a", 120)

	l := tr.Layout(LayoutInput{Columns: cols, ContainerWidth: 400})
	if l.Width("a") != 120 {
		t.Errorf("expected manual width 120 kept, got %d", l.Width("a"))
	}
	if l.Width("b") != 280 {
		t.Errorf("expected b to take the surplus, got %d", l.Width("b"))
	}
}

func TestTracker_Move(t *testing.T) {
	tr := NewTracker()
	tr.Sync([]models.ColumnDef{{Field: "a"}, {Field: "b"}, {Field: "c"}})

	if !tr.Move("a", 1) {
		t.Fatal("expected move to succeed")
	}
	if !reflect.DeepEqual(tr.Order(), []string{"b", "a", "c"}) {
		t.Errorf("unexpected order %v", tr.Order())
	}
	if tr.Move("b", -1) {
		t.Error("expected move past the start to be a no-op")
	}
	if tr.Move("zzz", 1) {
		t.Error("expected unknown field move to fail")
	}
}

func TestTracker_HideShow(t *testing.T) {
	tr := NewTracker()
	cols := []models.ColumnDef{{Field: "a"}, {Field: "b"}}
	tr.Sync(cols)

	tr.Hide("a")
	if l := tr.Layout(LayoutInput{Columns: cols}); len(l.Columns) != 1 || l.Columns[0].Field != "b" {
		t.Errorf("expected only b visible, got %v", fields(l.Columns))
	}

	tr.Show("a")
	if tr.IsHidden("a") {
		t.Error("expected a visible again")
	}
	if v, ok := tr.Hidden()["a"]; !ok || v {
		t.Errorf("expected a recorded as visible, got %v (present=%v)", v, ok)
	}
}
