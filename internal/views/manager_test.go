package views

import (
	"errors"
	"testing"
	"time"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

func viewState() models.GridState {
	fm := models.NewFilterModel()
	fm.Items = append(fm.Items, models.FilterItem{ID: "f1", Field: "status", Operator: models.OpIsAnyOf, Value: []any{"open", "late"}})
	return models.GridState{
		FilterModel:     &fm,
		HasSort:         true,
		PaginationModel: &models.PaginationModel{Page: 3, PageSize: 25},
		PinnedColumns:   map[string]models.PinSide{"id": models.PinLeft},
		ColumnOrder:     []string{"id", "status"},
	}
}

func TestManager_SaveDefaults(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	m.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	v, err := m.Save("  Late orders ", viewState(), Meta{})
	if err != nil {
		t.Fatal(err)
	}
	if v.ID == "" || v.Name != "Late orders" {
		t.Errorf("unexpected view %+v", v)
	}
	if v.CreatedBy != DefaultCreatedBy || v.Area != DefaultArea {
		t.Errorf("expected default metadata, got %q / %q", v.CreatedBy, v.Area)
	}
	if !v.CreatedAt.Equal(m.now()) {
		t.Errorf("expected createdAt %v, got %v", m.now(), v.CreatedAt)
	}
}

func TestManager_EmptyName(t *testing.T) {
	m, _ := NewManager(t.TempDir())
	if _, err := m.Save("   ", viewState(), Meta{}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestManager_ReloadKeepsState(t *testing.T) {
	dir := t.TempDir()
	m, _ := NewManager(dir)
	saved, err := m.Save("Mine", viewState(), Meta{CreatedBy: "ana", Area: "Sales"})
	if err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewManager(dir)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	got, err := reloaded.Get(saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CreatedBy != "ana" || got.Area != "Sales" {
		t.Errorf("expected metadata kept, got %+v", got)
	}
	if !got.State.HasSort || got.State.SortModel != nil {
		t.Errorf("expected explicit unsorted state kept, got %+v", got.State.SortModel)
	}
	if got.State.PaginationModel == nil || got.State.PaginationModel.Page != 3 {
		t.Errorf("expected page 3, got %+v", got.State.PaginationModel)
	}
	items := got.State.FilterModel.Items
	if len(items) != 1 || items[0].Operator != models.OpIsAnyOf {
		t.Fatalf("expected filter kept, got %+v", items)
	}
	if vals, ok := items[0].Value.([]any); !ok || len(vals) != 2 {
		t.Errorf("expected list value, got %#v", items[0].Value)
	}
	if got.State.PinnedColumns["id"] != models.PinLeft {
		t.Errorf("expected pin kept, got %v", got.State.PinnedColumns)
	}
}

func TestManager_RenameDeleteApply(t *testing.T) {
	m, _ := NewManager(t.TempDir())
	a, _ := m.Save("A", viewState(), Meta{})
	b, _ := m.Save("B", models.GridState{Density: models.DensityCompact}, Meta{})

	if err := m.Rename(a.ID, "Renamed"); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.Get(a.ID); got.Name != "Renamed" {
		t.Errorf("expected rename, got %q", got.Name)
	}
	if err := m.Rename("nope", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	state, err := m.Apply(b.ID)
	if err != nil || state.Density != models.DensityCompact {
		t.Errorf("expected compact state, got %+v (%v)", state, err)
	}

	if err := m.Delete(a.ID); err != nil {
		t.Fatal(err)
	}
	list := m.List()
	if len(list) != 1 || list[0].ID != b.ID {
		t.Errorf("expected only B left, got %+v", list)
	}
	if err := m.Delete(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestManager_Search(t *testing.T) {
	m, _ := NewManager(t.TempDir())
	_, _ = m.Save("Overdue", viewState(), Meta{Area: "Finance"})
	_, _ = m.Save("Open", viewState(), Meta{Area: "Support"})

	if got := m.Search("fin"); len(got) != 1 || got[0].Name != "Overdue" {
		t.Errorf("expected area match, got %+v", got)
	}
	if got := m.Search(""); len(got) != 2 {
		t.Errorf("expected all views, got %d", len(got))
	}
}

func TestManager_SearchToleratesTypos(t *testing.T) {
	m, _ := NewManager(t.TempDir())
	_, _ = m.Save("Overdue", viewState(), Meta{})
	_, _ = m.Save("Open", viewState(), Meta{})
	_, _ = m.Save("Overdue invoices", viewState(), Meta{})

	got := m.Search("ovredue")
	if len(got) != 1 || got[0].Name != "Overdue" {
		t.Errorf("expected a typo match on Overdue, got %+v", got)
	}

	got = m.Search("overdue")
	if len(got) != 2 {
		t.Errorf("expected both substring matches, got %+v", got)
	}
	if got := m.Search("xyz"); len(got) != 0 {
		t.Errorf("expected no matches, got %+v", got)
	}
}

