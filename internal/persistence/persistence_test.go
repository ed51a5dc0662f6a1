package persistence

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

func sampleState() models.GridState {
	fm := models.NewFilterModel()
	fm.Items = append(fm.Items, models.FilterItem{ID: "f1", Field: "name", Operator: models.OpContains, Value: "ada"})
	return models.GridState{
		FilterModel:           &fm,
		SortModel:             &models.SortModel{Field: "age", Direction: models.SortDesc},
		HasSort:               true,
		PaginationModel:       &models.PaginationModel{Page: 2, PageSize: 50},
		Density:               models.DensityCompact,
		ColumnVisibilityModel: map[string]bool{"email": false},
		PinnedColumns:         map[string]models.PinSide{"name": models.PinLeft},
		ColumnOrder:           []string{"name", "age", "email"},
	}
}

func testStores(t *testing.T) map[string]Store {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	sq, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{"memory": NewMemoryStore(), "file": fs, "sqlite": sq}
}

func TestStores_GetSetDelete(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			if err := s.Set("k", []byte(`{"a":1}`)); err != nil {
				t.Fatalf("set failed: %v", err)
			}
			if err := s.Set("k", []byte(`{"a":2}`)); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			got, err := s.Get("k")
			if err != nil || string(got) != `{"a":2}` {
				t.Errorf("expected overwritten value, got %q (%v)", got, err)
			}
			if err := s.Delete("k"); err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			if _, err := s.Get("k"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound after delete, got %v", err)
			}
			if err := s.Delete("k"); err != nil {
				t.Errorf("expected deleting a missing key to succeed, got %v", err)
			}
		})
	}
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Set("../escape", []byte("{}")); err == nil {
		t.Error("expected error for key with a path separator")
	}
}

func TestKey(t *testing.T) {
	if got := Key("orders-v2"); got != "datagrid_persistence_orders-v2" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestDecodeState_RejectsNonObject(t *testing.T) {
	for _, doc := range []string{`[1,2]`, `"x"`, `null`, `42`} {
		if _, err := DecodeState([]byte(doc)); !errors.Is(err, ErrNotObject) {
			t.Errorf("%s: expected ErrNotObject, got %v", doc, err)
		}
	}
	if _, err := DecodeState([]byte(`{bad`)); err == nil {
		t.Error("expected syntax error")
	}
}

func TestDecodeState_Partial(t *testing.T) {
	s, err := DecodeState([]byte(`{"density":"comfortable"}`))
	if err != nil {
		t.Fatal(err)
	}
	if s.Density != models.DensityComfortable {
		t.Errorf("expected comfortable, got %q", s.Density)
	}
	if s.FilterModel != nil || s.HasSort || s.PaginationModel != nil || s.ColumnOrder != nil {
		t.Errorf("expected absent keys to stay absent, got %+v", s)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportState(&buf, sampleState()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"") {
		t.Errorf("expected two-space indentation, got %s", buf.String())
	}

	got, err := ImportState(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.HasSort || got.SortModel == nil || got.SortModel.Field != "age" {
		t.Errorf("expected sort restored, got %+v", got.SortModel)
	}
	if got.PaginationModel.Page != 2 || got.PinnedColumns["name"] != models.PinLeft {
		t.Errorf("unexpected restore %+v", got)
	}
	if len(got.FilterModel.Items) != 1 || got.FilterModel.Items[0].Value != "ada" {
		t.Errorf("expected filter restored, got %+v", got.FilterModel)
	}
}

func TestPersister_DebouncesWrites(t *testing.T) {
	store := NewMemoryStore()
	p := NewPersister(store, "grid", time.Hour, nil)
	defer p.Close()

	for page := 1; page <= 5; page++ {
		s := sampleState()
		s.PaginationModel = &models.PaginationModel{Page: page, PageSize: 10}
		p.Schedule(s)
	}
	if _, err := store.Get(Key("grid")); !errors.Is(err, ErrNotFound) {
		t.Fatal("expected nothing written before the delay")
	}

	p.Flush()
	if p.Writes() != 1 {
		t.Errorf("expected 1 write, got %d", p.Writes())
	}
	got, ok := p.Load()
	if !ok || got.PaginationModel.Page != 5 {
		t.Errorf("expected last scheduled state, got %+v", got.PaginationModel)
	}
}

func TestPersister_WritesAfterDelay(t *testing.T) {
	store := NewMemoryStore()
	p := NewPersister(store, "grid", 10*time.Millisecond, nil)
	defer p.Close()

	p.Schedule(sampleState())
	deadline := time.Now().Add(2 * time.Second)
	for p.Writes() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected debounced write")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPersister_LoadMalformed(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Set(Key("grid"), []byte(`not json`))
	p := NewPersister(store, "grid", -1, nil)

	if _, ok := p.Load(); ok {
		t.Error("expected malformed state to be ignored")
	}
}

func TestPersister_IdentityChangeOrphans(t *testing.T) {
	store := NewMemoryStore()
	v1 := NewPersister(store, "orders", -1, nil)
	v1.Schedule(sampleState())

	v2 := NewPersister(store, "orders-v2", -1, nil)
	if _, ok := v2.Load(); ok {
		t.Error("expected new identity to start empty")
	}
	if _, ok := v1.Load(); !ok {
		t.Error("expected old document untouched")
	}
}

func TestPersister_CloseFlushesAndStops(t *testing.T) {
	store := NewMemoryStore()
	p := NewPersister(store, "grid", time.Hour, nil)
	p.Schedule(sampleState())
	p.Close()

	if p.Writes() != 1 {
		t.Fatalf("expected close to flush, got %d writes", p.Writes())
	}
	p.Schedule(sampleState())
	p.Flush()
	if p.Writes() != 1 {
		t.Errorf("expected no writes after close, got %d", p.Writes())
	}
}

func TestPersister_Clear(t *testing.T) {
	store := NewMemoryStore()
	p := NewPersister(store, "grid", -1, nil)
	p.Schedule(sampleState())
	if err := p.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Load(); ok {
		t.Error("expected cleared state")
	}
}
