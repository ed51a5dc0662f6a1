package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Grid.PageSize != 25 || cfg.Debounce.ServerSearchMs != 500 || cfg.Storage.Backend != "file" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.Debounce.ClientSearch() != 300*time.Millisecond {
		t.Errorf("expected 300ms client debounce, got %v", cfg.Debounce.ClientSearch())
	}
}

func TestLoadFile_OverridesAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "grid:\n  page_size: 50\n  auto_fit: true\nstorage:\n  backend: sqlite\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LAZYGRID_LOG_LEVEL", "debug")
	t.Setenv("LAZYGRID_DEBOUNCE_PERSIST_MS", "0")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Grid.PageSize != 50 || !cfg.Grid.AutoFit || cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected file overrides, got %+v", cfg.Grid)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected env override, got %q", cfg.Log.Level)
	}
	if cfg.Debounce.Persist() >= 0 {
		t.Errorf("expected zero ms to mean immediate, got %v", cfg.Debounce.Persist())
	}
}

func TestLoadFile_InvalidBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  backend: redis\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestValidate_RefreshSchedule(t *testing.T) {
	cfg := GetDefaults()
	cfg.Source.Refresh = "@every 1m"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid schedule, got %v", err)
	}
	cfg.Source.Refresh = "sometimes"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestStoragePath(t *testing.T) {
	cfg := GetDefaults()
	cfg.Storage.Path = "/tmp/grid"
	if p, err := cfg.StoragePath(); err != nil || p != "/tmp/grid" {
		t.Errorf("expected explicit path, got %q (%v)", p, err)
	}
}
