package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rebeliceyang/lazygrid/internal/refresh"
)

// EnvPrefix prefixes environment overrides, e.g. LAZYGRID_GRID_PAGE_SIZE
const EnvPrefix = "LAZYGRID"

// Config holds all application configuration
type Config struct {
	Grid     GridConfig     `mapstructure:"grid"`
	Debounce DebounceConfig `mapstructure:"debounce"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Source   SourceConfig   `mapstructure:"source"`
	Log      LogConfig      `mapstructure:"log"`
	Dev      DevConfig      `mapstructure:"dev"`
	UI       UIConfig       `mapstructure:"ui"`
}

type GridConfig struct {
	ID                        string `mapstructure:"id"`
	PageSize                  int    `mapstructure:"page_size"`
	SampleSize                int    `mapstructure:"sample_size"`
	Padding                   int    `mapstructure:"padding"`
	AutoFit                   bool   `mapstructure:"auto_fit"`
	KeepSelectionOnPageChange bool   `mapstructure:"keep_selection_on_page_change"`
}

type DebounceConfig struct {
	ClientSearchMs int `mapstructure:"client_search_ms"`
	ServerSearchMs int `mapstructure:"server_search_ms"`
	PersistMs      int `mapstructure:"persist_ms"`
}

// ClientSearch returns the client search debounce
func (d DebounceConfig) ClientSearch() time.Duration { return millis(d.ClientSearchMs) }

// ServerSearch returns the server search debounce
func (d DebounceConfig) ServerSearch() time.Duration { return millis(d.ServerSearchMs) }

// Persist returns the state write debounce
func (d DebounceConfig) Persist() time.Duration { return millis(d.PersistMs) }

// millis maps 0 to "apply at once", which the engine spells as negative
func millis(ms int) time.Duration {
	if ms <= 0 {
		return -1
	}
	return time.Duration(ms) * time.Millisecond
}

type StorageConfig struct {
	// Backend is memory, file or sqlite
	Backend   string `mapstructure:"backend"`
	Path      string `mapstructure:"path"`
	ViewsFile string `mapstructure:"views_file"`
}

type SourceConfig struct {
	// Kind is file, postgres or mongo
	Kind            string `mapstructure:"kind"`
	PostgresDSN     string `mapstructure:"postgres_dsn"`
	Table           string `mapstructure:"table"`
	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
	TimeoutMs       int    `mapstructure:"timeout_ms"`
	// Refresh is a cron schedule for re-fetching server data, empty to disable
	Refresh string `mapstructure:"refresh"`
}

// Timeout bounds one fetch
func (s SourceConfig) Timeout() time.Duration {
	if s.TimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
}

type DevConfig struct {
	WarnUnstableFetcher bool `mapstructure:"warn_unstable_fetcher"`
}

type UIConfig struct {
	Theme      string `mapstructure:"theme"`
	PxPerCell  int    `mapstructure:"px_per_cell"`
	ShowFooter bool   `mapstructure:"show_footer"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Grid: GridConfig{
			ID:         "default",
			PageSize:   25,
			SampleSize: 20,
			Padding:    32,
		},
		Debounce: DebounceConfig{
			ClientSearchMs: 300,
			ServerSearchMs: 500,
			PersistMs:      500,
		},
		Storage: StorageConfig{
			Backend:   "file",
			ViewsFile: "saved_views.yaml",
		},
		Source: SourceConfig{
			Kind:      "file",
			TimeoutMs: 30000,
		},
		Log: LogConfig{
			Level: "info",
		},
		Dev: DevConfig{
			WarnUnstableFetcher: true,
		},
		UI: UIConfig{
			Theme:      "default",
			PxPerCell:  8,
			ShowFooter: true,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaults()
	v.SetDefault("grid.id", d.Grid.ID)
	v.SetDefault("grid.page_size", d.Grid.PageSize)
	v.SetDefault("grid.sample_size", d.Grid.SampleSize)
	v.SetDefault("grid.padding", d.Grid.Padding)
	v.SetDefault("grid.auto_fit", d.Grid.AutoFit)
	v.SetDefault("grid.keep_selection_on_page_change", d.Grid.KeepSelectionOnPageChange)
	v.SetDefault("debounce.client_search_ms", d.Debounce.ClientSearchMs)
	v.SetDefault("debounce.server_search_ms", d.Debounce.ServerSearchMs)
	v.SetDefault("debounce.persist_ms", d.Debounce.PersistMs)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.views_file", d.Storage.ViewsFile)
	v.SetDefault("source.kind", d.Source.Kind)
	v.SetDefault("source.postgres_dsn", d.Source.PostgresDSN)
	v.SetDefault("source.table", d.Source.Table)
	v.SetDefault("source.mongo_uri", d.Source.MongoURI)
	v.SetDefault("source.mongo_database", d.Source.MongoDatabase)
	v.SetDefault("source.mongo_collection", d.Source.MongoCollection)
	v.SetDefault("source.timeout_ms", d.Source.TimeoutMs)
	v.SetDefault("source.refresh", d.Source.Refresh)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("dev.warn_unstable_fetcher", d.Dev.WarnUnstableFetcher)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.px_per_cell", d.UI.PxPerCell)
	v.SetDefault("ui.show_footer", d.UI.ShowFooter)
}

// Load loads .env, the config file from the usual locations and
// LAZYGRID_ environment overrides.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 1. User config directory
	if configDir, err := GetConfigPath(); err == nil {
		v.AddConfigPath(configDir)
	}

	// 2. Current directory
	v.AddConfigPath(".")

	// 3. Default config directory
	v.AddConfigPath("./config")

	return load(v)
}

// LoadFile loads configuration from an explicit file
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the engine cannot work with
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "file", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Source.Kind {
	case "file", "postgres", "mongo":
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}
	if c.Grid.PageSize < 1 {
		return fmt.Errorf("grid.page_size must be positive, got %d", c.Grid.PageSize)
	}
	if c.Source.Refresh != "" {
		if err := refresh.Validate(c.Source.Refresh); err != nil {
			return err
		}
	}
	return nil
}

// StoragePath returns the configured storage location, defaulting to the
// user config directory.
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	if c.Storage.Backend == "sqlite" {
		return filepath.Join(dir, "state.db"), nil
	}
	return filepath.Join(dir, "state"), nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazygrid"), nil
}
