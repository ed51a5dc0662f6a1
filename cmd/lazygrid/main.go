package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rebeliceyang/lazygrid/internal/app"
	"github.com/rebeliceyang/lazygrid/internal/columns"
	"github.com/rebeliceyang/lazygrid/internal/config"
	"github.com/rebeliceyang/lazygrid/internal/dataset"
	"github.com/rebeliceyang/lazygrid/internal/db/mongo"
	"github.com/rebeliceyang/lazygrid/internal/db/postgres"
	"github.com/rebeliceyang/lazygrid/internal/grid"
	"github.com/rebeliceyang/lazygrid/internal/logger"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/persistence"
	"github.com/rebeliceyang/lazygrid/internal/query"
	"github.com/rebeliceyang/lazygrid/internal/refresh"
	"github.com/rebeliceyang/lazygrid/internal/views"
)

type flags struct {
	config  string
	data    string
	columns string
	source  string
	table   string

	// rememberPassword stores the DSN password in the OS keyring
	rememberPassword bool
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "config file (default: search the user config dir and .)")
	flag.StringVar(&f.data, "data", "", "rows file (.json, .jsonl, .yaml or .csv) for the file source")
	flag.StringVar(&f.columns, "columns", "", "column definitions file (.json or .yaml)")
	flag.StringVar(&f.source, "source", "", "override source.kind: file, postgres or mongo")
	flag.StringVar(&f.table, "table", "", "override source.table or source.mongo_collection")
	flag.BoolVar(&f.rememberPassword, "remember-password", false, "save the postgres password in the OS keyring")
	flag.Parse()

	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	log := logger.Nop()
	if cfg.Log.File != "" {
		if log, err = logger.New(cfg.Log); err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
	}
	defer func() { _ = log.Sync() }()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	viewsManager, err := openViews(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	src, err := openSource(ctx, cfg, f, log)
	if err != nil {
		return err
	}
	defer src.close()

	notifier := app.NewNotifier()
	g, err := grid.New(grid.Options{
		Columns:                   src.columns,
		Rows:                      src.rows,
		Fetcher:                   src.fetcher,
		PageSize:                  cfg.Grid.PageSize,
		KeepSelectionOnPageChange: cfg.Grid.KeepSelectionOnPageChange,
		AutoFit:                   cfg.Grid.AutoFit,
		Measurer:                  columns.CellMeasurer{PxPerCell: cfg.UI.PxPerCell},
		Padding:                   cfg.Grid.Padding,
		SampleSize:                cfg.Grid.SampleSize,
		ClientSearchDebounce:      cfg.Debounce.ClientSearch(),
		ServerSearchDebounce:      cfg.Debounce.ServerSearch(),
		PersistDelay:              cfg.Debounce.Persist(),
		WarnUnstableFetcher:       cfg.Dev.WarnUnstableFetcher,
		PersistID:                 cfg.Grid.ID,
		Store:                     store,
		Logger:                    log,
		OnChange:                  notifier.Notify,
	})
	if err != nil {
		return fmt.Errorf("failed to create grid: %w", err)
	}
	defer g.Close()

	if src.fetcher != nil && cfg.Source.Refresh != "" {
		scheduler, err := refresh.Start(cfg.Source.Refresh, g.Refresh, log)
		if err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	model := app.New(app.Options{
		Grid:     g,
		Config:   cfg,
		Views:    viewsManager,
		Notifier: notifier,
		Logger:   log,
		Title:    src.title,
	})

	log.Info("starting", zap.String("source", cfg.Source.Kind), zap.String("grid", cfg.Grid.ID))
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run program: %w", err)
	}
	return nil
}

func loadConfig(f flags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.config != "" {
		cfg, err = config.LoadFile(f.config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if f.source != "" {
		cfg.Source.Kind = f.source
	}
	if f.table != "" {
		cfg.Source.Table = f.table
		cfg.Source.MongoCollection = f.table
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (persistence.Store, func(), error) {
	noop := func() {}
	if cfg.Storage.Backend == "memory" {
		return persistence.NewMemoryStore(), noop, nil
	}

	path, err := cfg.StoragePath()
	if err != nil {
		return nil, noop, fmt.Errorf("failed to resolve storage path: %w", err)
	}
	if cfg.Storage.Backend == "file" {
		store, err := persistence.NewFileStore(path)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open state directory: %w", err)
		}
		return store, noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, noop, fmt.Errorf("failed to create state directory: %w", err)
	}
	store, err := persistence.NewSQLiteStore(path)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open state database: %w", err)
	}
	return store, func() { _ = store.Close() }, nil
}

func openViews(cfg *config.Config) (*views.Manager, error) {
	path := cfg.Storage.ViewsFile
	if path == "" {
		path = views.FileName
	}
	if !filepath.IsAbs(path) {
		dir, err := config.GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config directory: %w", err)
		}
		path = filepath.Join(dir, path)
	}
	return views.Open(path)
}

// source is what the grid is built from: rows for client mode or a fetcher
// for server mode.
type source struct {
	title   string
	columns []models.ColumnDef
	rows    []models.Row
	fetcher query.Fetcher
	close   func()
}

func openSource(ctx context.Context, cfg *config.Config, f flags, log *zap.Logger) (*source, error) {
	var cols []models.ColumnDef
	if f.columns != "" {
		loaded, err := dataset.LoadColumns(f.columns)
		if err != nil {
			return nil, err
		}
		cols = loaded
	}

	timeout := cfg.Source.Timeout()
	switch cfg.Source.Kind {
	case "postgres":
		passwords := postgres.NewPasswordStore()
		pool, err := postgres.NewPool(ctx, cfg.Source.PostgresDSN, passwords)
		if err != nil {
			return nil, err
		}
		if f.rememberPassword {
			rememberPassword(cfg.Source.PostgresDSN, passwords, log)
		}
		if len(cols) == 0 {
			schema, table := postgres.SplitTable(cfg.Source.Table)
			if cols, err = postgres.DiscoverColumns(ctx, pool, schema, table); err != nil {
				pool.Close()
				return nil, err
			}
		}
		src, err := postgres.NewSource(pool, cfg.Source.Table, cols, log)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return &source{
			title:   cfg.Source.Table,
			columns: cols,
			fetcher: withTimeout(src, timeout),
			close:   pool.Close,
		}, nil

	case "mongo":
		if len(cols) == 0 {
			return nil, fmt.Errorf("mongo source needs -columns")
		}
		src, err := mongo.Connect(ctx, cfg.Source.MongoURI, cfg.Source.MongoDatabase, cfg.Source.MongoCollection, cols, log)
		if err != nil {
			return nil, err
		}
		return &source{
			title:   cfg.Source.MongoDatabase + "." + cfg.Source.MongoCollection,
			columns: cols,
			fetcher: withTimeout(src, timeout),
			close:   func() { _ = src.Close(context.Background()) },
		}, nil

	default:
		if f.data == "" {
			return nil, fmt.Errorf("file source needs -data")
		}
		rows, err := dataset.LoadRows(f.data)
		if err != nil {
			return nil, err
		}
		if len(cols) == 0 {
			cols = dataset.InferColumns(rows, dataset.DefaultSample)
		}
		return &source{
			title:   filepath.Base(f.data),
			columns: cols,
			rows:    rows,
			close:   func() {},
		}, nil
	}
}

func rememberPassword(dsn string, passwords *postgres.PasswordStore, log *zap.Logger) {
	parsed, err := postgres.ParseConfig(dsn, nil)
	if err == nil {
		err = passwords.Remember(&parsed.ConnConfig.Config)
	}
	if err != nil {
		log.Warn("could not save password", zap.Error(err))
	}
}

// withTimeout bounds every fetch. The returned value is built once so the
// grid always sees the same fetcher.
func withTimeout(f query.Fetcher, d time.Duration) query.Fetcher {
	return query.FetcherFunc(func(ctx context.Context, p models.FetchParams) (models.FetchResult, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return f.Fetch(ctx, p)
	})
}
