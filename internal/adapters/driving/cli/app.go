package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/searchsync/internal/adapters/driven/agility"
	"github.com/custodia-labs/searchsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/searchsync/internal/adapters/driven/search"
	"github.com/custodia-labs/searchsync/internal/adapters/driven/search/algolia"
	"github.com/custodia-labs/searchsync/internal/adapters/driven/search/bleve"
	searchmemory "github.com/custodia-labs/searchsync/internal/adapters/driven/search/memory"
	"github.com/custodia-labs/searchsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/searchsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
	"github.com/custodia-labs/searchsync/internal/core/services"
	"github.com/custodia-labs/searchsync/internal/logger"
	"github.com/custodia-labs/searchsync/internal/normalisers"
)

// App holds the wired services used by the commands.
type App struct {
	ConfigStore    *file.ConfigStore
	Settings       *services.SettingsService
	Config         *domain.Settings
	TaskStore      driven.TaskStore
	SchedulerStore driven.SchedulerStore
	Index          driven.SearchIndex
	Local          driven.SearchableIndex
	Sync           *services.SyncOrchestrator
	Queue          *services.TaskQueue
	Search         *services.SearchService

	closers []func() error
}

// Close releases stores and indexes.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// appOptions selects how the app is wired.
type appOptions struct {
	// dryRun keeps tasks and documents in memory.
	dryRun bool
}

// newApp builds the app. Tests replace it.
var newApp = buildApp

// buildApp loads settings and wires stores, indexes and services.
func buildApp(opts appOptions) (*App, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if opts.dryRun {
		settings.Index.Backend = domain.IndexBackendMemory
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		ConfigStore: configStore,
		Settings:    settingsService,
		Config:      settings,
	}

	dataDir := filepath.Join(filepath.Dir(configStore.Path()), "data")
	if opts.dryRun {
		app.TaskStore = memory.NewTaskStore()
		app.SchedulerStore = memory.NewSchedulerStore()
	} else {
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, store.Close)
		app.TaskStore = store.TaskStore()
		app.SchedulerStore = store.SchedulerStore()
	}

	if err := app.openIndex(dataDir); err != nil {
		_ = app.Close()
		return nil, err
	}

	var source driven.ContentSource
	if settings.Agility.IsConfigured() {
		client, err := agility.NewClient(agility.ConfigFromSettings(settings.Agility))
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("agility client: %w", err)
		}
		source = client
	} else {
		logger.Warn("agility credentials not set; only removals can be synced")
	}

	app.Sync = services.NewSyncOrchestrator(source, app.Index, normalisers.DefaultRegistry(settings.Index.PageTag))
	app.Queue = services.NewTaskQueue(app.TaskStore, app.Sync, settings.Queue)
	app.Search = services.NewSearchService(app.Local)
	return app, nil
}

// openIndex opens the configured index and its local searchable copy.
func (a *App) openIndex(dataDir string) error {
	cfg := a.Config.Index

	openLocal := func() (driven.SearchableIndex, error) {
		path := cfg.Path
		if path == "" {
			path = filepath.Join(dataDir, cfg.Name+".bleve")
		}
		idx, err := bleve.Open(path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, idx.Close)
		return idx, nil
	}

	switch cfg.Backend {
	case domain.IndexBackendMemory:
		idx := searchmemory.NewIndex()
		a.Index, a.Local = idx, idx

	case domain.IndexBackendBleve:
		idx, err := openLocal()
		if err != nil {
			return err
		}
		a.Index, a.Local = idx, idx

	case domain.IndexBackendAlgolia:
		primary, err := algolia.New(algolia.Config{AppID: cfg.AppID, APIKey: cfg.APIKey, IndexName: cfg.Name})
		if err != nil {
			return err
		}
		local, err := openLocal()
		if err != nil {
			return err
		}
		a.Index, a.Local = search.NewMirror(primary, local), local

	default:
		return fmt.Errorf("%w: index backend %q", domain.ErrUnsupportedType, cfg.Backend)
	}
	return nil
}
