// Package bootstrap handles application initialization and lifecycle
// management for the newsfeed service.
package bootstrap

import (
	"context"
	"fmt"

	infralogger "github.com/jonesrussell/north-cloud/newsfeed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/newsfeed/infrastructure/profiling"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/config"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/loader"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/metrics"
)

// App holds the initialized service components.
type App struct {
	Config  *config.Config
	Log     infralogger.Logger
	Storage *Storage
	Metrics *metrics.Metrics
	Loader  *loader.Loader
}

// NewApp connects the index store. Close releases it.
func NewApp(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*App, error) {
	storage, err := SetupStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	m := metrics.New()
	return &App{
		Config:  cfg,
		Log:     log,
		Storage: storage,
		Metrics: m,
		Loader:  loader.New(storage.Index, loader.Config{Recursive: cfg.Dataset.Recursive}, log, m),
	}, nil
}

// Close releases the index store.
func (a *App) Close() {
	if err := a.Storage.Close(); err != nil {
		a.Log.Error("Failed to close index store", infralogger.Error(err))
	}
}

// LoadDataset writes the PathIndex from the configured dataset directory.
func (a *App) LoadDataset(ctx context.Context) (int, error) {
	n, err := a.Loader.Load(ctx, a.Config.Dataset.Dir)
	if err != nil {
		return 0, fmt.Errorf("load dataset: %w", err)
	}
	return n, nil
}

// Serve loads the dataset, optionally watches it for changes, then serves
// HTTP until ctx is cancelled or a shutdown signal arrives.
func (a *App) Serve(ctx context.Context) error {
	if _, err := a.LoadDataset(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.Config.Dataset.Watch {
		go func() {
			if err := a.Loader.Watch(ctx, a.Config.Dataset.Dir, a.Config.Dataset.WatchDebounce); err != nil {
				a.Log.Warn("Dataset watch disabled", infralogger.Error(err))
			}
		}()
	}

	server := SetupHTTPServer(a.Config, a.Storage, a.Metrics, a.Log)
	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// start runs the shared initialization phases and hands the App to run.
func start(ctx context.Context, configPath string, run func(*App) error) error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Connect the index store
	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to set up index store", infralogger.Error(err))
		return err
	}
	defer app.Close()

	return run(app)
}

// Start runs the service: profilers, dataset load, then the HTTP server.
func Start(ctx context.Context, configPath string) error {
	return start(ctx, configPath, func(app *App) error {
		cfg, log := app.Config, app.Log

		log.Info("Starting newsfeed service",
			infralogger.String("version", cfg.Service.Version),
			infralogger.Int("port", cfg.Service.Port),
			infralogger.String("store_backend", cfg.Store.Backend),
			infralogger.String("dataset_dir", cfg.Dataset.Dir),
		)

		profiling.StartPprofServer(cfg.Profiling, log)
		profiler, err := profiling.StartPyroscope(cfg.Service.Name, cfg.Profiling, log)
		if err != nil {
			log.Warn("Continuous profiling disabled", infralogger.Error(err))
		}
		defer func() { _ = profiler.Stop() }()

		if err = app.Serve(ctx); err != nil {
			log.Error("Service stopped with error", infralogger.Error(err))
			return err
		}

		log.Info("Newsfeed service stopped")
		return nil
	})
}

// LoadOnly populates the index store and returns the number of indexed
// files. Useful with the redis backend, where the index outlives the
// process.
func LoadOnly(ctx context.Context, configPath string) (int, error) {
	var n int
	err := start(ctx, configPath, func(app *App) error {
		var loadErr error
		n, loadErr = app.LoadDataset(ctx)
		return loadErr
	})
	return n, err
}
