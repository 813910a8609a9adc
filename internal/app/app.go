package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/dori/weektodo/internal/api"
	"github.com/dori/weektodo/internal/config"
	"github.com/dori/weektodo/internal/db"
	"github.com/dori/weektodo/internal/store"
)

// ErrAlreadyRunning is returned when another TUI holds the data directory
var ErrAlreadyRunning = errors.New("another instance of weektodo is already running")

// App holds the application state and dependencies
type App struct {
	Config *config.Config
	Log    zerolog.Logger
	API    *api.Client
	Store  *store.Store
	DB     *db.DB

	logCloser io.Closer
	lockFile  *flock.Flock
}

// Options selects how much of the app to wire
type Options struct {
	// Interactive runs take the single-instance lock, log to the log file
	// and keep the snapshot cache.
	Interactive bool
}

// New creates a new application instance
func New(cfg *config.Config, opts Options) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger, closer, err := NewLogger(cfg.Log, opts.Interactive)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Log:       logger,
		logCloser: closer,
	}

	a.API, err = api.New(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Attempts:  cfg.Retry.Attempts,
		BaseDelay: cfg.Retry.BaseDelay,
		Logger:    logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	storeOpts := store.Options{Logger: logger}
	if opts.Interactive {
		if err := a.acquireLock(); err != nil {
			a.Close()
			return nil, err
		}

		database, err := db.Open(db.DBPath(cfg.DataDir))
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.DB = database
		storeOpts.Cache = database
	}
	a.Store = store.New(a.API, storeOpts)

	logger.Info().
		Str("api", cfg.API.BaseURL).
		Str("data_dir", cfg.DataDir).
		Bool("interactive", opts.Interactive).
		Msg("application started")
	return a, nil
}

// Warm seeds the store from the cache when there is one
func (a *App) Warm(ctx context.Context) {
	if a.DB == nil {
		return
	}
	ok, err := a.Store.Warm(ctx)
	if err != nil {
		a.Log.Warn().Err(err).Msg("failed to warm store from cache")
		return
	}
	if ok {
		synced, _ := a.DB.SyncedAt(ctx)
		a.Log.Debug().Time("synced_at", synced).Msg("store warmed from cache")
	}
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.Config.DataDir, "weektodo.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return ErrAlreadyRunning
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
		}
	}

	return errors.Join(errs...)
}
