// Package appctx provides a shared bootstrap helper for CLI commands.
// It centralizes config loading, logger construction and database opening
// to reduce boilerplate across commands.
package appctx

import (
	"fmt"

	"github.com/lherron/archmerge/internal/config"
	"github.com/lherron/archmerge/internal/db"
	"github.com/lherron/archmerge/internal/logging"
	"github.com/lherron/archmerge/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds the shared application context for commands.
type App struct {
	// Config is the loaded configuration
	Config *config.Config

	// Logger is built from the configured level and format
	Logger *zap.Logger

	// DB is the opened database connection (nil if NeedsDB is false)
	DB *db.DB

	// Store wraps DB (nil if NeedsDB is false)
	Store *store.Store
}

// Close releases resources held by the App.
// Safe to call multiple times.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		a.DB = nil
		a.Store = nil
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}

// Options configures the bootstrap behavior.
type Options struct {
	// NeedsDB indicates whether to open the database.
	NeedsDB bool

	// Migrate applies pending migrations instead of failing on them.
	Migrate bool
}

// DefaultOptions returns default options (DB required, no migration).
func DefaultOptions() Options {
	return Options{NeedsDB: true}
}

// RunFunc is the signature for command run functions.
type RunFunc func(app *App, cmd *cobra.Command, args []string) error

// WithApp wraps a command's run function with shared bootstrap logic.
// The database is closed automatically when the wrapped function returns.
func WithApp(opts Options, fn RunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := Bootstrap(cmd, opts)
		if err != nil {
			return err
		}
		defer app.Close()

		return fn(app, cmd, args)
	}
}

// Bootstrap initializes the App according to the given options.
// Callers are responsible for calling App.Close() when done.
func Bootstrap(cmd *cobra.Command, opts Options) (*App, error) {
	app := &App{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Flags override configuration
	if dbPath := flagValue(cmd, "db"); dbPath != "" {
		app.Config.DBPath = dbPath
	}
	if level := flagValue(cmd, "log-level"); level != "" {
		app.Config.LogLevel = level
	}

	logger, err := logging.NewWithWriter(app.Config, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	app.Logger = logger

	if opts.NeedsDB {
		database, err := db.Open(app.Config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		if opts.Migrate {
			applied, err := database.MigrateWithInfo()
			if err != nil {
				database.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
			if len(applied) > 0 {
				logger.Info("applied migrations", zap.Strings("migrations", applied), zap.String("db", database.Path()))
			}
		} else if err := database.RequiresMigrationError(); err != nil {
			database.Close()
			return nil, err
		}

		app.DB = database
		app.Store = store.New(database)
	}

	return app, nil
}

func flagValue(cmd *cobra.Command, name string) string {
	if f := cmd.Flag(name); f != nil {
		return f.Value.String()
	}
	return ""
}
