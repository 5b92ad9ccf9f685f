// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/cuppa/internal/api"
	"github.com/starford/cuppa/internal/kv"
	"github.com/starford/cuppa/internal/mcpserver"
	"github.com/starford/cuppa/internal/sse"
	"github.com/starford/cuppa/internal/storage"
	"github.com/starford/cuppa/internal/tracker"
	"github.com/starford/cuppa/internal/watch"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// newLogger builds the structured JSON logger used by every command.
func (a *application) newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
}

// Env is an opened store with a tracker on top of it.
type Env struct {
	Config  *Config
	Logger  *slog.Logger
	Store   *kv.Store
	Tracker *tracker.Tracker
}

// Close releases the underlying storage.
func (e *Env) Close() error {
	return e.Store.Provider().Close()
}

// Open opens the configured store and tracker. The caller must Close the
// returned Env.
func Open(ctx context.Context, opts ...Option) (*Env, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	logger := app.newLogger()
	return openEnv(ctx, app.config, logger)
}

func openEnv(ctx context.Context, cfg *Config, logger *slog.Logger) (*Env, error) {
	provider, err := storage.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	store := kv.New(provider)

	schema, err := tracker.ParseSchema(cfg.Tracker.Schema)
	if err != nil {
		_ = provider.Close()
		return nil, err
	}
	loc, err := cfg.Tracker.Location()
	if err != nil {
		_ = provider.Close()
		return nil, fmt.Errorf("tracker timezone: %w", err)
	}

	tr, err := tracker.New(ctx, store,
		tracker.WithSchema(schema),
		tracker.WithLocation(loc),
		tracker.WithResetOnOpen(cfg.Tracker.ResetTodayOnOpen),
		tracker.WithLogger(logger),
	)
	if err != nil {
		_ = provider.Close()
		return nil, fmt.Errorf("init tracker: %w", err)
	}

	return &Env{Config: cfg, Logger: logger, Store: store, Tracker: tr}, nil
}

// RunMCP serves the MCP tools on stdin/stdout until the client disconnects.
func RunMCP(ctx context.Context, opts ...Option) error {
	env, err := Open(ctx, opts...)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Logger.Info("MCP server starting", slog.String("driver", env.Config.Store.Driver))
	return mcpserver.New(env.Tracker, nil).ServeStdio()
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := app.newLogger()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("store_path", cfg.Store.Path),
		slog.String("schema", cfg.Tracker.Schema),
		slog.String("log_level", cfg.App.LogLevel.String()))

	env, err := openEnv(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer env.Close()

	// SSE broker.
	broker := sse.NewBroker(cfg.SSE.StatsThrottle)
	defer broker.Close()

	apiRouter := api.NewRouter(env.Tracker, broker, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := env.Store.Has(tracker.DatesKey); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	// stop ends the watcher once the HTTP server has shut down.
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the store file for writes by other processes.
	if cfg.Store.Driver == storage.DriverFile {
		g.Go(func() error {
			err := watch.Watch(gCtx, cfg.Store.Path, logger, func(path string) {
				logger.Debug("store changed", slog.String("path", path))
				broker.PublishStoreChanged()
			})
			if err != nil {
				logger.Warn("store watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		stop()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
