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

	"github.com/starford/naudiz/internal/api"
	"github.com/starford/naudiz/internal/archive"
	"github.com/starford/naudiz/internal/noteservice"
	"github.com/starford/naudiz/internal/notestore"
	"github.com/starford/naudiz/internal/sse"
	"github.com/starford/naudiz/internal/storage"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sessions_path", cfg.Sessions.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure the sessions directory exists.
	if err := os.MkdirAll(cfg.Sessions.Path, 0o755); err != nil {
		return fmt.Errorf("create sessions dir: %w", err)
	}

	// Initialize storage.
	files, err := storage.NewFS(cfg.Sessions.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Initialize the archive catalog.
	db, err := archive.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init archive: %w", err)
	}
	defer db.Close()

	// Run initial sync.
	if err := archive.Sync(db, files, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// The document session.
	svc := noteservice.NewService(files, logger)

	if app.mcp {
		return runMCP(svc, db)
	}

	// SSE broker, fed by note store mutations.
	broker := sse.NewBroker(2 * time.Second)
	svc.Watch(func(ev notestore.Event) {
		broker.PublishNoteEvent(string(ev.Kind), ev.NoteID)
	})

	// Build API router.
	apiRouter := api.NewRouter(svc, db, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start the sessions-directory watcher with SSE callback.
	g.Go(func() error {
		archive.Watch(gCtx, db, files, cfg.Sessions.Path, logger, func(kind, path string) {
			broker.Publish(sse.Event{Type: "session." + kind, Data: map[string]string{"path": path}})
		})
		return nil
	})

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
		broker.Close()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
