package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/synonym-backend/internal/auth"
	"github.com/heartmarshall/synonym-backend/internal/config"
	"github.com/heartmarshall/synonym-backend/internal/jobs"
	"github.com/heartmarshall/synonym-backend/internal/service/synonym"
	"github.com/heartmarshall/synonym-backend/internal/transport/middleware"
	"github.com/heartmarshall/synonym-backend/internal/transport/rest"
)

// App holds the wired dependencies shared by the commands.
type App struct {
	Config   *config.Config
	Log      *slog.Logger
	Store    *Store
	Runner   *jobs.Runner
	Synonyms *synonym.Service
}

// New opens the configured store and builds the synonym service on top of it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	runner := jobs.NewRunner(cfg.Import.Workers, logger)
	svc := synonym.NewService(logger, store.Synonyms, store.Tx, runner, cfg.Import, cfg.Export)

	logger.Info("application ready",
		slog.String("version", BuildVersion()),
		slog.String("store", store.Driver),
		slog.Int("workers", cfg.Import.Workers),
	)

	return &App{
		Config:   cfg,
		Log:      logger,
		Store:    store,
		Runner:   runner,
		Synonyms: svc,
	}, nil
}

// Close waits for in-flight batched imports and then closes the store.
func (a *App) Close() error {
	a.Runner.Wait()
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// Handler builds the HTTP surface. A nil limiter disables import rate limiting.
func (a *App) Handler(tokens *auth.JWTManager, limiter *middleware.RateLimiter) http.Handler {
	health := rest.NewHealthHandler(a.Store, a.Store.Driver, a.Runner, BuildVersion())
	synonyms := rest.NewSynonymHandler(a.Synonyms, a.Config.Import.MaxUploadBytes, a.Log)

	requireAuth := middleware.Auth(tokens, a.Log)
	var limit middleware.Middleware
	if limiter != nil && a.Config.Server.ImportRatePerMinute > 0 {
		limit = limiter.Limit(a.Config.Server.ImportRatePerMinute)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)
	mux.Handle("POST /synonyms/import", middleware.Chain(requireAuth, limit)(http.HandlerFunc(synonyms.Import)))
	mux.Handle("GET /synonyms/export", requireAuth(http.HandlerFunc(synonyms.Export)))
	mux.HandleFunc("GET /synonyms/plugins", synonyms.Plugins)

	return middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(a.Log),
		middleware.Logger(a.Log),
	)(mux)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// within the configured timeout.
func (a *App) Serve(ctx context.Context) error {
	if err := a.Config.RequireAuth(); err != nil {
		return err
	}

	tokens := auth.NewJWTManager(a.Config.Auth.JWTSecret, a.Config.Auth.JWTIssuer, a.Config.Auth.AccessTokenTTL)

	var limiter *middleware.RateLimiter
	if a.Config.Server.ImportRatePerMinute > 0 {
		limiter = middleware.NewRateLimiter(5 * time.Minute)
		defer limiter.Stop()
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(a.Config.Server.Host, strconv.Itoa(a.Config.Server.Port)),
		Handler:           a.Handler(tokens, limiter),
		ReadTimeout:       a.Config.Server.ReadTimeout,
		ReadHeaderTimeout: a.Config.Server.ReadTimeout,
		WriteTimeout:      a.Config.Server.WriteTimeout,
		IdleTimeout:       a.Config.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.Log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.Log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
