package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"rawblog/app/config"
	"rawblog/app/repositories"
	"rawblog/app/routes"
	"rawblog/app/services"
	"rawblog/app/telemetry"
	"rawblog/app/views"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// App is a configured blog server
type App struct {
	cfg      *config.Config
	repo     repositories.PostRepository
	provider *sdktrace.TracerProvider
	server   *http.Server
}

// NewApp opens the post store and builds the HTTP server described by cfg
func NewApp(cfg *config.Config) (*App, error) {
	strategy, err := repositories.ParseIDStrategy(cfg.Store.IDStrategy)
	if err != nil {
		return nil, err
	}

	provider, err := telemetry.NewTracerProvider(cfg.Tracing, os.Stdout)
	if err != nil {
		return nil, err
	}

	repo, err := repositories.Open(cfg.Store.Backend, strategy)
	if err != nil {
		provider.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}

	opts := routes.Options{
		Renderer: views.NewRenderer(cfg.Render.EscapeHTML),
		Tracer:   provider.Tracer("rawblog/app/routes"),
	}
	if cfg.Metrics.Enabled {
		opts.Registry = telemetry.NewRegistry()
		opts.MetricsPath = cfg.Metrics.Path
	}
	router := routes.SetupRoutes(services.NewPostService(repo), opts)

	return &App{
		cfg:      cfg,
		repo:     repo,
		provider: provider,
		server: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}, nil
}

// Handler returns the application router
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run listens on the configured address and serves until ctx is done
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully within the configured shutdown timeout.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s (store=%s, ids=%s)",
			ln.Addr(), a.cfg.Store.Backend, a.cfg.Store.IDStrategy)
		errCh <- a.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("[server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Close releases the post store and flushes pending spans
func (a *App) Close() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return errors.Join(a.repo.Close(), a.provider.Shutdown(shutdownCtx))
}

// RunAppServer starts the blog service and blocks until SIGINT or SIGTERM
func RunAppServer(ctx context.Context, cfg *config.Config) error {
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("[server] close: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return app.Run(ctx)
}
