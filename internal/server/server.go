// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matthewbaird/crisis/internal/catalog"
	"github.com/matthewbaird/crisis/internal/engine"
	"github.com/matthewbaird/crisis/internal/event"
	"github.com/matthewbaird/crisis/internal/eventbus"
	"github.com/matthewbaird/crisis/internal/handler"
	"github.com/matthewbaird/crisis/internal/metrics"
	"github.com/matthewbaird/crisis/internal/wire"
)

// Config holds server configuration.
type Config struct {
	Port               int
	Catalog            *catalog.Catalog
	MaxTextLength      int
	EventBuffer        int
	SessionMaxAge      time.Duration
	SessionIdleTimeout time.Duration
	ConversationWindow int
	AllowedOrigins     []string
	Scorer             engine.Scorer
	Logger             *slog.Logger
}

// App is the assembled service: routes plus the background pieces they
// depend on.
type App struct {
	Router   chi.Router
	Bus      *eventbus.Bus
	Metrics  *metrics.Metrics
	Sessions *wire.Manager
}

// New wires the engine, event bus, metrics and transports. The bus is
// created but not started.
func New(cfg Config) *App {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	m := metrics.New()
	bus := eventbus.New(cfg.EventBuffer,
		eventbus.WithLogger(log),
		eventbus.WithDropHook(func(event.DomainEvent) { m.EventDropped() }),
	)
	bus.Subscribe("log", eventbus.NewLogConsumer(log))
	bus.Subscribe("metrics", eventbus.NewMetricsConsumer(m))

	opts := []engine.Option{engine.WithMaxTextLength(cfg.MaxTextLength)}
	if cfg.Scorer != nil {
		opts = append(opts, engine.WithScorer(cfg.Scorer))
	}
	eng := engine.New(cfg.Catalog, opts...)
	analyzer := handler.NewAnalyzer(eng, event.NewRecorder(bus), m)

	sessions := wire.NewManager(cfg.SessionMaxAge, cfg.SessionIdleTimeout, cfg.ConversationWindow)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(handler.Logging)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	ah := handler.NewAnalysisHandler(analyzer)
	ch := handler.NewCatalogHandler(eng.Catalog())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", ah.HandleAnalyze)
		r.Post("/escalations", ah.HandleEscalations)
		r.Post("/responses", ah.HandleResponse)
		r.Post("/conversations/analyze", ah.HandleConversation)

		r.Get("/catalog", ch.HandleList)
		r.Get("/catalog/categories/{category}", ch.HandleCategory)

		r.Get("/stream", wire.NewHandler(sessions, analyzer, cfg.AllowedOrigins...).ServeHTTP)
	})

	return &App{Router: r, Bus: bus, Metrics: m, Sessions: sessions}
}

// Run starts the HTTP server with all routes registered and blocks until ctx
// is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg Config) error {
	app := New(cfg)
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	busCtx, stopBus := context.WithCancel(context.Background())
	defer stopBus()
	app.Bus.Start(busCtx)
	defer app.Bus.Stop()

	go app.Sessions.Run(ctx, time.Minute)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", addr, "indicators", cfg.catalogLen())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("server stopped")
	return nil
}

func (c Config) catalogLen() int {
	if c.Catalog == nil {
		return catalog.Default().Len()
	}
	return c.Catalog.Len()
}
