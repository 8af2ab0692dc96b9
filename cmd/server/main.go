package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/matthewbaird/crisis/internal/catalog"
	"github.com/matthewbaird/crisis/internal/config"
	"github.com/matthewbaird/crisis/internal/server"
)

func main() {
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	log := cfg.NewLogger(os.Stderr)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, source, err := catalog.Resolve(ctx, cfg.CatalogFile, cfg.DatabaseURL)
	if err != nil {
		log.Error("loading indicator catalog", "error", err)
		os.Exit(1)
	}
	log.Info("indicator catalog loaded", "source", source, "indicators", cat.Len())

	if err := server.Run(ctx, server.Config{
		Port:               cfg.Port,
		Catalog:            cat,
		MaxTextLength:      cfg.MaxTextLength,
		EventBuffer:        cfg.EventBuffer,
		SessionMaxAge:      cfg.SessionMaxAge,
		SessionIdleTimeout: cfg.SessionIdleTimeout,
		ConversationWindow: cfg.ConversationWindow,
		AllowedOrigins:     cfg.AllowedOrigins,
		Logger:             log,
	}); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
