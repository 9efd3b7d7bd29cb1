package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/clients/auth"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/clients/catalog"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/clients/gamelog"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/config"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/metrics"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/routes"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/services"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/session"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/storage/cache"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/storage/imagecache"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/views"
)

const (
	envLocal = "local"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting server", slog.String("env", cfg.Env))

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	catalogClient := catalog.New(
		cfg.Clients.Catalog.BaseURL,
		&http.Client{Timeout: cfg.Clients.Catalog.Timeout},
		cfg.Clients.Catalog.Rate,
		cfg.Clients.Catalog.Burst,
		collector,
	)
	gamelogClient := gamelog.New(
		cfg.Clients.GameLog.BaseURL,
		&http.Client{Timeout: cfg.Clients.GameLog.Timeout},
		collector,
	)
	authClient := auth.New(
		cfg.Clients.Auth.BaseURL,
		&http.Client{Timeout: cfg.Clients.Auth.Timeout},
		collector,
	)

	var cacheStore services.CacheStore
	if cfg.Database.Enabled() {
		storage, err := cache.New(cfg.Database)
		if err != nil {
			log.Error("failed to create catalog cache", slog.String("error", err.Error()))
			panic("db-err")
		}
		defer func() {
			if err := storage.Close(); err != nil {
				log.Error("failed to close catalog cache", slog.String("error", err.Error()))
			}
		}()

		if err := storage.Migrate(); err != nil {
			log.Error("migration", slog.String("error", err.Error()))
			panic("table-err")
		}
		cacheStore = storage

		log.Info("catalog cache init")
	}

	imageCache, err := imagecache.New(cfg.ImageCache.Path, cfg.ImageCache.Timeout)
	if err != nil {
		log.Error("failed to create image cache", slog.String("error", err.Error()))
		panic("img-err")
	}

	sessions := session.NewStore(cfg.Session.TTL)
	go sweepSessions(sessions, log)

	renderer, err := views.New()
	if err != nil {
		log.Error("failed to parse templates", slog.String("error", err.Error()))
		panic("views-err")
	}

	r := routes.SetupRouter(routes.Deps{
		Log:          log,
		Catalog:      catalogClient,
		GameLog:      gamelogClient,
		Auth:         authClient,
		Cache:        cacheStore,
		Images:       imageCache,
		Sessions:     sessions,
		Views:        renderer,
		Metrics:      collector,
		Gatherer:     registry,
		Cors:         cfg.Cors,
		CookieSecure: cfg.Session.CookieSecure,
	})

	log.Info("routes init")

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("starting server", slog.String("address", cfg.Address))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		log.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-shutdown:
		log.Info("shutting down", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown error", slog.String("error", err.Error()))
			if err := server.Close(); err != nil {
				log.Error("force shutdown error", slog.String("error", err.Error()))
			}
		}
	}
	log.Info("server stopped")
}

func sweepSessions(store *session.Store, log *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		if removed := store.Sweep(); removed > 0 {
			log.Debug("swept expired sessions", slog.Int("removed", removed))
		}
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return log
}
