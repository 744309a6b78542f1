package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/tennis-ledger/internal/clock"
	"github.com/mauv0809/tennis-ledger/internal/config"
	"github.com/mauv0809/tennis-ledger/internal/database"
	"github.com/mauv0809/tennis-ledger/internal/docstore"
	"github.com/mauv0809/tennis-ledger/internal/docstore/memory"
	"github.com/mauv0809/tennis-ledger/internal/docstore/redisstore"
	"github.com/mauv0809/tennis-ledger/internal/docstore/sqlstore"
	server "github.com/mauv0809/tennis-ledger/internal/http"
	"github.com/mauv0809/tennis-ledger/internal/metrics"
	"github.com/mauv0809/tennis-ledger/internal/notifier"
	"github.com/mauv0809/tennis-ledger/internal/notifier/slack"
	"github.com/mauv0809/tennis-ledger/internal/pubsub"
	"github.com/mauv0809/tennis-ledger/internal/recorder"
	"github.com/mauv0809/tennis-ledger/internal/resolver"
	"github.com/mauv0809/tennis-ledger/internal/session"
	"github.com/mauv0809/tennis-ledger/internal/stats"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	store, storeTeardown, err := openStore(cfg)
	storeInitDuration := time.Since(startTime)
	log.Info("Store initialization time recorded", "backend", cfg.StoreBackend, "duration_ms", storeInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize store: %s", err)
	}
	defer func() {
		log.Info("Closing store connection")
		storeTeardown()
	}()
	store = docstore.WithTimeout(store, cfg.WriteTimeout)

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var events pubsub.PubSubClient = pubsub.Noop{}
	if cfg.ProjectID != "" {
		events, err = pubsub.New(context.Background(), cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
	}
	defer events.Close()

	var notif notifier.Notifier = notifier.Noop{}
	if cfg.Slack.Enabled() {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Warn("Slack is not configured, notifications are disabled")
	}

	clk := clock.New()
	sessions := session.FromContext{}
	res := resolver.New(store, metricsSvc, clk)
	dir := resolver.NewDirectory(store, clk)
	rec := recorder.New(store, res, dir, sessions, clk, metricsSvc, events, notif)
	statsSvc := stats.NewService(rec, metricsSvc)

	s := server.NewServer(
		rec,
		res,
		dir,
		statsSvc,
		notif,
		events,
		sessions,
		metricsSvc,
		metricsHandler,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// openStore picks the document store backend named by cfg.StoreBackend.
func openStore(cfg config.Config) (docstore.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendSQL:
		db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
		if err != nil {
			return nil, func() {}, err
		}
		return sqlstore.New(db), teardown, nil
	case config.BackendRedis:
		redisCfg := redisstore.DefaultConfig()
		redisCfg.URL = cfg.Redis.URL
		store, err := redisstore.New(redisCfg)
		if err != nil {
			return nil, func() {}, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Error("Failed to close redis", "error", err)
			}
		}, nil
	case config.BackendMemory:
		log.Warn("Using the in-memory store, data is lost on restart")
		return memory.New(), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
