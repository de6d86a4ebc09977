package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/duel-lords/internal/auth"
	"github.com/mauv0809/duel-lords/internal/config"
	"github.com/mauv0809/duel-lords/internal/database"
	"github.com/mauv0809/duel-lords/internal/duel"
	server "github.com/mauv0809/duel-lords/internal/http"
	"github.com/mauv0809/duel-lords/internal/metrics"
	"github.com/mauv0809/duel-lords/internal/notifier"
	"github.com/mauv0809/duel-lords/internal/notifier/slack"
	"github.com/mauv0809/duel-lords/internal/player"
	"github.com/mauv0809/duel-lords/internal/processor"
	"github.com/mauv0809/duel-lords/internal/pubsub"
	"github.com/mauv0809/duel-lords/internal/scheduler"
	"github.com/mauv0809/duel-lords/internal/store"
	"github.com/mauv0809/duel-lords/internal/tournament"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	clock := clockwork.NewRealClock()
	recordStore := store.NewSQL(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	counters := metrics.New(db)

	dispatchOpts := []notifier.Option{
		notifier.WithTimeout(cfg.Notify.Timeout),
		notifier.WithRetries(cfg.Notify.Retries, notifier.DefaultBackoff),
		notifier.WithDefaultChannel(cfg.Slack.ChannelID),
		notifier.WithCounterStore(counters),
	}
	if cfg.ProjectID != "" {
		publisher, err := pubsub.New(context.Background(), cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
		defer publisher.Close()
		dispatchOpts = append(dispatchOpts, notifier.WithPublisher(publisher))
	} else {
		log.Info("GCP_PROJECT not set, event publishing disabled")
	}

	slackNotifier := slack.NewNotifier(cfg.Slack.Token, slack.Config{
		RatePerSecond: cfg.Notify.RatePerSecond,
		DryRun:        cfg.DryRun,
		Location:      cfg.Location,
	})
	dispatcher := notifier.NewDispatcher(slackNotifier, metricsSvc, dispatchOpts...)

	players := player.New(recordStore, clock)
	duels := duel.New(recordStore, players, players, dispatcher, clock, cfg.Location)
	tournaments := tournament.New(recordStore, players, clock)
	proc := processor.New(duels, dispatcher, metricsSvc, clock, cfg.Scheduler.StoreTimeout)

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		log.Warn("ADMIN_JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
		jwtSecret = uuid.NewString()
	}
	authSvc := auth.NewService(jwtSecret, cfg.Auth.TokenDuration)

	s := server.NewServer(players, duels, tournaments, proc, authSvc, metricsSvc, metricsHandler, counters, cfg)

	ticker, err := scheduler.New(proc, cfg.Scheduler.TickInterval, clock)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %s", err)
	}
	if err := ticker.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start scheduler: %s", err)
	}

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
		log.Info("Server started", "port", cfg.Port, "tickInterval", cfg.Scheduler.TickInterval, "dryRun", cfg.DryRun)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)
	}

	// The in-flight tick finishes its current match before the store closes.
	if err := ticker.Stop(); err != nil {
		log.Error("Scheduler shutdown failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	} else {
		log.Info("Server gracefully stopped")
	}

	log.Info("Server process shutting down")
}
