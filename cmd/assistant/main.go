package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-assistant/internal/config"
	"github.com/stemsi/exstem-assistant/internal/database"
	"github.com/stemsi/exstem-assistant/internal/handler"
	"github.com/stemsi/exstem-assistant/internal/identity"
	"github.com/stemsi/exstem-assistant/internal/logger"
	"github.com/stemsi/exstem-assistant/internal/reconcile"
	"github.com/stemsi/exstem-assistant/internal/router"
	"github.com/stemsi/exstem-assistant/internal/service"
	"github.com/stemsi/exstem-assistant/internal/session"
	"github.com/stemsi/exstem-assistant/internal/stream"
	"github.com/stemsi/exstem-assistant/internal/timer"
	"github.com/stemsi/exstem-assistant/internal/validator"
	"github.com/stemsi/exstem-assistant/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("stream_url", cfg.StreamURL).
		Str("timer_mode", cfg.TimerMode).
		Msg("Starting ExStem Assistant")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Optional Audit Trail (Redis queue → PostgreSQL) ──────────────
	var auditSink reconcile.AuditSink
	var workerCancel context.CancelFunc
	if cfg.AuditEnabled() {
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to audit database")
		}
		defer pool.Close()

		auditSink = worker.NewAuditQueue(rdb, log)

		var workerCtx context.Context
		workerCtx, workerCancel = context.WithCancel(context.Background())
		auditWorker := worker.NewAuditWorker(pool, rdb, log)
		go auditWorker.Start(workerCtx)
	} else {
		log.Info().Msg("Audit trail disabled (REDIS_URL / AUDIT_DATABASE_URL not set)")
	}

	// ─── Core: Store, Timers, Reconciler, Stream ──────────────────────
	store := session.NewStore(log)
	timers := timer.New(timer.Mode(cfg.TimerMode), store, time.Second, log)
	reconciler := reconcile.New(store, timers, auditSink, log)

	streamMgr := stream.NewManager(stream.Config{
		URL:            cfg.StreamURL,
		Role:           cfg.StreamRole,
		ReconnectDelay: cfg.ReconnectDelay,
		MaxAttempts:    cfg.MaxReconnectAttempts,
		LoadingGrace:   cfg.LoadingGrace,
	}, reconciler.HandleFrame, log)
	streamMgr.Start(ctx)

	// ─── Helper Identity ──────────────────────────────────────────────
	answeredBy := identity.Resolve(cfg.HelperToken, cfg.HelperID)
	log.Info().Str("answered_by", answeredBy).Msg("Helper identity resolved")

	// ─── Service & Handlers ───────────────────────────────────────────
	assistService := service.NewAssistService(store, streamMgr, answeredBy, log)
	handlers := &router.Handlers{
		Assist: handler.NewAssistHandler(assistService, log),
	}

	// ─── Setup Router & HTTP Server ───────────────────────────────────
	r := router.SetupRouter(handlers, cfg)
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Tear down the stream: close the socket once, cancel any pending
	//    reconnect, then stop every countdown.
	streamMgr.Stop()
	timers.Shutdown()

	// 3. Stop the audit worker and let it drain its queue.
	if workerCancel != nil {
		workerCancel()
		time.Sleep(2 * time.Second) // Allow the worker to drain.
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
