package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcadamcarter/pantry-scanner/internal/config"
	"github.com/marcadamcarter/pantry-scanner/internal/infra"
	"github.com/marcadamcarter/pantry-scanner/internal/repository"
	"github.com/marcadamcarter/pantry-scanner/internal/router"
	"github.com/marcadamcarter/pantry-scanner/internal/service"
	"github.com/marcadamcarter/pantry-scanner/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Shared breaker for outbound catalog calls; the lookup service and the
	// health endpoint both observe it.
	catalogCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	// Goroutine worker pool for async tasks (digest, email). Worker handlers
	// are wired here (composition root) so the pool has full access to all
	// infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	inventorySvc := service.NewInventoryService(
		repository.NewItemRepository(db),
		repository.NewLotRepository(db),
		repository.NewStockMovementRepository(db),
	)

	handlers := &worker.Handlers{
		Digest: worker.NewDigestWorker(inventorySvc, dispatcher, cfg.DigestTo),
		Email:  worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, handlers, cfg.WorkerPoolSize)
	worker.StartDigestCron(ctx, dispatcher, cfg.DigestIntervalHours)

	r := router.New(cfg, db, rdb, catalogCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("pantry-scanner backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
