package main

import (
	"context"
	"time"

	"aith/internal/bootstrap"
	"aith/internal/config"
	"aith/internal/pkg/errors"
	"aith/internal/pkg/shutdown"
	"aith/internal/worker"
	"aith/internal/worker/queue"
)

func main() {
	log := bootstrap.NewLogger("aith-worker")

	cfg, err := config.Load()
	if err != nil {
		log.LogFatal("invalid configuration", err)
	}
	if !cfg.QueueEnabled() {
		log.LogFatal("worker requires a queue", errors.New(errors.CodeValidation, "REDIS_ADDR is not set"))
	}

	ctx := context.Background()
	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	infra, err := bootstrap.Open(ctx, cfg, log, shutdownMgr)
	if err != nil {
		shutdownMgr.Shutdown()
		log.LogFatal("failed to initialize dependencies", err)
	}

	deps := worker.Deps{
		Queue:    queue.NewRedisQueue(infra.RDB, cfg.QueueName),
		Renderer: infra.Processor,
		Schedule: cfg.Schedule,
		Log:      log,
	}

	done := make(chan struct{})
	go func() {
		err := worker.Run(shutdownMgr.Context(), deps)
		close(done)
		if err != nil && shutdownMgr.Context().Err() == nil {
			log.WithError(err).Error("worker stopped")
			shutdownMgr.Shutdown()
		}
	}()

	// Canceling the loop aborts the in-flight render, which hands its script
	// back to thumbed. Wait for that before the pool is closed.
	shutdownMgr.Register("worker", func(ctx context.Context) error {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	shutdownMgr.Wait(ctx)
}
