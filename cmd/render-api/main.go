package main

import (
	"context"
	"net/http"
	"time"

	"aith/internal/bootstrap"
	"aith/internal/config"
	"aith/internal/httpapi"
	"aith/internal/httpapi/handlers"
	"aith/internal/pkg/shutdown"
	"aith/internal/worker/queue"
)

func main() {
	// Initialize logger
	log := bootstrap.NewLogger("aith-api")

	log.Info("starting render API", "version", "0.1.0")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.LogFatal("invalid configuration", err)
	}

	ctx := context.Background()

	// Initialize shutdown manager
	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	infra, err := bootstrap.Open(ctx, cfg, log, shutdownMgr)
	if err != nil {
		shutdownMgr.Shutdown()
		log.LogFatal("failed to initialize dependencies", err)
	}

	// POST /render/queue is only served when Redis is configured
	var q handlers.Enqueuer
	if infra.RDB != nil {
		q = queue.NewRedisQueue(infra.RDB, cfg.QueueName)
	}

	h := handlers.New(handlers.Deps{
		Renderer: infra.Processor,
		Scripts:  infra.Scripts,
		Queue:    q,
		SP:       infra.Storage,
		Pool:     infra.Pool,
		RDB:      infra.RDB,
		Log:      log,
	})
	router := httpapi.NewRouter(h, log, httpapi.Options{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	// GET /render blocks for the whole pipeline, so writes are not capped here.
	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Register server shutdown
	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr, "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	shutdownMgr.Wait(ctx)
}
