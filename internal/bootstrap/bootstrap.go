// Package bootstrap wires the infrastructure shared by the API and the worker.
package bootstrap

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"aith/internal/config"
	"aith/internal/pkg/logger"
	"aith/internal/pkg/shutdown"
	"aith/internal/ports"
	"aith/internal/publish"
	"aith/internal/repositories"
	"aith/internal/storage"
	"aith/internal/worker/processor"
	"aith/internal/worker/renderer"
)

type Infra struct {
	Pool      *pgxpool.Pool
	RDB       *redis.Client // nil without REDIS_ADDR
	Scripts   *repositories.ScriptRepository
	Storage   ports.StorageProvider
	Publisher ports.Publisher // nil unless publishing is enabled
	Processor *processor.Processor
}

// Open connects every dependency and registers its teardown with mgr.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger, mgr *shutdown.Manager) (*Infra, error) {
	in := &Infra{}

	log.Info("connecting to PostgreSQL")
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	mgr.RegisterSimple("postgres", pool.Close)
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}
	in.Pool = pool
	in.Scripts = repositories.NewScriptRepository(pool)
	log.Info("PostgreSQL connected")

	if cfg.AutoMigrate {
		applied, err := in.Scripts.Migrate(ctx)
		if err != nil {
			return nil, err
		}
		log.Info("migrations applied", "files", applied)
	}

	if cfg.QueueEnabled() {
		log.Info("connecting to Redis")
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		mgr.Register("redis", func(context.Context) error { return rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		in.RDB = rdb
		log.Info("Redis connected")
	}

	in.Storage, err = storage.NewProvider(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	log.Info("storage provider initialized", "provider", in.Storage.Provider(), "bucket", cfg.Storage.Bucket)

	in.Publisher, err = publish.NewPublisher(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if in.Publisher != nil {
		log.Info("publishing enabled", "provider", in.Publisher.Provider())
	}

	in.Processor = processor.New(processor.Deps{
		Scripts:         in.Scripts,
		Storage:         in.Storage,
		Publisher:       in.Publisher,
		Composer:        renderer.NewFFmpeg(cfg.FFmpegPath, cfg.FFprobePath, log),
		HTTPClient:      &http.Client{Timeout: cfg.AssetFetchTimeout},
		AssetBaseURL:    cfg.AssetBaseURL,
		ThumbnailPrefix: cfg.ThumbnailPrefix,
		AudioPrefix:     cfg.AudioPrefix,
		WorkDir:         cfg.WorkDir,
		CleanupLocal:    cfg.CleanupLocal,
		Privacy:         ports.Privacy(cfg.YouTube.Privacy),
		Log:             log,
	})

	return in, nil
}

func NewLogger(service string) *logger.Logger {
	cfg := logger.DefaultConfig()
	cfg.ServiceName = service
	return logger.New(cfg)
}
