package handlers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	v0 "aith/internal/contracts/render/v0"
	"aith/internal/models"
	"aith/internal/pkg/logger"
	"aith/internal/ports"
	"aith/internal/worker/processor"
)

// Renderer runs the render pipeline once. *processor.Processor implements it.
type Renderer interface {
	Render(ctx context.Context) (*processor.Result, error)
}

// ScriptReader backs the read-only script endpoints.
type ScriptReader interface {
	Get(ctx context.Context, id string) (*models.Script, error)
	List(ctx context.Context, status models.ScriptStatus, limit int) ([]models.Script, error)
}

// Enqueuer accepts asynchronous render triggers.
type Enqueuer interface {
	Name() string
	Push(ctx context.Context, source string) (*v0.Trigger, error)
	Len(ctx context.Context) (int64, error)
}

type Deps struct {
	Renderer Renderer
	Scripts  ScriptReader
	Queue    Enqueuer // nil when Redis is not configured
	SP       ports.StorageProvider

	// Used by the deep health check only; either may be nil.
	Pool *pgxpool.Pool
	RDB  *redis.Client

	Log *logger.Logger
}

type Handler struct {
	renderer Renderer
	scripts  ScriptReader
	queue    Enqueuer
	sp       ports.StorageProvider
	pool     *pgxpool.Pool
	rdb      *redis.Client
	log      *logger.Logger
	started  time.Time
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	return &Handler{
		renderer: d.Renderer,
		scripts:  d.Scripts,
		queue:    d.Queue,
		sp:       d.SP,
		pool:     d.Pool,
		rdb:      d.RDB,
		log:      log.WithComponent("http"),
		started:  time.Now(),
	}
}
