package worker

import (
	"context"
	"time"

	v0 "aith/internal/contracts/render/v0"
	"aith/internal/pkg/logger"
	"aith/internal/worker/processor"
)

// Renderer runs one pass of the render pipeline.
type Renderer interface {
	Render(ctx context.Context) (*processor.Result, error)
}

// Queue is the trigger source of the worker. *queue.RedisQueue implements it.
type Queue interface {
	Name() string
	Push(ctx context.Context, source string) (*v0.Trigger, error)
	Pop(ctx context.Context, timeout time.Duration) (*v0.Trigger, error)
}

type Deps struct {
	Queue    Queue
	Renderer Renderer
	// Cron spec; when set, triggers are enqueued on this schedule.
	Schedule string
	// How long one BRPOP blocks before the loop re-checks ctx.
	PopTimeout time.Duration
	Log        *logger.Logger
}
