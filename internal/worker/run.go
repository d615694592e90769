package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	v0 "aith/internal/contracts/render/v0"
	"aith/internal/pkg/errors"
	"aith/internal/pkg/logger"
)

const retryDelay = time.Second

// Run consumes render triggers until ctx is canceled. Each trigger runs the
// pipeline once, so it renders at most one script.
func Run(ctx context.Context, d Deps) error {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	log = log.WithComponent("worker")

	popTimeout := d.PopTimeout
	if popTimeout <= 0 {
		popTimeout = 5 * time.Second
	}

	if d.Schedule != "" {
		c, err := startSchedule(ctx, d.Schedule, d.Queue, log)
		if err != nil {
			return err
		}
		defer func() { <-c.Stop().Done() }()
	}

	log.Info("worker started", "queue", d.Queue.Name(), "schedule", d.Schedule)

	for {
		if ctx.Err() != nil {
			log.Info("worker stopping")
			return ctx.Err()
		}

		trigger, err := d.Queue.Pop(ctx, popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("worker stopping")
				return ctx.Err()
			}
			log.WithError(err).Warn("queue pop error, retrying")
			sleep(ctx, retryDelay)
			continue
		}
		if trigger == nil || trigger.ID == "" {
			continue
		}

		HandleTrigger(ctx, d.Renderer, trigger, log)
	}
}

// HandleTrigger runs the pipeline for one trigger. An empty backlog is normal
// and logged at info; every other failure at error.
func HandleTrigger(ctx context.Context, r Renderer, t *v0.Trigger, log *logger.Logger) {
	ctx = logger.ContextWithTriggerID(ctx, t.ID)
	tlog := log.FromContext(ctx)
	tlog.Info("processing trigger", "source", t.Source)

	start := time.Now()
	res, err := r.Render(ctx)
	elapsed := time.Since(start).Milliseconds()

	switch {
	case errors.IsCode(err, errors.CodeNoWork):
		tlog.Info("no thumbed script to render", "duration_ms", elapsed)
	case err != nil:
		fields := []any{"error", err.Error(), "code", string(errors.GetCode(err)), "duration_ms", elapsed}
		for k, v := range errors.GetFields(err) {
			fields = append(fields, k, v)
		}
		tlog.Error("render failed", fields...)
	default:
		tlog.Info("trigger completed",
			"script_id", res.ScriptID,
			"video", res.VideoKey,
			"status", string(res.Status),
			"duration_ms", elapsed,
		)
	}
}

func startSchedule(ctx context.Context, spec string, q Queue, log *logger.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		t, err := q.Push(ctx, "schedule")
		if err != nil {
			log.WithError(err).Error("failed to enqueue scheduled trigger")
			return
		}
		log.Debug("scheduled trigger enqueued", "trigger_id", t.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid RENDER_SCHEDULE %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
