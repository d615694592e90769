package worker

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v0 "aith/internal/contracts/render/v0"
	"aith/internal/models"
	"aith/internal/pkg/errors"
	"aith/internal/pkg/logger"
	"aith/internal/worker/processor"
)

type chanQueue struct {
	ch     chan *v0.Trigger
	pushes atomic.Int32
}

func newChanQueue() *chanQueue { return &chanQueue{ch: make(chan *v0.Trigger, 16)} }

func (q *chanQueue) Name() string { return "test" }

func (q *chanQueue) Push(ctx context.Context, source string) (*v0.Trigger, error) {
	q.pushes.Add(1)
	t := &v0.Trigger{ID: "trg_" + source, Source: source}
	q.ch <- t
	return t, nil
}

func (q *chanQueue) Pop(ctx context.Context, timeout time.Duration) (*v0.Trigger, error) {
	select {
	case t := <-q.ch:
		return t, nil
	case <-time.After(timeout):
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type countingRenderer struct {
	mu    sync.Mutex
	calls int
	err   error
	done  chan struct{}
}

func (r *countingRenderer) Render(ctx context.Context) (*processor.Result, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.done != nil {
		r.done <- struct{}{}
	}
	if r.err != nil {
		return nil, r.err
	}
	return &processor.Result{ScriptID: "abc", VideoKey: "abc.mp4", Status: models.StatusReady}, nil
}

func TestRunProcessesTriggers(t *testing.T) {
	q := newChanQueue()
	r := &countingRenderer{done: make(chan struct{}, 4)}
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		errc <- Run(ctx, Deps{Queue: q, Renderer: r, PopTimeout: 50 * time.Millisecond, Log: logger.Discard()})
	}()

	_, _ = q.Push(ctx, "api")
	_, _ = q.Push(ctx, "api")
	for i := 0; i < 2; i++ {
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
			t.Fatal("trigger not processed")
		}
	}

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
	assert.Equal(t, 2, r.calls)
}

func TestRunRejectsInvalidSchedule(t *testing.T) {
	err := Run(context.Background(), Deps{Queue: newChanQueue(), Renderer: &countingRenderer{}, Schedule: "not a cron", Log: logger.Discard()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RENDER_SCHEDULE")
}

func TestRunScheduleEnqueues(t *testing.T) {
	q := newChanQueue()
	r := &countingRenderer{done: make(chan struct{}, 4)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = Run(ctx, Deps{Queue: q, Renderer: r, Schedule: "@every 1s", PopTimeout: 50 * time.Millisecond, Log: logger.Discard()})
	}()

	select {
	case <-r.done:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled trigger not processed")
	}
	assert.GreaterOrEqual(t, q.pushes.Load(), int32(1))
}

func TestHandleTriggerLogLevels(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantMsg   string
	}{
		{"no work is info", errors.New(errors.CodeNoWork, "no thumbed script"), `"level":"INFO"`, "no thumbed script to render"},
		{"failure is error", errors.New(errors.CodeUpload, "bucket missing"), `"level":"ERROR"`, "UPLOAD_ERROR"},
		{"success is info", nil, `"level":"INFO"`, "trigger completed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.New(logger.Config{Level: "info", Format: "json", Output: &buf})

			HandleTrigger(context.Background(), &countingRenderer{err: tt.err}, &v0.Trigger{ID: "trg_1"}, log)

			out := buf.String()
			assert.Contains(t, out, tt.wantMsg)
			assert.Contains(t, out, `"trigger_id":"trg_1"`)
			lines := strings.Split(strings.TrimSpace(out), "\n")
			assert.Contains(t, lines[len(lines)-1], tt.wantLevel)
		})
	}
}
