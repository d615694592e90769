// Package shutdown coordinates graceful stop of the render API and worker.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"aith/internal/pkg/logger"
)

// Step is one named teardown action.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Manager runs registered steps once, newest first, under a shared deadline.
type Manager struct {
	log     *logger.Logger
	timeout time.Duration

	mu    sync.Mutex
	steps []Step

	once   sync.Once
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func NewManager(log *logger.Logger, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		log:     log.WithComponent("shutdown"),
		timeout: timeout,
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register adds a step. Steps registered later run earlier.
func (m *Manager) Register(name string, run func(ctx context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, Step{Name: name, Run: run})
	m.log.Debug("registered shutdown step", "name", name)
}

// RegisterSimple adds a step that cannot fail.
func (m *Manager) RegisterSimple(name string, run func()) {
	m.Register(name, func(context.Context) error {
		run()
		return nil
	})
}

// Context is canceled as soon as shutdown begins, so long-running loops
// (queue consumers, cron) can stop taking new work.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// Done is closed once every step has run or the deadline passed.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until SIGINT/SIGTERM/SIGHUP or until parent is canceled, then shuts down.
func (m *Manager) Wait(parent context.Context) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sig)

	select {
	case s := <-sig:
		m.log.Info("shutdown signal received", "signal", s.String())
	case <-parent.Done():
		m.log.Info("parent context canceled, shutting down")
	case <-m.ctx.Done():
	}

	m.Shutdown()
}

// Shutdown runs the steps sequentially in reverse registration order.
// A failing step is logged and does not stop the remaining ones. Safe to call more than once.
func (m *Manager) Shutdown() {
	m.once.Do(func() {
		m.cancel()

		m.mu.Lock()
		steps := make([]Step, len(m.steps))
		copy(steps, m.steps)
		m.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		m.log.Info("starting graceful shutdown", "steps", len(steps), "timeout", m.timeout.String())

		for i := len(steps) - 1; i >= 0; i-- {
			if ctx.Err() != nil {
				m.log.Warn("shutdown deadline exceeded, skipping remaining steps", "remaining", i+1)
				break
			}
			m.runStep(ctx, steps[i])
		}

		m.log.Info("graceful shutdown completed")
		close(m.done)
	})
}

func (m *Manager) runStep(ctx context.Context, s Step) {
	start := time.Now()
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	select {
	case err := <-errc:
		if err != nil {
			m.log.Error("shutdown step failed", "name", s.Name, "error", err.Error(),
				"duration_ms", time.Since(start).Milliseconds())
			return
		}
		m.log.Debug("shutdown step completed", "name", s.Name,
			"duration_ms", time.Since(start).Milliseconds())
	case <-ctx.Done():
		m.log.Warn("shutdown step timed out", "name", s.Name)
	}
}
