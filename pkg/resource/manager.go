// pkg/resource/manager.go
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-slingshot/pkg/logging"
)

var (
	// ErrCapacity is returned when every session slot is taken.
	ErrCapacity = errors.New("session capacity reached")
	// ErrShuttingDown is returned once Shutdown has been called.
	ErrShuttingDown = errors.New("server is shutting down")
)

// SessionManager bounds the number of concurrent game sessions and waits
// for them on shutdown.
type SessionManager struct {
	maxSessions int64

	active atomic.Int64
	total  atomic.Uint64
	panics atomic.Uint64

	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup

	logger *logging.Logger
}

// NewSessionManager creates a manager allowing maxSessions concurrent
// sessions. A nil logger discards output.
func NewSessionManager(maxSessions int, logger *logging.Logger) *SessionManager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SessionManager{
		maxSessions: int64(maxSessions),
		logger:      logger.WithComponent("sessions"),
	}
}

// acquire reserves a slot and returns its release func.
func (m *SessionManager) acquire(ctx context.Context, name string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closing {
		return nil, ErrShuttingDown
	}
	if current := m.active.Load(); current >= m.maxSessions {
		m.logger.Warn(ctx, "session limit reached",
			"session", name,
			"active", current,
			"limit", m.maxSessions,
		)
		return nil, fmt.Errorf("%w: %d/%d", ErrCapacity, current, m.maxSessions)
	}

	m.active.Add(1)
	m.total.Add(1)
	m.wg.Add(1)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.active.Add(-1)
			m.wg.Done()
		})
	}, nil
}

// Run executes fn in a session slot on the calling goroutine. A panic in
// fn is recovered and returned as an error.
func (m *SessionManager) Run(ctx context.Context, name string, fn func(context.Context) error) (err error) {
	release, err := m.acquire(ctx, name)
	if err != nil {
		return err
	}
	defer release()

	defer func() {
		if r := recover(); r != nil {
			m.panics.Add(1)
			err = fmt.Errorf("session %s panicked: %v", name, r)
			m.logger.Error(ctx, "session panic", err, "session", name)
		}
	}()

	started := time.Now()
	m.logger.Info(ctx, "session started", "session", name, "active", m.active.Load())
	err = fn(ctx)
	m.logger.Info(ctx, "session ended", "session", name, "duration", time.Since(started).String())
	return err
}

// Go runs fn in a session slot on a new goroutine.
func (m *SessionManager) Go(ctx context.Context, name string, fn func(context.Context)) error {
	release, err := m.acquire(ctx, name)
	if err != nil {
		return err
	}

	go func() {
		defer release()
		defer func() {
			if r := recover(); r != nil {
				m.panics.Add(1)
				m.logger.Error(ctx, "session panic", fmt.Errorf("panic: %v", r), "session", name)
			}
		}()
		fn(ctx)
	}()
	return nil
}

// Active returns the number of running sessions.
func (m *SessionManager) Active() int {
	return int(m.active.Load())
}

// Closing reports whether Shutdown has been called.
func (m *SessionManager) Closing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closing
}

// Stats contains session usage counters.
type Stats struct {
	Active int64  `json:"active"`
	Max    int64  `json:"max"`
	Total  uint64 `json:"total"`
	Panics uint64 `json:"panics"`
}

// Stats returns the current counters.
func (m *SessionManager) Stats() Stats {
	return Stats{
		Active: m.active.Load(),
		Max:    m.maxSessions,
		Total:  m.total.Load(),
		Panics: m.panics.Load(),
	}
}

// Shutdown refuses new sessions and waits for running ones to finish or
// for ctx to end.
func (m *SessionManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closing = true
	m.mu.Unlock()

	m.logger.Info(ctx, "waiting for sessions to finish", "active", m.active.Load())

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info(ctx, "all sessions finished")
		return nil
	case <-ctx.Done():
		remaining := m.active.Load()
		m.logger.Warn(ctx, "shutdown timeout with sessions still running", "remaining", remaining)
		return fmt.Errorf("shutdown timeout: %d sessions still running", remaining)
	}
}
