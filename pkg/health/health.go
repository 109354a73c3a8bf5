// Package health serves liveness and readiness checks for the SSH arcade
// server.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"slices"
	"sync"
	"time"
)

// Report states
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// readinessTimeout bounds a readiness check.
const readinessTimeout = 5 * time.Second

// Check is a single named readiness test.
type Check interface {
	Name() string
	Check(ctx context.Context) error
}

type checkFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (c checkFunc) Name() string                    { return c.name }
func (c checkFunc) Check(ctx context.Context) error { return c.fn(ctx) }

// NewCheck adapts fn to a Check.
func NewCheck(name string, fn func(ctx context.Context) error) Check {
	return checkFunc{name: name, fn: fn}
}

// Report is the aggregated result of all checks.
type Report struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// Healthy reports whether every check passed.
func (r Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// ComponentHealth is the result of one check.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker runs registered checks in registration order.
type Checker struct {
	mu     sync.RWMutex
	checks []Check
}

// NewChecker creates an empty checker. With no checks it reports healthy.
func NewChecker() *Checker {
	return &Checker{}
}

// Add registers check, replacing any check with the same name.
func (c *Checker) Add(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(check.Name()); i >= 0 {
		c.checks[i] = check
		return
	}
	c.checks = append(c.checks, check)
}

// Remove drops the check called name.
func (c *Checker) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(name); i >= 0 {
		c.checks = slices.Delete(c.checks, i, i+1)
	}
}

// Len returns the number of registered checks.
func (c *Checker) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.checks)
}

func (c *Checker) index(name string) int {
	return slices.IndexFunc(c.checks, func(check Check) bool { return check.Name() == name })
}

// Run executes every check. A check that does not finish before ctx is done
// counts as failed.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	checks := slices.Clone(c.checks)
	c.mu.RUnlock()

	report := Report{Status: StatusHealthy, Checks: make(map[string]ComponentHealth, len(checks))}
	for _, check := range checks {
		err := ctx.Err()
		if err == nil {
			err = check.Check(ctx)
		}
		if err != nil {
			report.Status = StatusUnhealthy
			report.Checks[check.Name()] = ComponentHealth{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		report.Checks[check.Name()] = ComponentHealth{Status: StatusHealthy}
	}
	return report
}

// LivenessHandler answers 200 while the process can serve HTTP at all.
func (c *Checker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ReadinessHandler runs every check and answers 503 when any fails.
func (c *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	report := c.Run(ctx)
	code := http.StatusOK
	if !report.Healthy() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, report)
}

// Handler routes /health and /ready.
func (c *Checker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", c.LivenessHandler)
	mux.HandleFunc("/ready", c.ReadinessHandler)
	return mux
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// ListenerCheck fails while the SSH listener is not accepting sessions.
func ListenerCheck(serving func() bool) Check {
	return NewCheck("ssh_listener", func(ctx context.Context) error {
		if !serving() {
			return fmt.Errorf("ssh listener is not accepting sessions")
		}
		return nil
	})
}

// MemoryCheck fails when usage reports more than maxMB megabytes.
func MemoryCheck(maxMB int64, usage func() int64) Check {
	return NewCheck("memory", func(ctx context.Context) error {
		if current := usage(); current > maxMB {
			return fmt.Errorf("memory usage %dMB exceeds limit %dMB", current, maxMB)
		}
		return nil
	})
}

// HeapMB returns the allocated heap in megabytes.
func HeapMB() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}
