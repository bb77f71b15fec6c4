// Package health exposes liveness and readiness probes for a running
// simulation session. Readiness aggregates named checks, such as the
// physics loop still advancing and the predictor's breaker being closed.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// CheckTimeout bounds a readiness request
const CheckTimeout = 5 * time.Second

// HealthCheck defines the interface for individual health checks.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check performs the health check and returns an error if unhealthy
	Check(ctx context.Context) error
}

// HealthStatus represents the overall health status of a session.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents the health status of an individual component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker manages and executes health checks.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers a health check, replacing any check with the same name.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth runs every registered check concurrently and aggregates the
// results. The overall status is "healthy" only if all checks pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	checks := make([]HealthCheck, 0, len(hc.checks))
	for _, check := range hc.checks {
		checks = append(checks, check)
	}
	hc.mu.RUnlock()

	status := HealthStatus{
		Status: "healthy",
		Checks: make(map[string]ComponentHealth, len(checks)),
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	for _, check := range checks {
		g.Go(func() error {
			result := ComponentHealth{Status: "healthy"}
			if err := check.Check(ctx); err != nil {
				result = ComponentHealth{Status: "unhealthy", Message: err.Error()}
			}

			mu.Lock()
			defer mu.Unlock()
			status.Checks[check.Name()] = result
			if result.Status != "healthy" {
				status.Status = "unhealthy"
			}
			return nil
		})
	}
	_ = g.Wait()

	return status
}

// LivenessHandler reports that the process is up.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler runs all checks and answers 200 when every one passes,
// 503 otherwise.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), CheckTimeout)
	defer cancel()

	health := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")
	if health.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}

// Handler routes /health to the liveness probe and /ready to readiness
func (hc *HealthChecker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", hc.LivenessHandler)
	mux.HandleFunc("/ready", hc.ReadinessHandler)
	return mux
}

type checkFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (c checkFunc) Name() string                    { return c.name }
func (c checkFunc) Check(ctx context.Context) error { return c.fn(ctx) }

// NewCheck adapts a function into a HealthCheck
func NewCheck(name string, fn func(ctx context.Context) error) HealthCheck {
	return checkFunc{name: name, fn: fn}
}

// ProgressCheck fails when a monotonic counter, such as the number of
// physics steps, has not advanced since the previous check.
type ProgressCheck struct {
	name    string
	counter func() uint64

	mu   sync.Mutex
	last uint64
	seen bool
}

// NewProgressCheck creates a check over counter
func NewProgressCheck(name string, counter func() uint64) *ProgressCheck {
	return &ProgressCheck{name: name, counter: counter}
}

// Name returns the name of this health check.
func (p *ProgressCheck) Name() string {
	return p.name
}

// Check compares the counter with the value seen by the previous call. The
// first call only records a baseline.
func (p *ProgressCheck) Check(ctx context.Context) error {
	n := p.counter()

	p.mu.Lock()
	defer p.mu.Unlock()
	stalled := p.seen && n <= p.last
	p.last, p.seen = n, true
	if stalled {
		return fmt.Errorf("%s stalled at %d", p.name, n)
	}
	return nil
}

// NewAvailabilityCheck fails while available reports false
func NewAvailabilityCheck(name string, available func() bool) HealthCheck {
	return NewCheck(name, func(context.Context) error {
		if !available() {
			return fmt.Errorf("%s unavailable", name)
		}
		return nil
	})
}
