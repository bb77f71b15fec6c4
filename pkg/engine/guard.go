package engine

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-moonmission/pkg/config"
	"github.com/opd-ai/go-moonmission/pkg/logging"
)

// analysisGuard wraps periodic predictions in a circuit breaker. A plan
// that keeps diverging or overrunning the step budget trips it, and the
// analysis loop skips predictions until the timeout lets one probe through.
type analysisGuard struct {
	breaker *gobreaker.CircuitBreaker
	logger  *logging.Logger
}

func newAnalysisGuard(cfg config.BreakerConfig, logger *logging.Logger) *analysisGuard {
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 1
	}

	settings := gobreaker.Settings{
		Name:        "trajectory-analysis",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// shutdown is not a prediction failure
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &analysisGuard{
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Run executes op through the breaker. While the breaker is open it
// returns gobreaker.ErrOpenState without calling op.
func (g *analysisGuard) Run(op func() error) error {
	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, op()
	})
	return err
}

// State returns the breaker state
func (g *analysisGuard) State() gobreaker.State {
	return g.breaker.State()
}
