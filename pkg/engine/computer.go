// pkg/engine/computer.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/opd-ai/go-moonmission/pkg/command"
	"github.com/opd-ai/go-moonmission/pkg/event"
	"github.com/opd-ai/go-moonmission/pkg/physics"
)

var (
	// ErrPlanTooLong is returned when a plan needs more steps than the
	// prediction budget allows.
	ErrPlanTooLong = errors.New("plan exceeds prediction step budget")
	// ErrDiverged is returned when a predicted state stops being finite.
	ErrDiverged = errors.New("predicted state diverged")
)

// Computer forecasts the trajectory a plan would produce. It steps a
// private Engine built from its baseline and never touches the live one,
// so the baseline may lag the live state until the next Sync.
type Computer struct {
	mu       sync.RWMutex
	baseline PhysicsState
	last     Trajectory

	opts options
	feed *event.Feed[Trajectory]
}

// NewComputer creates a predictor starting from baseline
func NewComputer(baseline PhysicsState, opts ...Option) *Computer {
	return &Computer{
		baseline: baseline,
		opts:     buildOptions(opts),
		feed:     event.NewFeed[Trajectory](),
	}
}

// Sync replaces the baseline every later prediction starts from
func (c *Computer) Sync(state PhysicsState) {
	c.mu.Lock()
	c.baseline = state
	c.mu.Unlock()

	c.opts.publish(&event.BaseEvent{EventType: event.BaselineSynced, Source: c})
}

// Baseline returns a copy of the current baseline
func (c *Computer) Baseline() PhysicsState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseline
}

// Analyze runs plan on a fresh engine built from the baseline and records
// every body's position after each step. Each command is enqueued alone
// and stepped until the queue drains, so a command of duration n yields
// max(n, 1) positions. An empty plan yields an empty trajectory.
func (c *Computer) Analyze(ctx context.Context, dt float64, plan []command.Command) (Trajectory, error) {
	total := command.TotalSteps(plan)
	if total > c.opts.maxSteps {
		c.opts.metrics.recordPrediction(ctx, 0, "too_long")
		return Trajectory{}, fmt.Errorf("%w: %d steps, limit %d", ErrPlanTooLong, total, c.opts.maxSteps)
	}

	traj, err := c.simulate(ctx, dt, plan)
	if err != nil {
		c.opts.metrics.recordPrediction(ctx, traj.Len(), "failed")
		c.opts.logger.Debug(ctx, "prediction aborted", "error", err.Error(), "steps", traj.Len())
		return Trajectory{}, err
	}

	c.mu.Lock()
	c.last = traj.Clone()
	c.mu.Unlock()

	c.opts.metrics.recordPrediction(ctx, traj.Len(), "ok")
	c.feed.Publish(traj.Clone())
	c.opts.publish(event.NewPredictionEvent(c, len(plan), traj.Len()))
	return traj, nil
}

func (c *Computer) simulate(ctx context.Context, dt float64, plan []command.Command) (Trajectory, error) {
	private := NewEngine(c.Baseline(),
		WithRocketGravity(c.opts.rocketGravity),
		withMetrics(discardMetrics()),
	)
	defer private.Close()

	steps := command.TotalSteps(plan)
	traj := Trajectory{
		Earth:  make([]physics.Vector2D, 0, steps),
		Moon:   make([]physics.Vector2D, 0, steps),
		Rocket: make([]physics.Vector2D, 0, steps),
		Fuel:   make([]float64, 0, steps),
	}

	for i, cmd := range plan {
		if err := private.AddCommand(cmd); err != nil {
			return traj, fmt.Errorf("plan entry %d: %w", i, err)
		}
		for !private.Idle() {
			if err := ctx.Err(); err != nil {
				return traj, err
			}
			state := private.Update(dt)
			if !state.IsFinite() {
				return traj, fmt.Errorf("%w at step %d", ErrDiverged, traj.Len()+1)
			}
			traj.record(state)
		}
	}
	return traj, nil
}

// Trajectory returns a copy of the last successful prediction
func (c *Computer) Trajectory() Trajectory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last.Clone()
}

// SubscribeTrajectory delivers a copy of every successful prediction
func (c *Computer) SubscribeTrajectory(buffer int) (<-chan Trajectory, func()) {
	return c.feed.Subscribe(buffer)
}

// Close closes every trajectory subscription
func (c *Computer) Close() {
	c.feed.Close()
}
