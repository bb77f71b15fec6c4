// pkg/engine/session.go
package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/go-moonmission/pkg/config"
	"github.com/opd-ai/go-moonmission/pkg/event"
	"github.com/opd-ai/go-moonmission/pkg/logging"
)

// inputBuffer is the number of inputs Submit can queue before dropping
const inputBuffer = 64

// Presenter receives copies of the live state and of each prediction. It
// is called from the session's presentation goroutine only.
type Presenter interface {
	PresentState(PhysicsState)
	PresentTrajectory(Trajectory)
}

// Session runs a GameControl in real time: input handling, live physics,
// periodic prediction and presentation each run in their own goroutine
// until the context is cancelled or Stop is called.
type Session struct {
	ID string

	control   *GameControl
	sim       config.SimulationConfig
	presenter Presenter
	guard     *analysisGuard
	logger    *logging.Logger

	inputs chan Input
	paused atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewSession creates a session for control. presenter may be nil.
func NewSession(cfg *config.Config, control *GameControl, presenter Presenter, logger *logging.Logger) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Session{
		ID:        logging.GenerateCorrelationID(),
		control:   control,
		sim:       cfg.Simulation,
		presenter: presenter,
		guard:     newAnalysisGuard(cfg.Breaker, logger),
		logger:    logger,
		inputs:    make(chan Input, inputBuffer),
	}
}

// Control returns the session's controller
func (s *Session) Control() *GameControl {
	return s.control
}

// Run blocks until ctx is cancelled, Stop is called or a loop fails.
// Cancellation and deadline expiry are normal exits and return nil.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(logging.WithCorrelationID(ctx, s.ID))
	defer cancel()

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	states, cancelStates := s.control.SubscribePhysics(1)
	defer cancelStates()
	trajectories, cancelTrajectories := s.control.SubscribeTrajectory(1)
	defer cancelTrajectories()

	s.logger.Info(ctx, "session started",
		"timeStep", s.sim.TimeStep,
		"physicsInterval", s.sim.PhysicsInterval,
		"analysisInterval", s.sim.AnalysisInterval,
	)
	s.control.Events().Publish(&event.BaseEvent{EventType: event.SessionStarted, Source: s})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.inputLoop(ctx) })
	g.Go(func() error { return s.physicsLoop(ctx) })
	g.Go(func() error { return s.analysisLoop(ctx) })
	g.Go(func() error { return s.presentationLoop(ctx, states, trajectories) })

	err := g.Wait()
	s.control.Events().Publish(&event.BaseEvent{EventType: event.SessionStopped, Source: s})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	s.logger.Info(ctx, "session stopped", "steps", s.control.Engine().Steps())
	return err
}

// Stop cancels a running session
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Submit queues an input without blocking. It returns false when the
// input buffer is full and the input was dropped.
func (s *Session) Submit(in Input) bool {
	select {
	case s.inputs <- in:
		return true
	default:
		return false
	}
}

// Pause freezes simulated time; steps keep running with dt = 0.
func (s *Session) Pause() {
	if !s.paused.Swap(true) {
		s.logger.Info(logging.WithCorrelationID(context.Background(), s.ID), "session paused")
	}
}

// Resume restores the configured time step
func (s *Session) Resume() {
	if s.paused.Swap(false) {
		s.logger.Info(logging.WithCorrelationID(context.Background(), s.ID), "session resumed")
	}
}

// Paused reports whether the session is paused
func (s *Session) Paused() bool {
	return s.paused.Load()
}

// PredictorAvailable reports whether the analysis breaker lets predictions
// through
func (s *Session) PredictorAvailable() bool {
	return s.guard.State() != gobreaker.StateOpen
}

func (s *Session) timeStep() float64 {
	if s.paused.Load() {
		return 0
	}
	return s.sim.TimeStep
}

func (s *Session) inputLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in := <-s.inputs:
			if err := s.control.HandleInput(in); err != nil {
				s.logger.Warn(ctx, "input rejected", "command", in.Command.String(), "error", err.Error())
			}
		}
	}
}

func (s *Session) physicsLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.sim.PhysicsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.control.UpdatePhysics(s.timeStep())
		}
	}
}

func (s *Session) analysisLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.sim.AnalysisInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := s.guard.Run(func() error {
				_, err := s.control.UpdateAnalysis(ctx, s.sim.TimeStep)
				return err
			})
			switch {
			case err == nil, ctx.Err() != nil:
			case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
				s.logger.Debug(ctx, "prediction skipped", "state", s.guard.State().String())
			default:
				s.logger.Warn(ctx, "prediction failed", "error", err.Error())
			}
		}
	}
}

func (s *Session) presentationLoop(ctx context.Context, states <-chan PhysicsState, trajectories <-chan Trajectory) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case state, ok := <-states:
			if !ok {
				states = nil
				continue
			}
			if s.presenter != nil {
				s.presenter.PresentState(state)
			}
		case traj, ok := <-trajectories:
			if !ok {
				trajectories = nil
				continue
			}
			if s.presenter != nil {
				s.presenter.PresentTrajectory(traj)
			}
		}
	}
}
