// pkg/engine/physics.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/opd-ai/go-moonmission/pkg/command"
	"github.com/opd-ai/go-moonmission/pkg/entity"
	"github.com/opd-ai/go-moonmission/pkg/event"
	"github.com/opd-ai/go-moonmission/pkg/physics"
)

// contactPair names two bodies checked for proximity each step
type contactPair struct {
	a, b entity.ID
}

var contactPairs = []contactPair{
	{entity.RocketID, entity.EarthID},
	{entity.RocketID, entity.MoonID},
	{entity.MoonID, entity.EarthID},
}

// Engine advances one PhysicsState and executes the commands queued for its
// rocket. The live simulation and the predictor both step through Update.
type Engine struct {
	mu       sync.RWMutex
	state    PhysicsState
	queue    command.Queue
	step     uint64
	started  bool // front command has been announced
	noFuel   bool // exhaustion already reported
	contacts map[contactPair]bool

	opts options
	feed *event.Feed[PhysicsState]
}

// NewEngine creates an engine starting from state with an empty queue
func NewEngine(state PhysicsState, opts ...Option) *Engine {
	return &Engine{
		state:    state,
		contacts: make(map[contactPair]bool),
		opts:     buildOptions(opts),
		feed:     event.NewFeed[PhysicsState](),
	}
}

// Update advances the simulation by dt: gravity, integration, at most one
// queued command, then proximity checks. Subscribers receive a copy of the
// resulting state, which is also returned.
func (e *Engine) Update(dt float64) PhysicsState {
	e.mu.Lock()
	e.step++
	e.applyGravity(dt)
	pending := e.executeCommand(dt)
	pending = append(pending, e.detectContacts()...)
	snapshot := e.state
	e.mu.Unlock()

	e.opts.metrics.recordStep(context.Background())
	for _, ev := range pending {
		e.opts.publish(ev)
	}
	e.feed.Publish(snapshot)
	return snapshot
}

// applyGravity computes every pairwise acceleration from the current
// positions before any body moves, then integrates earth, moon and rocket.
func (e *Engine) applyGravity(dt float64) {
	s := &e.state

	earthAttractors := []physics.Body{s.Moon.Body}
	moonAttractors := []physics.Body{s.Earth.Body}
	if e.opts.rocketGravity {
		rocket := s.Rocket.Body
		rocket.Mass = s.Rocket.Mass()
		earthAttractors = append(earthAttractors, rocket)
		moonAttractors = append(moonAttractors, rocket)
	}

	earthAccel := physics.NetAcceleration(s.Earth.Body, earthAttractors...)
	moonAccel := physics.NetAcceleration(s.Moon.Body, moonAttractors...)
	rocketAccel := physics.NetAcceleration(s.Rocket.Body, s.Earth.Body, s.Moon.Body)

	s.Earth.Update(earthAccel, dt)
	s.Moon.Update(moonAccel, dt)
	s.Rocket.Update(rocketAccel, dt)
}

// executeCommand consumes one step of the front command and applies it to
// the rocket. It returns the events to publish once the lock is released.
func (e *Engine) executeCommand(dt float64) []event.Event {
	cmd, ok := e.queue.Tick()
	if !ok {
		return nil
	}

	var events []event.Event
	if !e.started {
		e.started = true
		events = append(events, event.NewCommandEvent(event.CommandApplied, e, cmd, e.step))
	}

	err := e.actuate(cmd, dt)
	switch {
	case errors.Is(err, entity.ErrNoFuel):
		e.opts.metrics.recordRefusal(context.Background(), cmd.Kind.String())
		if !e.noFuel {
			e.noFuel = true
			e.opts.logger.Warn(context.Background(), "rocket fuel exhausted",
				"command", cmd.String(), "step", e.step)
			events = append(events, event.NewFuelEvent(e, cmd, e.state.Rocket.FuelMass, e.step))
		}
	case err != nil:
		e.opts.logger.Error(context.Background(), "command failed", err, "command", cmd.String())
	default:
		e.opts.metrics.recordCommand(context.Background(), cmd.Kind.String())
	}

	if cmd.Duration <= 0 {
		e.started = false
		events = append(events, event.NewCommandEvent(event.CommandCompleted, e, cmd, e.step))
	}
	return events
}

func (e *Engine) actuate(cmd command.Command, dt float64) error {
	r := &e.state.Rocket
	switch cmd.Kind {
	case command.Nothing:
		return nil
	case command.Accelerate:
		return r.Accelerate(1, dt)
	case command.Decelerate:
		return r.Accelerate(-1, dt)
	case command.SteerUp:
		return r.Steer(entity.SteerUp, dt)
	case command.SteerDown:
		return r.Steer(entity.SteerDown, dt)
	case command.SteerLeft:
		return r.Steer(entity.SteerLeft, dt)
	case command.SteerRight:
		return r.Steer(entity.SteerRight, dt)
	default:
		return fmt.Errorf("%w: %s", command.ErrNotActuation, cmd.Kind)
	}
}

// detectContacts reports proximity transitions. Bodies pass through each
// other; only the moment of first contact is published.
func (e *Engine) detectContacts() []event.Event {
	colliders := map[entity.ID]physics.Circle{
		entity.EarthID:  e.state.Earth.GetCollider(),
		entity.MoonID:   e.state.Moon.GetCollider(),
		entity.RocketID: e.state.Rocket.GetCollider(),
	}

	var events []event.Event
	for _, pair := range contactPairs {
		a, b := colliders[pair.a], colliders[pair.b]
		touching := physics.CheckCollision(a, b).Collided
		if touching && !e.contacts[pair] {
			distance := a.Center.Distance(b.Center)
			e.opts.logger.Info(context.Background(), "bodies in contact",
				"a", string(pair.a), "b", string(pair.b), "distance", distance, "step", e.step)
			events = append(events, event.NewCollisionEvent(e, pair.a, pair.b, distance, e.step))
		}
		e.contacts[pair] = touching
	}
	return events
}

// AddCommand appends an actuation command to the live queue
func (e *Engine) AddCommand(cmd command.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !cmd.Kind.IsActuation() {
		return fmt.Errorf("%w: %s", command.ErrNotActuation, cmd.Kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue.Push(cmd)
	return nil
}

// ClearQueue drops every pending command
func (e *Engine) ClearQueue() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue.Reset()
	e.started = false
}

// Idle reports whether the command queue is empty
func (e *Engine) Idle() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.queue.Idle()
}

// Pending returns the queued commands with their remaining durations
func (e *Engine) Pending() []command.Command {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.queue.Pending()
}

// State returns a copy of the current state
func (e *Engine) State() PhysicsState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// SetState replaces the simulated state. Queued commands are kept.
func (e *Engine) SetState(state PhysicsState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state
	e.noFuel = false
	e.contacts = make(map[contactPair]bool)
}

// Steps returns the number of Update calls so far
func (e *Engine) Steps() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.step
}

// SubscribeState delivers a copy of the state after every step
func (e *Engine) SubscribeState(buffer int) (<-chan PhysicsState, func()) {
	return e.feed.Subscribe(buffer)
}

// Close closes every state subscription
func (e *Engine) Close() {
	e.feed.Close()
}
