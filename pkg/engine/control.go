// pkg/engine/control.go
package engine

import (
	"context"

	"github.com/opd-ai/go-moonmission/pkg/command"
	"github.com/opd-ai/go-moonmission/pkg/config"
	"github.com/opd-ai/go-moonmission/pkg/event"
	"github.com/opd-ai/go-moonmission/pkg/logging"
)

// Input is one discrete request from the input collaborator. Actuation
// commands go to the plan unless Immediate is set, in which case they are
// queued on the live rocket directly.
type Input struct {
	Command   command.Command
	Immediate bool
}

// GameControl ties the live engine, the predictor and the plan buffer
// together. Planning never touches the live simulation; Execute is the
// only path from the plan into the live queue.
type GameControl struct {
	engine   *Engine
	computer *Computer
	plan     *command.Plan
	bus      *event.Bus
	logger   *logging.Logger
}

// NewGameControl creates a controller whose live engine and predictor both
// start from state.
func NewGameControl(state PhysicsState, opts ...Option) *GameControl {
	o := buildOptions(opts)
	if o.bus == nil {
		o.bus = event.NewEventBus()
	}
	shared := []Option{
		WithLogger(o.logger),
		WithEventBus(o.bus),
		WithRocketGravity(o.rocketGravity),
		WithMaxPredictionSteps(o.maxSteps),
		withMetrics(o.metrics),
	}

	return &GameControl{
		engine:   NewEngine(state, shared...),
		computer: NewComputer(state, shared...),
		plan:     command.NewPlan(),
		bus:      o.bus,
		logger:   o.logger,
	}
}

// NewGameControlFromConfig builds the initial state and engine options
// from cfg.
func NewGameControlFromConfig(cfg *config.Config, opts ...Option) *GameControl {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	base := []Option{
		WithRocketGravity(cfg.Simulation.RocketGravity),
		WithMaxPredictionSteps(cfg.Simulation.MaxPredictionSteps),
	}
	return NewGameControl(NewPhysicsState(cfg), append(base, opts...)...)
}

// Plan appends an actuation command to the plan buffer
func (gc *GameControl) Plan(cmd command.Command) error {
	if err := gc.plan.Append(cmd); err != nil {
		return err
	}
	gc.publishPlan()
	return nil
}

// ClearPlan empties the plan buffer
func (gc *GameControl) ClearPlan() {
	gc.plan.Clear()
	gc.publishPlan()
}

// RemoveLast drops the most recently planned command
func (gc *GameControl) RemoveLast() (command.Command, error) {
	cmd, err := gc.plan.RemoveLast()
	if err != nil {
		return command.Command{}, err
	}
	gc.publishPlan()
	return cmd, nil
}

// PlannedCommands returns a copy of the plan buffer
func (gc *GameControl) PlannedCommands() []command.Command {
	return gc.plan.Snapshot()
}

// Execute moves the whole plan into the live queue in one atomic take and
// returns the number of commands enqueued.
func (gc *GameControl) Execute() int {
	cmds := gc.plan.Drain()
	enqueued := 0
	for _, cmd := range cmds {
		if err := gc.engine.AddCommand(cmd); err != nil {
			gc.logger.Error(context.Background(), "dropping planned command", err, "command", cmd.String())
			continue
		}
		enqueued++
	}

	gc.logger.Info(context.Background(), "plan executed", "commands", enqueued)
	gc.bus.Publish(event.NewPlanEvent(event.PlanExecuted, gc, cmds))
	if len(cmds) > 0 {
		gc.publishPlan()
	}
	return enqueued
}

// Sync copies the live state into the predictor's baseline
func (gc *GameControl) Sync() {
	gc.computer.Sync(gc.engine.State())
}

// Apply queues an actuation command on the live rocket, bypassing the plan
func (gc *GameControl) Apply(cmd command.Command) error {
	return gc.engine.AddCommand(cmd)
}

// HandleInput routes one input: meta commands act on the plan or the
// predictor, actuation commands are planned or applied.
func (gc *GameControl) HandleInput(in Input) error {
	cmd := in.Command
	if err := cmd.Validate(); err != nil {
		return err
	}

	switch cmd.Kind {
	case command.Execute:
		gc.Execute()
	case command.Clear:
		gc.ClearPlan()
	case command.RemoveLast:
		_, err := gc.RemoveLast()
		return err
	case command.Sync:
		gc.Sync()
	default:
		if in.Immediate {
			return gc.Apply(cmd)
		}
		return gc.Plan(cmd)
	}
	return nil
}

// UpdatePhysics advances the live simulation one step
func (gc *GameControl) UpdatePhysics(dt float64) PhysicsState {
	return gc.engine.Update(dt)
}

// UpdateAnalysis predicts the current plan from the predictor's baseline
func (gc *GameControl) UpdateAnalysis(ctx context.Context, dt float64) (Trajectory, error) {
	return gc.computer.Analyze(ctx, dt, gc.plan.Snapshot())
}

// SubscribePhysics delivers a copy of the live state after every step
func (gc *GameControl) SubscribePhysics(buffer int) (<-chan PhysicsState, func()) {
	return gc.engine.SubscribeState(buffer)
}

// SubscribeTrajectory delivers every successful prediction
func (gc *GameControl) SubscribeTrajectory(buffer int) (<-chan Trajectory, func()) {
	return gc.computer.SubscribeTrajectory(buffer)
}

// Events returns the bus typed events are published on
func (gc *GameControl) Events() *event.Bus {
	return gc.bus
}

// State returns a copy of the live state
func (gc *GameControl) State() PhysicsState {
	return gc.engine.State()
}

// Trajectory returns the last successful prediction
func (gc *GameControl) Trajectory() Trajectory {
	return gc.computer.Trajectory()
}

// Engine returns the live engine
func (gc *GameControl) Engine() *Engine {
	return gc.engine
}

// Computer returns the predictor
func (gc *GameControl) Computer() *Computer {
	return gc.computer
}

// Close closes every snapshot subscription
func (gc *GameControl) Close() {
	gc.engine.Close()
	gc.computer.Close()
}

func (gc *GameControl) publishPlan() {
	gc.bus.Publish(event.NewPlanEvent(event.PlanChanged, gc, gc.plan.Snapshot()))
}
