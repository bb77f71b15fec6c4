// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-moonmission/pkg/command"
	"github.com/opd-ai/go-moonmission/pkg/entity"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	FuelExhausted       Type = "fuel_exhausted"
	CommandApplied      Type = "command_applied"
	CommandCompleted    Type = "command_completed"
	BodyCollision       Type = "body_collision"
	PlanChanged         Type = "plan_changed"
	PlanExecuted        Type = "plan_executed"
	BaselineSynced      Type = "baseline_synced"
	TrajectoryPredicted Type = "trajectory_predicted"
	SessionStarted      Type = "session_started"
	SessionStopped      Type = "session_stopped"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler. Cancel removes it.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[eventType]
	for i, r := range regs {
		if r.id == id {
			b.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers. Handlers run on the
// publisher's goroutine, outside the bus lock.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	regs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, r := range regs {
		r.handler(event)
	}
}

// CommandEvent reports a command being applied to or retired from the live
// rocket
type CommandEvent struct {
	BaseEvent
	Command command.Command
	Step    uint64
}

// NewCommandEvent creates a new command event
func NewCommandEvent(eventType Type, source interface{}, cmd command.Command, step uint64) *CommandEvent {
	return &CommandEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Command:   cmd,
		Step:      step,
	}
}

// FuelEvent reports a thrust command refused for lack of fuel
type FuelEvent struct {
	BaseEvent
	Command  command.Command
	FuelMass float64
	Step     uint64
}

// NewFuelEvent creates a new fuel event
func NewFuelEvent(source interface{}, cmd command.Command, fuel float64, step uint64) *FuelEvent {
	return &FuelEvent{
		BaseEvent: BaseEvent{EventType: FuelExhausted, Source: source},
		Command:   cmd,
		FuelMass:  fuel,
		Step:      step,
	}
}

// CollisionEvent contains information about two bodies coming within
// radius of each other
type CollisionEvent struct {
	BaseEvent
	EntityA  entity.ID
	EntityB  entity.ID
	Distance float64
	Step     uint64
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, a, b entity.ID, distance float64, step uint64) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{EventType: BodyCollision, Source: source},
		EntityA:   a,
		EntityB:   b,
		Distance:  distance,
		Step:      step,
	}
}

// PlanEvent reports a change to, or commit of, the operator's plan
type PlanEvent struct {
	BaseEvent
	Commands []command.Command
}

// NewPlanEvent creates a new plan event. The command slice is copied.
func NewPlanEvent(eventType Type, source interface{}, cmds []command.Command) *PlanEvent {
	out := make([]command.Command, len(cmds))
	copy(out, cmds)
	return &PlanEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Commands:  out,
	}
}

// PredictionEvent reports a finished prediction pass
type PredictionEvent struct {
	BaseEvent
	Commands int
	Steps    int
}

// NewPredictionEvent creates a new prediction event
func NewPredictionEvent(source interface{}, commands, steps int) *PredictionEvent {
	return &PredictionEvent{
		BaseEvent: BaseEvent{EventType: TrajectoryPredicted, Source: source},
		Commands:  commands,
		Steps:     steps,
	}
}
