// pkg/event/event_test.go
package event

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-moonmission/pkg/command"
	"github.com/opd-ai/go-moonmission/pkg/entity"
)

func TestNewEventBus_Creation_ReturnsInitializedBus(t *testing.T) {
	bus := NewEventBus()
	require.NotNil(t, bus)
	assert.NotNil(t, bus.handlers)
	assert.Equal(t, uint64(1), bus.nextID)
}

func TestBaseEvent_GetType_ReturnsCorrectType(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		source    interface{}
	}{
		{"FuelExhausted event", FuelExhausted, "test_source"},
		{"PlanExecuted event", PlanExecuted, 123},
		{"Empty source", SessionStarted, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &BaseEvent{EventType: tt.eventType, Source: tt.source}
			assert.Equal(t, tt.eventType, e.GetType())
			assert.Equal(t, tt.source, e.GetSource())
		})
	}
}

func TestBus_SubscribeAndPublish(t *testing.T) {
	bus := NewEventBus()

	var got []Type
	sub := bus.Subscribe(PlanChanged, func(e Event) { got = append(got, e.GetType()) })
	bus.Subscribe(PlanExecuted, func(e Event) { got = append(got, e.GetType()) })

	require.NotNil(t, sub)
	assert.NotZero(t, sub.ID)
	require.NotNil(t, sub.Cancel)

	bus.Publish(NewPlanEvent(PlanChanged, bus, nil))
	bus.Publish(NewPlanEvent(PlanExecuted, bus, nil))
	bus.Publish(&BaseEvent{EventType: SessionStopped})

	assert.Equal(t, []Type{PlanChanged, PlanExecuted}, got)
}

func TestSubscriptionCancel_ValidSubscription_RemovesHandler(t *testing.T) {
	bus := NewEventBus()

	var first, second int
	sub1 := bus.Subscribe(FuelExhausted, func(Event) { first++ })
	bus.Subscribe(FuelExhausted, func(Event) { second++ })

	sub1.Cancel()
	sub1.Cancel() // second cancel is harmless

	bus.Publish(NewFuelEvent(nil, command.New(command.Accelerate, 1), 0, 3))
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)

	bus.mu.RLock()
	assert.Len(t, bus.handlers[FuelExhausted], 1)
	bus.mu.RUnlock()
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewEventBus()
	var count atomic.Int64
	bus.Subscribe(CommandApplied, func(Event) { count.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.Publish(NewCommandEvent(CommandApplied, nil, command.New(command.SteerUp, 1), uint64(j)))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1000), count.Load())
}

func TestEventConstructors(t *testing.T) {
	cmd := command.New(command.Decelerate, 4)

	ce := NewCommandEvent(CommandCompleted, "engine", cmd, 9)
	assert.Equal(t, CommandCompleted, ce.GetType())
	assert.Equal(t, cmd, ce.Command)
	assert.Equal(t, uint64(9), ce.Step)

	fe := NewFuelEvent("engine", cmd, -0.001, 12)
	assert.Equal(t, FuelExhausted, fe.GetType())
	assert.Equal(t, -0.001, fe.FuelMass)

	col := NewCollisionEvent("engine", entity.RocketID, entity.EarthID, 12.5, 40)
	assert.Equal(t, BodyCollision, col.GetType())
	assert.Equal(t, entity.RocketID, col.EntityA)
	assert.Equal(t, entity.EarthID, col.EntityB)

	cmds := []command.Command{cmd}
	pe := NewPlanEvent(PlanChanged, nil, cmds)
	cmds[0].Duration = 100
	assert.Equal(t, 4, pe.Commands[0].Duration, "plan events carry a copy")

	pr := NewPredictionEvent(nil, 2, 40)
	assert.Equal(t, TrajectoryPredicted, pr.GetType())
	assert.Equal(t, 40, pr.Steps)
}
