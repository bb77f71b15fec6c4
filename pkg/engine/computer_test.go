package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-moonmission/pkg/command"
	"github.com/opd-ai/go-moonmission/pkg/event"
	"github.com/opd-ai/go-moonmission/pkg/physics"
)

func testPlan() []command.Command {
	return []command.Command{
		command.New(command.Accelerate, 30),
		command.New(command.SteerUp, 10),
		command.New(command.Nothing, 0),
		command.New(command.SteerLeft, 7),
		command.New(command.Decelerate, 5),
	}
}

// runLive enqueues every command on a live engine up front and records
// positions for as many steps as the plan occupies.
func runLive(baseline PhysicsState, dt float64, plan []command.Command, opts ...Option) (Trajectory, error) {
	live := NewEngine(baseline, opts...)
	for _, cmd := range plan {
		if err := live.AddCommand(cmd); err != nil {
			return Trajectory{}, err
		}
	}
	var traj Trajectory
	for range command.TotalSteps(plan) {
		traj.record(live.Update(dt))
	}
	return traj, nil
}

func TestComputerAnalyze_MatchesLiveEngine(t *testing.T) {
	for _, dt := range []float64{1, 0.25, 3} {
		baseline := NewPhysicsState(nil)
		c := NewComputer(baseline)

		predicted, err := c.Analyze(context.Background(), dt, testPlan())
		require.NoError(t, err)

		live, err := runLive(baseline, dt, testPlan())
		require.NoError(t, err)

		// exact equality, not within a tolerance
		assert.Equal(t, live.Earth, predicted.Earth)
		assert.Equal(t, live.Moon, predicted.Moon)
		assert.Equal(t, live.Rocket, predicted.Rocket)
		assert.Equal(t, live.Fuel, predicted.Fuel)
	}
}

func TestComputerAnalyze_MatchesLiveEngineWithRocketGravity(t *testing.T) {
	baseline := NewPhysicsState(nil)
	c := NewComputer(baseline, WithRocketGravity(true))

	predicted, err := c.Analyze(context.Background(), 1, testPlan())
	require.NoError(t, err)
	live, err := runLive(baseline, 1, testPlan(), WithRocketGravity(true))
	require.NoError(t, err)

	assert.Equal(t, live, predicted)
}

func TestComputerAnalyze_StepCounts(t *testing.T) {
	tests := []struct {
		name  string
		plan  []command.Command
		steps int
	}{
		{"empty plan", nil, 0},
		{"zero duration", []command.Command{command.New(command.Accelerate, 0)}, 1},
		{"duration n", []command.Command{command.New(command.SteerDown, 12)}, 12},
		{"mixed", testPlan(), 30 + 10 + 1 + 7 + 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComputer(NewPhysicsState(nil))
			traj, err := c.Analyze(context.Background(), 1, tt.plan)
			require.NoError(t, err)

			assert.Equal(t, tt.steps, traj.Len())
			assert.Len(t, traj.Earth, tt.steps)
			assert.Len(t, traj.Moon, tt.steps)
			assert.Len(t, traj.Fuel, tt.steps)
			assert.Equal(t, tt.steps == 0, traj.Empty())
		})
	}
}

func TestComputerAnalyze_ZeroFuelCoasts(t *testing.T) {
	baseline := NewPhysicsState(nil)
	baseline.Rocket.FuelMass = 0
	c := NewComputer(baseline)

	thrusting, err := c.Analyze(context.Background(), 1, []command.Command{command.New(command.Accelerate, 20)})
	require.NoError(t, err)
	coasting, err := c.Analyze(context.Background(), 1, []command.Command{command.New(command.Nothing, 20)})
	require.NoError(t, err)

	assert.Equal(t, coasting.Rocket, thrusting.Rocket)
}

func TestComputerAnalyze_PlanTooLong(t *testing.T) {
	c := NewComputer(NewPhysicsState(nil), WithMaxPredictionSteps(10))

	_, err := c.Analyze(context.Background(), 1, []command.Command{command.New(command.Accelerate, 11)})
	assert.ErrorIs(t, err, ErrPlanTooLong)

	traj, err := c.Analyze(context.Background(), 1, []command.Command{command.New(command.Accelerate, 10)})
	require.NoError(t, err)
	assert.Equal(t, 10, traj.Len())
}

func TestComputerAnalyze_Diverged(t *testing.T) {
	baseline := NewPhysicsState(nil)
	baseline.Rocket.Body.Velocity.X = math.NaN()
	c := NewComputer(baseline)

	_, err := c.Analyze(context.Background(), 1, []command.Command{command.New(command.Nothing, 3)})
	assert.ErrorIs(t, err, ErrDiverged)
	assert.True(t, c.Trajectory().Empty())
}

func TestComputerAnalyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewComputer(NewPhysicsState(nil))
	_, err := c.Analyze(ctx, 1, testPlan())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputerAnalyze_RejectsMetaCommands(t *testing.T) {
	c := NewComputer(NewPhysicsState(nil))
	_, err := c.Analyze(context.Background(), 1, []command.Command{command.New(command.Execute, 0)})
	assert.ErrorIs(t, err, command.ErrNotActuation)
}

func TestComputerSync(t *testing.T) {
	bus := event.NewEventBus()
	synced := 0
	bus.Subscribe(event.BaselineSynced, func(event.Event) { synced++ })

	initial := NewPhysicsState(nil)
	c := NewComputer(initial, WithEventBus(bus))

	moved := NewEngine(initial)
	for range 50 {
		moved.Update(1)
	}
	c.Sync(moved.State())

	assert.Equal(t, moved.State(), c.Baseline())
	assert.Equal(t, 1, synced)

	// predictions start from the new baseline
	traj, err := c.Analyze(context.Background(), 1, []command.Command{command.New(command.Nothing, 1)})
	require.NoError(t, err)
	assert.Equal(t, moved.Update(1).Rocket.GetPosition(), traj.Rocket[0])
}

func TestComputerAnalyze_LeavesBaselineUntouched(t *testing.T) {
	baseline := NewPhysicsState(nil)
	c := NewComputer(baseline)

	_, err := c.Analyze(context.Background(), 1, testPlan())
	require.NoError(t, err)
	assert.Equal(t, baseline, c.Baseline())
}

func TestComputer_PublishesTrajectory(t *testing.T) {
	bus := event.NewEventBus()
	var predicted []*event.PredictionEvent
	bus.Subscribe(event.TrajectoryPredicted, func(ev event.Event) {
		predicted = append(predicted, ev.(*event.PredictionEvent))
	})

	c := NewComputer(NewPhysicsState(nil), WithEventBus(bus))
	trajectories, cancel := c.SubscribeTrajectory(1)
	defer cancel()

	traj, err := c.Analyze(context.Background(), 1, testPlan())
	require.NoError(t, err)

	got := <-trajectories
	assert.Equal(t, traj, got)
	assert.Equal(t, traj, c.Trajectory())

	got.Rocket[0] = physics.Vector2D{X: 1e9}
	assert.NotEqual(t, got.Rocket[0], c.Trajectory().Rocket[0])

	require.Len(t, predicted, 1)
	assert.Equal(t, len(testPlan()), predicted[0].Commands)
	assert.Equal(t, traj.Len(), predicted[0].Steps)
}
