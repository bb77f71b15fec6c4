package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_DurationNAppliedNTimes(t *testing.T) {
	for _, n := range []int{1, 2, 5, 30} {
		var q Queue
		q.Push(New(Accelerate, n))

		applied := 0
		for !q.Idle() {
			cmd, ok := q.Tick()
			require.True(t, ok)
			assert.Equal(t, Accelerate, cmd.Kind)
			applied++
			require.LessOrEqual(t, applied, n, "command outlived its duration")
		}
		assert.Equal(t, n, applied)
		assert.Equal(t, 0, q.Len())
	}
}

func TestQueue_ZeroDurationAppliedOnce(t *testing.T) {
	var q Queue
	q.Push(New(SteerUp, 0), New(SteerDown, 1))

	cmd, ok := q.Tick()
	require.True(t, ok)
	assert.Equal(t, SteerUp, cmd.Kind)

	cmd, ok = q.Tick()
	require.True(t, ok)
	assert.Equal(t, SteerDown, cmd.Kind)
	assert.True(t, q.Idle())
}

func TestQueue_FIFOSingleActive(t *testing.T) {
	var q Queue
	q.Push(New(Accelerate, 2), New(SteerLeft, 1), New(Decelerate, 2))

	var kinds []Kind
	for !q.Idle() {
		cmd, _ := q.Tick()
		kinds = append(kinds, cmd.Kind)
	}
	assert.Equal(t, []Kind{Accelerate, Accelerate, SteerLeft, Decelerate, Decelerate}, kinds)
}

func TestQueue_EmptyTickIsNoop(t *testing.T) {
	var q Queue
	cmd, ok := q.Tick()
	assert.False(t, ok)
	assert.Equal(t, Command{}, cmd)
	_, ok = q.Front()
	assert.False(t, ok)
}

func TestQueue_PendingAndClone(t *testing.T) {
	var q Queue
	q.Push(New(Accelerate, 3))
	q.Tick()

	pending := q.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Duration, "pending reports the remaining duration")

	clone := q.Clone()
	clone.Tick()
	clone.Tick()
	assert.True(t, clone.Idle())
	assert.Equal(t, 1, q.Len(), "ticking a clone leaves the original alone")

	pending[0].Duration = 99
	front, _ := q.Front()
	assert.Equal(t, 2, front.Duration)

	q.Reset()
	assert.True(t, q.Idle())
}
