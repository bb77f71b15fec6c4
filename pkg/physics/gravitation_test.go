// pkg/physics/gravitation_test.go
package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttractionAcceleration_PointsTowardAttractor(t *testing.T) {
	tests := []struct {
		name      string
		body      Vector2D
		attractor Vector2D
	}{
		{"along_x", Vector2D{X: 100}, Vector2D{}},
		{"along_negative_y", Vector2D{Y: -100}, Vector2D{}},
		{"diagonal", Vector2D{X: 30, Y: 40}, Vector2D{X: -10, Y: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := NewBody(1, tt.body, Vector2D{})
			attractor := NewBody(1, tt.attractor, Vector2D{})

			accel, ok := AttractionAcceleration(body, attractor)
			require.True(t, ok)

			want, _ := Direction(tt.body, tt.attractor)
			assert.True(t, accel.Normalize().Equal(want), "accel %v not along %v", accel, want)

			back, ok := AttractionAcceleration(attractor, body)
			require.True(t, ok)
			assert.True(t, back.Normalize().Equal(want.Scale(-1)), "reverse pair must point back")
		})
	}
}

func TestAttractionAcceleration_InverseSquare(t *testing.T) {
	attractor := NewBody(1, Vector2D{}, Vector2D{})
	for _, d := range []float64{50, 100, 3800} {
		near, _ := AttractionAcceleration(NewBody(1, Vector2D{X: d}, Vector2D{}), attractor)
		far, _ := AttractionAcceleration(NewBody(1, Vector2D{X: 2 * d}, Vector2D{}), attractor)
		assert.InEpsilon(t, near.Length()/4, far.Length(), 1e-12, "doubling %v must quarter the pull", d)
		assert.InEpsilon(t, G/(d*d), near.Length(), 1e-12)
	}
}

func TestAttractionAcceleration_CoincidentSkipped(t *testing.T) {
	b := NewBody(1, Vector2D{X: 7, Y: 7}, Vector2D{})
	accel, ok := AttractionAcceleration(b, b)
	assert.False(t, ok)
	assert.Equal(t, Vector2D{}, accel)
	assert.Equal(t, 0.0, AttractionMagnitude(b, b))
}

func TestNetAcceleration(t *testing.T) {
	body := NewBody(1, Vector2D{}, Vector2D{})
	left := NewBody(1, Vector2D{X: -10}, Vector2D{})
	right := NewBody(1, Vector2D{X: 10}, Vector2D{})

	net := NetAcceleration(body, left, right, body)
	assert.True(t, net.Equal(Vector2D{}), "symmetric pulls cancel, self is skipped: %v", net)
	assert.True(t, net.IsFinite())
}

func TestOrbitalSpeed(t *testing.T) {
	assert.InDelta(t, math.Sqrt(G/100), OrbitalSpeed(1, 100), 1e-12)
	assert.Equal(t, 0.0, OrbitalSpeed(1, 0))

	// centripetal acceleration of the circular orbit matches gravity
	v := OrbitalSpeed(1, 3800)
	assert.InEpsilon(t, G/(3800*3800), v*v/3800, 1e-12)
	assert.InEpsilon(t, 2*math.Pi*3800/v, OrbitalPeriod(1, 3800), 1e-12)
}
