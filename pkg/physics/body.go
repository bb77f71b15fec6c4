// pkg/physics/body.go
package physics

// DefaultOrientation is the heading of a body that has never moved: "up" in
// simulation space, where y grows downward.
var DefaultOrientation = Vector2D{X: 0, Y: -1}

// Body is a point mass integrated with semi-implicit Euler.
type Body struct {
	Mass        float64
	Position    Vector2D
	Velocity    Vector2D
	Orientation Vector2D
}

// NewBody creates a body whose orientation follows its initial velocity.
func NewBody(mass float64, position, velocity Vector2D) Body {
	b := Body{
		Mass:        mass,
		Position:    position,
		Velocity:    velocity,
		Orientation: DefaultOrientation,
	}
	b.updateOrientation()
	return b
}

// Step advances the body by dt under the given acceleration.
// Velocity is updated first and the new velocity moves the position; the
// live engine and the predictor both depend on this order.
func (b *Body) Step(acceleration Vector2D, dt float64) {
	b.Velocity.AddAssign(acceleration.Scale(dt))
	b.Position.AddAssign(b.Velocity.Scale(dt))
	b.updateOrientation()
}

// updateOrientation points the body along its velocity, holding the last
// heading while the body is at rest.
func (b *Body) updateOrientation() {
	speed := b.Velocity.Length()
	if speed == 0 {
		return
	}
	b.Orientation = b.Velocity.Div(speed)
}

// Speed returns the magnitude of the body's velocity
func (b Body) Speed() float64 {
	return b.Velocity.Length()
}
