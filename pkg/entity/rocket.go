// pkg/entity/rocket.go
package entity

import (
	"errors"

	"github.com/opd-ai/go-moonmission/pkg/physics"
)

// ErrNoFuel is returned by rocket actuations once the tank is empty
var ErrNoFuel = errors.New("rocket fuel exhausted")

// SteerDirection selects one of the four axis-aligned steering thrusts
type SteerDirection int

const (
	SteerUp SteerDirection = iota
	SteerDown
	SteerLeft
	SteerRight
)

// Vector returns the unit thrust direction in simulation space. Up is -y.
func (d SteerDirection) Vector() physics.Vector2D {
	switch d {
	case SteerUp:
		return physics.Vector2D{X: 0, Y: -1}
	case SteerDown:
		return physics.Vector2D{X: 0, Y: 1}
	case SteerLeft:
		return physics.Vector2D{X: -1, Y: 0}
	case SteerRight:
		return physics.Vector2D{X: 1, Y: 0}
	default:
		return physics.Vector2D{}
	}
}

func (d SteerDirection) String() string {
	switch d {
	case SteerUp:
		return "up"
	case SteerDown:
		return "down"
	case SteerLeft:
		return "left"
	case SteerRight:
		return "right"
	default:
		return "unknown"
	}
}

// RocketSpec holds the construction parameters of a rocket
type RocketSpec struct {
	BodyMass        float64
	EngineMass      float64
	FuelMass        float64
	Thrust          float64
	FuelConsumption float64 // per unit of simulation time
	Position        physics.Vector2D
	Velocity        physics.Vector2D
}

// Rocket is an actuated body with fuel-limited thrust. Body.Mass holds the
// dry mass only; the engine and remaining fuel are added by Mass.
type Rocket struct {
	ID              ID
	Body            physics.Body
	Thrust          float64
	EngineMass      float64
	FuelMass        float64
	FuelConsumption float64
}

// NewRocket creates a rocket from its spec
func NewRocket(spec RocketSpec) Rocket {
	return Rocket{
		ID:              RocketID,
		Body:            physics.NewBody(spec.BodyMass, spec.Position, spec.Velocity),
		Thrust:          spec.Thrust,
		EngineMass:      spec.EngineMass,
		FuelMass:        spec.FuelMass,
		FuelConsumption: spec.FuelConsumption,
	}
}

// GetID returns the rocket's identifier
func (r Rocket) GetID() ID { return r.ID }

// GetPosition returns the rocket's position
func (r Rocket) GetPosition() physics.Vector2D { return r.Body.Position }

// GetCollider returns a point collider at the rocket's position
func (r Rocket) GetCollider() physics.Circle {
	return physics.Circle{Center: r.Body.Position}
}

// Velocity returns the rocket's velocity
func (r Rocket) Velocity() physics.Vector2D { return r.Body.Velocity }

// Orientation returns the rocket's heading
func (r Rocket) Orientation() physics.Vector2D { return r.Body.Orientation }

// Mass returns dry + engine + fuel mass
func (r Rocket) Mass() float64 {
	return r.Body.Mass + r.EngineMass + r.FuelMass
}

// Empty reports whether the tank is at or below zero
func (r Rocket) Empty() bool {
	return r.FuelMass <= 0
}

// EffectiveThrust returns the thrust-to-weight acceleration available now.
// It grows as fuel burns and drops to zero once the tank is empty.
func (r Rocket) EffectiveThrust() float64 {
	if r.Empty() {
		return 0
	}
	return r.Thrust / r.Mass()
}

// Update integrates the rocket one step under an external acceleration
func (r *Rocket) Update(acceleration physics.Vector2D, dt float64) {
	r.Body.Step(acceleration, dt)
}

// Accelerate thrusts along the current heading; rate +1 accelerates and -1
// reverses thrust along the same heading. Returns ErrNoFuel without touching
// the rocket when the tank is empty.
func (r *Rocket) Accelerate(rate, dt float64) error {
	if r.Empty() {
		return ErrNoFuel
	}
	thrust := r.EffectiveThrust()
	r.burn(dt)
	r.Body.Step(r.Body.Orientation.Scale(thrust*rate), dt)
	return nil
}

// Steer thrusts along a fixed axis independent of the current heading.
// Returns ErrNoFuel without touching the rocket when the tank is empty.
func (r *Rocket) Steer(dir SteerDirection, dt float64) error {
	if r.Empty() {
		return ErrNoFuel
	}
	thrust := r.EffectiveThrust()
	r.burn(dt)
	r.Body.Step(dir.Vector().Scale(thrust), dt)
	return nil
}

func (r *Rocket) burn(dt float64) {
	r.FuelMass -= r.FuelConsumption * dt
}
