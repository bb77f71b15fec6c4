// pkg/engine/state.go
package engine

import (
	"github.com/opd-ai/go-moonmission/pkg/config"
	"github.com/opd-ai/go-moonmission/pkg/entity"
	"github.com/opd-ai/go-moonmission/pkg/physics"
	"gonum.org/v1/gonum/floats/scalar"
)

// PhysicsState is the complete simulated world. It holds values only, so
// assigning a PhysicsState produces an independent snapshot.
type PhysicsState struct {
	Earth  entity.Planet
	Moon   entity.Planet
	Rocket entity.Rocket
}

// NewPhysicsState builds the initial conditions described by cfg: the earth
// at rest, the moon and the rocket on circular orbits around it.
func NewPhysicsState(cfg *config.Config) PhysicsState {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	earthPos := physics.Vector2D{X: cfg.Earth.X, Y: cfg.Earth.Y}
	earth := entity.NewPlanet(entity.EarthID, cfg.Earth.Mass, cfg.Earth.Radius, earthPos, physics.Vector2D{})

	moonOffset := physics.Vector2D{X: cfg.Moon.X, Y: cfg.Moon.Y}
	moonSpeed := physics.OrbitalSpeed(cfg.Earth.Mass, moonOffset.Length())
	// counter-clockwise tangent of the offset
	moonVel := physics.Vector2D{X: -moonOffset.Y, Y: moonOffset.X}.Normalize().Scale(moonSpeed)
	moon := entity.NewPlanet(entity.MoonID, cfg.Moon.Mass, cfg.Moon.Radius, earthPos.Add(moonOffset), moonVel)

	rocket := entity.NewRocket(entity.RocketSpec{
		BodyMass:        cfg.Rocket.BodyMass,
		EngineMass:      cfg.Rocket.EngineMass,
		FuelMass:        cfg.Rocket.FuelMass,
		Thrust:          cfg.Rocket.Thrust,
		FuelConsumption: cfg.Rocket.FuelConsumption,
		Position:        earthPos.Add(physics.Vector2D{X: 0, Y: -cfg.Rocket.Altitude}),
		Velocity:        physics.Vector2D{X: physics.OrbitalSpeed(cfg.Earth.Mass, cfg.Rocket.Altitude), Y: 0},
	})

	return PhysicsState{Earth: earth, Moon: moon, Rocket: rocket}
}

// Entities returns the three bodies in id order
func (s PhysicsState) Entities() []entity.Entity {
	return []entity.Entity{s.Earth, s.Moon, s.Rocket}
}

// Position returns the position of the body with the given id
func (s PhysicsState) Position(id entity.ID) (physics.Vector2D, bool) {
	switch id {
	case entity.EarthID:
		return s.Earth.GetPosition(), true
	case entity.MoonID:
		return s.Moon.GetPosition(), true
	case entity.RocketID:
		return s.Rocket.GetPosition(), true
	}
	return physics.Vector2D{}, false
}

// Positions returns every body's position keyed by id
func (s PhysicsState) Positions() map[entity.ID]physics.Vector2D {
	return map[entity.ID]physics.Vector2D{
		entity.EarthID:  s.Earth.GetPosition(),
		entity.MoonID:   s.Moon.GetPosition(),
		entity.RocketID: s.Rocket.GetPosition(),
	}
}

// Equal reports whether both states match within physics.Epsilon
func (s PhysicsState) Equal(other PhysicsState) bool {
	return bodyEqual(s.Earth.Body, other.Earth.Body) &&
		bodyEqual(s.Moon.Body, other.Moon.Body) &&
		bodyEqual(s.Rocket.Body, other.Rocket.Body) &&
		scalar.EqualWithinAbs(s.Rocket.FuelMass, other.Rocket.FuelMass, physics.Epsilon)
}

// IsFinite reports whether no position or velocity has become NaN or infinite
func (s PhysicsState) IsFinite() bool {
	for _, b := range []physics.Body{s.Earth.Body, s.Moon.Body, s.Rocket.Body} {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			return false
		}
	}
	return true
}

func bodyEqual(a, b physics.Body) bool {
	return scalar.EqualWithinAbs(a.Mass, b.Mass, physics.Epsilon) &&
		a.Position.Equal(b.Position) &&
		a.Velocity.Equal(b.Velocity) &&
		a.Orientation.Equal(b.Orientation)
}
