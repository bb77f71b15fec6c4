// pkg/entity/planet.go
package entity

import (
	"github.com/opd-ai/go-moonmission/pkg/physics"
)

// Planet is a passive gravitating body. Its radius is only used for
// proximity checks and never constrains integration.
type Planet struct {
	ID     ID
	Body   physics.Body
	Radius float64
}

// NewPlanet creates a planet with the given mass and radius
func NewPlanet(id ID, mass, radius float64, position, velocity physics.Vector2D) Planet {
	return Planet{
		ID:     id,
		Body:   physics.NewBody(mass, position, velocity),
		Radius: radius,
	}
}

// GetID returns the planet's identifier
func (p Planet) GetID() ID { return p.ID }

// GetPosition returns the planet's position
func (p Planet) GetPosition() physics.Vector2D { return p.Body.Position }

// GetCollider returns the planet's proximity circle
func (p Planet) GetCollider() physics.Circle {
	return physics.Circle{Center: p.Body.Position, Radius: p.Radius}
}

// Mass returns the planet's gravitating mass
func (p Planet) Mass() float64 { return p.Body.Mass }

// Velocity returns the planet's velocity
func (p Planet) Velocity() physics.Vector2D { return p.Body.Velocity }

// Orientation returns the planet's heading
func (p Planet) Orientation() physics.Vector2D { return p.Body.Orientation }

// Contains reports whether position lies inside the planet's radius
func (p Planet) Contains(position physics.Vector2D) bool {
	return p.GetCollider().Contains(position)
}

// Update integrates the planet one step under an external acceleration
func (p *Planet) Update(acceleration physics.Vector2D, dt float64) {
	p.Body.Step(acceleration, dt)
}
