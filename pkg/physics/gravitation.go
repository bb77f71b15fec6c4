// pkg/physics/gravitation.go
package physics

import "math"

// G is the gravitational constant in simulation units. With planet masses
// near 1.0 and distances in the low hundreds it gives orbital periods of a
// few hundred to a few thousand steps.
const G = 9.8e-3 * 6.4e3

// MinSeparation is the distance below which two bodies are treated as
// coincident and exert no force on each other.
const MinSeparation = 1e-12

// AttractionMagnitude returns G*M/d² for the attractor acting on body, or 0
// when the two coincide.
func AttractionMagnitude(body, attractor Body) float64 {
	d := body.Position.Distance(attractor.Position)
	if d < MinSeparation {
		return 0
	}
	return G * attractor.Mass / (d * d)
}

// AttractionAcceleration returns the acceleration the attractor imparts on
// body, directed from body toward attractor. ok is false for coincident
// bodies, including a body paired with itself.
func AttractionAcceleration(body, attractor Body) (accel Vector2D, ok bool) {
	dir, ok := Direction(body.Position, attractor.Position)
	if !ok {
		return Vector2D{}, false
	}
	return dir.Scale(AttractionMagnitude(body, attractor)), true
}

// NetAcceleration sums the attraction of every attractor on body, skipping
// coincident pairs.
func NetAcceleration(body Body, attractors ...Body) Vector2D {
	var total Vector2D
	for _, a := range attractors {
		if accel, ok := AttractionAcceleration(body, a); ok {
			total.AddAssign(accel)
		}
	}
	return total
}

// OrbitalSpeed returns the circular orbit speed at radius around a central
// mass.
func OrbitalSpeed(centralMass, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return math.Sqrt(G * centralMass / radius)
}

// OrbitalPeriod returns the period of a circular orbit at radius, in
// simulation time units.
func OrbitalPeriod(centralMass, radius float64) float64 {
	speed := OrbitalSpeed(centralMass, radius)
	if speed == 0 {
		return 0
	}
	return 2 * math.Pi * radius / speed
}
