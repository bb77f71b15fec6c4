package engine

import (
	"math"

	"github.com/opd-ai/go-moonmission/pkg/entity"
	"github.com/opd-ai/go-moonmission/pkg/physics"
	"gonum.org/v1/gonum/floats"
)

// Trajectory holds one predicted position per step for each body, plus
// the rocket's remaining fuel. All slices always have the same length.
type Trajectory struct {
	Earth  []physics.Vector2D
	Moon   []physics.Vector2D
	Rocket []physics.Vector2D
	Fuel   []float64
}

// Len returns the number of recorded steps
func (t Trajectory) Len() int {
	return len(t.Rocket)
}

// Empty reports whether no step was recorded
func (t Trajectory) Empty() bool {
	return t.Len() == 0
}

// Clone returns a deep copy
func (t Trajectory) Clone() Trajectory {
	return Trajectory{
		Earth:  clonePath(t.Earth),
		Moon:   clonePath(t.Moon),
		Rocket: clonePath(t.Rocket),
		Fuel:   cloneSeries(t.Fuel),
	}
}

// Of returns the path of the body with the given id
func (t Trajectory) Of(id entity.ID) []physics.Vector2D {
	switch id {
	case entity.EarthID:
		return t.Earth
	case entity.MoonID:
		return t.Moon
	case entity.RocketID:
		return t.Rocket
	}
	return nil
}

// Last returns the final recorded position of a body
func (t Trajectory) Last(id entity.ID) (physics.Vector2D, bool) {
	path := t.Of(id)
	if len(path) == 0 {
		return physics.Vector2D{}, false
	}
	return path[len(path)-1], true
}

// FinalFuel returns the rocket's fuel after the last recorded step
func (t Trajectory) FinalFuel() (float64, bool) {
	if len(t.Fuel) == 0 {
		return 0, false
	}
	return t.Fuel[len(t.Fuel)-1], true
}

// Distances returns the separation of two bodies at every step
func (t Trajectory) Distances(a, b entity.ID) []float64 {
	pa, pb := t.Of(a), t.Of(b)
	n := min(len(pa), len(pb))
	out := make([]float64, n)
	for i := range n {
		out[i] = pa[i].Distance(pb[i])
	}
	return out
}

// ClosestApproach returns the smallest separation of two bodies and the
// step index where it occurs. An empty trajectory yields +Inf and -1.
func (t Trajectory) ClosestApproach(a, b entity.ID) (distance float64, step int) {
	d := t.Distances(a, b)
	if len(d) == 0 {
		return math.Inf(1), -1
	}
	step = floats.MinIdx(d)
	return d[step], step
}

// DistanceRange returns the minimum and maximum separation of two bodies.
// Both are zero for an empty trajectory.
func (t Trajectory) DistanceRange(a, b entity.ID) (lo, hi float64) {
	d := t.Distances(a, b)
	if len(d) == 0 {
		return 0, 0
	}
	return floats.Min(d), floats.Max(d)
}

func (t *Trajectory) record(s PhysicsState) {
	t.Earth = append(t.Earth, s.Earth.GetPosition())
	t.Moon = append(t.Moon, s.Moon.GetPosition())
	t.Rocket = append(t.Rocket, s.Rocket.GetPosition())
	t.Fuel = append(t.Fuel, s.Rocket.FuelMass)
}

func clonePath(path []physics.Vector2D) []physics.Vector2D {
	if path == nil {
		return nil
	}
	out := make([]physics.Vector2D, len(path))
	copy(out, path)
	return out
}

func cloneSeries(series []float64) []float64 {
	if series == nil {
		return nil
	}
	out := make([]float64, len(series))
	copy(out, series)
	return out
}
