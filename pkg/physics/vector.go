// pkg/physics/vector.go
package physics

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// Epsilon is the absolute tolerance used for vector equality and for the
// degenerate-angle guards.
const Epsilon = 1e-9

// Vector2D represents a 2D vector with x and y components
type Vector2D struct {
	X float64
	Y float64
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Div divides the vector by a scalar value
func (v Vector2D) Div(divisor float64) Vector2D {
	return Vector2D{
		X: v.X / divisor,
		Y: v.Y / divisor,
	}
}

// Transform applies a 2x2 matrix to the vector (m * v).
// Matrices of any other shape panic, as in gonum.
func (v Vector2D) Transform(m mat.Matrix) Vector2D {
	return Vector2D{
		X: v.X*m.At(0, 0) + v.Y*m.At(0, 1),
		Y: v.X*m.At(1, 0) + v.Y*m.At(1, 1),
	}
}

// AddAssign adds other to v in place
func (v *Vector2D) AddAssign(other Vector2D) {
	v.X += other.X
	v.Y += other.Y
}

// SubAssign subtracts other from v in place
func (v *Vector2D) SubAssign(other Vector2D) {
	v.X -= other.X
	v.Y -= other.Y
}

// ScaleAssign multiplies v by factor in place
func (v *Vector2D) ScaleAssign(factor float64) {
	v.X *= factor
	v.Y *= factor
}

// DivAssign divides v by divisor in place
func (v *Vector2D) DivAssign(divisor float64) {
	v.X /= divisor
	v.Y /= divisor
}

// TransformAssign applies a 2x2 matrix to v in place
func (v *Vector2D) TransformAssign(m mat.Matrix) {
	*v = v.Transform(m)
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector2D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector in the same direction
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{
		X: v.X / length,
		Y: v.Y / length,
	}
}

// Distance returns the distance between two vectors
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// Heading returns the angle of the vector in radians
func (v Vector2D) Heading() float64 {
	return math.Atan2(v.Y, v.X)
}

// Dot returns the dot product of two vectors
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Rotate rotates the vector around the origin by angle (in radians)
func (v Vector2D) Rotate(angle float64) Vector2D {
	return v.Transform(RotationMatrix(angle))
}

// RotateAround rotates the point v around pivot by angle (in radians)
func (v Vector2D) RotateAround(pivot Vector2D, angle float64) Vector2D {
	return v.Sub(pivot).Rotate(angle).Add(pivot)
}

// Equal reports whether both components are within Epsilon of other
func (v Vector2D) Equal(other Vector2D) bool {
	return scalar.EqualWithinAbs(v.X, other.X, Epsilon) &&
		scalar.EqualWithinAbs(v.Y, other.Y, Epsilon)
}

// IsFinite reports whether neither component is NaN or infinite
func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// FromAngle creates a vector from an angle and magnitude
func FromAngle(angle float64, magnitude float64) Vector2D {
	return Vector2D{
		X: magnitude * math.Cos(angle),
		Y: magnitude * math.Sin(angle),
	}
}

// RotationMatrix builds the counter-clockwise rotation [[cos,-sin],[sin,cos]].
func RotationMatrix(theta float64) *mat.Dense {
	sin, cos := math.Sincos(theta)
	return mat.NewDense(2, 2, []float64{
		cos, -sin,
		sin, cos,
	})
}

// Distance returns the distance between a and b
func Distance(a, b Vector2D) float64 {
	return a.Distance(b)
}

// Direction returns the unit vector pointing from a to b. ok is false when
// the two points coincide and no direction exists.
func Direction(a, b Vector2D) (dir Vector2D, ok bool) {
	rel := b.Sub(a)
	length := rel.Length()
	if length < MinSeparation {
		return Vector2D{}, false
	}
	return rel.Div(length), true
}

// Dot returns the dot product of a and b
func Dot(a, b Vector2D) float64 {
	return a.Dot(b)
}

// Angle returns the unsigned angle between a and b in radians.
// Near-zero operands and near-parallel operands yield 0 instead of NaN.
func Angle(a, b Vector2D) float64 {
	aLen := a.Length()
	bLen := b.Length()
	if aLen < Epsilon || bLen < Epsilon {
		return 0
	}
	cos := Dot(a, b) / aLen / bLen
	if scalar.EqualWithinAbs(cos, 1, Epsilon) {
		return 0
	}
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}
