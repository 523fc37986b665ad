// Package vecmath provides small fixed-size float32 vectors for graphics code.
//
// Equal compares with a tolerance of Epsilon per component, while the
// built-in == and != operators compare components exactly. Both are
// intentional: Equal absorbs rounding error, != detects any change at all.
package vecmath

import "math"

// Epsilon is the per-component tolerance used by Equal.
const Epsilon = 1e-7

// Vector2 is a 2D vector.
type Vector2 struct {
	X, Y float32
}

var (
	Vector2Zero  = Vector2{}
	Vector2Up    = Vector2{0, 1}
	Vector2Down  = Vector2{0, -1}
	Vector2Left  = Vector2{-1, 0}
	Vector2Right = Vector2{1, 0}
)

func Vec2(x, y float32) Vector2 {
	return Vector2{X: x, Y: y}
}

// Vector2FromArray builds a vector from its components in X, Y order.
func Vector2FromArray(v [2]float32) Vector2 {
	return Vector2{v[0], v[1]}
}

func (v Vector2) Array() [2]float32 {
	return [2]float32{v.X, v.Y}
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{v.X + o.X, v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{v.X - o.X, v.Y - o.Y}
}

func (v Vector2) Neg() Vector2 {
	return Vector2{-v.X, -v.Y}
}

func (v Vector2) Scale(s float32) Vector2 {
	return Vector2{v.X * s, v.Y * s}
}

// Equal reports whether every component differs from o by less than Epsilon.
func (v Vector2) Equal(o Vector2) bool {
	return abs(v.X-o.X) < Epsilon && abs(v.Y-o.Y) < Epsilon
}

func (v Vector2) Dot(o Vector2) float32 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vector2) LengthSqr() float32 {
	return v.Dot(v)
}

func (v Vector2) Length() float32 {
	return sqrt(v.LengthSqr())
}

func (v Vector2) DistanceSqr(o Vector2) float32 {
	return v.Sub(o).LengthSqr()
}

func (v Vector2) Distance(o Vector2) float32 {
	return sqrt(v.DistanceSqr(o))
}

// Normalize returns v scaled to unit length. The zero vector stays zero.
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vector2{v.X / l, v.Y / l}
}

// Reflect mirrors v about the surface with the given unit normal.
func (v Vector2) Reflect(normal Vector2) Vector2 {
	return v.Sub(normal.Scale(2 * v.Dot(normal)))
}

// Angle returns the angle between v and o in radians, or NaN when either
// vector is zero.
func (v Vector2) Angle(o Vector2) float32 {
	return angle(v.Dot(o), v.LengthSqr(), o.LengthSqr())
}

func abs(f float32) float32 {
	return float32(math.Abs(float64(f)))
}

func sqrt(f float32) float32 {
	return float32(math.Sqrt(float64(f)))
}

func angle(dot, lenSqrA, lenSqrB float32) float32 {
	denom := math.Sqrt(float64(lenSqrA) * float64(lenSqrB))
	if denom == 0 {
		return float32(math.NaN())
	}
	cos := float64(dot) / denom
	// Rounding can push parallel vectors just outside acos's domain.
	cos = math.Max(-1, math.Min(1, cos))
	return float32(math.Acos(cos))
}
