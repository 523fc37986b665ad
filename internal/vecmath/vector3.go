package vecmath

// Vector3 is a 3D vector.
type Vector3 struct {
	X, Y, Z float32
}

var (
	Vector3Zero    = Vector3{}
	Vector3Up      = Vector3{0, 1, 0}
	Vector3Down    = Vector3{0, -1, 0}
	Vector3Left    = Vector3{-1, 0, 0}
	Vector3Right   = Vector3{1, 0, 0}
	Vector3Forward = Vector3{0, 0, 1}
	Vector3Back    = Vector3{0, 0, -1}
)

func Vec3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Vector3From2 extends a 2D vector with a Z component.
func Vector3From2(v Vector2, z float32) Vector3 {
	return Vector3{v.X, v.Y, z}
}

// Vector3FromArray builds a vector from its components in X, Y, Z order.
func Vector3FromArray(v [3]float32) Vector3 {
	return Vector3{v[0], v[1], v[2]}
}

func (v Vector3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// XY drops the Z component.
func (v Vector3) XY() Vector2 {
	return Vector2{v.X, v.Y}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Neg() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Equal reports whether every component differs from o by less than Epsilon.
func (v Vector3) Equal(o Vector3) bool {
	return abs(v.X-o.X) < Epsilon &&
		abs(v.Y-o.Y) < Epsilon &&
		abs(v.Z-o.Z) < Epsilon
}

func (v Vector3) Dot(o Vector3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) LengthSqr() float32 {
	return v.Dot(v)
}

func (v Vector3) Length() float32 {
	return sqrt(v.LengthSqr())
}

func (v Vector3) DistanceSqr(o Vector3) float32 {
	return v.Sub(o).LengthSqr()
}

func (v Vector3) Distance(o Vector3) float32 {
	return sqrt(v.DistanceSqr(o))
}

// Normalize returns v scaled to unit length. The zero vector stays zero.
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vector3{v.X / l, v.Y / l, v.Z / l}
}

// Reflect mirrors v about the surface with the given unit normal.
func (v Vector3) Reflect(normal Vector3) Vector3 {
	return v.Sub(normal.Scale(2 * v.Dot(normal)))
}

// Angle returns the angle between v and o in radians, or NaN when either
// vector is zero.
func (v Vector3) Angle(o Vector3) float32 {
	return angle(v.Dot(o), v.LengthSqr(), o.LengthSqr())
}
