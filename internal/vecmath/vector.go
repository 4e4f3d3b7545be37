// Package vecmath provides the small 3D vector type used by the particle engine.
package vecmath

import "math"

type Vector3 struct {
	X, Y, Z float64
}

var (
	Zero = Vector3{}
	Up   = Vector3{Y: 1}
)

func New(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// AddScaled returns v + o*s.
func (v Vector3) AddScaled(o Vector3, s float64) Vector3 {
	return Vector3{v.X + o.X*s, v.Y + o.Y*s, v.Z + o.Z*s}
}

func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3) Invert() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

func (v Vector3) SquareMagnitude() float64 {
	return v.Dot(v)
}

func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.SquareMagnitude())
}

// Normalize returns the unit vector in the direction of v, or v itself when
// it has zero length.
func (v Vector3) Normalize() Vector3 {
	m := v.Magnitude()
	if m == 0 {
		return v
	}
	return v.Scale(1 / m)
}

func (v Vector3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
