package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-8

// Vec2 is a 2D vector. It is a plain [2]float64 so it copies by value.
type Vec2 = mgl64.Vec2

// Zero is the origin.
var Zero = Vec2{}

func V(x, y float64) Vec2 { return Vec2{x, y} }

func Add(a, b Vec2) Vec2 { return a.Add(b) }

func Sub(a, b Vec2) Vec2 { return a.Sub(b) }

func Scale(a Vec2, s float64) Vec2 { return a.Mul(s) }

func Dot(a, b Vec2) float64 { return a.Dot(b) }

// Length uses math.Hypot rather than Len to avoid overflow on large components.
func Length(a Vec2) float64 { return math.Hypot(a[0], a[1]) }

// Normalize returns the unit vector along a, or the zero vector when a is
// shorter than Epsilon.
func Normalize(a Vec2) Vec2 {
	l := Length(a)
	if l <= Epsilon {
		return Zero
	}
	return Vec2{a[0] / l, a[1] / l}
}

// IsZero reports whether both components are exactly zero.
func IsZero(a Vec2) bool { return a[0] == 0 && a[1] == 0 }

// FromAngle returns the unit vector at angle rad (radians, measured from +x).
func FromAngle(rad float64) Vec2 {
	s, c := math.Sincos(rad)
	return Vec2{c, s}
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// IsFinite reports whether neither component is NaN or Inf.
func IsFinite(a Vec2) bool {
	for _, v := range a {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
