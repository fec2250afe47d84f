package physics

import (
	"math"

	"github.com/san-kum/hexbounce/internal/geom"
)

// Color is an opaque RGB triple carried for renderers. It has no physical role.
type Color struct {
	R, G, B uint8
}

// Palette is the set of colours the seeder draws from.
var Palette = []Color{
	{240, 80, 80}, {80, 200, 120}, {80, 160, 240}, {230, 180, 70},
	{200, 100, 220}, {60, 220, 200}, {240, 120, 160}, {150, 150, 255}, {255, 140, 90},
}

// Body is a non-rotating circle.
type Body struct {
	Pos    geom.Vec2
	Vel    geom.Vec2
	Radius float64
	Color  Color
}

// Mass is the effective mass max(1, r²); larger circles resist impulses more.
func (b *Body) Mass() float64 {
	return math.Max(1.0, b.Radius*b.Radius)
}

func (b *Body) InvMass() float64 {
	return 1.0 / b.Mass()
}

func (b *Body) Speed() float64 {
	return geom.Length(b.Vel)
}

func (b *Body) KineticEnergy() float64 {
	v := b.Speed()
	return 0.5 * b.Mass() * v * v
}

// IsValid reports whether position and velocity are finite.
func (b *Body) IsValid() bool {
	return geom.IsFinite(b.Pos) && geom.IsFinite(b.Vel)
}
