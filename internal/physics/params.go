package physics

import (
	"fmt"

	"github.com/san-kum/hexbounce/internal/geom"
)

const (
	DefaultWallRestitution = 0.5
	DefaultBodyRestitution = 0.9
	DefaultFriction        = 0.02
	DefaultStallSpeed      = 12.0
	DefaultStallNudge      = 16.0

	// ContactSlop is added to every edge correction so bodies end just clear of the wall.
	ContactSlop = 0.001
	// SnapMargin is how far inside SnapInside places a body that crossed an edge.
	SnapMargin = 0.1
)

// DefaultGravity points down the screen in px/s².
var DefaultGravity = geom.V(0, 900)

// Params holds the world-wide physical constants.
type Params struct {
	Gravity         geom.Vec2
	WallRestitution float64
	BodyRestitution float64
	// Friction scales the tangential velocity by (1 - Friction) on wall contact.
	Friction float64
	// Damping is a global velocity decay rate in 1/s. Zero disables it.
	Damping float64
	// Bodies slower than StallSpeed get StallNudge px/s toward the container centre.
	StallSpeed float64
	StallNudge float64
}

func DefaultParams() Params {
	return Params{
		Gravity:         DefaultGravity,
		WallRestitution: DefaultWallRestitution,
		BodyRestitution: DefaultBodyRestitution,
		Friction:        DefaultFriction,
		StallSpeed:      DefaultStallSpeed,
		StallNudge:      DefaultStallNudge,
	}
}

func (p Params) Validate() error {
	if p.WallRestitution < 0 || p.WallRestitution > 1 {
		return fmt.Errorf("%w: wall restitution %g not in [0, 1]", ErrParameterBounds, p.WallRestitution)
	}
	if p.BodyRestitution < 0 || p.BodyRestitution > 1 {
		return fmt.Errorf("%w: body restitution %g not in [0, 1]", ErrParameterBounds, p.BodyRestitution)
	}
	if p.Friction < 0 || p.Friction > 1 {
		return fmt.Errorf("%w: friction %g not in [0, 1]", ErrParameterBounds, p.Friction)
	}
	if p.Damping < 0 {
		return fmt.Errorf("%w: damping %g is negative", ErrParameterBounds, p.Damping)
	}
	if p.StallSpeed < 0 || p.StallNudge < 0 {
		return fmt.Errorf("%w: stall speed and nudge must be non-negative", ErrParameterBounds)
	}
	if !geom.IsFinite(p.Gravity) {
		return fmt.Errorf("%w: gravity is not finite", ErrParameterBounds)
	}
	return nil
}
