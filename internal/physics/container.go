package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/hexbounce/internal/geom"
)

const (
	DefaultSides        = 6
	DefaultShakeK       = 40.0
	DefaultShakeD       = 8.0
	DefaultShakeImpulse = 500.0

	// restThreshold gates the snap-to-rest check before integration.
	restThreshold = 1e-4
	// settleThreshold ends an active shake after integration.
	settleThreshold = 1e-2
)

// Rand is the randomness a World needs. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Container is a regular polygon that can be shaken. Its offset follows a
// damped spring back to rest: a = -K·offset - D·velocity.
type Container struct {
	Center     geom.Vec2
	Radius     float64
	Sides      int
	StartAngle float64

	// Vertices and Edges always describe the polygon at Center+Offset.
	Vertices []geom.Vec2
	Edges    []geom.Edge

	Offset       geom.Vec2
	Velocity     geom.Vec2
	Acceleration geom.Vec2
	Active       bool

	K       float64
	D       float64
	Impulse float64

	builtAt geom.Vec2
}

// NewContainer returns a resting container with the default spring constants.
func NewContainer(center geom.Vec2, radius float64, sides int) *Container {
	c := &Container{
		Center:     center,
		Radius:     radius,
		Sides:      sides,
		StartAngle: geom.DefaultStartAngle,
		K:          DefaultShakeK,
		D:          DefaultShakeD,
		Impulse:    DefaultShakeImpulse,
	}
	c.rebuild()
	return c
}

func (c *Container) Validate() error {
	if c.Sides < 3 {
		return fmt.Errorf("%w: container needs at least 3 sides, got %d", ErrParameterBounds, c.Sides)
	}
	if c.Radius <= 0 {
		return fmt.Errorf("%w: container radius %g must be positive", ErrParameterBounds, c.Radius)
	}
	if c.K <= 0 {
		return fmt.Errorf("%w: shake stiffness %g must be positive", ErrParameterBounds, c.K)
	}
	if c.D < 0 || c.Impulse < 0 {
		return fmt.Errorf("%w: shake damping and impulse must be non-negative", ErrParameterBounds)
	}
	return nil
}

// Origin is the centre of the polygon as currently placed.
func (c *Container) Origin() geom.Vec2 {
	return geom.Add(c.Center, c.Offset)
}

// AtRest reports whether the container sits exactly at its nominal position.
func (c *Container) AtRest() bool {
	return !c.Active && geom.IsZero(c.Offset) && geom.IsZero(c.Velocity)
}

// Update advances the shake dynamics by dt with forward Euler and rebuilds
// the geometry at the new offset.
func (c *Container) Update(dt float64) {
	if !c.Active && geom.Length(c.Velocity) < restThreshold && geom.Length(c.Offset) < restThreshold {
		c.settle()
		c.rebuild()
		return
	}

	c.Acceleration = geom.Sub(geom.Scale(c.Offset, -c.K), geom.Scale(c.Velocity, c.D))
	c.Velocity = geom.Add(c.Velocity, geom.Scale(c.Acceleration, dt))
	c.Offset = geom.Add(c.Offset, geom.Scale(c.Velocity, dt))

	if geom.Length(c.Velocity) < settleThreshold && geom.Length(c.Offset) < settleThreshold {
		c.Active = false
		c.settle()
	}
	c.rebuild()
}

// ShakeBurst kicks the container with Impulse·max(0, magnitude) in a
// uniformly random direction and marks it active.
func (c *Container) ShakeBurst(magnitude float64, rng Rand) {
	ang := rng.Float64() * 2 * math.Pi
	v := c.Impulse * math.Max(0, magnitude)
	c.Velocity = geom.Add(c.Velocity, geom.Scale(geom.FromAngle(ang), v))
	c.Active = true
}

// Reset puts the container back at rest.
func (c *Container) Reset() {
	c.Active = false
	c.settle()
	c.rebuild()
}

func (c *Container) settle() {
	c.Offset = geom.Zero
	c.Velocity = geom.Zero
	c.Acceleration = geom.Zero
}

func (c *Container) rebuild() {
	origin := c.Origin()
	if c.Vertices != nil && origin == c.builtAt {
		return
	}
	c.Vertices = geom.RegularPolygon(origin, c.Radius, c.Sides, c.StartAngle)
	c.Edges = geom.BuildEdges(c.Vertices)
	c.builtAt = origin
}

// Reshape changes the polygon's size or side count and rebuilds it.
func (c *Container) Reshape(radius float64, sides int) {
	c.Radius = radius
	c.Sides = sides
	c.Vertices = nil
	c.rebuild()
}
