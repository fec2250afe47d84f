package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/hexbounce/internal/geom"
)

// StepStats counts what happened during the most recent Step.
type StepStats struct {
	WallHits   int
	VertexHits int
	PairHits   int
	Snaps      int
	Stalls     int
}

// Contacts is the total number of wall, vertex and pair contacts.
func (s StepStats) Contacts() int {
	return s.WallHits + s.VertexHits + s.PairHits
}

// World owns a container and a fixed set of bodies.
type World struct {
	Params    Params
	Container *Container
	Bodies    []Body

	Time  float64
	Steps int

	rng   Rand
	stats StepStats
}

// NewWorld returns a world with no bodies. rng drives shake directions and
// the coincident-centre fallback; pass a seeded source for reproducible runs.
func NewWorld(params Params, container *Container, rng Rand) *World {
	return &World{
		Params:    params,
		Container: container,
		rng:       rng,
	}
}

func (w *World) Validate() error {
	if err := w.Params.Validate(); err != nil {
		return err
	}
	return w.Container.Validate()
}

// Step advances the simulation by dt seconds. Negative dt is treated as zero.
//
// Pairs are resolved after the wall pass, so with more than one body a pair
// correction can leave a body slightly past a wall until the next step. Only
// a lone body is guaranteed to end every step fully inside.
func (w *World) Step(dt float64) {
	if dt < 0 {
		dt = 0
	}
	w.stats = StepStats{}
	c := w.Container

	c.Update(dt)

	// In the container's frame its acceleration reads as extra gravity.
	g := geom.Sub(w.Params.Gravity, c.Acceleration)
	decay := 1.0
	if w.Params.Damping > 0 {
		decay = math.Max(0, 1-w.Params.Damping*dt)
	}

	for i := range w.Bodies {
		b := &w.Bodies[i]
		b.Vel = geom.Add(b.Vel, geom.Scale(g, dt))
		if w.Params.Damping > 0 {
			b.Vel = geom.Scale(b.Vel, decay)
		}
		b.Pos = geom.Add(b.Pos, geom.Scale(b.Vel, dt))
	}

	for i := range w.Bodies {
		b := &w.Bodies[i]
		for _, e := range c.Edges {
			switch ResolveEdge(b, e, c.Velocity, w.Params.WallRestitution, w.Params.Friction) {
			case HitSide:
				w.stats.WallHits++
			case HitVertex:
				w.stats.VertexHits++
			}
		}
		w.stats.Snaps += SnapInside(b, c.Edges)
	}

	n := len(w.Bodies)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if ResolvePair(&w.Bodies[i], &w.Bodies[j], w.Params.BodyRestitution, w.rng) {
				w.stats.PairHits++
			}
		}
	}

	for i := range w.Bodies {
		b := &w.Bodies[i]
		if b.Speed() < w.Params.StallSpeed {
			toCenter := geom.Normalize(geom.Sub(c.Center, b.Pos))
			b.Vel = geom.Add(b.Vel, geom.Scale(toCenter, w.Params.StallNudge))
			w.stats.Stalls++
		}
	}

	w.Time += dt
	w.Steps++
}

// Shake triggers a container burst. magnitude 1 is the standard kick.
func (w *World) Shake(magnitude float64) {
	w.Container.ShakeBurst(magnitude, w.rng)
}

func (w *World) LastStats() StepStats { return w.stats }

// KineticEnergy is the sum of ½·m·|v|² over all bodies.
func (w *World) KineticEnergy() float64 {
	ke := 0.0
	for i := range w.Bodies {
		ke += w.Bodies[i].KineticEnergy()
	}
	return ke
}

// MaxPenetration returns the largest r - s over all bodies and edges.
// A value ≤ 0 means every body lies fully inside the container.
func (w *World) MaxPenetration() float64 {
	worst := math.Inf(-1)
	for i := range w.Bodies {
		b := &w.Bodies[i]
		for _, e := range w.Container.Edges {
			if p := b.Radius - e.SignedDistance(b.Pos); p > worst {
				worst = p
			}
		}
	}
	return worst
}

// Snapshot returns a copy of the bodies safe to hand to a renderer.
func (w *World) Snapshot() []Body {
	out := make([]Body, len(w.Bodies))
	copy(out, w.Bodies)
	return out
}

// CheckState returns ErrInvalidState if any body has a non-finite component.
func (w *World) CheckState() error {
	for i := range w.Bodies {
		if !w.Bodies[i].IsValid() {
			return fmt.Errorf("%w: body %d", ErrInvalidState, i)
		}
	}
	return nil
}

func (w *World) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity_y": w.Params.Gravity[1],
		"wall_e":    w.Params.WallRestitution,
		"body_e":    w.Params.BodyRestitution,
		"friction":  w.Params.Friction,
		"damping":   w.Params.Damping,
		"shake_k":   w.Container.K,
		"shake_d":   w.Container.D,
		"impulse":   w.Container.Impulse,
	}
}

// SetParam updates one tunable by name. The world is unchanged on error.
func (w *World) SetParam(name string, value float64) error {
	p := w.Params
	c := *w.Container
	switch name {
	case "gravity_y":
		p.Gravity[1] = value
	case "wall_e":
		p.WallRestitution = value
	case "body_e":
		p.BodyRestitution = value
	case "friction":
		p.Friction = value
	case "damping":
		p.Damping = value
	case "shake_k":
		c.K = value
	case "shake_d":
		c.D = value
	case "impulse":
		c.Impulse = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	w.Params = p
	w.Container.K, w.Container.D, w.Container.Impulse = c.K, c.D, c.Impulse
	return nil
}
