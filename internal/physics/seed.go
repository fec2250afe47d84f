package physics

import (
	"math"

	"github.com/san-kum/hexbounce/internal/geom"
)

// DefaultMaxAttempts bounds the rejection sampler.
const DefaultMaxAttempts = 5000

// SeedOptions controls how bodies are scattered inside the container.
type SeedOptions struct {
	Count       int
	MinRadius   float64
	MaxRadius   float64
	Margin      float64
	MaxAttempts int
	// Initial velocity components are drawn uniformly from these ranges.
	VelX [2]float64
	VelY [2]float64
}

func DefaultSeedOptions(count int) SeedOptions {
	return SeedOptions{
		Count:       count,
		MinRadius:   9,
		MaxRadius:   16,
		Margin:      2,
		MaxAttempts: DefaultMaxAttempts,
		VelX:        [2]float64{-120, 120},
		VelY:        [2]float64{-60, 0},
	}
}

// SeedResult reports how the placement went. Placed < Requested is a soft
// failure: the sampler ran out of attempts and the caller decides what to do.
type SeedResult struct {
	Requested int
	Placed    int
	Attempts  int
}

func (r SeedResult) Complete() bool { return r.Placed >= r.Requested }

// Seed places up to opts.Count non-overlapping bodies inside c by rejection
// sampling. Candidates must clear every edge by their radius plus Margin and
// every accepted body by the sum of radii plus Margin.
func Seed(c *Container, opts SeedOptions, rng Rand) ([]Body, SeedResult) {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	res := SeedResult{Requested: opts.Count}
	bodies := make([]Body, 0, max(opts.Count, 0))

	for len(bodies) < opts.Count && res.Attempts < maxAttempts {
		res.Attempts++

		rad := uniform(rng, opts.MinRadius, opts.MaxRadius)
		ang := uniform(rng, 0, 2*math.Pi)
		rr := uniform(rng, 0, math.Max(0, c.Radius-rad))
		p := geom.Add(c.Center, geom.Scale(geom.FromAngle(ang), rr))

		if !geom.Inside(c.Edges, p, rad+opts.Margin) {
			continue
		}
		if overlapsAny(bodies, p, rad, opts.Margin) {
			continue
		}

		v := geom.V(uniform(rng, opts.VelX[0], opts.VelX[1]), uniform(rng, opts.VelY[0], opts.VelY[1]))
		bodies = append(bodies, Body{
			Pos:    p,
			Vel:    v,
			Radius: rad,
			Color:  pickColor(rng),
		})
	}

	res.Placed = len(bodies)
	return bodies, res
}

// Populate replaces the world's bodies with a freshly seeded set.
func (w *World) Populate(opts SeedOptions) SeedResult {
	bodies, res := Seed(w.Container, opts, w.rng)
	w.Bodies = bodies
	return res
}

func overlapsAny(bodies []Body, p geom.Vec2, rad, margin float64) bool {
	for i := range bodies {
		if geom.Length(geom.Sub(p, bodies[i].Pos)) < rad+bodies[i].Radius+margin {
			return true
		}
	}
	return false
}

func uniform(rng Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func pickColor(rng Rand) Color {
	i := int(rng.Float64() * float64(len(Palette)))
	if i >= len(Palette) {
		i = len(Palette) - 1
	}
	return Palette[i]
}
