package metrics

import (
	"math"

	"github.com/san-kum/hexbounce/internal/physics"
)

// Containment is the fraction of ticks on which no body penetrated a wall
// by more than tolerance.
type Containment struct {
	name       string
	tolerance  float64
	violations int
	samples    int
}

func NewContainment(tolerance float64) *Containment {
	return &Containment{
		name:      "containment",
		tolerance: tolerance,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(w *physics.World) {
	c.samples++
	if w.MaxPenetration() > c.tolerance {
		c.violations++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// Penetration is the worst wall penetration seen during the run.
type Penetration struct {
	name  string
	worst float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "max_penetration", worst: math.Inf(-1)}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(w *physics.World) {
	p.worst = math.Max(p.worst, w.MaxPenetration())
}

func (p *Penetration) Value() float64 {
	if math.IsInf(p.worst, -1) {
		return 0
	}
	return p.worst
}

func (p *Penetration) Reset() {
	p.worst = math.Inf(-1)
}
