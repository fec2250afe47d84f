package metrics

import (
	"math"

	"github.com/san-kum/hexbounce/internal/geom"
	"github.com/san-kum/hexbounce/internal/physics"
)

// Energy is the mean total kinetic energy over the observed ticks.
type Energy struct {
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "kinetic_energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(w *physics.World) {
	e.total += w.KineticEnergy()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// MechanicalEnergy is kinetic plus gravitational potential energy, with the
// potential measured from the container's nominal centre.
func MechanicalEnergy(w *physics.World) float64 {
	total := 0.0
	for i := range w.Bodies {
		b := &w.Bodies[i]
		h := geom.Sub(b.Pos, w.Container.Center)
		total += b.KineticEnergy() - b.Mass()*geom.Dot(w.Params.Gravity, h)
	}
	return total
}

// EnergyDrift tracks the largest relative change in mechanical energy from
// the first observation. Inelastic walls and shakes both move it.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(w *physics.World) {
	energy := MechanicalEnergy(w)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
