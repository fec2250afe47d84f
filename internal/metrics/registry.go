package metrics

import "github.com/san-kum/hexbounce/internal/sim"

// Standard returns a fresh set of the metrics reported by run and bench.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewContainment(1e-6),
		NewPenetration(),
		NewContacts(),
		NewShakeAmplitude(),
	}
}
