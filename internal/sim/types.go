package sim

import (
	"fmt"

	"github.com/san-kum/hexbounce/internal/geom"
	"github.com/san-kum/hexbounce/internal/physics"
)

// Metric accumulates a scalar over a run. Observe is called once per tick,
// after the world has stepped.
type Metric interface {
	Name() string
	Observe(w *physics.World)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(w *physics.World)
}

type Config struct {
	Dt       float64
	Duration float64
	// SampleEvery records a Frame every N ticks. Zero records none.
	SampleEvery int
	// ShakeAt lists simulation times at which a burst fires. Each fires once,
	// at the first tick whose start time is at or past it.
	ShakeAt        []float64
	ShakeMagnitude float64
	ValidateState  bool
}

func DefaultConfig() Config {
	return Config{
		Dt:             1.0 / 120,
		Duration:       10,
		SampleEvery:    4,
		ShakeMagnitude: 1,
		ValidateState:  true,
	}
}

// Frame is a recorded instant of a run.
type Frame struct {
	Time          float64
	Offset        geom.Vec2
	KineticEnergy float64
	Bodies        []physics.Body
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Shakes     int
	Contacts   int
	Errors     []error
}

// SimError reports a failure at a specific point in a run.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("sim error at t=%.4f (step %d): %s", e.Time, e.Step, e.Message)
}
