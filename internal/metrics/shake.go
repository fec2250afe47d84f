package metrics

import (
	"math"

	"github.com/san-kum/hexbounce/internal/geom"
	"github.com/san-kum/hexbounce/internal/physics"
)

// ShakeAmplitude is the largest container displacement from rest.
type ShakeAmplitude struct {
	name string
	peak float64
}

func NewShakeAmplitude() *ShakeAmplitude {
	return &ShakeAmplitude{name: "shake_amplitude"}
}

func (s *ShakeAmplitude) Name() string { return s.name }

func (s *ShakeAmplitude) Observe(w *physics.World) {
	s.peak = math.Max(s.peak, geom.Length(w.Container.Offset))
}

func (s *ShakeAmplitude) Value() float64 { return s.peak }

func (s *ShakeAmplitude) Reset() { s.peak = 0 }
