package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the DFT of data.
// Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	spec := fft.FFTReal(data)
	ps := make([]float64, len(spec)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}

	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of samples taken every dt seconds. The mean is removed first.
// It returns 0 when there is no such component.
func DominantFrequency(samples []float64, dt float64) float64 {
	n := len(samples)
	if n < 4 || dt <= 0 {
		return 0
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	centred := make([]float64, n)
	for i, v := range samples {
		centred[i] = v - mean
	}

	ps := PowerSpectrum(centred)
	best, bestMag := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestMag {
			best, bestMag = k, ps[k]
		}
	}
	if best == 0 || bestMag < 1e-12 {
		return 0
	}
	return float64(best) / (float64(n) * dt)
}
