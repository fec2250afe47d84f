package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/hexbounce/internal/physics"
)

// SweepPoint is the outcome of one run at a fixed parameter value.
type SweepPoint struct {
	Param          float64
	MeanEnergy     float64
	MaxPenetration float64
}

// Sweep rebuilds a world for each of steps values of paramName in
// [paramMin, paramMax], lets it settle for transient seconds, then records
// the mean kinetic energy and worst penetration over record seconds.
func Sweep(
	build func() (*physics.World, error),
	paramName string,
	paramMin, paramMax float64,
	paramSteps int,
	dt, transient, record float64,
) ([]SweepPoint, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("dt must be positive, got %f", dt)
	}
	if paramSteps <= 1 {
		paramSteps = 2
	}
	paramStep := (paramMax - paramMin) / float64(paramSteps-1)
	results := make([]SweepPoint, 0, paramSteps)

	for i := 0; i < paramSteps; i++ {
		param := paramMin + float64(i)*paramStep

		w, err := build()
		if err != nil {
			return nil, err
		}
		if err := w.SetParam(paramName, param); err != nil {
			return nil, err
		}

		for w.Time < transient {
			w.Step(dt)
		}

		pt := SweepPoint{Param: param, MaxPenetration: w.MaxPenetration()}
		samples := 0
		for w.Time < transient+record {
			w.Step(dt)
			pt.MeanEnergy += w.KineticEnergy()
			pt.MaxPenetration = max(pt.MaxPenetration, w.MaxPenetration())
			samples++
		}
		if samples > 0 {
			pt.MeanEnergy /= float64(samples)
		}

		results = append(results, pt)
	}

	return results, nil
}

// SweepToASCII plots mean energy against the swept parameter.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := data[0].MeanEnergy, data[0].MeanEnergy
	for _, p := range data {
		minVal = min(minVal, p.MeanEnergy)
		maxVal = max(maxVal, p.MeanEnergy)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i, p := range data {
		col := i * width / len(data)
		if col >= width {
			col = width - 1
		}
		row := height - 1 - int((p.MeanEnergy-minVal)/(maxVal-minVal)*float64(height-1))
		if row >= 0 && row < height {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
