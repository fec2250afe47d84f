package analysis

import (
	"strings"

	"github.com/san-kum/hexbounce/internal/sim"
)

// PhasePortrait2D holds a 2D trajectory for plotting.
type PhasePortrait2D struct {
	Label  string
	Points []struct{ X, Y float64 }
}

// OffsetTrace is the path of the container's displacement from rest.
func OffsetTrace(frames []sim.Frame) *PhasePortrait2D {
	portrait := &PhasePortrait2D{
		Label:  "container offset",
		Points: make([]struct{ X, Y float64 }, 0, len(frames)),
	}
	for _, f := range frames {
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{X: f.Offset[0], Y: -f.Offset[1]})
	}
	return portrait
}

// BodyTrace is the path of body i. Frames without that body are skipped.
// Y is flipped so the plot reads the same way up as the screen.
func BodyTrace(frames []sim.Frame, i int) *PhasePortrait2D {
	portrait := &PhasePortrait2D{
		Label:  "body path",
		Points: make([]struct{ X, Y float64 }, 0, len(frames)),
	}
	for _, f := range frames {
		if i < 0 || i >= len(f.Bodies) {
			continue
		}
		p := f.Bodies[i].Pos
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{X: p[0], Y: -p[1]})
	}
	return portrait
}

// OffsetSeries extracts one offset component per frame, for spectral analysis.
func OffsetSeries(frames []sim.Frame, axis int) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.Offset[axis]
	}
	return out
}

// EnergySeries extracts the kinetic energy of each frame.
func EnergySeries(frames []sim.Frame) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.KineticEnergy
	}
	return out
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Axes, where they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
