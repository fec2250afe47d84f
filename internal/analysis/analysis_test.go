package analysis

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/san-kum/hexbounce/internal/geom"
	"github.com/san-kum/hexbounce/internal/physics"
	"github.com/san-kum/hexbounce/internal/sim"
)

func TestPowerSpectrum(t *testing.T) {
	if ps := PowerSpectrum(nil); ps != nil {
		t.Errorf("PowerSpectrum(nil) = %v, want nil", ps)
	}

	data := make([]float64, 64)
	for i := range data {
		data[i] = math.Cos(2 * math.Pi * 4 * float64(i) / 64)
	}
	ps := PowerSpectrum(data)
	if len(ps) != 32 {
		t.Fatalf("len = %d, want 32", len(ps))
	}
	if math.Abs(ps[4]-32) > 1e-9 {
		t.Errorf("bin 4 = %v, want 32", ps[4])
	}
	if ps[3] > 1e-9 || ps[5] > 1e-9 {
		t.Errorf("leakage into neighbours: %v, %v", ps[3], ps[5])
	}
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		hz   float64
		n    int
		dt   float64
		bias float64
	}{
		{"two hertz", 2, 500, 0.01, 0},
		{"with offset", 5, 400, 0.005, 100},
		{"non power of two", 1, 300, 1.0 / 60, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := make([]float64, tt.n)
			for i := range samples {
				samples[i] = tt.bias + math.Sin(2*math.Pi*tt.hz*float64(i)*tt.dt)
			}
			if got := DominantFrequency(samples, tt.dt); math.Abs(got-tt.hz) > 1e-9 {
				t.Errorf("DominantFrequency() = %v, want %v", got, tt.hz)
			}
		})
	}
}

func TestDominantFrequency_Degenerate(t *testing.T) {
	if f := DominantFrequency([]float64{1, 2}, 0.1); f != 0 {
		t.Errorf("short input: got %v, want 0", f)
	}
	if f := DominantFrequency(make([]float64, 32), 0.1); f != 0 {
		t.Errorf("flat input: got %v, want 0", f)
	}
	if f := DominantFrequency(make([]float64, 32), 0); f != 0 {
		t.Errorf("zero dt: got %v, want 0", f)
	}
}

// The container's spring rings near sqrt(k)/(2π) Hz.
func TestDominantFrequency_ShakeRinging(t *testing.T) {
	c := physics.NewContainer(geom.V(0, 0), 300, 6)
	c.D = 0.5
	c.ShakeBurst(1, rand.New(rand.NewSource(1)))

	dir := geom.Normalize(c.Velocity)
	dt := 1.0 / 120
	series := make([]float64, 1200)
	for i := range series {
		c.Update(dt)
		series[i] = geom.Dot(c.Offset, dir)
	}

	want := math.Sqrt(c.K) / (2 * math.Pi)
	if got := DominantFrequency(series, dt); math.Abs(got-want) > 0.15 {
		t.Errorf("ringing at %v Hz, want about %v", got, want)
	}
}

func TestTraces(t *testing.T) {
	frames := []sim.Frame{
		{Offset: geom.V(1, 2), KineticEnergy: 3, Bodies: []physics.Body{{Pos: geom.V(10, 20)}}},
		{Offset: geom.V(-1, 0), KineticEnergy: 4},
	}

	if p := OffsetTrace(frames); len(p.Points) != 2 || p.Points[0].Y != -2 {
		t.Errorf("OffsetTrace = %+v", p.Points)
	}
	if p := BodyTrace(frames, 0); len(p.Points) != 1 || p.Points[0].X != 10 {
		t.Errorf("BodyTrace = %+v", p.Points)
	}
	if s := OffsetSeries(frames, 0); s[0] != 1 || s[1] != -1 {
		t.Errorf("OffsetSeries = %v", s)
	}
	if s := EnergySeries(frames); s[1] != 4 {
		t.Errorf("EnergySeries = %v", s)
	}

	art := PhasePortraitToASCII(OffsetTrace(frames), 20, 5)
	if lines := strings.Split(strings.TrimRight(art, "\n"), "\n"); len(lines) != 5 {
		t.Errorf("expected 5 rows, got %d", len(lines))
	}
	if PhasePortraitToASCII(nil, 20, 5) != "" {
		t.Error("expected empty plot for nil portrait")
	}
}

func TestSweep(t *testing.T) {
	build := func() (*physics.World, error) {
		c := physics.NewContainer(geom.V(450, 450), 300, 6)
		w := physics.NewWorld(physics.DefaultParams(), c, rand.New(rand.NewSource(2)))
		w.Populate(physics.DefaultSeedOptions(6))
		return w, nil
	}

	pts, err := Sweep(build, "wall_e", 0, 1, 3, 1.0/120, 0.5, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 3 || pts[0].Param != 0 || pts[2].Param != 1 {
		t.Fatalf("points = %+v", pts)
	}
	for _, p := range pts {
		if p.MeanEnergy <= 0 {
			t.Errorf("param %v: mean energy %v", p.Param, p.MeanEnergy)
		}
	}
	if SweepToASCII(pts, 30, 8) == "" {
		t.Error("expected a plot")
	}

	if _, err := Sweep(build, "bogus", 0, 1, 2, 1.0/120, 0, 0.1); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := Sweep(build, "wall_e", 0, 1, 2, 0, 0, 0.1); err == nil {
		t.Error("expected error for zero dt")
	}
}
