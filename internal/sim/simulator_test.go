package sim

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/hexbounce/internal/geom"
	"github.com/san-kum/hexbounce/internal/physics"
)

func newWorld(seed int64, bodies ...physics.Body) *physics.World {
	c := physics.NewContainer(geom.V(450, 450), 300, physics.DefaultSides)
	w := physics.NewWorld(physics.DefaultParams(), c, rand.New(rand.NewSource(seed)))
	w.Bodies = append(w.Bodies, bodies...)
	return w
}

type countMetric struct{ n int }

func (c *countMetric) Name() string             { return "count" }
func (c *countMetric) Observe(_ *physics.World) { c.n++ }
func (c *countMetric) Value() float64           { return float64(c.n) }
func (c *countMetric) Reset()                   { c.n = 0 }

type shakeRecorder struct{ times []float64 }

func (r *shakeRecorder) OnStep(w *physics.World) {
	if w.Container.Active && len(r.times) == 0 {
		r.times = append(r.times, w.Time)
	}
}

func TestSimulatorRun(t *testing.T) {
	sim := New(newWorld(1, physics.Body{Pos: geom.V(450, 450), Radius: 12}))
	m := &countMetric{}
	sim.AddMetric(m)

	cfg := Config{Dt: 0.01, Duration: 1.0, SampleEvery: 10, ValidateState: true}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 100 {
		t.Errorf("expected 100 steps, got %d", result.StepsTaken)
	}
	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if result.Metrics["count"] != 100 {
		t.Errorf("metric observed %v times, want 100", result.Metrics["count"])
	}
	if last := result.Frames[len(result.Frames)-1]; math.Abs(last.Time-1.0) > 1e-9 {
		t.Errorf("last frame at t=%v, want 1.0", last.Time)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(newWorld(1))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"negative sampling", Config{Dt: 0.1, Duration: 1.0, SampleEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sim.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error for invalid config")
			}
		})
	}
}

func TestSimulatorInvalidWorld(t *testing.T) {
	w := newWorld(1)
	w.Params.WallRestitution = 3

	_, err := New(w).Run(context.Background(), DefaultConfig())
	if !errors.Is(err, physics.ErrParameterBounds) {
		t.Errorf("Run() error = %v, want ErrParameterBounds", err)
	}
}

func TestSimulatorShakeSchedule(t *testing.T) {
	sim := New(newWorld(1, physics.Body{Pos: geom.V(450, 450), Radius: 12}))
	rec := &shakeRecorder{}
	sim.AddObserver(rec)

	cfg := Config{Dt: 0.01, Duration: 1.0, ShakeAt: []float64{0.5, 0.25}, ShakeMagnitude: 1}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if result.Shakes != 2 {
		t.Errorf("shakes = %d, want 2", result.Shakes)
	}
	if len(rec.times) != 1 || math.Abs(rec.times[0]-0.26) > 1e-9 {
		t.Errorf("first active step ended at %v, want 0.26", rec.times)
	}
}

func TestSimulatorShakeAfterEnd(t *testing.T) {
	sim := New(newWorld(1))
	result, err := sim.Run(context.Background(), Config{Dt: 0.01, Duration: 0.5, ShakeAt: []float64{2}, ShakeMagnitude: 1})
	if err != nil {
		t.Fatal(err)
	}
	if result.Shakes != 0 {
		t.Errorf("shakes = %d, want 0", result.Shakes)
	}
}

func TestSimulatorCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(newWorld(1)).Run(ctx, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("expected an empty partial result, got %+v", result)
	}
}

func TestSimulatorInvalidState(t *testing.T) {
	w := newWorld(1, physics.Body{Pos: geom.V(450, 450), Vel: geom.V(math.NaN(), 0), Radius: 12})

	result, err := New(w).Run(context.Background(), Config{Dt: 0.01, Duration: 1, ValidateState: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want one", result.Errors)
	}
	var serr SimError
	if !errors.As(result.Errors[0], &serr) || serr.Step != 0 {
		t.Errorf("error = %v, want SimError at step 0", result.Errors[0])
	}
	if result.StepsTaken != 1 {
		t.Errorf("steps = %d, want 1", result.StepsTaken)
	}
}

func TestRunWithCallback(t *testing.T) {
	sim := New(newWorld(1, physics.Body{Pos: geom.V(450, 450), Radius: 12}))

	calls := 0
	err := sim.RunWithCallback(context.Background(), Config{Dt: 0.01, Duration: 1}, func(w *physics.World) bool {
		calls++
		return calls < 25
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 25 {
		t.Errorf("callback called %d times, want 25", calls)
	}
	if sim.World().Steps != 24 {
		t.Errorf("steps = %d, want 24", sim.World().Steps)
	}
}

func TestEnsemble(t *testing.T) {
	build := func(seed int64) (*physics.World, error) {
		w := newWorld(seed)
		w.Populate(physics.DefaultSeedOptions(5))
		return w, nil
	}
	metrics := func() []Metric { return []Metric{&countMetric{}} }

	results, err := NewEnsemble(build, metrics, 4, 10).Run(context.Background(), Config{Dt: 0.01, Duration: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for i, r := range results {
		if r.Metrics["count"] != 50 {
			t.Errorf("run %d: count = %v, want 50", i, r.Metrics["count"])
		}
	}
}

func TestEnsembleBuildError(t *testing.T) {
	boom := errors.New("boom")
	build := func(seed int64) (*physics.World, error) { return nil, boom }

	if _, err := NewEnsemble(build, nil, 2, 0).Run(context.Background(), DefaultConfig()); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want boom", err)
	}
}
