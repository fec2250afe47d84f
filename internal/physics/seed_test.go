package physics

import (
	"math/rand"
	"testing"

	"github.com/san-kum/hexbounce/internal/geom"
)

func TestSeed_Default(t *testing.T) {
	c := NewContainer(geom.V(450, 450), 300, DefaultSides)
	opts := DefaultSeedOptions(10)

	bodies, res := Seed(c, opts, rand.New(rand.NewSource(42)))

	if !res.Complete() || res.Placed != 10 || len(bodies) != 10 {
		t.Fatalf("placed %d of %d (%d attempts)", res.Placed, res.Requested, res.Attempts)
	}
	if res.Attempts < 10 || res.Attempts > DefaultMaxAttempts {
		t.Errorf("attempts = %d, out of range", res.Attempts)
	}

	for i, b := range bodies {
		if b.Radius < opts.MinRadius || b.Radius > opts.MaxRadius {
			t.Errorf("body %d: radius %v outside [%v, %v]", i, b.Radius, opts.MinRadius, opts.MaxRadius)
		}
		if !geom.Inside(c.Edges, b.Pos, b.Radius+opts.Margin) {
			t.Errorf("body %d at %v too close to a wall", i, b.Pos)
		}
		if b.Vel[0] < -120 || b.Vel[0] > 120 || b.Vel[1] < -60 || b.Vel[1] > 0 {
			t.Errorf("body %d: velocity %v outside spawn range", i, b.Vel)
		}
		for j := i + 1; j < len(bodies); j++ {
			d := geom.Length(geom.Sub(b.Pos, bodies[j].Pos))
			if d < b.Radius+bodies[j].Radius+opts.Margin {
				t.Errorf("bodies %d and %d overlap (d=%v)", i, j, d)
			}
		}
		found := false
		for _, col := range Palette {
			if col == b.Color {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("body %d: colour %v not in palette", i, b.Color)
		}
	}
}

func TestSeed_Partial(t *testing.T) {
	c := NewContainer(geom.V(0, 0), 60, DefaultSides)
	bodies, res := Seed(c, DefaultSeedOptions(200), rand.New(rand.NewSource(3)))

	if res.Complete() {
		t.Fatal("expected a partial placement")
	}
	if res.Placed != len(bodies) {
		t.Errorf("Placed = %d, len(bodies) = %d", res.Placed, len(bodies))
	}
	if res.Attempts != DefaultMaxAttempts {
		t.Errorf("attempts = %d, want %d", res.Attempts, DefaultMaxAttempts)
	}
}

func TestSeed_Counts(t *testing.T) {
	tests := []struct {
		name         string
		count        int
		maxAttempts  int
		wantAttempts int
	}{
		{"zero", 0, 0, 0},
		{"negative", -4, 0, 0},
		{"custom budget", 1000, 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContainer(geom.V(0, 0), 300, DefaultSides)
			opts := DefaultSeedOptions(tt.count)
			opts.MaxAttempts = tt.maxAttempts

			bodies, res := Seed(c, opts, rand.New(rand.NewSource(1)))
			if res.Attempts != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", res.Attempts, tt.wantAttempts)
			}
			if len(bodies) > tt.wantAttempts {
				t.Errorf("placed %d bodies with %d attempts", len(bodies), res.Attempts)
			}
		})
	}
}

func TestSeed_Deterministic(t *testing.T) {
	c := NewContainer(geom.V(450, 450), 300, DefaultSides)
	a, _ := Seed(c, DefaultSeedOptions(12), rand.New(rand.NewSource(99)))
	b, _ := Seed(c, DefaultSeedOptions(12), rand.New(rand.NewSource(99)))

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("body %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestWorld_Populate(t *testing.T) {
	w := NewWorld(DefaultParams(), NewContainer(geom.V(450, 450), 300, DefaultSides), rand.New(rand.NewSource(5)))
	w.Bodies = []Body{{Radius: 1}}

	res := w.Populate(DefaultSeedOptions(8))
	if len(w.Bodies) != res.Placed || res.Placed != 8 {
		t.Errorf("bodies = %d, placed = %d; want 8", len(w.Bodies), res.Placed)
	}
}
