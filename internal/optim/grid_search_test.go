package optim

import (
	"context"
	"math/rand"
	"testing"

	"github.com/san-kum/hexbounce/internal/geom"
	"github.com/san-kum/hexbounce/internal/metrics"
	"github.com/san-kum/hexbounce/internal/physics"
	"github.com/san-kum/hexbounce/internal/sim"
)

func builder() (*physics.World, []sim.Metric, error) {
	c := physics.NewContainer(geom.V(450, 450), 300, physics.DefaultSides)
	w := physics.NewWorld(physics.DefaultParams(), c, rand.New(rand.NewSource(1)))
	w.Bodies = []physics.Body{{Pos: geom.V(450, 450), Vel: geom.V(200, 0), Radius: 12}}
	return w, []sim.Metric{metrics.NewEnergy()}, nil
}

var cfg = sim.Config{Dt: 1.0 / 120, Duration: 1}

func TestGridSearch_Damping(t *testing.T) {
	g := NewGridSearch([]string{"damping"}, [][]float64{{0, 0.5, 2}})

	params, val, err := g.Search(context.Background(), builder, cfg, "kinetic_energy")
	if err != nil {
		t.Fatal(err)
	}
	if params["damping"] != 2 {
		t.Errorf("best damping = %v, want 2 (least energy)", params["damping"])
	}
	if val <= 0 {
		t.Errorf("best energy = %v, want positive", val)
	}

	g.Maximize = true
	params, _, err = g.Search(context.Background(), builder, cfg, "kinetic_energy")
	if err != nil {
		t.Fatal(err)
	}
	if params["damping"] != 0 {
		t.Errorf("maximising picked damping = %v, want 0", params["damping"])
	}
}

func TestGridSearch_SkipsInvalid(t *testing.T) {
	g := NewGridSearch([]string{"wall_e", "damping"}, [][]float64{{-1, 0.5}, {0, 1}})

	params, _, err := g.Search(context.Background(), builder, cfg, "kinetic_energy")
	if err != nil {
		t.Fatal(err)
	}
	if params["wall_e"] != 0.5 {
		t.Errorf("wall_e = %v, the invalid value should have been skipped", params["wall_e"])
	}
}

func TestGridSearch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		g      *GridSearch
		metric string
	}{
		{"mismatched ranges", NewGridSearch([]string{"damping"}, nil), "kinetic_energy"},
		{"unknown metric", NewGridSearch([]string{"damping"}, [][]float64{{0}}), "nope"},
		{"nothing valid", NewGridSearch([]string{"friction"}, [][]float64{{-1, 3}}), "kinetic_energy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.g.Search(context.Background(), builder, cfg, tt.metric); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGridSearch_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch([]string{"damping"}, [][]float64{{0, 1}})
	if _, _, err := g.Search(ctx, builder, cfg, "kinetic_energy"); err == nil {
		t.Error("expected cancellation error")
	}
}
