package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/hexbounce/internal/geom"
)

func TestNewContainer(t *testing.T) {
	c := NewContainer(geom.V(450, 450), 300, DefaultSides)

	if len(c.Vertices) != 6 || len(c.Edges) != 6 {
		t.Fatalf("got %d vertices, %d edges; want 6, 6", len(c.Vertices), len(c.Edges))
	}
	if !c.AtRest() {
		t.Error("new container should be at rest")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	for i, e := range c.Edges {
		if s := e.SignedDistance(c.Center); s <= 0 {
			t.Errorf("edge %d: centre not on interior side (s=%v)", i, s)
		}
	}
}

func TestContainer_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Container)
		wantErr bool
	}{
		{"default", func(c *Container) {}, false},
		{"two sides", func(c *Container) { c.Sides = 2 }, true},
		{"zero radius", func(c *Container) { c.Radius = 0 }, true},
		{"zero stiffness", func(c *Container) { c.K = 0 }, true},
		{"negative damping", func(c *Container) { c.D = -1 }, true},
		{"negative impulse", func(c *Container) { c.Impulse = -5 }, true},
		{"undamped", func(c *Container) { c.D = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContainer(geom.V(0, 0), 100, 6)
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContainer_ShakeBurstZero(t *testing.T) {
	c := NewContainer(geom.V(0, 0), 100, 6)
	c.ShakeBurst(0, fixedRand(0.3))

	if !geom.IsZero(c.Velocity) {
		t.Errorf("velocity = %v, want zero", c.Velocity)
	}

	c.Update(1.0 / 120)
	if !c.AtRest() {
		t.Errorf("zero burst should settle on the next update: offset=%v vel=%v active=%v",
			c.Offset, c.Velocity, c.Active)
	}
}

func TestContainer_ShakeBurstNegative(t *testing.T) {
	c := NewContainer(geom.V(0, 0), 100, 6)
	c.ShakeBurst(-3, fixedRand(0.3))

	if !geom.IsZero(c.Velocity) {
		t.Errorf("negative magnitude should clamp to zero, got velocity %v", c.Velocity)
	}
}

func TestContainer_ShakeBurstImpulse(t *testing.T) {
	c := NewContainer(geom.V(0, 0), 100, 6)
	c.ShakeBurst(1, fixedRand(0))

	if !c.Active {
		t.Error("container should be active after a burst")
	}
	if math.Abs(c.Velocity[0]-DefaultShakeImpulse) > 1e-9 || math.Abs(c.Velocity[1]) > 1e-9 {
		t.Errorf("velocity = %v, want (%v, 0)", c.Velocity, DefaultShakeImpulse)
	}

	// Bursts accumulate.
	c.ShakeBurst(0.5, fixedRand(0))
	if want := 1.5 * DefaultShakeImpulse; math.Abs(c.Velocity[0]-want) > 1e-9 {
		t.Errorf("velocity x = %v, want %v", c.Velocity[0], want)
	}
}

func TestContainer_ShakeDecaysToRest(t *testing.T) {
	c := NewContainer(geom.V(450, 450), 300, 6)
	c.ShakeBurst(1, rand.New(rand.NewSource(7)))

	dt := 1.0 / 120
	peak := 0.0
	settled := -1
	for i := 0; i < 2000; i++ {
		c.Update(dt)
		peak = math.Max(peak, geom.Length(c.Offset))
		if c.AtRest() {
			settled = i
			break
		}
	}

	if settled < 0 {
		t.Fatalf("container still moving after 2000 ticks: offset=%v vel=%v", c.Offset, c.Velocity)
	}
	if peak == 0 {
		t.Error("offset never moved")
	}
	if c.Origin() != c.Center {
		t.Errorf("origin = %v, want %v", c.Origin(), c.Center)
	}
	// Geometry is rebuilt at the nominal position.
	want := geom.RegularPolygon(c.Center, c.Radius, c.Sides, c.StartAngle)
	for i := range want {
		if geom.Length(geom.Sub(c.Vertices[i], want[i])) > 1e-9 {
			t.Errorf("vertex %d = %v, want %v", i, c.Vertices[i], want[i])
		}
	}
}

func TestContainer_AmplitudeDecays(t *testing.T) {
	c := NewContainer(geom.V(0, 0), 300, 6)
	c.ShakeBurst(1, fixedRand(0.125))

	dt := 1.0 / 120
	var first, second float64
	for i := 0; i < 240; i++ {
		c.Update(dt)
		d := geom.Length(c.Offset)
		if i < 120 {
			first = math.Max(first, d)
		} else {
			second = math.Max(second, d)
		}
	}

	if second >= first {
		t.Errorf("late peak %v should be below early peak %v", second, first)
	}
}

func TestContainer_EdgesFollowOffset(t *testing.T) {
	c := NewContainer(geom.V(0, 0), 100, 6)
	c.ShakeBurst(1, fixedRand(0))
	c.Update(1.0 / 120)

	if geom.IsZero(c.Offset) {
		t.Fatal("expected a non-zero offset after one update")
	}
	want := geom.RegularPolygon(c.Origin(), c.Radius, c.Sides, c.StartAngle)
	for i := range want {
		if geom.Length(geom.Sub(c.Vertices[i], want[i])) > 1e-9 {
			t.Errorf("vertex %d = %v, want %v", i, c.Vertices[i], want[i])
		}
		if c.Edges[i].P1 != c.Vertices[i] {
			t.Errorf("edge %d does not start at vertex %d", i, i)
		}
	}
}

func TestContainer_Reset(t *testing.T) {
	c := NewContainer(geom.V(0, 0), 100, 6)
	c.ShakeBurst(2, fixedRand(0.6))
	for i := 0; i < 10; i++ {
		c.Update(1.0 / 120)
	}
	c.Reset()

	if !c.AtRest() {
		t.Error("Reset should leave the container at rest")
	}
	if c.Vertices[0] != geom.RegularPolygon(c.Center, 100, 6, c.StartAngle)[0] {
		t.Error("Reset should rebuild geometry at the nominal position")
	}
}

func TestContainer_Reshape(t *testing.T) {
	c := NewContainer(geom.V(0, 0), 100, 6)
	c.Reshape(50, 8)

	if len(c.Vertices) != 8 || len(c.Edges) != 8 {
		t.Errorf("got %d vertices, %d edges; want 8, 8", len(c.Vertices), len(c.Edges))
	}
	if d := geom.Length(c.Vertices[0]); math.Abs(d-50) > 1e-9 {
		t.Errorf("vertex distance = %v, want 50", d)
	}
}
