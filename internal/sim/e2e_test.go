package sim_test

import (
	"context"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hexbounce/internal/geom"
	"github.com/san-kum/hexbounce/internal/physics"
	"github.com/san-kum/hexbounce/internal/sim"
)

const tick = 1.0 / 120

func hexWorld(seed int64, params physics.Params) *physics.World {
	c := physics.NewContainer(geom.V(450, 450), 300, physics.DefaultSides)
	return physics.NewWorld(params, c, rand.New(rand.NewSource(seed)))
}

var _ = Describe("a single body in a resting hexagon", func() {
	var w *physics.World

	BeforeEach(func() {
		p := physics.DefaultParams()
		p.WallRestitution = 0.45
		w = hexWorld(1, p)
		w.Bodies = []physics.Body{{Pos: geom.V(450, 450), Radius: 12}}
	})

	It("stays inside the container on every tick", func() {
		for i := 0; i < 300; i++ {
			w.Step(tick)
			Expect(w.MaxPenetration()).To(BeNumerically("<=", 1e-6), "tick %d", i)
		}
	})

	It("falls toward the bottom and stays bounded", func() {
		for i := 0; i < 300; i++ {
			w.Step(tick)
		}
		b := w.Bodies[0]
		Expect(b.IsValid()).To(BeTrue())
		Expect(b.Pos[1]).To(BeNumerically(">", 450))
		Expect(geom.Length(geom.Sub(b.Pos, w.Container.Center))).To(BeNumerically("<", 300))
	})

	It("reports wall contacts once it lands", func() {
		contacts := 0
		for i := 0; i < 300; i++ {
			w.Step(tick)
			contacts += w.LastStats().Contacts()
		}
		Expect(contacts).To(BeNumerically(">", 0))
	})
})

var _ = Describe("a shaken hexagon", func() {
	var s *sim.Simulator

	BeforeEach(func() {
		w := hexWorld(7, physics.DefaultParams())
		w.Bodies = []physics.Body{{Pos: geom.V(450, 450), Radius: 12}}
		s = sim.New(w)
	})

	It("keeps the body inside while the walls move", func() {
		cfg := sim.Config{Dt: tick, Duration: 5, ShakeAt: []float64{0.5, 2.5}, ShakeMagnitude: 1}
		err := s.RunWithCallback(context.Background(), cfg, func(w *physics.World) bool {
			Expect(w.MaxPenetration()).To(BeNumerically("<=", 1e-6))
			return true
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("returns the container to rest after the last burst", func() {
		result, err := s.Run(context.Background(), sim.Config{Dt: tick, Duration: 8, ShakeAt: []float64{0.1}, ShakeMagnitude: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Shakes).To(Equal(1))
		Expect(s.World().Container.AtRest()).To(BeTrue())
	})
})

var _ = Describe("a populated world", func() {
	build := func(seed int64) *physics.World {
		w := hexWorld(seed, physics.DefaultParams())
		w.Populate(physics.DefaultSeedOptions(25))
		return w
	}

	It("is reproducible for a fixed seed", func() {
		cfg := sim.Config{Dt: tick, Duration: 3, SampleEvery: 30, ShakeAt: []float64{1}, ShakeMagnitude: 1}

		a, err := sim.New(build(42)).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		b, err := sim.New(build(42)).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Frames).To(HaveLen(len(b.Frames)))
		for i := range a.Frames {
			Expect(a.Frames[i].Bodies).To(Equal(b.Frames[i].Bodies))
		}
	})

	It("never gains or loses bodies", func() {
		w := build(3)
		n := len(w.Bodies)
		Expect(n).To(Equal(25))

		result, err := sim.New(w).Run(context.Background(), sim.Config{
			Dt: tick, Duration: 4, SampleEvery: 60, ShakeAt: []float64{0.5, 2}, ShakeMagnitude: 2, ValidateState: true,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Errors).To(BeEmpty())
		for _, f := range result.Frames {
			Expect(f.Bodies).To(HaveLen(n))
		}
	})

	It("keeps every centre near the container", func() {
		w := build(9)
		for i := 0; i < 600; i++ {
			if i%150 == 0 {
				w.Shake(1)
			}
			w.Step(tick)
		}
		for _, b := range w.Bodies {
			Expect(b.IsValid()).To(BeTrue())
			Expect(geom.Length(geom.Sub(b.Pos, w.Container.Origin()))).To(BeNumerically("<", 300+2*16))
		}
	})
})

var _ = Describe("pair resolution", func() {
	It("separates an overlapping pair at rest without an impulse", func() {
		a := physics.Body{Pos: geom.V(0, 0), Radius: 10}
		b := physics.Body{Pos: geom.V(15, 0), Radius: 10}

		Expect(physics.ResolvePair(&a, &b, 0.9, rand.New(rand.NewSource(1)))).To(BeTrue())
		Expect(geom.Length(geom.Sub(b.Pos, a.Pos))).To(BeNumerically("~", 20, physics.ContactSlop))
		Expect(geom.IsZero(a.Vel)).To(BeTrue())
		Expect(geom.IsZero(b.Vel)).To(BeTrue())
	})
})
