package config

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/hexbounce/internal/geom"
	"github.com/san-kum/hexbounce/internal/physics"
	"github.com/san-kum/hexbounce/internal/sim"
)

const (
	DefaultWidth         = 900
	DefaultHeight        = 900
	DefaultHexRadiusFrac = 0.38
	DefaultBodies        = 10
	DefaultFPS           = 120
	DefaultDt            = 1.0 / DefaultFPS
	DefaultDuration      = 10.0
	DefaultSampleEvery   = 4
)

type Config struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	HexRadiusFrac float64 `yaml:"hex_radius_frac"`
	Sides         int     `yaml:"sides"`
	StartAngle    float64 `yaml:"start_angle"`

	Bodies      int     `yaml:"bodies"`
	Seed        int64   `yaml:"seed"`
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	SampleEvery int     `yaml:"sample_every"`

	Gravity         VecConfig `yaml:"gravity"`
	WallRestitution float64   `yaml:"wall_restitution"`
	BodyRestitution float64   `yaml:"body_restitution"`
	Friction        float64   `yaml:"friction"`
	Damping         float64   `yaml:"damping"`

	Shake ShakeConfig `yaml:"shake"`
	Spawn SpawnConfig `yaml:"spawn"`
	Stall StallConfig `yaml:"stall"`

	// ShakeAt schedules bursts for headless runs, in seconds.
	ShakeAt []float64 `yaml:"shake_at,flow"`
}

type VecConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ShakeConfig struct {
	K         float64 `yaml:"k"`
	D         float64 `yaml:"d"`
	Impulse   float64 `yaml:"impulse"`
	Magnitude float64 `yaml:"magnitude"`
}

type SpawnConfig struct {
	MinRadius   float64    `yaml:"min_radius"`
	MaxRadius   float64    `yaml:"max_radius"`
	Margin      float64    `yaml:"margin"`
	MaxAttempts int        `yaml:"max_attempts"`
	VX          [2]float64 `yaml:"vx,flow"`
	VY          [2]float64 `yaml:"vy,flow"`
}

type StallConfig struct {
	Speed float64 `yaml:"speed"`
	Nudge float64 `yaml:"nudge"`
}

func DefaultConfig() *Config {
	spawn := physics.DefaultSeedOptions(DefaultBodies)
	return &Config{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		HexRadiusFrac:   DefaultHexRadiusFrac,
		Sides:           physics.DefaultSides,
		StartAngle:      geom.DefaultStartAngle,
		Bodies:          DefaultBodies,
		Dt:              DefaultDt,
		Duration:        DefaultDuration,
		SampleEvery:     DefaultSampleEvery,
		Gravity:         VecConfig{X: physics.DefaultGravity[0], Y: physics.DefaultGravity[1]},
		WallRestitution: physics.DefaultWallRestitution,
		BodyRestitution: physics.DefaultBodyRestitution,
		Friction:        physics.DefaultFriction,
		Shake: ShakeConfig{
			K:         physics.DefaultShakeK,
			D:         physics.DefaultShakeD,
			Impulse:   physics.DefaultShakeImpulse,
			Magnitude: 1.0,
		},
		Spawn: SpawnConfig{
			MinRadius:   spawn.MinRadius,
			MaxRadius:   spawn.MaxRadius,
			Margin:      spawn.Margin,
			MaxAttempts: spawn.MaxAttempts,
			VX:          spawn.VelX,
			VY:          spawn.VelY,
		},
		Stall: StallConfig{
			Speed: physics.DefaultStallSpeed,
			Nudge: physics.DefaultStallNudge,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.ShakeAt != nil {
		out.ShakeAt = append([]float64(nil), c.ShakeAt...)
	}
	return &out
}

// Center is the middle of the drawing area.
func (c *Config) Center() geom.Vec2 {
	return geom.V(float64(c.Width)/2, float64(c.Height)/2)
}

// HexRadius is the container circumradius implied by the window size.
func (c *Config) HexRadius() float64 {
	return c.HexRadiusFrac * math.Min(float64(c.Width), float64(c.Height))
}

func (c *Config) Params() physics.Params {
	return physics.Params{
		Gravity:         geom.V(c.Gravity.X, c.Gravity.Y),
		WallRestitution: c.WallRestitution,
		BodyRestitution: c.BodyRestitution,
		Friction:        c.Friction,
		Damping:         c.Damping,
		StallSpeed:      c.Stall.Speed,
		StallNudge:      c.Stall.Nudge,
	}
}

func (c *Config) Container() *physics.Container {
	ctr := &physics.Container{
		Center:     c.Center(),
		Radius:     c.HexRadius(),
		Sides:      c.Sides,
		StartAngle: c.StartAngle,
		K:          c.Shake.K,
		D:          c.Shake.D,
		Impulse:    c.Shake.Impulse,
	}
	ctr.Reset()
	return ctr
}

func (c *Config) SeedOptions() physics.SeedOptions {
	return physics.SeedOptions{
		Count:       c.Bodies,
		MinRadius:   c.Spawn.MinRadius,
		MaxRadius:   c.Spawn.MaxRadius,
		Margin:      c.Spawn.Margin,
		MaxAttempts: c.Spawn.MaxAttempts,
		VelX:        c.Spawn.VX,
		VelY:        c.Spawn.VY,
	}
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:             c.Dt,
		Duration:       c.Duration,
		SampleEvery:    c.SampleEvery,
		ShakeAt:        append([]float64(nil), c.ShakeAt...),
		ShakeMagnitude: c.Shake.Magnitude,
		ValidateState:  true,
	}
}

// Rand returns a source seeded from Seed, or from the clock when Seed is 0.
func (c *Config) Rand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// World builds a validated world and seeds it with Bodies bodies. A partial
// placement is not an error; inspect the SeedResult.
func (c *Config) World(rng physics.Rand) (*physics.World, physics.SeedResult, error) {
	if c.Bodies < 1 {
		return nil, physics.SeedResult{}, fmt.Errorf("%w: bodies must be at least 1, got %d", physics.ErrParameterBounds, c.Bodies)
	}
	w := physics.NewWorld(c.Params(), c.Container(), rng)
	if err := w.Validate(); err != nil {
		return nil, physics.SeedResult{}, err
	}
	res := w.Populate(c.SeedOptions())
	return w, res, nil
}
