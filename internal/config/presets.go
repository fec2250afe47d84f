package config

import "sort"

var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"single": preset(func(c *Config) {
		c.Bodies = 1
		c.WallRestitution = 0.45
	}),
	"crowded": preset(func(c *Config) {
		c.Bodies = 40
		c.Spawn.MinRadius = 7
		c.Spawn.MaxRadius = 12
		c.Duration = 20
	}),
	"elastic": preset(func(c *Config) {
		c.WallRestitution = 1
		c.BodyRestitution = 1
		c.Friction = 0
		c.Stall.Speed = 0
	}),
	"jelly": preset(func(c *Config) {
		c.Shake.K = 12
		c.Shake.D = 1.5
		c.Shake.Impulse = 350
		c.ShakeAt = []float64{1, 6}
		c.Duration = 15
	}),
	"octagon": preset(func(c *Config) {
		c.Sides = 8
		c.StartAngle = -67.5
	}),
}

func preset(mutate func(c *Config)) *Config {
	c := DefaultConfig()
	mutate(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
