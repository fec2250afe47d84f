package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/hexbounce/internal/config"
	"github.com/san-kum/hexbounce/internal/physics"
)

var (
	dataDir    string
	configFile string
	preset     string
	numBodies  int
	seed       int64
	dt         float64
	duration   float64
	shakeAt    []float64
	verbose    bool
)

func addWorldFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&dataDir, "data", ".hexbounce", "data directory")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies")
	f.Int64Var(&seed, "seed", 0, "random seed (0 = clock)")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.Float64SliceVar(&shakeAt, "shake-at", nil, "shake times in seconds (headless runs)")
	f.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// resolveConfig layers the preset, then the config file, then any flags the
// user set explicitly. The returned name labels stored runs.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "classic"

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = "custom"
	}

	flags := cmd.Flags()
	if flags.Changed("bodies") {
		cfg.Bodies = numBodies
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("shake-at") {
		cfg.ShakeAt = append([]float64(nil), shakeAt...)
	}

	if cfg.Bodies < 1 {
		return nil, "", fmt.Errorf("bodies must be at least 1, got %d", cfg.Bodies)
	}
	if cfg.Dt <= 0 {
		return nil, "", fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	return cfg, name, nil
}

// fixSeed replaces a clock seed with a concrete one so the run can be
// reproduced from its metadata.
func fixSeed(cfg *config.Config) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "hexbounce",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// buildWorld seeds a world from cfg and warns when the seeder ran out of
// attempts.
func buildWorld(cfg *config.Config, logger *log.Logger) (*physics.World, error) {
	w, res, err := cfg.World(cfg.Rand())
	if err != nil {
		return nil, err
	}
	if !res.Complete() {
		logger.Warn("partial seeding", "placed", res.Placed, "requested", res.Requested, "attempts", res.Attempts)
	}
	return w, nil
}
