// Package automation runs scripted sequences of simulations from YAML.
package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/hexbounce/internal/config"
	"github.com/san-kum/hexbounce/internal/metrics"
	"github.com/san-kum/hexbounce/internal/sim"
	"github.com/san-kum/hexbounce/internal/storage"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Zero fields keep the preset's value.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Bodies   int                `yaml:"bodies"`
	Seed     int64              `yaml:"seed"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	ShakeAt  []float64          `yaml:"shake_at,flow"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

// StepResult pairs a step's result with the run id it was saved under, if any.
type StepResult struct {
	Step   int
	RunID  string
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// stepConfig applies a step's overrides to its preset.
func stepConfig(step ScenarioStep) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	}
	if step.Bodies > 0 {
		cfg.Bodies = step.Bodies
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	if step.Duration > 0 {
		cfg.Duration = step.Duration
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	if step.ShakeAt != nil {
		cfg.ShakeAt = append([]float64(nil), step.ShakeAt...)
	}
	return cfg, nil
}

// RunScenario executes all steps in order. Steps with SaveAs set are
// written to store when it is non-nil. On error the results so far are
// returned.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, logger *log.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("running step", "step", i+1, "of", len(scenario.Steps), "preset", step.Preset)

		cfg, err := stepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		w, seeded, err := cfg.World(cfg.Rand())
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if !seeded.Complete() {
			logger.Warn("partial seeding", "step", i+1, "placed", seeded.Placed, "requested", seeded.Requested, "attempts", seeded.Attempts)
		}

		// Sorted so a bad name fails the same way every time.
		names := make([]string, 0, len(step.Params))
		for k := range step.Params {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			if err := w.SetParam(k, step.Params[k]); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		s := sim.New(w)
		s.SetLogger(logger)
		for _, m := range metrics.Standard() {
			s.AddMetric(m)
		}

		result, err := s.Run(ctx, cfg.SimConfig())
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Result: result}
		if step.SaveAs != "" && store != nil {
			sr.RunID, err = store.Save(storage.RunMetadata{
				Preset:    step.SaveAs,
				Seed:      cfg.Seed,
				Dt:        cfg.Dt,
				Duration:  cfg.Duration,
				Sides:     cfg.Sides,
				HexRadius: cfg.HexRadius(),
				Requested: cfg.Bodies,
				ShakeAt:   cfg.ShakeAt,
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}

		results = append(results, sr)
	}

	return results, nil
}
