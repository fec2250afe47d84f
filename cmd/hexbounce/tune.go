package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/hexbounce/internal/automation"
	"github.com/san-kum/hexbounce/internal/metrics"
	"github.com/san-kum/hexbounce/internal/optim"
	"github.com/san-kum/hexbounce/internal/physics"
	"github.com/san-kum/hexbounce/internal/sim"
	"github.com/san-kum/hexbounce/internal/storage"
)

var (
	tuneGrid     []string
	tuneMetric   string
	tuneMaximize bool
)

func addTuneCommands(root *cobra.Command) {
	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search world parameters against a metric",
		RunE:  tune,
	}
	tuneCmd.Flags().StringArrayVar(&tuneGrid, "grid", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "max_penetration", "metric to optimise")
	tuneCmd.Flags().BoolVar(&tuneMaximize, "maximize", false, "maximise instead of minimise")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	root.AddCommand(tuneCmd, scenarioCmd)
}

// parseGrid turns name=v1,v2 specs into parallel name and value slices,
// sorted by name.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	grid := make(map[string][]float64, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("bad grid spec %q, want name=v1,v2", spec)
		}
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in %q: %w", spec, err)
			}
			grid[name] = append(grid[name], v)
		}
	}

	names := make([]string, 0, len(grid))
	for k := range grid {
		names = append(names, k)
	}
	sort.Strings(names)
	ranges := make([][]float64, len(names))
	for i, k := range names {
		ranges[i] = grid[k]
	}
	return names, ranges, nil
}

func tune(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	fixSeed(cfg)
	logger := newLogger()

	names, ranges, err := parseGrid(tuneGrid)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}

	build := func() (*physics.World, []sim.Metric, error) {
		w, err := buildWorld(cfg, logger)
		return w, metrics.Standard(), err
	}

	simCfg := cfg.SimConfig()
	simCfg.SampleEvery = 0

	g := optim.NewGridSearch(names, ranges)
	g.Maximize = tuneMaximize

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, val, err := g.Search(ctx, build, simCfg, tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6g\n", tuneMetric, val)
	for _, k := range names {
		fmt.Printf("  %s = %g\n", k, best[k])
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	logger := newLogger()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}

	results, err := automation.RunScenario(context.Background(), scenario, st, logger)
	for _, r := range results {
		line := fmt.Sprintf("step %d: %d steps, %d contacts, mean KE %.1f",
			r.Step, r.Result.StepsTaken, r.Result.Contacts, r.Result.Metrics["kinetic_energy"])
		if r.RunID != "" {
			line += "  saved " + r.RunID
		}
		fmt.Println(line)
	}
	return err
}
