package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/hexbounce/internal/analysis"
	"github.com/san-kum/hexbounce/internal/config"
	"github.com/san-kum/hexbounce/internal/export"
	"github.com/san-kum/hexbounce/internal/gui"
	"github.com/san-kum/hexbounce/internal/metrics"
	"github.com/san-kum/hexbounce/internal/physics"
	"github.com/san-kum/hexbounce/internal/remote"
	"github.com/san-kum/hexbounce/internal/sim"
	"github.com/san-kum/hexbounce/internal/storage"
	"github.com/san-kum/hexbounce/internal/viz"
)

var (
	theme       string
	gifPath     string
	listenAddr  string
	hostKeyPath string
	recordDir   string
	traceBody   int
	svgOut      string
	snapTicks   int
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	transient   float64
	record      float64
	benchRuns   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hexbounce",
		Short: "bouncing bodies in a shakeable polygon",
		RunE:  runGUI,
	}
	addWorldFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save it",
		RunE:  runSimulation,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", "neon", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().StringVar(&gifPath, "gif", "hexbounce.gif", "recording output path")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		RunE:  runGUI,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the terminal view over SSH",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&listenAddr, "addr", remote.DefaultServerConfig().Address, "listen address")
	serveCmd.Flags().StringVar(&hostKeyPath, "host-key", "", "host key path (default ~/.hexbounce/host_key)")
	serveCmd.Flags().StringVar(&theme, "theme", "neon", "color theme")
	serveCmd.Flags().StringVar(&recordDir, "record-dir", remote.DefaultServerConfig().RecordDir, "directory for session recordings (empty disables recording)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot kinetic energy and container offset",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the container shake",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "trace a body or the container offset",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&traceBody, "body", -1, "body index (-1 = container offset)")
	phaseCmd.Flags().StringVar(&svgOut, "svg", "", "also write the trace as SVG")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a parameter and plot mean kinetic energy",
		RunE:  sweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "wall_e", "parameter name")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "lowest value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "highest value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")
	sweepCmd.Flags().Float64Var(&transient, "transient", 2.0, "settling time per value")
	sweepCmd.Flags().Float64Var(&record, "record", 3.0, "measured time per value")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "write an SVG of the world after some ticks",
		RunE:  snapshot,
	}
	snapshotCmd.Flags().IntVar(&snapTicks, "ticks", 120, "ticks to simulate first")
	snapshotCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run seeded worlds in parallel and summarise metrics",
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&benchRuns, "runs", 8, "number of seeds")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, serveCmd, listCmd, showCmd, plotCmd, analyzeCmd, phaseCmd,
		sweepCmd, exportCSVCmd, exportJSONCmd, snapshotCmd, presetsCmd, benchCmd)
	addTuneCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	fixSeed(cfg)
	logger := newLogger()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w, err := buildWorld(cfg, logger)
	if err != nil {
		return err
	}

	s := sim.New(w)
	s.SetLogger(logger)
	for _, m := range metrics.Standard() {
		s.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s with %d bodies...\n", name, len(w.Bodies))
	start := time.Now()

	result, err := s.Run(ctx, cfg.SimConfig())
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Warn("run interrupted, saving partial result", "steps", result.StepsTaken, "err", err)
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Preset:    name,
		Seed:      cfg.Seed,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Sides:     cfg.Sides,
		HexRadius: cfg.HexRadius(),
		Requested: cfg.Bodies,
		ShakeAt:   cfg.ShakeAt,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  shakes: %d  contacts: %d\n", result.StepsTaken, result.Shakes, result.Contacts)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	printMetrics(result.Metrics)

	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(cfg,
		viz.WithTitle(name),
		viz.WithTheme(theme),
		viz.WithGIFPath(gifPath),
	)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cfg, newLogger())
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sc := remote.DefaultServerConfig()
	sc.Address = listenAddr
	sc.HostKeyPath = hostKeyPath
	sc.Base = cfg
	sc.Theme = theme
	sc.RecordDir = recordDir

	srv, err := remote.NewServer(sc, newLogger())
	if err != nil {
		return err
	}
	return srv.ListenAndServe()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tBODIES\tSHAKES\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d/%d\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			len(run.Radii), run.Requested,
			run.Shakes,
			run.Seed,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(frames))

	series := []struct {
		caption string
		data    []float64
	}{
		{"kinetic energy", analysis.EnergySeries(frames)},
		{"container offset x", analysis.OffsetSeries(frames, 0)},
		{"container offset y", analysis.OffsetSeries(frames, 1)},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("need at least two samples")
	}
	sampleDt := frames[1].Time - frames[0].Time

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("sample interval: %.4fs\n\n", sampleDt)

	ps := analysis.PowerSpectrum(analysis.OffsetSeries(frames, 0))
	if len(ps) > 4 {
		graph := asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (offset x)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	for axis, label := range []string{"x", "y"} {
		freq := analysis.DominantFrequency(analysis.OffsetSeries(frames, axis), sampleDt)
		fmt.Printf("dominant frequency (%s): %.3f hz", label, freq)
		if freq > 0 {
			fmt.Printf("  period: %.3f s", 1.0/freq)
		}
		fmt.Println()
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	trace := analysis.OffsetTrace(frames)
	if traceBody >= 0 {
		if traceBody >= len(frames[0].Bodies) {
			return fmt.Errorf("run %s has %d bodies", meta.ID, len(frames[0].Bodies))
		}
		trace = analysis.BodyTrace(frames, traceBody)
	}

	fmt.Printf("trace: %s (%s)\n\n", meta.ID, trace.Label)
	fmt.Println(analysis.PhasePortraitToASCII(trace, 70, 24))

	if svgOut != "" {
		svg := export.TrajectoryToSVG(trace.Points, 600, 600, "#50a0dc")
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	fixSeed(cfg)
	logger := newLogger()

	// Each value starts from the same seeded world.
	build := func() (*physics.World, error) {
		return buildWorld(cfg, logger)
	}

	fmt.Printf("sweeping %s over [%.3g, %.3g] in %d steps...\n", sweepParam, sweepMin, sweepMax, sweepSteps)
	points, err := analysis.Sweep(build, sweepParam, sweepMin, sweepMax, sweepSteps, cfg.Dt, transient, record)
	if err != nil {
		return err
	}

	fmt.Println(analysis.SweepToASCII(points, 70, 20))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tMEAN_KE\tMAX_PENETRATION")
	for _, p := range points {
		fmt.Fprintf(w, "%.4f\t%.1f\t%.2e\n", p.Param, p.MeanEnergy, p.MaxPenetration)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteFramesCSV(os.Stdout, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, frames)
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	w, err := buildWorld(cfg, newLogger())
	if err != nil {
		return err
	}

	s := sim.New(w)
	simCfg := cfg.SimConfig()
	simCfg.Duration = float64(snapTicks) * cfg.Dt
	simCfg.SampleEvery = 0
	if snapTicks > 0 {
		if _, err := s.Run(context.Background(), simCfg); err != nil {
			return err
		}
	}

	svg := export.WorldToSVG(w, cfg.Width, cfg.Height)
	if svgOut == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s at t=%.2fs\n", svgOut, w.Time)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIDES\tBODIES\tWALL_E\tBODY_E\tSHAKE_K\tSHAKE_AT")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%.2f\t%.1f\t%v\n",
			name, p.Sides, p.Bodies, p.WallRestitution, p.BodyRestitution, p.Shake.K, p.ShakeAt)
	}
	return w.Flush()
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	fixSeed(cfg)
	logger := newLogger()

	build := func(seed int64) (*physics.World, error) {
		c := cfg.Clone()
		c.Seed = seed
		return buildWorld(c, logger)
	}

	simCfg := cfg.SimConfig()
	simCfg.SampleEvery = 0

	fmt.Printf("benchmarking %s: %d runs of %.1fs\n\n", name, benchRuns, cfg.Duration)
	start := time.Now()
	results, err := sim.NewEnsemble(build, metrics.Standard, benchRuns, cfg.Seed).Run(context.Background(), simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tCONTACTS\tMEAN_KE\tMAX_PEN\tCONTAINED")
	steps := 0
	for i, r := range results {
		steps += r.StepsTaken
		fmt.Fprintf(w, "%d\t%d\t%d\t%.1f\t%.2e\t%.3f\n",
			cfg.Seed+int64(i), r.StepsTaken, r.Contacts,
			r.Metrics["kinetic_energy"], r.Metrics["max_penetration"], r.Metrics["containment"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d steps in %v (%.0f steps/sec)\n", steps, elapsed, float64(steps)/elapsed.Seconds())
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
