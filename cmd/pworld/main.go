package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/pworld/internal/config"
	"github.com/san-kum/pworld/internal/export"
	"github.com/san-kum/pworld/internal/metrics"
	"github.com/san-kum/pworld/internal/scenario"
	"github.com/san-kum/pworld/internal/storage"
	"github.com/san-kum/pworld/internal/viz"
)

var (
	dataDir     string
	logLevel    string
	logFormat   string
	configFile  string
	dt          float64
	frames      int
	maxContacts int
	iterations  int
	collectGap  int
	seed        int64
	noSave      bool
	frameRate   int
	field       string
	numRuns     int
	outFile     string
)

// main registers the pworld commands and executes the root command, exiting
// with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "pworld",
		Short:        "particle world simulation lab",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pworld", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console or json)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scenario with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark a scenario across contact budgets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	addScenarioFlags(benchCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [preset]",
		Short: "run a scenario under consecutive seeds in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addScenarioFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeded runs")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [preset]",
		Short: "render the world after --frames frames as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	addScenarioFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&field, "field", "contacts", "series to plot (contacts, lowest_y, kinetic_energy, max_penetration, effects)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export one series of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&field, "field", "lowest_y", "series to export")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenario presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, ensembleCmd, snapshotCmd,
		listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml or toml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame duration")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames")
	cmd.Flags().IntVar(&maxContacts, "max-contacts", config.DefaultMaxContacts, "contact budget per frame")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "resolver iterations (0 = twice the contacts)")
	cmd.Flags().IntVar(&collectGap, "collect-gap", config.DefaultCollectGap, "expired effects tolerated before a sweep")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for effect bursts")
}

// loadScenario resolves the preset, then the config file, then any flags
// the user set explicitly.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := "drop"
	if len(args) > 0 {
		name = args[0]
	}

	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg, err = config.GetPreset(name)
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("frames") {
		cfg.Frames = frames
	}
	if cmd.Flags().Changed("max-contacts") {
		cfg.MaxContacts = maxContacts
	}
	if cmd.Flags().Changed("iterations") {
		cfg.Iterations = iterations
	}
	if cmd.Flags().Changed("collect-gap") {
		cfg.CollectGap = collectGap
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, cfg.Validate()
}

func newLogger(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)

	return zapCfg.Build()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	log, err := newLogger(logLevel, logFormat)
	if err != nil {
		return err
	}
	defer log.Sync()

	r, err := scenario.New(cfg, log)
	if err != nil {
		return err
	}
	for _, m := range metrics.Defaults() {
		r.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := r.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d\n", len(result.Samples))

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Scenario:    cfg.Name,
			Seed:        cfg.Seed,
			Dt:          cfg.Dt,
			MaxContacts: cfg.MaxContacts,
			Iterations:  cfg.Iterations,
		}, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println("\nmetrics:")
	for _, name := range scenario.MetricNames(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	// The terminal belongs to the TUI; log nothing below errors.
	log, err := newLogger("error", logFormat)
	if err != nil {
		return err
	}
	defer log.Sync()

	r, err := scenario.New(cfg, log)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(r, frameRate))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	budgets := benchBudgets(cfg.MaxContacts)

	fmt.Printf("benchmarking %s (%d frames)\n\n", cfg.Name, cfg.Frames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MAX_CONTACTS\tITERATIONS\tTIME\tFRAMES/SEC\tTRUNCATED")

	for _, budget := range budgets {
		c := *cfg
		c.MaxContacts = budget

		r, err := scenario.New(&c, nil)
		if err != nil {
			return err
		}
		trunc := metrics.NewTruncation()
		r.AddMetric(trunc)

		start := time.Now()
		result, err := r.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		iters := "auto"
		if c.Iterations > 0 {
			iters = fmt.Sprintf("%d", c.Iterations)
		}
		fmt.Fprintf(w, "%d\t%s\t%v\t%.0f\t%.0f\n",
			budget, iters, elapsed, float64(len(result.Samples))/elapsed.Seconds(), trunc.Value())
	}

	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	if numRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	log, err := newLogger(logLevel, logFormat)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := scenario.NewEnsemble(cfg, numRuns, cfg.Seed, metrics.Defaults, log).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%d runs of %s in %v\n\n", numRuns, cfg.Name, time.Since(start))
	mean := scenario.MeanMetrics(results)
	for _, name := range scenario.MetricNames(mean) {
		fmt.Printf("  %s: %.6f\n", name, mean[name])
	}
	return nil
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	r, err := scenario.New(cfg, nil)
	if err != nil {
		return err
	}
	if _, err := r.Run(context.Background()); err != nil {
		return err
	}

	c := viz.NewCanvas(80, 24)
	viz.Render(c, r.World())
	return writeOutput(export.CanvasToSVG(c, 4))
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	data, err := seriesOf(samples, field)
	if err != nil {
		return err
	}
	svg := export.SeriesToSVG(data, 800, 300, "#58a6ff")
	if svg == "" {
		return fmt.Errorf("no data to export")
	}
	return writeOutput(svg)
}

func writeOutput(s string) error {
	if outFile == "" {
		_, err := fmt.Println(s)
		return err
	}
	if err := os.WriteFile(outFile, []byte(s+"\n"), 0644); err != nil {
		return err
	}
	fmt.Printf("written to %s\n", outFile)
	return nil
}

// benchBudgets returns the configured budget followed by the standard
// ones, without repeats.
func benchBudgets(configured int) []int {
	budgets := []int{configured}
	for _, b := range []int{8, 32, 128} {
		if b != configured {
			budgets = append(budgets, b)
		}
	}
	return budgets
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tFRAMES\tDT\tMAX_CONTACTS\tITERATIONS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Dt,
			run.MaxContacts,
			run.Iterations,
		)
	}
	return w.Flush()
}

func seriesOf(samples []scenario.Sample, name string) ([]float64, error) {
	data := make([]float64, len(samples))
	for i, s := range samples {
		switch name {
		case "contacts":
			data[i] = float64(s.Stats.Contacts)
		case "lowest_y":
			data[i] = s.LowestY
		case "kinetic_energy":
			data[i] = s.KineticEnergy
		case "max_penetration":
			data[i] = s.Stats.MaxPenetration
		case "effects":
			data[i] = float64(s.Stats.Effects)
		default:
			return nil, fmt.Errorf("unknown field: %s", name)
		}
	}
	return data, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	data, err := seriesOf(samples, field)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("frames: %d\n\n", len(samples))

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(field+" vs frame"),
	)
	fmt.Println(graph)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteFrames(os.Stdout, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, samples)
}
