package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/lensim/internal/automation"
	"github.com/san-kum/lensim/internal/config"
	"github.com/san-kum/lensim/internal/ensemble"
	"github.com/san-kum/lensim/internal/export"
	"github.com/san-kum/lensim/internal/geodesic"
	"github.com/san-kum/lensim/internal/integrators"
	"github.com/san-kum/lensim/internal/metrics"
	"github.com/san-kum/lensim/internal/optim"
	"github.com/san-kum/lensim/internal/physics"
	"github.com/san-kum/lensim/internal/storage"
	"github.com/san-kum/lensim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	mass       float64
	x0, y0     float64
	vx0, vy0   float64
	steps      int
	dlam       float64
	integrator string
	// trace
	noSave     bool
	jsonOut    bool
	plotPath   bool
	saveConfig string
	// fan
	fanRays      int
	fanWorkers   int
	fanDistance  float64
	fanSpeed     float64
	fanImpactMin float64
	fanImpactMax float64
	svgPath      string
	imagePath    string
	// critical
	rtol float64
	// montecarlo
	trials int
	dpos   float64
	dvel   float64
	seed   int64
	// live
	themeName string
	// export
	outPath string
	svgSize int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lensim",
		Short: "null geodesic tracer for Schwarzschild black holes",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "trace one photon and save the run",
		Args:  cobra.NoArgs,
		RunE:  runTrace,
	}
	addRayFlags(traceCmd)
	traceCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the run to the data directory")
	traceCmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON instead of a summary")
	traceCmd.Flags().BoolVar(&plotPath, "plot", false, "draw the path after the summary")
	traceCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved configuration to a yaml file")

	fanCmd := &cobra.Command{
		Use:   "fan",
		Short: "trace parallel rays across impact parameters",
		Args:  cobra.NoArgs,
		RunE:  runFan,
	}
	addRayFlags(fanCmd)
	fanCmd.Flags().IntVar(&fanRays, "rays", config.DefaultFanRays, "number of rays")
	fanCmd.Flags().IntVar(&fanWorkers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	fanCmd.Flags().Float64Var(&fanDistance, "distance", 60, "launch distance in rs")
	fanCmd.Flags().Float64Var(&fanSpeed, "speed", config.DefaultFanSpeed, "launch speed along +x")
	fanCmd.Flags().Float64Var(&fanImpactMin, "impact-min", -6, "smallest impact parameter in rs")
	fanCmd.Flags().Float64Var(&fanImpactMax, "impact-max", 6, "largest impact parameter in rs")
	fanCmd.Flags().StringVar(&svgPath, "svg", "", "write the fan to an SVG file")
	fanCmd.Flags().IntVar(&svgSize, "size", 800, "SVG image size in pixels")
	fanCmd.Flags().BoolVar(&plotPath, "plot", false, "draw the fan in the terminal")
	fanCmd.Flags().StringVar(&imagePath, "image", "", "save the fan as an image (png, svg or pdf by extension)")

	radiusCmd := &cobra.Command{
		Use:   "radius [mass]",
		Short: "derived quantities for a black hole mass in kg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRadius,
	}
	radiusCmd.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot radius along a saved trail and draw its path",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] ...",
		Short: "draw saved runs to an SVG file",
		Args:  cobra.MinimumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <first run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")

	exportPlotCmd := &cobra.Command{
		Use:   "export-plot [run_id] ...",
		Short: "save saved runs as an image (png, svg or pdf by extension)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  exportPlot,
	}
	exportPlotCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <first run_id>.png)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator] ...",
		Short: "trace the same ray with several integrators",
		RunE:  compareIntegrators,
	}
	addRayFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate a trace in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRayFlags(liveCmd)
	liveCmd.Flags().StringVar(&themeName, "theme", viz.ThemeNames()[0], "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	criticalCmd := &cobra.Command{
		Use:   "critical",
		Short: "locate the capture threshold in impact parameter by bisection",
		Args:  cobra.NoArgs,
		RunE:  runCritical,
	}
	addRayFlags(criticalCmd)
	criticalCmd.Flags().Float64Var(&fanDistance, "distance", 60, "launch distance in rs")
	criticalCmd.Flags().Float64Var(&fanSpeed, "speed", config.DefaultFanSpeed, "launch speed along +x")
	criticalCmd.Flags().Float64Var(&rtol, "rtol", 1e-3, "tolerance relative to the theoretical critical impact")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "trace every ray in a scenario file and save the runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the runs to the data directory")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "capture statistics for randomly perturbed launches",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addRayFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	monteCarloCmd.Flags().Float64Var(&dpos, "dpos", 1e4, "maximum launch position jitter in metres")
	monteCarloCmd.Flags().Float64Var(&dvel, "dvel", 1e3, "maximum launch velocity jitter")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = clock)")

	rootCmd.AddCommand(traceCmd, fanCmd, criticalCmd, scenarioCmd, monteCarloCmd, radiusCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, exportPlotCmd, presetsCmd, compareCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func addRayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "black hole mass in kg")
	cmd.Flags().Float64Var(&x0, "x", config.DefaultX, "launch x in metres")
	cmd.Flags().Float64Var(&y0, "y", 0, "launch y in metres")
	cmd.Flags().Float64Var(&vx0, "vx", 0, "launch dx/dλ")
	cmd.Flags().Float64Var(&vy0, "vy", config.DefaultVY, "launch dy/dλ")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "maximum integration steps")
	cmd.Flags().Float64Var(&dlam, "dlam", config.DefaultDlam, "affine parameter step")
	cmd.Flags().StringVar(&integrator, "integrator", integrators.Default, "integrator")
}

func newTracer() *geodesic.Tracer {
	tr := geodesic.NewTracer()
	for _, m := range metrics.Defaults() {
		tr.AddMetric(m)
	}
	return tr
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	bh, err := cfg.BlackHole()
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
		slog.Debug("config saved", "path", saveConfig)
	}

	start := time.Now()
	result, err := newTracer().Run(bh, cfg.Launch, cfg.Options())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	logDivergence(result)

	if jsonOut {
		return export.ExportJSONStdout(export.NewTraceData(cfg.Mass, cfg.Launch, cfg.Options(), result))
	}

	fmt.Println(viz.Title.Render(name))
	printResult(result)
	fmt.Println(viz.Field("elapsed", elapsed.String()))

	if plotPath {
		fmt.Println()
		fmt.Print(viz.RenderTrails([]*geodesic.Result{result}, result.Rs, 60, 24))
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(name, cfg.Mass, cfg.Launch, cfg.Options(), result)
	if err != nil {
		return err
	}
	slog.Debug("run saved", "dir", dataDir, "id", runID)
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func logDivergence(result *geodesic.Result) {
	if d := result.Divergence; d != nil {
		slog.Warn("trace stopped on a non-finite state", "step", d.Step, "lambda", d.Lambda)
	}
}

func printResult(result *geodesic.Result) {
	fmt.Println(viz.Field("outcome", viz.Outcome(result.HitHorizon)))
	fmt.Println(viz.Field("rs", fmt.Sprintf("%.3f m", result.Rs)))
	fmt.Println(viz.Field("energy", fmt.Sprintf("%.6g", result.E)))
	fmt.Println(viz.Field("steps", strconv.Itoa(result.StepsTaken)))
	fmt.Println(viz.Field("points", strconv.Itoa(len(result.Trail))))
	if len(result.Trail) > 0 {
		last := result.Trail[len(result.Trail)-1]
		fmt.Println(viz.Field("final r/rs", fmt.Sprintf("%.4f", last.Radius()/result.Rs)))
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(viz.Field(name, fmt.Sprintf("%.6g", result.Metrics[name])))
	}
}

func runFan(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	applyFanFlags(cmd, cfg)

	bh, err := cfg.BlackHole()
	if err != nil {
		return err
	}
	fan := cfg.FanFor(bh)
	if err := fan.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Debug("tracing fan", "rays", fan.Rays, "workers", cfg.Fan.Workers, "steps", cfg.Steps)
	start := time.Now()
	rays, err := ensemble.Trace(ctx, bh, fan.Launches(), cfg.Options(), cfg.Fan.Workers)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	results := make([]*geodesic.Result, len(rays))
	deflections := make([]float64, len(rays))
	for i, r := range rays {
		results[i] = r.Result
		logDivergence(r.Result)
		deflections[i] = math.NaN()
		if !r.Result.HitHorizon {
			deflections[i] = r.Result.Metrics["deflection"]
		}
	}

	sum := ensemble.Summarize(bh, rays)
	rs := bh.Radius()
	fmt.Println(viz.Title.Render("lensing fan"))
	fmt.Println(viz.Panel.Render(strings.Join([]string{
		viz.Field("rays", strconv.Itoa(sum.Rays)),
		viz.Field("captured", fmt.Sprintf("%d (%d diverged)", sum.Captured, sum.Diverged)),
		viz.Field("min escape b", formatRs(sum.MinEscapeImpact, rs)),
		viz.Field("max capture b", formatRs(sum.MaxCaptureImpact, rs)),
		viz.Field("critical b", formatRs(sum.CriticalImpact, rs)),
		viz.Field("max deflection", fmt.Sprintf("%.4f rad", sum.MaxDeflection)),
		viz.Field("elapsed", elapsed.String()),
		viz.Field("deflection", viz.Sparkline(deflections, min(len(deflections), 60))),
	}, "\n")))

	if plotPath {
		fmt.Println()
		fmt.Print(viz.RenderTrails(results, rs, 60, 24))
	}

	if svgPath != "" {
		if err := export.ExportSVG(svgPath, results, rs, svgSize); err != nil {
			return err
		}
		fmt.Println("\n" + viz.Subtle.Render("wrote " + svgPath))
	}
	if imagePath != "" {
		if err := export.ExportPlot(imagePath, "lensing fan", results, rs, 0); err != nil {
			return err
		}
		fmt.Println(viz.Subtle.Render("wrote " + imagePath))
	}
	return nil
}

func formatRs(v, rs float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f rs", v/rs)
}

func applyFanFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("rays") {
		cfg.Fan.Rays = fanRays
	}
	if flags.Changed("workers") {
		cfg.Fan.Workers = fanWorkers
	}
	if flags.Changed("distance") {
		cfg.Fan.Distance = fanDistance
	}
	if flags.Changed("speed") {
		cfg.Fan.Speed = fanSpeed
	}
	if flags.Changed("impact-min") {
		cfg.Fan.ImpactMin = fanImpactMin
	}
	if flags.Changed("impact-max") {
		cfg.Fan.ImpactMax = fanImpactMax
	}
}

func runCritical(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	applyFanFlags(cmd, cfg)

	bh, err := cfg.BlackHole()
	if err != nil {
		return err
	}
	fan := cfg.FanFor(bh)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	th, err := optim.CriticalImpact(ctx, bh, fan.Distance, fan.Speed, cfg.Options(), rtol)
	if err != nil {
		return err
	}
	slog.Debug("bisection finished", "iterations", th.Iterations, "lo", th.Lo, "hi", th.Hi)

	rs := bh.Radius()
	crit := bh.CriticalImpact()
	fmt.Println(viz.Title.Render("capture threshold"))
	fmt.Println(viz.Field("measured b", formatRs(th.Impact, rs)))
	fmt.Println(viz.Field("bracket", fmt.Sprintf("[%.5f, %.5f] rs", th.Lo/rs, th.Hi/rs)))
	fmt.Println(viz.Field("critical b", formatRs(crit, rs)))
	fmt.Println(viz.Field("error", fmt.Sprintf("%.3e", (th.Impact-crit)/crit)))
	fmt.Println(viz.Field("traces", strconv.Itoa(th.Iterations+2)))
	fmt.Println(viz.Field("elapsed", time.Since(start).String()))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcomes, err := automation.RunScenario(ctx, sc, func(i, n int, name string) {
		slog.Info("tracing", "ray", name, "index", i+1, "of", n)
	})
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME	STEPS	HORIZON	PERIAPSIS/RS	DEFLECTION	RUN")
	for _, o := range outcomes {
		logDivergence(o.Result)
		runID := "-"
		if !noSave {
			runID, err = st.Save(o.Name, o.Config.Mass, o.Config.Launch, o.Config.Options(), o.Result)
			if err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%t\t%.4f\t%.4f\t%s\n",
			o.Name,
			o.Result.StepsTaken,
			o.Result.HitHorizon,
			o.Result.Metrics["periapsis"]/o.Result.Rs,
			o.Result.Metrics["deflection"],
			runID,
		)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:      cfg,
		Position:  dpos,
		Velocity:  dvel,
		NumTrials: trials,
		Seed:      seed,
	})
	if err != nil {
		return err
	}

	captured, escaped := automation.MonteCarloStats(results)
	fmt.Println(viz.Title.Render("monte carlo: " + name))
	fmt.Println(viz.Field("trials", strconv.Itoa(len(results))))
	fmt.Println(viz.Field("captured", strconv.Itoa(captured)))
	fmt.Println(viz.Field("escaped", strconv.Itoa(escaped)))
	fmt.Println(viz.Field("capture rate", viz.ProgressBar(float64(captured)/float64(len(results)), 30)))
	fmt.Println(viz.Field("elapsed", time.Since(start).String()))
	return nil
}

func runRadius(cmd *cobra.Command, args []string) error {
	m := config.DefaultMass
	if len(args) == 1 {
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid mass %q: %w", args[0], err)
		}
		m = v
	}

	bh, err := physics.NewBlackHole(m)
	if err != nil {
		return err
	}

	if jsonOut {
		return export.WriteDerived(os.Stdout, bh)
	}

	fmt.Println(viz.Field("mass", fmt.Sprintf("%.6g kg", bh.Mass())))
	fmt.Println(viz.Field("rs", fmt.Sprintf("%.6g m", bh.Radius())))
	fmt.Println(viz.Field("photon sphere", fmt.Sprintf("%.6g m", bh.PhotonSphere())))
	fmt.Println(viz.Field("critical b", fmt.Sprintf("%.6g m", bh.CriticalImpact())))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println(viz.Subtle.Render("no runs found"))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tMASS\tSTEPS\tDLAM\tINTEG\tHORIZON")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3g\t%d/%d\t%g\t%s\t%t\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Mass,
			run.StepsTaken,
			run.Steps,
			run.Dlam,
			run.Integrator,
			run.HitHorizon,
		)
	}

	return w.Flush()
}

// loadRun rebuilds a result from a saved run.
func loadRun(st *storage.Store, runID string) (*storage.RunMetadata, *geodesic.Result, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	trail, err := st.LoadTrail(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &geodesic.Result{
		Trail:      trail,
		HitHorizon: meta.HitHorizon,
		Rs:         meta.Rs,
		E:          meta.EnergyValue(),
		StepsTaken: meta.StepsTaken,
		Diverged:   meta.Diverged,
		Metrics:    meta.Metrics,
	}, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	if len(result.Trail) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("outcome: %s\n", viz.Outcome(meta.HitHorizon))
	fmt.Printf("samples: %d\n\n", len(result.Trail))

	radii := make([]float64, len(result.Trail))
	for i, p := range result.Trail {
		radii[i] = p.Radius() / meta.Rs
	}

	graph := asciigraph.Plot(viz.Downsample(radii, 80),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("r / rs along the trail"),
	)
	fmt.Println(graph)
	fmt.Println()
	fmt.Print(viz.RenderTrails([]*geodesic.Result{result}, meta.Rs, 60, 24))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}

	opts := geodesic.Options{Steps: meta.Steps, StepSize: meta.Dlam, Integrator: meta.Integrator}
	data := export.NewTraceData(meta.Mass, meta.Launch, opts, result)
	if outPath == "" {
		return export.ExportJSONStdout(data)
	}
	if err := export.ExportJSON(outPath, data); err != nil {
		return err
	}
	fmt.Println(viz.Subtle.Render("wrote " + outPath))
	return nil
}

// loadRuns loads several runs for one picture. The first run's horizon
// is drawn.
func loadRuns(ids []string) ([]*geodesic.Result, float64, error) {
	st := storage.New(dataDir)
	results := make([]*geodesic.Result, 0, len(ids))
	rs := 0.0
	for _, id := range ids {
		meta, result, err := loadRun(st, id)
		if err != nil {
			return nil, 0, err
		}
		if rs != 0 && meta.Rs != rs {
			slog.Warn("runs use different masses; drawing the first horizon", "run", id)
		}
		if rs == 0 {
			rs = meta.Rs
		}
		results = append(results, result)
	}
	return results, rs, nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	results, rs, err := loadRuns(args)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := export.ExportSVG(path, results, rs, svgSize); err != nil {
		return err
	}
	fmt.Println(viz.Subtle.Render("wrote " + path))
	return nil
}

func exportPlot(cmd *cobra.Command, args []string) error {
	results, rs, err := loadRuns(args)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = args[0] + ".png"
	}
	if err := export.ExportPlot(path, args[0], results, rs, 0); err != nil {
		return err
	}
	fmt.Println(viz.Subtle.Render("wrote " + path))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMASS\tX\tY\tVX\tVY\tSTEPS\tDLAM")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.3g\t%.4g\t%.4g\t%.4g\t%.4g\t%d\t%g\n",
			name, p.Mass, p.Launch.X, p.Launch.Y, p.Launch.VX, p.Launch.VY, p.Steps, p.Dlam)
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	bh, err := cfg.BlackHole()
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	fmt.Printf("comparing integrators on %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tHORIZON\tENERGY DRIFT\tPERIAPSIS/RS\tDEFLECTION\tTIME")

	for _, integ := range names {
		opts := cfg.Options()
		opts.Integrator = integ

		start := time.Now()
		result, err := newTracer().Run(bh, cfg.Launch, opts)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%d\t%t\t%.3e\t%.4f\t%.4f\t%v\n",
			integ,
			result.StepsTaken,
			result.HitHorizon,
			result.Metrics["energy_drift"],
			result.Metrics["periapsis"]/result.Rs,
			result.Metrics["deflection"],
			elapsed,
		)
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	bh, err := cfg.BlackHole()
	if err != nil {
		return err
	}

	m, err := viz.NewModel(name, bh, cfg.Launch, cfg.Options())
	if err != nil {
		return err
	}
	return viz.Run(m.WithTheme(themeName))
}
