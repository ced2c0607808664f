package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/dropsim/internal/analysis"
	"github.com/san-kum/dropsim/internal/config"
	"github.com/san-kum/dropsim/internal/export"
	"github.com/san-kum/dropsim/internal/gui"
	"github.com/san-kum/dropsim/internal/metrics"
	"github.com/san-kum/dropsim/internal/sim"
	"github.com/san-kum/dropsim/internal/storage"
	"github.com/san-kum/dropsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFormat  string
	// run
	save bool
	// analyze
	minRise float64
	// export
	outFile   string
	svgWidth  int
	svgHeight int
	// sweep
	workers   int
	maxApexes int
)

// main runs the headless drop when no subcommand is given and exits with
// status 1 if the command fails.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "dropsim",
		Short:        "a sphere dropped onto a ground plane",
		Long:         "dropsim drops a sphere onto a ground plane and prints its height over time.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runHeadless,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".dropsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	addSimFlags(pf)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and report metrics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().BoolVar(&save, "save", false, "store the run in the data directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live terminal view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, "interactive")
			if err != nil {
				return err
			}
			defer e.log.Sync()
			return viz.Run(cmd.Context(), e.cfg.SimConfig(), e.log)
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, "interactive")
			if err != nil {
				return err
			}
			defer e.log.Sync()
			w := e.cfg.Window
			return gui.Run(cmd.Context(), e.cfg.SimConfig(), gui.Options{
				Width:  w.Width,
				Height: w.Height,
				FPS:    w.FPS,
				Title:  w.Title,
				Logger: e.log,
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&minRise, "min-rise", 0.05, "smallest apex above the radius counted as a bounce")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the height trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height-px", 400, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param] [value...]",
		Short: "run once per parameter value and compare bounces",
		Long:  "sweep runs the headless drop once per value. Parameters: " + fmt.Sprint(sim.ParamNames()),
		Args:  cobra.MinimumNArgs(2),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "worker pool size (0 uses every CPU)")
	sweepCmd.Flags().IntVar(&maxApexes, "apexes", 8, "apexes per value in the diagram")
	sweepCmd.Flags().Float64Var(&minRise, "min-rise", 0.05, "smallest apex above the radius counted as a bounce")

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, "")
			if err != nil {
				return err
			}
			if err := config.Save(args[0], e.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd, exportSVGCmd, presetsCmd, sweepCmd, initCmd)
	return rootCmd
}

// runHeadless streams the time series to stdout.
func runHeadless(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, "")
	if err != nil {
		return err
	}
	defer e.log.Sync()

	d, err := sim.New(e.cfg.SimConfig(), sim.WithLogger(e.log))
	if err != nil {
		return err
	}
	defer d.Close()

	sw := export.NewSeriesWriter(cmd.OutOrStdout())
	if err := sw.WriteHeader(e.cfg.Restitution); err != nil {
		return err
	}
	_, err = d.Run(cmd.Context(), sw.Emit)
	if ferr := sw.Flush(); err == nil {
		err = ferr
	}
	return err
}

func runSimulation(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, "")
	if err != nil {
		return err
	}
	defer e.log.Sync()

	sc := e.cfg.SimConfig()
	d, err := sim.New(sc, sim.WithLogger(e.log))
	if err != nil {
		return err
	}
	defer d.Close()
	for _, m := range metrics.Standard(sc) {
		d.AddMetric(m)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "running drop simulation...")
	start := time.Now()

	result, err := d.Run(cmd.Context(), nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "completed in %v\n", time.Since(start).Round(time.Millisecond))
	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(e.preset, sc, result)
		if err != nil {
			return err
		}
		e.log.Info("run stored", zap.String("id", runID), zap.String("dir", dataDir))
		fmt.Fprintf(out, "run id: %s\n", runID)
	}
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	fmt.Fprintf(out, "samples: %d\n", len(result.Times))
	printMetrics(out, result.Metrics)
	return nil
}

func printMetrics(w io.Writer, m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSTEPS\tSAMPLES\tR")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Samples,
			run.Restitution,
		)
	}
	return w.Flush()
}

type storedRun struct {
	meta   *storage.RunMetadata
	times  []float64
	states [][]float64
}

func loadRun(runID string) (*storedRun, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, err
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("run %s has no samples", runID)
	}
	return &storedRun{meta: meta, times: times, states: states}, nil
}

func column(states [][]float64, idx int) []float64 {
	out := make([]float64, len(states))
	for i, s := range states {
		if idx < len(s) {
			out[i] = s[idx]
		}
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	run, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", run.meta.ID)
	fmt.Fprintf(out, "samples: %d\n\n", len(run.states))

	for _, p := range []struct {
		idx     int
		caption string
	}{
		{1, "height"},
		{4, "vertical velocity"},
	} {
		graph := asciigraph.Plot(column(run.states, p.idx),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	run, err := loadRun(args[0])
	if err != nil {
		return err
	}

	heights := storage.Heights(run.states)
	report := analysis.Analyze(run.times, heights, run.meta.Radius, minRise)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "bounce analysis: %s\n\n", run.meta.ID)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "APEX\tTIME\tHEIGHT\tRESTITUTION")
	for i, a := range report.Apexes {
		e := "-"
		if i > 0 {
			e = strconv.FormatFloat(report.Restitutions[i-1], 'f', 4, 64)
		}
		fmt.Fprintf(w, "%d\t%.3f\t%.4f\t%s\n", i, a.Time, a.Value, e)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nground contacts: %d\n", len(report.Contacts))
	fmt.Fprintf(out, "mean restitution: %.4f (header label %g)\n", report.MeanRestitution, run.meta.Restitution)
	fmt.Fprintf(out, "max penetration: %.4f\n\n", report.MaxPenetration)

	portrait := analysis.GeneratePhasePortrait(heights, column(run.states, 4))
	fmt.Fprintln(out, "height / vertical velocity:")
	fmt.Fprintln(out, analysis.PhasePortraitToASCII(portrait, 60, 20))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// output opens --output, or stdout when it is empty.
func output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	run, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, closeFn, err := output(cmd)
	if err != nil {
		return err
	}
	if err := export.WriteCSV(w, run.times, run.states); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	run, err := loadRun(args[0])
	if err != nil {
		return err
	}
	points := export.HeightPoints(run.times, storage.Heights(run.states))
	svg := export.TrajectoryToSVG(points, svgWidth, svgHeight, "#4a9eff", run.meta.Radius)
	if svg == "" {
		return fmt.Errorf("run %s has too few samples to draw", args[0])
	}

	w, closeFn, err := output(cmd)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, svg); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDT\tDURATION\tHEIGHT\tRADIUS\tGRAVITY\tR")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t%g\n",
			name, c.Dt, c.Duration, c.Ball.Height, c.Ball.Radius, c.Gravity, c.Restitution)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	param := args[0]
	values := make([]float64, 0, len(args)-1)
	for _, a := range args[1:] {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", a, err)
		}
		values = append(values, v)
	}

	e, err := setup(cmd, "")
	if err != nil {
		return err
	}
	defer e.log.Sync()

	runs, err := sim.Sweep(cmd.Context(), e.cfg.SimConfig(), param, values, sim.SweepOptions{
		Workers: workers,
		Metrics: metrics.Standard,
		Logger:  e.log,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tBOUNCES\tMEAN R\tMAX PEN\tENERGY GAIN\tERROR\n", param)
	for _, run := range runs {
		if run.Err != nil {
			fmt.Fprintf(w, "%g\t-\t-\t-\t-\t%v\n", run.Value, run.Err)
			continue
		}
		report := analysis.Analyze(run.Result.Times, run.Result.Heights(), run.Config.Radius, minRise)
		m := run.Result.Metrics
		fmt.Fprintf(w, "%g\t%g\t%.4f\t%.4f\t%.4g\t\n",
			run.Value, m["bounces"], report.MeanRestitution, m["max_penetration"], m["energy_gain"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if diagram := analysis.BifurcationToASCII(analysis.ApexDiagram(runs, minRise, maxApexes), 60, 16); diagram != "" {
		fmt.Fprintf(out, "\napex heights per %s:\n%s", param, diagram)
	}
	return nil
}
