package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/avollmer/pendlab/internal/config"
	"github.com/avollmer/pendlab/internal/export"
	"github.com/avollmer/pendlab/internal/integrators"
	"github.com/avollmer/pendlab/internal/metrics"
	"github.com/avollmer/pendlab/internal/ode"
	"github.com/avollmer/pendlab/internal/runner"
	"github.com/avollmer/pendlab/internal/storage"
	"github.com/avollmer/pendlab/internal/viz"
)

var (
	dataDir  string
	dt       float64
	duration float64
	length   float64
	gravity  float64
	mass     float64
	drag     float64
	theta0   float64 // degrees
	phi0     float64 // degrees
	omega0   float64
	thetaDot float64
	phiDot   float64
	forceX   float64
	forceY   float64
	forceZ   float64
	output   string
	// Config file and preset
	configFile string
	preset     string
	// SVG outputs
	outFloor  string
	outWall   string
	outSeries string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pendlab",
		Short: "pendulum simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pendlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a simulation and store the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [model]",
		Short: "simulate and export A4 floor/wall projections as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	addRunFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVar(&outFloor, "out-floor", "floor_projection.svg", "output SVG for the floor projection")
	exportSVGCmd.Flags().StringVar(&outWall, "out-wall", "wall_projection.svg", "output SVG for the wall projection")
	exportSVGCmd.Flags().StringVar(&outSeries, "out-series", "", "optional output SVG for the derived series")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [model]",
		Short: "compare RK4 against forward Euler on the same run",
		Args:  cobra.ExactArgs(1),
		RunE:  compareIntegrators,
	}
	addRunFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "animate a run interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, compareCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "step size (s)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	cmd.Flags().Float64Var(&length, "length", config.DefaultLength, "pendulum length (m)")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational acceleration (m/s^2)")
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "bob mass (kg)")
	cmd.Flags().Float64Var(&drag, "drag", 0.0, "linear drag coefficient")
	cmd.Flags().Float64Var(&theta0, "theta0", config.DefaultTheta0, "initial angle from vertical (deg)")
	cmd.Flags().Float64Var(&phi0, "phi0", 0.0, "initial azimuth (deg, 3d)")
	cmd.Flags().Float64Var(&omega0, "omega0", 0.0, "initial angular velocity (rad/s, 2d)")
	cmd.Flags().Float64Var(&thetaDot, "theta-dot0", 0.0, "initial polar angular velocity (rad/s, 3d)")
	cmd.Flags().Float64Var(&phiDot, "phi-dot0", 0.0, "initial azimuthal angular velocity (rad/s, 3d)")
	cmd.Flags().Float64Var(&forceX, "force-x", 0.0, "impulse along x (momentum delta)")
	cmd.Flags().Float64Var(&forceY, "force-y", 0.0, "impulse along y (momentum delta)")
	cmd.Flags().Float64Var(&forceZ, "force-z", 0.0, "impulse along z (momentum delta)")
	cmd.Flags().StringVar(&output, "output", "angle", "derived series: angle|velocity|acceleration|energy")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildParams merges preset, config file and CLI flags into run parameters.
// CLI flags win over the config file, the config file wins over the preset.
func buildParams(cmd *cobra.Command, modelName string) (runner.Params, error) {
	model, err := runner.ParseModel(modelName)
	if err != nil {
		return runner.Params{}, err
	}

	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(model.String(), preset)
		if p == nil {
			return runner.Params{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model.String()))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return runner.Params{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	params := runner.Params{
		Model:     model,
		Length:    cfg.Physical.Length,
		Gravity:   cfg.Physical.Gravity,
		Mass:      cfg.Physical.Mass,
		Drag:      cfg.Physical.Drag,
		Theta0Deg: cfg.Initial.Theta0Deg,
		Phi0Deg:   cfg.Initial.Phi0Deg,
		Omega0:    cfg.Initial.Omega0,
		ThetaDot0: cfg.Initial.ThetaDot0,
		PhiDot0:   cfg.Initial.PhiDot0,
		ForceX:    cfg.Impulse.ForceX,
		ForceY:    cfg.Impulse.ForceY,
		ForceZ:    cfg.Impulse.ForceZ,
		StepSize:  cfg.Dt,
		Duration:  cfg.Duration,
	}
	if cfg.Output != "" && !cmd.Flags().Changed("output") {
		output = cfg.Output
	}

	override := func(name string, dst *float64, src float64) {
		if cmd.Flags().Changed(name) {
			*dst = src
		}
	}
	override("dt", &params.StepSize, dt)
	override("time", &params.Duration, duration)
	override("length", &params.Length, length)
	override("gravity", &params.Gravity, gravity)
	override("mass", &params.Mass, mass)
	override("drag", &params.Drag, drag)
	override("theta0", &params.Theta0Deg, theta0)
	override("phi0", &params.Phi0Deg, phi0)
	override("omega0", &params.Omega0, omega0)
	override("theta-dot0", &params.ThetaDot0, thetaDot)
	override("phi-dot0", &params.PhiDot0, phiDot)
	override("force-x", &params.ForceX, forceX)
	override("force-y", &params.ForceY, forceY)
	override("force-z", &params.ForceZ, forceZ)

	return params, nil
}

func stateColumns(rep runner.Representation) []string {
	switch rep {
	case runner.Planar:
		return []string{"theta", "omega"}
	case runner.Spherical:
		return []string{"theta", "phi", "theta_dot", "phi_dot"}
	default:
		return []string{"x", "y", "z", "vx", "vy", "vz"}
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	params, err := buildParams(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", params.Model)
	start := time.Now()

	run, err := runner.Execute(context.Background(), params)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	paramsMap := map[string]float64{
		"length": params.Length, "gravity": params.Gravity, "mass": params.Mass,
		"drag": params.Drag, "theta0_deg": params.Theta0Deg, "phi0_deg": params.Phi0Deg,
		"force_x": params.ForceX, "force_y": params.ForceY, "force_z": params.ForceZ,
	}
	runID, err := st.Save(params.Model.String(), run.Representation.String(),
		params.StepSize, params.Duration, paramsMap, stateColumns(run.Representation), run.Result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("representation: %s\n", run.Representation)
	fmt.Printf("samples: %d\n", len(run.Result.States))
	for _, w := range run.Result.Warnings {
		fmt.Printf("warning: %v\n", w)
	}
	fmt.Println("\nmetrics:")
	for name, val := range run.Result.Metrics {
		fmt.Printf("  %s: %.6e\n", name, val)
	}

	q, err := runner.ParseQuantity(output)
	if err != nil {
		return err
	}
	series := run.Series(q)
	graph := asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s vs time", q)),
	)
	fmt.Println()
	fmt.Println(graph)

	return nil
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
	fmt.Fprintln(w, "ID\tMODEL\tREPR\tTIME\tDURATION\tDT\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%.2e\n",
			run.ID,
			run.Model,
			run.Representation,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, _, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s (%s)\n", meta.Model, meta.Representation)
	fmt.Printf("samples: %d\n\n", len(states))

	rep := meta.Representation
	columns := []string{"theta", "omega"}
	switch rep {
	case "spherical":
		columns = []string{"theta", "phi", "theta_dot", "phi_dot"}
	case "cartesian":
		columns = []string{"x", "y", "z", "vx", "vy", "vz"}
	}

	for varIdx := 0; varIdx < len(states[0]) && varIdx < len(columns); varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs time", columns[varIdx])),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, times, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for i := range states[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 9, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, times, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, states, times)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	params, err := buildParams(cmd, args[0])
	if err != nil {
		return err
	}

	run, err := runner.Execute(context.Background(), params)
	if err != nil {
		return err
	}
	for _, w := range run.Result.Warnings {
		fmt.Printf("warning: %v\n", w)
	}

	points := run.Positions()
	if err := export.WriteProjections(outFloor, outWall, points); err != nil {
		return err
	}
	fmt.Printf("wrote %s and %s\n", outFloor, outWall)

	if outSeries != "" {
		q, err := runner.ParseQuantity(output)
		if err != nil {
			return err
		}
		svg := export.SeriesSVG(run.Result.Times, run.Series(q), 800, 400, "#00ff00")
		if err := os.WriteFile(outSeries, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outSeries)
	}

	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	params, err := buildParams(cmd, args[0])
	if err != nil {
		return err
	}

	dyn, x0, rep, err := runner.Build(params)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s/%s (dt=%.4f, duration=%.1fs)\n\n",
		params.Model, rep, params.StepSize, params.Duration)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL_ANGLE\tENERGY_DRIFT\tTIME")

	steppers := []struct {
		name  string
		integ ode.Integrator
	}{
		{"rk4", integrators.NewRK4()},
		{"euler", integrators.NewEuler()},
	}

	for _, s := range steppers {
		sim := ode.New(dyn, s.integ)
		sim.AddMetric(metrics.NewDrift(dyn))

		start := time.Now()
		result, err := sim.Run(context.Background(), x0, ode.Config{Dt: params.StepSize, Duration: params.Duration})
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", s.name, err)
			continue
		}

		finalAngle := 0.0
		if obs, ok := dyn.(metrics.AngularObservable); ok {
			_, final := result.Final()
			finalAngle = obs.Angle(final)
		}

		fmt.Fprintf(w, "%s\t%.6f\t%.2e\t%v\n", s.name, finalAngle, result.Metrics["energy_drift"], elapsed)
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	params, err := buildParams(cmd, args[0])
	if err != nil {
		return err
	}

	m, err := viz.NewModel(params)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
