package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/wavesim/internal/automation"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/experiment"
	"github.com/san-kum/wavesim/internal/optim"
	"github.com/san-kum/wavesim/internal/storage"
	"github.com/san-kum/wavesim/internal/wave"
)

var (
	sweepMin, sweepMax float64
	sweepSteps         int
	impulseForce       float64
	impulseRadius      float64

	benchSteps int

	tuneRanges  map[string]string
	tuneMetric  string
	tuneMaximum bool

	trials    int
	seedStart int64
)

func toolCommands() []*cobra.Command {
	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list weather presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tAMPLITUDE\tSTIFFNESS\tSPLASH/S\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.1f\t%s\n", name, p.Params.Amplitude, p.Params.Stiffness, p.Splash.Rate, p.Description)
			}
			return w.Flush()
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep one wave parameter and measure stability",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "minimum value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 10, "maximum value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")
	sweepCmd.Flags().Float64Var(&impulseForce, "force", 5, "impulse force at t=0")
	sweepCmd.Flags().Float64Var(&impulseRadius, "radius", config.DefaultRadius, "impulse radius")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the wave step",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchSteps, "steps", 100000, "steps to time")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search wave parameters against a metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringToStringVar(&tuneRanges, "range", nil, "candidates per parameter, name=v1|v2|v3")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "energy_growth", "metric to optimise")
	tuneCmd.Flags().BoolVar(&tuneMaximum, "maximize", false, "maximise the metric instead")
	tuneCmd.Flags().Float64Var(&impulseForce, "force", 5, "impulse force at t=0")
	tuneCmd.Flags().Float64Var(&impulseRadius, "radius", config.DefaultRadius, "impulse radius")

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run many random splash seeds",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSimFlags(mcCmd)
	mcCmd.Flags().IntVar(&trials, "trials", 16, "number of trials")
	mcCmd.Flags().Int64Var(&seedStart, "seed-start", 1, "first seed")

	return []*cobra.Command{presetsCmd, sweepCmd, scenarioCmd, benchCmd, tuneCmd, mcCmd}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sweep := &automation.ParameterSweep{
		Base:      cfg,
		ParamName: args[0],
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Force:     impulseForce,
		Radius:    impulseRadius,
	}
	results, err := automation.RunSweep(cmd.Context(), sweep)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTABILITY\tPEAK ENERGY\tMAX HEIGHT\tNON-FINITE\n", strings.ToUpper(args[0]))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.3f\t%.4f\t%.4f\t%d\n", r.ParamValue, r.Stability, r.PeakEnergy, r.MaxHeight, r.NonFinite)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("  %s\n", sc.Description)
	}

	results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	for i, r := range results {
		line := fmt.Sprintf("step %d (%s): %d steps, energy %.4f, max height %.4f",
			i+1, r.Step.Preset, r.Result.StepsTaken, r.Result.Metrics["energy"], r.Result.Metrics["max_height"])
		if r.Step.SaveAs != "" {
			id, err := st.Save(r.Experiment.Metadata(r.Step.SaveAs), r.Result)
			if err != nil {
				return err
			}
			line += " -> " + id
		}
		fmt.Println(line)
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	surf, err := wave.NewSurface(cfg.Grid.Resolution, cfg.Grid.Width, wave.ParamFunc(func() wave.Params { return cfg.Params }))
	if err != nil {
		return err
	}
	surf.AddImpulse(cfg.Grid.OriginX+cfg.Grid.Width/2, 5, config.DefaultRadius)

	start := time.Now()
	for i := 0; i < benchSteps; i++ {
		surf.Step(cfg.Dt)
	}
	elapsed := time.Since(start)

	perStep := elapsed / time.Duration(max(benchSteps, 1))
	fmt.Printf("nodes: %d\n", cfg.Grid.Resolution)
	fmt.Printf("steps: %d in %v\n", benchSteps, elapsed)
	fmt.Printf("per step: %v (%.1f ns/node)\n", perStep, float64(perStep.Nanoseconds())/float64(cfg.Grid.Resolution))
	fmt.Printf("realtime factor at dt=%.4f: %.0fx\n", cfg.Dt, cfg.Dt*float64(time.Second)/float64(max(perStep, 1)))
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(tuneRanges) == 0 {
		return fmt.Errorf("tune needs at least one --range")
	}
	spec := make(map[string][]float64, len(tuneRanges))
	for name, raw := range tuneRanges {
		for _, s := range strings.Split(raw, "|") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return fmt.Errorf("range %s: %w", name, err)
			}
			spec[name] = append(spec[name], v)
		}
	}

	objective := optim.Minimize(tuneMetric)
	if tuneMaximum {
		objective = optim.Maximize(tuneMetric)
	}
	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(tuneMetric); err != nil {
		return fmt.Errorf("%w (available: %v)", err, registry.ListMetrics())
	}

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := cfg.Clone()
		for name, v := range params {
			if err := c.Params.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		c.Impulses = append(c.Impulses, config.ImpulseConfig{
			X:      c.Grid.OriginX + c.Grid.Width/2,
			Force:  impulseForce,
			Radius: impulseRadius,
		})
		exp, err := experiment.New(c, nil, logger)
		if err != nil {
			return nil, err
		}
		exp.AddMetrics(registry.DefaultMetrics()...)
		return exp, nil
	}

	best, score, err := optim.ParseRanges(spec).Search(cmd.Context(), build, objective)
	if err != nil {
		return err
	}
	if tuneMaximum {
		score = -score
	}
	fmt.Printf("best %s: %.6f\n", tuneMetric, score)
	for _, name := range wave.ParamNames() {
		if v, ok := best[name]; ok {
			fmt.Printf("  %s = %g\n", name, v)
		}
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Splash.Rate == 0 && len(cfg.Impulses) == 0 {
		logger.Warn("no splashes or impulses configured; every trial stays flat")
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:      cfg,
		NumTrials: trials,
		SeedStart: seedStart,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSPLASHES\tMAX HEIGHT\tMEAN ENERGY\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.4f\t%v\n", r.Seed, r.Impulses, r.MaxHeight, r.MeanEnergy, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}
