package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/wavesim/internal/analysis"
	"github.com/san-kum/wavesim/internal/experiment"
	"github.com/san-kum/wavesim/internal/export"
	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/storage"
	"github.com/san-kum/wavesim/internal/stream"
	"github.com/san-kum/wavesim/internal/viz"
	"github.com/san-kum/wavesim/internal/wave"
	"github.com/san-kum/wavesim/internal/weather"
)

var (
	listenAddr string
	frameRate  float64
	samples    int
	wrapped    bool

	svgFrames int
	svgPhase  bool
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, nil, logger)
	if err != nil {
		return err
	}
	exp.AddMetrics(experiment.NewRegistry().DefaultMetrics()...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s surface (%d nodes, %.1fs)...\n", presetName(), cfg.Grid.Resolution, cfg.Duration)
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(exp.Metadata(presetName()), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  impulses: %d\n", result.StepsTaken, result.Impulses)
	if n := len(result.Errors); n > 0 {
		fmt.Printf("degenerate steps: %d (first: %v)\n", n, result.Errors[0])
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(cfg, presetName(), logger)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	clock := weather.NewClock(weather.Static(cfg.Params))
	surf, err := wave.NewSurface(cfg.Grid.Resolution, cfg.Grid.Width, clock,
		wave.WithLogger(logger),
		wave.WithOrigin(cfg.Grid.OriginX),
	)
	if err != nil {
		return err
	}

	scfg := stream.DefaultConfig()
	scfg.Dt = cfg.Dt
	scfg.FrameRate = frameRate
	scfg.Samples = samples
	scfg.Wrapped = wrapped
	srv, err := stream.New(sim.NewSyncSurface(surf), clock, scfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	httpSrv := &http.Server{Addr: listenAddr, Handler: srv.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()
	go func() { _ = srv.Run(ctx) }()

	logger.Info("serving", "addr", listenAddr, "preset", presetName(), "nodes", cfg.Grid.Resolution)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the probe series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the probe",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write recorded frames as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "write recorded profiles as SVG to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgFrames, "frames", 8, "number of frames to overlay")
	exportSVGCmd.Flags().BoolVar(&svgPhase, "phase", false, "draw the probe phase portrait instead")

	return []*cobra.Command{listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tNODES\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Resolution,
			run.Steps,
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
	_, heights, velocities, err := st.LoadProbe(args[0])
	if err != nil {
		return err
	}
	if len(heights) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(heights))

	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{fmt.Sprintf("height at x=%.2f", meta.Probe), heights},
		{"vertical velocity", velocities},
	} {
		if len(series.data) == 0 {
			continue
		}
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}

	frames, _, err := st.LoadFrames(args[0])
	if err == nil && len(frames) > 0 {
		last := frames[len(frames)-1]
		fmt.Println(asciigraph.Plot(last,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("final profile (dynamic height)"),
		))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, heights, velocities, err := st.LoadProbe(args[0])
	if err != nil {
		return err
	}

	f, err := analysis.DominantFrequency(heights, meta.Dt)
	if err != nil {
		return err
	}
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("dominant frequency: %.4f Hz (period %.3fs)\n", f, 1/f)

	spec := analysis.PowerSpectrum(heights, meta.Dt)
	if len(spec.Power) > 1 {
		n := min(len(spec.Power), 80)
		fmt.Println(asciigraph.Plot(spec.Power[1:n],
			asciigraph.Height(8),
			asciigraph.Caption("probe power spectrum"),
		))
	}

	frames, _, err := st.LoadFrames(args[0])
	if err == nil && len(frames) > 0 {
		spacing := meta.Width / float64(meta.Resolution-1)
		k, err := analysis.DominantFrequency(frames[len(frames)-1], spacing)
		if err == nil {
			fmt.Printf("dominant wavenumber (final frame): %.4f cycles/unit\n", k)
		}
	}

	fmt.Println("\nphase portrait (height vs velocity):")
	fmt.Println(analysis.PhasePortraitToASCII(analysis.NewPhasePortrait(heights, velocities), 60, 20))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	frames, times, err := storage.New(dataDir).LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.WriteFramesCSV(os.Stdout, times, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, frameTimes, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	times, heights, velocities, err := st.LoadProbe(args[0])
	if err != nil {
		return err
	}
	result := &sim.Result{
		Frames:        frames,
		FrameTimes:    frameTimes,
		Times:         times,
		Probe:         heights,
		ProbeVelocity: velocities,
		Metrics:       meta.Metrics,
		StepsTaken:    meta.Steps,
		Impulses:      meta.Impulses,
	}
	return storage.ExportJSON(os.Stdout, *meta, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	if svgPhase {
		_, heights, velocities, err := st.LoadProbe(args[0])
		if err != nil {
			return err
		}
		portrait := analysis.NewPhasePortrait(heights, velocities)
		pts := make([]export.Point, len(portrait.Points))
		for i, p := range portrait.Points {
			pts[i] = export.Point{X: p.H, Y: p.V}
		}
		_, err = fmt.Println(export.TrajectoryToSVG(pts, 600, 600, "#00ccff"))
		return err
	}

	frames, _, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", meta.ID)
	}
	// evenly spaced picks ending on the last frame
	n := max(1, min(svgFrames, len(frames)))
	picked := make([][]float64, 0, n)
	for i := n - 1; i >= 0; i-- {
		idx := len(frames) - 1 - i*(len(frames)-1)/max(n-1, 1)
		picked = append(picked, frames[idx])
	}
	spacing := meta.Width / float64(meta.Resolution-1)
	_, err = fmt.Println(export.FramesToSVG(picked, meta.OriginX, spacing, 800, 300, "#00ccff"))
	return err
}
