package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logger   = slog.Default()

	// run/live flags
	dt          float64
	duration    float64
	seed        int64
	resolution  int
	width       float64
	probe       float64
	recordEvery int
	splashRate  float64
	paramFlags  map[string]string
	impulseArgs []string
	configFile  string
	preset      string
)

// main registers the commands and executes the root. With no subcommand it
// opens the interactive preset picker.
func main() {
	rootCmd := &cobra.Command{
		Use:   "wavesim",
		Short: "1d surface wave simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			logger = l
			slog.SetDefault(l)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(logger)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".wavesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and record it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream a live surface over websockets",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	addSimFlags(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().Float64Var(&frameRate, "fps", 30, "frames broadcast per second")
	serveCmd.Flags().IntVar(&samples, "samples", 256, "points per frame")
	serveCmd.Flags().BoolVar(&wrapped, "wrapped", false, "sample with wrapped edges")

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd)
	rootCmd.AddCommand(runCommands()...)
	rootCmd.AddCommand(toolCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*slog.Logger, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv})), nil
}

func addSimFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().Float64Var(&dt, "dt", d.Dt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", d.Duration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for splashes")
	cmd.Flags().IntVar(&resolution, "resolution", d.Grid.Resolution, "grid nodes")
	cmd.Flags().Float64Var(&width, "width", d.Grid.Width, "grid width in world units")
	cmd.Flags().Float64Var(&probe, "probe", d.Probe, "probe position in world units")
	cmd.Flags().IntVar(&recordEvery, "record-every", d.RecordEvery, "record a frame every n ticks")
	cmd.Flags().Float64Var(&splashRate, "splash-rate", 0, "random splashes per second")
	cmd.Flags().StringToStringVar(&paramFlags, "param", nil, "wave parameter override, name=value")
	cmd.Flags().StringArrayVar(&impulseArgs, "impulse", nil, "scheduled impulse time:x:force[:radius]")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "weather preset")
}

// resolveConfig applies defaults, then the preset, then the config file, then
// any flag set explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if cfg, err = config.Parse(data, cfg); err != nil {
			return nil, err
		}
	}

	f := cmd.Flags()
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("time") {
		cfg.Duration = duration
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("resolution") {
		cfg.Grid.Resolution = resolution
	}
	if f.Changed("width") {
		cfg.Grid.Width = width
	}
	if f.Changed("probe") {
		cfg.Probe = probe
	}
	if f.Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}
	if f.Changed("splash-rate") {
		cfg.Splash.Rate = splashRate
	}
	for name, raw := range paramFlags {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", name, err)
		}
		if err := cfg.Params.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	for _, raw := range impulseArgs {
		imp, err := parseImpulse(raw)
		if err != nil {
			return nil, err
		}
		cfg.Impulses = append(cfg.Impulses, imp)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseImpulse reads "time:x:force[:radius]".
func parseImpulse(s string) (config.ImpulseConfig, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return config.ImpulseConfig{}, fmt.Errorf("impulse %q: want time:x:force[:radius]", s)
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return config.ImpulseConfig{}, fmt.Errorf("impulse %q: %w", s, err)
		}
		vals[i] = v
	}
	imp := config.ImpulseConfig{Time: vals[0], X: vals[1], Force: vals[2], Radius: config.DefaultRadius}
	if len(vals) == 4 {
		imp.Radius = vals[3]
	}
	return imp, nil
}

func presetName() string {
	if preset != "" {
		return preset
	}
	return "custom"
}
