package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/experiment"
	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/weather"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a preset, parameter overrides, weather keyframes
// and scheduled impulses.
type ScenarioStep struct {
	Preset    string                 `yaml:"preset"`
	Duration  float64                `yaml:"duration"`
	Dt        float64                `yaml:"dt"`
	Seed      int64                  `yaml:"seed"`
	Params    map[string]float64     `yaml:"params"`
	Keyframes []KeyframeSpec         `yaml:"keyframes"`
	Impulses  []config.ImpulseConfig `yaml:"impulses"`
	SaveAs    string                 `yaml:"save_as"`
}

// KeyframeSpec overrides parameters of the step's base set at Time.
type KeyframeSpec struct {
	Time   float64            `yaml:"time"`
	Params map[string]float64 `yaml:"params"`
}

// StepResult pairs a finished step with the experiment that produced it.
type StepResult struct {
	Step       ScenarioStep
	Experiment *experiment.Experiment
	Result     *sim.Result
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

// BuildStep resolves a step into a config and its weather source.
func BuildStep(step ScenarioStep) (*config.Config, weather.Source, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	}
	if step.Duration > 0 {
		cfg.Duration = step.Duration
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	cfg.Seed = step.Seed
	cfg.Impulses = append(cfg.Impulses, step.Impulses...)

	for _, k := range sortedKeys(step.Params) {
		if err := cfg.Params.SetParam(k, step.Params[k]); err != nil {
			return nil, nil, err
		}
	}
	if len(step.Keyframes) == 0 {
		return cfg, nil, nil
	}

	frames := make([]weather.Keyframe, 0, len(step.Keyframes))
	for _, kf := range step.Keyframes {
		p := cfg.Params
		for _, k := range sortedKeys(kf.Params) {
			if err := p.SetParam(k, kf.Params[k]); err != nil {
				return nil, nil, fmt.Errorf("keyframe at t=%.3f: %w", kf.Time, err)
			}
		}
		frames = append(frames, weather.Keyframe{Time: kf.Time, Params: p})
	}
	sched, err := weather.NewSchedule(frames)
	if err != nil {
		return nil, nil, err
	}
	return cfg, sched, nil
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "preset", step.Preset)

		cfg, src, err := BuildStep(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.New(cfg, src, logger)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		exp.AddMetrics(registry.DefaultMetrics()...)

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Experiment: exp, Result: result})
	}

	return results, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
