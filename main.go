package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/deformwatch/config"
	"github.com/pthm-cable/deformwatch/scenario"
	"github.com/pthm-cable/deformwatch/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	scenarioPath := flag.String("scenario", "", "Path to scenario YAML (empty = built-in drop scenario)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, event log and config snapshot")
	maxSteps := flag.Int("max-steps", 0, "Override scenario step count (0 = use scenario)")
	seed := flag.Int64("seed", 0, "Noise seed (0 = use config)")
	logPerf := flag.Bool("log-perf", false, "Log step timing via slog")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Scenario.Seed = *seed
	}

	sc, err := scenario.Load(*scenarioPath)
	if err != nil {
		slog.Error("failed to load scenario", "error", err)
		os.Exit(1)
	}
	if *maxSteps > 0 {
		sc.Steps = *maxSteps
	}

	if err := run(cfg, sc, *outputDir, *logPerf); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, sc *scenario.Scenario, outputDir string, logPerf bool) error {
	out, err := telemetry.NewOutputManager(outputDir, cfg.Telemetry.EventLog)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	runner, err := scenario.NewRunner(sc, cfg)
	if err != nil {
		return err
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	runner.SetPerf(perf)
	episodes := telemetry.NewEpisodeTracker()

	slog.Info("starting scenario",
		"scenario", sc.Name,
		"steps", sc.Steps,
		"bodies", len(sc.Bodies),
		"seed", cfg.Scenario.Seed,
		"output_dir", out.Dir(),
	)

	err = runner.Run(func(step uint64, events []telemetry.Event) error {
		episodes.Observe(events)
		if cfg.Telemetry.LogEvents {
			for _, ev := range events {
				ev.Log()
			}
		}
		if logPerf && step%uint64(cfg.Telemetry.PerfWindow) == 0 {
			slog.Info("perf", "step", step, "stats", perf.Stats())
		}
		return out.WriteEvents(events)
	})
	if err != nil {
		return err
	}

	episodes.LogSummary()
	if err := out.WriteEpisodes(episodes); err != nil {
		return err
	}

	slog.Info("scenario finished",
		"steps", runner.Detector().CurrentStep()-1,
		"episodes", len(episodes.Episodes()),
	)
	return out.Close()
}
