package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/integrii/flaggy"

	"github.com/pthm-cable/psychics/config"
	"github.com/pthm-cable/psychics/game"
	"github.com/pthm-cable/psychics/telemetry"
	"github.com/pthm-cable/psychics/view"
)

func main() {
	var (
		configPath  string
		seed        uint64
		generations int
		outputDir   string
		seedHall    string
		render      bool
		color       = true
		logStats    bool
		quiet       bool
	)

	flaggy.SetName("psychics")
	flaggy.SetDescription("Evolve neural agents that hunt a beacon through generated caves")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&configPath, "c", "config", "Path to config.yaml (empty = use defaults)")
	flaggy.UInt64(&seed, "s", "seed", "RNG seed (0 = time-based)")
	flaggy.Int(&generations, "g", "generations", "Generations to run (0 = use config)")
	flaggy.String(&outputDir, "o", "output-dir", "Output directory for CSV logs and config snapshot")
	flaggy.String(&seedHall, "f", "seed-hall", "Start from the networks in a saved hall_of_fame.json")
	flaggy.Bool(&render, "r", "render", "Print the map after the last generation")
	flaggy.Bool(&color, "", "color", "Colorize console output")
	flaggy.Bool(&logStats, "l", "log-stats", "Output stats via slog")
	flaggy.Bool(&quiet, "q", "quiet", "Suppress the per-generation summary line")
	flaggy.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if generations == 0 {
		generations = cfg.Simulation.Generations
	}

	opts := game.Options{
		Seed:      seed,
		OutputDir: outputDir,
		LogStats:  logStats,
		SeedHall:  seedHall,
	}
	if !quiet {
		opts.StatsCallback = func(s telemetry.GenerationStats) {
			view.RenderStats(os.Stderr, s, color)
		}
	}

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting simulation",
		"seed", seed,
		"generations", generations,
		"max_turns", cfg.Simulation.MaxTurns,
		"output_dir", outputDir,
	)

	// Run one generation at a time; generations == 0 in config means until interrupted.
	runErr := func() error {
		for i := 0; generations == 0 || i < generations; i++ {
			if err := g.Run(ctx, 1); err != nil {
				return err
			}
		}
		return nil
	}()
	if errors.Is(runErr, context.Canceled) {
		slog.Info("interrupted", "generation", g.Simulation().Generation())
		runErr = nil
	}

	if render {
		view.RenderMap(os.Stderr, g.Simulation().Snapshot(), color)
	}

	if best, ok := g.HallOfFame().Best(); ok {
		slog.Info("best psychic",
			"generation", best.Generation,
			"psychic", best.PsychicID,
			"fitness", best.Fitness,
		)
	}

	if err := g.Close(); err != nil {
		slog.Error("failed to write output", "error", err)
		os.Exit(1)
	}
	if runErr != nil {
		slog.Error("simulation failed", "error", runErr)
		os.Exit(1)
	}
}
