package game

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/pthm-cable/psychics/config"
	"github.com/pthm-cable/psychics/telemetry"
)

// Options configures a Game.
type Options struct {
	Seed      uint64 // RNG seed; the same seed and config replay the same run
	OutputDir string // directory for CSV logs and config snapshot, empty disables output
	LogStats  bool   // log per-generation stats via slog
	SeedHall  string // hall_of_fame.json whose networks replace the starting policies

	// StatsCallback, if set, receives every generation's summary.
	StatsCallback func(telemetry.GenerationStats)
}

// Game drives a simulation through its generations and feeds telemetry.
type Game struct {
	cfg *config.Config

	sim *Simulation
	evo *Evolution

	// Telemetry
	perf          *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	hallOfFame    *telemetry.HallOfFame
	bookmarks     *telemetry.BookmarkDetector
	logStats      bool
	statsCallback func(telemetry.GenerationStats)
}

// NewGame builds the first generation from a finalized config.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))

	sim, err := NewSimulation(ParamsFromConfig(cfg), rng)
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	g := &Game{cfg: cfg, sim: sim}
	if opts.SeedHall != "" {
		if err := g.seedFromHall(opts.SeedHall); err != nil {
			return nil, fmt.Errorf("seeding from hall of fame: %w", err)
		}
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir, cfg.Telemetry.ExportTraces)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g.evo = NewEvolution(sim)
	g.perf = telemetry.NewPerfCollector()
	g.outputManager = om
	g.hallOfFame = telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize)
	g.bookmarks = telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory, cfg.Telemetry.BreakthroughMultiplier)
	g.logStats = opts.LogStats
	g.statsCallback = opts.StatsCallback
	sim.SetPerf(g.perf)

	g.logStart(opts.Seed)
	return g, nil
}

// Step advances one turn. At the end of a generation it evolves instead and
// returns the report; otherwise the report is nil.
func (g *Game) Step() (*GenerationReport, error) {
	if g.sim.Phase() == PhaseEvolving {
		return g.evolve()
	}
	return nil, g.sim.Tick()
}

// RunGeneration plays out the remaining turns of the current generation
// and evolves.
func (g *Game) RunGeneration() (*GenerationReport, error) {
	for g.sim.Phase() == PhaseActive {
		if err := g.sim.Tick(); err != nil {
			return nil, fmt.Errorf("generation %d turn %d: %w", g.sim.Generation(), g.sim.Turn(), err)
		}
	}
	return g.evolve()
}

// Run plays n generations or until ctx is cancelled.
func (g *Game) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := g.RunGeneration(); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) evolve() (*GenerationReport, error) {
	report, err := g.evo.Evolve()
	if err != nil {
		return nil, fmt.Errorf("evolving generation %d: %w", g.sim.Generation(), err)
	}
	g.recordGeneration(report)
	return report, nil
}

// Simulation returns the running simulation.
func (g *Game) Simulation() *Simulation { return g.sim }

// HallOfFame returns the best networks recorded so far.
func (g *Game) HallOfFame() *telemetry.HallOfFame { return g.hallOfFame }

// Close writes the hall of fame and closes output files.
func (g *Game) Close() error {
	if err := g.outputManager.WriteHallOfFame(g.hallOfFame); err != nil {
		g.outputManager.Close()
		return err
	}
	return g.outputManager.Close()
}
