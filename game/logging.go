package game

import (
	"log/slog"

	"github.com/pthm-cable/psychics/telemetry"
)

func (g *Game) logStart(seed uint64) {
	if !g.logStats {
		return
	}
	slog.Info("simulation started",
		"seed", seed,
		"width", g.cfg.World.Width,
		"height", g.cfg.World.Height,
		"psychics", len(g.sim.Psychics()),
		"hylics", len(g.sim.Hylics()),
		"beacon", g.sim.Beacon().String(),
		"layers", g.cfg.Derived.Layers,
		"kit", string(g.cfg.Neural.Kit),
	)
}

func (g *Game) logGeneration(stats telemetry.GenerationStats, perf telemetry.PerfStats) {
	slog.Info("generation",
		"stats", stats,
		"perf", perf,
		"hall_of_fame", g.hallOfFame.Len(),
	)
}
