package game

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/psychics/telemetry"
)

// recordGeneration feeds a finished generation to stats, the hall of fame,
// bookmarks and the output files.
func (g *Game) recordGeneration(report *GenerationReport) {
	if report.Best != nil && len(report.Fitness) > 0 {
		g.hallOfFame.Consider(report.Generation, int(report.BestID), floats.Max(report.Fitness), report.Best)
	}

	stats := telemetry.ComputeGenerationStats(telemetry.GenerationSample{
		Generation:         report.Generation,
		Fitness:            report.Fitness,
		Distances:          report.Distances,
		DistinctMotions:    report.DistinctMotions,
		DiversityThreshold: g.cfg.Fitness.DiversityThreshold,
		Selection:          report.Selection,
		BestID:             int(report.BestID),
	})
	perfStats := g.perf.Stats()
	g.perf.Reset()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		g.logGeneration(stats, perfStats)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteGeneration(stats); err != nil {
			slog.Error("failed to write generation", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, report.Generation); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if err := g.outputManager.WriteTraces(traceRecords(report)); err != nil {
			slog.Error("failed to write traces", "error", err)
		}
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// traceRecords flattens the shipped traces of a report into CSV rows.
func traceRecords(report *GenerationReport) []telemetry.TraceRecord {
	var n int
	for _, t := range report.Traces {
		n += len(t.Entries)
	}
	records := make([]telemetry.TraceRecord, 0, n)
	for _, t := range report.Traces {
		for turn, e := range t.Entries {
			records = append(records, telemetry.TraceRecord{
				Generation: report.Generation,
				CreatureID: int(t.ID),
				Kind:       t.Kind.String(),
				Turn:       turn,
				X:          e.Pos.X,
				Y:          e.Pos.Y,
				Species:    e.Species.String(),
			})
		}
	}
	return records
}
