package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation tick.
const (
	PhaseHylics   = "hylics"
	PhasePsychics = "psychics"
	PhaseEffects  = "effects"
	PhaseTiles    = "tiles"
)

var phaseOrder = []string{PhaseHylics, PhasePsychics, PhaseEffects, PhaseTiles}

// PerfCollector accumulates tick timings for the running generation.
// All methods are no-ops on a nil collector.
type PerfCollector struct {
	ticks  int
	total  time.Duration
	phases map[string]time.Duration

	tickStart  time.Time
	phaseStart time.Time
	phase      string
}

// NewPerfCollector creates an empty collector.
func NewPerfCollector() *PerfCollector {
	return &PerfCollector{phases: make(map[string]time.Duration)}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	if p == nil {
		return
	}
	p.tickStart = time.Now()
	p.phase = ""
}

// StartPhase closes the running phase, if any, and starts timing the next.
func (p *PerfCollector) StartPhase(phase string) {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

// EndTick closes the last phase and adds the tick to the totals.
func (p *PerfCollector) EndTick() {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.phase = ""
	p.total += now.Sub(p.tickStart)
	p.ticks++
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// Reset drops the totals so the next generation is timed on its own.
func (p *PerfCollector) Reset() {
	if p == nil {
		return
	}
	p.ticks = 0
	p.total = 0
	clear(p.phases)
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	Ticks           int
	AvgTickDuration time.Duration
	PhaseAvg        map[string]time.Duration
	PhasePct        map[string]float64 // share of the average tick, 0..100
	TicksPerSecond  float64
}

// Stats averages the ticks recorded since the last Reset.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p == nil || p.ticks == 0 {
		return stats
	}

	n := time.Duration(p.ticks)
	stats.Ticks = p.ticks
	stats.AvgTickDuration = p.total / n
	for phase, sum := range p.phases {
		avg := sum / n
		stats.PhaseAvg[phase] = avg
		if stats.AvgTickDuration > 0 {
			stats.PhasePct[phase] = float64(avg) / float64(stats.AvgTickDuration) * 100
		}
	}
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}
	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	Generation  int     `csv:"generation"`
	Ticks       int     `csv:"ticks"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	HylicsPct   float64 `csv:"hylics_pct"`
	PsychicsPct float64 `csv:"psychics_pct"`
	EffectsPct  float64 `csv:"effects_pct"`
	TilesPct    float64 `csv:"tiles_pct"`
}

// ToCSV flattens the stats for perf.csv.
func (s PerfStats) ToCSV(generation int) PerfStatsCSV {
	return PerfStatsCSV{
		Generation:  generation,
		Ticks:       s.Ticks,
		AvgTickUS:   s.AvgTickDuration.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
		HylicsPct:   s.PhasePct[PhaseHylics],
		PsychicsPct: s.PhasePct[PhasePsychics],
		EffectsPct:  s.PhasePct[PhaseEffects],
		TilesPct:    s.PhasePct[PhaseTiles],
	}
}
