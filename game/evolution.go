package game

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/psychics/evolution"
	"github.com/pthm-cable/psychics/neural"
	"github.com/pthm-cable/psychics/world"
)

var (
	// ErrNotReady is returned by Evolve while turns remain.
	ErrNotReady = errors.New("game: generation still running")
	// ErrCatalogueExhausted is returned when a regenerated map reserved
	// fewer tiles for a species than there are creatures of it.
	ErrCatalogueExhausted = errors.New("game: catalogue has no tile left for creature")
)

// GenerationReport summarises one completed generation. Slices indexed by
// psychic follow spawn order.
type GenerationReport struct {
	Generation      int
	Beacon          world.Coord // beacon position at the end of the generation
	Fitness         []float64
	Distances       []int
	DistinctMotions []int
	Parents         []int // parent drawn for each psychic
	Selection       string
	BestID          ID
	Best            *neural.Network // best policy of the generation, before mutation
	Traces          []ShippedTrace
}

// Evolution scores the population at the end of a generation, breeds the
// next set of policies and rebuilds the map.
type Evolution struct {
	sim *Simulation
}

// NewEvolution binds an evolution engine to a simulation. They share the
// simulation's random source.
func NewEvolution(sim *Simulation) *Evolution {
	return &Evolution{sim: sim}
}

// Evolve runs the generation boundary. It fails with ErrNotReady unless
// the turn budget is spent. On error the simulation is left unchanged.
func (e *Evolution) Evolve() (*GenerationReport, error) {
	s := e.sim
	if s.Phase() != PhaseEvolving {
		return nil, fmt.Errorf("%w: turn %d of %d", ErrNotReady, s.turn, s.params.MaxTurns)
	}
	p := s.params

	m, cat, err := world.GenerateWithRetry(s.rng, p.Gen, p.Recipe)
	if err != nil {
		return nil, fmt.Errorf("rebuilding map: %w", err)
	}
	hylicAt, psychicAt, err := e.reserve(cat)
	if err != nil {
		return nil, err
	}

	report := &GenerationReport{
		Generation: s.generation,
		Beacon:     s.beacon,
	}

	// score against the old map before it is replaced
	n := len(s.psychics)
	report.Fitness = make([]float64, n)
	report.Distances = make([]int, n)
	report.DistinctMotions = make([]int, n)
	for i, ps := range s.psychics {
		o := evolution.Outcome{
			Final:           ps.Pos,
			Beacon:          report.Beacon,
			DistinctMotions: ps.Soul.DistinctMotions(),
			OnBorder:        s.tiles.OnBorder(ps.Pos),
			Moved:           ps.Moved,
		}
		ps.Soul.Fitness = p.Fitness.Score(o)
		report.Fitness[i] = ps.Soul.Fitness
		report.Distances[i] = p.Fitness.Metric.Distance(ps.Pos, report.Beacon)
		report.DistinctMotions[i] = o.DistinctMotions
	}

	s.tiles = m
	s.effects.Reset()

	for i, h := range s.hylics {
		h.Trace.Ship()
		h.relocate(hylicAt[i])
	}
	s.trackBeacon()

	for i, ps := range s.psychics {
		ps.Trace.Ship()
		ps.relocate(psychicAt[i])
	}

	if n > 0 {
		parents := make([]*neural.Network, n)
		for i, ps := range s.psychics {
			parents[i] = ps.Soul.Net
		}
		best := floats.MaxIdx(report.Fitness)
		report.BestID = s.psychics[best].ID
		report.Best = parents[best]

		sel := evolution.NewSelector(report.Fitness, s.rng)
		report.Selection = sel.Mode()
		report.Parents = make([]int, n)
		for i, ps := range s.psychics {
			idx := sel.Draw()
			child := parents[idx].Clone()
			child.Mutate(s.rng, p.MutationRate, p.MutationMagnitude)
			ps.Soul.replace(child)
			report.Parents[i] = idx
		}
	}

	report.Traces = s.ShippedTraces()
	s.turn = 0
	s.generation++
	return report, nil
}

// reserve pops a catalogue tile for every creature, hylics first, before
// anything is moved.
func (e *Evolution) reserve(cat *world.Catalogue) (hylicAt, psychicAt []world.Coord, err error) {
	pop := func(id ID, kind world.Species) (world.Coord, error) {
		at, ok := cat.Pop(kind)
		if !ok {
			return world.Coord{}, fmt.Errorf("%w: creature %d (%s)", ErrCatalogueExhausted, id, kind)
		}
		return at, nil
	}

	hylicAt = make([]world.Coord, len(e.sim.hylics))
	for i, h := range e.sim.hylics {
		if hylicAt[i], err = pop(h.ID, h.Kind); err != nil {
			return nil, nil, err
		}
	}
	psychicAt = make([]world.Coord, len(e.sim.psychics))
	for i, ps := range e.sim.psychics {
		if psychicAt[i], err = pop(ps.ID, ps.Kind); err != nil {
			return nil, nil, err
		}
	}
	return hylicAt, psychicAt, nil
}
