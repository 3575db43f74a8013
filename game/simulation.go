package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/pthm-cable/psychics/axiom"
	"github.com/pthm-cable/psychics/config"
	"github.com/pthm-cable/psychics/evolution"
	"github.com/pthm-cable/psychics/neural"
	"github.com/pthm-cable/psychics/systems"
	"github.com/pthm-cable/psychics/telemetry"
	"github.com/pthm-cable/psychics/world"
)

// Phase is the turn state of a simulation.
type Phase int

const (
	// PhaseActive means turns remain in the generation.
	PhaseActive Phase = iota
	// PhaseEvolving means the turn budget is spent and Evolve must run.
	PhaseEvolving
)

func (p Phase) String() string {
	if p == PhaseEvolving {
		return "evolving"
	}
	return "active"
}

// Params is everything the engines need from the configuration.
type Params struct {
	MaxTurns          int
	Gen               world.GenConfig
	Recipe            []world.Species
	Layers            []int
	Actions           []axiom.Axiom
	MutationRate      float64
	MutationMagnitude float64
	Fitness           evolution.FitnessParams
}

// ParamsFromConfig extracts engine parameters from a finalized config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		MaxTurns:          cfg.Simulation.MaxTurns,
		Gen:               cfg.GenConfig(),
		Recipe:            cfg.Derived.Recipe,
		Layers:            cfg.Derived.Layers,
		Actions:           cfg.Derived.Actions,
		MutationRate:      cfg.Mutation.Rate,
		MutationMagnitude: cfg.Mutation.Magnitude,
		Fitness:           cfg.Fitness,
	}
}

// Simulation owns the tile grid, the effect grid and the creature arena,
// and advances them one turn at a time.
type Simulation struct {
	params Params
	rng    *rand.Rand

	tiles   *world.Map
	effects *axiom.Grid

	psychics []*Psychic
	hylics   []*Hylic
	nextID   ID

	turn       int
	generation int
	beacon     world.Coord

	perf *telemetry.PerfCollector
}

// NewSimulation generates a map from the recipe and spawns one creature per
// agent or beacon entry. Other recipe species stay plain tiles.
func NewSimulation(p Params, rng *rand.Rand) (*Simulation, error) {
	m, cat, err := world.GenerateWithRetry(rng, p.Gen, p.Recipe)
	if err != nil {
		return nil, fmt.Errorf("building map: %w", err)
	}
	s := NewSimulationOnMap(p, rng, m)

	for _, species := range p.Recipe {
		switch species {
		case world.Agent, world.Beacon:
		default:
			continue
		}
		at, ok := cat.Pop(species)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrCatalogueExhausted, species)
		}
		if species == world.Beacon {
			s.AddHylic(at, world.Beacon, axiom.Move(0, 0))
			continue
		}
		net, err := neural.NewNetwork(rng, p.Layers)
		if err != nil {
			return nil, err
		}
		soul, err := NewSoul(net, p.Actions)
		if err != nil {
			return nil, err
		}
		s.AddPsychic(at, soul)
	}
	return s, nil
}

// NewSimulationOnMap wraps an existing map with no creatures on it. Use
// AddPsychic and AddHylic to populate it.
func NewSimulationOnMap(p Params, rng *rand.Rand, m *world.Map) *Simulation {
	return &Simulation{
		params:  p,
		rng:     rng,
		tiles:   m,
		effects: axiom.NewGrid(m.Width(), m.Height()),
	}
}

// AddPsychic spawns a psychic at pos and marks its tile.
func (s *Simulation) AddPsychic(pos world.Coord, soul *Soul) *Psychic {
	p := &Psychic{Body: s.newBody(pos, world.Agent), Soul: soul}
	s.psychics = append(s.psychics, p)
	return p
}

// AddHylic spawns a fixed-policy creature at pos and marks its tile.
func (s *Simulation) AddHylic(pos world.Coord, species world.Species, policy axiom.Axiom) *Hylic {
	h := &Hylic{Body: s.newBody(pos, species), Policy: policy}
	s.hylics = append(s.hylics, h)
	s.trackBeacon()
	return h
}

func (s *Simulation) newBody(pos world.Coord, species world.Species) Body {
	b := Body{ID: s.nextID, Kind: species}
	s.nextID++
	b.relocate(pos)
	s.tiles.Set(pos, species)
	return b
}

// Tick advances the simulation by one turn. Hylics act first, then
// psychics, in spawn order; then every creature resolves any effect left
// on its tile and records its trace; finally leftover effects recolour
// the tiles they target. A tick at the end of the turn budget is a no-op.
func (s *Simulation) Tick() error {
	if s.turn >= s.params.MaxTurns {
		return nil
	}
	s.perf.StartTick()
	defer s.perf.EndTick()

	s.effects.Reset()

	s.perf.StartPhase(telemetry.PhaseHylics)
	for _, h := range s.hylics {
		s.vacate(&h.Body)
		s.resolve(&h.Body, h.Policy)
	}
	s.trackBeacon()

	s.perf.StartPhase(telemetry.PhasePsychics)
	for _, p := range s.psychics {
		s.vacate(&p.Body)
		a, err := p.Soul.Decide(systems.Sense(s.tiles, p.Pos, s.beacon))
		if err != nil {
			s.tiles.Set(p.Pos, p.Species)
			return fmt.Errorf("psychic %d at %v: %w", p.ID, p.Pos, err)
		}
		s.resolve(&p.Body, a)
	}

	s.perf.StartPhase(telemetry.PhaseEffects)
	for _, h := range s.hylics {
		s.settle(&h.Body)
	}
	for _, p := range s.psychics {
		s.settle(&p.Body)
	}
	s.trackBeacon()

	s.perf.StartPhase(telemetry.PhaseTiles)
	s.applyTileEffects()

	s.turn++
	return nil
}

// vacate clears the creature's tile before it acts.
func (s *Simulation) vacate(b *Body) {
	s.tiles.Set(b.Pos, world.Empty)
}

// resolve applies an axiom to a vacated creature: motion, transform, area
// effects, then re-entry into its (possibly new) tile.
func (s *Simulation) resolve(b *Body, a axiom.Axiom) {
	dx, dy := a.Motion()
	if dest, ok := systems.ResolveMove(s.tiles, b.Pos, dx, dy); ok {
		b.Pos = dest
	}
	if b.Pos != b.Start {
		b.Moved = true
	}
	b.Species = a.Transform(b.Species)
	s.effects.PlaceAll(a.AreaEffects(b.Pos, s.tiles))
	s.tiles.Set(b.Pos, b.Species)
}

// settle resolves an effect painted onto the creature's tile this turn and
// records the turn in its trace.
func (s *Simulation) settle(b *Body) {
	if a := s.effects.Take(b.Pos); !a.IsVoid() {
		s.vacate(b)
		s.resolve(b, a)
	}
	b.Trace.Record(b.Pos, b.Species)
}

// applyTileEffects recolours tiles that still hold an effect and are not
// under a creature, then clears the effect grid.
func (s *Simulation) applyTileEffects() {
	pending := s.effects.Pending()
	if len(pending) > 0 {
		occupied := make(map[world.Coord]bool, len(s.hylics)+len(s.psychics))
		for _, h := range s.hylics {
			occupied[h.Pos] = true
		}
		for _, p := range s.psychics {
			occupied[p.Pos] = true
		}
		for _, e := range pending {
			if occupied[e.Target] {
				continue
			}
			s.tiles.Set(e.Target, e.Axiom.Transform(s.tiles.At(e.Target)))
		}
	}
	s.effects.Reset()
}

// trackBeacon follows the first beacon hylic.
func (s *Simulation) trackBeacon() {
	for _, h := range s.hylics {
		if h.Kind == world.Beacon {
			s.beacon = h.Pos
			return
		}
	}
}

// Phase reports whether the generation is still running.
func (s *Simulation) Phase() Phase {
	if s.turn >= s.params.MaxTurns {
		return PhaseEvolving
	}
	return PhaseActive
}

// Turn returns the number of ticks run in the current generation.
func (s *Simulation) Turn() int { return s.turn }

// Generation returns how many generations have completed.
func (s *Simulation) Generation() int { return s.generation }

// Params returns the engine parameters.
func (s *Simulation) Params() Params { return s.params }

// Beacon returns the tracked beacon position.
func (s *Simulation) Beacon() world.Coord { return s.beacon }

// Psychics returns the psychic arena in spawn order.
func (s *Simulation) Psychics() []*Psychic { return s.psychics }

// Hylics returns the hylic arena in spawn order.
func (s *Simulation) Hylics() []*Hylic { return s.hylics }

// Snapshot returns a copy of the tile grid for renderers.
func (s *Simulation) Snapshot() *world.Map { return s.tiles.Clone() }

// PendingEffect returns the effect waiting on a tile. Outside a tick the
// effect grid is always clear.
func (s *Simulation) PendingEffect(c world.Coord) axiom.Axiom { return s.effects.At(c) }

// ShippedTraces returns the last completed generation's traces, hylics
// first, in spawn order.
func (s *Simulation) ShippedTraces() []ShippedTrace {
	out := make([]ShippedTrace, 0, len(s.hylics)+len(s.psychics))
	for _, h := range s.hylics {
		out = append(out, ShippedTrace{ID: h.ID, Kind: h.Kind, Entries: h.Trace.Shipped()})
	}
	for _, p := range s.psychics {
		out = append(out, ShippedTrace{ID: p.ID, Kind: p.Kind, Entries: p.Trace.Shipped()})
	}
	return out
}

// SetPerf attaches a phase timer. A nil collector disables timing.
func (s *Simulation) SetPerf(p *telemetry.PerfCollector) { s.perf = p }
