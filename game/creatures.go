package game

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/psychics/axiom"
	"github.com/pthm-cable/psychics/neural"
	"github.com/pthm-cable/psychics/systems"
	"github.com/pthm-cable/psychics/world"
)

var (
	// ErrActionMismatch is returned when a network's output width does not
	// match the number of action choices.
	ErrActionMismatch = errors.New("game: network outputs do not match action choices")
	// ErrSenseMismatch is returned when a network's input width does not
	// match the sense vector.
	ErrSenseMismatch = errors.New("game: network inputs do not match sense vector")
)

// ID identifies a creature. It stays the same across generations.
type ID int

// Body is the state shared by psychics and hylics.
type Body struct {
	ID      ID
	Kind    world.Species // species the creature was spawned as
	Species world.Species // current species, changed by transforms
	Pos     world.Coord
	Start   world.Coord
	Moved   bool // left Start at least once this generation
	Trace   Trace
}

// relocate puts the body on a fresh tile for a new generation.
func (b *Body) relocate(at world.Coord) {
	b.Pos = at
	b.Start = at
	b.Species = b.Kind
	b.Moved = false
	b.Trace.Reset(at, b.Kind)
}

// Soul is a psychic's policy and decision bookkeeping.
type Soul struct {
	Net      *neural.Network
	Actions  []axiom.Axiom
	Senses   []float64 // last input vector
	Decision []float64 // last output vector
	Fitness  float64

	motions map[[2]int]struct{}
}

// NewSoul pairs a network with its action choices, one per output.
func NewSoul(net *neural.Network, actions []axiom.Axiom) (*Soul, error) {
	if net.NumInputs() != systems.NumInputs {
		return nil, fmt.Errorf("%w: %d inputs, sense vector has %d", ErrSenseMismatch, net.NumInputs(), systems.NumInputs)
	}
	if net.NumOutputs() != len(actions) {
		return nil, fmt.Errorf("%w: %d outputs, %d actions", ErrActionMismatch, net.NumOutputs(), len(actions))
	}
	return &Soul{
		Net:     net,
		Actions: actions,
		motions: make(map[[2]int]struct{}),
	}, nil
}

// Decide feeds inputs through the network and returns the action with the
// highest output. Ties go to the lowest index.
func (s *Soul) Decide(inputs []float64) (axiom.Axiom, error) {
	out, err := s.Net.Decide(inputs)
	if err != nil {
		return axiom.Void(), err
	}
	s.Senses = inputs
	s.Decision = out

	a := s.Actions[floats.MaxIdx(out)]
	if dx, dy := a.Motion(); dx != 0 || dy != 0 {
		s.motions[[2]int{dx, dy}] = struct{}{}
	}
	return a, nil
}

// DistinctMotions returns how many different non-zero move offsets the
// soul has chosen this generation.
func (s *Soul) DistinctMotions() int {
	return len(s.motions)
}

// replace installs a new policy and clears the per-generation bookkeeping.
// net must have the same shape as the current policy.
func (s *Soul) replace(net *neural.Network) {
	s.Net = net
	s.Senses = nil
	s.Decision = nil
	clear(s.motions)
}

// Psychic is a learning creature.
type Psychic struct {
	Body
	Soul *Soul
}

// Hylic is a creature with a fixed policy, such as the beacon.
type Hylic struct {
	Body
	Policy axiom.Axiom
}
