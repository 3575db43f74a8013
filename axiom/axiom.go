// Package axiom describes the effects creatures and tiles can trigger and
// resolves them against a tile grid. Resolution is pure: callers apply the
// returned offsets, species and effects themselves.
package axiom

import (
	"fmt"

	"github.com/pthm-cable/psychics/world"
)

// Kind tags the Axiom variant.
type Kind uint8

const (
	KindVoid Kind = iota
	KindMove
	KindPaintAdjacent
	KindTransform
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindMove:
		return "move"
	case KindPaintAdjacent:
		return "paint_adjacent"
	case KindTransform:
		return "species_transform"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Axiom is a tagged effect. DX/DY are only meaningful for KindMove and
// Species only for KindPaintAdjacent and KindTransform.
type Axiom struct {
	Kind    Kind
	DX, DY  int
	Species world.Species
}

// Void is the no-op axiom and the zero value.
func Void() Axiom { return Axiom{} }

// Move shifts a creature by (dx, dy).
func Move(dx, dy int) Axiom { return Axiom{Kind: KindMove, DX: dx, DY: dy} }

// PaintAdjacent turns neighbouring walls into target.
func PaintAdjacent(target world.Species) Axiom {
	return Axiom{Kind: KindPaintAdjacent, Species: target}
}

// Transform replaces the species of whatever it lands on.
func Transform(s world.Species) Axiom { return Axiom{Kind: KindTransform, Species: s} }

// IsVoid reports whether a is the no-op axiom.
func (a Axiom) IsVoid() bool { return a.Kind == KindVoid }

func (a Axiom) String() string {
	switch a.Kind {
	case KindMove:
		return fmt.Sprintf("move(%d,%d)", a.DX, a.DY)
	case KindPaintAdjacent:
		return fmt.Sprintf("paint_adjacent(%s)", a.Species)
	case KindTransform:
		return fmt.Sprintf("species_transform(%s)", a.Species)
	}
	return a.Kind.String()
}

// Effect is an axiom aimed at a tile.
type Effect struct {
	Axiom  Axiom
	Target world.Coord
}

// TileReader is the part of the map the interpreter needs.
type TileReader interface {
	At(c world.Coord) world.Species
	Adjacent(c world.Coord) [4]world.Coord
}

// Motion returns the offset of a Move and (0,0) for every other kind.
func (a Axiom) Motion() (dx, dy int) {
	if a.Kind == KindMove {
		return a.DX, a.DY
	}
	return 0, 0
}

// Transform returns the payload of a species transform, or current
// unchanged for every other kind.
func (a Axiom) Transform(current world.Species) world.Species {
	if a.Kind == KindTransform {
		return a.Species
	}
	return current
}

// AreaEffects returns the effects a produces around pos. PaintAdjacent
// emits a transform for each orthogonal neighbour that is currently a wall;
// all other kinds emit nothing.
func (a Axiom) AreaEffects(pos world.Coord, tiles TileReader) []Effect {
	if a.Kind != KindPaintAdjacent {
		return nil
	}
	var out []Effect
	for _, n := range tiles.Adjacent(pos) {
		if tiles.At(n) == world.Wall {
			out = append(out, Effect{Axiom: Transform(a.Species), Target: n})
		}
	}
	return out
}
