package axiom

import "github.com/pthm-cable/psychics/world"

// Grid is the effect layer that parallels the tile grid. Each tile holds at
// most one pending axiom; a later Place on the same tile overwrites the
// earlier one.
type Grid struct {
	width  int
	height int
	slots  []Axiom
}

// NewGrid returns an all-void grid of the given size.
func NewGrid(width, height int) *Grid {
	return &Grid{width: width, height: height, slots: make([]Axiom, width*height)}
}

func (g *Grid) index(c world.Coord) int { return c.Y*g.width + c.X }

// Place sets the pending axiom at c, replacing whatever was there.
func (g *Grid) Place(c world.Coord, a Axiom) {
	g.slots[g.index(c)] = a
}

// PlaceAll places effects in order, so the last effect aimed at a tile wins.
func (g *Grid) PlaceAll(effects []Effect) {
	for _, e := range effects {
		g.Place(e.Target, e.Axiom)
	}
}

// At returns the pending axiom at c.
func (g *Grid) At(c world.Coord) Axiom {
	return g.slots[g.index(c)]
}

// Take returns the pending axiom at c and clears the slot.
func (g *Grid) Take(c world.Coord) Axiom {
	i := g.index(c)
	a := g.slots[i]
	g.slots[i] = Void()
	return a
}

// Pending lists non-void slots in row-major order.
func (g *Grid) Pending() []Effect {
	var out []Effect
	for i, a := range g.slots {
		if !a.IsVoid() {
			out = append(out, Effect{Axiom: a, Target: world.Coord{X: i % g.width, Y: i / g.width}})
		}
	}
	return out
}

// Reset voids every slot.
func (g *Grid) Reset() {
	clear(g.slots)
}
