package systems

import "github.com/pthm-cable/psychics/world"

// Grid is the part of the map that motion resolution needs.
type Grid interface {
	At(c world.Coord) world.Species
	Clamp(c world.Coord) world.Coord
}

// ResolveMove clamps from+(dx,dy) onto the grid and checks the destination.
// It returns the new position and true, or from and false when the
// destination tile is occupied. The caller must have vacated from first,
// otherwise a zero offset collides with the mover itself.
func ResolveMove(g Grid, from world.Coord, dx, dy int) (world.Coord, bool) {
	dest := g.Clamp(from.Add(dx, dy))
	if g.At(dest).Blocks() {
		return from, false
	}
	return dest, true
}
