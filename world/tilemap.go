package world

import "fmt"

// Coord is a tile coordinate. Valid coordinates satisfy 0 <= X < width and
// 0 <= Y < height.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns c offset by (dx, dy) without clamping.
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Map is a fixed-size row-major grid of species, addressed by y*width + x.
type Map struct {
	width  int
	height int
	tiles  []Species
}

// NewMap creates a width x height grid with every tile set to fill.
func NewMap(width, height int, fill Species) *Map {
	if width < 1 || height < 1 {
		panic(fmt.Sprintf("world: invalid map size %dx%d", width, height))
	}
	m := &Map{
		width:  width,
		height: height,
		tiles:  make([]Species, width*height),
	}
	for i := range m.tiles {
		m.tiles[i] = fill
	}
	return m
}

// Width returns the grid width in tiles.
func (m *Map) Width() int { return m.width }

// Height returns the grid height in tiles.
func (m *Map) Height() int { return m.height }

// Index returns the row-major index of c.
func (m *Map) Index(c Coord) int {
	return c.Y*m.width + c.X
}

// CoordOf is the inverse of Index.
func (m *Map) CoordOf(idx int) Coord {
	return Coord{X: idx % m.width, Y: idx / m.width}
}

// InBounds reports whether c lies on the grid.
func (m *Map) InBounds(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < m.width && c.Y < m.height
}

// Clamp pulls each axis of c into [0, dimension-1]. There is no wraparound.
func (m *Map) Clamp(c Coord) Coord {
	return Coord{X: clamp(c.X, m.width-1), Y: clamp(c.Y, m.height-1)}
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

// OnBorder reports whether c is on the outermost ring of the grid.
func (m *Map) OnBorder(c Coord) bool {
	return c.X == 0 || c.Y == 0 || c.X == m.width-1 || c.Y == m.height-1
}

// At returns the species at c.
func (m *Map) At(c Coord) Species {
	return m.tiles[m.Index(c)]
}

// Set writes s into the tile at c.
func (m *Map) Set(c Coord, s Species) {
	m.tiles[m.Index(c)] = s
}

// Adjacent returns the four orthogonal neighbours of c in the order
// +Y, -Y, -X, +X. Out-of-range neighbours are clamped, so a border tile
// may list itself.
func (m *Map) Adjacent(c Coord) [4]Coord {
	return [4]Coord{
		m.Clamp(c.Add(0, 1)),
		m.Clamp(c.Add(0, -1)),
		m.Clamp(c.Add(-1, 0)),
		m.Clamp(c.Add(1, 0)),
	}
}

// Count returns how many tiles hold s.
func (m *Map) Count(s Species) int {
	n := 0
	for _, t := range m.tiles {
		if t == s {
			n++
		}
	}
	return n
}

// Tiles returns a copy of the row-major tile slice.
func (m *Map) Tiles() []Species {
	out := make([]Species, len(m.tiles))
	copy(out, m.tiles)
	return out
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	return &Map{width: m.width, height: m.height, tiles: m.Tiles()}
}
