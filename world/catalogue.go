package world

// Catalogue records, per species, the coordinates reserved for its instances
// during map generation. Order follows placement order.
type Catalogue struct {
	order  []Species
	coords map[Species][]Coord
}

// NewCatalogue returns an empty catalogue.
func NewCatalogue() *Catalogue {
	return &Catalogue{coords: make(map[Species][]Coord)}
}

// Add appends c to the entries for s.
func (c *Catalogue) Add(s Species, at Coord) {
	if _, ok := c.coords[s]; !ok {
		c.order = append(c.order, s)
	}
	c.coords[s] = append(c.coords[s], at)
}

// Pop removes and returns the most recently reserved coordinate for s.
// ok is false once the entries for s have run dry.
func (c *Catalogue) Pop(s Species) (Coord, bool) {
	list := c.coords[s]
	if len(list) == 0 {
		return Coord{}, false
	}
	at := list[len(list)-1]
	c.coords[s] = list[:len(list)-1]
	return at, true
}

// Len returns how many coordinates remain for s.
func (c *Catalogue) Len(s Species) int {
	return len(c.coords[s])
}

// Coords returns a copy of the remaining coordinates for s.
func (c *Catalogue) Coords(s Species) []Coord {
	out := make([]Coord, len(c.coords[s]))
	copy(out, c.coords[s])
	return out
}

// Species lists the catalogued species in first-placement order.
func (c *Catalogue) Species() []Species {
	out := make([]Species, len(c.order))
	copy(out, c.order)
	return out
}
