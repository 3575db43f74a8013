package world

import "testing"

func TestClampStaysOnGrid(t *testing.T) {
	m := NewMap(45, 45, Empty)
	offsets := []Coord{{0, 1}, {0, -1}, {-1, 0}, {1, 0}, {0, 0}}
	starts := []Coord{{0, 0}, {44, 44}, {0, 44}, {44, 0}, {22, 0}, {0, 22}, {22, 22}}

	for _, s := range starts {
		for _, o := range offsets {
			got := m.Clamp(s.Add(o.X, o.Y))
			if !m.InBounds(got) {
				t.Errorf("Clamp(%v+%v) = %v, off grid", s, o, got)
			}
		}
	}
}

func TestAdjacentClampsAtEdges(t *testing.T) {
	m := NewMap(5, 5, Empty)
	adj := m.Adjacent(Coord{0, 0})
	want := [4]Coord{{0, 1}, {0, 0}, {0, 0}, {1, 0}}
	if adj != want {
		t.Errorf("Adjacent((0,0)) = %v, want %v", adj, want)
	}
}

func TestIndexRoundTrip(t *testing.T) {
	m := NewMap(7, 3, Empty)
	for i := 0; i < 21; i++ {
		if got := m.Index(m.CoordOf(i)); got != i {
			t.Errorf("Index(CoordOf(%d)) = %d", i, got)
		}
	}
	if m.Index(Coord{X: 2, Y: 1}) != 9 {
		t.Error("index is not row-major")
	}
}

func TestSpeciesText(t *testing.T) {
	for _, s := range []Species{Wall, Empty, Agent, Beacon, Painted} {
		text, _ := s.MarshalText()
		var back Species
		if err := back.UnmarshalText(text); err != nil || back != s {
			t.Errorf("species %s did not survive text encoding: %v", s, err)
		}
	}
	if _, err := ParseSpecies("dragon"); err == nil {
		t.Error("expected error for unknown species")
	}
}

func TestCataloguePop(t *testing.T) {
	c := NewCatalogue()
	c.Add(Agent, Coord{1, 1})
	c.Add(Agent, Coord{2, 2})

	if at, ok := c.Pop(Agent); !ok || at != (Coord{2, 2}) {
		t.Errorf("Pop = %v, %v", at, ok)
	}
	if at, ok := c.Pop(Agent); !ok || at != (Coord{1, 1}) {
		t.Errorf("Pop = %v, %v", at, ok)
	}
	if _, ok := c.Pop(Agent); ok {
		t.Error("Pop on drained catalogue should fail")
	}
	if _, ok := c.Pop(Beacon); ok {
		t.Error("Pop on unknown species should fail")
	}
}
