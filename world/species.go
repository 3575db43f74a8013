// Package world holds the tile grid, the cave generator and the per-species
// coordinate catalogue produced by map generation.
package world

import (
	"fmt"
	"strings"
)

// Species is the single occupant of a tile.
type Species uint8

const (
	Wall Species = iota
	Empty
	Agent
	Beacon
	Painted
)

var speciesNames = [...]string{
	Wall:    "wall",
	Empty:   "empty",
	Agent:   "agent",
	Beacon:  "beacon",
	Painted: "painted",
}

func (s Species) String() string {
	if int(s) < len(speciesNames) {
		return speciesNames[s]
	}
	return fmt.Sprintf("species(%d)", uint8(s))
}

// ParseSpecies maps a species name back to its value. Matching is case-insensitive.
func ParseSpecies(name string) (Species, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range speciesNames {
		if n == name {
			return Species(i), nil
		}
	}
	return 0, fmt.Errorf("unknown species %q", name)
}

// MarshalText implements encoding.TextMarshaler (used by yaml and csv output).
func (s Species) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Species) UnmarshalText(text []byte) error {
	v, err := ParseSpecies(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Blocks reports whether a creature may not enter a tile of this species.
func (s Species) Blocks() bool {
	return s != Empty
}
