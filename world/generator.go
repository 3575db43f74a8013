package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
)

var (
	// ErrPlacementExhausted is returned when the recipe asks for more
	// instances than there are free tiles left after carving.
	ErrPlacementExhausted = errors.New("world: no free tile left for placement")
	// ErrRecipeTooLarge is returned when the recipe could not fit even on
	// an open arena with only border walls.
	ErrRecipeTooLarge = errors.New("world: recipe exceeds interior area")
	// ErrInvalidRecipe is returned for recipes that place Empty tiles.
	ErrInvalidRecipe = errors.New("world: invalid recipe entry")
)

// GenConfig controls cave generation.
type GenConfig struct {
	Width           int
	Height          int
	WallSeedPercent int // chance in percent that an interior tile starts as wall
	SmoothingPasses int
	Attempts        int // cave draws tried by GenerateWithRetry before the open-arena fallback
}

// Generate seeds walls, smooths them with the cellular automaton and then
// places every recipe entry, in order, on a distinct free tile.
func Generate(rng *rand.Rand, cfg GenConfig, recipe []Species) (*Map, *Catalogue, error) {
	if err := checkRecipe(recipe); err != nil {
		return nil, nil, err
	}
	m := Seed(rng, cfg.Width, cfg.Height, cfg.WallSeedPercent)
	for i := 0; i < cfg.SmoothingPasses; i++ {
		m = Smooth(m)
	}
	cat, err := Place(rng, m, recipe)
	if err != nil {
		return nil, nil, err
	}
	return m, cat, nil
}

// GenerateWithRetry runs Generate up to cfg.Attempts times with fresh draws.
// If every cave comes out too cramped it falls back to an open arena with
// walls only on the border, which holds any recipe that fits the interior.
func GenerateWithRetry(rng *rand.Rand, cfg GenConfig, recipe []Species) (*Map, *Catalogue, error) {
	if err := checkRecipe(recipe); err != nil {
		return nil, nil, err
	}
	interior := max(cfg.Width-2, 0) * max(cfg.Height-2, 0)
	if len(recipe) > interior {
		return nil, nil, fmt.Errorf("%w: %d entries, %d interior tiles", ErrRecipeTooLarge, len(recipe), interior)
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		m, cat, err := Generate(rng, cfg, recipe)
		if err == nil {
			return m, cat, nil
		}
		if !errors.Is(err, ErrPlacementExhausted) {
			return nil, nil, err
		}
		lastErr = err
		slog.Warn("map generation retry", "attempt", attempt, "error", err)
	}

	slog.Warn("falling back to open arena",
		"attempts", cfg.Attempts,
		"recipe", len(recipe),
		"last_error", lastErr,
	)
	open := cfg
	open.WallSeedPercent = 0
	open.SmoothingPasses = 0
	return Generate(rng, open, recipe)
}

// Seed builds the initial noise: border tiles are always walls, interior
// tiles become walls with probability wallSeedPercent/100.
func Seed(rng *rand.Rand, width, height, wallSeedPercent int) *Map {
	m := NewMap(width, height, Empty)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := Coord{X: x, Y: y}
			roll := rng.IntN(100)
			if roll < wallSeedPercent || m.OnBorder(c) {
				m.Set(c, Wall)
			}
		}
	}
	return m
}

// Smooth runs one cellular-automaton pass and returns the next grid. Every
// interior tile with more than four or with zero wall neighbours (out of
// eight) becomes a wall, the rest become floor. Border tiles are kept. All
// tiles read from the previous grid.
func Smooth(m *Map) *Map {
	next := m.Clone()
	for y := 1; y < m.height-1; y++ {
		for x := 1; x < m.width-1; x++ {
			walls := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if m.tiles[(y+dy)*m.width+x+dx] == Wall {
						walls++
					}
				}
			}
			if walls > 4 || walls == 0 {
				next.tiles[y*m.width+x] = Wall
			} else {
				next.tiles[y*m.width+x] = Empty
			}
		}
	}
	return next
}

// Place assigns each recipe entry, in order, to a uniformly drawn free tile
// (drawn without replacement) and records it in the returned catalogue.
func Place(rng *rand.Rand, m *Map, recipe []Species) (*Catalogue, error) {
	eligible := make([]Coord, 0, len(m.tiles))
	for i, t := range m.tiles {
		if t == Empty {
			eligible = append(eligible, m.CoordOf(i))
		}
	}

	cat := NewCatalogue()
	for placed, s := range recipe {
		if len(eligible) == 0 {
			return nil, fmt.Errorf("%w: placed %d of %d (%s next)", ErrPlacementExhausted, placed, len(recipe), s)
		}
		i := rng.IntN(len(eligible))
		at := eligible[i]
		eligible[i] = eligible[len(eligible)-1]
		eligible = eligible[:len(eligible)-1]

		m.Set(at, s)
		cat.Add(s, at)
	}
	return cat, nil
}

func checkRecipe(recipe []Species) error {
	for i, s := range recipe {
		if s == Empty || int(s) >= len(speciesNames) {
			return fmt.Errorf("%w: entry %d is %s", ErrInvalidRecipe, i, s)
		}
	}
	return nil
}
