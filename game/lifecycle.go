package game

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pthm-cable/psychics/telemetry"
)

// ErrHallMismatch is returned when a saved hall of fame cannot seed the
// population: it is empty or its networks have a different shape.
var ErrHallMismatch = errors.New("game: hall of fame does not fit population")

// seedFromHall replaces the starting policies with networks from a saved
// hall of fame. Psychics take entries best first, wrapping around when the
// hall is smaller than the population.
func (g *Game) seedFromHall(path string) error {
	hof, err := telemetry.LoadHallOfFameFromFile(path)
	if err != nil {
		return err
	}
	entries := hof.Entries()
	if len(entries) == 0 {
		return fmt.Errorf("%w: %s is empty", ErrHallMismatch, path)
	}

	want := g.sim.params.Layers
	for i, ps := range g.sim.psychics {
		e := entries[i%len(entries)]
		if !slices.Equal(e.Sizes, want) {
			return fmt.Errorf("%w: entry sizes %v, population uses %v", ErrHallMismatch, e.Sizes, want)
		}
		net, err := e.Network()
		if err != nil {
			return fmt.Errorf("rebuilding hall entry: %w", err)
		}
		ps.Soul.replace(net)
	}

	slog.Info("seeded from hall of fame",
		"path", path,
		"entries", len(entries),
		"psychics", len(g.sim.psychics),
	)
	return nil
}
