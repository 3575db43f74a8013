package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pthm-cable/psychics/config"
	"github.com/pthm-cable/psychics/telemetry"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Simulation.MaxTurns = 12
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestGame_SameSeedSameRun(t *testing.T) {
	run := func() [][]float64 {
		g, err := NewGame(smallConfig(t), Options{Seed: 77})
		if err != nil {
			t.Fatal(err)
		}
		defer g.Close()
		var out [][]float64
		for i := 0; i < 3; i++ {
			r, err := g.RunGeneration()
			if err != nil {
				t.Fatal(err)
			}
			out = append(out, r.Fitness)
		}
		return out
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different fitness:\n%v\n%v", a, b)
	}
}

func TestGame_StepEvolvesAtBudget(t *testing.T) {
	cfg := smallConfig(t)
	g, err := NewGame(cfg, Options{Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	for i := 0; i < cfg.Simulation.MaxTurns; i++ {
		r, err := g.Step()
		if err != nil {
			t.Fatal(err)
		}
		if r != nil {
			t.Fatalf("turn %d produced a report", i)
		}
	}
	r, err := g.Step()
	if err != nil {
		t.Fatal(err)
	}
	if r == nil || r.Generation != 0 {
		t.Fatalf("expected generation 0 report, got %+v", r)
	}
	if g.Simulation().Generation() != 1 {
		t.Errorf("generation = %d, want 1", g.Simulation().Generation())
	}
}

func TestGame_OutputFiles(t *testing.T) {
	dir := t.TempDir()
	var seen []telemetry.GenerationStats
	g, err := NewGame(smallConfig(t), Options{
		Seed:          5,
		OutputDir:     dir,
		StatsCallback: func(s telemetry.GenerationStats) { seen = append(seen, s) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Run(context.Background(), 2); err != nil {
		t.Fatal(err)
	}
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}

	if len(seen) != 2 || seen[1].Generation != 1 {
		t.Errorf("stats callback saw %+v", seen)
	}
	if g.HallOfFame().Len() == 0 {
		t.Error("hall of fame is empty")
	}
	for _, name := range []string{"config.yaml", "generations.csv", "perf.csv", "bookmarks.csv", "traces.csv", "hall_of_fame.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot does not load: %v", err)
	}
}

func TestGame_RunCancelled(t *testing.T) {
	g, err := NewGame(smallConfig(t), Options{Seed: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.Run(ctx, 5); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if g.Simulation().Generation() != 0 {
		t.Error("cancelled run should not evolve")
	}
}

func TestGame_SeedFromHall(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGame(smallConfig(t), Options{Seed: 5, OutputDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Run(context.Background(), 2); err != nil {
		t.Fatal(err)
	}
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "hall_of_fame.json")
	hof, err := telemetry.LoadHallOfFameFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	entries := hof.Entries()

	seeded, err := NewGame(smallConfig(t), Options{Seed: 9, SeedHall: path})
	if err != nil {
		t.Fatal(err)
	}
	defer seeded.Close()

	for i, p := range seeded.Simulation().Psychics() {
		want := entries[i%len(entries)].Weights
		if got := p.Soul.Net.Weights(); !reflect.DeepEqual(got, want) {
			t.Errorf("psychic %d weights not taken from hall entry %d", i, i%len(entries))
		}
	}
	if _, err := seeded.RunGeneration(); err != nil {
		t.Fatalf("seeded population does not run: %v", err)
	}
}

func TestGame_SeedFromHallRejectsOtherShape(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGame(smallConfig(t), Options{Seed: 3, OutputDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.RunGeneration(); err != nil {
		t.Fatal(err)
	}
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Simulation.MaxTurns = 12
	cfg.Neural.HiddenLayers = []int{3}
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}
	_, err = NewGame(cfg, Options{Seed: 3, SeedHall: filepath.Join(dir, "hall_of_fame.json")})
	if !errors.Is(err, ErrHallMismatch) {
		t.Errorf("err = %v, want ErrHallMismatch", err)
	}
}
