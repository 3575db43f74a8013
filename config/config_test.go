package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/psychics/axiom"
	"github.com/pthm-cable/psychics/systems"
	"github.com/pthm-cable/psychics/world"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Width != 45 || cfg.World.Height != 45 {
		t.Errorf("world = %dx%d, want 45x45", cfg.World.Width, cfg.World.Height)
	}
	if cfg.World.SmoothingPasses != 15 {
		t.Errorf("smoothing_passes = %d, want 15", cfg.World.SmoothingPasses)
	}
	if len(cfg.Derived.Recipe) != 17 || cfg.Derived.Recipe[0] != world.Beacon {
		t.Errorf("recipe = %v", cfg.Derived.Recipe)
	}
	want := []int{systems.NumInputs, 8, 5}
	if len(cfg.Derived.Layers) != len(want) {
		t.Fatalf("layers = %v, want %v", cfg.Derived.Layers, want)
	}
	for i := range want {
		if cfg.Derived.Layers[i] != want[i] {
			t.Fatalf("layers = %v, want %v", cfg.Derived.Layers, want)
		}
	}
	if cfg.Fitness.IdleScore != 0.3 || cfg.Fitness.DiversityBonus != 1000 {
		t.Errorf("fitness = %+v", cfg.Fitness)
	}
}

func TestLoadOverridesMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
world:
  width: 20
neural:
  kit: paint
population:
  recipe:
    - species: beacon
      count: 1
    - species: agent
      count: 4
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Width != 20 || cfg.World.Height != 45 {
		t.Errorf("world = %dx%d, want 20x45", cfg.World.Width, cfg.World.Height)
	}
	if len(cfg.Derived.Recipe) != 5 {
		t.Errorf("recipe length = %d, want 5", len(cfg.Derived.Recipe))
	}
	if cfg.Derived.Actions[4].Kind != axiom.KindPaintAdjacent {
		t.Errorf("paint kit not unpacked: %v", cfg.Derived.Actions)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny world", func(c *Config) { c.World.Width = 2 }},
		{"zero turns", func(c *Config) { c.Simulation.MaxTurns = 0 }},
		{"mutation rate", func(c *Config) { c.Mutation.Rate = 1.5 }},
		{"empty hidden layer", func(c *Config) { c.Neural.HiddenLayers = []int{0} }},
		{"empty recipe species", func(c *Config) {
			c.Population.Recipe = append(c.Population.Recipe, RecipeEntry{Species: world.Empty, Count: 1})
		}},
		{"agents without beacon", func(c *Config) {
			c.Population.Recipe = []RecipeEntry{{Species: world.Agent, Count: 3}}
		}},
		{"unknown kit", func(c *Config) { c.Neural.Kit = "teleport" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Finalize(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.World.Width = 31
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.World.Width != 31 {
		t.Errorf("width = %d, want 31", back.World.Width)
	}
	if back.Population.Recipe[0].Species != world.Beacon {
		t.Errorf("recipe species = %s", back.Population.Recipe[0].Species)
	}
}
