// Package config provides configuration loading for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/psychics/axiom"
	"github.com/pthm-cable/psychics/evolution"
	"github.com/pthm-cable/psychics/systems"
	"github.com/pthm-cable/psychics/world"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig             `yaml:"world"`
	Simulation SimulationConfig        `yaml:"simulation"`
	Population PopulationConfig        `yaml:"population"`
	Neural     NeuralConfig            `yaml:"neural"`
	Mutation   MutationConfig          `yaml:"mutation"`
	Fitness    evolution.FitnessParams `yaml:"fitness"`
	Telemetry  TelemetryConfig         `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds grid dimensions and cave generation parameters.
type WorldConfig struct {
	Width              int `yaml:"width"`
	Height             int `yaml:"height"`
	WallSeedPercent    int `yaml:"wall_seed_percent"`
	SmoothingPasses    int `yaml:"smoothing_passes"`
	GenerationAttempts int `yaml:"generation_attempts"` // cave draws before the open-arena fallback
}

// SimulationConfig holds the turn budget.
type SimulationConfig struct {
	MaxTurns    int `yaml:"max_turns"`
	Generations int `yaml:"generations"` // default run length for the CLI (0 = unlimited)
}

// RecipeEntry asks for Count instances of Species.
type RecipeEntry struct {
	Species world.Species `yaml:"species"`
	Count   int           `yaml:"count"`
}

// PopulationConfig holds the ordered map recipe.
type PopulationConfig struct {
	Recipe []RecipeEntry `yaml:"recipe"`
}

// NeuralConfig holds network shape parameters.
type NeuralConfig struct {
	HiddenLayers []int     `yaml:"hidden_layers"` // e.g. [8]; empty = inputs wired straight to outputs
	Kit          axiom.Kit `yaml:"kit"`           // action choices: motion | paint
}

// MutationConfig holds per-weight mutation parameters.
type MutationConfig struct {
	Rate      float64 `yaml:"rate"`      // probability each weight is perturbed
	Magnitude float64 `yaml:"magnitude"` // perturbation drawn from [-magnitude, magnitude]
}

// TelemetryConfig holds output parameters.
type TelemetryConfig struct {
	ExportTraces           bool    `yaml:"export_traces"`
	HallOfFameSize         int     `yaml:"hall_of_fame_size"`
	BookmarkHistory        int     `yaml:"bookmark_history"`
	BreakthroughMultiplier float64 `yaml:"breakthrough_multiplier"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Recipe  []world.Species // recipe expanded entry by entry
	Actions []axiom.Axiom   // unpacked kit
	Layers  []int           // inputs, hidden..., len(Actions)
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Finalize validates the config and recomputes derived values. Call it
// after changing fields on a loaded config.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.computeDerived()
}

// Validate checks the config for values the simulation cannot run with.
func (c *Config) Validate() error {
	w := c.World
	if w.Width < 3 || w.Height < 3 {
		return fmt.Errorf("config: world must be at least 3x3, got %dx%d", w.Width, w.Height)
	}
	if w.WallSeedPercent < 0 || w.WallSeedPercent > 100 {
		return fmt.Errorf("config: wall_seed_percent %d outside [0,100]", w.WallSeedPercent)
	}
	if w.SmoothingPasses < 0 || w.GenerationAttempts < 0 {
		return fmt.Errorf("config: negative smoothing_passes or generation_attempts")
	}
	if c.Simulation.MaxTurns < 1 {
		return fmt.Errorf("config: max_turns must be positive, got %d", c.Simulation.MaxTurns)
	}
	if c.Mutation.Rate < 0 || c.Mutation.Rate > 1 {
		return fmt.Errorf("config: mutation rate %v outside [0,1]", c.Mutation.Rate)
	}
	if c.Mutation.Magnitude < 0 {
		return fmt.Errorf("config: negative mutation magnitude %v", c.Mutation.Magnitude)
	}
	for i, h := range c.Neural.HiddenLayers {
		if h < 1 {
			return fmt.Errorf("config: hidden layer %d has width %d", i, h)
		}
	}

	var agents, beacons int
	for i, e := range c.Population.Recipe {
		if e.Count < 1 {
			return fmt.Errorf("config: recipe entry %d (%s) has count %d", i, e.Species, e.Count)
		}
		switch e.Species {
		case world.Empty:
			return fmt.Errorf("config: recipe entry %d places empty tiles", i)
		case world.Agent:
			agents += e.Count
		case world.Beacon:
			beacons += e.Count
		}
	}
	if agents > 0 && beacons == 0 {
		return fmt.Errorf("config: recipe has %d agents but no beacon", agents)
	}
	return c.Fitness.Validate()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.Recipe = nil
	for _, e := range c.Population.Recipe {
		for i := 0; i < e.Count; i++ {
			c.Derived.Recipe = append(c.Derived.Recipe, e.Species)
		}
	}

	actions, err := c.Neural.Kit.Unpack()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Derived.Actions = actions

	c.Derived.Layers = append([]int{systems.NumInputs}, c.Neural.HiddenLayers...)
	c.Derived.Layers = append(c.Derived.Layers, len(actions))
	return nil
}

// GenConfig returns the map generator parameters.
func (c *Config) GenConfig() world.GenConfig {
	return world.GenConfig{
		Width:           c.World.Width,
		Height:          c.World.Height,
		WallSeedPercent: c.World.WallSeedPercent,
		SmoothingPasses: c.World.SmoothingPasses,
		Attempts:        c.World.GenerationAttempts,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
