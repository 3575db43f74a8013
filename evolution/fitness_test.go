package evolution

import (
	"testing"

	"github.com/pthm-cable/psychics/world"
)

func TestScoreBands(t *testing.T) {
	beacon := world.Coord{X: 22, Y: 22}
	manhattan := DefaultFitness()
	chebyshev := DefaultFitness()
	chebyshev.Metric = Chebyshev

	tests := []struct {
		name   string
		params FitnessParams
		final  world.Coord
		want   float64
	}{
		{"one tile away", manhattan, world.Coord{X: 23, Y: 22}, 100},
		{"four away", manhattan, world.Coord{X: 22, Y: 26}, 50},
		{"six away manhattan", manhattan, world.Coord{X: 25, Y: 25}, 10},
		{"eleven away manhattan", manhattan, world.Coord{X: 28, Y: 27}, 1},
		{"far away", manhattan, world.Coord{X: 40, Y: 40}, 1},
		{"six away chebyshev band", chebyshev, world.Coord{X: 25, Y: 25}, 50},
		{"eleven away chebyshev band", chebyshev, world.Coord{X: 28, Y: 27}, 10},
		{"diagonal neighbour chebyshev", chebyshev, world.Coord{X: 23, Y: 23}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.params.Score(Outcome{Final: tt.final, Beacon: beacon, Moved: true})
			if got != tt.want {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreModifiers(t *testing.T) {
	p := DefaultFitness()
	beacon := world.Coord{X: 10, Y: 10}
	near := world.Coord{X: 11, Y: 10}

	tests := []struct {
		name    string
		outcome Outcome
		want    float64
	}{
		{"border halves", Outcome{Final: near, Beacon: beacon, Moved: true, OnBorder: true}, 50},
		{"diversity bonus", Outcome{Final: near, Beacon: beacon, Moved: true, DistinctMotions: 3}, 1100},
		{"two motions earn nothing", Outcome{Final: near, Beacon: beacon, Moved: true, DistinctMotions: 2}, 100},
		{"bonus then border", Outcome{Final: near, Beacon: beacon, Moved: true, DistinctMotions: 4, OnBorder: true}, 550},
		{"idle floor", Outcome{Final: near, Beacon: beacon, Moved: false, DistinctMotions: 4}, 0.3},
		{"idle far away", Outcome{Final: world.Coord{X: 40, Y: 40}, Beacon: beacon}, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Score(tt.outcome); got != tt.want {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFitnessValidate(t *testing.T) {
	if err := DefaultFitness().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	p := DefaultFitness()
	p.Bands = []Band{{Below: 5, Score: 1}, {Below: 5, Score: 2}}
	if err := p.Validate(); err == nil {
		t.Error("expected error for non-increasing bands")
	}
	p = DefaultFitness()
	p.Metric = "euclid"
	if err := p.Validate(); err == nil {
		t.Error("expected error for unknown metric")
	}
}
