// Package evolution scores psychics at the end of a generation and picks
// parents for the next one.
package evolution

import (
	"fmt"

	"github.com/pthm-cable/psychics/systems"
	"github.com/pthm-cable/psychics/world"
)

// Metric selects the distance used for fitness bands.
type Metric string

const (
	Manhattan Metric = "manhattan"
	Chebyshev Metric = "chebyshev"
)

// Distance measures a to b with the metric. Unknown metrics fall back to
// Manhattan.
func (m Metric) Distance(a, b world.Coord) int {
	if m == Chebyshev {
		return systems.Chebyshev(a, b)
	}
	return systems.Manhattan(a, b)
}

// Band awards Score to distances strictly below Below.
type Band struct {
	Below int     `yaml:"below"`
	Score float64 `yaml:"score"`
}

// FitnessParams holds the scoring rules. Bands are checked in order, the
// first match wins.
type FitnessParams struct {
	Metric             Metric  `yaml:"metric"`
	Bands              []Band  `yaml:"bands"`
	Fallback           float64 `yaml:"fallback"`
	DiversityBonus     float64 `yaml:"diversity_bonus"`
	DiversityThreshold int     `yaml:"diversity_threshold"`
	BorderPenalty      float64 `yaml:"border_penalty"`
	IdleScore          float64 `yaml:"idle_score"`
}

// DefaultFitness returns the reference scoring rules.
func DefaultFitness() FitnessParams {
	return FitnessParams{
		Metric:             Manhattan,
		Bands:              []Band{{Below: 2, Score: 100}, {Below: 5, Score: 50}, {Below: 10, Score: 10}},
		Fallback:           1,
		DiversityBonus:     1000,
		DiversityThreshold: 2,
		BorderPenalty:      0.5,
		IdleScore:          0.3,
	}
}

// Validate checks the bands are increasing and the multipliers sane.
func (p FitnessParams) Validate() error {
	switch p.Metric {
	case Manhattan, Chebyshev:
	default:
		return fmt.Errorf("fitness: unknown metric %q", string(p.Metric))
	}
	for i := 1; i < len(p.Bands); i++ {
		if p.Bands[i].Below <= p.Bands[i-1].Below {
			return fmt.Errorf("fitness: band %d (below %d) does not increase on band %d", i, p.Bands[i].Below, i-1)
		}
	}
	if p.BorderPenalty < 0 {
		return fmt.Errorf("fitness: negative border penalty %v", p.BorderPenalty)
	}
	return nil
}

// Outcome is what a psychic achieved in one generation.
type Outcome struct {
	Final           world.Coord
	Beacon          world.Coord
	DistinctMotions int
	OnBorder        bool
	Moved           bool
}

// Score computes the fitness of an outcome: the distance band, plus the
// diversity bonus, times the border penalty. A psychic that never left
// its starting tile gets IdleScore regardless.
func (p FitnessParams) Score(o Outcome) float64 {
	if !o.Moved {
		return p.IdleScore
	}
	d := p.Metric.Distance(o.Final, o.Beacon)
	score := p.Fallback
	for _, b := range p.Bands {
		if d < b.Below {
			score = b.Score
			break
		}
	}
	if o.DistinctMotions > p.DiversityThreshold {
		score += p.DiversityBonus
	}
	if o.OnBorder {
		score *= p.BorderPenalty
	}
	return score
}
