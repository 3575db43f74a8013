package evolution

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// ErrNoPositiveWeight is returned when no candidate has a positive weight.
var ErrNoPositiveWeight = errors.New("evolution: no positive selection weight")

// Selector draws parent indices.
type Selector interface {
	Draw() int
	Mode() string
}

// Sampler draws indices with probability proportional to their weight,
// with replacement.
type Sampler struct {
	weights  []float64
	weighted sampleuv.Weighted
}

// NewSampler builds a fitness-proportionate sampler. Negative and NaN
// weights count as zero.
func NewSampler(weights []float64, rng *rand.Rand) (*Sampler, error) {
	w := make([]float64, len(weights))
	for i, v := range weights {
		if v > 0 && !math.IsInf(v, 1) {
			w[i] = v
		}
	}
	if len(w) == 0 || floats.Sum(w) <= 0 {
		return nil, fmt.Errorf("%w: %d candidates", ErrNoPositiveWeight, len(weights))
	}
	return &Sampler{
		weights:  w,
		weighted: sampleuv.NewWeighted(w, rng),
	}, nil
}

// Draw returns one index. The drawn weight is restored afterwards so the
// same index can be drawn again.
func (s *Sampler) Draw() int {
	idx, ok := s.weighted.Take()
	if !ok {
		panic("evolution: sampler drained")
	}
	s.weighted.Reweight(idx, s.weights[idx])
	return idx
}

// Mode reports "weighted".
func (s *Sampler) Mode() string { return "weighted" }

// Uniform draws every index with equal probability.
type Uniform struct {
	n   int
	rng *rand.Rand
}

// NewUniform returns a uniform selector over n candidates.
func NewUniform(n int, rng *rand.Rand) *Uniform {
	return &Uniform{n: n, rng: rng}
}

// Draw returns one index.
func (u *Uniform) Draw() int { return u.rng.IntN(u.n) }

// Mode reports "uniform".
func (u *Uniform) Mode() string { return "uniform" }

// NewSelector returns a fitness-proportionate sampler, or a uniform one when
// no fitness is positive. n must be at least 1.
func NewSelector(fitness []float64, rng *rand.Rand) Selector {
	s, err := NewSampler(fitness, rng)
	if err == nil {
		return s
	}
	slog.Warn("falling back to uniform selection", "error", err, "candidates", len(fitness))
	return NewUniform(len(fitness), rng)
}
