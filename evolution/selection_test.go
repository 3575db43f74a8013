package evolution

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed*31+7))
}

func TestSamplerProportions(t *testing.T) {
	s, err := NewSampler([]float64{1, 0, 3}, newRNG(1))
	if err != nil {
		t.Fatal(err)
	}

	counts := make([]int, 3)
	const draws = 20000
	for i := 0; i < draws; i++ {
		counts[s.Draw()]++
	}
	if counts[1] != 0 {
		t.Errorf("zero-weight index drawn %d times", counts[1])
	}
	ratio := float64(counts[2]) / float64(counts[0])
	if ratio < 2.7 || ratio > 3.3 {
		t.Errorf("draw ratio = %.2f, want ~3 (counts %v)", ratio, counts)
	}
}

func TestSamplerWithReplacement(t *testing.T) {
	s, err := NewSampler([]float64{5}, newRNG(2))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if got := s.Draw(); got != 0 {
			t.Fatalf("Draw = %d", got)
		}
	}
}

func TestSamplerRejectsNonPositive(t *testing.T) {
	for _, w := range [][]float64{{0, 0}, {-1, -2}, {}} {
		if _, err := NewSampler(w, newRNG(3)); !errors.Is(err, ErrNoPositiveWeight) {
			t.Errorf("NewSampler(%v) err = %v", w, err)
		}
	}
}

func TestSelectorFallsBackToUniform(t *testing.T) {
	sel := NewSelector([]float64{0, 0, 0, 0}, newRNG(4))
	if sel.Mode() != "uniform" {
		t.Fatalf("mode = %s, want uniform", sel.Mode())
	}
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		idx := sel.Draw()
		if idx < 0 || idx >= 4 {
			t.Fatalf("Draw = %d out of range", idx)
		}
		seen[idx] = true
	}
	if len(seen) != 4 {
		t.Errorf("uniform selector only drew %v", seen)
	}

	if sel := NewSelector([]float64{0.3, 100}, newRNG(4)); sel.Mode() != "weighted" {
		t.Errorf("mode = %s, want weighted", sel.Mode())
	}
}

func TestSelectorDeterministic(t *testing.T) {
	w := []float64{0.3, 10, 50, 100, 1100}
	a, b := NewSelector(w, newRNG(9)), NewSelector(w, newRNG(9))
	for i := 0; i < 50; i++ {
		if x, y := a.Draw(), b.Draw(); x != y {
			t.Fatalf("draw %d: %d vs %d", i, x, y)
		}
	}
}
