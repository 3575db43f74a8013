package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/psychics/config"
	"github.com/pthm-cable/psychics/game"
	"github.com/pthm-cable/psychics/telemetry"
)

// FitnessEvaluator runs headless simulations and scores a parameter vector.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	tail        int // trailing generations averaged into the score
	seeds       []uint64
	configPath  string

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastBest       float64 // mean best fitness from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []uint64, configPath string) *FitnessEvaluator {
	tail := generations / 5
	if tail < 1 {
		tail = 1
	}
	return &FitnessEvaluator{
		params:      params,
		generations: generations,
		tail:        tail,
		seeds:       seeds,
		configPath:  configPath,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastBest returns the mean best fitness from the most recent evaluation.
func (fe *FitnessEvaluator) LastBest() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastBest
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	score      float64
	hallOfFame *telemetry.HallOfFame
	err        error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated mean of the best psychic fitness over the last
// generations of each seed's run.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	var bestSeed = math.Inf(-1)
	var bestSeedHallOfFame *telemetry.HallOfFame
	for _, r := range results {
		if r.err != nil {
			slog.Error("evaluation failed", "error", r.err)
			return math.Inf(1)
		}
		total += r.score
		if r.score > bestSeed {
			bestSeed = r.score
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	mean := total / float64(len(fe.seeds))
	fitness := -mean

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastBest = mean
	fe.mu.Unlock()

	return fitness
}

// runSimulation executes a single headless run and averages the best
// fitness over its trailing generations.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed uint64) seedResult {
	cfg, err := config.Load(fe.configPath)
	if err != nil {
		return seedResult{err: err}
	}
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return seedResult{err: err}
	}

	var best []float64
	g, err := game.NewGame(cfg, game.Options{
		Seed: seed,
		StatsCallback: func(stats telemetry.GenerationStats) {
			best = append(best, stats.FitnessMax)
		},
	})
	if err != nil {
		return seedResult{err: err}
	}
	defer g.Close()

	for i := 0; i < fe.generations; i++ {
		if _, err := g.RunGeneration(); err != nil {
			return seedResult{err: err}
		}
	}

	return seedResult{score: tailMean(best, fe.tail), hallOfFame: g.HallOfFame()}
}

// tailMean averages the last n values.
func tailMean(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	if n > len(values) || n < 1 {
		n = len(values)
	}
	var sum float64
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n)
}
