package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.0},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeGenerationStats(t *testing.T) {
	s := GenerationSample{
		Generation:         4,
		Fitness:            []float64{100, 1, 50, 10, 1000},
		Distances:          []int{1, 12, 3, 7, 2},
		DistinctMotions:    []int{1, 2, 3, 0, 4},
		DiversityThreshold: 2,
		Selection:          "weighted",
		BestID:             9,
	}
	gs := ComputeGenerationStats(s)

	if gs.Generation != 4 || gs.Psychics != 5 {
		t.Errorf("generation/psychics = %d/%d, want 4/5", gs.Generation, gs.Psychics)
	}
	if math.Abs(gs.FitnessMean-232.2) > 0.001 {
		t.Errorf("fitness mean = %v, want 232.2", gs.FitnessMean)
	}
	if gs.FitnessMin != 1 || gs.FitnessMax != 1000 {
		t.Errorf("fitness min/max = %v/%v, want 1/1000", gs.FitnessMin, gs.FitnessMax)
	}
	if gs.FitnessP50 != 50 {
		t.Errorf("fitness p50 = %v, want 50", gs.FitnessP50)
	}
	if gs.FitnessStd <= 0 {
		t.Errorf("fitness std = %v, want positive", gs.FitnessStd)
	}
	if gs.DistanceMin != 1 || gs.Reached != 1 {
		t.Errorf("distance min/reached = %d/%d, want 1/1", gs.DistanceMin, gs.Reached)
	}
	if math.Abs(gs.DistanceMean-5) > 0.001 {
		t.Errorf("distance mean = %v, want 5", gs.DistanceMean)
	}
	if gs.Diverse != 2 {
		t.Errorf("diverse = %d, want 2", gs.Diverse)
	}
	if math.Abs(gs.MotionsMean-2) > 0.001 {
		t.Errorf("motions mean = %v, want 2", gs.MotionsMean)
	}
	if gs.Selection != "weighted" || gs.BestID != 9 {
		t.Errorf("selection/best = %q/%d", gs.Selection, gs.BestID)
	}
}

func TestComputeGenerationStatsEmpty(t *testing.T) {
	gs := ComputeGenerationStats(GenerationSample{Generation: 2})
	if gs.Psychics != 0 || gs.FitnessMean != 0 || gs.FitnessMax != 0 || gs.DistanceMean != 0 {
		t.Errorf("empty sample should give zero stats, got %+v", gs)
	}
}

func TestComputeGenerationStatsSingle(t *testing.T) {
	gs := ComputeGenerationStats(GenerationSample{Fitness: []float64{42}})
	if gs.FitnessMean != 42 || gs.FitnessStd != 0 {
		t.Errorf("mean/std = %v/%v, want 42/0", gs.FitnessMean, gs.FitnessStd)
	}
}
