package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationSample is the raw per-psychic data gathered when a generation ends.
// Slices are parallel: index i describes the same psychic in each.
type GenerationSample struct {
	Generation      int
	Fitness         []float64
	Distances       []int
	DistinctMotions []int
	// Psychics with more distinct motions than this count as diverse.
	DiversityThreshold int
	Selection          string
	BestID             int
}

// GenerationStats holds aggregated statistics for one finished generation.
type GenerationStats struct {
	Generation int `csv:"generation"`
	Psychics   int `csv:"psychics"`

	// Fitness distribution
	FitnessMean float64 `csv:"fitness_mean"`
	FitnessStd  float64 `csv:"fitness_std"`
	FitnessMin  float64 `csv:"fitness_min"`
	FitnessP10  float64 `csv:"fitness_p10"`
	FitnessP50  float64 `csv:"fitness_p50"`
	FitnessP90  float64 `csv:"fitness_p90"`
	FitnessMax  float64 `csv:"fitness_max"`

	// Distance to the beacon at generation end
	DistanceMean float64 `csv:"distance_mean"`
	DistanceMin  int     `csv:"distance_min"`
	Reached      int     `csv:"reached"` // psychics adjacent to the beacon

	MotionsMean float64 `csv:"motions_mean"`
	Diverse     int     `csv:"diverse"`

	Selection string `csv:"selection"`
	BestID    int    `csv:"best_id"`
}

// Percentile returns the p-th empirical quantile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeGenerationStats reduces a sample to its summary statistics.
func ComputeGenerationStats(s GenerationSample) GenerationStats {
	gs := GenerationStats{
		Generation: s.Generation,
		Psychics:   len(s.Fitness),
		Selection:  s.Selection,
		BestID:     s.BestID,
	}

	if n := len(s.Fitness); n > 0 {
		sorted := make([]float64, n)
		copy(sorted, s.Fitness)
		sort.Float64s(sorted)

		if n > 1 {
			gs.FitnessMean, gs.FitnessStd = stat.MeanStdDev(sorted, nil)
		} else {
			gs.FitnessMean = sorted[0]
		}
		gs.FitnessMin = floats.Min(sorted)
		gs.FitnessMax = floats.Max(sorted)
		gs.FitnessP10 = Percentile(sorted, 0.10)
		gs.FitnessP50 = Percentile(sorted, 0.50)
		gs.FitnessP90 = Percentile(sorted, 0.90)
	}

	if len(s.Distances) > 0 {
		dist := make([]float64, len(s.Distances))
		gs.DistanceMin = s.Distances[0]
		for i, d := range s.Distances {
			dist[i] = float64(d)
			if d < gs.DistanceMin {
				gs.DistanceMin = d
			}
			if d <= 1 {
				gs.Reached++
			}
		}
		gs.DistanceMean = stat.Mean(dist, nil)
	}

	if len(s.DistinctMotions) > 0 {
		motions := make([]float64, len(s.DistinctMotions))
		for i, m := range s.DistinctMotions {
			motions[i] = float64(m)
			if m > s.DiversityThreshold {
				gs.Diverse++
			}
		}
		gs.MotionsMean = stat.Mean(motions, nil)
	}

	return gs
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("psychics", s.Psychics),
		slog.Float64("fitness_mean", s.FitnessMean),
		slog.Float64("fitness_p50", s.FitnessP50),
		slog.Float64("fitness_max", s.FitnessMax),
		slog.Float64("distance_mean", s.DistanceMean),
		slog.Int("distance_min", s.DistanceMin),
		slog.Int("reached", s.Reached),
		slog.Int("diverse", s.Diverse),
		slog.String("selection", s.Selection),
	)
}
