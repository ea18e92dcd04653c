package experiment

import (
	"math"
	"sort"
	"time"
)

// Summary aggregates the outcomes of one algorithm.
type Summary struct {
	Algorithm       string
	Runs            int
	BestFitness     float64
	MeanFitness     float64
	StdFitness      float64
	WorstFitness    float64
	MeanEvaluations float64
	MeanElapsed     time.Duration
	Rank            int
}

// FloatStats holds the sample statistics of a series.
type FloatStats struct {
	N    int
	Max  float64
	Min  float64
	Mean float64
	Std  float64
}

// CalcFloatStats computes max, min, mean and the sample standard deviation.
func CalcFloatStats(values []float64) FloatStats {
	s := FloatStats{N: len(values)}
	if s.N == 0 {
		return s
	}
	s.Max, s.Min = values[0], values[0]
	sum := 0.0
	for _, v := range values {
		s.Max = math.Max(s.Max, v)
		s.Min = math.Min(s.Min, v)
		sum += v
	}
	s.Mean = sum / float64(s.N)
	if s.N >= 2 {
		variance := 0.0
		for _, v := range values {
			d := v - s.Mean
			variance += d * d
		}
		s.Std = math.Sqrt(variance / float64(s.N-1))
	}
	return s
}

// Summarize groups outcomes by algorithm, ranked by mean best fitness
// (rank 1 is best). Algorithms keep their first-seen order on ties.
func Summarize(outcomes []Outcome) []Summary {
	var order []string
	groups := make(map[string][]Outcome)
	for _, o := range outcomes {
		if _, ok := groups[o.Algorithm]; !ok {
			order = append(order, o.Algorithm)
		}
		groups[o.Algorithm] = append(groups[o.Algorithm], o)
	}

	summaries := make([]Summary, 0, len(order))
	for _, name := range order {
		group := groups[name]
		fitness := make([]float64, len(group))
		evals := make([]float64, len(group))
		var elapsed time.Duration
		for i, o := range group {
			fitness[i] = o.BestFitness
			evals[i] = float64(o.Evaluations)
			elapsed += o.Elapsed
		}
		fs := CalcFloatStats(fitness)
		summaries = append(summaries, Summary{
			Algorithm:       name,
			Runs:            len(group),
			BestFitness:     fs.Max,
			MeanFitness:     fs.Mean,
			StdFitness:      fs.Std,
			WorstFitness:    fs.Min,
			MeanEvaluations: CalcFloatStats(evals).Mean,
			MeanElapsed:     elapsed / time.Duration(len(group)),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].MeanFitness > summaries[j].MeanFitness
	})
	for i := range summaries {
		summaries[i].Rank = i + 1
	}
	return summaries
}
