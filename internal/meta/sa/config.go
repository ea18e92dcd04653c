package sa

import (
	"fmt"

	"github.com/cwbudde/paramsearch/internal/meta"
)

// Config holds the annealing schedule.
type Config struct {
	// InitialProb is the probability of accepting a move of average
	// magnitude at the initial temperature.
	InitialProb         float64 `json:"initial_prob" yaml:"initial_prob"`
	NumInitialEstimates int     `json:"num_initial_estimates" yaml:"num_initial_estimates"`
	AnnealingFactor     float64 `json:"annealing_factor" yaml:"annealing_factor"`
	ItersPerAnnealing   int     `json:"iters_per_annealing" yaml:"iters_per_annealing"`
}

// DefaultConfig returns the reference schedule.
func DefaultConfig() Config {
	return Config{
		InitialProb:         0.9,
		NumInitialEstimates: 10,
		AnnealingFactor:     0.9999,
		ItersPerAnnealing:   50,
	}
}

func (c Config) Validate() error {
	if c.InitialProb <= 0 || c.InitialProb >= 1 {
		return fmt.Errorf("%w: initial_prob must lie in (0,1), got %f", meta.ErrInvalidConfig, c.InitialProb)
	}
	if c.NumInitialEstimates <= 0 {
		return fmt.Errorf("%w: num_initial_estimates must be > 0, got %d", meta.ErrInvalidConfig, c.NumInitialEstimates)
	}
	if c.AnnealingFactor <= 0 || c.AnnealingFactor >= 1 {
		return fmt.Errorf("%w: annealing_factor must lie in (0,1), got %f", meta.ErrInvalidConfig, c.AnnealingFactor)
	}
	if c.ItersPerAnnealing <= 0 {
		return fmt.Errorf("%w: iters_per_annealing must be > 0, got %d", meta.ErrInvalidConfig, c.ItersPerAnnealing)
	}
	return nil
}
