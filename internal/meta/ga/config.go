package ga

import (
	"fmt"

	"github.com/cwbudde/paramsearch/internal/meta"
)

// Config holds the population and operator settings.
type Config struct {
	PopSize   int     `json:"pop_size" yaml:"pop_size"`
	CrossProb float64 `json:"cross_prob" yaml:"cross_prob"`
	// MutProb is the per-gene reassignment probability. Zero means 1/N.
	MutProb        float64 `json:"mut_prob" yaml:"mut_prob"`
	TournamentSize int     `json:"tournament_size" yaml:"tournament_size"`
	// Generations caps the generations of one Run. Zero leaves it to the stop condition.
	Generations int `json:"generations" yaml:"generations"`
}

func DefaultConfig() Config {
	return Config{
		PopSize:        60,
		CrossProb:      0.9,
		MutProb:        0,
		TournamentSize: 3,
		Generations:    0,
	}
}

func (c Config) Validate() error {
	if c.PopSize < 2 {
		return fmt.Errorf("%w: pop_size must be >= 2, got %d", meta.ErrInvalidConfig, c.PopSize)
	}
	if c.CrossProb < 0 || c.CrossProb > 1 {
		return fmt.Errorf("%w: cross_prob must lie in [0,1], got %f", meta.ErrInvalidConfig, c.CrossProb)
	}
	if c.MutProb < 0 || c.MutProb > 1 {
		return fmt.Errorf("%w: mut_prob must lie in [0,1], got %f", meta.ErrInvalidConfig, c.MutProb)
	}
	if c.TournamentSize < 1 || c.TournamentSize > c.PopSize {
		return fmt.Errorf("%w: tournament_size must lie in [1,pop_size], got %d", meta.ErrInvalidConfig, c.TournamentSize)
	}
	if c.Generations < 0 {
		return fmt.Errorf("%w: generations must be >= 0, got %d", meta.ErrInvalidConfig, c.Generations)
	}
	return nil
}
