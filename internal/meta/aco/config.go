package aco

import (
	"fmt"

	"github.com/cwbudde/paramsearch/internal/meta"
)

// Config holds the colony parameters.
type Config struct {
	NumAnts int `json:"num_ants" yaml:"num_ants"`
	// Q0 is the probability of the exploitation step.
	Q0    float64 `json:"q0" yaml:"q0"`
	Alpha float64 `json:"alpha" yaml:"alpha"`
	Beta  float64 `json:"beta" yaml:"beta"`
	// InitTau is both the initial pheromone level and its floor.
	InitTau     float64 `json:"init_tau" yaml:"init_tau"`
	Evaporation float64 `json:"evaporation" yaml:"evaporation"`
	// CandidateListSize caps the delta evaluations per construction step.
	CandidateListSize int `json:"candidate_list_size" yaml:"candidate_list_size"`
}

// DefaultConfig returns the parameters of the reference colony.
func DefaultConfig() Config {
	return Config{
		NumAnts:           10,
		Q0:                0.7,
		Alpha:             0.1,
		Beta:              0.5,
		InitTau:           10,
		Evaporation:       1e-7,
		CandidateListSize: 4000,
	}
}

func (c Config) Validate() error {
	if c.NumAnts <= 0 {
		return fmt.Errorf("%w: num_ants must be > 0, got %d", meta.ErrInvalidConfig, c.NumAnts)
	}
	if c.Q0 < 0 || c.Q0 > 1 {
		return fmt.Errorf("%w: q0 must lie in [0,1], got %f", meta.ErrInvalidConfig, c.Q0)
	}
	if c.Alpha < 0 || c.Beta < 0 {
		return fmt.Errorf("%w: alpha and beta must be >= 0, got %f and %f", meta.ErrInvalidConfig, c.Alpha, c.Beta)
	}
	if c.InitTau <= 0 {
		return fmt.Errorf("%w: init_tau must be > 0, got %f", meta.ErrInvalidConfig, c.InitTau)
	}
	if c.Evaporation < 0 || c.Evaporation > 1 {
		return fmt.Errorf("%w: evaporation must lie in [0,1], got %f", meta.ErrInvalidConfig, c.Evaporation)
	}
	if c.CandidateListSize <= 0 {
		return fmt.Errorf("%w: candidate_list_size must be > 0, got %d", meta.ErrInvalidConfig, c.CandidateListSize)
	}
	return nil
}
