package config

import (
	"time"

	"github.com/cwbudde/paramsearch/internal/meta/aco"
	"github.com/cwbudde/paramsearch/internal/meta/ga"
	"github.com/cwbudde/paramsearch/internal/meta/grasp"
	"github.com/cwbudde/paramsearch/internal/meta/ig"
	"github.com/cwbudde/paramsearch/internal/meta/sa"
	"github.com/cwbudde/paramsearch/internal/meta/ts"
	"github.com/cwbudde/paramsearch/internal/oracle"
	"github.com/cwbudde/paramsearch/internal/stop"
)

// Algorithm names accepted in experiment files and on the command line.
const (
	AlgorithmSA      = "sa"
	AlgorithmTS      = "ts"
	AlgorithmGRASP   = "grasp"
	AlgorithmIG      = "ig"
	AlgorithmACO     = "aco"
	AlgorithmGA      = "ga"
	AlgorithmLSFirst = "ls-first"
	AlgorithmLSBest  = "ls-best"
)

// AlgorithmNames lists every known algorithm.
var AlgorithmNames = []string{
	AlgorithmSA, AlgorithmTS, AlgorithmGRASP, AlgorithmIG,
	AlgorithmACO, AlgorithmGA, AlgorithmLSFirst, AlgorithmLSBest,
}

// Experiment describes a comparison of algorithms on one instance.
type Experiment struct {
	Name       string            `yaml:"name"`
	Instance   oracle.Spec       `yaml:"instance"`
	Budget     stop.Limits       `yaml:"budget"`
	Runs       int               `yaml:"runs"`
	Seed       int64             `yaml:"seed"`
	Workers    int               `yaml:"workers"`
	Algorithms []AlgorithmConfig `yaml:"algorithms"`
}

// AlgorithmConfig selects an algorithm and carries its parameters. Only the
// block matching Name is used.
type AlgorithmConfig struct {
	Name  string       `yaml:"name" json:"name"`
	SA    sa.Config    `yaml:"sa" json:"sa"`
	TS    ts.Config    `yaml:"ts" json:"ts"`
	GRASP grasp.Config `yaml:"grasp" json:"grasp"`
	IG    ig.Config    `yaml:"ig" json:"ig"`
	ACO   aco.Config   `yaml:"aco" json:"aco"`
	GA    ga.Config    `yaml:"ga" json:"ga"`
}

// DefaultAlgorithmConfig returns name with every parameter block at its default.
func DefaultAlgorithmConfig(name string) AlgorithmConfig {
	return AlgorithmConfig{
		Name:  name,
		SA:    sa.DefaultConfig(),
		TS:    ts.DefaultConfig(),
		GRASP: grasp.DefaultConfig(),
		IG:    ig.DefaultConfig(),
		ACO:   aco.DefaultConfig(),
		GA:    ga.DefaultConfig(),
	}
}

// DefaultBudget mirrors the per-run limits of the reference experiments.
func DefaultBudget() stop.Limits {
	return stop.Limits{MaxEvaluations: 100000, MaxTime: 5 * time.Second}
}

// DefaultExperiment returns an experiment with defaults and no algorithms.
func DefaultExperiment() Experiment {
	return Experiment{
		Name:    "experiment",
		Budget:  DefaultBudget(),
		Runs:    5,
		Seed:    1,
		Workers: 4,
	}
}
