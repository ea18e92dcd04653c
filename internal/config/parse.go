package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML fills absent parameter blocks with their defaults.
func (a *AlgorithmConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain AlgorithmConfig
	p := plain(DefaultAlgorithmConfig(""))
	if err := node.Decode(&p); err != nil {
		return err
	}
	*a = AlgorithmConfig(p)
	return nil
}

// ParseExperiment parses an Experiment from YAML bytes and validates it.
func ParseExperiment(data []byte) (*Experiment, error) {
	exp := DefaultExperiment()
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("failed to parse experiment yaml: %w", err)
	}
	if err := exp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment: %w", err)
	}
	return &exp, nil
}

// LoadExperiment reads and parses an experiment file.
func LoadExperiment(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read experiment file %s: %w", path, err)
	}
	exp, err := ParseExperiment(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse experiment file %s: %w", path, err)
	}
	return exp, nil
}

// Validate checks the experiment and every algorithm block in use.
func (e *Experiment) Validate() error {
	if err := e.Instance.Validate(); err != nil {
		return fmt.Errorf("instance: %w", err)
	}
	if e.Budget.Unbounded() {
		return fmt.Errorf("budget: at least one of max_evaluations, max_iterations or max_time must be set")
	}
	if e.Runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", e.Runs)
	}
	if e.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", e.Workers)
	}
	if len(e.Algorithms) == 0 {
		return fmt.Errorf("at least one algorithm must be defined")
	}
	for i, alg := range e.Algorithms {
		if err := alg.Validate(); err != nil {
			return fmt.Errorf("algorithms[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks the name and the parameter block it selects.
func (a AlgorithmConfig) Validate() error {
	if !slices.Contains(AlgorithmNames, a.Name) {
		return fmt.Errorf("unknown algorithm %q (must be one of %v)", a.Name, AlgorithmNames)
	}
	var err error
	switch a.Name {
	case AlgorithmSA:
		err = a.SA.Validate()
	case AlgorithmTS:
		err = a.TS.Validate()
	case AlgorithmGRASP:
		err = a.GRASP.Validate()
	case AlgorithmIG:
		err = a.IG.Validate()
	case AlgorithmACO:
		err = a.ACO.Validate()
	case AlgorithmGA:
		err = a.GA.Validate()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", a.Name, err)
	}
	return nil
}
