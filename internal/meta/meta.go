// Package meta defines the contract shared by every metaheuristic and the
// usage errors they report.
package meta

import (
	"errors"

	"github.com/cwbudde/paramsearch/internal/problem"
	"github.com/cwbudde/paramsearch/internal/stop"
)

// Metaheuristic is a search strategy over a problem.Instance.
type Metaheuristic interface {
	Name() string
	// Run iterates until cond is reached. It returns an error only for
	// usage violations; finding nothing better is not an error.
	Run(cond *stop.Condition) error
	BestSolution() *problem.Solution
	// Results is the fitness of every accepted or generated solution in
	// chronological order.
	Results() []float64
}

// SolutionSetter is implemented by strategies that start from a caller
// supplied solution.
type SolutionSetter interface {
	SetSolution(sol *problem.Solution) error
}

var (
	ErrNotInitialised     = errors.New("metaheuristic not initialised")
	ErrSolutionAlreadySet = errors.New("initial solution already set")
	ErrNoSolution         = errors.New("no initial solution set")
	ErrInvalidConfig      = errors.New("invalid configuration")
)
