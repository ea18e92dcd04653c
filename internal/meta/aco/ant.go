package aco

import (
	"slices"

	"github.com/cwbudde/paramsearch/internal/problem"
)

// ant builds one solution by assigning each parameter at most once.
type ant struct {
	sol    *problem.Solution
	left   []int
	moving bool
}

func (a *ant) reset(inst problem.Instance) {
	a.sol = problem.NewSolution(inst)
	a.left = a.left[:0]
	for p := 0; p < inst.NumParameters(); p++ {
		a.left = append(a.left, p)
	}
	a.moving = true
}

func (a *ant) consume(param int) {
	if i := slices.Index(a.left, param); i >= 0 {
		a.left = slices.Delete(a.left, i, i+1)
	}
}

// candidate is a positive move with its selection weight.
type candidate struct {
	op           problem.Operation
	significance float64
}
