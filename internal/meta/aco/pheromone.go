package aco

import "github.com/cwbudde/paramsearch/internal/problem"

// Pheromone holds one desirability weight per (parameter, value) pair.
type Pheromone struct {
	tau [][]float64
}

// NewPheromone creates a matrix shaped like inst with every cell at initTau.
func NewPheromone(inst problem.Instance, initTau float64) *Pheromone {
	tau := make([][]float64, inst.NumParameters())
	for p := range tau {
		tau[p] = make([]float64, inst.DomainWidth(p))
		for v := range tau[p] {
			tau[p][v] = initTau
		}
	}
	return &Pheromone{tau: tau}
}

// Get returns the weight of assigning value to param.
func (m *Pheromone) Get(param, value int) float64 { return m.tau[param][value] }

func (m *Pheromone) Set(param, value int, t float64) { m.tau[param][value] = t }

// LocalUpdate pulls the cell toward initTau after an ant traverses it.
func (m *Pheromone) LocalUpdate(param, value int, evaporation, initTau float64) {
	m.tau[param][value] = (1-evaporation)*m.tau[param][value] + evaporation*initTau
}

// Reinforce moves every cell of sol toward its fitness, keeping only
// updates that end above initTau.
func (m *Pheromone) Reinforce(sol *problem.Solution, evaporation, initTau float64) {
	for p, v := range sol.Values {
		next := (1-evaporation)*m.tau[p][v] + evaporation*sol.Fitness
		if next > initTau {
			m.tau[p][v] = next
		}
	}
}
