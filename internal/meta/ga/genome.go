package ga

import (
	"math/rand"

	"github.com/MaxHalford/eaopt"

	"github.com/cwbudde/paramsearch/internal/problem"
)

// genome is an assignment vector evolved by eaopt. eaopt minimizes, so
// Evaluate reports the negated fitness.
type genome struct {
	values  []int
	inst    problem.Instance
	ev      *problem.Evaluator
	mutProb float64
}

func newRandomGenome(inst problem.Instance, ev *problem.Evaluator, mutProb float64, rng *rand.Rand) *genome {
	g := &genome{
		values:  make([]int, inst.NumParameters()),
		inst:    inst,
		ev:      ev,
		mutProb: mutProb,
	}
	for i := range g.values {
		g.values[i] = rng.Intn(inst.DomainWidth(i))
	}
	return g
}

// Evaluate charges one full evaluation.
func (g *genome) Evaluate() (float64, error) {
	g.ev.ChargeFull(1)
	return -g.inst.Fitness(g.values), nil
}

// Mutate reassigns each gene to a random value with probability mutProb.
func (g *genome) Mutate(rng *rand.Rand) {
	for i := range g.values {
		if rng.Float64() < g.mutProb {
			g.values[i] = rng.Intn(g.inst.DomainWidth(i))
		}
	}
}

// Crossover swaps each gene with the other parent with probability 1/2.
func (g *genome) Crossover(other eaopt.Genome, rng *rand.Rand) {
	o := other.(*genome)
	for i := range g.values {
		if rng.Float64() < 0.5 {
			g.values[i], o.values[i] = o.values[i], g.values[i]
		}
	}
}

func (g *genome) Clone() eaopt.Genome {
	c := *g
	c.values = append([]int(nil), g.values...)
	return &c
}

// solution converts the genome into a scored Solution.
func (g *genome) solution(fitness float64) *problem.Solution {
	sol := problem.NewSolution(g.inst)
	copy(sol.Values, g.values)
	sol.Fitness = fitness
	sol.Valid = true
	return sol
}
