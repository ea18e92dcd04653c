package problem

import "math/rand"

// RandomPermutation returns a uniformly random permutation of [0, n).
func RandomPermutation(rng *rand.Rand, n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// Randomize assigns every parameter of sol a uniform value in its domain
// and recomputes the fitness.
func Randomize(sol *Solution, ev *Evaluator, rng *rand.Rand) {
	inst := sol.Instance()
	for i := range sol.Values {
		sol.Values[i] = rng.Intn(inst.DomainWidth(i))
	}
	sol.Refresh(ev)
}

// RandomSolution creates a new uniformly random solution for inst.
func RandomSolution(inst Instance, ev *Evaluator, rng *rand.Rand) *Solution {
	sol := NewSolution(inst)
	Randomize(sol, ev, rng)
	return sol
}
