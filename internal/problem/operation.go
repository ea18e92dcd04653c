package problem

// Operation sets parameter Param to Value. Delta is the fitness change
// priced against the solution state it was computed for.
type Operation struct {
	Param int
	Value int
	Delta float64
}

// Apply writes the new value and advances the cached fitness by Delta.
// Applying an operation priced against a different solution state
// corrupts the cached fitness.
func (op Operation) Apply(sol *Solution) {
	sol.Values[op.Param] = op.Value
	sol.Fitness += op.Delta
	sol.Valid = true
}
