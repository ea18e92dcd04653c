package opt

// Result is the outcome of a continuous minimization.
type Result struct {
	Params      []float64
	Cost        float64
	Evaluations int
}

// Optimizer minimizes a continuous objective inside a box.
type Optimizer interface {
	// Minimize searches lower[i] <= x[i] <= upper[i] for the lowest
	// objective value. lower and upper must have the same length.
	Minimize(objective func([]float64) float64, lower, upper []float64) (Result, error)
}
