// Package problem holds the shared substrate of every search strategy:
// the problem instance, candidate solutions, single-parameter operations and
// the evaluator that prices them.
package problem

// Instance is a read-only view of a discrete assignment problem.
// Each of NumParameters parameters takes a value in [0, DomainWidth(i)),
// where 0 is the null (unassigned) value. Fitness scores a complete
// assignment; higher is better.
//
// Implementations must be safe for concurrent read-only use.
type Instance interface {
	NumParameters() int
	DomainWidth(i int) int
	Fitness(assignment []int) float64
}

// FuncInstance is an Instance backed by a plain oracle function.
type FuncInstance struct {
	widths []int
	oracle func([]int) float64
}

// NewFuncInstance creates an instance with one domain width per parameter.
func NewFuncInstance(widths []int, oracle func([]int) float64) (*FuncInstance, error) {
	if len(widths) == 0 {
		return nil, &ValidationError{Field: "widths", Reason: "must contain at least one parameter"}
	}
	for _, w := range widths {
		if w < 1 {
			return nil, &ValidationError{Field: "widths", Reason: "every domain width must be at least 1"}
		}
	}
	if oracle == nil {
		return nil, &ValidationError{Field: "oracle", Reason: "cannot be nil"}
	}
	w := make([]int, len(widths))
	copy(w, widths)
	return &FuncInstance{widths: w, oracle: oracle}, nil
}

// NewUniformInstance creates an instance where all n parameters share the same width.
func NewUniformInstance(n, width int, oracle func([]int) float64) (*FuncInstance, error) {
	if n < 1 {
		return nil, &ValidationError{Field: "parameters", Reason: "must be at least 1"}
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = width
	}
	return NewFuncInstance(widths, oracle)
}

func (f *FuncInstance) NumParameters() int { return len(f.widths) }

func (f *FuncInstance) DomainWidth(i int) int { return f.widths[i] }

func (f *FuncInstance) Fitness(assignment []int) float64 { return f.oracle(assignment) }

// TotalWidth returns the sum of all domain widths of inst.
func TotalWidth(inst Instance) int {
	total := 0
	for i := 0; i < inst.NumParameters(); i++ {
		total += inst.DomainWidth(i)
	}
	return total
}
