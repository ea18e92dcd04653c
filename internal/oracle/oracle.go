// Package oracle provides named fitness functions for discrete assignment
// instances. Every oracle is maximized; infeasible assignments score
// negative.
package oracle

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/cwbudde/paramsearch/internal/problem"
)

// Func scores a complete assignment.
type Func func(values []int) float64

// Factory builds the oracle for spec.
type Factory func(spec Spec) (Func, error)

var registry = map[string]Factory{
	"sum":       newSum,
	"sphere":    newSphere,
	"rastrigin": newRastrigin,
	"knapsack":  newKnapsack,
}

// UnknownOracleError is returned by Lookup for an unregistered name.
type UnknownOracleError struct {
	Name string
}

func (e *UnknownOracleError) Error() string {
	return fmt.Sprintf("unknown oracle %q", e.Name)
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, error) {
	f, ok := registry[name]
	if !ok {
		return nil, &UnknownOracleError{Name: name}
	}
	return f, nil
}

// Names returns the registered oracle names in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Spec identifies an instance: an oracle, its size and the seed of any
// random data the oracle generates.
type Spec struct {
	Oracle     string `json:"oracle" yaml:"oracle"`
	Parameters int    `json:"parameters" yaml:"parameters"`
	Width      int    `json:"width" yaml:"width"`
	Seed       int64  `json:"seed" yaml:"seed"`
}

// Validate checks the instance dimensions and the oracle name.
func (s Spec) Validate() error {
	if s.Parameters < 1 {
		return &problem.ValidationError{Field: "parameters", Reason: "must be at least 1"}
	}
	if s.Width < 2 {
		return &problem.ValidationError{Field: "width", Reason: "must be at least 2"}
	}
	if _, err := Lookup(s.Oracle); err != nil {
		return err
	}
	return nil
}

// Build creates the instance described by s.
func (s Spec) Build() (problem.Instance, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	factory, _ := Lookup(s.Oracle)
	fn, err := factory(s)
	if err != nil {
		return nil, fmt.Errorf("failed to build oracle %s: %w", s.Oracle, err)
	}
	return problem.NewUniformInstance(s.Parameters, s.Width, fn)
}

func newSum(Spec) (Func, error) {
	return func(values []int) float64 {
		total := 0.0
		for _, v := range values {
			total += float64(v)
		}
		return total
	}, nil
}

// shift returns a seeded optimum per parameter inside the domain.
func shift(s Spec) []float64 {
	rng := rand.New(rand.NewSource(s.Seed))
	o := make([]float64, s.Parameters)
	for i := range o {
		o[i] = float64(rng.Intn(s.Width))
	}
	return o
}

// newSphere is the negated shifted sphere, scaled so the domain maps onto [-1, 1].
func newSphere(s Spec) (Func, error) {
	opt := shift(s)
	scale := 2 / float64(s.Width-1)
	return func(values []int) float64 {
		f := 0.0
		for i, v := range values {
			z := (float64(v) - opt[i]) * scale
			f += z * z
		}
		return -f
	}, nil
}

// newRastrigin is the negated shifted Rastrigin on [-5.12, 5.12].
func newRastrigin(s Spec) (Func, error) {
	opt := shift(s)
	scale := 2 * 5.12 / float64(s.Width-1)
	return func(values []int) float64 {
		f := 0.0
		for i, v := range values {
			z := (float64(v) - opt[i]) * scale
			f += z*z - 10*math.Cos(2*math.Pi*z) + 10
		}
		return -f
	}, nil
}

// newKnapsack treats each value as a quantity of item i. Profit counts when
// the total weight fits the capacity; overflow scores its negated excess.
func newKnapsack(s Spec) (Func, error) {
	rng := rand.New(rand.NewSource(s.Seed))
	weights := make([]float64, s.Parameters)
	profits := make([]float64, s.Parameters)
	total := 0.0
	for i := range weights {
		weights[i] = 1 + float64(rng.Intn(20))
		profits[i] = 1 + float64(rng.Intn(30))
		total += weights[i] * float64(s.Width-1)
	}
	capacity := total / 4
	return func(values []int) float64 {
		w, p := 0.0, 0.0
		for i, v := range values {
			w += weights[i] * float64(v)
			p += profits[i] * float64(v)
		}
		if w > capacity {
			return -(w - capacity)
		}
		return p
	}, nil
}
