package problem

import "fmt"

// Solution is a mutable assignment with a cached fitness value.
//
// Direct reassignment through Set does not refresh Fitness; whoever mutates
// Values is responsible for keeping Fitness consistent (Refresh or Operation.Apply).
type Solution struct {
	Values  []int
	Fitness float64
	Valid   bool

	inst Instance
}

// NewSolution creates the all-null assignment for inst, scored by the oracle.
func NewSolution(inst Instance) *Solution {
	s := &Solution{
		Values: make([]int, inst.NumParameters()),
		inst:   inst,
	}
	s.Fitness = inst.Fitness(s.Values)
	s.Valid = true
	return s
}

// Instance returns the instance this solution belongs to.
func (s *Solution) Instance() Instance { return s.inst }

// Set reassigns parameter i without touching the cached fitness.
func (s *Solution) Set(i, v int) { s.Values[i] = v }

// Refresh recomputes the fitness from scratch through ev.
func (s *Solution) Refresh(ev *Evaluator) {
	s.Fitness = ev.Fitness(s.inst, s)
	s.Valid = true
}

// CopyFrom deep-copies the assignment and both fitness fields of src.
func (s *Solution) CopyFrom(src *Solution) {
	if len(s.Values) != len(src.Values) {
		s.Values = make([]int, len(src.Values))
	}
	copy(s.Values, src.Values)
	s.Fitness = src.Fitness
	s.Valid = src.Valid
	s.inst = src.inst
}

// Clone returns an independent copy of s.
func (s *Solution) Clone() *Solution {
	c := &Solution{}
	c.CopyFrom(s)
	return c
}

func (s *Solution) String() string {
	return fmt.Sprintf("fitness=%g values=%v", s.Fitness, s.Values)
}
