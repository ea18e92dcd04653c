package aco

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/paramsearch/internal/meta"
	"github.com/cwbudde/paramsearch/internal/problem"
	"github.com/cwbudde/paramsearch/internal/stop"
)

// weightedOracle gives every (parameter, value) pair a distinct payoff so
// move densities never tie.
func weightedOracle(values []int) float64 {
	total := 0.0
	for i, v := range values {
		total += float64(v*v) * float64(i+1) * 0.5
	}
	return total
}

func newColony(t *testing.T, cfg Config, seed int64) (*Colony, problem.Instance, *problem.Evaluator) {
	t.Helper()
	inst, err := problem.NewUniformInstance(6, 4, weightedOracle)
	require.NoError(t, err)
	ev := problem.NewEvaluator()
	c, err := New(cfg, inst, ev, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return c, inst, ev
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.NumAnts = 0
	assert.ErrorIs(t, cfg.Validate(), meta.ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Q0 = 1.5
	assert.ErrorIs(t, cfg.Validate(), meta.ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.InitTau = 0
	assert.ErrorIs(t, cfg.Validate(), meta.ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.CandidateListSize = 0
	assert.ErrorIs(t, cfg.Validate(), meta.ErrInvalidConfig)
}

func TestPheromoneUpdates(t *testing.T) {
	inst, err := problem.NewUniformInstance(2, 3, weightedOracle)
	require.NoError(t, err)
	m := NewPheromone(inst, 10)
	assert.Equal(t, 10.0, m.Get(1, 2))

	m.Set(0, 1, 20)
	m.LocalUpdate(0, 1, 0.5, 10)
	assert.Equal(t, 15.0, m.Get(0, 1))

	sol := problem.NewSolution(inst)
	sol.Values = []int{1, 2}
	sol.Fitness = 30
	m.Reinforce(sol, 0.5, 10)
	assert.Equal(t, 22.5, m.Get(0, 1))
	assert.Equal(t, 20.0, m.Get(1, 2))

	sol.Fitness = -100
	m.Reinforce(sol, 0.5, 10)
	assert.Equal(t, 22.5, m.Get(0, 1), "updates below the floor are discarded")
}

func TestAntsBuildCompleteGreedySolutions(t *testing.T) {
	c, inst, ev := newColony(t, DefaultConfig(), 1)
	require.NoError(t, c.Run(stop.New(ev, stop.Limits{MaxIterations: 3})))

	assert.Len(t, c.BestPerIteration(), 3)
	assert.Len(t, c.MeanPerIteration(), 3)
	assert.Len(t, c.Results(), 3*c.Cfg.NumAnts)
	for _, a := range c.ants {
		assert.False(t, a.moving)
		assert.Empty(t, a.left, "every parameter has a positive move from null")
		assert.InDelta(t, inst.Fitness(a.sol.Values), a.sol.Fitness, 1e-9)
	}
}

func TestExploitationIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Q0 = 1
	cfg.Alpha = 0
	c, _, ev := newColony(t, cfg, 2)
	require.NoError(t, c.Run(stop.New(ev, stop.Limits{MaxIterations: 5})))

	bests := c.BestPerIteration()
	for i := range bests {
		assert.Equal(t, bests[0], bests[i])
		assert.Equal(t, bests[i], c.MeanPerIteration()[i], "all ants build the same solution")
	}
	// Highest density per parameter is the top value.
	for _, v := range c.ants[0].sol.Values {
		assert.Equal(t, 3, v)
	}
}

func TestCandidateListCapsEvaluations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumAnts = 1
	cfg.Q0 = 1
	cfg.CandidateListSize = 2
	c, _, ev := newColony(t, cfg, 3)
	ev.Reset()

	a := c.ants[0]
	a.reset(c.inst)
	_, ok := c.selectBest(a)
	require.True(t, ok)
	assert.Equal(t, int64(2), ev.Count())
}

func TestProportionalSelectionOnlyPositive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Q0 = 0
	c, _, _ := newColony(t, cfg, 4)
	a := c.ants[0]
	a.reset(c.inst)
	for i := 0; i < 50; i++ {
		op, ok := c.selectProportional(a)
		require.True(t, ok)
		assert.Greater(t, op.Delta, 0.0)
		assert.NotZero(t, op.Value)
	}
}

func TestBestMonotone(t *testing.T) {
	c, _, ev := newColony(t, DefaultConfig(), 5)
	prev := c.BestSolution().Fitness
	for i := 0; i < 10; i++ {
		require.NoError(t, c.Run(stop.New(ev, stop.Limits{MaxIterations: 1})))
		assert.GreaterOrEqual(t, c.BestSolution().Fitness, prev)
		prev = c.BestSolution().Fitness
	}
	assert.GreaterOrEqual(t, prev, meta.Best(c.Results()))
}

func TestPheromoneNeverDropsBelowFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Evaporation = 0.3
	c, inst, ev := newColony(t, cfg, 8)
	require.NoError(t, c.Run(stop.New(ev, stop.Limits{MaxIterations: 5})))

	m := c.Pheromone()
	raised := false
	for p := 0; p < inst.NumParameters(); p++ {
		for v := 0; v < inst.DomainWidth(p); v++ {
			assert.GreaterOrEqual(t, m.Get(p, v), cfg.InitTau-1e-9, "cell (%d,%d)", p, v)
			if m.Get(p, v) > cfg.InitTau {
				raised = true
			}
		}
	}
	assert.True(t, raised, "the best solution reinforces its cells")
}
