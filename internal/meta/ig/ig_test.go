package ig

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/paramsearch/internal/meta"
	"github.com/cwbudde/paramsearch/internal/problem"
	"github.com/cwbudde/paramsearch/internal/stop"
)

func sumOracle(values []int) float64 {
	total := 0.0
	for _, v := range values {
		total += float64(v)
	}
	return total
}

// capacityOracle is a small knapsack: value i weighs i+1, the total weight is
// capped at 10 and overflow is punished.
func capacityOracle(values []int) float64 {
	weight, profit := 0, 0.0
	for i, v := range values {
		weight += v * (i + 1)
		profit += float64(v) * float64(5-i)
	}
	if weight > 10 {
		return -float64(weight - 10)
	}
	return profit
}

func TestValidate(t *testing.T) {
	require.NoError(t, Config{Alpha: 0}.Validate())
	require.NoError(t, DefaultConfig().Validate())
	assert.ErrorIs(t, Config{Alpha: -0.1}.Validate(), meta.ErrInvalidConfig)
	assert.ErrorIs(t, Config{Alpha: 2}.Validate(), meta.ErrInvalidConfig)
}

func TestRebuildCompletesGreedily(t *testing.T) {
	inst, err := problem.NewUniformInstance(4, 3, sumOracle)
	require.NoError(t, err)
	ev := problem.NewEvaluator()
	g, err := New(DefaultConfig(), inst, ev, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	g.sol = problem.NewSolution(inst)
	g.rebuild(stop.New(ev, stop.Limits{}))
	// Density ties between value 1 and 2 keep the first, so every parameter gets 1.
	assert.Equal(t, []int{1, 1, 1, 1}, g.sol.Values)
	assert.Equal(t, 4.0, g.sol.Fitness)
}

func TestZeroAlphaKeepsBestConstant(t *testing.T) {
	inst, err := problem.NewUniformInstance(5, 4, capacityOracle)
	require.NoError(t, err)
	ev := problem.NewEvaluator()
	g, err := New(Config{Alpha: 0}, inst, ev, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	require.NoError(t, g.Run(stop.New(ev, stop.Limits{MaxIterations: 1})))
	first := g.BestSolution().Clone()
	built := len(g.Results())

	require.NoError(t, g.Run(stop.New(ev, stop.Limits{MaxIterations: 20})))
	assert.Equal(t, first.Values, g.BestSolution().Values)
	assert.Equal(t, first.Fitness, g.BestSolution().Fitness)
	for _, f := range g.Results()[built:] {
		assert.Equal(t, first.Fitness, f)
	}
}

func TestRestartFromBest(t *testing.T) {
	inst, err := problem.NewUniformInstance(5, 4, capacityOracle)
	require.NoError(t, err)
	ev := problem.NewEvaluator()
	g, err := New(Config{Alpha: 0.6}, inst, ev, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	prev := -1e18
	for i := 0; i < 30; i++ {
		require.NoError(t, g.Run(stop.New(ev, stop.Limits{MaxIterations: 1})))
		best := g.BestSolution()
		assert.GreaterOrEqual(t, best.Fitness, prev)
		prev = best.Fitness
		assert.Equal(t, best.Values, g.sol.Values, "working solution continues from the best")
		assert.Equal(t, capacityOracle(best.Values), best.Fitness)
	}
}
