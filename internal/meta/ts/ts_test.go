package ts

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

func newSearch(t *testing.T, n, width, tenure int, seed int64) (*Search, problem.Instance, *problem.Evaluator) {
	t.Helper()
	inst, err := problem.NewUniformInstance(n, width, sumOracle)
	require.NoError(t, err)
	ev := problem.NewEvaluator()
	s, err := New(Config{Tenure: tenure}, inst, ev, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	require.NoError(t, s.SetSolution(problem.NewSolution(inst)))
	return s, inst, ev
}

func TestDefaultTenure(t *testing.T) {
	assert.Equal(t, 4, DefaultTenure(10))
	assert.Equal(t, 1, DefaultTenure(1))

	inst, err := problem.NewUniformInstance(25, 3, sumOracle)
	require.NoError(t, err)
	s, err := New(DefaultConfig(), inst, problem.NewEvaluator(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 10, s.Cfg.Tenure)

	assert.ErrorIs(t, Config{Tenure: -1}.Validate(), meta.ErrInvalidConfig)
}

func TestUsageErrors(t *testing.T) {
	var zero Search
	assert.ErrorIs(t, zero.Run(stop.New(nil, stop.Limits{MaxIterations: 1})), meta.ErrNotInitialised)

	inst, err := problem.NewUniformInstance(4, 3, sumOracle)
	require.NoError(t, err)
	ev := problem.NewEvaluator()
	s, err := New(Config{Tenure: 2}, inst, ev, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.ErrorIs(t, s.Run(stop.New(ev, stop.Limits{MaxIterations: 1})), meta.ErrNoSolution)

	require.NoError(t, s.SetSolution(problem.NewSolution(inst)))
	assert.ErrorIs(t, s.SetSolution(problem.NewSolution(inst)), meta.ErrSolutionAlreadySet)
}

func TestMemoryBound(t *testing.T) {
	s, _, ev := newSearch(t, 12, 4, 5, 3)
	lastUse := make(map[int]int)
	for iter := 1; iter <= 200; iter++ {
		before := append([]int(nil), s.current.Values...)
		require.NoError(t, s.Run(stop.New(ev, stop.Limits{MaxIterations: 1})))
		assert.LessOrEqual(t, s.MemoryLen(), 5)
		for p, v := range s.current.Values {
			if v != before[p] {
				lastUse[p] = iter
			}
		}
		for p, used := range lastUse {
			if iter-used >= 5 {
				assert.False(t, s.IsTabu(p), "param %d tabu %d iterations after use", p, iter-used)
			}
		}
	}
}

func TestAcceptsNonImprovingMoves(t *testing.T) {
	s, inst, ev := newSearch(t, 3, 3, 1, 5)
	require.NoError(t, s.Run(stop.New(ev, stop.Limits{MaxIterations: 50})))

	assert.Equal(t, 6.0, s.BestSolution().Fitness)
	assert.Equal(t, sumOracle(s.BestSolution().Values), s.BestSolution().Fitness)
	assert.InDelta(t, inst.Fitness(s.current.Values), s.current.Fitness, 1e-9)

	dropped := false
	for i := 1; i < len(s.Results()); i++ {
		if s.Results()[i] < s.Results()[i-1] {
			dropped = true
		}
	}
	assert.True(t, dropped, "tabu search must leave the optimum once it is reached")
}

func TestAllTabuSkipsMove(t *testing.T) {
	// Tenure equals the number of parameters, so the memory fills up.
	s, _, ev := newSearch(t, 3, 3, 3, 1)
	require.NoError(t, s.Run(stop.New(ev, stop.Limits{MaxIterations: 4})))
	assert.Equal(t, 1, s.Stalled())
	results := s.Results()
	require.Len(t, results, 4)
	assert.Equal(t, results[2], results[3], "stalled iteration repeats the current fitness")
	assert.Equal(t, 2, s.MemoryLen())
}

func TestBestMonotone(t *testing.T) {
	s, _, ev := newSearch(t, 8, 5, 3, 9)
	prev := s.BestSolution().Fitness
	for i := 0; i < 40; i++ {
		require.NoError(t, s.Run(stop.New(ev, stop.Limits{MaxIterations: 5})))
		assert.GreaterOrEqual(t, s.BestSolution().Fitness, prev)
		prev = s.BestSolution().Fitness
	}
	assert.Equal(t, 32.0, prev)
}
