package solver

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/value-iteration/models"
	"github.com/zeu5/value-iteration/types"
)

func quietConfig() *Config {
	config := DefaultConfig()
	config.Logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return config
}

func TestInvalidDiscountFactor(t *testing.T) {
	for _, gamma := range []float64{-0.1, 1, 1.5, math.NaN(), math.Inf(1)} {
		calls := 0
		p := func(_, _ string, _ string) float64 {
			calls++
			return 1
		}
		r := func(_ string, _ string) float64 {
			calls++
			return 1
		}
		config := quietConfig()
		config.Gamma = gamma

		result, err := Solve(types.NewMDP([]string{"s"}, []string{"a"}, p, r), config)
		require.ErrorIs(t, err, ErrInvalidConfiguration, "gamma %v", gamma)
		assert.Nil(t, result)
		assert.Zero(t, calls, "gamma %v", gamma)
	}
}

func TestInvalidConfiguration(t *testing.T) {
	cases := map[string]func(*Config){
		"negative tolerance": func(c *Config) { c.Tolerance = -1e-3 },
		"nan tolerance":      func(c *Config) { c.Tolerance = math.NaN() },
		"zero iterations":    func(c *Config) { c.MaxIterations = 0 },
		"negative workers":   func(c *Config) { c.Workers = -2 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			config := quietConfig()
			mutate(config)
			_, err := Solve(models.Health(), config)
			require.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestInvalidInput(t *testing.T) {
	p := func(_, _ int, _ int) float64 { return 1 }
	r := func(_ int, _ int) float64 { return 0 }

	cases := map[string]*types.MDP[int, int]{
		"nil mdp":           nil,
		"empty states":      types.NewMDP([]int{}, []int{0}, p, r),
		"empty actions":     types.NewMDP([]int{0}, nil, p, r),
		"nil transition":    types.NewMDP([]int{0}, []int{0}, nil, r),
		"nil reward":        types.NewMDP([]int{0}, []int{0}, p, nil),
		"duplicate states":  types.NewMDP([]int{0, 1, 0}, []int{0}, p, r),
		"duplicate actions": types.NewMDP([]int{0}, []int{3, 3}, p, r),
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Solve(m, quietConfig())
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSingleStateGeometricSeries(t *testing.T) {
	p := func(_, _ string, _ string) float64 { return 1 }
	r := func(_ string, _ string) float64 { return 5 }

	config := quietConfig()
	result, err := Solve(types.NewMDP([]string{"s"}, []string{"a"}, p, r), config)
	require.NoError(t, err)
	assert.True(t, result.Converged)
	assert.InDelta(t, 5/(1-config.Gamma), result.Values["s"], 1e-4)
	assert.Equal(t, "a", result.Policy["s"])
}

func TestHealthWorkedScenario(t *testing.T) {
	config := quietConfig()
	config.Gamma = 0.8

	result, err := Solve(models.Health(), config)
	require.NoError(t, err)
	assert.True(t, result.Converged)
	assert.Equal(t, types.Policy[string, string]{
		models.Healthy: models.Party,
		models.Sick:    models.Relax,
	}, result.Policy)
	assert.InDelta(t, 35.71, result.Values[models.Healthy], 1e-2)
	assert.InDelta(t, 23.81, result.Values[models.Sick], 1e-2)
}

func TestValueIterationCall(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	m := models.Health()
	policy, values, err := ValueIteration(m.States, m.Actions, m.Transition, m.Reward, 0.8, 1e-6, 1000)
	require.NoError(t, err)
	assert.Equal(t, models.Party, policy[models.Healthy])
	assert.Equal(t, models.Relax, policy[models.Sick])
	assert.Len(t, values, 2)

	_, _, err = ValueIteration(m.States, m.Actions, m.Transition, m.Reward, 1, 1e-6, 1000)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

// the Bellman operator is a gamma contraction in the max norm
// so every sweep shrinks the change by at least gamma
func TestDeltaContracts(t *testing.T) {
	config := quietConfig()
	config.Gamma = 0.8

	result, err := Solve(models.Health(), config)
	require.NoError(t, err)
	deltas := result.Trace.Deltas()
	require.Greater(t, len(deltas), 10)
	for k := 1; k < len(deltas); k++ {
		assert.LessOrEqual(t, deltas[k], config.Gamma*deltas[k-1]+1e-12, "sweep %d", k+1)
	}
	_, last, ok := result.Trace.Last()
	require.True(t, ok)
	assert.Equal(t, result.Delta, last)
	assert.Less(t, last, config.Tolerance)
	assert.Equal(t, result.Iterations, result.Trace.Len())
}

func TestDeterminism(t *testing.T) {
	m := models.NewRandomMDP(25, 4, 42).MDP()

	first, err := Solve(m, quietConfig())
	require.NoError(t, err)
	second, err := Solve(m, quietConfig())
	require.NoError(t, err)
	assert.Equal(t, first.Policy, second.Policy)
	assert.Equal(t, first.Values, second.Values)
	assert.Equal(t, first.Iterations, second.Iterations)

	parallel := quietConfig()
	parallel.Workers = 4
	third, err := Solve(m, parallel)
	require.NoError(t, err)
	assert.Equal(t, first.Policy, third.Policy)
	assert.Equal(t, first.Values, third.Values)
	assert.Equal(t, first.Trace.Deltas(), third.Trace.Deltas())
}

func TestNonConvergenceWarning(t *testing.T) {
	var logs bytes.Buffer
	config := DefaultConfig()
	config.Gamma = 0.8
	config.MaxIterations = 1
	config.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	m := models.Health()
	result, err := Solve(m, config)
	require.NoError(t, err)
	assert.False(t, result.Converged)
	assert.Equal(t, 1, result.Iterations)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "Maximum number of iterations (1) reached!")

	require.Len(t, result.Values, len(m.States))
	require.Len(t, result.Policy, len(m.States))
	for _, s := range m.States {
		a, ok := result.Policy.Action(s)
		require.True(t, ok)
		assert.Contains(t, m.Actions, a)
	}
	// first sweep of a zero table is the best immediate reward
	assert.Equal(t, 10.0, result.Values[models.Healthy])
	assert.Equal(t, 2.0, result.Values[models.Sick])
}

func TestConvergesOnLastSweep(t *testing.T) {
	// with no discounting the second sweep repeats the first
	p := func(next, state int, _ int) float64 {
		if next == state {
			return 1
		}
		return 0
	}
	r := func(state int, action int) float64 { return float64(state + action) }
	m := types.NewMDP([]int{0, 1, 2}, []int{0, 1}, p, r)

	var logs bytes.Buffer
	config := DefaultConfig()
	config.Gamma = 0
	config.MaxIterations = 2
	config.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	result, err := Solve(m, config)
	require.NoError(t, err)
	assert.True(t, result.Converged)
	assert.Equal(t, 2, result.Iterations)
	assert.Zero(t, result.Delta)
	assert.NotContains(t, logs.String(), "Maximum number of iterations")
	assert.Equal(t, types.ValueFunction[int]{0: 1, 1: 2, 2: 3}, result.Values)

	config.MaxIterations = 1
	result, err = Solve(m, config)
	require.NoError(t, err)
	assert.False(t, result.Converged)
	assert.Contains(t, logs.String(), "Maximum number of iterations (1) reached!")
}

func TestSingleAction(t *testing.T) {
	m := models.NewRandomMDP(6, 1, 7).MDP()
	result, err := Solve(m, quietConfig())
	require.NoError(t, err)
	for _, s := range m.States {
		assert.Equal(t, 0, result.Policy[s])
	}
}

func TestTieBreakFirstAction(t *testing.T) {
	p := func(_, _ string, _ string) float64 { return 1 }
	r := func(_ string, _ string) float64 { return 1 }

	result, err := Solve(types.NewMDP([]string{"s"}, []string{"left", "right"}, p, r), quietConfig())
	require.NoError(t, err)
	assert.Equal(t, "left", result.Policy["s"])

	result, err = Solve(types.NewMDP([]string{"s"}, []string{"right", "left"}, p, r), quietConfig())
	require.NoError(t, err)
	assert.Equal(t, "right", result.Policy["s"])
}

func TestNilConfigUsesDefaults(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	p := func(_, _ string, _ string) float64 { return 1 }
	r := func(_ string, _ string) float64 { return 1 }
	result, err := Solve(types.NewMDP([]string{"s"}, []string{"a"}, p, r), nil)
	require.NoError(t, err)
	assert.True(t, result.Converged)
	assert.InDelta(t, 10, result.Values["s"], 1e-4)
}
