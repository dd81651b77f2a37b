// Package solver computes optimal policies of finite MDPs with value iteration.
//
// Every sweep applies the Bellman optimality backup
//
//	V'(s) = max_a R(s,a) + gamma * sum_s' P(s'|s,a) V(s')
//
// to all states using the value table of the previous sweep, then swaps the
// tables. Iteration stops when the largest change of a sweep drops below the
// tolerance or when the iteration budget runs out. Running out of budget is
// not an error: the last values are returned, Result.Converged is false and a
// warning is logged.
//
// The greedy policy is extracted once from the final values. Ties are broken
// in favour of the action that comes first in MDP.Actions.
package solver

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/zeu5/value-iteration/types"
	"gonum.org/v1/gonum/floats"
)

// Solve runs value iteration on m with the given config,
// DefaultConfig() is used when config is nil
func Solve[S, A comparable](m *types.MDP[S, A], config *Config) (*types.Result[S, A], error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := validateMDP(m); err != nil {
		return nil, err
	}
	logger := config.logger()

	n := len(m.States)
	values := make([]float64, n)
	next := make([]float64, n)
	sweeper := newSweeper(m, config.Gamma, config.Workers)
	trace := types.NewTrace()

	converged := false
	delta := math.Inf(1)
	iterations := 0
	for iterations < config.MaxIterations {
		iterations++
		sweeper.sweep(values, next)
		delta = floats.Distance(next, values, math.Inf(1))
		values, next = next, values
		trace.Append(iterations, delta)
		logger.Debug("sweep complete", slog.Int("iteration", iterations), slog.Float64("delta", delta))

		if delta < config.Tolerance {
			converged = true
			break
		}
	}
	if !converged {
		logger.Warn(fmt.Sprintf("Maximum number of iterations (%d) reached!", config.MaxIterations),
			slog.Float64("delta", delta),
			slog.Float64("tolerance", config.Tolerance),
		)
	}

	valueFunction := make(types.ValueFunction[S], n)
	for i, s := range m.States {
		valueFunction[s] = values[i]
	}

	return &types.Result[S, A]{
		Policy:     sweeper.greedy(values),
		Values:     valueFunction,
		Iterations: iterations,
		Converged:  converged,
		Delta:      delta,
		Trace:      trace,
	}, nil
}

// ValueIteration solves the MDP (states, actions, p, r) and returns the optimal
// policy and state values. It is Solve with a sequential config built from
// the arguments.
func ValueIteration[S, A comparable](
	states []S,
	actions []A,
	p types.TransitionFunc[S, A],
	r types.RewardFunc[S, A],
	gamma, tol float64,
	iterMax int,
) (types.Policy[S, A], types.ValueFunction[S], error) {
	config := DefaultConfig()
	config.Gamma = gamma
	config.Tolerance = tol
	config.MaxIterations = iterMax

	result, err := Solve(types.NewMDP(states, actions, p, r), config)
	if err != nil {
		return nil, nil, err
	}
	return result.Policy, result.Values, nil
}

func validateMDP[S, A comparable](m *types.MDP[S, A]) error {
	if m == nil {
		return fmt.Errorf("%w: nil MDP", ErrInvalidInput)
	}
	if len(m.States) == 0 {
		return fmt.Errorf("%w: empty state set", ErrInvalidInput)
	}
	if len(m.Actions) == 0 {
		return fmt.Errorf("%w: empty action set", ErrInvalidInput)
	}
	if m.Transition == nil {
		return fmt.Errorf("%w: nil transition function", ErrInvalidInput)
	}
	if m.Reward == nil {
		return fmt.Errorf("%w: nil reward function", ErrInvalidInput)
	}
	seenStates := make(map[S]bool, len(m.States))
	for _, s := range m.States {
		if seenStates[s] {
			return fmt.Errorf("%w: duplicate state %v", ErrInvalidInput, s)
		}
		seenStates[s] = true
	}
	seenActions := make(map[A]bool, len(m.Actions))
	for _, a := range m.Actions {
		if seenActions[a] {
			return fmt.Errorf("%w: duplicate action %v", ErrInvalidInput, a)
		}
		seenActions[a] = true
	}
	return nil
}
