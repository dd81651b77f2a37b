package types

import "gonum.org/v1/gonum/floats"

// TransitionFunc returns Pr(next | state, action)
// For a fixed (state, action) the values over all next states should sum to 1
type TransitionFunc[S, A comparable] func(next S, state S, action A) float64

// RewardFunc returns the expected immediate reward of taking action in state
type RewardFunc[S, A comparable] func(state S, action A) float64

// MDP is a finite Markov Decision Process over opaque states and actions.
// The order of States and Actions is the enumeration order used by the solver
type MDP[S, A comparable] struct {
	States     []S
	Actions    []A
	Transition TransitionFunc[S, A]
	Reward     RewardFunc[S, A]
}

func NewMDP[S, A comparable](states []S, actions []A, p TransitionFunc[S, A], r RewardFunc[S, A]) *MDP[S, A] {
	return &MDP[S, A]{
		States:     states,
		Actions:    actions,
		Transition: p,
		Reward:     r,
	}
}

// Q computes the one step lookahead value of taking action in state,
// where values is indexed like States
func (m *MDP[S, A]) Q(values []float64, state S, action A, gamma float64, row []float64) float64 {
	for i, next := range m.States {
		row[i] = m.Transition(next, state, action)
	}
	return m.Reward(state, action) + gamma*floats.Dot(row, values)
}

// QValues fills out with the Q value of every action in state
func (m *MDP[S, A]) QValues(values []float64, state S, gamma float64, row, out []float64) {
	for j, a := range m.Actions {
		out[j] = m.Q(values, state, a, gamma, row)
	}
}
