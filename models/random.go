package models

import (
	"github.com/zeu5/value-iteration/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// RandomMDP is a dense MDP with tabulated transitions and rewards,
// states and actions are numbered from 0
type RandomMDP struct {
	// Transitions[s][a][s'] = P(s'|s,a)
	Transitions [][][]float64
	// Rewards[s][a] = R(s,a)
	Rewards [][]float64
}

// NewRandomMDP samples every transition row from a flat Dirichlet
// distribution and every reward uniformly from [0, 1).
// The same seed always produces the same MDP.
func NewRandomMDP(numStates, numActions int, seed uint64) *RandomMDP {
	src := rand.NewSource(seed)
	alpha := make([]float64, numStates)
	for i := range alpha {
		alpha[i] = 1
	}
	dirichlet := distmv.NewDirichlet(alpha, src)
	uniform := distuv.Uniform{Min: 0, Max: 1, Src: src}

	r := &RandomMDP{
		Transitions: make([][][]float64, numStates),
		Rewards:     make([][]float64, numStates),
	}
	for s := 0; s < numStates; s++ {
		r.Transitions[s] = make([][]float64, numActions)
		r.Rewards[s] = make([]float64, numActions)
		for a := 0; a < numActions; a++ {
			r.Transitions[s][a] = dirichlet.Rand(nil)
			r.Rewards[s][a] = uniform.Rand()
		}
	}
	return r
}

func (r *RandomMDP) Transition(next, state, action int) float64 {
	return r.Transitions[state][action][next]
}

func (r *RandomMDP) Reward(state, action int) float64 {
	return r.Rewards[state][action]
}

// MDP returns the generic view of r
func (r *RandomMDP) MDP() *types.MDP[int, int] {
	states := make([]int, len(r.Transitions))
	for i := range states {
		states[i] = i
	}
	actions := make([]int, 0)
	if len(r.Transitions) > 0 {
		for a := range r.Transitions[0] {
			actions = append(actions, a)
		}
	}
	return types.NewMDP(states, actions, r.Transition, r.Reward)
}
