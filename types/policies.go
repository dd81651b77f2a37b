package types

import (
	"fmt"
	"sort"
)

// Policy maps every state to the action to take
type Policy[S, A comparable] map[S]A

func (p Policy[S, A]) Action(state S) (A, bool) {
	a, ok := p[state]
	return a, ok
}

// ValueFunction maps every state to its estimated value
type ValueFunction[S comparable] map[S]float64

func (v ValueFunction[S]) Get(state S) (float64, bool) {
	val, ok := v[state]
	return val, ok
}

// Result of solving an MDP
type Result[S, A comparable] struct {
	Policy Policy[S, A]
	Values ValueFunction[S]
	// number of sweeps executed
	Iterations int
	// false when the iteration budget ran out before the tolerance was met
	Converged bool
	// change of the last sweep
	Delta float64
	Trace *Trace
}

// Strings renders the policy and value function with string keys, use
// SortedKeys to walk them in a stable order
func (r *Result[S, A]) Strings() (map[string]string, map[string]float64) {
	policy := make(map[string]string, len(r.Policy))
	for s, a := range r.Policy {
		policy[fmt.Sprint(s)] = fmt.Sprint(a)
	}
	values := make(map[string]float64, len(r.Values))
	for s, v := range r.Values {
		values[fmt.Sprint(s)] = v
	}
	return policy, values
}

// SortedKeys returns the keys of a string keyed map in order
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
