// Package models contains small example MDPs used by the command line,
// the HTTP service and the tests.
package models

import "github.com/zeu5/value-iteration/types"

const (
	Healthy = "healthy"
	Sick    = "sick"

	Relax = "relax"
	Party = "party"
)

// probability of being healthy after taking an action
var healthyNext = map[string]map[string]float64{
	Healthy: {Relax: 0.95, Party: 0.7},
	Sick:    {Relax: 0.5, Party: 0.1},
}

var healthRewards = map[string]map[string]float64{
	Healthy: {Relax: 7, Party: 10},
	Sick:    {Relax: 0, Party: 2},
}

// Health is the two state relax/party MDP. With a discount factor of 0.8
// the optimal policy parties while healthy and relaxes while sick.
func Health() *types.MDP[string, string] {
	return types.NewMDP(
		[]string{Healthy, Sick},
		[]string{Relax, Party},
		HealthTransition,
		HealthReward,
	)
}

func HealthTransition(next, state, action string) float64 {
	p, ok := healthyNext[state][action]
	if !ok {
		return 0
	}
	if next == Healthy {
		return p
	}
	if next == Sick {
		return 1 - p
	}
	return 0
}

func HealthReward(state, action string) float64 {
	return healthRewards[state][action]
}
