package grid

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/value-iteration/solver"
)

func TestTransitionsAreDistributions(t *testing.T) {
	g := NewGridMDP(4, 5, 2, 0.2, Door{From: Position{I: 3, J: 4, K: 0}, To: Position{I: 0, J: 0, K: 1}})
	states := g.States()
	require.Len(t, states, 4*5*2)

	for _, s := range states {
		for _, a := range AllMovements {
			sum := 0.0
			for _, next := range states {
				p := g.Transition(next, s, a)
				assert.GreaterOrEqual(t, p, 0.0)
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-12, "state %s action %s", s, a)
		}
	}
}

func TestMoves(t *testing.T) {
	door := Door{From: Position{I: 1, J: 1, K: 0}, To: Position{I: 0, J: 0, K: 1}}
	g := NewGridMDP(3, 3, 2, 0, door)

	assert.Equal(t, Position{I: 1, J: 0, K: 0}, g.move(Position{}, MovementUp))
	assert.Equal(t, Position{}, g.move(Position{}, MovementDown))
	assert.Equal(t, Position{}, g.move(Position{}, MovementLeft))
	assert.Equal(t, Position{I: 0, J: 1, K: 0}, g.move(Position{}, MovementRight))
	assert.Equal(t, Position{I: 2, J: 2, K: 0}, g.move(Position{I: 2, J: 2, K: 0}, MovementUp))
	assert.Equal(t, door.To, g.move(door.From, NextGridMovement))
	// the far corner of a grid leads to the next grid
	assert.Equal(t, Position{I: 0, J: 0, K: 1}, g.move(Position{I: 2, J: 2, K: 0}, NextGridMovement))
	assert.Equal(t, Position{I: 2, J: 2, K: 1}, g.move(Position{I: 2, J: 2, K: 1}, NextGridMovement))
}

func TestSolveGrid(t *testing.T) {
	g := NewGridMDP(3, 3, 1, 0.1)
	config := solver.DefaultConfig()
	config.Gamma = 0.9
	config.Logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	result, err := solver.Solve(g.MDP(), config)
	require.NoError(t, err)
	require.True(t, result.Converged)

	// next to the goal the agent steps into it
	assert.Equal(t, MovementUp, result.Policy[Position{I: 1, J: 2}])
	assert.Equal(t, MovementRight, result.Policy[Position{I: 2, J: 1}])
	// V = 0.9 + 0.9*0.1*V
	assert.InDelta(t, 0.9/0.91, result.Values[Position{I: 1, J: 2}], 1e-4)
	assert.Zero(t, result.Values[g.Goal])

	// values grow towards the goal
	assert.Less(t, result.Values[Position{}], result.Values[Position{I: 1, J: 1}])

	arrows := PolicyArrows(g, result.Policy, 0)
	require.Len(t, arrows, 3)
	assert.Equal(t, "G", arrows[0][2])

	data := NewValueDataSet(g, result.Values, 0)
	c, r := data.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 3, r)
	assert.Equal(t, result.Values[Position{I: 1, J: 2}], data.Z(2, 1))
	assert.Zero(t, data.Min())
	assert.InDelta(t, 0.9/0.91, data.Max(), 1e-4)
}
