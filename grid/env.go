package grid

import (
	"fmt"

	"github.com/zeu5/value-iteration/types"
)

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// GridMDP is a stack of Grids grids of size Height x Width. Movements
// succeed with probability 1-Slip, otherwise the agent stays put. Reaching
// Goal yields a reward of 1 and Goal is absorbing.
type GridMDP struct {
	Height int
	Width  int
	Grids  int
	Slip   float64
	Doors  []Door
	Goal   Position
}

// Door moves the agent from From to To on the Next movement
type Door struct {
	From Position
	To   Position
}

// NewGridMDP places the goal in the far corner of the last grid
func NewGridMDP(height, width, grids int, slip float64, doors ...Door) *GridMDP {
	return &GridMDP{
		Height: height,
		Width:  width,
		Grids:  grids,
		Slip:   slip,
		Doors:  doors,
		Goal:   Position{I: height - 1, J: width - 1, K: grids - 1},
	}
}

// States enumerates positions grid by grid, row by row
func (g *GridMDP) States() []Position {
	states := make([]Position, 0, g.Height*g.Width*g.Grids)
	for k := 0; k < g.Grids; k++ {
		for i := 0; i < g.Height; i++ {
			for j := 0; j < g.Width; j++ {
				states = append(states, Position{I: i, J: j, K: k})
			}
		}
	}
	return states
}

// move returns the position reached when the movement succeeds
func (g *GridMDP) move(cur Position, movement Movement) Position {
	newPos := cur
	if movement == NextGridMovement {
		for _, d := range g.Doors {
			if d.From.Eq(cur) {
				return d.To
			}
		}
	}

	switch movement.Direction {
	case "Nothing":
	case "Up":
		newPos.I = min(g.Height-1, cur.I+1)
	case "Down":
		newPos.I = max(0, cur.I-1)
	case "Left":
		newPos.J = max(0, cur.J-1)
	case "Right":
		newPos.J = min(g.Width-1, cur.J+1)
	case "Next":
		if cur.I == min(10, g.Height-1) && cur.J == min(10, g.Width-1) {
			if cur.K < g.Grids-1 {
				newPos.I = 0
				newPos.J = 0
				newPos.K = cur.K + 1
			}
		}
	}
	return newPos
}

func (g *GridMDP) Transition(next, state Position, action Movement) float64 {
	if state == g.Goal {
		if next == state {
			return 1
		}
		return 0
	}
	prob := 0.0
	if next == g.move(state, action) {
		prob += 1 - g.Slip
	}
	if next == state {
		prob += g.Slip
	}
	return prob
}

func (g *GridMDP) Reward(state Position, action Movement) float64 {
	if state == g.Goal {
		return 0
	}
	if g.move(state, action) == g.Goal {
		return 1 - g.Slip
	}
	return 0
}

func (g *GridMDP) MDP() *types.MDP[Position, Movement] {
	return types.NewMDP(g.States(), AllMovements, g.Transition, g.Reward)
}

type Position struct {
	I int
	J int
	K int
}

func (p Position) Hash() string {
	return fmt.Sprintf("(%d, %d, %d)", p.I, p.J, p.K)
}

func (p Position) String() string {
	return p.Hash()
}

func (p Position) Eq(other Position) bool {
	return p.I == other.I && p.J == other.J && p.K == other.K
}

type Movement struct {
	Direction string
}

func (m Movement) Hash() string {
	return m.Direction
}

func (m Movement) String() string {
	return m.Direction
}

var (
	MovementUp                  = Movement{"Up"}
	MovementDown                = Movement{"Down"}
	MovementLeft                = Movement{"Left"}
	MovementRight               = Movement{"Right"}
	NoMovement                  = Movement{"Nothing"}
	NextGridMovement            = Movement{"Next"}
	AllMovements     []Movement = []Movement{
		MovementUp,
		MovementDown,
		MovementLeft,
		MovementRight,
		NoMovement,
		NextGridMovement,
	}
)
