package grid

import (
	"github.com/zeu5/value-iteration/types"
	"gonum.org/v1/plot/plotter"
)

// ValueDataSet is the value function of one grid laid out for a heatmap
type ValueDataSet struct {
	Values [][]float64
	Height int
	Width  int
}

var _ plotter.GridXYZ = &ValueDataSet{}

func NewValueDataSet(g *GridMDP, values types.ValueFunction[Position], k int) *ValueDataSet {
	dataSet := &ValueDataSet{
		Values: make([][]float64, g.Height),
		Height: g.Height,
		Width:  g.Width,
	}
	for i := 0; i < g.Height; i++ {
		dataSet.Values[i] = make([]float64, g.Width)
		for j := 0; j < g.Width; j++ {
			dataSet.Values[i][j] = values[Position{I: i, J: j, K: k}]
		}
	}
	return dataSet
}

func (g *ValueDataSet) Dims() (int, int) {
	return g.Width, g.Height
}

func (g *ValueDataSet) Z(j, i int) float64 {
	return g.Values[i][j]
}

func (g *ValueDataSet) X(j int) float64 {
	return float64(j)
}

func (g *ValueDataSet) Y(i int) float64 {
	return float64(i)
}

func (g *ValueDataSet) Min() float64 {
	min := 0.0
	for _, vals := range g.Values {
		for _, v := range vals {
			if v < min {
				min = v
			}
		}
	}
	return min
}

func (g *ValueDataSet) Max() float64 {
	max := 0.0
	for _, vals := range g.Values {
		for _, v := range vals {
			if v > max {
				max = v
			}
		}
	}
	return max
}

var arrows = map[string]string{
	"Up":      "^",
	"Down":    "v",
	"Left":    "<",
	"Right":   ">",
	"Nothing": ".",
	"Next":    "*",
}

// PolicyArrows renders the policy of grid k, top row first
func PolicyArrows(g *GridMDP, policy types.Policy[Position, Movement], k int) [][]string {
	rows := make([][]string, 0, g.Height)
	for i := g.Height - 1; i >= 0; i-- {
		row := make([]string, g.Width)
		for j := 0; j < g.Width; j++ {
			pos := Position{I: i, J: j, K: k}
			if pos == g.Goal {
				row[j] = "G"
				continue
			}
			row[j] = arrows[policy[pos].Direction]
		}
		rows = append(rows, row)
	}
	return rows
}
