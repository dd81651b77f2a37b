package benchmarks

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/value-iteration/analysis"
	"github.com/zeu5/value-iteration/grid"
)

// grids larger than this are not printed
const maxPrintedWidth = 40

func GridValues(cmd *cobra.Command, height, width, grids int, slip float64) error {
	doors := make([]grid.Door, 0)
	for k := 0; k < grids-1; k++ {
		// from the far corner of grid k to the origin of grid k+1
		doors = append(doors, grid.Door{
			From: grid.Position{I: height - 1, J: width - 1, K: k},
			To:   grid.Position{I: 0, J: 0, K: k + 1},
		})
	}
	g := grid.NewGridMDP(height, width, grids, slip, doors...)

	name := recordName("grid", fmt.Sprintf("%dx%dx%d", height, width, grids))
	result, err := solveAndStore(cmd, name, g.MDP(), solverConfig(), false)
	if err != nil {
		return err
	}

	for k := 0; k < grids; k++ {
		if width <= maxPrintedWidth {
			fmt.Fprintf(cmd.OutOrStdout(), "grid %d\n", k)
			printArrows(cmd.OutOrStdout(), grid.PolicyArrows(g, result.Policy, k))
		}
		heatmap := path.Join(saveFile, fmt.Sprintf("%s_values_%d.png", name, k))
		if err := analysis.ValueHeatmap(heatmap, fmt.Sprintf("Grid %d", k), grid.NewValueDataSet(g, result.Values, k)); err != nil {
			return err
		}
	}
	return nil
}

func GridCommand() *cobra.Command {
	var height int
	var width int
	var grids int
	var slip float64

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Solve a stochastic gridworld",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureSaveFolder(); err != nil {
				return err
			}
			return GridValues(cmd, height, width, grids, slip)
		},
	}
	cmd.PersistentFlags().IntVar(&height, "height", 5, "Height of each grid")
	cmd.PersistentFlags().IntVar(&width, "width", 5, "Width of each grid")
	cmd.PersistentFlags().IntVar(&grids, "grids", 2, "Number of grids")
	cmd.PersistentFlags().Float64Var(&slip, "slip", 0.1, "Probability that a movement fails")
	return cmd
}
