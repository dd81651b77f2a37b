package benchmarks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zeu5/value-iteration/analysis"
	"github.com/zeu5/value-iteration/models"
)

// CompareGammas solves the same random MDP for every discount factor and
// plots how fast each converges
func CompareGammas(cmd *cobra.Command, gammas []float64, states, actions int, seed uint64) error {
	m := models.NewRandomMDP(states, actions, seed).MDP()

	c := analysis.NewComparison(m, &analysis.ComparisonConfig{
		RecordPath: saveFile,
	})
	c.AddAnalysis("Convergence", analysis.DeltaAnalyzer(), analysis.ConvergencePlotter(saveFile))
	c.AddAnalysis("Chart", analysis.DeltaAnalyzer(), analysis.ConvergenceChart(saveFile))
	c.AddAnalysis("Iterations", analysis.IterationsAnalyzer(), analysis.IterationsPrinter(cmd.OutOrStdout()))

	for _, g := range gammas {
		config := solverConfig()
		config.Gamma = g
		c.AddExperiment(analysis.NewExperiment(fmt.Sprintf("gamma=%g", g), config))
	}
	return c.Run(cmd.Context())
}

func CompareCommand() *cobra.Command {
	var gammas string
	var states int
	var actions int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the convergence of several discount factors",
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]float64, 0)
			for _, g := range strings.Split(gammas, ",") {
				v, err := strconv.ParseFloat(strings.TrimSpace(g), 64)
				if err != nil {
					return fmt.Errorf("invalid discount factor %q: %w", g, err)
				}
				values = append(values, v)
			}
			if err := ensureSaveFolder(); err != nil {
				return err
			}
			return CompareGammas(cmd, values, states, actions, seed)
		},
	}
	cmd.PersistentFlags().StringVar(&gammas, "gammas", "0.5,0.9,0.99", "Comma separated discount factors")
	cmd.PersistentFlags().IntVar(&states, "states", 50, "Number of states")
	cmd.PersistentFlags().IntVar(&actions, "actions", 4, "Number of actions")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", 1, "Random seed")
	return cmd
}
