package benchmarks

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/value-iteration/models"
)

func RandomCommand() *cobra.Command {
	var states int
	var actions int
	var seed uint64
	var table bool

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Solve a random dense MDP, useful with --cpuprofile and --workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if states < 1 || actions < 1 {
				return fmt.Errorf("states and actions must be positive")
			}
			m := models.NewRandomMDP(states, actions, seed).MDP()
			name := recordName("random", fmt.Sprintf("%dx%d", states, actions), fmt.Sprint(seed))
			_, err := solveAndStore(cmd, name, m, solverConfig(), table)
			return err
		},
	}
	cmd.PersistentFlags().IntVar(&states, "states", 100, "Number of states")
	cmd.PersistentFlags().IntVar(&actions, "actions", 4, "Number of actions")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", 1, "Random seed")
	cmd.PersistentFlags().BoolVar(&table, "table", false, "Print the policy and values")
	return cmd
}
