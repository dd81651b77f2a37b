package benchmarks

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/value-iteration/tabular"
)

func SolveCommand() *cobra.Command {
	var checkDistributions bool

	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Solve an MDP described in a yaml or json file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := tabular.Load(args[0])
			if err != nil {
				return err
			}
			if err := d.Validate(checkDistributions); err != nil {
				return err
			}
			config := solverConfig()
			// values in the file win over the defaults, explicit flags win over the file
			flags := cmd.Flags()
			fileConfig := *config
			d.Apply(&fileConfig)
			if !flags.Changed("gamma") {
				config.Gamma = fileConfig.Gamma
			}
			if !flags.Changed("tol") {
				config.Tolerance = fileConfig.Tolerance
			}
			if !flags.Changed("iter-max") {
				config.MaxIterations = fileConfig.MaxIterations
			}
			_, err = solveAndStore(cmd, d.Name, d.MDP(), config, true)
			return err
		},
	}
	cmd.PersistentFlags().BoolVar(&checkDistributions, "check", true, "Reject transition rows that are not probability distributions")
	return cmd
}
