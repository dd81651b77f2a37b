package benchmarks

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/value-iteration/models"
)

func HealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Solve the two state relax/party MDP",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := solveAndStore(cmd, "health", models.Health(), solverConfig(), true)
			return err
		},
	}
}
