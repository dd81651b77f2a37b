package benchmarks

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeu5/value-iteration/solver"
)

var (
	gamma      float64
	tol        float64
	iterMax    int
	workers    int
	saveFile   string
	redisAddr  string
	cpuprofile string
	memprofile string
	verbose    bool

	stopProfiling func()
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "value-iteration",
		Short:         "Solve finite MDPs with value iteration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			var err error
			stopProfiling, err = startProfiling()
			return err
		},
	}
	rootCommand.PersistentFlags().Float64VarP(&gamma, "gamma", "g", solver.DefaultGamma, "Discount factor in [0, 1)")
	rootCommand.PersistentFlags().Float64Var(&tol, "tol", solver.DefaultTolerance, "Stop when the largest change of a sweep is below this")
	rootCommand.PersistentFlags().IntVar(&iterMax, "iter-max", solver.DefaultMaxIterations, "Maximum number of sweeps")
	rootCommand.PersistentFlags().IntVar(&workers, "workers", 1, "Goroutines per sweep")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().StringVar(&redisAddr, "redis", "", "Also store results in the redis server at this address")
	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a CPU profile to this file in the save folder")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a heap profile to this file in the save folder")
	rootCommand.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every sweep")
	// adding the subcommands here
	rootCommand.AddCommand(HealthCommand())
	rootCommand.AddCommand(GridCommand())
	rootCommand.AddCommand(RandomCommand())
	rootCommand.AddCommand(SolveCommand())
	rootCommand.AddCommand(CompareCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(RedisGetCommand())
	for _, cmd := range rootCommand.Commands() {
		withProfiling(cmd)
	}
	return rootCommand
}

// withProfiling stops the profiles once cmd returns, also when it fails
func withProfiling(cmd *cobra.Command) {
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		defer func() {
			if stopProfiling != nil {
				stopProfiling()
				stopProfiling = nil
			}
		}()
		return run(cmd, args)
	}
}

// solverConfig builds the solver configuration from the persistent flags
func solverConfig() *solver.Config {
	return &solver.Config{
		Gamma:         gamma,
		Tolerance:     tol,
		MaxIterations: iterMax,
		Workers:       workers,
		Logger:        slog.Default(),
	}
}

func ensureSaveFolder() error {
	return os.MkdirAll(saveFile, os.ModePerm)
}
