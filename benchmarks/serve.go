package benchmarks

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/zeu5/value-iteration/export"
	"github.com/zeu5/value-iteration/server"
)

func ServeCommand() *cobra.Command {
	var addr string
	var checkDistributions bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			config := server.DefaultConfig()
			config.Addr = addr
			config.CheckDistributions = checkDistributions
			config.Solver = solverConfig()
			config.Logger = slog.Default()
			if redisAddr != "" {
				cli := redis.NewClient(&redis.Options{
					Addr: redisAddr,
				})
				defer cli.Close()
				config.Sink = export.NewRedisSink(cli, redisPrefix)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			return server.New(config).Run(ctx)
		},
	}
	cmd.PersistentFlags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.PersistentFlags().BoolVar(&checkDistributions, "check", true, "Reject transition rows that are not probability distributions")
	return cmd
}
