package benchmarks

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/zeu5/value-iteration/export"
)

// RedisGetCommand prints a result previously stored with --redis
func RedisGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "redis-get <name>",
		Short: "Print a stored result from redis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if redisAddr == "" {
				return errors.New("--redis is required")
			}
			cli := redis.NewClient(&redis.Options{
				Addr: redisAddr,
			})
			defer cli.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			record, err := export.NewRedisSink(cli, redisPrefix).Read(ctx, args[0])
			if err != nil {
				return err
			}
			printRecord(cmd.OutOrStdout(), args[0], record)
			return nil
		},
	}
}
