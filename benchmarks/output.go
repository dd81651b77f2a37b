package benchmarks

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/zeu5/value-iteration/export"
	"github.com/zeu5/value-iteration/solver"
	"github.com/zeu5/value-iteration/types"
)

const redisPrefix = "value-iteration"

// sinks returns the file sink of the save folder and, with --redis, a redis sink
func sinks() ([]export.Sink, func()) {
	out := []export.Sink{export.NewFileSink(saveFile)}
	if redisAddr == "" {
		return out, func() {}
	}
	cli := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	out = append(out, export.NewRedisSink(cli, redisPrefix))
	return out, func() { cli.Close() }
}

func storeRecord(ctx context.Context, name string, r *export.Record) error {
	all, closeAll := sinks()
	defer closeAll()
	for _, s := range all {
		if err := s.Write(ctx, name, r); err != nil {
			return fmt.Errorf("storing %s: %w", name, err)
		}
	}
	return nil
}

// solveAndStore solves m, stores the result under name and prints either
// the full table or only the convergence status
func solveAndStore[S, A comparable](cmd *cobra.Command, name string, m *types.MDP[S, A], config *solver.Config, table bool) (*types.Result[S, A], error) {
	result, err := solver.Solve(m, config)
	if err != nil {
		return nil, err
	}
	record := export.NewRecord(result)
	if table {
		printRecord(cmd.OutOrStdout(), name, record)
	} else {
		printStatus(cmd.OutOrStdout(), record)
	}
	if err := storeRecord(cmd.Context(), name, record); err != nil {
		return nil, err
	}
	return result, nil
}

func printRecord(w io.Writer, name string, r *export.Record) {
	fmt.Fprintf(w, "%s\n", aurora.Bold(name))
	states := types.SortedKeys(r.Values)
	width := 5
	for _, s := range states {
		if len(s) > width {
			width = len(s)
		}
	}
	for _, s := range states {
		fmt.Fprint(w, aurora.Blue(fmt.Sprintf("%*s ", width, s)))
		fmt.Fprint(w, aurora.White("|"))
		fmt.Fprint(w, aurora.Green(fmt.Sprintf(" %-10s", r.Policy[s])))
		fmt.Fprint(w, aurora.White("|"))
		fmt.Fprintf(w, " %.4f\n", r.Values[s])
	}
	printStatus(w, r)
}

func printStatus(w io.Writer, r *export.Record) {
	if r.Converged {
		fmt.Fprintln(w, aurora.Green(fmt.Sprintf("converged after %d iterations (delta %.3e)", r.Iterations, r.Delta)))
		return
	}
	fmt.Fprintln(w, aurora.Yellow(fmt.Sprintf("did not converge within %d iterations (delta %.3e)", r.Iterations, r.Delta)))
}

func printArrows(w io.Writer, rows [][]string) {
	for _, row := range rows {
		for _, cell := range row {
			if cell == "G" {
				fmt.Fprint(w, aurora.Green(cell+" "))
			} else {
				fmt.Fprint(w, aurora.Blue(cell+" "))
			}
		}
		fmt.Fprintln(w)
	}
}

func recordName(parts ...string) string {
	return strings.Join(parts, "_")
}
