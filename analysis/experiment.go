// Package analysis compares solver configurations on a shared MDP and
// plots how fast each of them converges.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/zeu5/value-iteration/solver"
	"github.com/zeu5/value-iteration/types"
	"github.com/zeu5/value-iteration/util"
)

// Experiment is a named solver configuration
type Experiment struct {
	Name   string
	Config *solver.Config
}

// NewExperiment creates a new experiment instance, a nil config runs
// with solver.DefaultConfig
func NewExperiment(name string, config *solver.Config) *Experiment {
	if config == nil {
		config = solver.DefaultConfig()
	}
	return &Experiment{
		Name:   name,
		Config: config,
	}
}

// Summary of one experiment run handed to the analyzers
type Summary struct {
	Name       string
	Iterations int
	Converged  bool
	Delta      float64
	Duration   time.Duration
	Trace      *types.Trace
}

type DataSet interface{}

type Analyzer interface {
	Analyze(*Summary)
	DataSet() DataSet
	Reset()
}

type Comparator func([]string, []DataSet) error

func NoopComparator() Comparator {
	return func(_ []string, _ []DataSet) error { return nil }
}

type ComparisonConfig struct {
	// folder to store the plots and the comparison config,
	// nothing is recorded when empty
	RecordPath string
	Logger     *slog.Logger
}

// Comparison runs every experiment on the same MDP
type Comparison[S, A comparable] struct {
	Experiments []*Experiment
	// results of the last Run, indexed like Experiments
	Results     []*types.Result[S, A]
	mdp         *types.MDP[S, A]
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	cConfig     *ComparisonConfig
}

// NewComparison creates a comparison over mdp. The record folder is
// created on Run.
func NewComparison[S, A comparable](mdp *types.MDP[S, A], config *ComparisonConfig) *Comparison[S, A] {
	if config == nil {
		config = &ComparisonConfig{}
	}
	return &Comparison[S, A]{
		Experiments: make([]*Experiment, 0),
		Results:     make([]*types.Result[S, A], 0),
		mdp:         mdp,
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		cConfig:     config,
	}
}

func (c *Comparison[S, A]) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

func (c *Comparison[S, A]) AddExperiment(e *Experiment) {
	if e.Config == nil {
		e.Config = solver.DefaultConfig()
	}
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison[S, A]) logger() *slog.Logger {
	if c.cConfig.Logger == nil {
		return slog.Default()
	}
	return c.cConfig.Logger
}

// Run solves the MDP once per experiment, in order, then hands the
// datasets of every analyzer to its comparator. The context is checked
// between experiments.
func (c *Comparison[S, A]) Run(ctx context.Context) error {
	if err := c.recordConfig(); err != nil {
		return err
	}

	datasets := make(map[string][]DataSet)
	for name := range c.analyzers {
		datasets[name] = make([]DataSet, len(c.Experiments))
	}
	names := make([]string, len(c.Experiments))
	c.Results = make([]*types.Result[S, A], len(c.Experiments))

	for i, e := range c.Experiments {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := time.Now()
		result, err := solver.Solve(c.mdp, e.Config)
		if err != nil {
			return fmt.Errorf("experiment %s: %w", e.Name, err)
		}
		summary := &Summary{
			Name:       e.Name,
			Iterations: result.Iterations,
			Converged:  result.Converged,
			Delta:      result.Delta,
			Duration:   time.Since(start),
			Trace:      result.Trace,
		}
		c.logger().Info("experiment finished",
			slog.String("experiment", e.Name),
			slog.Int("iterations", summary.Iterations),
			slog.Bool("converged", summary.Converged),
			slog.Duration("duration", summary.Duration),
		)

		for name, a := range c.analyzers {
			a.Analyze(summary)
			datasets[name][i] = a.DataSet()
			a.Reset()
		}
		names[i] = e.Name
		c.Results[i] = result
	}

	var errs []error
	for name, comp := range c.comparators {
		if err := comp(names, datasets[name]); err != nil {
			errs = append(errs, fmt.Errorf("comparator %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// store configuration details to a file
func (c *Comparison[S, A]) recordConfig() error {
	if c.cConfig.RecordPath == "" {
		return nil
	}
	out := make(map[string]interface{})
	out["states"] = len(c.mdp.States)
	out["actions"] = len(c.mdp.Actions)

	experiments := make([]map[string]interface{}, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, map[string]interface{}{
			"name":           e.Name,
			"gamma":          e.Config.Gamma,
			"tolerance":      e.Config.Tolerance,
			"max_iterations": e.Config.MaxIterations,
			"workers":        e.Config.Workers,
		})
	}
	out["experiments"] = experiments

	analyzers := make([]string, 0)
	for name := range c.analyzers {
		analyzers = append(analyzers, name)
	}
	out["analyzers"] = analyzers

	bs, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return util.WriteToFile(path.Join(c.cConfig.RecordPath, "comparison_config.json"), string(bs))
}
