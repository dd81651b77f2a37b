package solver

import (
	"fmt"
	"log/slog"
	"math"
)

const (
	DefaultGamma         = 0.9
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 1000
)

// Config of a value iteration run
type Config struct {
	// discount factor, must be in [0, 1)
	Gamma float64
	// iteration stops once the largest change of a sweep is below Tolerance
	Tolerance float64
	// upper bound on the number of sweeps
	MaxIterations int
	// number of goroutines evaluating a sweep, 0 and 1 both mean sequential
	Workers int
	// receives the non-convergence warning and per sweep debug records,
	// slog.Default() when nil
	Logger *slog.Logger
}

func DefaultConfig() *Config {
	return &Config{
		Gamma:         DefaultGamma,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		Workers:       1,
	}
}

// Validate checks every field against its domain
func (c *Config) Validate() error {
	if math.IsNaN(c.Gamma) || c.Gamma < 0 || c.Gamma >= 1 {
		return fmt.Errorf("%w: discount factor %v is out of range [0, 1)", ErrInvalidConfiguration, c.Gamma)
	}
	if math.IsNaN(c.Tolerance) || c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance %v must be non-negative", ErrInvalidConfiguration, c.Tolerance)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: maximum iterations %d must be at least 1", ErrInvalidConfiguration, c.MaxIterations)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d must be non-negative", ErrInvalidConfiguration, c.Workers)
	}
	return nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
