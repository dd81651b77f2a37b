// Package tabular describes MDPs over named states and actions as plain
// tables that can be written in YAML or JSON.
//
// A missing transition entry has probability 0 and a missing reward is 0.
// Whether the transition rows form probability distributions is only
// checked when asked for, see Definition.Validate.
package tabular

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeu5/value-iteration/solver"
	"github.com/zeu5/value-iteration/types"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidDefinition   = errors.New("tabular: invalid definition")
	ErrInvalidDistribution = errors.New("tabular: transition row is not a probability distribution")
	ErrUnsupportedFormat   = errors.New("tabular: unsupported format")
)

// DistributionTolerance bounds how far a transition row may sum away from 1
const DistributionTolerance = 1e-9

// Definition of an MDP with string states and actions
type Definition struct {
	Name    string   `yaml:"name" json:"name"`
	States  []string `yaml:"states" json:"states"`
	Actions []string `yaml:"actions" json:"actions"`
	// Transitions[state][action][next] = P(next|state,action)
	Transitions map[string]map[string]map[string]float64 `yaml:"transitions" json:"transitions"`
	// Rewards[state][action] = R(state,action)
	Rewards map[string]map[string]float64 `yaml:"rewards" json:"rewards"`

	// optional solver parameters, zero means the solver default
	Gamma         *float64 `yaml:"gamma,omitempty" json:"gamma,omitempty"`
	Tolerance     *float64 `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
	MaxIterations int      `yaml:"max_iterations,omitempty" json:"max_iterations,omitempty"`
}

// Load reads a definition from a .yaml, .yml or .json file
func Load(path string) (*Definition, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	d, err := Parse(bs, format)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// Parse decodes a definition, format is one of yaml, yml or json
func Parse(bs []byte, format string) (*Definition, error) {
	d := &Definition{}
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(bs, d); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDefinition, err)
		}
	case "json":
		if err := json.Unmarshal(bs, d); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDefinition, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return d, nil
}

// Validate checks that the name can be used as a record name, that states
// and actions are non-empty and unique and that the tables only reference
// declared names. With checkDistributions every transition row must also be
// non-negative and sum to 1.
func (d *Definition) Validate(checkDistributions bool) error {
	if d.Name == "." || d.Name == ".." || strings.ContainsAny(d.Name, `/\`) {
		return fmt.Errorf("%w: name %q", ErrInvalidDefinition, d.Name)
	}
	states, err := nameSet("state", d.States)
	if err != nil {
		return err
	}
	actions, err := nameSet("action", d.Actions)
	if err != nil {
		return err
	}

	for s, byAction := range d.Transitions {
		if !states[s] {
			return fmt.Errorf("%w: transition from unknown state %q", ErrInvalidDefinition, s)
		}
		for a, row := range byAction {
			if !actions[a] {
				return fmt.Errorf("%w: transition with unknown action %q", ErrInvalidDefinition, a)
			}
			for next := range row {
				if !states[next] {
					return fmt.Errorf("%w: transition to unknown state %q", ErrInvalidDefinition, next)
				}
			}
		}
	}
	for s, byAction := range d.Rewards {
		if !states[s] {
			return fmt.Errorf("%w: reward for unknown state %q", ErrInvalidDefinition, s)
		}
		for a := range byAction {
			if !actions[a] {
				return fmt.Errorf("%w: reward for unknown action %q", ErrInvalidDefinition, a)
			}
		}
	}

	if !checkDistributions {
		return nil
	}
	for _, s := range d.States {
		for _, a := range d.Actions {
			sum := 0.0
			for next, p := range d.Transitions[s][a] {
				if p < 0 || math.IsNaN(p) {
					return fmt.Errorf("%w: P(%s|%s,%s) = %v", ErrInvalidDistribution, next, s, a, p)
				}
				sum += p
			}
			if math.Abs(sum-1) > DistributionTolerance {
				return fmt.Errorf("%w: P(.|%s,%s) sums to %v", ErrInvalidDistribution, s, a, sum)
			}
		}
	}
	return nil
}

func nameSet(kind string, names []string) (map[string]bool, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no %ss", ErrInvalidDefinition, kind)
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		if set[n] {
			return nil, fmt.Errorf("%w: duplicate %s %q", ErrInvalidDefinition, kind, n)
		}
		set[n] = true
	}
	return set, nil
}

func (d *Definition) Transition(next, state, action string) float64 {
	return d.Transitions[state][action][next]
}

func (d *Definition) Reward(state, action string) float64 {
	return d.Rewards[state][action]
}

// MDP returns the generic view of d, the enumeration order is the
// order of States and Actions
func (d *Definition) MDP() *types.MDP[string, string] {
	return types.NewMDP(d.States, d.Actions, d.Transition, d.Reward)
}

// Apply overrides the fields of config that d sets
func (d *Definition) Apply(config *solver.Config) {
	if d.Gamma != nil {
		config.Gamma = *d.Gamma
	}
	if d.Tolerance != nil {
		config.Tolerance = *d.Tolerance
	}
	if d.MaxIterations > 0 {
		config.MaxIterations = d.MaxIterations
	}
}

// FromMDP tabulates a generic MDP over strings
func FromMDP(name string, m *types.MDP[string, string]) *Definition {
	d := &Definition{
		Name:        name,
		States:      append([]string(nil), m.States...),
		Actions:     append([]string(nil), m.Actions...),
		Transitions: make(map[string]map[string]map[string]float64),
		Rewards:     make(map[string]map[string]float64),
	}
	for _, s := range m.States {
		d.Transitions[s] = make(map[string]map[string]float64)
		d.Rewards[s] = make(map[string]float64)
		for _, a := range m.Actions {
			row := make(map[string]float64)
			for _, next := range m.States {
				if p := m.Transition(next, s, a); p != 0 {
					row[next] = p
				}
			}
			d.Transitions[s][a] = row
			d.Rewards[s][a] = m.Reward(s, a)
		}
	}
	return d
}
