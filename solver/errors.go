package solver

import "errors"

// Errors returned by the solver. Callers match them with errors.Is,
// the returned error carries the offending value in its message.
var (
	// ErrInvalidConfiguration is returned when the discount factor,
	// tolerance, iteration budget or worker count is out of its domain.
	// Nothing is computed when it is returned.
	ErrInvalidConfiguration = errors.New("solver: invalid configuration")

	// ErrInvalidInput is returned for empty or duplicated state and action
	// sets and for missing transition or reward functions.
	ErrInvalidInput = errors.New("solver: invalid input")
)
