package contract

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a Catalog when an entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvariantViolated marks a broken structural invariant of the org graph.
	ErrInvariantViolated = errors.New("invariant violated")
)

// InvariantError describes a structural invariant that an operation would break
// or that the loaded graph already breaks (second parent, cycle, runaway depth).
type InvariantError struct {
	Kind   string // Entity kind, e.g. "project"
	ID     string
	Reason string
}

// Error implements error.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.ID, e.Reason)
}

// Is lets errors.Is match ErrInvariantViolated.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariantViolated
}

// NotFound wraps ErrNotFound with the kind and ID that were missing.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
