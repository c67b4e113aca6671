package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation names an id with no live record.
	ErrNotFound = errors.New("paper not found")
	// ErrInvalid is the root of every validation failure.
	ErrInvalid = errors.New("invalid paper")
	// ErrCorruptSnapshot is returned when a snapshot can't be restored.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// ValidationError describes a draft that must not reach the catalog.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalid) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// DuplicateError reports that a draft matches an existing record by path
// or title. Callers decide whether to proceed or jump to the existing one.
type DuplicateError struct {
	ID     ID
	Reason string // "path" or "title"
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate of paper %d (same %s)", e.ID, e.Reason)
}
