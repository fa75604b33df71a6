package assetgen

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for processor declarations.
var (
	// ErrNoTarget is returned when a processor has no Target field.
	ErrNoTarget = errors.New("assetgen: processor has no target")

	// ErrMultipleTargets is returned when a processor has more than one
	// Target field.
	ErrMultipleTargets = errors.New("assetgen: processor has multiple targets")
)

// TargetError describes an invalid Target declaration on a processor type.
type TargetError struct {
	Type string // Fully qualified type name
	Err  error  // ErrNoTarget or ErrMultipleTargets
}

// Error returns the error string.
func (e *TargetError) Error() string {
	return fmt.Sprintf("%s (type %s)", e.Err, e.Type)
}

// Unwrap returns the underlying sentinel error.
func (e *TargetError) Unwrap() error {
	return e.Err
}

// NewTargetError returns a new TargetError for the given type.
func NewTargetError(typ string, err error) *TargetError {
	return &TargetError{Type: typ, Err: err}
}

// IsTargetError returns true if the error is a TargetError.
func IsTargetError(err error) bool {
	if err == nil {
		return false
	}
	var e *TargetError
	return errors.As(err, &e)
}
