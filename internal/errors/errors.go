// Package errors defines the error categories shared by the alert and remediation
// domains. Domain packages wrap one of these sentinels and the HTTP layer maps the
// category to a status code.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing alert or queue entry.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a request that contradicts current state, such as a job that is
	// already being processed.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput marks a request rejected before any state change.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFailedDependency marks a processing attempt that a collaborator could not
	// complete: manual storage, the guidance provider or the alert store.
	ErrFailedDependency = errors.New("failed dependency")
)

// Wrap prefixes err with message and keeps it in the chain. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsAny reports whether err matches one of targets.
func IsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
