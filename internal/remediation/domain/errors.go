// Package domain defines core domain models and errors for remediation jobs.
package domain

import (
	"github.com/allisson/remediation/internal/errors"
)

// Queue-level error definitions.
var (
	// ErrEmptyPayload indicates an enqueue request carried no usable fields.
	ErrEmptyPayload = errors.Wrap(errors.ErrInvalidInput, "payload is empty")

	// ErrDuplicateTrace indicates a live entry already uses the requested trace id.
	ErrDuplicateTrace = errors.Wrap(errors.ErrConflict, "trace id already queued")

	// ErrJobNotFound indicates the queue entry does not exist (never queued, pruned or dead-lettered).
	ErrJobNotFound = errors.Wrap(errors.ErrNotFound, "remediation job not found")

	// ErrJobNotProcessable indicates the entry is neither pending nor error.
	ErrJobNotProcessable = errors.Wrap(errors.ErrConflict, "remediation job is not processable")
)

// Processing error taxonomy. Every attempt failure is classified into one of these
// (or left unclassified) before the retry policy runs.
var (
	// ErrMissingManualReference indicates the payload has no manual_reference.path.
	ErrMissingManualReference = errors.Wrap(errors.ErrInvalidInput, "manual_reference.path is required")

	// ErrManualNotFound indicates the manual storage has nothing at the referenced path.
	ErrManualNotFound = errors.Wrap(errors.ErrFailedDependency, "manual not found")

	// ErrGuidanceGeneration indicates the guidance generator failed.
	ErrGuidanceGeneration = errors.Wrap(errors.ErrFailedDependency, "guidance generation failed")

	// ErrMissingAlertReference indicates metadata.dashboard_id is absent or not an integer.
	ErrMissingAlertReference = errors.Wrap(errors.ErrFailedDependency, "metadata.dashboard_id is missing or not numeric")

	// ErrAlertNotFound indicates the referenced alert does not exist in the alert store.
	ErrAlertNotFound = errors.Wrap(errors.ErrFailedDependency, "referenced alert not found")
)
