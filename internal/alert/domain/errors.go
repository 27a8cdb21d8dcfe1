// Package domain defines core domain models and errors for dashboard alerts.
package domain

import (
	"github.com/allisson/remediation/internal/errors"
)

// Alert-specific error definitions.
var (
	// ErrAlertNotFound indicates the alert does not exist.
	ErrAlertNotFound = errors.Wrap(errors.ErrNotFound, "alert not found")

	// ErrInvalidEvent indicates an anomaly event that cannot be turned into an alert.
	ErrInvalidEvent = errors.Wrap(errors.ErrInvalidInput, "invalid anomaly event")
)
