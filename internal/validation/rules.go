// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/remediation/internal/errors"
)

var (
	// traceIDRegex allows the characters upstream emitters use in correlation ids.
	traceIDRegex = regexp.MustCompile(`^[A-Za-z0-9._:\-]{1,128}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// TraceID validates a caller-supplied trace id. Empty values pass so the queue can
// generate one.
var TraceID = validation.NewStringRuleWithError(
	traceIDRegex.MatchString,
	validation.NewError("validation_trace_id", "must be 1-128 characters of letters, digits, '.', '_', ':' or '-'"),
)

// ManualPath validates a manual reference path: a bucket key that may start with "/"
// but must not climb out of the bucket.
var ManualPath = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_manual_path_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	for _, segment := range strings.Split(s, "/") {
		if segment == ".." {
			return validation.NewError("validation_manual_path", "must not contain '..' segments")
		}
	}
	return nil
})
