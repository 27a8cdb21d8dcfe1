// Package dto provides data transfer objects for remediation queue HTTP handling.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/remediation/internal/remediation/domain"
	customValidation "github.com/allisson/remediation/internal/validation"
)

// ManualReferenceRequest points at the manual used to ground guidance.
type ManualReferenceRequest struct {
	Path string   `json:"path"`
	Tags []string `json:"tags"`
}

// EnqueueJobRequest is a remediation job submission. Emptiness and a missing manual
// reference are checked by the queue itself.
type EnqueueJobRequest struct {
	TraceID         string                  `json:"trace_id"`
	Anomaly         map[string]any          `json:"anomaly"`
	AIError         map[string]any          `json:"ai_error"`
	ManualReference *ManualReferenceRequest `json:"manual_reference"`
	Metadata        map[string]any          `json:"metadata"`
	Message         *string                 `json:"message"`
}

// Validate checks if the enqueue request is valid.
func (r *EnqueueJobRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TraceID, customValidation.TraceID),
		validation.Field(&r.ManualReference),
		validation.Field(&r.Message, validation.Length(0, 1000)),
	)
}

// Validate checks the manual reference path.
func (m ManualReferenceRequest) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Path, customValidation.ManualPath, validation.Length(0, 1024)),
		validation.Field(&m.Tags, validation.Each(customValidation.NotBlank)),
	)
}

// ToDomain converts the request into a queue payload.
func (r *EnqueueJobRequest) ToDomain() domain.Payload {
	payload := domain.Payload{
		TraceID:  r.TraceID,
		Anomaly:  r.Anomaly,
		AIError:  r.AIError,
		Metadata: r.Metadata,
		Message:  r.Message,
	}
	if r.ManualReference != nil {
		payload.ManualReference = &domain.ManualReference{
			Path: r.ManualReference.Path,
			Tags: r.ManualReference.Tags,
		}
	}
	return payload
}
