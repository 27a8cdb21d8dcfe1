package dto

import (
	"time"

	"github.com/allisson/remediation/internal/remediation/domain"
)

// EnqueueJobResponse is returned when a job is accepted.
type EnqueueJobResponse struct {
	ID      string `json:"id"`
	TraceID string `json:"trace_id"`
	Status  string `json:"status"`
}

// JobResponse is a snapshot of a live queue entry.
type JobResponse struct {
	ID           string         `json:"id"`
	TraceID      string         `json:"trace_id"`
	Status       string         `json:"status"`
	AttemptCount int            `json:"attempt_count"`
	LastError    *string        `json:"last_error"`
	Payload      domain.Payload `json:"payload"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// MapEntryToEnqueueResponse converts a queue entry to an enqueue response.
func MapEntryToEnqueueResponse(entry *domain.QueueEntry) EnqueueJobResponse {
	return EnqueueJobResponse{
		ID:      entry.ID.String(),
		TraceID: entry.TraceID,
		Status:  string(entry.Status),
	}
}

// MapEntryToResponse converts a queue entry to a job response.
func MapEntryToResponse(entry *domain.QueueEntry) JobResponse {
	response := JobResponse{
		ID:           entry.ID.String(),
		TraceID:      entry.TraceID,
		Status:       string(entry.Status),
		AttemptCount: entry.AttemptCount,
		Payload:      entry.Payload,
		CreatedAt:    entry.CreatedAt,
		UpdatedAt:    entry.UpdatedAt,
	}
	if entry.LastError != "" {
		lastError := entry.LastError
		response.LastError = &lastError
	}
	return response
}

// StepResponse is one remediation step.
type StepResponse struct {
	Order  int    `json:"order"`
	Action string `json:"action"`
	Note   string `json:"note,omitempty"`
}

// ProcessResultResponse is the outcome of a successful processing attempt.
type ProcessResultResponse struct {
	TraceID    string         `json:"trace_id"`
	AlertID    int64          `json:"alert_id"`
	Summary    string         `json:"summary"`
	Steps      []StepResponse `json:"steps"`
	Confidence string         `json:"confidence,omitempty"`
}

// MapResultToResponse converts a remediation result to an API response.
func MapResultToResponse(result *domain.RemediationResult) ProcessResultResponse {
	steps := make([]StepResponse, 0, len(result.Steps))
	for _, step := range result.Steps {
		steps = append(steps, StepResponse{Order: step.Order, Action: step.Action, Note: step.Note})
	}
	return ProcessResultResponse{
		TraceID:    result.TraceID,
		AlertID:    result.AlertID,
		Summary:    result.Summary,
		Steps:      steps,
		Confidence: result.Confidence,
	}
}

// StatusResponse is the queue health snapshot.
type StatusResponse struct {
	Pending            int `json:"pending"`
	Processing         int `json:"processing"`
	Error              int `json:"error"`
	Completed          int `json:"completed"`
	DeadLetters        int `json:"dead_letters"`
	Enqueued           int `json:"enqueued"`
	Pruned             int `json:"pruned"`
	DeadLettersEvicted int `json:"dead_letters_evicted"`
}

// MapStatusToResponse converts a status report to an API response.
func MapStatusToResponse(report *domain.StatusReport) StatusResponse {
	return StatusResponse{
		Pending:            report.Pending,
		Processing:         report.Processing,
		Error:              report.Error,
		Completed:          report.Completed,
		DeadLetters:        report.DeadLetters,
		Enqueued:           report.Enqueued,
		Pruned:             report.Pruned,
		DeadLettersEvicted: report.DeadLettersEvicted,
	}
}

// DeadLetterResponse is a job that exhausted its attempts.
type DeadLetterResponse struct {
	TraceID      string         `json:"trace_id"`
	ErrorMessage string         `json:"error_message"`
	Payload      domain.Payload `json:"payload"`
	FailedAt     time.Time      `json:"failed_at"`
}

// ListDeadLettersResponse is a page of dead letters, newest first.
type ListDeadLettersResponse struct {
	Data []DeadLetterResponse `json:"data"`
}

// MapDeadLettersToListResponse converts dead-letter entries to a list API response.
func MapDeadLettersToListResponse(entries []*domain.DeadLetterEntry) ListDeadLettersResponse {
	data := make([]DeadLetterResponse, 0, len(entries))
	for _, entry := range entries {
		data = append(data, DeadLetterResponse{
			TraceID:      entry.TraceID,
			ErrorMessage: entry.ErrorMessage,
			Payload:      entry.Payload,
			FailedAt:     entry.FailedAt,
		})
	}
	return ListDeadLettersResponse{Data: data}
}
