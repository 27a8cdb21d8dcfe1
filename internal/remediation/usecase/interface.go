// Package usecase defines the interfaces and implementations for the remediation job queue.
// Use cases orchestrate the in-memory queue stores, the manual lookup, the guidance
// generator and the alert store to turn anomaly payloads into operator guidance.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	alertDomain "github.com/allisson/remediation/internal/alert/domain"
	"github.com/allisson/remediation/internal/remediation/domain"
)

// QueueRepository defines the Queue Store. Implementations must apply each method
// atomically with respect to every other method.
type QueueRepository interface {
	Create(entry *domain.QueueEntry) error
	Get(id uuid.UUID) (*domain.QueueEntry, error)
	NextPending() (*domain.QueueEntry, error)
	MarkProcessing(id uuid.UUID, now time.Time) (*domain.QueueEntry, error)
	ClaimNext(now time.Time) (*domain.QueueEntry, error)
	MarkDone(id uuid.UUID, now time.Time) error
	// MarkError records a failed attempt and removes the entry once maxAttempts is
	// reached, reporting exhausted in that case.
	MarkError(id uuid.UUID, message string, now time.Time, maxAttempts int) (*domain.QueueEntry, bool, error)
	PruneDone(before time.Time) int
	Counts() domain.QueueCounts
}

// DeadLetterRepository defines the bounded Dead-Letter Store.
type DeadLetterRepository interface {
	Push(entry *domain.DeadLetterEntry) bool
	List(offset, limit int) []*domain.DeadLetterEntry
	Count() int
	EvictedCount() int
}

// ManualLookup resolves a manual reference path to manual text.
type ManualLookup interface {
	Read(ctx context.Context, path string) (string, error)
}

// GuidanceGenerator produces remediation guidance for a payload grounded on manual text.
type GuidanceGenerator interface {
	Generate(ctx context.Context, payload domain.Payload, manualText string) (*domain.Guidance, error)
}

// AlertRepository is the subset of the alert store the result writer needs.
type AlertRepository interface {
	Get(ctx context.Context, id int64) (*alertDomain.Alert, error)
	Update(ctx context.Context, alert *alertDomain.Alert) error
}

// ResultWriter persists processing outcomes on the referenced alert.
type ResultWriter interface {
	// Write stores the rendered guidance and returns the updated alert id.
	Write(ctx context.Context, payload domain.Payload, guidance *domain.Guidance) (int64, error)
	// WriteFailure stores the failure marker. Callers treat errors as best-effort.
	WriteFailure(ctx context.Context, payload domain.Payload) error
}

// RemediationUseCase defines the remediation queue service.
type RemediationUseCase interface {
	// Enqueue validates the payload, assigns a trace id when missing and queues a job.
	Enqueue(ctx context.Context, payload domain.Payload) (*domain.QueueEntry, error)
	// Get returns a snapshot of a live queue entry.
	Get(ctx context.Context, id uuid.UUID) (*domain.QueueEntry, error)
	// ProcessNext claims and processes the oldest processable entry. Returns nil, nil
	// when there is nothing to process.
	ProcessNext(ctx context.Context) (*domain.RemediationResult, error)
	// ProcessJob processes a specific entry. Returns nil, nil when the entry is absent
	// or not processable.
	ProcessJob(ctx context.Context, id uuid.UUID) (*domain.RemediationResult, error)
	// Status returns the queue health snapshot.
	Status(ctx context.Context) (*domain.StatusReport, error)
	// ListDeadLetters returns dead-lettered jobs, newest first.
	ListDeadLetters(ctx context.Context, offset, limit int) ([]*domain.DeadLetterEntry, error)
	// Start runs the background worker and the retention pruner until ctx is cancelled.
	Start(ctx context.Context) error
}
