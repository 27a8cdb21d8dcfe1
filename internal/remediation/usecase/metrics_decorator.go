package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/remediation/internal/metrics"
	"github.com/allisson/remediation/internal/remediation/domain"
)

const metricsDomain = "remediation"

// remediationUseCaseWithMetrics decorates RemediationUseCase with metrics instrumentation.
type remediationUseCaseWithMetrics struct {
	next    RemediationUseCase
	metrics metrics.BusinessMetrics
}

// NewRemediationUseCaseWithMetrics wraps a RemediationUseCase with metrics recording.
func NewRemediationUseCaseWithMetrics(useCase RemediationUseCase, m metrics.BusinessMetrics) RemediationUseCase {
	return &remediationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (r *remediationUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, status string) {
	r.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	r.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// processStatus distinguishes attempts that found nothing to process.
func processStatus(result *domain.RemediationResult, err error) string {
	if err == nil && result == nil {
		return "skipped"
	}
	return statusOf(err)
}

// Enqueue records metrics for job enqueue operations.
func (r *remediationUseCaseWithMetrics) Enqueue(
	ctx context.Context,
	payload domain.Payload,
) (*domain.QueueEntry, error) {
	start := time.Now()
	entry, err := r.next.Enqueue(ctx, payload)
	r.record(ctx, "job_enqueue", start, statusOf(err))
	return entry, err
}

// Get records metrics for job lookups.
func (r *remediationUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*domain.QueueEntry, error) {
	start := time.Now()
	entry, err := r.next.Get(ctx, id)
	r.record(ctx, "job_get", start, statusOf(err))
	return entry, err
}

// ProcessNext records metrics for next-job processing.
func (r *remediationUseCaseWithMetrics) ProcessNext(ctx context.Context) (*domain.RemediationResult, error) {
	start := time.Now()
	result, err := r.next.ProcessNext(ctx)
	r.record(ctx, "job_process_next", start, processStatus(result, err))
	return result, err
}

// ProcessJob records metrics for targeted job processing.
func (r *remediationUseCaseWithMetrics) ProcessJob(
	ctx context.Context,
	id uuid.UUID,
) (*domain.RemediationResult, error) {
	start := time.Now()
	result, err := r.next.ProcessJob(ctx, id)
	r.record(ctx, "job_process", start, processStatus(result, err))
	return result, err
}

// Status records metrics for status reads.
func (r *remediationUseCaseWithMetrics) Status(ctx context.Context) (*domain.StatusReport, error) {
	start := time.Now()
	report, err := r.next.Status(ctx)
	r.record(ctx, "queue_status", start, statusOf(err))
	return report, err
}

// ListDeadLetters records metrics for dead-letter listings.
func (r *remediationUseCaseWithMetrics) ListDeadLetters(
	ctx context.Context,
	offset, limit int,
) ([]*domain.DeadLetterEntry, error) {
	start := time.Now()
	entries, err := r.next.ListDeadLetters(ctx, offset, limit)
	r.record(ctx, "dead_letter_list", start, statusOf(err))
	return entries, err
}

// Start delegates to the wrapped use case.
func (r *remediationUseCaseWithMetrics) Start(ctx context.Context) error {
	return r.next.Start(ctx)
}
