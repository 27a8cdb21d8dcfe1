package usecase

import (
	"context"
	"time"

	alertDomain "github.com/allisson/remediation/internal/alert/domain"
	"github.com/allisson/remediation/internal/metrics"
)

// alertUseCaseWithMetrics decorates AlertUseCase with metrics instrumentation.
type alertUseCaseWithMetrics struct {
	next    AlertUseCase
	metrics metrics.BusinessMetrics
}

// NewAlertUseCaseWithMetrics wraps an AlertUseCase with metrics recording.
func NewAlertUseCaseWithMetrics(useCase AlertUseCase, m metrics.BusinessMetrics) AlertUseCase {
	return &alertUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Ingest records metrics for event ingestion.
func (a *alertUseCaseWithMetrics) Ingest(
	ctx context.Context,
	event *alertDomain.AnomalyEvent,
) (*alertDomain.IngestResult, error) {
	start := time.Now()
	result, err := a.next.Ingest(ctx, event)

	status := "success"
	if err != nil {
		status = "error"
	}
	a.metrics.RecordOperation(ctx, "alert", "event_ingest", status)
	a.metrics.RecordDuration(ctx, "alert", "event_ingest", time.Since(start), status)

	return result, err
}

// List records metrics for alert listings.
func (a *alertUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*alertDomain.Alert, error) {
	start := time.Now()
	alerts, err := a.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}
	a.metrics.RecordOperation(ctx, "alert", "alert_list", status)
	a.metrics.RecordDuration(ctx, "alert", "alert_list", time.Since(start), status)

	return alerts, err
}

// Acknowledge records metrics for acknowledgement changes.
func (a *alertUseCaseWithMetrics) Acknowledge(
	ctx context.Context,
	id int64,
	acknowledged bool,
) (*alertDomain.Alert, error) {
	start := time.Now()
	alert, err := a.next.Acknowledge(ctx, id, acknowledged)

	status := "success"
	if err != nil {
		status = "error"
	}
	a.metrics.RecordOperation(ctx, "alert", "alert_acknowledge", status)
	a.metrics.RecordDuration(ctx, "alert", "alert_acknowledge", time.Since(start), status)

	return alert, err
}
