// Package usecase implements business logic for dashboard alerts and anomaly-event ingestion.
package usecase

import (
	"context"

	alertDomain "github.com/allisson/remediation/internal/alert/domain"
	remediationDomain "github.com/allisson/remediation/internal/remediation/domain"
)

// AlertRepository defines persistence operations for alerts.
// Implementations must support transaction-aware operations via context propagation.
type AlertRepository interface {
	// Create stores a new alert and sets its id.
	Create(ctx context.Context, alert *alertDomain.Alert) error

	// Update modifies an existing alert.
	Update(ctx context.Context, alert *alertDomain.Alert) error

	// Get retrieves an alert by id. Returns ErrAlertNotFound if not found.
	Get(ctx context.Context, id int64) (*alertDomain.Alert, error)

	// List retrieves alerts newest first.
	List(ctx context.Context, offset, limit int) ([]*alertDomain.Alert, error)
}

// JobEnqueuer opens remediation jobs for ingested events.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, payload remediationDomain.Payload) (*remediationDomain.QueueEntry, error)
}

// AlertUseCase defines alert listing, acknowledgement and anomaly-event ingestion.
type AlertUseCase interface {
	// Ingest creates an alert for the event and enqueues a remediation job that will
	// write its recommendation back. The alert is kept even if enqueueing fails, in
	// which case the result carries no job.
	Ingest(ctx context.Context, event *alertDomain.AnomalyEvent) (*alertDomain.IngestResult, error)

	// List returns alerts ordered newest first.
	List(ctx context.Context, offset, limit int) ([]*alertDomain.Alert, error)

	// Acknowledge sets the acknowledgement flag. Returns ErrAlertNotFound if the alert
	// does not exist.
	Acknowledge(ctx context.Context, id int64, acknowledged bool) (*alertDomain.Alert, error)
}
