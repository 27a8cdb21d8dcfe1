package usecase

import (
	"context"
	"log/slog"
	"time"

	alertDomain "github.com/allisson/remediation/internal/alert/domain"
	"github.com/allisson/remediation/internal/database"
	remediationDomain "github.com/allisson/remediation/internal/remediation/domain"
)

// alertUseCase implements AlertUseCase.
type alertUseCase struct {
	txManager         database.TxManager
	alertRepo         AlertRepository
	enqueuer          JobEnqueuer
	manualDefaultPath string
	logger            *slog.Logger
}

// Ingest creates the alert and opens a remediation job for it.
func (a *alertUseCase) Ingest(
	ctx context.Context,
	event *alertDomain.AnomalyEvent,
) (*alertDomain.IngestResult, error) {
	if event == nil {
		return nil, alertDomain.ErrInvalidEvent
	}

	now := time.Now().UTC()
	alert := &alertDomain.Alert{
		SensorID:  event.SensorID(),
		Type:      event.AlertType(),
		Message:   event.AlertMessage(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := a.alertRepo.Create(ctx, alert); err != nil {
		return nil, err
	}

	result := &alertDomain.IngestResult{Alert: alert}

	job, err := a.enqueuer.Enqueue(ctx, a.payloadFor(alert, event))
	if err != nil {
		// The alert is already visible on the dashboard; a missing recommendation is
		// preferable to losing the alert.
		a.logger.Error("failed to enqueue remediation job",
			slog.Int64("alert_id", alert.ID),
			slog.Any("error", err),
		)
		return result, nil
	}

	result.Job = job
	return result, nil
}

// List returns alerts ordered newest first.
func (a *alertUseCase) List(ctx context.Context, offset, limit int) ([]*alertDomain.Alert, error) {
	return a.alertRepo.List(ctx, offset, limit)
}

// Acknowledge sets the acknowledgement flag inside a transaction.
func (a *alertUseCase) Acknowledge(
	ctx context.Context,
	id int64,
	acknowledged bool,
) (*alertDomain.Alert, error) {
	var alert *alertDomain.Alert
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		alert, err = a.alertRepo.Get(ctx, id)
		if err != nil {
			return err
		}

		alert.Acknowledged = acknowledged
		alert.UpdatedAt = time.Now().UTC()
		return a.alertRepo.Update(ctx, alert)
	})
	if err != nil {
		return nil, err
	}

	return alert, nil
}

func (a *alertUseCase) payloadFor(
	alert *alertDomain.Alert,
	event *alertDomain.AnomalyEvent,
) remediationDomain.Payload {
	metadata := map[string]any{
		"dashboard_id": alert.ID,
		"event_type":   event.EventType,
		"sensor_id":    alert.SensorID,
	}
	if event.Source != "" {
		metadata["source"] = event.Source
	}

	payload := remediationDomain.Payload{
		Anomaly:  event.Anomaly(),
		Metadata: metadata,
	}
	if a.manualDefaultPath != "" {
		payload.ManualReference = &remediationDomain.ManualReference{Path: a.manualDefaultPath}
	}
	if alert.Message != "" {
		message := alert.Message
		payload.Message = &message
	}
	return payload
}

// NewAlertUseCase creates a new AlertUseCase.
func NewAlertUseCase(
	txManager database.TxManager,
	alertRepo AlertRepository,
	enqueuer JobEnqueuer,
	manualDefaultPath string,
	logger *slog.Logger,
) AlertUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &alertUseCase{
		txManager:         txManager,
		alertRepo:         alertRepo,
		enqueuer:          enqueuer,
		manualDefaultPath: manualDefaultPath,
		logger:            logger,
	}
}
