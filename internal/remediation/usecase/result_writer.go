package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	alertDomain "github.com/allisson/remediation/internal/alert/domain"
	"github.com/allisson/remediation/internal/database"
	apperrors "github.com/allisson/remediation/internal/errors"
	"github.com/allisson/remediation/internal/remediation/domain"
)

// alertResultWriter writes remediation outcomes back onto dashboard alerts.
type alertResultWriter struct {
	txManager database.TxManager
	alertRepo AlertRepository
	logger    *slog.Logger
}

// NewAlertResultWriter creates a ResultWriter backed by the alert store.
func NewAlertResultWriter(
	txManager database.TxManager,
	alertRepo AlertRepository,
	logger *slog.Logger,
) ResultWriter {
	return &alertResultWriter{
		txManager: txManager,
		alertRepo: alertRepo,
		logger:    logger,
	}
}

// Write stores the rendered guidance as the alert recommendation, applies the payload
// message override and resets the acknowledgement flag.
func (w *alertResultWriter) Write(
	ctx context.Context,
	payload domain.Payload,
	guidance *domain.Guidance,
) (int64, error) {
	alertID, err := payload.DashboardID()
	if err != nil {
		return 0, err
	}

	recommendation := guidance.Render()
	err = w.txManager.WithTx(ctx, func(ctx context.Context) error {
		return w.update(ctx, alertID, recommendation, payload.Message)
	})
	if err != nil {
		return 0, err
	}

	return alertID, nil
}

// WriteFailure stores the failure marker as the alert recommendation.
func (w *alertResultWriter) WriteFailure(ctx context.Context, payload domain.Payload) error {
	alertID, err := payload.DashboardID()
	if err != nil {
		return err
	}

	return w.txManager.WithTx(ctx, func(ctx context.Context) error {
		return w.update(ctx, alertID, domain.FailureRecommendation, nil)
	})
}

func (w *alertResultWriter) update(ctx context.Context, alertID int64, recommendation string, message *string) error {
	alert, err := w.alertRepo.Get(ctx, alertID)
	if err != nil {
		if apperrors.Is(err, alertDomain.ErrAlertNotFound) {
			return fmt.Errorf("%w: id %d", domain.ErrAlertNotFound, alertID)
		}
		return err
	}

	alert.Recommendation = recommendation
	if message != nil {
		alert.Message = *message
	}
	alert.Acknowledged = false
	alert.UpdatedAt = time.Now().UTC()

	if err := w.alertRepo.Update(ctx, alert); err != nil {
		return err
	}

	if w.logger != nil {
		w.logger.Debug("alert recommendation updated", slog.Int64("alert_id", alertID))
	}
	return nil
}
