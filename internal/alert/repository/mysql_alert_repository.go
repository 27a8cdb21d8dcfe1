package repository

import (
	"context"
	"database/sql"
	"errors"

	alertDomain "github.com/allisson/remediation/internal/alert/domain"
	"github.com/allisson/remediation/internal/database"
	apperrors "github.com/allisson/remediation/internal/errors"
)

// MySQLAlertRepository implements Alert persistence for MySQL databases.
type MySQLAlertRepository struct {
	db *sql.DB
}

// Create inserts a new alert and sets its generated id.
func (m *MySQLAlertRepository) Create(ctx context.Context, alert *alertDomain.Alert) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO alerts (sensor_id, type, recommendation, message, acknowledged, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		alert.SensorID,
		alert.Type,
		alert.Recommendation,
		alert.Message,
		alert.Acknowledged,
		alert.CreatedAt,
		alert.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create alert")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get alert id")
	}
	alert.ID = id
	return nil
}

// Get retrieves an alert by id.
func (m *MySQLAlertRepository) Get(ctx context.Context, id int64) (*alertDomain.Alert, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, sensor_id, type, recommendation, message, acknowledged, created_at, updated_at
			  FROM alerts
			  WHERE id = ?`

	var alert alertDomain.Alert
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&alert.ID,
		&alert.SensorID,
		&alert.Type,
		&alert.Recommendation,
		&alert.Message,
		&alert.Acknowledged,
		&alert.CreatedAt,
		&alert.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, alertDomain.ErrAlertNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get alert")
	}

	return &alert, nil
}

// Update overwrites the mutable alert fields. MySQL reports zero affected rows when
// the values are unchanged, so existence is not inferred from the row count.
func (m *MySQLAlertRepository) Update(ctx context.Context, alert *alertDomain.Alert) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE alerts
			  SET sensor_id = ?, type = ?, recommendation = ?, message = ?, acknowledged = ?, updated_at = ?
			  WHERE id = ?`

	_, err := querier.ExecContext(
		ctx,
		query,
		alert.SensorID,
		alert.Type,
		alert.Recommendation,
		alert.Message,
		alert.Acknowledged,
		alert.UpdatedAt,
		alert.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update alert")
	}
	return nil
}

// List retrieves alerts newest first with pagination.
func (m *MySQLAlertRepository) List(ctx context.Context, offset, limit int) ([]*alertDomain.Alert, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, sensor_id, type, recommendation, message, acknowledged, created_at, updated_at
			  FROM alerts
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list alerts")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanAlerts(rows)
}

// NewMySQLAlertRepository creates a new MySQL Alert repository.
func NewMySQLAlertRepository(db *sql.DB) *MySQLAlertRepository {
	return &MySQLAlertRepository{db: db}
}
