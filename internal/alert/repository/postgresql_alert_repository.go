// Package repository implements data persistence for dashboard alerts.
// Repositories support both PostgreSQL and MySQL and join transactions carried in the context.
package repository

import (
	"context"
	"database/sql"
	"errors"

	alertDomain "github.com/allisson/remediation/internal/alert/domain"
	"github.com/allisson/remediation/internal/database"
	apperrors "github.com/allisson/remediation/internal/errors"
)

// PostgreSQLAlertRepository implements Alert persistence for PostgreSQL databases.
type PostgreSQLAlertRepository struct {
	db *sql.DB
}

// Create inserts a new alert and sets its generated id.
func (p *PostgreSQLAlertRepository) Create(ctx context.Context, alert *alertDomain.Alert) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO alerts (sensor_id, type, recommendation, message, acknowledged, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		alert.SensorID,
		alert.Type,
		alert.Recommendation,
		alert.Message,
		alert.Acknowledged,
		alert.CreatedAt,
		alert.UpdatedAt,
	).Scan(&alert.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create alert")
	}
	return nil
}

// Get retrieves an alert by id.
func (p *PostgreSQLAlertRepository) Get(ctx context.Context, id int64) (*alertDomain.Alert, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, sensor_id, type, recommendation, message, acknowledged, created_at, updated_at
			  FROM alerts
			  WHERE id = $1`

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

// Update overwrites the mutable alert fields.
func (p *PostgreSQLAlertRepository) Update(ctx context.Context, alert *alertDomain.Alert) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE alerts
			  SET sensor_id = $1, type = $2, recommendation = $3, message = $4, acknowledged = $5, updated_at = $6
			  WHERE id = $7`

	result, err := querier.ExecContext(
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

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return alertDomain.ErrAlertNotFound
	}
	return nil
}

// List retrieves alerts newest first with pagination.
func (p *PostgreSQLAlertRepository) List(ctx context.Context, offset, limit int) ([]*alertDomain.Alert, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, sensor_id, type, recommendation, message, acknowledged, created_at, updated_at
			  FROM alerts
			  ORDER BY created_at DESC, id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list alerts")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanAlerts(rows)
}

// NewPostgreSQLAlertRepository creates a new PostgreSQL Alert repository.
func NewPostgreSQLAlertRepository(db *sql.DB) *PostgreSQLAlertRepository {
	return &PostgreSQLAlertRepository{db: db}
}

func scanAlerts(rows *sql.Rows) ([]*alertDomain.Alert, error) {
	alerts := make([]*alertDomain.Alert, 0)
	for rows.Next() {
		var alert alertDomain.Alert
		if err := rows.Scan(
			&alert.ID,
			&alert.SensorID,
			&alert.Type,
			&alert.Recommendation,
			&alert.Message,
			&alert.Acknowledged,
			&alert.CreatedAt,
			&alert.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan alert")
		}
		alerts = append(alerts, &alert)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate alerts")
	}
	return alerts, nil
}
