package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	alertDomain "github.com/allisson/remediation/internal/alert/domain"
	"github.com/allisson/remediation/internal/testutil"
)

// alertStore is the method set shared by both SQL implementations.
type alertStore interface {
	Create(ctx context.Context, alert *alertDomain.Alert) error
	Get(ctx context.Context, id int64) (*alertDomain.Alert, error)
	Update(ctx context.Context, alert *alertDomain.Alert) error
	List(ctx context.Context, offset, limit int) ([]*alertDomain.Alert, error)
}

func runAlertStoreIntegration(t *testing.T, db *sql.DB, driver string, repo alertStore) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		testutil.CleanupDB(t, db, driver)
		now := time.Now().UTC().Truncate(time.Microsecond)

		alert := &alertDomain.Alert{
			SensorID:  12,
			Type:      "fault",
			Message:   "A-17",
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, repo.Create(ctx, alert))
		require.NotZero(t, alert.ID)

		got, err := repo.Get(ctx, alert.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(12), got.SensorID)
		assert.Equal(t, "fault", got.Type)
		assert.Equal(t, "A-17", got.Message)
		assert.Empty(t, got.Recommendation)
		assert.False(t, got.Acknowledged)
		assert.WithinDuration(t, now, got.CreatedAt, time.Millisecond)
	})

	t.Run("get missing", func(t *testing.T) {
		testutil.CleanupDB(t, db, driver)

		_, err := repo.Get(ctx, 999)
		assert.ErrorIs(t, err, alertDomain.ErrAlertNotFound)
	})

	t.Run("update recommendation resets acknowledgement", func(t *testing.T) {
		testutil.CleanupDB(t, db, driver)
		id := testutil.CreateTestAlert(t, db, driver, 3, "warning", "pressure drift")

		alert, err := repo.Get(ctx, id)
		require.NoError(t, err)
		alert.Acknowledged = true
		alert.UpdatedAt = time.Now().UTC()
		require.NoError(t, repo.Update(ctx, alert))

		alert.Recommendation = "Summary: check the valve"
		alert.Acknowledged = false
		require.NoError(t, repo.Update(ctx, alert))

		got, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Summary: check the valve", got.Recommendation)
		assert.False(t, got.Acknowledged)
	})

	t.Run("list newest first", func(t *testing.T) {
		testutil.CleanupDB(t, db, driver)
		first := testutil.CreateTestAlert(t, db, driver, 1, "fault", "first")
		time.Sleep(5 * time.Millisecond)
		second := testutil.CreateTestAlert(t, db, driver, 2, "fault", "second")

		alerts, err := repo.List(ctx, 0, 10)
		require.NoError(t, err)
		require.Len(t, alerts, 2)
		assert.Equal(t, second, alerts[0].ID)
		assert.Equal(t, first, alerts[1].ID)

		page, err := repo.List(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, first, page[0].ID)
	})
}

func TestPostgreSQLAlertRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	runAlertStoreIntegration(t, db, "postgres", NewPostgreSQLAlertRepository(db))
}

func TestMySQLAlertRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testutil.SkipIfNoMySQL(t)

	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)

	runAlertStoreIntegration(t, db, "mysql", NewMySQLAlertRepository(db))
}
