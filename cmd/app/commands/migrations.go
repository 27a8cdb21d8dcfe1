package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/remediation/internal/database"
)

// MigrateOptions selects the alert store and the migration direction.
type MigrateOptions struct {
	Driver           string
	ConnectionString string
	// Dir holds one sub-directory per driver ("postgresql", "mysql").
	Dir string
	// Down rolls back this many migrations instead of applying pending ones.
	Down int
}

// migrationsSource returns the migration source URL for a database driver.
func migrationsSource(dir, driver string) string {
	if dir == "" {
		dir = "migrations"
	}
	if driver == database.DriverMySQL {
		return "file://" + path.Join(dir, "mysql")
	}
	return "file://" + path.Join(dir, "postgresql")
}

// RunMigrations applies pending alert store migrations, or rolls back opts.Down of them.
// Having nothing to apply is not an error.
func RunMigrations(logger *slog.Logger, opts MigrateOptions) error {
	if err := database.CheckDriver(opts.Driver); err != nil {
		return err
	}
	if opts.Down < 0 {
		return fmt.Errorf("down must not be negative, got %d", opts.Down)
	}

	logger.Info("running database migrations",
		slog.String("driver", opts.Driver),
		slog.Int("down", opts.Down),
	)

	m, err := migrate.New(migrationsSource(opts.Dir, opts.Driver), opts.ConnectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if opts.Down > 0 {
		err = m.Steps(-opts.Down)
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("migrations completed, schema is empty")
	case err != nil:
		return fmt.Errorf("failed to read migration version: %w", err)
	default:
		logger.Info("migrations completed", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}
	return nil
}

func closeMigrate(m *migrate.Migrate, logger *slog.Logger) {
	sourceErr, databaseErr := m.Close()
	if sourceErr != nil || databaseErr != nil {
		logger.Error("failed to close migrate",
			slog.Any("source_error", sourceErr),
			slog.Any("database_error", databaseErr),
		)
	}
}
