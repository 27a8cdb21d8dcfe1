// Package database opens the alert store connection and carries transactions through
// context.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

const (
	// DriverPostgres selects the PostgreSQL alert store.
	DriverPostgres = "postgres"
	// DriverMySQL selects the MySQL alert store.
	DriverMySQL = "mysql"

	defaultPingTimeout = 5 * time.Second
)

// ErrUnsupportedDriver is returned for drivers without an alert store implementation.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// CheckDriver reports whether the alert store has an implementation for driver.
func CheckDriver(driver string) error {
	switch driver {
	case DriverPostgres, DriverMySQL:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Config holds connection pool settings.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Connect opens the alert store database and verifies it is reachable.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
