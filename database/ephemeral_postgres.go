package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stapelberg/postgrestest"
)

// EphemeralPostgres wraps a throwaway PostgreSQL server for development
// and tests. All data is lost when it is closed.
type EphemeralPostgres struct {
	server *postgrestest.Server
	db     *sql.DB
}

// SetupEphemeralPostgres starts a temporary PostgreSQL instance and
// opens a database in it.
func SetupEphemeralPostgres() (*EphemeralPostgres, error) {
	Logger.Info("Starting ephemeral PostgreSQL server...")

	ctx := context.Background()

	pgt, err := postgrestest.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start ephemeral postgres: %w", err)
	}

	dsn, err := pgt.CreateDatabase(ctx)
	if err != nil {
		pgt.Cleanup()
		return nil, fmt.Errorf("failed to create docshare database: %w", err)
	}
	Logger.Info("Created ephemeral database", "dsn", dsn)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		pgt.Cleanup()
		return nil, fmt.Errorf("failed to open docshare database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		pgt.Cleanup()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	Logger.Info("Connected to ephemeral PostgreSQL database successfully")
	return &EphemeralPostgres{server: pgt, db: db}, nil
}

// SQLDB exposes the open connection for the repository layer.
func (e *EphemeralPostgres) SQLDB() *sql.DB {
	return e.db
}

// Close tears down the server and all its data.
func (e *EphemeralPostgres) Close() error {
	if e.server != nil {
		Logger.Info("Cleaning up ephemeral PostgreSQL server...")
		e.server.Cleanup()
	}
	return nil
}
