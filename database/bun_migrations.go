package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// runMigrations brings the schema up to date. Postgres goes through
// versioned SQL migration files; sqlite uses code migrations because the
// file-based tooling targets the server dialect.
func (b *BunDB) runMigrations(ctx context.Context) error {
	if b.dbType == "postgres" {
		return b.runPostgresMigrations()
	}
	return b.runCodeMigrations(ctx)
}

// runCodeMigrations runs the in-code migration chain with its own
// tracking table.
func (b *BunDB) runCodeMigrations(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bun_schema_migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version TEXT NOT NULL UNIQUE,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	type AppliedMigration struct {
		bun.BaseModel `bun:"table:bun_schema_migrations"`
		Version       string `bun:"version"`
	}
	var applied []AppliedMigration
	err = b.db.NewSelect().
		Model(&applied).
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to check applied migrations: %w", err)
	}

	appliedMap := make(map[string]bool)
	for _, m := range applied {
		appliedMap[m.Version] = true
	}

	migrations := []struct {
		version string
		name    string
		up      func(context.Context, *bun.DB) error
	}{
		{"001", "create_documents_table", init001CreateDocumentsTable},
		{"002", "create_shares_table", init002CreateSharesTable},
		{"003", "create_comments_and_annotations", init003CreateCommentsAndAnnotations},
		{"004", "create_jobs_table", init004CreateJobsTable},
	}

	for _, m := range migrations {
		if appliedMap[m.version] {
			continue
		}

		Logger.Info("Running migration", "version", m.version, "name", m.name)
		if err := m.up(ctx, b.db); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", m.version, err)
		}

		_, err = b.db.NewInsert().
			Model(&AppliedMigration{Version: m.version}).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to mark migration %s as applied: %w", m.version, err)
		}
	}

	return nil
}

// Migration 001: documents table
func init001CreateDocumentsTable(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			storage_key TEXT NOT NULL UNIQUE,
			ingress_time TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			hash TEXT NOT NULL,
			ulid TEXT NOT NULL UNIQUE,
			document_type TEXT NOT NULL,
			page_count INTEGER NOT NULL DEFAULT 0,
			page_width REAL NOT NULL DEFAULT 0,
			page_height REAL NOT NULL DEFAULT 0,
			full_text TEXT,
			thumbnail_key TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents (hash)`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_documents_ingress_time ON documents (ingress_time)`)
	return err
}

// Migration 002: shares table
func init002CreateSharesTable(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS shares (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ulid TEXT NOT NULL UNIQUE,
			document_ulid TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			can_save BOOLEAN NOT NULL DEFAULT FALSE,
			can_download BOOLEAN NOT NULL DEFAULT FALSE,
			expires_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_shares_document ON shares (document_ulid)`)
	return err
}

// Migration 003: comments and annotations tables
func init003CreateCommentsAndAnnotations(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ulid TEXT NOT NULL UNIQUE,
			document_ulid TEXT NOT NULL,
			page INTEGER NOT NULL DEFAULT 1,
			author TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_comments_document ON comments (document_ulid)`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS annotations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ulid TEXT NOT NULL UNIQUE,
			document_ulid TEXT NOT NULL,
			page INTEGER NOT NULL DEFAULT 1,
			kind TEXT NOT NULL,
			author TEXT NOT NULL,
			data TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_annotations_document_page ON annotations (document_ulid, page)`)
	return err
}

// Migration 004: jobs table
func init004CreateJobsTable(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			status TEXT DEFAULT 'pending',
			progress INTEGER DEFAULT 0,
			current_step TEXT DEFAULT '',
			total_steps INTEGER DEFAULT 0,
			message TEXT DEFAULT '',
			error TEXT,
			result TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			started_at TIMESTAMP,
			completed_at TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs (status)`)
	return err
}
