package migration

import (
	"context"

	"gridimport/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, step := range r.Steps() {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return errors.Wrapf(err, "failed to %s", step.Name)
		}
	}
	return nil
}

// Step is one named schema statement
type Step struct {
	Name string
	SQL  string
}

// Steps lists the schema statements in the order Run applies them
func (r *MigrationRunner) Steps() []Step {
	return []Step{
		{Name: "create imports table", SQL: createImportsTable},
		{Name: "add imports duration column", SQL: addImportsDurationColumn},
		{Name: "create imports indexes", SQL: createImportsIndexes},
	}
}

const createImportsTable = `
	CREATE TABLE IF NOT EXISTS imports (
		id UUID PRIMARY KEY,
		original_filename TEXT NOT NULL,
		format VARCHAR(16) NOT NULL,
		content_hash VARCHAR(64) NOT NULL,
		size_bytes BIGINT NOT NULL DEFAULT 0,
		status VARCHAR(16) NOT NULL DEFAULT 'ready',
		error_message TEXT,
		table_count INTEGER NOT NULL DEFAULT 0,
		row_count INTEGER NOT NULL DEFAULT 0,
		warnings JSONB NOT NULL DEFAULT '[]'::jsonb,
		tables JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)
`

const addImportsDurationColumn = `
	DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'imports' AND column_name = 'duration_ms'
		) THEN
			ALTER TABLE imports ADD COLUMN duration_ms BIGINT NOT NULL DEFAULT 0;
		END IF;
	END $$;
`

const createImportsIndexes = `
	CREATE INDEX IF NOT EXISTS idx_imports_created_at ON imports (created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_imports_content_hash ON imports (content_hash);
`
