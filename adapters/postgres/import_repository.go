package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gridimport/domain/core"
	"gridimport/domain/imports"
	"gridimport/domain/ingestion"
	"gridimport/ports"

	"github.com/jmoiron/sqlx"
)

// importRepository implements the ImportRepository interface
type importRepository struct {
	db *sqlx.DB
}

// NewImportRepository creates a new import repository
func NewImportRepository(db *sqlx.DB) ports.ImportRepository {
	return &importRepository{db: db}
}

// importRow is the imports table row; warnings and tables are JSONB
type importRow struct {
	ID               string         `db:"id"`
	OriginalFilename string         `db:"original_filename"`
	Format           string         `db:"format"`
	ContentHash      string         `db:"content_hash"`
	SizeBytes        int64          `db:"size_bytes"`
	Status           string         `db:"status"`
	ErrorMessage     sql.NullString `db:"error_message"`
	TableCount       int            `db:"table_count"`
	RowCount         int            `db:"row_count"`
	Warnings         []byte         `db:"warnings"`
	Tables           []byte         `db:"tables"`
	DurationMS       int64          `db:"duration_ms"`
	CreatedAt        time.Time      `db:"created_at"`
}

func toRow(rec *imports.Record) (importRow, error) {
	warnings := rec.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return importRow{}, fmt.Errorf("failed to marshal warnings: %w", err)
	}
	tablesJSON, err := json.Marshal(rec.Tables)
	if err != nil {
		return importRow{}, fmt.Errorf("failed to marshal tables: %w", err)
	}

	summary := rec.Summary()
	return importRow{
		ID:               rec.ID.String(),
		OriginalFilename: rec.OriginalFilename,
		Format:           string(rec.Format),
		ContentHash:      rec.ContentHash.String(),
		SizeBytes:        rec.SizeBytes,
		Status:           string(rec.Status),
		ErrorMessage:     sql.NullString{String: rec.ErrorMessage, Valid: rec.ErrorMessage != ""},
		TableCount:       summary.TableCount,
		RowCount:         summary.RowCount,
		Warnings:         warningsJSON,
		Tables:           tablesJSON,
		DurationMS:       rec.DurationMS,
		CreatedAt:        rec.CreatedAt,
	}, nil
}

func fromRow(row importRow) (*imports.Record, error) {
	rec := &imports.Record{
		ID:               core.ImportID(row.ID),
		OriginalFilename: row.OriginalFilename,
		Format:           ingestion.Format(row.Format),
		ContentHash:      core.Hash(row.ContentHash),
		SizeBytes:        row.SizeBytes,
		Status:           imports.Status(row.Status),
		ErrorMessage:     row.ErrorMessage.String,
		DurationMS:       row.DurationMS,
		CreatedAt:        row.CreatedAt,
	}
	if len(row.Warnings) > 0 {
		if err := json.Unmarshal(row.Warnings, &rec.Warnings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
		}
	}
	if len(row.Tables) > 0 {
		if err := json.Unmarshal(row.Tables, &rec.Tables); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tables: %w", err)
		}
	}
	return rec, nil
}

// Save inserts an import, replacing any earlier row with the same id
func (r *importRepository) Save(ctx context.Context, rec *imports.Record) error {
	row, err := toRow(rec)
	if err != nil {
		return err
	}

	query := `INSERT INTO imports (
		id, original_filename, format, content_hash, size_bytes, status, error_message,
		table_count, row_count, warnings, tables, duration_ms, created_at
	) VALUES (
		:id, :original_filename, :format, :content_hash, :size_bytes, :status, :error_message,
		:table_count, :row_count, :warnings, :tables, :duration_ms, :created_at
	)
	ON CONFLICT (id) DO UPDATE SET
		status = EXCLUDED.status,
		error_message = EXCLUDED.error_message,
		table_count = EXCLUDED.table_count,
		row_count = EXCLUDED.row_count,
		warnings = EXCLUDED.warnings,
		tables = EXCLUDED.tables,
		duration_ms = EXCLUDED.duration_ms`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to save import: %w", err)
	}
	return nil
}

// Get retrieves an import by its ID
func (r *importRepository) Get(ctx context.Context, id core.ImportID) (*imports.Record, error) {
	query := `SELECT
		id, original_filename, format, content_hash, size_bytes, status, error_message,
		table_count, row_count, warnings, tables, duration_ms, created_at
	FROM imports WHERE id = $1`

	var row importRow
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrImportNotFound, id)
		}
		return nil, fmt.Errorf("failed to get import: %w", err)
	}
	return fromRow(row)
}

// List returns import summaries, newest first
func (r *importRepository) List(ctx context.Context, limit, offset int) ([]imports.Summary, error) {
	query := `SELECT
		id, original_filename, format, status, table_count, row_count,
		jsonb_array_length(warnings) AS warning_count, created_at
	FROM imports
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2`

	var summaries []imports.Summary
	if err := r.db.SelectContext(ctx, &summaries, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	return summaries, nil
}

// Delete removes an import
func (r *importRepository) Delete(ctx context.Context, id core.ImportID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM imports WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete import: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", core.ErrImportNotFound, id)
	}
	return nil
}
