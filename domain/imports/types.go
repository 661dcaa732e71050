package imports

import (
	"time"

	"gridimport/domain/core"
	"gridimport/domain/ingestion"
	"gridimport/domain/table"
)

// Status represents the processing state of an import
type Status string

const (
	StatusReady  Status = "ready"
	StatusFailed Status = "failed"
)

// Record is one parsed upload as stored
type Record struct {
	ID core.ImportID `json:"id"`

	// File information
	OriginalFilename string           `json:"original_filename"`
	Format           ingestion.Format `json:"format"`
	ContentHash      core.Hash        `json:"content_hash"`
	SizeBytes        int64            `json:"size_bytes"`

	Status       Status `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`

	Warnings []string      `json:"warnings"`
	Tables   []table.Table `json:"tables"`

	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Clone returns a copy of r that shares no slices with it
func (r *Record) Clone() *Record {
	out := *r
	if r.Warnings != nil {
		out.Warnings = append([]string(nil), r.Warnings...)
	}
	if r.Tables != nil {
		out.Tables = make([]table.Table, len(r.Tables))
		for i := range r.Tables {
			out.Tables[i] = r.Tables[i].Clone()
		}
	}
	return &out
}

// Summary returns the listing view of r
func (r *Record) Summary() Summary {
	rows := 0
	for _, t := range r.Tables {
		rows += t.RowCount()
	}
	return Summary{
		ID:               r.ID,
		OriginalFilename: r.OriginalFilename,
		Format:           r.Format,
		Status:           r.Status,
		TableCount:       len(r.Tables),
		RowCount:         rows,
		WarningCount:     len(r.Warnings),
		CreatedAt:        r.CreatedAt,
	}
}

// Summary is a record without its table data
type Summary struct {
	ID               core.ImportID    `json:"id" db:"id"`
	OriginalFilename string           `json:"original_filename" db:"original_filename"`
	Format           ingestion.Format `json:"format" db:"format"`
	Status           Status           `json:"status" db:"status"`
	TableCount       int              `json:"table_count" db:"table_count"`
	RowCount         int              `json:"row_count" db:"row_count"`
	WarningCount     int              `json:"warning_count" db:"warning_count"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}
