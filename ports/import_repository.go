package ports

import (
	"context"

	"gridimport/domain/core"
	"gridimport/domain/imports"
)

// ImportRepository stores parsed uploads
type ImportRepository interface {
	Save(ctx context.Context, record *imports.Record) error
	// Get returns an error matching core.ErrImportNotFound for unknown ids
	Get(ctx context.Context, id core.ImportID) (*imports.Record, error)
	List(ctx context.Context, limit, offset int) ([]imports.Summary, error)
	Delete(ctx context.Context, id core.ImportID) error
}
