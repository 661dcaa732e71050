package ports

import (
	"context"

	"gridimport/domain/ingestion"
)

// WorkbookReader materializes a spreadsheet file as tagged cell grids.
// filename carries the extension used to pick the container format.
type WorkbookReader interface {
	Read(ctx context.Context, path, filename string) (*ingestion.Workbook, error)
	Supports(filename string) bool
}
