package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gridimport/domain/ingestion"
)

// readDelimited reads a CSV or TSV file as a single sheet of text cells.
// The sheet is named after the file without its extension.
func (r *Reader) readDelimited(ctx context.Context, path, name string, comma rune) (*ingestion.Workbook, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	startTime := time.Now()
	sheet, err := r.readDelimitedSheet(ctx, file, strings.TrimSuffix(name, filepath.Ext(name)), comma)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("[ExcelReader] delimited file read in %.2fms (%d rows)",
		float64(time.Since(startTime).Nanoseconds())/1e6, len(sheet.Rows))

	return &ingestion.Workbook{Format: ingestion.FormatCSV, Sheets: []ingestion.Sheet{sheet}}, nil
}

func (r *Reader) readDelimitedSheet(ctx context.Context, src io.Reader, name string, comma rune) (ingestion.Sheet, error) {
	reader := csv.NewReader(stripBOM(src))
	reader.Comma = comma
	reader.LazyQuotes = r.config.CSVLazyQuotes
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	sheet := ingestion.Sheet{Name: name}
	for {
		if len(sheet.Rows)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return sheet, err
			}
		}
		if r.config.MaxRows > 0 && len(sheet.Rows) >= r.config.MaxRows {
			break
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sheet, err
		}

		row := make([]ingestion.RawCell, len(record))
		for i, field := range record {
			if field == "" {
				row[i] = ingestion.NewBlankCell()
			} else {
				row[i] = ingestion.NewTextCell(field)
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	sheet.TrimTrailingRows()
	return sheet, nil
}

// stripBOM drops a leading UTF-8 byte order mark
func stripBOM(src io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, err := io.ReadFull(src, buf)
	if err != nil {
		return io.MultiReader(strings.NewReader(string(buf[:n])), src)
	}
	if buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return src
	}
	return io.MultiReader(strings.NewReader(string(buf)), src)
}
