// Package coercion turns a sheet of natively tagged cells into typed columns.
//
// Each column is classified cell by cell (tag normalization, numeric
// precision guard, date normalization), reconciled into exactly one of
// Numeric, Date, DateTime or Any, and then coerced value by value under that
// type. Nothing in this package fails on cell content: every ambiguous,
// oversized or inconsistent value ends up as text or as a best-effort number.
package coercion

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"gridimport/domain/ingestion"
	"gridimport/domain/table"
	"gridimport/internal"

	"golang.org/x/sync/errgroup"
)

// Config controls a sheet pass
type Config struct {
	// HeaderRow takes column ids from the first non-blank row
	HeaderRow bool `json:"header_row"`
	// Workers bounds how many columns are processed at once; <= 0 means GOMAXPROCS
	Workers int `json:"workers"`
}

// DefaultConfig returns the configuration used by imports
func DefaultConfig() Config {
	return Config{
		HeaderRow: true,
		Workers:   runtime.GOMAXPROCS(0),
	}
}

// ColumnResult is the outcome for one column
type ColumnResult struct {
	ID       string
	Type     table.ColumnType
	Values   []table.Value
	Summary  Summary
	Warnings []string
}

// Engine runs sheet passes
type Engine struct {
	config Config
	logger *internal.Logger
}

// NewEngine creates an engine
func NewEngine(config Config, logger *internal.Logger) *Engine {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Engine{config: config, logger: logger}
}

// ProcessColumn classifies, reconciles and coerces one column
func ProcessColumn(col ingestion.Column, date1904 bool) ColumnResult {
	classes := ClassifyColumn(col.Cells, date1904)
	summary := Summarize(classes)
	colType := summary.ColumnType()

	return ColumnResult{
		ID:      col.ID,
		Type:    colType,
		Values:  Coerce(classes, colType),
		Summary: summary,
	}
}

// ProcessSheet runs one sheet pass. The only error it returns is the
// context's; cell content never causes one.
func (e *Engine) ProcessSheet(ctx context.Context, sheet ingestion.Sheet) (table.Table, []ColumnResult, error) {
	start := time.Now()
	rows := ApplyMerges(sheet.Rows, sheet.Merges)

	ids, data, firstDataRow := e.splitHeader(rows)
	columns := buildColumns(ids, data)

	results := make([]ColumnResult, len(columns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)
	for i := range columns {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := ProcessColumn(columns[i], sheet.Date1904)
			res.Warnings = columnWarnings(sheet.Name, columns[i], firstDataRow, sheet.Date1904)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return table.Table{}, nil, err
	}

	out := table.Table{
		TableName:      sheet.Name,
		ColumnMetadata: make([]table.ColumnMetadata, len(results)),
		TableData:      make([][]table.Value, len(results)),
	}
	for i, res := range results {
		out.ColumnMetadata[i] = table.ColumnMetadata{ID: res.ID, Type: res.Type}
		out.TableData[i] = res.Values
	}

	e.logger.Debug("[CoercionEngine] sheet %q: %d columns x %d rows in %.2fms",
		sheet.Name, len(results), len(data), float64(time.Since(start).Nanoseconds())/1e6)

	return out, results, nil
}

// splitHeader returns column ids, the data rows, and the 1-based sheet row
// number of the first data row
func (e *Engine) splitHeader(rows [][]ingestion.RawCell) ([]string, [][]ingestion.RawCell, int) {
	if !e.config.HeaderRow {
		return nil, rows, 1
	}
	for i, row := range rows {
		if rowIsBlank(row) {
			continue
		}
		ids := make([]string, len(row))
		for j, cell := range row {
			ids[j] = cell.HeaderText()
		}
		return ids, rows[i+1:], i + 2
	}
	return nil, nil, 1
}

func rowIsBlank(row []ingestion.RawCell) bool {
	for _, cell := range row {
		if !cell.IsBlank() {
			return false
		}
	}
	return true
}

// buildColumns transposes rows into columns padded to a common length
func buildColumns(ids []string, rows [][]ingestion.RawCell) []ingestion.Column {
	width := len(ids)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	columns := make([]ingestion.Column, width)
	for c := range columns {
		if c < len(ids) {
			columns[c].ID = ids[c]
		}
		cells := make([]ingestion.RawCell, len(rows))
		for r, row := range rows {
			if c < len(row) {
				cells[r] = row[c]
			} else {
				cells[r] = ingestion.NewBlankCell()
			}
		}
		columns[c].Cells = cells
	}
	return columns
}

func columnWarnings(sheet string, col ingestion.Column, firstDataRow int, date1904 bool) []string {
	var warnings []string
	for r, cell := range col.Cells {
		switch cell.Kind {
		case ingestion.CellDateTime:
			if NormalizeDate(cell.Serial, date1904).Kind == DateSerial {
				warnings = append(warnings, fmt.Sprintf(
					"sheet %q column %q row %d: date serial %s is not a calendar date, kept as a number",
					sheet, col.ID, firstDataRow+r, FormatNumber(cell.Serial)))
			}
		case ingestion.CellNumber:
			if nc := ClassifyNumber(cell.Raw); nc.Overflow {
				warnings = append(warnings, fmt.Sprintf(
					"sheet %q column %q row %d: %s exceeds float precision, kept as text",
					sheet, col.ID, firstDataRow+r, nc.Digits))
			}
		}
	}
	return warnings
}
