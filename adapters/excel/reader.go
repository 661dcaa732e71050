package excel

import (
	"context"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gridimport/domain/core"
	"gridimport/domain/ingestion"
	"gridimport/internal"

	"github.com/xuri/excelize/v2"
)

var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

var delimitedExtensions = map[string]rune{
	".csv": 0, // configured comma
	".tsv": '\t',
}

// Reader materializes spreadsheet files as tagged cell grids. Workbook
// containers are read with excelize; delimited text goes through the CSV path.
type Reader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewReader creates a reader
func NewReader(config ReaderConfig, logger *internal.Logger) *Reader {
	if config.CSVComma == 0 {
		config.CSVComma = ','
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Reader{config: config, logger: logger}
}

// Supports reports whether filename has an extension the reader can open
func (r *Reader) Supports(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	_, delimited := delimitedExtensions[ext]
	return workbookExtensions[ext] || delimited
}

// Read opens path, choosing the container from the extension of filename
// (uploads usually live under a temporary name). Container errors from
// excelize or encoding/csv are returned unchanged.
func (r *Reader) Read(ctx context.Context, path, filename string) (*ingestion.Workbook, error) {
	if filename == "" {
		filename = path
	}
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case workbookExtensions[ext]:
		return r.readWorkbook(ctx, path)
	default:
		comma, ok := delimitedExtensions[ext]
		if !ok {
			return nil, core.NewUnsupportedFormatError(filepath.Base(filename), ext)
		}
		if comma == 0 {
			comma = r.config.CSVComma
		}
		return r.readDelimited(ctx, path, filepath.Base(filename), comma)
	}
}

func (r *Reader) readWorkbook(ctx context.Context, path string) (*ingestion.Workbook, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(path, excelize.Options{Password: r.config.Password})
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r.logger.Debug("[ExcelReader] workbook opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	wb := &ingestion.Workbook{Format: ingestion.FormatXLSX}
	formats := newFormatCache(f)
	for _, name := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sheet, err := r.readSheet(f, formats, name, date1904)
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	r.logger.Debug("[ExcelReader] %d sheets read in %.2fms", len(wb.Sheets), float64(time.Since(startTime).Nanoseconds())/1e6)
	return wb, nil
}

func (r *Reader) readSheet(f *excelize.File, formats *formatCache, name string, date1904 bool) (ingestion.Sheet, error) {
	sheet := ingestion.Sheet{Name: name, Date1904: date1904}

	// GetRows bounds the grid: rows come back trimmed of trailing empty cells
	rawRows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return sheet, err
	}
	if r.config.MaxRows > 0 && len(rawRows) > r.config.MaxRows {
		rawRows = rawRows[:r.config.MaxRows]
	}

	sheet.Rows = make([][]ingestion.RawCell, len(rawRows))
	for rowIdx, rawRow := range rawRows {
		cells := make([]ingestion.RawCell, len(rawRow))
		for colIdx, raw := range rawRow {
			ref, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return sheet, err
			}
			cell, err := readCell(f, formats, name, ref, raw, date1904)
			if err != nil {
				return sheet, err
			}
			cells[colIdx] = cell
		}
		sheet.Rows[rowIdx] = cells
	}
	sheet.TrimTrailingRows()

	merges, err := f.GetMergeCells(name)
	if err != nil {
		return sheet, err
	}
	for _, mc := range merges {
		mr, ok := toMergeRange(mc.GetStartAxis(), mc.GetEndAxis())
		if !ok {
			r.logger.Warn("[ExcelReader] sheet %q: ignoring malformed merge %q", name, mc.GetStartAxis()+":"+mc.GetEndAxis())
			continue
		}
		sheet.Merges = append(sheet.Merges, mr)
	}

	return sheet, nil
}

// readCell maps the container's tag and stored payload to a RawCell
func readCell(f *excelize.File, formats *formatCache, sheet, ref, raw string, date1904 bool) (ingestion.RawCell, error) {
	if raw == "" {
		return ingestion.NewBlankCell(), nil
	}

	cellType, err := f.GetCellType(sheet, ref)
	if err != nil {
		return ingestion.RawCell{}, err
	}

	switch cellType {
	case excelize.CellTypeBool:
		return ingestion.NewBooleanCell(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeError:
		return ingestion.NewErrorCell(raw), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return ingestion.NewTextCell(raw), nil
	case excelize.CellTypeDate:
		t, err := time.Parse(time.RFC3339Nano, isoTimestamp(raw))
		if err != nil {
			return ingestion.NewTextCell(raw), nil
		}
		display, _ := f.GetCellValue(sheet, ref)
		return ingestion.NewDateTimeCell(timeToSerial(t, date1904), display), nil
	}

	// numbers are stored untagged or with t="n"; the style decides whether
	// they are day serials
	styleID, err := f.GetCellStyle(sheet, ref)
	if err != nil {
		return ingestion.RawCell{}, err
	}
	if formats.isDate(styleID) {
		serial, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ingestion.NewTextCell(raw), nil
		}
		display, _ := f.GetCellValue(sheet, ref)
		return ingestion.NewDateTimeCell(serial, display), nil
	}
	return ingestion.NewNumberCell(raw), nil
}

func toMergeRange(start, end string) (ingestion.MergeRange, bool) {
	firstCol, firstRow, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return ingestion.MergeRange{}, false
	}
	lastCol, lastRow, err := excelize.CellNameToCoordinates(end)
	if err != nil {
		return ingestion.MergeRange{}, false
	}
	mr := ingestion.MergeRange{
		FirstRow: firstRow - 1,
		FirstCol: firstCol - 1,
		LastRow:  lastRow - 1,
		LastCol:  lastCol - 1,
	}
	return mr, mr.Valid()
}

// isoTimestamp completes the partial ISO 8601 forms allowed for t="d" cells
func isoTimestamp(raw string) string {
	switch {
	case len(raw) == len("2006-01-02"):
		return raw + "T00:00:00Z"
	case !strings.HasSuffix(raw, "Z") && !strings.ContainsAny(raw[min(len(raw), 19):], "+-"):
		return raw + "Z"
	}
	return raw
}

var (
	serialBase1900 = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	serialBase1904 = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
)

func timeToSerial(t time.Time, date1904 bool) float64 {
	base := serialBase1900
	if date1904 {
		base = serialBase1904
	}
	seconds := t.Unix() - base.Unix()
	return math.Round(float64(seconds)+float64(t.Nanosecond())/1e9) / 86400
}
