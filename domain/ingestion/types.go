package ingestion

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CellKind is the closed set of native cell tags a spreadsheet reader can assign
type CellKind int

const (
	CellBlank CellKind = iota
	CellNumber
	CellText
	CellBoolean
	CellDateTime
	CellError
)

var cellKindNames = map[CellKind]string{
	CellBlank:    "blank",
	CellNumber:   "number",
	CellText:     "text",
	CellBoolean:  "boolean",
	CellDateTime: "datetime",
	CellError:    "error",
}

// String returns the lowercase tag name
func (k CellKind) String() string {
	if name, ok := cellKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// RawCell is one grid position as tagged by the reader. It is immutable once read.
type RawCell struct {
	Kind CellKind `json:"kind"`

	// Raw is the payload exactly as stored by the container: the digit string
	// for numbers, the text for strings, the error code for errors.
	Raw string `json:"raw,omitempty"`

	// Display is the reader's formatted rendering, used for text fallbacks of
	// dates. It may be empty.
	Display string `json:"display,omitempty"`

	Bool   bool    `json:"bool,omitempty"`
	Serial float64 `json:"serial,omitempty"` // day serial for CellDateTime
}

// NewBlankCell creates a blank cell
func NewBlankCell() RawCell {
	return RawCell{Kind: CellBlank}
}

// NewNumberCell creates a numeric cell from its stored digit string
func NewNumberCell(raw string) RawCell {
	return RawCell{Kind: CellNumber, Raw: raw}
}

// NewTextCell creates a text cell
func NewTextCell(s string) RawCell {
	return RawCell{Kind: CellText, Raw: s}
}

// NewBooleanCell creates a boolean cell
func NewBooleanCell(b bool) RawCell {
	raw := "0"
	if b {
		raw = "1"
	}
	return RawCell{Kind: CellBoolean, Raw: raw, Bool: b}
}

// NewDateTimeCell creates a date cell from a day serial and the reader's display text
func NewDateTimeCell(serial float64, display string) RawCell {
	return RawCell{Kind: CellDateTime, Serial: serial, Display: display}
}

// NewErrorCell creates an error cell from its code, e.g. "#DIV/0!"
func NewErrorCell(code string) RawCell {
	return RawCell{Kind: CellError, Raw: code}
}

// IsBlank reports whether the cell carries no value. Text made only of
// whitespace is not blank.
func (c RawCell) IsBlank() bool {
	return c.Kind == CellBlank || (c.Kind == CellText && c.Raw == "")
}

// HeaderText returns the cell rendered as a column id
func (c RawCell) HeaderText() string {
	switch c.Kind {
	case CellBlank, CellError:
		return ""
	case CellDateTime:
		return strings.TrimSpace(c.Display)
	default:
		if c.Display != "" {
			return strings.TrimSpace(c.Display)
		}
		return strings.TrimSpace(c.Raw)
	}
}

// MergeRange is a merged region in zero-based, inclusive grid coordinates
type MergeRange struct {
	FirstRow int `json:"first_row"`
	FirstCol int `json:"first_col"`
	LastRow  int `json:"last_row"`
	LastCol  int `json:"last_col"`
}

// IsSingleCell reports whether the merge covers exactly one grid position
func (m MergeRange) IsSingleCell() bool {
	return m.FirstRow == m.LastRow && m.FirstCol == m.LastCol
}

// Valid reports whether the range is well formed
func (m MergeRange) Valid() bool {
	return m.FirstRow >= 0 && m.FirstCol >= 0 && m.LastRow >= m.FirstRow && m.LastCol >= m.FirstCol
}

// Sheet is one materialized worksheet as handed over by a reader
type Sheet struct {
	Name     string       `json:"name"`
	Rows     [][]RawCell  `json:"rows"`
	Merges   []MergeRange `json:"merges,omitempty"`
	Date1904 bool         `json:"date1904"`
}

// TrimTrailingRows drops rows after the last one holding a non-blank cell, so
// the sheet ends at its last real row
func (s *Sheet) TrimTrailingRows() {
	end := len(s.Rows)
	for end > 0 && rowIsBlank(s.Rows[end-1]) {
		end--
	}
	s.Rows = s.Rows[:end]
}

func rowIsBlank(row []RawCell) bool {
	for _, cell := range row {
		if !cell.IsBlank() {
			return false
		}
	}
	return true
}

// Width returns the widest row length
func (s *Sheet) Width() int {
	width := 0
	for _, row := range s.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Format identifies the container a workbook was read from
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Textual reports whether the container stores every cell as text, leaving
// no native tags to trust
func (f Format) Textual() bool {
	return f == FormatCSV
}

// FormatOf guesses the container from a file name
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".tsv":
		return FormatCSV
	}
	return FormatXLSX
}

// Workbook is an ordered set of sheets
type Workbook struct {
	Format Format  `json:"format"`
	Sheets []Sheet `json:"sheets"`
}

// Column is an ordered run of cells sharing one field id
type Column struct {
	ID    string    `json:"id"`
	Cells []RawCell `json:"cells"`
}
