package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ColumnType is the single reconciled type of an imported column
type ColumnType string

const (
	ColumnNumeric  ColumnType = "Numeric"
	ColumnDate     ColumnType = "Date"
	ColumnDateTime ColumnType = "DateTime"
	ColumnAny      ColumnType = "Any"
)

// Valid reports whether t is one of the four column types
func (t ColumnType) Valid() bool {
	switch t {
	case ColumnNumeric, ColumnDate, ColumnDateTime, ColumnAny:
		return true
	}
	return false
}

// IsTemporal reports whether values of this type are epoch seconds
func (t ColumnType) IsTemporal() bool {
	return t == ColumnDate || t == ColumnDateTime
}

// ValueKind tags a coerced value
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueNumber
	ValueText
)

// Value is a coerced cell: a number, a text fallback, or null
type Value struct {
	Kind ValueKind
	Num  float64
	Text string
}

// Number creates a numeric value
func Number(f float64) Value {
	return Value{Kind: ValueNumber, Num: f}
}

// Text creates a text value
func Text(s string) Value {
	return Value{Kind: ValueText, Text: s}
}

// Null creates an empty date value
func Null() Value {
	return Value{Kind: ValueNull}
}

// IsNumber reports whether v holds a number
func (v Value) IsNumber() bool { return v.Kind == ValueNumber }

// IsText reports whether v holds a string
func (v Value) IsText() bool { return v.Kind == ValueText }

// IsNull reports whether v is null
func (v Value) IsNull() bool { return v.Kind == ValueNull }

// Interface returns the value as a plain Go value (float64, string or nil)
func (v Value) Interface() interface{} {
	switch v.Kind {
	case ValueNumber:
		return v.Num
	case ValueText:
		return v.Text
	default:
		return nil
	}
}

// String renders the value for logs and reports
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case ValueText:
		return strconv.Quote(v.Text)
	default:
		return "null"
	}
}

// MarshalJSON writes numbers as JSON numbers, text as strings and null as null
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNumber:
		return json.Marshal(v.Num)
	case ValueText:
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Null()
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("value must be a number, string or null: %w", err)
		}
		*v = Number(f)
	}
	return nil
}

// MarshalYAML writes the plain value
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}

// ColumnMetadata describes one output column
type ColumnMetadata struct {
	ID   string     `json:"id" yaml:"id"`
	Type ColumnType `json:"type" yaml:"type"`
}

// Table is the column-oriented result of one sheet pass
type Table struct {
	TableName      string           `json:"table_name" yaml:"table_name"`
	ColumnMetadata []ColumnMetadata `json:"column_metadata" yaml:"column_metadata"`
	TableData      [][]Value        `json:"table_data" yaml:"table_data"`
}

// Clone returns a deep copy of t
func (t *Table) Clone() Table {
	out := Table{TableName: t.TableName}
	if t.ColumnMetadata != nil {
		out.ColumnMetadata = append([]ColumnMetadata(nil), t.ColumnMetadata...)
	}
	if t.TableData != nil {
		out.TableData = make([][]Value, len(t.TableData))
		for i, col := range t.TableData {
			if col != nil {
				out.TableData[i] = append([]Value(nil), col...)
			}
		}
	}
	return out
}

// RowCount returns the number of rows, which is the same for every column
func (t *Table) RowCount() int {
	if len(t.TableData) == 0 {
		return 0
	}
	return len(t.TableData[0])
}

// Column returns the values of the column with the given index
func (t *Table) Column(idx int) []Value {
	if idx < 0 || idx >= len(t.TableData) {
		return nil
	}
	return t.TableData[idx]
}

// ParseResult is everything one file import produces
type ParseResult struct {
	Warnings []string `json:"warnings" yaml:"warnings"`
	Tables   []Table  `json:"tables" yaml:"tables"`
}
