package coercion

import (
	"gridimport/domain/ingestion"
)

// ClassKind is the per-cell classification the reconciler works from
type ClassKind int

const (
	ClassBlank ClassKind = iota
	ClassError
	ClassNumber
	ClassOverflow
	ClassText
	ClassBoolean
	ClassDate
	ClassDateSerial
	ClassTimeOfDay
	ClassUnparseable
)

var classKindNames = [...]string{
	ClassBlank:       "blank",
	ClassError:       "error",
	ClassNumber:      "number",
	ClassOverflow:    "overflow",
	ClassText:        "text",
	ClassBoolean:     "boolean",
	ClassDate:        "date",
	ClassDateSerial:  "date_serial",
	ClassTimeOfDay:   "time_of_day",
	ClassUnparseable: "unparseable",
}

func (k ClassKind) String() string {
	if int(k) < len(classKindNames) {
		return classKindNames[k]
	}
	return "unknown"
}

// Class is one classified cell. Num holds the number, 0/1, epoch seconds or
// serial; Text always holds the cell's text rendering so that every class
// has a fallback.
type Class struct {
	Kind    ClassKind
	Num     float64
	Text    string
	HasTime bool
}

// Origin returns the native tag the cell counts as for reconciliation.
// Dates kept as serial numbers count as numbers, time-only values as text.
func (c Class) Origin() ingestion.CellKind {
	switch c.Kind {
	case ClassNumber, ClassOverflow, ClassDateSerial:
		return ingestion.CellNumber
	case ClassText, ClassTimeOfDay:
		return ingestion.CellText
	case ClassBoolean:
		return ingestion.CellBoolean
	case ClassDate, ClassUnparseable:
		return ingestion.CellDateTime
	case ClassError:
		return ingestion.CellError
	default:
		return ingestion.CellBlank
	}
}

// IsNumeric reports whether the class carries a usable number
func (c Class) IsNumeric() bool {
	return c.Kind == ClassNumber || c.Kind == ClassBoolean || c.Kind == ClassDateSerial
}

// Classify maps one raw cell through the tag normalizer, the precision guard
// and the date normalizer. It is total: every input gets a class.
func Classify(cell ingestion.RawCell, date1904 bool) Class {
	switch cell.Kind {
	case ingestion.CellBlank:
		return Class{Kind: ClassBlank}

	case ingestion.CellError:
		return Class{Kind: ClassError, Text: cell.Raw}

	case ingestion.CellText:
		if cell.Raw == "" {
			return Class{Kind: ClassBlank}
		}
		return Class{Kind: ClassText, Text: cell.Raw}

	case ingestion.CellBoolean:
		if cell.Bool {
			return Class{Kind: ClassBoolean, Num: 1, Text: "1"}
		}
		return Class{Kind: ClassBoolean, Num: 0, Text: "0"}

	case ingestion.CellNumber:
		nc := ClassifyNumber(cell.Raw)
		switch {
		case nc.Overflow:
			return Class{Kind: ClassOverflow, Num: nc.Value, Text: nc.Digits}
		case nc.Invalid:
			if cell.Raw == "" {
				return Class{Kind: ClassBlank}
			}
			return Class{Kind: ClassText, Text: cell.Raw}
		default:
			return Class{Kind: ClassNumber, Num: nc.Value, Text: FormatNumber(nc.Value)}
		}

	case ingestion.CellDateTime:
		return classifyDate(cell, date1904)

	default:
		return Class{Kind: ClassText, Text: cell.Raw}
	}
}

func classifyDate(cell ingestion.RawCell, date1904 bool) Class {
	dr := NormalizeDate(cell.Serial, date1904)
	switch dr.Kind {
	case DateEpoch:
		text := cell.Display
		if text == "" {
			text = FormatNumber(cell.Serial)
		}
		return Class{Kind: ClassDate, Num: dr.Epoch, HasTime: dr.HasTime, Text: text}
	case DateSerial:
		return Class{Kind: ClassDateSerial, Num: dr.Serial, Text: FormatNumber(dr.Serial)}
	case DateTimeOfDay:
		return Class{Kind: ClassTimeOfDay, Text: dr.Text}
	default:
		text := cell.Display
		if text == "" {
			text = dr.Text
		}
		return Class{Kind: ClassUnparseable, Text: text}
	}
}

// ClassifyColumn classifies every cell of a column in row order
func ClassifyColumn(cells []ingestion.RawCell, date1904 bool) []Class {
	classes := make([]Class, len(cells))
	for i, cell := range cells {
		classes[i] = Classify(cell, date1904)
	}
	return classes
}
