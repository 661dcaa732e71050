package coercion

import (
	"gridimport/domain/ingestion"
	"gridimport/domain/table"
)

// Summary is the order-independent digest of a classified column
type Summary struct {
	Counts map[ClassKind]int

	origins    map[ingestion.CellKind]bool
	hasTime    bool
	nonBinary  bool // a number or boolean outside {0, 1}
	forcesText bool // overflow or unparseable present
	total      int
}

// Summarize folds the classes of one column into a Summary
func Summarize(classes []Class) Summary {
	s := Summary{
		Counts:  make(map[ClassKind]int),
		origins: make(map[ingestion.CellKind]bool),
		total:   len(classes),
	}
	for _, c := range classes {
		s.Counts[c.Kind]++

		switch c.Kind {
		case ClassBlank, ClassError:
			continue
		case ClassOverflow, ClassUnparseable:
			s.forcesText = true
		case ClassDate:
			if c.HasTime {
				s.hasTime = true
			}
		}

		origin := c.Origin()
		s.origins[origin] = true
		if (origin == ingestion.CellNumber || origin == ingestion.CellBoolean) && c.Num != 0 && c.Num != 1 {
			s.nonBinary = true
		}
	}
	return s
}

// Total returns the number of cells summarized
func (s Summary) Total() int { return s.total }

// Filled returns the number of cells that are neither blank nor errors
func (s Summary) Filled() int {
	return s.total - s.Counts[ClassBlank] - s.Counts[ClassError]
}

// PureText reports whether every non-blank cell was stored as text
func (s Summary) PureText() bool {
	return s.Counts[ClassError] == 0 && s.Filled() > 0 && s.Counts[ClassText] == s.Filled()
}

// originsAre reports whether the set of observed origins is exactly kinds
func (s Summary) originsAre(kinds ...ingestion.CellKind) bool {
	if len(s.origins) != len(kinds) {
		return false
	}
	for _, k := range kinds {
		if !s.origins[k] {
			return false
		}
	}
	return true
}

// ColumnType applies the reconciliation rules to the summary. Booleans never
// produce a boolean column: 0/1 columns are numeric, and a boolean-origin
// column holding any other number is not trusted as a native type at all.
func (s Summary) ColumnType() table.ColumnType {
	switch {
	case len(s.origins) == 0:
		return table.ColumnAny
	case s.forcesText:
		return table.ColumnAny
	case s.originsAre(ingestion.CellNumber):
		return table.ColumnNumeric
	case s.originsAre(ingestion.CellDateTime):
		if s.hasTime {
			return table.ColumnDateTime
		}
		return table.ColumnDate
	case s.originsAre(ingestion.CellBoolean):
		return table.ColumnNumeric
	case s.originsAre(ingestion.CellBoolean, ingestion.CellNumber):
		if s.nonBinary {
			return table.ColumnAny
		}
		return table.ColumnNumeric
	default:
		return table.ColumnAny
	}
}

// Reconcile picks the one column type for a classified column
func Reconcile(classes []Class) table.ColumnType {
	return Summarize(classes).ColumnType()
}
