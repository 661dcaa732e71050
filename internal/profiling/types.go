package profiling

import (
	"time"

	"gridimport/domain/table"
)

// ColumnProfile counts what a coerced column ended up holding
type ColumnProfile struct {
	ID   string           `json:"id"`
	Type table.ColumnType `json:"type"`

	Rows     int `json:"rows"`
	Numbers  int `json:"numbers"`
	Texts    int `json:"texts"`
	Nulls    int `json:"nulls"`
	Blanks   int `json:"blanks"`   // empty strings
	Fallback int `json:"fallback"` // non-empty text in a typed column
	Distinct int `json:"distinct"`

	Summary *NumericSummary `json:"summary,omitempty"`
	Dates   *DateRange      `json:"dates,omitempty"`
}

// FillRate is the share of rows holding a value
func (p ColumnProfile) FillRate() float64 {
	if p.Rows == 0 {
		return 0
	}
	return float64(p.Rows-p.Nulls-p.Blanks) / float64(p.Rows)
}

// NumericSummary describes the numbers of a Numeric column
type NumericSummary struct {
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"` // excess
	Outliers int     `json:"outliers"`
}

// DateRange bounds the dates of a Date or DateTime column
type DateRange struct {
	Count    int       `json:"count"`
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// TableProfile groups the column profiles of one table
type TableProfile struct {
	TableName string          `json:"table_name"`
	Rows      int             `json:"rows"`
	Columns   []ColumnProfile `json:"columns"`
}
