package profiling

import (
	"math"
	"time"

	"gridimport/domain/table"
)

// Profiler builds column profiles for parsed tables
type Profiler struct{}

// NewProfiler creates a new profiler
func NewProfiler() *Profiler {
	return &Profiler{}
}

// ProfileTable profiles every column of t in order
func (p *Profiler) ProfileTable(t table.Table) TableProfile {
	profile := TableProfile{
		TableName: t.TableName,
		Rows:      t.RowCount(),
		Columns:   make([]ColumnProfile, len(t.ColumnMetadata)),
	}
	for i, meta := range t.ColumnMetadata {
		profile.Columns[i] = p.ProfileColumn(meta, t.Column(i))
	}
	return profile
}

// ProfileTables profiles each table
func (p *Profiler) ProfileTables(tables []table.Table) []TableProfile {
	out := make([]TableProfile, len(tables))
	for i, t := range tables {
		out[i] = p.ProfileTable(t)
	}
	return out
}

// ProfileColumn counts value kinds and, for typed columns, summarizes the
// numbers or the dates they hold
func (p *Profiler) ProfileColumn(meta table.ColumnMetadata, values []table.Value) ColumnProfile {
	profile := ColumnProfile{ID: meta.ID, Type: meta.Type, Rows: len(values)}
	distinct := make(map[string]struct{}, len(values))
	var numbers []float64

	for _, v := range values {
		switch v.Kind {
		case table.ValueNull:
			profile.Nulls++
			continue
		case table.ValueNumber:
			profile.Numbers++
			numbers = append(numbers, v.Num)
		case table.ValueText:
			if v.Text == "" {
				profile.Blanks++
				continue
			}
			profile.Texts++
			if meta.Type != table.ColumnAny {
				profile.Fallback++
			}
		}
		distinct[v.String()] = struct{}{}
	}
	profile.Distinct = len(distinct)

	if len(numbers) == 0 {
		return profile
	}

	switch {
	case meta.Type == table.ColumnNumeric:
		if summary, err := summarize(numbers); err == nil {
			profile.Summary = &summary
		}
	case meta.Type.IsTemporal():
		profile.Dates = dateRange(numbers)
	}
	return profile
}

// dateRange bounds epoch-second values
func dateRange(epochs []float64) *DateRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, e := range epochs {
		lo = math.Min(lo, e)
		hi = math.Max(hi, e)
	}
	return &DateRange{
		Count:    len(epochs),
		Earliest: time.Unix(int64(lo), 0).UTC(),
		Latest:   time.Unix(int64(hi), 0).UTC(),
	}
}
