package guess

import (
	"strings"
	"time"

	"gridimport/domain/table"
)

// candidate layouts, most specific first; ties go to the earlier layout
var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"01/02/2006",
	"1/2/2006",
	"02/01/2006",
	"2/1/2006",
	"01/02/06",
	"1/2/06",
	"02.01.2006",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// layoutHasTime reports whether layout renders a time of day
func layoutHasTime(layout string) bool {
	return strings.Contains(layout, "15") || strings.Contains(layout, "3:04")
}

// guessLayout picks the layout that strictly parses the most values
func guessLayout(values []string) (string, bool) {
	best, bestCount := "", 0
	for _, layout := range dateLayouts {
		count := 0
		for _, s := range values {
			if s == "" {
				continue
			}
			if _, ok := parseStrict(layout, s); ok {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = layout, count
		}
	}
	return best, bestCount > 0
}

// parseStrict accepts s only if formatting the parsed time gives s back
func parseStrict(layout, s string) (time.Time, bool) {
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil || t.Format(layout) != s {
		return time.Time{}, false
	}
	return t, true
}

type dateParser struct {
	layout string
}

func (p dateParser) parse(s string) (float64, bool) {
	t, ok := parseStrict(p.layout, s)
	if !ok {
		return 0, false
	}
	return float64(t.Unix()), true
}

func (p dateParser) format(v float64) string {
	t := time.Unix(int64(v), 0).UTC()
	return t.Format(p.layout)
}

func (p dateParser) allowBlank() bool { return true }
func (p dateParser) blank() table.Value { return table.Null() }
func (p dateParser) kind() Kind { return KindDate }
func (p dateParser) describe() string { return p.layout }

func (p dateParser) columnType() table.ColumnType {
	if layoutHasTime(p.layout) {
		return table.ColumnDateTime
	}
	return table.ColumnDate
}
