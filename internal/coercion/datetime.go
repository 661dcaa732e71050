package coercion

import (
	"fmt"
	"math"
)

const (
	secondsPerDay = 86400

	// day serials of 1970-01-01 in the two workbook date systems
	unixEpochSerial1900 = 25569
	unixEpochSerial1904 = 24107

	// serials below this are ambiguous in the 1900 system, which counts the
	// non-existent 1900-02-29
	firstUnambiguousSerial1900 = 61

	// 10000-01-01
	maxSerial1900 = 2958466
)

// DateKind tags the outcome of date normalization
type DateKind int

const (
	// DateEpoch is a calendar date, possibly with a time of day
	DateEpoch DateKind = iota
	// DateSerial is a serial that cannot be read as a calendar date and is kept as a number
	DateSerial
	// DateTimeOfDay is a time with no date part, rendered as HH:MM:SS
	DateTimeOfDay
	// DateUnparseable carries no usable number at all
	DateUnparseable
)

// DateResult is what the date normalizer makes of one serial
type DateResult struct {
	Kind    DateKind
	Epoch   float64 // UTC seconds, whole
	HasTime bool
	Serial  float64
	Text    string
}

// NormalizeDate converts a workbook day serial into UTC epoch seconds. It
// never fails: serials that a strict conversion rejects are handed back as
// plain numbers, time-only values as HH:MM:SS text.
func NormalizeDate(serial float64, date1904 bool) DateResult {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return DateResult{Kind: DateUnparseable, Serial: serial, Text: FormatNumber(serial)}
	}
	if serial <= 0 {
		return DateResult{Kind: DateSerial, Serial: serial}
	}

	days := math.Floor(serial)
	seconds := math.Round((serial - days) * secondsPerDay)
	if seconds >= secondsPerDay {
		days++
		seconds -= secondsPerDay
	}

	if days == 0 {
		return DateResult{Kind: DateTimeOfDay, Serial: serial, Text: formatClock(int(seconds))}
	}

	if !date1904 && days < firstUnambiguousSerial1900 {
		return DateResult{Kind: DateSerial, Serial: serial}
	}

	epochSerial := float64(unixEpochSerial1900)
	limit := float64(maxSerial1900)
	if date1904 {
		epochSerial = unixEpochSerial1904
		limit -= unixEpochSerial1900 - unixEpochSerial1904
	}
	if days >= limit {
		return DateResult{Kind: DateUnparseable, Serial: serial, Text: FormatNumber(serial)}
	}

	return DateResult{
		Kind:    DateEpoch,
		Epoch:   (days-epochSerial)*secondsPerDay + seconds,
		HasTime: seconds != 0,
		Serial:  serial,
	}
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
