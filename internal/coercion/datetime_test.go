package coercion

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func serialOf(t time.Time) float64 {
	return float64(t.Unix())/secondsPerDay + unixEpochSerial1900
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		serial   float64
		date1904 bool
		want     DateResult
	}{
		{
			name:   "date without time",
			serial: 43727,
			want:   DateResult{Kind: DateEpoch, Epoch: 1568851200, Serial: 43727},
		},
		{
			name:   "bicentennial",
			serial: 27945,
			want:   DateResult{Kind: DateEpoch, Epoch: 205286400, Serial: 27945},
		},
		{
			name:   "time of day below 24 hours",
			serial: 76440.0 / secondsPerDay,
			want:   DateResult{Kind: DateTimeOfDay, Serial: 76440.0 / secondsPerDay, Text: "21:14:00"},
		},
		{
			name:   "early morning time",
			serial: 4200.0 / secondsPerDay,
			want:   DateResult{Kind: DateTimeOfDay, Serial: 4200.0 / secondsPerDay, Text: "01:10:00"},
		},
		{
			name:   "duration over 24 hours is ambiguous",
			serial: 4.180902777777778,
			want:   DateResult{Kind: DateSerial, Serial: 4.180902777777778},
		},
		{
			name:   "whole serial inside the leap-year gap",
			serial: 20,
			want:   DateResult{Kind: DateSerial, Serial: 20},
		},
		{
			name:   "zero",
			serial: 0,
			want:   DateResult{Kind: DateSerial, Serial: 0},
		},
		{
			name:   "negative",
			serial: -3,
			want:   DateResult{Kind: DateSerial, Serial: -3},
		},
		{
			name:     "1904 system has no ambiguous range",
			serial:   1,
			date1904: true,
			want:     DateResult{Kind: DateEpoch, Epoch: float64(time.Date(1904, 1, 2, 0, 0, 0, 0, time.UTC).Unix()), Serial: 1},
		},
		{
			name:   "beyond year 9999",
			serial: 2958466,
			want:   DateResult{Kind: DateUnparseable, Serial: 2958466, Text: "2958466"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.serial, tt.date1904))
		})
	}
}

func TestNormalizeDateWithTime(t *testing.T) {
	want := time.Date(2015, 12, 22, 11, 59, 0, 0, time.UTC)
	got := NormalizeDate(serialOf(want), false)

	assert.Equal(t, DateEpoch, got.Kind)
	assert.True(t, got.HasTime)
	assert.Equal(t, float64(want.Unix()), got.Epoch)
}

func TestNormalizeDateRoundsToSeconds(t *testing.T) {
	// a hair before midnight rounds into the next day
	got := NormalizeDate(42359.99999999, false)
	assert.Equal(t, DateEpoch, got.Kind)
	assert.False(t, got.HasTime)
	assert.Equal(t, float64(time.Date(2015, 12, 22, 0, 0, 0, 0, time.UTC).Unix()), got.Epoch)
}

func TestNormalizeDateNeverPanics(t *testing.T) {
	for _, serial := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), math.MaxFloat64, -math.MaxFloat64, 1e-300} {
		assert.NotPanics(t, func() { NormalizeDate(serial, false) })
		assert.NotPanics(t, func() { NormalizeDate(serial, true) })
	}
	assert.Equal(t, DateUnparseable, NormalizeDate(math.NaN(), false).Kind)
}
