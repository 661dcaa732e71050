package coercion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyNumber(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantOverflow bool
		wantInvalid  bool
		wantValue    float64
		wantDigits   string
	}{
		{name: "small integer", raw: "5", wantValue: 5},
		{name: "negative integer", raw: "-1234123", wantValue: -1234123},
		{name: "decimal with 15 significant digits", raw: "123456789.123456", wantValue: 123456789.123456},
		{name: "exponent form", raw: "7.225973768125749E+86", wantValue: 7.225973768125749e+86},
		{name: "15 digit integer is exact", raw: "123456789012345", wantValue: 123456789012345},
		{name: "2^53 itself is exact", raw: "9007199254740992", wantValue: 9007199254740992},
		{name: "2^60 renders with rewritten digits", raw: "1152921504606846976", wantOverflow: true, wantDigits: "1152921504606846976"},
		{name: "representable 18 digit id", raw: "320150170634561792", wantOverflow: true, wantDigits: "320150170634561792"},
		{name: "leading zeros on a wide integer", raw: "0001152921504606846976", wantOverflow: true, wantDigits: "0001152921504606846976"},
		{name: "round power of ten keeps its digits", raw: "100000000000000000000", wantValue: 1e20},
		{name: "17 digit account number", raw: "12345678902345689", wantOverflow: true, wantDigits: "12345678902345689"},
		{name: "18 digit id", raw: "320150170634561830", wantOverflow: true, wantDigits: "320150170634561830"},
		{name: "negative wide integer", raw: "-320150170634561830", wantOverflow: true, wantDigits: "-320150170634561830"},
		{name: "plus sign is dropped", raw: "+320150170634561830", wantOverflow: true, wantDigits: "320150170634561830"},
		{name: "surrounding whitespace", raw: "  42 ", wantValue: 42},
		{name: "empty", raw: "", wantInvalid: true},
		{name: "not a number", raw: "abc", wantInvalid: true},
		{name: "NaN", raw: "NaN", wantInvalid: true},
		{name: "infinity", raw: "Inf", wantInvalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyNumber(tt.raw)
			assert.Equal(t, tt.wantOverflow, got.Overflow)
			assert.Equal(t, tt.wantInvalid, got.Invalid)
			if tt.wantOverflow {
				assert.Equal(t, tt.wantDigits, got.Digits)
				return
			}
			if !tt.wantInvalid {
				assert.Equal(t, tt.wantValue, got.Value)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{2, "2"},
		{4.0, "4"},
		{6.5, "6.5"},
		{-10.25, "-10.25"},
		{0.5, "0.5"},
		{1637384.52, "1637384.52"},
		{123456789.123456, "123456789.123456"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1e-8, "1e-08"},
		{4.180902777777778, "4.180902777777778"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in), "FormatNumber(%v)", tt.in)
	}
}
