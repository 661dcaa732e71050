package coercion

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// maxExactInteger is the largest integer a float64 holds without rounding (2^53)
var maxExactInteger = new(big.Int).Lsh(big.NewInt(1), 53)

// NumberClass is the outcome of the precision guard for one numeric payload
type NumberClass struct {
	Value float64

	// Overflow marks an integer too wide for float64; Digits holds it exactly
	Overflow bool
	Digits   string

	// Invalid marks a payload that is not a finite number at all
	Invalid bool
}

// ClassifyNumber decides whether a stored numeric payload survives a float64
// round trip. Integer literals beyond 2^53 are flagged unless the shortest
// decimal rendering of the double gives back every digit; fractional and
// exponent forms are what the container itself stored as a double and are
// always safe.
func ClassifyNumber(raw string) NumberClass {
	s := strings.TrimSpace(raw)
	if s == "" {
		return NumberClass{Invalid: true}
	}

	if digits, ok := integerLiteral(s); ok && significantDigits(digits) > 15 {
		n, ok := new(big.Int).SetString(digits, 10)
		if ok && new(big.Int).Abs(n).Cmp(maxExactInteger) > 0 {
			f, _ := new(big.Float).SetInt(n).Float64()
			if !sameInteger(f, n) || FormatNumber(f) != canonicalInteger(digits) {
				return NumberClass{Overflow: true, Digits: digits, Value: f}
			}
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return NumberClass{Invalid: true}
	}
	return NumberClass{Value: f}
}

// integerLiteral returns s without a leading '+' when s is an optionally
// signed run of decimal digits
func integerLiteral(s string) (string, bool) {
	body := s
	if strings.HasPrefix(body, "+") {
		body = body[1:]
		s = body
	} else if strings.HasPrefix(body, "-") {
		body = body[1:]
	}
	if body == "" {
		return "", false
	}
	for _, r := range body {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return s, true
}

func significantDigits(digits string) int {
	return len(strings.TrimLeft(strings.TrimPrefix(digits, "-"), "0"))
}

// canonicalInteger drops leading zeros, keeping the sign
func canonicalInteger(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	body := strings.TrimLeft(strings.TrimPrefix(digits, "-"), "0")
	if body == "" {
		return "0"
	}
	if neg {
		return "-" + body
	}
	return body
}

func sameInteger(f float64, n *big.Int) bool {
	back, acc := new(big.Float).SetFloat64(f).Int(nil)
	return acc == big.Exact && back.Cmp(n) == 0
}

// FormatNumber renders a float in its shortest natural decimal form: integral
// values carry no fraction and exponent notation is only used outside
// [1e-7, 1e21).
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-7 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
