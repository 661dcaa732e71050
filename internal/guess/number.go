package guess

import (
	"math"
	"strconv"
	"strings"

	"gridimport/domain/table"
	"gridimport/internal/coercion"
)

var currencySymbols = []string{"$", "€", "£", "¥"}

// NumberFormat is the rendering a numeric column was written in
type NumberFormat struct {
	Currency string // prefix symbol, e.g. "$"
	Grouping bool   // thousands separated by commas
	Percent  bool
	Parens   bool // negatives written as (123)
	Decimals int  // fixed decimals; -1 renders naturally
}

// String describes the format, e.g. "$#,##0.00"
func (nf NumberFormat) String() string {
	var b strings.Builder
	b.WriteString(nf.Currency)
	if nf.Grouping {
		b.WriteString("#,##0")
	} else {
		b.WriteString("0")
	}
	if nf.Decimals > 0 {
		b.WriteString("." + strings.Repeat("0", nf.Decimals))
	}
	if nf.Percent {
		b.WriteString("%")
	}
	if nf.Parens {
		b.WriteString(";(neg)")
	}
	return b.String()
}

// guessNumberFormat inspects the raw strings for decorations worth keeping
func guessNumberFormat(values []string) NumberFormat {
	nf := NumberFormat{Decimals: -1}
	symbolCounts := make(map[string]int)
	maxDecimals := 0
	trailingZero := false

	for _, s := range values {
		if s == "" {
			continue
		}
		body := s
		if strings.HasPrefix(body, "(") && strings.HasSuffix(body, ")") {
			nf.Parens = true
			body = body[1 : len(body)-1]
		}
		body = strings.TrimPrefix(body, "-")
		for _, sym := range currencySymbols {
			if strings.HasPrefix(body, sym) {
				symbolCounts[sym]++
				body = strings.TrimPrefix(body, sym)
				break
			}
		}
		if strings.HasSuffix(body, "%") {
			nf.Percent = true
			body = strings.TrimSuffix(body, "%")
		}
		intPart, frac, hasFrac := strings.Cut(body, ".")
		if strings.Contains(intPart, ",") {
			nf.Grouping = true
		}
		if hasFrac {
			if len(frac) > maxDecimals {
				maxDecimals = len(frac)
			}
			if strings.HasSuffix(frac, "0") {
				trailingZero = true
			}
		}
	}

	best := 0
	for _, sym := range currencySymbols {
		if symbolCounts[sym] > best {
			nf.Currency, best = sym, symbolCounts[sym]
		}
	}
	if trailingZero {
		nf.Decimals = maxDecimals
	}
	return nf
}

type numberParser struct {
	nf NumberFormat
}

func newNumberParser(nf NumberFormat) numberParser {
	return numberParser{nf: nf}
}

func (p numberParser) parse(s string) (float64, bool) {
	negative := false
	if p.nf.Parens && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		if negative {
			return 0, false
		}
		negative = true
		s = s[1:]
	}
	if p.nf.Currency != "" {
		s = strings.TrimPrefix(s, p.nf.Currency)
	}
	percent := false
	if p.nf.Percent && strings.HasSuffix(s, "%") {
		percent = true
		s = strings.TrimSuffix(s, "%")
	}
	if p.nf.Grouping {
		s = strings.ReplaceAll(s, ",", "")
	}
	if s == "" || strings.ContainsAny(s, "+-eEnNiI_xX") {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	if percent {
		v = roundSignificant(v / 100)
	}
	if negative {
		v = -v
	}
	return v, true
}

func (p numberParser) format(v float64) string {
	negative := v < 0 || (v == 0 && math.Signbit(v))
	v = math.Abs(v)
	if p.nf.Percent {
		v = roundSignificant(v * 100)
	}

	var digits string
	if p.nf.Decimals >= 0 {
		digits = strconv.FormatFloat(v, 'f', p.nf.Decimals, 64)
	} else {
		digits = coercion.FormatNumber(v)
	}
	if p.nf.Grouping {
		digits = groupThousands(digits)
	}

	s := p.nf.Currency + digits
	if p.nf.Percent {
		s += "%"
	}
	if negative {
		if p.nf.Parens {
			return "(" + s + ")"
		}
		return "-" + s
	}
	return s
}

func (p numberParser) allowBlank() bool { return true }
func (p numberParser) blank() table.Value { return table.Text("") }
func (p numberParser) columnType() table.ColumnType { return table.ColumnNumeric }
func (p numberParser) kind() Kind { return KindNumeric }
func (p numberParser) describe() string { return p.nf.String() }

// roundSignificant drops the binary noise that scaling by 100 introduces
func roundSignificant(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 15, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func groupThousands(digits string) string {
	intPart, frac, hasFrac := strings.Cut(digits, ".")
	if len(intPart) <= 3 || strings.ContainsAny(intPart, "e+") {
		return digits
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteString("." + frac)
	}
	return b.String()
}
