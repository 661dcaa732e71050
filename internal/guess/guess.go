// Package guess retypes columns whose cells all arrived as text, as CSV
// cells do. A column is retyped only when nearly every value parses
// losslessly: formatting the parsed value must give back the original string.
package guess

import (
	"gridimport/domain/table"
)

// Kind names the parser that accepted a column
type Kind string

const (
	KindBool    Kind = "bool"
	KindNumeric Kind = "numeric"
	KindDate    Kind = "date"
)

// Config holds guessing thresholds
type Config struct {
	// MaxUnparsedRatio is the share of non-blank values allowed to stay text
	MaxUnparsedRatio float64 `json:"max_unparsed_ratio"`
}

// DefaultConfig returns the thresholds used for CSV imports
func DefaultConfig() Config {
	return Config{MaxUnparsedRatio: 0.1}
}

// Result is an accepted guess
type Result struct {
	Kind     Kind
	Type     table.ColumnType
	Values   []table.Value
	Format   string // number format description or time layout
	Unparsed int
}

// Guesser tries bool, numeric and date parsers in that order
type Guesser struct {
	config Config
}

// NewGuesser creates a guesser
func NewGuesser(config Config) *Guesser {
	if config.MaxUnparsedRatio < 0 {
		config.MaxUnparsedRatio = 0
	}
	return &Guesser{config: config}
}

// parser turns one non-blank string into a typed value. format must render
// the value back; ok is false when the string is not of the parser's type.
type parser interface {
	parse(s string) (v float64, ok bool)
	format(v float64) string
	allowBlank() bool
	blank() table.Value
	columnType() table.ColumnType
	kind() Kind
	describe() string
}

// Guess retypes values, where "" marks a blank. It reports false when no
// parser accepts the column; the column then stays text.
func (g *Guesser) Guess(values []string) (Result, bool) {
	nonBlank := 0
	for _, v := range values {
		if v != "" {
			nonBlank++
		}
	}
	if nonBlank == 0 {
		return Result{}, false
	}

	if res, ok := g.try(boolParser{}, values, nonBlank); ok {
		return res, true
	}
	if res, ok := g.try(newNumberParser(guessNumberFormat(values)), values, nonBlank); ok {
		return res, true
	}
	if layout, ok := guessLayout(values); ok {
		if res, ok := g.try(dateParser{layout: layout}, values, nonBlank); ok {
			return res, true
		}
	}
	return Result{}, false
}

func (g *Guesser) try(p parser, values []string, nonBlank int) (Result, bool) {
	maxUnparsed := float64(nonBlank) * g.config.MaxUnparsedRatio
	unparsed := 0
	out := make([]table.Value, len(values))

	for i, s := range values {
		if s == "" {
			if !p.allowBlank() {
				return Result{}, false
			}
			out[i] = p.blank()
			continue
		}

		v, ok := p.parse(s)
		if !ok {
			unparsed++
			if float64(unparsed) > maxUnparsed {
				return Result{}, false
			}
			out[i] = table.Text(s)
			continue
		}
		if p.format(v) != s {
			return Result{}, false
		}
		out[i] = table.Number(v)
	}

	return Result{
		Kind:     p.kind(),
		Type:     p.columnType(),
		Values:   out,
		Format:   p.describe(),
		Unparsed: unparsed,
	}, true
}

type boolParser struct{}

func (boolParser) parse(s string) (float64, bool) {
	switch s {
	case "true":
		return 1, true
	case "false":
		return 0, true
	}
	return 0, false
}

func (boolParser) format(v float64) string {
	if v != 0 {
		return "true"
	}
	return "false"
}

// blanks cannot be told apart from false
func (boolParser) allowBlank() bool { return false }
func (boolParser) blank() table.Value { return table.Null() }
func (boolParser) columnType() table.ColumnType { return table.ColumnNumeric }
func (boolParser) kind() Kind { return KindBool }
func (boolParser) describe() string { return "true/false" }
