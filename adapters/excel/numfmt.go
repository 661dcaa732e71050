package excel

import (
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// builtin number format ids that render day serials as dates or times
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// formatCache remembers per style id whether the style formats dates
type formatCache struct {
	f    *excelize.File
	mu   sync.Mutex
	byID map[int]bool
}

func newFormatCache(f *excelize.File) *formatCache {
	return &formatCache{f: f, byID: make(map[int]bool)}
}

func (c *formatCache) isDate(styleID int) bool {
	if styleID == 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.byID[styleID]; ok {
		return v
	}
	v := false
	if style, err := c.f.GetStyle(styleID); err == nil && style != nil {
		v = builtinDateFormats[style.NumFmt]
		if !v && style.CustomNumFmt != nil {
			v = IsDateFormatCode(*style.CustomNumFmt)
		}
	}
	c.byID[styleID] = v
	return v
}

// IsDateFormatCode reports whether a number format code renders dates or
// times. Quoted literals, escaped characters and bracketed modifiers other
// than elapsed-time tokens are skipped.
func IsDateFormatCode(code string) bool {
	// only the positive section matters
	if i := sectionEnd(code); i >= 0 {
		code = code[:i]
	}

	lower := strings.ToLower(code)
	if lower == "" || lower == "general" || lower == "@" {
		return false
	}

	inQuote := false
	for i := 0; i < len(lower); i++ {
		ch := lower[i]
		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case ch == '"':
			inQuote = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		case ch == '[':
			end := strings.IndexByte(lower[i:], ']')
			if end < 0 {
				return false
			}
			token := lower[i+1 : i+end]
			if token == "h" || token == "hh" || token == "m" || token == "mm" || token == "s" || token == "ss" {
				return true
			}
			i += end
		case ch == 'y' || ch == 'd' || ch == 'h' || ch == 's' || ch == 'm':
			return true
		}
	}
	return false
}

func sectionEnd(code string) int {
	inQuote := false
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '"':
			inQuote = !inQuote
		case '\\':
			i++
		case ';':
			if !inQuote {
				return i
			}
		}
	}
	return -1
}
