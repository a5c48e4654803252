package core

import (
	"strings"
	"unicode"
)

// CleanCell removes spreadsheet artifacts around a cell value:
//   - leading and trailing Unicode whitespace, including non-breaking spaces
//   - byte order marks and zero-width characters at either end
//   - a text formula wrapper (="...")
//
// Interior text is left as is so substring matching sees the source value.
func CleanCell(s string) string {
	s = strings.TrimFunc(s, isPadding)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = strings.TrimFunc(s[2:len(s)-1], isPadding)
	}

	return s
}

func isPadding(r rune) bool {
	switch r {
	case '\uFEFF', '\u200B', '\u200C', '\u200D', '\u2060':
		return true
	}
	return unicode.IsSpace(r)
}
