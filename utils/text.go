package utils

import (
	"strconv"
	"strings"
	"unicode"
)

// NormalizeText lowercases s, turns punctuation and symbols into spaces and
// collapses runs of whitespace.
func NormalizeText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// SafeFloat parses numbers the way spreadsheets render them: "1,5", "1 234.5".
// Anything unparsable is 0.
func SafeFloat(s string) float64 {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		if r == ',' {
			return '.'
		}
		return r
	}, s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatAmount prints whole amounts without a fractional part.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
