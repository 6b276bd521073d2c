// Package phone provides the input rules for phone number lookups.
// It contains no provider logic: numbers are stripped, never validated.
package phone

import (
	"strings"
	"unicode/utf8"
)

// MinInputLength is the shortest raw message accepted as a lookup request.
const MinInputLength = 5

// Normalize keeps ASCII digits and '+' in their original order.
// Misplaced or repeated '+' signs are kept as-is; providers tolerate them.
//
// Example:
//
//	Normalize("+1 (415) 555-2671") returns "+14155552671"
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if isDigit(r) || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LooksLikeNumber reports whether raw is worth a provider call:
// at least one digit and at least MinInputLength characters.
func LooksLikeNumber(raw string) bool {
	if utf8.RuneCountInString(raw) < MinInputLength {
		return false
	}
	return strings.ContainsFunc(raw, isDigit)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
