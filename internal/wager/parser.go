// Package wager holds the numbers-game rules: bet number parsing, game mode
// classification, wager math, ticket totals and pre-issuance validation.
// Everything in this package is pure and safe to call from any goroutine.
package wager

import (
	"strings"
	"unicode"
)

// BetNumber is a normalized bet number
type BetNumber struct {
	Digits string
	Counts [10]int // multiplicity of each digit
}

// Len returns the number of digits
func (b BetNumber) Len() int {
	return len(b.Digits)
}

// Empty reports whether the parse produced no digits
func (b BetNumber) Empty() bool {
	return b.Digits == ""
}

// AllSame reports whether every digit is identical (e.g. "777")
func (b BetNumber) AllSame() bool {
	if b.Empty() {
		return false
	}
	for _, c := range b.Counts {
		if c == b.Len() {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune("-/.,", r)
}

// ParseBetNumber strips separators from raw and returns its digits.
// Input containing anything other than digits and separators yields an
// empty BetNumber, which classifies as invalid.
func ParseBetNumber(raw string) BetNumber {
	var b strings.Builder
	var counts [10]int
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			counts[r-'0']++
		case isSeparator(r):
		default:
			return BetNumber{}
		}
	}
	return BetNumber{Digits: b.String(), Counts: counts}
}
