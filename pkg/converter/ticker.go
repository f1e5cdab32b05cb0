package converter

import (
	"strings"
	"unicode/utf8"
)

// AccountSegment turns a ticker into a component usable in an account path.
// Dots, used by some exchanges for share class or venue suffixes, are not
// valid there and are removed.
func AccountSegment(ticker string) string {
	return strings.ReplaceAll(ticker, ".", "")
}

// UnitSymbol turns a ticker into the commodity symbol of a traded amount.
// Beancount rejects one-character commodities, so those are doubled.
// Account paths never go through this function.
func UnitSymbol(ticker string) string {
	if utf8.RuneCountInString(ticker) == 1 {
		return ticker + ticker
	}
	return ticker
}
