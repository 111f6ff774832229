package textfilter

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Fold returns s case-folded for caseless comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// EqualFold reports whether a and b are equal under Unicode case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// ContainsFold reports whether sub occurs in text, ignoring case. An empty sub never matches.
func ContainsFold(text, sub string) bool {
	if sub == "" {
		return false
	}
	return strings.Contains(Fold(text), Fold(sub))
}

// SortByName sorts items in Vietnamese collation order of name(item).
func SortByName[T any](items []T, name func(T) string) {
	c := collate.New(language.Vietnamese)
	slices.SortStableFunc(items, func(a, b T) int {
		return c.CompareString(name(a), name(b))
	})
}

var choiceLine = regexp.MustCompile(`(?m)^\s*\d+\.\s*`)

// TrimChoiceNumber removes a leading "1. " style number from a choice line.
func TrimChoiceNumber(s string) string {
	return strings.TrimSpace(choiceLine.ReplaceAllString(s, ""))
}
