package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the Unicode case-folded form of s for case-insensitive comparison.
// A fresh Caser is used per call since Casers are not safe for concurrent use.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold reports whether needle, already folded, occurs in haystack
// after folding. An empty haystack never matches.
func ContainsFold(haystack, foldedNeedle string) bool {
	if haystack == "" {
		return false
	}
	return strings.Contains(Fold(haystack), foldedNeedle)
}
