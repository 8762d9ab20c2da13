package model

import (
	"strings"
	"unicode"
)

// DefaultLabeler converts a column name into a human-friendly label by
// replacing underscores with spaces and title-casing the result.
func DefaultLabeler(name string) string {
	return TitleCase(strings.ReplaceAll(name, "_", " "))
}

// TitleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "in_progress" becomes "In_Progress" and
// "draft" becomes "Draft".
func TitleCase(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			out.WriteRune(unicode.ToUpper(r))
		case isLetter:
			out.WriteRune(unicode.ToLower(r))
		default:
			out.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return out.String()
}
