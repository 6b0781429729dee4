// Package charclass classifies runes for the heat profile of a line.
package charclass

import "unicode"

// Class is the category of a rune as far as word boundaries are concerned.
type Class uint8

const (
	// First is the state before any rune has been classified. Classify never returns it.
	First Class = iota
	Separator
	Numeric
	Alphabetic
	Other
)

var classNames = [...]string{
	First:      "first",
	Separator:  "separator",
	Numeric:    "numeric",
	Alphabetic: "alphabetic",
	Other:      "other",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// Classify returns the class of r. Alphabetic is the Unicode Alphabetic
// property: letters plus Other_Alphabetic marks such as Indic vowel signs.
func Classify(r rune) Class {
	switch {
	case IsSeparator(r):
		return Separator
	case unicode.IsNumber(r):
		return Numeric
	case unicode.IsLetter(r), unicode.Is(unicode.Other_Alphabetic, r):
		return Alphabetic
	default:
		return Other
	}
}

// IsSeparator reports whether r is whitespace or one of - _ : . / \
func IsSeparator(r rune) bool {
	switch r {
	case '-', '_', ':', '.', '/', '\\':
		return true
	}
	return unicode.IsSpace(r)
}
