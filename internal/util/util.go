// Package util provides string and number helpers for OCR text and command
// arguments.
package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	intPattern          = regexp.MustCompile(`\d+`)
	signedIntPattern    = regexp.MustCompile(`-?\d+`)
	decimalPattern      = regexp.MustCompile(`\d+(?:\.\d+)?`)
	strictDecimal       = regexp.MustCompile(`\d+\.\d+`)
	signedStrictDecimal = regexp.MustCompile(`-?\d+\.\d+`)
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// CleanArg trims whitespace and surrounding quotes and unescapes inner quotes.
func CleanArg(s string) string {
	return FixEscapeQuotes(TrimQuotes(strings.TrimSpace(s)))
}

// StripThousands removes comma thousands separators ("1,350" -> "1350").
func StripThousands(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// FirstInt returns the first run of digits in s.
func FirstInt(s string) (int, bool) {
	return atoi(intPattern.FindString(s))
}

// FirstSignedInt returns the first integer in s, keeping a leading minus.
func FirstSignedInt(s string) (int, bool) {
	return atoi(signedIntPattern.FindString(s))
}

// FirstDecimal returns the first number in s, with or without a fraction.
func FirstDecimal(s string) (float64, bool) {
	return atof(decimalPattern.FindString(s))
}

// FirstStrictDecimal returns the first number in s that has a fraction.
func FirstStrictDecimal(s string) (float64, bool) {
	return atof(strictDecimal.FindString(s))
}

// FirstSignedDecimal returns the first signed number with a fraction, or
// failing that the first signed integer.
func FirstSignedDecimal(s string) (float64, bool) {
	if v, ok := atof(signedStrictDecimal.FindString(s)); ok {
		return v, true
	}
	n, ok := FirstSignedInt(s)
	return float64(n), ok
}

func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func atof(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
