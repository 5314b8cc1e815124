package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanUTF8 removes invalid UTF8 sequences and NUL bytes from input.
// The bool reports whether anything was removed.
func CleanUTF8(input string) (string, bool) {
	needsCleaning := strings.Contains(input, "\x00") || !utf8.ValidString(input)

	if !needsCleaning {
		return input, false
	}

	cleaned := strings.ToValidUTF8(input, "")
	cleaned = strings.ReplaceAll(cleaned, "\x00", "")

	return cleaned, true
}

// CleanText trims surrounding whitespace after CleanUTF8.
func CleanText(input string) string {
	cleaned, _ := CleanUTF8(input)
	return strings.TrimSpace(cleaned)
}

// RuneLength counts characters rather than bytes.
func RuneLength(input string) int {
	return utf8.RuneCountInString(input)
}
