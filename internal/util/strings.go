package util

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ToValidUTF8 ensures a string is valid UTF-8.
// If the string contains invalid UTF-8 sequences, it attempts to decode
// as Latin-1 (ISO-8859-1), which is what spreadsheet exports on older
// Windows machines commonly produce. This preserves characters like
// ä, ö, ü, é, etc. instead of replacing them.
func ToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err == nil {
		return decoded
	}

	// Latin-1 maps 1:1 to Unicode codepoints 0-255
	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = rune(s[i])
	}
	return string(runes)
}

// Truncate shortens a string to at most width runes, adding "..." if needed.
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width > 3 {
		return string(r[:width-3]) + "..."
	}
	return string(r[:width])
}
