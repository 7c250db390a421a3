package config

import (
	"os"
	"strings"
	"unicode"
)

// SafeFileName drops characters file system would not accept in a single
// path element. Leading dots and spaces are removed, generated pages must
// never end up hidden.
func SafeFileName(in string) string {
	out := strings.TrimLeft(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(reservedChars, r) {
			return -1
		}
		return r
	}, in), ". ")
	if len(out) == 0 {
		return "_unnamed_"
	}
	return out
}

// colorDisabled honors NO_COLOR convention.
func colorDisabled() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}
