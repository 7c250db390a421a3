//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

const reservedChars = "/:"

// ColorTerminal reports whether stream is a terminal which can show colors.
func ColorTerminal(stream *os.File) bool {
	return !colorDisabled() && term.IsTerminal(int(stream.Fd()))
}
