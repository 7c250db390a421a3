//go:build windows

package config

import (
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

const reservedChars = `<>":/\|?*;`

// ColorTerminal reports whether stream is a console which can show colors.
// VT100 processing is switched on for the console, consoles older than
// Windows 10 refuse it.
func ColorTerminal(stream *os.File) bool {
	if colorDisabled() || !term.IsTerminal(int(stream.Fd())) {
		return false
	}
	h := windows.Handle(stream.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
