package table

import (
	"github.com/atotto/clipboard"
	"github.com/imgajeed76/ivy/internal/grid"
)

// SystemClipboard is the operating system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Clipboard returns the system clipboard when this platform has one and an
// in-process clipboard otherwise (headless sessions, CI).
func Clipboard() grid.Clipboard {
	if clipboard.Unsupported {
		return &grid.MemoryClipboard{}
	}
	return SystemClipboard{}
}
