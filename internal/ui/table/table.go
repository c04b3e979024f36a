// Package table renders sheets in the terminal. It has an interactive grid
// editor (keyboard and mouse, undo, autosave), a read-only viewer built on
// the same model, and plain, raw and JSON printers for pipes.
//
// `ivy edit` runs the editor; `ivy show` picks a display mode through
// DisplayResults.
package table

import (
	"context"
	"os"

	"github.com/imgajeed76/ivy/internal/grid"
	"github.com/imgajeed76/ivy/internal/input"
	"github.com/imgajeed76/ivy/internal/store"
	"golang.org/x/term"
)

// DisplayOptions controls how a sheet is shown.
type DisplayOptions struct {
	// JSON outputs rows as a JSON array of objects.
	JSON bool
	// Raw outputs rows as tab-separated values (for piping).
	Raw bool
	// NoPager forces plain table output even on a TTY.
	NoPager bool
	// Keymaps drives the interactive viewer; zero means the defaults.
	Keymaps input.Keymaps
}

// DisplayResults picks the right output mode based on options and environment,
// then renders doc. On a terminal it opens the grid read-only.
func DisplayResults(ctx context.Context, doc *store.Document, opts DisplayOptions) error {
	if opts.Raw {
		PrintRaw(os.Stdout, doc.Rows)
		return nil
	}

	if opts.JSON {
		return store.Export(os.Stdout, doc, store.FormatJSON)
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	if !isTTY || opts.NoPager || len(doc.Rows) == 0 {
		PrintPlainTable(os.Stdout, doc.Headers(), doc.Rows)
		return nil
	}

	engine := grid.New(store.ToGrid(doc), grid.Options{
		ReadOnly:  func(int, int) bool { return true },
		Clipboard: Clipboard(),
	})
	return RunEditor(ctx, engine, EditorOptions{
		Title:   doc.Name,
		Headers: doc.Headers(),
		Keymaps: opts.Keymaps,
	})
}
