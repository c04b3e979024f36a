// Package input turns key presses and pointer clicks into grid operations.
//
// Every physical event is resolved against the binding table of the
// dispatcher's current mode (Navigate or Edit) to a closed Op value, and every
// Op is carried out through a fixed table of handler functions. Nothing here
// is global: each Dispatcher owns its mode and its tables.
package input

import (
	"github.com/imgajeed76/ivy/internal/util"
	"github.com/sahilm/fuzzy"
)

// Op is one operation a binding can trigger.
type Op int

const (
	OpNone Op = iota

	OpNavigateUp
	OpNavigateDown
	OpNavigateLeft
	OpNavigateRight
	OpSkipUp
	OpSkipDown
	OpSkipLeft
	OpSkipRight
	OpPageUp
	OpPageDown
	OpRowStart
	OpRowEnd
	OpGridStart
	OpGridEnd
	OpNextCell
	OpPrevCell

	OpCut
	OpCopy
	OpPaste
	OpErase
	OpDuplicateAbove

	OpEditStart
	OpEditStop
	OpEditCancel

	OpInsertRow
	OpAppendRow
	OpDeleteRow

	OpUndo
	OpRedo

	// Host operations. The dispatcher reports them; the embedding program
	// decides what saving and quitting mean.
	OpSave
	OpQuit

	opCount
)

type opInfo struct {
	name string
	help string
}

var ops = [opCount]opInfo{
	OpNone:           {"none", ""},
	OpNavigateUp:     {"navigateUp", "up"},
	OpNavigateDown:   {"navigateDown", "down"},
	OpNavigateLeft:   {"navigateLeft", "left"},
	OpNavigateRight:  {"navigateRight", "right"},
	OpSkipUp:         {"skipUp", "skip up"},
	OpSkipDown:       {"skipDown", "skip down"},
	OpSkipLeft:       {"skipLeft", "skip left"},
	OpSkipRight:      {"skipRight", "skip right"},
	OpPageUp:         {"pageUp", "page up"},
	OpPageDown:       {"pageDown", "page down"},
	OpRowStart:       {"rowStart", "first column"},
	OpRowEnd:         {"rowEnd", "last column"},
	OpGridStart:      {"gridStart", "first cell"},
	OpGridEnd:        {"gridEnd", "last cell"},
	OpNextCell:       {"nextCell", "next cell"},
	OpPrevCell:       {"prevCell", "previous cell"},
	OpCut:            {"cut", "cut"},
	OpCopy:           {"copy", "copy"},
	OpPaste:          {"paste", "paste"},
	OpErase:          {"erase", "erase"},
	OpDuplicateAbove: {"duplicateAbove", "copy from above"},
	OpEditStart:      {"editStart", "edit"},
	OpEditStop:       {"editStop", "commit"},
	OpEditCancel:     {"editCancel", "cancel"},
	OpInsertRow:      {"insertRow", "insert row"},
	OpAppendRow:      {"appendRow", "append row"},
	OpDeleteRow:      {"deleteRow", "delete row"},
	OpUndo:           {"undo", "undo"},
	OpRedo:           {"redo", "redo"},
	OpSave:           {"save", "save"},
	OpQuit:           {"quit", "quit"},
}

// String returns the configuration name of the op.
func (o Op) String() string {
	if o < 0 || o >= opCount {
		return "unknown"
	}
	return ops[o].name
}

// Help returns a short human description for help footers.
func (o Op) Help() string {
	if o < 0 || o >= opCount {
		return ""
	}
	return ops[o].help
}

// OpNames lists every bindable op name in declaration order.
func OpNames() []string {
	names := make([]string, 0, opCount-1)
	for o := OpNone + 1; o < opCount; o++ {
		names = append(names, ops[o].name)
	}
	return names
}

// ParseOp resolves a configuration name such as "navigateUp". Names are
// resolved once, when a key map is loaded, never per key press.
func ParseOp(name string) (Op, error) {
	for o := OpNone + 1; o < opCount; o++ {
		if ops[o].name == name {
			return o, nil
		}
	}
	return OpNone, util.UnknownOpError(name, suggestOps(name))
}

// suggestOps returns up to three op names close to name.
func suggestOps(name string) []string {
	names := OpNames()
	matches := fuzzy.Find(name, names)
	if len(matches) > 3 {
		matches = matches[:3]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, names[m.Index])
	}
	return out
}
