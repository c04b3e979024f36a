package input

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Binding ties an Op to the keys that trigger it.
type Binding struct {
	Op Op
	key.Binding
}

// Bind creates a binding whose help label is the first key.
func Bind(op Op, keys ...string) Binding {
	label := ""
	if len(keys) > 0 {
		label = keys[0]
	}
	return Binding{
		Op:      op,
		Binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, op.Help())),
	}
}

// Keymap is one mode's binding table. The zero value binds nothing.
type Keymap struct {
	bindings []Binding
}

// NewKeymap builds a table from bindings. When two bindings share a key, the
// earlier one wins.
func NewKeymap(bindings ...Binding) Keymap {
	return Keymap{bindings: append([]Binding(nil), bindings...)}
}

// Lookup resolves a key press to an Op.
func (k Keymap) Lookup(msg tea.KeyMsg) (Op, bool) {
	for _, b := range k.bindings {
		if key.Matches(msg, b.Binding) {
			return b.Op, true
		}
	}
	return OpNone, false
}

// Keys returns the keys bound to op.
func (k Keymap) Keys(op Op) []string {
	for _, b := range k.bindings {
		if b.Op == op {
			return b.Binding.Keys()
		}
	}
	return nil
}

// Bindings returns the table in order, for help rendering.
func (k Keymap) Bindings() []Binding {
	return append([]Binding(nil), k.bindings...)
}

// Rebind returns a copy of k with op bound to exactly keys. Those keys are
// taken away from any other op so the new binding is never shadowed. An empty
// keys list unbinds op.
func (k Keymap) Rebind(op Op, keys ...string) Keymap {
	taken := make(map[string]bool, len(keys))
	for _, s := range keys {
		taken[s] = true
	}

	out := Keymap{bindings: make([]Binding, 0, len(k.bindings)+1)}
	replaced := false
	for _, b := range k.bindings {
		if b.Op == op {
			if len(keys) > 0 && !replaced {
				out.bindings = append(out.bindings, Bind(op, keys...))
				replaced = true
			}
			continue
		}
		var kept []string
		for _, s := range b.Binding.Keys() {
			if !taken[s] {
				kept = append(kept, s)
			}
		}
		if len(kept) > 0 {
			out.bindings = append(out.bindings, Bind(b.Op, kept...))
		}
	}
	if !replaced && len(keys) > 0 {
		out.bindings = append(out.bindings, Bind(op, keys...))
	}
	return out
}

// Override applies a configured name → keys map on top of k. Op names are
// resolved here, once. Names are applied in sorted order so the outcome does
// not depend on map iteration.
func (k Keymap) Override(overrides map[string][]string) (Keymap, error) {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		op, err := ParseOp(name)
		if err != nil {
			return k, err
		}
		k = k.Rebind(op, overrides[name]...)
	}
	return k, nil
}

// Keymaps holds the table for each mode.
type Keymaps struct {
	Navigate Keymap
	Edit     Keymap
}

// DefaultKeymaps returns the built-in tables.
func DefaultKeymaps() Keymaps {
	return Keymaps{
		Navigate: DefaultNavigateKeymap(),
		Edit:     DefaultEditKeymap(),
	}
}

// DefaultNavigateKeymap is the table used while no cell is being edited.
func DefaultNavigateKeymap() Keymap {
	return NewKeymap(
		Bind(OpNavigateUp, "up"),
		Bind(OpNavigateDown, "down"),
		Bind(OpNavigateLeft, "left"),
		Bind(OpNavigateRight, "right"),
		Bind(OpSkipUp, "ctrl+up"),
		Bind(OpSkipDown, "ctrl+down"),
		Bind(OpSkipLeft, "ctrl+left"),
		Bind(OpSkipRight, "ctrl+right"),
		Bind(OpPageUp, "pgup"),
		Bind(OpPageDown, "pgdown"),
		Bind(OpGridStart, "ctrl+home"),
		Bind(OpGridEnd, "ctrl+end"),
		Bind(OpRowStart, "home"),
		Bind(OpRowEnd, "end"),
		Bind(OpNextCell, "tab"),
		Bind(OpPrevCell, "shift+tab"),
		Bind(OpCut, "ctrl+x"),
		Bind(OpCopy, "ctrl+c"),
		Bind(OpPaste, "ctrl+v"),
		Bind(OpErase, "delete", "backspace"),
		Bind(OpDuplicateAbove, "ctrl+d"),
		Bind(OpEditStart, "f2", "enter"),
		Bind(OpInsertRow, "insert", "ctrl+o"),
		Bind(OpAppendRow, "ctrl+n"),
		Bind(OpDeleteRow, "ctrl+k"),
		Bind(OpUndo, "ctrl+z"),
		Bind(OpRedo, "ctrl+y"),
		Bind(OpSave, "ctrl+s"),
		Bind(OpQuit, "ctrl+q"),
	)
}

// DefaultEditKeymap is the table used while the edit surface is attached.
// Everything it does not bind belongs to the edit surface.
func DefaultEditKeymap() Keymap {
	return NewKeymap(
		Bind(OpNavigateUp, "up"),
		Bind(OpNavigateDown, "down"),
		Bind(OpNextCell, "tab"),
		Bind(OpPrevCell, "shift+tab"),
		Bind(OpEditStop, "enter"),
		Bind(OpEditCancel, "esc"),
		Bind(OpUndo, "ctrl+z"),
		Bind(OpSave, "ctrl+s"),
		Bind(OpQuit, "ctrl+q"),
	)
}
