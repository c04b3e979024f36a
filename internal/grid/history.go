package grid

import "reflect"

// DefaultUndoLevels bounds each history stack unless configured otherwise.
const DefaultUndoLevels = 1000

// fingerprint is what two records are compared on. Result is the state right
// after the command ran; ID separates commands that would otherwise look the
// same (two inserts of identical rows). The command's kind is not part of it:
// a navigate that lands on the state an edit just produced changes nothing.
type fingerprint struct {
	Result State
	ID     string
}

type record struct {
	cmd Command
	fp  fingerprint
}

// history holds the undo and redo stacks. Both are bounded; when a push would
// exceed the bound the oldest entry is dropped.
type history struct {
	undo  []record
	redo  []record
	limit int
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = DefaultUndoLevels
	}
	return &history{limit: limit}
}

// push records r on the undo stack unless it repeats the most recent record.
// A fresh push (a new operation, not a redo) invalidates the redo stack even
// when r itself is discarded. It reports whether r was kept.
func (h *history) push(r record, fresh bool) bool {
	if fresh {
		h.redo = h.redo[:0]
	}
	if n := len(h.undo); n > 0 && reflect.DeepEqual(h.undo[n-1].fp, r.fp) {
		return false
	}
	h.undo = appendBounded(h.undo, r, h.limit)
	return true
}

func (h *history) popUndo() (record, bool) {
	return pop(&h.undo)
}

func (h *history) popRedo() (record, bool) {
	return pop(&h.redo)
}

func (h *history) pushRedo(r record) {
	h.redo = appendBounded(h.redo, r, h.limit)
}

func (h *history) clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

func appendBounded(stack []record, r record, limit int) []record {
	stack = append(stack, r)
	if over := len(stack) - limit; over > 0 {
		stack = append(stack[:0], stack[over:]...)
	}
	return stack
}

func pop(stack *[]record) (record, bool) {
	n := len(*stack)
	if n == 0 {
		return record{}, false
	}
	r := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return r, true
}
