package ui

import (
	"github.com/piwi3910/BoxPack/internal/cart"
	"github.com/piwi3910/BoxPack/internal/model"
)

const defaultMaxDepth = 50

// Snapshot captures the editable box inventory and cart at a point in time.
type Snapshot struct {
	Boxes []model.BoxPreset
	Lines []cart.Line
	Label string // e.g. "Add Box"
}

// History keeps undo/redo stacks of snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves s and clears the redo stack. Call it before applying the edit.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo returns the snapshot to restore and moves current onto the redo
// stack. It reports false when there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo is the inverse of Undo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// MakeSnapshot copies boxes and lines into a labelled snapshot. Nil slices
// stay nil.
func MakeSnapshot(boxes []model.BoxPreset, lines []cart.Line, label string) Snapshot {
	s := Snapshot{Label: label}
	if boxes != nil {
		s.Boxes = append([]model.BoxPreset{}, boxes...)
	}
	if lines != nil {
		s.Lines = append([]cart.Line{}, lines...)
	}
	return s
}
