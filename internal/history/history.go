// Package history keeps bounded per-image undo and redo stacks of crop results.
package history

import "image"

// DefaultLimit is the number of prior crops retained per image.
const DefaultLimit = 10

type stacks struct {
	undo []*image.NRGBA
	redo []*image.NRGBA
}

// History maps an image index to its undo and redo stacks. The caller owns the
// current crop; History only ever holds displaced ones.
type History struct {
	limit  int
	stacks map[int]*stacks
}

// New creates a History that keeps at most limit entries per stack.
// A non-positive limit falls back to DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{
		limit:  limit,
		stacks: make(map[int]*stacks),
	}
}

// Limit returns the per-index bound.
func (h *History) Limit() int { return h.limit }

func (h *History) get(index int) *stacks {
	s, ok := h.stacks[index]
	if !ok {
		s = &stacks{}
		h.stacks[index] = s
	}
	return s
}

// push appends img and evicts from the front once the bound is exceeded.
func (h *History) push(stack []*image.NRGBA, img *image.NRGBA) []*image.NRGBA {
	stack = append(stack, img)
	if over := len(stack) - h.limit; over > 0 {
		n := copy(stack, stack[over:])
		clear(stack[n:])
		stack = stack[:n]
	}
	return stack
}

func pop(stack []*image.NRGBA) ([]*image.NRGBA, *image.NRGBA) {
	last := len(stack) - 1
	img := stack[last]
	stack[last] = nil
	return stack[:last], img
}

// RecordChange stores previous as the newest undo entry for index and
// drops any redo entries, since a new edit invalidates forward history.
func (h *History) RecordChange(index int, previous *image.NRGBA) {
	if previous == nil {
		return
	}
	s := h.get(index)
	s.undo = h.push(s.undo, previous)
	clear(s.redo)
	s.redo = s.redo[:0]
}

// ClearRedo drops the redo entries for index. A crop committed after a reset
// has no previous crop to record but still invalidates forward history.
func (h *History) ClearRedo(index int) {
	if s, ok := h.stacks[index]; ok {
		clear(s.redo)
		s.redo = s.redo[:0]
	}
}

// Undo pops the newest undo entry for index and returns it as the crop to
// install. current is pushed onto the redo stack. ok is false when there is
// nothing to undo, in which case current should stay in place.
func (h *History) Undo(index int, current *image.NRGBA) (*image.NRGBA, bool) {
	s, exists := h.stacks[index]
	if !exists || len(s.undo) == 0 {
		return current, false
	}
	var restored *image.NRGBA
	s.undo, restored = pop(s.undo)
	if current != nil {
		s.redo = h.push(s.redo, current)
	}
	return restored, true
}

// Redo is the inverse of Undo.
func (h *History) Redo(index int, current *image.NRGBA) (*image.NRGBA, bool) {
	s, exists := h.stacks[index]
	if !exists || len(s.redo) == 0 {
		return current, false
	}
	var restored *image.NRGBA
	s.redo, restored = pop(s.redo)
	if current != nil {
		s.undo = h.push(s.undo, current)
	}
	return restored, true
}

// Depth reports how many undo and redo steps are available for index.
func (h *History) Depth(index int) (undo, redo int) {
	s, ok := h.stacks[index]
	if !ok {
		return 0, 0
	}
	return len(s.undo), len(s.redo)
}

// Reset drops every stack.
func (h *History) Reset() {
	clear(h.stacks)
}
