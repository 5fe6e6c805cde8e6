// Package history keeps the bounded undo/redo stack of raster snapshots
// shared by the capture editor and pinned overlays.
package history

import "image"

// DefaultMax bounds the stack when no limit is configured.
const DefaultMax = 50

// Snapshot is an immutable (region crop, region) pair. The image is the
// canvas content restricted to Region at commit time and must not be
// mutated after being handed to Commit.
type Snapshot struct {
	Image  *image.RGBA
	Region image.Rectangle
}

// History is a linear undo/redo stack with a cursor. Committing while the
// cursor is not at the tail discards the redo branch; committing past the
// bound evicts the oldest entry and shifts the cursor.
type History struct {
	snapshots []Snapshot
	index     int // -1 when empty
	max       int
}

func New(max int) *History {
	if max <= 0 {
		max = DefaultMax
	}
	return &History{index: -1, max: max}
}

func (h *History) Len() int { return len(h.snapshots) }

func (h *History) Index() int { return h.index }

func (h *History) CanUndo() bool { return h.index > 0 }

func (h *History) CanRedo() bool { return h.index < len(h.snapshots)-1 }

// Commit records a new snapshot after a committed annotation action.
func (h *History) Commit(img *image.RGBA, region image.Rectangle) {
	h.snapshots = h.snapshots[:h.index+1]
	h.snapshots = append(h.snapshots, Snapshot{Image: img, Region: region})
	h.index++
	if len(h.snapshots) > h.max {
		h.snapshots = h.snapshots[1:]
		h.index--
	}
}

// Undo steps the cursor back and returns the snapshot to restore. At the
// bottom of the stack it is a no-op.
func (h *History) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.index--
	return h.snapshots[h.index], true
}

// Redo steps the cursor forward and returns the snapshot to restore. At the
// tail it is a no-op.
func (h *History) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.index++
	return h.snapshots[h.index], true
}

// Current returns the snapshot under the cursor.
func (h *History) Current() (Snapshot, bool) {
	if h.index < 0 {
		return Snapshot{}, false
	}
	return h.snapshots[h.index], true
}

// Move transfers ownership of the stack to a new handle and empties the
// receiver, so editor and pinned overlay never both hold the same
// snapshots. The cursor position is preserved in the new handle.
func (h *History) Move() *History {
	moved := &History{snapshots: h.snapshots, index: h.index, max: h.max}
	h.snapshots = nil
	h.index = -1
	return moved
}

// Clear drops all snapshots.
func (h *History) Clear() {
	h.snapshots = nil
	h.index = -1
}
