package ui

import (
	"fyne.io/fyne/v2"

	"shotpin/src/annotate"
)

// keyBinding maps one chord to a window action. Tables are matched in
// order, so entries requiring modifiers precede their bare variants.
type keyBinding struct {
	key    fyne.KeyName
	ctrl   bool
	shift  bool
	action func(w *editorWindow)
}

var editorKeys = []keyBinding{
	{key: fyne.KeyEscape, action: (*editorWindow).escape},

	{key: fyne.KeyUp, shift: true, action: nudgeKey(0, -1, true)},
	{key: fyne.KeyUp, action: nudgeKey(0, -1, false)},
	{key: fyne.KeyDown, shift: true, action: nudgeKey(0, 1, true)},
	{key: fyne.KeyDown, action: nudgeKey(0, 1, false)},
	{key: fyne.KeyLeft, shift: true, action: nudgeKey(-1, 0, true)},
	{key: fyne.KeyLeft, action: nudgeKey(-1, 0, false)},
	{key: fyne.KeyRight, shift: true, action: nudgeKey(1, 0, true)},
	{key: fyne.KeyRight, action: nudgeKey(1, 0, false)},

	{key: fyne.KeyZ, ctrl: true, action: (*editorWindow).undo},
	{key: fyne.KeyY, ctrl: true, action: (*editorWindow).redo},
	{key: fyne.KeyC, ctrl: true, action: (*editorWindow).copyRegion},
	{key: fyne.KeyS, ctrl: true, action: (*editorWindow).saveRegion},
	{key: fyne.KeyT, ctrl: true, action: (*editorWindow).pin},

	{key: fyne.Key1, action: toolKey(annotate.ToolPen)},
	{key: fyne.Key2, action: toolKey(annotate.ToolRect)},
	{key: fyne.Key3, action: toolKey(annotate.ToolLine)},
	{key: fyne.Key4, action: toolKey(annotate.ToolText)},

	{key: fyne.KeyC, action: (*editorWindow).cycleColor},
	{key: fyne.KeyLeftBracket, action: penWidthKey(-1)},
	{key: fyne.KeyRightBracket, action: penWidthKey(1)},

	{key: fyne.KeyPageUp, action: (*editorWindow).galleryPrev},
	{key: fyne.KeyPageDown, action: (*editorWindow).galleryNext},
}

func nudgeKey(dx, dy int, large bool) func(*editorWindow) {
	return func(w *editorWindow) {
		w.ed.Nudge(dx, dy, large)
		w.refresh()
	}
}

func toolKey(t annotate.Tool) func(*editorWindow) {
	return func(w *editorWindow) {
		w.ed.Annotator().SetTool(t)
		w.refresh()
	}
}

func penWidthKey(delta int) func(*editorWindow) {
	return func(w *editorWindow) {
		w.adjustPenWidth(delta)
	}
}

// matchBinding returns the first entry whose chord matches exactly, or
// nil when the key is unbound.
func matchBinding(table []keyBinding, key fyne.KeyName, ctrl, shift bool) *keyBinding {
	for i := range table {
		b := &table[i]
		if b.key == key && b.ctrl == ctrl && b.shift == shift {
			return b
		}
	}
	return nil
}
