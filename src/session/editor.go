package session

import (
	"fmt"
	"image"
	"log"

	"shotpin/src/annotate"
	"shotpin/src/history"
	"shotpin/src/screenshot"
	"shotpin/src/selection"
)

// Editor is the full-screen capture editor: one canvas, the selection and
// annotation engines over it, and the annotation history. Pointer events
// route to the annotation engine while a tool is active and a region
// exists, to the selection engine otherwise.
type Editor struct {
	ctrl   *Controller
	canvas *screenshot.Canvas
	sel    *selection.Engine
	ann    *annotate.Engine
	hist   *history.History

	galleryIndex int // -1 when not backed by a gallery entry
}

func newEditor(c *Controller, canvas *screenshot.Canvas) *Editor {
	e := &Editor{ctrl: c, canvas: canvas, galleryIndex: -1}
	e.sel = selection.NewEngine(canvas.Bounds())
	e.hist = history.New(c.maxHistory)
	e.ann = annotate.NewEngine(canvas, e.sel, e.commitSnapshot)
	return e
}

// reopenedEditor seeds an editor from a pinned overlay: its working raster
// becomes the whole canvas, the region spans it, and the transplanted
// history keeps its cursor.
func reopenedEditor(c *Controller, canvas *screenshot.Canvas, hist *history.History) *Editor {
	e := &Editor{ctrl: c, canvas: canvas, hist: hist, galleryIndex: -1}
	e.sel = selection.NewEngine(canvas.Bounds())
	e.sel.SetRegion(canvas.Bounds())
	e.ann = annotate.NewEngine(canvas, e.sel, e.commitSnapshot)
	return e
}

func (e *Editor) Canvas() *screenshot.Canvas { return e.canvas }

func (e *Editor) Selection() *selection.Engine { return e.sel }

func (e *Editor) Annotator() *annotate.Engine { return e.ann }

func (e *Editor) History() *history.History { return e.hist }

func (e *Editor) annotating() bool {
	return e.ann.Active() && e.sel.HasRegion()
}

// PointerDown routes a press to the active tool or the selection engine.
func (e *Editor) PointerDown(p image.Point) {
	if e.annotating() {
		e.ann.PointerDown(p)
		return
	}
	e.sel.PointerDown(p)
}

// PointerMove routes motion. aspectLock constrains a selection resize.
func (e *Editor) PointerMove(p image.Point, aspectLock bool) {
	if e.annotating() {
		e.ann.PointerMove(p)
		return
	}
	e.sel.PointerMove(p, aspectLock)
}

// PointerUp finishes the gesture. A release that freezes a new selection
// commits the baseline snapshot and appends the capture to the gallery.
func (e *Editor) PointerUp(p image.Point) {
	if e.annotating() {
		e.ann.PointerUp(p)
		return
	}
	selecting := e.sel.State() == selection.Selecting
	if e.sel.PointerUp(p) {
		return // too small, discarded
	}
	if selecting {
		e.finalizeSelection()
	}
}

// finalizeSelection runs once per capture, when the drag-select freezes:
// the pristine region becomes the first history snapshot and the capture
// joins the gallery.
func (e *Editor) finalizeSelection() {
	r, ok := e.sel.Region()
	if !ok {
		return
	}
	e.commitSnapshot()
	e.galleryIndex = e.ctrl.gallery.Append(Capture{Canvas: e.canvas.Clone(), Region: r})
}

func (e *Editor) commitSnapshot() {
	r, ok := e.sel.Region()
	if !ok {
		return
	}
	e.hist.Commit(e.canvas.Crop(r), r)
}

// Undo steps the history back and repaints the stored crop. A boundary is
// a no-op.
func (e *Editor) Undo() {
	snap, ok := e.hist.Undo()
	if !ok {
		return
	}
	e.applySnapshot(snap)
}

// Redo steps the history forward and repaints. A boundary is a no-op.
func (e *Editor) Redo() {
	snap, ok := e.hist.Redo()
	if !ok {
		return
	}
	e.applySnapshot(snap)
}

func (e *Editor) applySnapshot(snap history.Snapshot) {
	restore(e.canvas, snap)
	// A region crop also restores the selection it was taken with; a
	// whole-buffer snapshot (reopened editor) leaves the region spanning.
	if snap.Image.Bounds().Size() != e.canvas.Bounds().Size() {
		e.sel.SetRegion(snap.Region)
	}
}

// Nudge translates the frozen region by one arrow step unless a stroke is
// in flight.
func (e *Editor) Nudge(dx, dy int, large bool) {
	if e.ann.Drawing() {
		return
	}
	e.sel.Nudge(dx, dy, large)
}

// Escape is the layered cancel: pending text first, then the active tool,
// then an in-flight drag-select, and finally the editor itself. It reports
// true when the editor should close.
func (e *Editor) Escape() bool {
	if e.ann.PendingText() != nil {
		e.ann.CancelText()
		return false
	}
	if e.ann.Active() {
		e.ann.SetTool(e.ann.Tool())
		return false
	}
	if e.sel.State() == selection.Selecting {
		e.sel.Cancel()
		return false
	}
	return true
}

// usableRegion gates pin and export: the region must exist and meet the
// configured minimum on both sides.
func (e *Editor) usableRegion() (image.Rectangle, bool) {
	r, ok := e.sel.Region()
	if !ok || r.Dx() < e.ctrl.minSelection || r.Dy() < e.ctrl.minSelection {
		return image.Rectangle{}, false
	}
	return r, true
}

// Copy places the region crop on the clipboard. Without a usable region it
// is a logged no-op.
func (e *Editor) Copy() error {
	e.ann.FinalizeText()
	r, ok := e.usableRegion()
	if !ok {
		log.Printf("session: copy ignored, no usable region")
		return ErrNoRegion
	}
	if err := e.ctrl.exporter.CopyImage(e.canvas.Crop(r)); err != nil {
		return fmt.Errorf("copy region: %w", err)
	}
	return nil
}

// Save writes the region crop to disk and returns the path.
func (e *Editor) Save() (string, error) {
	e.ann.FinalizeText()
	r, ok := e.usableRegion()
	if !ok {
		log.Printf("session: save ignored, no usable region")
		return "", ErrNoRegion
	}
	path, err := e.ctrl.exporter.SaveImage(e.canvas.Crop(r))
	if err != nil {
		return "", fmt.Errorf("save region: %w", err)
	}
	return path, nil
}

// NavigatePrev swaps in the previous gallery capture. At the boundary it
// surfaces a hint and changes nothing.
func (e *Editor) NavigatePrev() bool {
	return e.navigate(e.galleryIndex-1, "Already at the first capture")
}

// NavigateNext swaps in the next gallery capture.
func (e *Editor) NavigateNext() bool {
	return e.navigate(e.galleryIndex+1, "Already at the last capture")
}

// navigate replaces the canvas and region with a gallery entry's and resets
// the annotation history to a single fresh snapshot of it. Gallery
// navigation is deliberately orthogonal to undo/redo.
func (e *Editor) navigate(i int, boundaryHint string) bool {
	if e.galleryIndex < 0 || i < 0 || i >= e.ctrl.gallery.Len() {
		e.ctrl.presenter.Hint(boundaryHint)
		return false
	}
	entry := e.ctrl.gallery.At(i)
	e.galleryIndex = i
	e.canvas = entry.Canvas.Clone()
	e.ann.SetCanvas(e.canvas)
	e.sel.SetRegion(entry.Region)
	e.hist.Clear()
	e.commitSnapshot()
	return true
}
