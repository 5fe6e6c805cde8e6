package session

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"shotpin/src/annotate"
	"shotpin/src/history"
	"shotpin/src/screenshot"
)

const (
	MinOpacity     = 0.1
	MaxOpacity     = 1.0
	OpacityStep    = 0.05
	DefaultOpacity = 1.0
)

// PinnedOverlay is a promoted region crop living in its own floating
// window, holding the history transplanted from the editor and an opacity
// scalar. The last committed raster is kept apart from the working buffer
// so window resizes rescale from it instead of compounding resample loss;
// it follows every commit, undo, and redo so a resize can never revert
// annotation state.
type PinnedOverlay struct {
	ctrl     *Controller
	region   image.Rectangle // editor-canvas coordinates at pin time
	working  *screenshot.Canvas
	original *image.RGBA
	hist     *history.History
	ann      *annotate.Engine
	opacity  float64
}

func newPinnedOverlay(c *Controller, crop *image.RGBA, scale float64, region image.Rectangle, hist *history.History) *PinnedOverlay {
	ov := &PinnedOverlay{
		ctrl:     c,
		region:   region,
		working:  &screenshot.Canvas{Image: crop, Scale: scale},
		original: cloneRGBA(crop),
		hist:     hist,
		opacity:  DefaultOpacity,
	}
	ov.ann = annotate.NewEngine(ov.working, wholeCanvas{ov.working}, ov.commitSnapshot)
	return ov
}

// wholeCanvas clamps overlay annotations to the working buffer, which is
// the overlay's entire region.
type wholeCanvas struct{ c *screenshot.Canvas }

func (w wholeCanvas) Region() (image.Rectangle, bool) { return w.c.Bounds(), true }

func (ov *PinnedOverlay) Canvas() *screenshot.Canvas { return ov.working }

func (ov *PinnedOverlay) Region() image.Rectangle { return ov.region }

func (ov *PinnedOverlay) Annotator() *annotate.Engine { return ov.ann }

func (ov *PinnedOverlay) History() *history.History { return ov.hist }

func (ov *PinnedOverlay) Opacity() float64 { return ov.opacity }

func (ov *PinnedOverlay) PointerDown(p image.Point) { ov.ann.PointerDown(p) }
func (ov *PinnedOverlay) PointerMove(p image.Point) { ov.ann.PointerMove(p) }
func (ov *PinnedOverlay) PointerUp(p image.Point)   { ov.ann.PointerUp(p) }

func (ov *PinnedOverlay) commitSnapshot() {
	b := ov.working.Bounds()
	ov.hist.Commit(ov.working.Crop(b), b)
	// The rescale source must include the annotation, or the next window
	// resize would silently revert it.
	ov.original = cloneRGBA(ov.working.Image)
}

// Undo replaces the whole working buffer with the previous snapshot. A
// boundary is a no-op.
func (ov *PinnedOverlay) Undo() {
	if snap, ok := ov.hist.Undo(); ok {
		ov.replaceWorking(snap.Image)
	}
}

// Redo replaces the whole working buffer with the next snapshot.
func (ov *PinnedOverlay) Redo() {
	if snap, ok := ov.hist.Redo(); ok {
		ov.replaceWorking(snap.Image)
	}
}

// replaceWorking swaps a snapshot in as both the working buffer and the
// rescale source.
func (ov *PinnedOverlay) replaceWorking(img *image.RGBA) {
	ov.working.Image = cloneRGBA(img)
	ov.original = cloneRGBA(img)
}

// Scroll routes the wheel: a pending text entry takes it for font size,
// otherwise it adjusts window opacity.
func (ov *PinnedOverlay) Scroll(up bool) {
	if ov.ann.Scroll(up) {
		return
	}
	ov.AdjustOpacity(up)
}

// AdjustOpacity steps the opacity, clamped to [MinOpacity, MaxOpacity],
// and returns the new value. Steps are computed on an integer grid so
// repeated scrolls do not accumulate float drift.
func (ov *PinnedOverlay) AdjustOpacity(up bool) float64 {
	const grid = 1 / OpacityStep
	steps := int(math.Round(ov.opacity * grid))
	if up {
		steps++
	} else {
		steps--
	}
	if min := int(math.Round(MinOpacity * grid)); steps < min {
		steps = min
	}
	if max := int(math.Round(MaxOpacity * grid)); steps > max {
		steps = max
	}
	ov.opacity = float64(steps) / grid
	return ov.opacity
}

// Resize rescales the working buffer to the given pixel size from the
// last committed raster.
func (ov *PinnedOverlay) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if image.Pt(w, h) == ov.working.Bounds().Size() {
		return
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), ov.original, ov.original.Bounds(), xdraw.Src, nil)
	ov.working.Image = dst
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
