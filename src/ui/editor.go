package ui

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/gogpu/gg"

	"shotpin/src/annotate"
	"shotpin/src/selection"
	"shotpin/src/session"
)

const dimAlpha = 0.45

// editorWindow is the full-screen capture editor: one raster view over
// the session editor plus a transient hint label.
type editorWindow struct {
	ui  *UI
	ed  *session.Editor
	win fyne.Window

	view *editorView
	hint *hintLabel

	ctrlHeld  bool
	shiftHeld bool
}

func newEditorWindow(u *UI, e *session.Editor) *editorWindow {
	w := &editorWindow{ui: u, ed: e}
	w.win = u.fyneApp.NewWindow("ShotPin Editor")
	w.win.SetPadded(false)
	w.hint = newHintLabel()
	w.view = newEditorView(w)
	w.win.SetContent(container.NewStack(w.view, container.NewCenter(w.hint.text)))
	w.win.SetFullScreen(true)
	w.win.SetCloseIntercept(func() { w.ui.ctrl.CloseEditor(w.ed) })
	w.installKeys()
	return w
}

func (w *editorWindow) show()  { w.win.Show() }
func (w *editorWindow) close() { w.win.Close() }

func (w *editorWindow) refresh() { w.view.Refresh() }

func (w *editorWindow) installKeys() {
	if dc, ok := w.win.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(w.keyDown)
		dc.SetOnKeyUp(w.keyUp)
	}
	w.win.Canvas().SetOnTypedRune(w.typedRune)
}

func (w *editorWindow) keyDown(ev *fyne.KeyEvent) {
	switch ev.Name {
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		w.ctrlHeld = true
		return
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		w.shiftHeld = true
		return
	}

	// A pending text entry owns the keyboard except for Escape, which the
	// table routes into the layered cancel.
	ann := w.ed.Annotator()
	if entry := ann.PendingText(); entry != nil && ev.Name != fyne.KeyEscape {
		switch ev.Name {
		case fyne.KeyReturn, fyne.KeyEnter:
			ann.FinalizeText()
			w.refresh()
		case fyne.KeyBackspace:
			if entry.Text != "" {
				r := []rune(entry.Text)
				ann.SetEntryText(string(r[:len(r)-1]))
				w.refresh()
			}
		}
		return
	}

	if b := matchBinding(editorKeys, ev.Name, w.ctrlHeld, w.shiftHeld); b != nil {
		b.action(w)
	}
}

func (w *editorWindow) keyUp(ev *fyne.KeyEvent) {
	switch ev.Name {
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		w.ctrlHeld = false
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		w.shiftHeld = false
	}
}

func (w *editorWindow) typedRune(r rune) {
	ann := w.ed.Annotator()
	if entry := ann.PendingText(); entry != nil {
		ann.SetEntryText(entry.Text + string(r))
		w.refresh()
	}
}

func (w *editorWindow) escape() {
	if w.ed.Escape() {
		w.ui.ctrl.CloseEditor(w.ed)
		return
	}
	w.refresh()
}

func (w *editorWindow) undo() {
	w.ed.Undo()
	w.refresh()
}

func (w *editorWindow) redo() {
	w.ed.Redo()
	w.refresh()
}

func (w *editorWindow) copyRegion() {
	if err := w.ed.Copy(); err != nil {
		w.hint.show("Select a region first")
		return
	}
	w.hint.show("Copied to clipboard")
	w.refresh()
}

func (w *editorWindow) saveRegion() {
	path, err := w.ed.Save()
	if err != nil {
		w.hint.show("Select a region first")
		return
	}
	w.hint.show("Saved " + filepath.Base(path))
	w.refresh()
}

func (w *editorWindow) pin() {
	if _, err := w.ui.ctrl.Pin(w.ed); err != nil {
		w.hint.show("Select a region to pin")
	}
}

func (w *editorWindow) cycleColor() {
	w.hint.show(cyclePenColor(w.ed.Annotator()))
	w.ui.rememberStyle(w.ed.Annotator().Style())
	w.refresh()
}

func (w *editorWindow) adjustPenWidth(delta int) {
	w.hint.show(stepPenWidth(w.ed.Annotator(), delta))
	w.ui.rememberStyle(w.ed.Annotator().Style())
	w.refresh()
}

func (w *editorWindow) galleryPrev() {
	if w.ed.NavigatePrev() {
		w.refresh()
	}
}

func (w *editorWindow) galleryNext() {
	if w.ed.NavigateNext() {
		w.refresh()
	}
}

// editorView is the custom widget painting the composited frame and
// routing pointer events into the session editor.
type editorView struct {
	widget.BaseWidget
	w      *editorWindow
	raster *fynecanvas.Raster

	pressed bool
	last    image.Point
}

func newEditorView(w *editorWindow) *editorView {
	v := &editorView{w: w}
	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.ExtendBaseWidget(v)
	return v
}

func (v *editorView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

func (v *editorView) Refresh() {
	v.raster.Refresh()
}

// toCanvas maps a widget position in points to canvas pixels.
func (v *editorView) toCanvas(pos fyne.Position) image.Point {
	scale := float32(1)
	if c := v.w.win.Canvas(); c != nil && c.Scale() > 0 {
		scale = c.Scale()
	}
	b := v.w.ed.Canvas().Bounds()
	return image.Pt(int(pos.X*scale), int(pos.Y*scale)).Add(b.Min)
}

func (v *editorView) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	p := v.toCanvas(ev.Position)
	v.pressed = true
	v.last = p
	v.w.ed.PointerDown(p)
	v.Refresh()
}

func (v *editorView) MouseUp(ev *desktop.MouseEvent) {
	if !v.pressed {
		return
	}
	v.pressed = false
	v.w.ed.PointerUp(v.toCanvas(ev.Position))
	v.Refresh()
}

func (v *editorView) MouseIn(*desktop.MouseEvent) {}

func (v *editorView) MouseOut() {}

func (v *editorView) MouseMoved(ev *desktop.MouseEvent) {
	if v.pressed {
		v.routeMove(v.toCanvas(ev.Position))
	}
}

// Dragged mirrors MouseMoved: the desktop driver prefers drag events once
// a button is down, and routing both through routeMove keeps them
// idempotent.
func (v *editorView) Dragged(ev *fyne.DragEvent) {
	if v.pressed {
		v.routeMove(v.toCanvas(ev.Position))
	}
}

func (v *editorView) DragEnd() {}

func (v *editorView) routeMove(p image.Point) {
	if p == v.last {
		return
	}
	v.last = p
	v.w.ed.PointerMove(p, v.w.shiftHeld)
	v.Refresh()
}

func (v *editorView) Scrolled(ev *fyne.ScrollEvent) {
	if v.w.ed.Annotator().Scroll(ev.Scrolled.DY > 0) {
		v.Refresh()
	}
}

// draw composites one frame: the canvas raster, the dim outside the
// selection, the selection chrome, any uncommitted shape preview, and the
// pending text affordance.
func (v *editorView) draw(cw, ch int) image.Image {
	ed := v.w.ed
	base := ed.Canvas().Image
	frame := image.NewRGBA(image.Rect(0, 0, cw, ch))
	draw.Draw(frame, frame.Bounds(), base, base.Bounds().Min, draw.Src)

	dc := gg.NewContextForImage(frame)
	sel := ed.Selection()
	if r, ok := sel.Region(); ok {
		r = r.Sub(base.Bounds().Min)
		dimOutside(dc, frame.Bounds(), r)
		strokeRect(dc, r, color.NRGBA{R: 64, G: 140, B: 242, A: 255}, 2)
		if sel.HasRegion() {
			drawHandles(dc, r)
		}
	} else {
		dimOutside(dc, frame.Bounds(), image.Rectangle{})
	}

	if pv := ed.Annotator().Preview(); pv != nil {
		drawPreview(dc, pv, ed.Annotator().Style(), base.Bounds().Min)
	}

	out, ok := dc.Image().(*image.RGBA)
	if !ok {
		log.Printf("ui: editor frame buffer mismatch")
		return frame
	}
	ed.Annotator().RenderPending(out)
	return out
}

// dimOutside darkens everything except keep (pass an empty rectangle to
// dim the whole frame).
func dimOutside(dc *gg.Context, whole, keep image.Rectangle) {
	dc.SetRGBA(0, 0, 0, dimAlpha)
	fill := func(r image.Rectangle) {
		if r.Empty() {
			return
		}
		dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
		if err := dc.Fill(); err != nil {
			log.Printf("ui: dim: %v", err)
		}
	}
	if keep.Empty() {
		fill(whole)
		return
	}
	fill(image.Rect(whole.Min.X, whole.Min.Y, whole.Max.X, keep.Min.Y))         // above
	fill(image.Rect(whole.Min.X, keep.Max.Y, whole.Max.X, whole.Max.Y))         // below
	fill(image.Rect(whole.Min.X, keep.Min.Y, keep.Min.X, keep.Max.Y))           // left
	fill(image.Rect(keep.Max.X, keep.Min.Y, whole.Max.X, keep.Max.Y))           // right
}

func strokeRect(dc *gg.Context, r image.Rectangle, c color.Color, width float64) {
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	if err := dc.Stroke(); err != nil {
		log.Printf("ui: chrome stroke: %v", err)
	}
}

// drawPreview paints an uncommitted shape the same way its commit will
// look, so releasing the button changes nothing visually.
func drawPreview(dc *gg.Context, pv *annotate.Preview, st annotate.Style, offset image.Point) {
	switch pv.Tool {
	case annotate.ToolRect:
		r := pv.Rect.Sub(offset)
		dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
		dc.SetColor(color.NRGBA{R: st.Color.R, G: st.Color.G, B: st.Color.B, A: 50})
		if err := dc.FillPreserve(); err != nil {
			log.Printf("ui: preview fill: %v", err)
		}
		dc.SetColor(st.Color)
		dc.SetLineWidth(float64(st.Width))
		if err := dc.Stroke(); err != nil {
			log.Printf("ui: preview stroke: %v", err)
		}
	case annotate.ToolLine:
		from := pv.From.Sub(offset)
		to := pv.To.Sub(offset)
		dc.SetColor(st.Color)
		dc.SetLineWidth(float64(st.Width))
		dc.SetLineCap(gg.LineCapRound)
		dc.DrawLine(float64(from.X), float64(from.Y), float64(to.X), float64(to.Y))
		if err := dc.Stroke(); err != nil {
			log.Printf("ui: preview stroke: %v", err)
		}
	}
}

// drawHandles paints the eight resize handles on a frozen region.
func drawHandles(dc *gg.Context, r image.Rectangle) {
	const hs = float64(selection.HandleSize)
	midX := float64(r.Min.X+r.Max.X) / 2
	midY := float64(r.Min.Y+r.Max.Y) / 2
	points := [][2]float64{
		{float64(r.Min.X), float64(r.Min.Y)},
		{midX, float64(r.Min.Y)},
		{float64(r.Max.X), float64(r.Min.Y)},
		{float64(r.Min.X), midY},
		{float64(r.Max.X), midY},
		{float64(r.Min.X), float64(r.Max.Y)},
		{midX, float64(r.Max.Y)},
		{float64(r.Max.X), float64(r.Max.Y)},
	}
	for _, p := range points {
		dc.DrawRectangle(p[0]-hs/2, p[1]-hs/2, hs, hs)
		dc.SetRGBA(1, 1, 1, 1)
		if err := dc.FillPreserve(); err != nil {
			log.Printf("ui: handle fill: %v", err)
		}
		dc.SetRGBA(0.25, 0.55, 0.95, 1)
		dc.SetLineWidth(1)
		if err := dc.Stroke(); err != nil {
			log.Printf("ui: handle stroke: %v", err)
		}
	}
}
