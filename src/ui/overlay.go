package ui

import (
	"fmt"
	"image"
	"log"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"shotpin/src/annotate"
	"shotpin/src/session"
)

// overlayWindow floats one pinned capture. Scroll adjusts opacity (or the
// font size while a text entry is pending), dragging with no tool active
// moves the window, double-click closes, Space reopens the editor.
type overlayWindow struct {
	ui    *UI
	ov    *session.PinnedOverlay
	win   fyne.Window
	title string

	view *overlayView
	hint *hintLabel

	ctrlHeld bool
}

func newOverlayWindow(u *UI, ov *session.PinnedOverlay, seq int) *overlayWindow {
	w := &overlayWindow{ui: u, ov: ov, title: fmt.Sprintf("ShotPin Pin %d", seq)}
	w.win = u.fyneApp.NewWindow(w.title)
	w.win.SetPadded(false)
	w.hint = newHintLabel()
	w.view = newOverlayView(w)
	w.win.SetContent(container.NewStack(w.view, container.NewCenter(w.hint.text)))

	size := ov.Canvas().Bounds().Size()
	w.win.Resize(fyne.NewSize(float32(size.X), float32(size.Y)))
	w.win.SetCloseIntercept(func() { w.ui.ctrl.CloseOverlay(w.ov) })
	w.installKeys()
	return w
}

func (w *overlayWindow) show() {
	w.win.Show()
	// The native handle only exists once the window is mapped; the alpha
	// and z-order calls are display-only and may race a slow compositor.
	go func() {
		time.Sleep(150 * time.Millisecond)
		fyne.Do(func() {
			keepWindowOnTop(w.title)
			applyWindowTransparency(w.title, w.ov.Opacity())
		})
	}()
}

func (w *overlayWindow) close() { w.win.Close() }

func (w *overlayWindow) refresh() { w.view.Refresh() }

func (w *overlayWindow) installKeys() {
	if dc, ok := w.win.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(w.keyDown)
		dc.SetOnKeyUp(w.keyUp)
	}
	w.win.Canvas().SetOnTypedRune(w.typedRune)
}

func (w *overlayWindow) keyDown(ev *fyne.KeyEvent) {
	switch ev.Name {
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		w.ctrlHeld = true
		return
	}

	ann := w.ov.Annotator()
	if entry := ann.PendingText(); entry != nil {
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
		case fyne.KeyEscape:
			ann.CancelText()
			w.refresh()
		}
		return
	}

	switch ev.Name {
	case fyne.KeyEscape:
		if ann.Active() {
			ann.SetTool(ann.Tool())
			w.refresh()
			return
		}
		w.ui.ctrl.CloseOverlay(w.ov)
	case fyne.KeySpace:
		if _, err := w.ui.ctrl.Reopen(w.ov); err != nil {
			log.Printf("ui: reopen: %v", err)
		}
	case fyne.KeyZ:
		if w.ctrlHeld {
			w.ov.Undo()
			w.refresh()
		}
	case fyne.KeyY:
		if w.ctrlHeld {
			w.ov.Redo()
			w.refresh()
		}
	case fyne.Key1:
		ann.SetTool(annotate.ToolPen)
	case fyne.Key2:
		ann.SetTool(annotate.ToolRect)
	case fyne.Key3:
		ann.SetTool(annotate.ToolLine)
	case fyne.Key4:
		ann.SetTool(annotate.ToolText)
	case fyne.KeyC:
		if !w.ctrlHeld {
			w.hint.show(cyclePenColor(ann))
			w.ui.rememberStyle(ann.Style())
		}
	case fyne.KeyLeftBracket:
		w.hint.show(stepPenWidth(ann, -1))
		w.ui.rememberStyle(ann.Style())
	case fyne.KeyRightBracket:
		w.hint.show(stepPenWidth(ann, 1))
		w.ui.rememberStyle(ann.Style())
	}
}

func (w *overlayWindow) keyUp(ev *fyne.KeyEvent) {
	switch ev.Name {
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		w.ctrlHeld = false
	}
}

func (w *overlayWindow) typedRune(r rune) {
	ann := w.ov.Annotator()
	if entry := ann.PendingText(); entry != nil {
		ann.SetEntryText(entry.Text + string(r))
		w.refresh()
	}
}

// overlayView paints the working buffer and routes pointer events. The
// raster draw doubles as the resize hook: the buffer rescales from the
// pinned original whenever the window pixel size changes.
type overlayView struct {
	widget.BaseWidget
	w      *overlayWindow
	raster *fynecanvas.Raster

	pressed bool
	last    image.Point
}

func newOverlayView(w *overlayWindow) *overlayView {
	v := &overlayView{w: w}
	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.ExtendBaseWidget(v)
	return v
}

func (v *overlayView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

func (v *overlayView) Refresh() {
	v.raster.Refresh()
}

func (v *overlayView) draw(cw, ch int) image.Image {
	v.w.ov.Resize(cw, ch)
	frame := v.w.ov.Canvas().Image
	if pending := v.w.ov.Annotator().PendingText(); pending != nil {
		out := image.NewRGBA(frame.Bounds())
		copy(out.Pix, frame.Pix)
		v.w.ov.Annotator().RenderPending(out)
		return out
	}
	return frame
}

func (v *overlayView) toCanvas(pos fyne.Position) image.Point {
	scale := float32(1)
	if c := v.w.win.Canvas(); c != nil && c.Scale() > 0 {
		scale = c.Scale()
	}
	return image.Pt(int(pos.X*scale), int(pos.Y*scale))
}

func (v *overlayView) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	v.pressed = true
	if v.w.ov.Annotator().Active() {
		p := v.toCanvas(ev.Position)
		v.last = p
		v.w.ov.PointerDown(p)
		v.Refresh()
	}
}

func (v *overlayView) MouseUp(ev *desktop.MouseEvent) {
	if !v.pressed {
		return
	}
	v.pressed = false
	if v.w.ov.Annotator().Active() {
		v.w.ov.PointerUp(v.toCanvas(ev.Position))
		v.Refresh()
	}
}

func (v *overlayView) MouseIn(*desktop.MouseEvent) {}

func (v *overlayView) MouseOut() {}

func (v *overlayView) MouseMoved(ev *desktop.MouseEvent) {
	if !v.pressed || !v.w.ov.Annotator().Active() {
		return
	}
	p := v.toCanvas(ev.Position)
	if p == v.last {
		return
	}
	v.last = p
	v.w.ov.PointerMove(p)
	v.Refresh()
}

// Dragged annotates when a tool is active and moves the window otherwise.
func (v *overlayView) Dragged(ev *fyne.DragEvent) {
	if v.w.ov.Annotator().Active() {
		if !v.pressed {
			return
		}
		p := v.toCanvas(ev.Position)
		if p == v.last {
			return
		}
		v.last = p
		v.w.ov.PointerMove(p)
		v.Refresh()
		return
	}
	moveWindowBy(v.w.title, int(ev.Dragged.DX), int(ev.Dragged.DY))
}

func (v *overlayView) DragEnd() {}

func (v *overlayView) Scrolled(ev *fyne.ScrollEvent) {
	before := v.w.ov.Opacity()
	v.w.ov.Scroll(ev.Scrolled.DY > 0)
	if after := v.w.ov.Opacity(); after != before {
		applyWindowTransparency(v.w.title, after)
		v.w.hint.show(fmt.Sprintf("Opacity %d%%", int(after*100+0.5)))
	}
	v.Refresh()
}

func (v *overlayView) DoubleTapped(*fyne.PointEvent) {
	v.w.ui.ctrl.CloseOverlay(v.w.ov)
}

func (v *overlayView) Tapped(*fyne.PointEvent) {}
