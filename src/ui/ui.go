// Package ui adapts fyne windows and input events to the session
// controller and its engines. It deliberately holds no model state of its
// own beyond display-only hint timers; every decision lives in the
// session, selection, and annotate packages.
package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"shotpin/src/annotate"
	"shotpin/src/session"
)

// UI owns the fyne application. It implements both the event loop's App
// surface and the session presenter.
type UI struct {
	fyneApp fyne.App
	ctrl    *session.Controller
	hotkey  string

	style *annotate.Style

	editorWin   *editorWindow
	overlayWins map[*session.PinnedOverlay]*overlayWindow
	overlaySeq  int
	aboutWin    fyne.Window
}

func New() *UI {
	return &UI{
		fyneApp:     app.NewWithID("io.shotpin.app"),
		overlayWins: make(map[*session.PinnedOverlay]*overlayWindow),
	}
}

// SetController wires the session controller. Must run before any event
// reaches the UI.
func (u *UI) SetController(c *session.Controller) { u.ctrl = c }

// SetHotkey records the capture hotkey for the About window.
func (u *UI) SetHotkey(combo string) { u.hotkey = combo }

// SetStyle seeds the configured annotation defaults onto every new
// editor and overlay.
func (u *UI) SetStyle(st annotate.Style) { u.style = &st }

// rememberStyle persists a runtime style change (color cycle, pen width
// step, font scroll) so later editors and overlays inherit it.
func (u *UI) rememberStyle(st annotate.Style) { u.style = &st }

func (u *UI) applyStyle(ann *annotate.Engine) {
	if u.style == nil {
		return
	}
	ann.SetColor(u.style.Color)
	ann.SetPenWidth(u.style.Width)
	ann.SetFontSize(u.style.FontSize)
}

// Run enters the fyne main loop and blocks until Quit.
func (u *UI) Run() { u.fyneApp.Run() }

// TriggerCapture runs a capture on the UI thread. Called from the event
// loop goroutine.
func (u *UI) TriggerCapture() {
	fyne.Do(func() {
		if err := u.ctrl.Capture(); err != nil {
			log.Printf("ui: capture: %v", err)
		}
	})
}

// ShowAbout raises the About window on the UI thread.
func (u *UI) ShowAbout() {
	fyne.Do(u.showAbout)
}

// Quit tears down the fyne application.
func (u *UI) Quit() {
	fyne.Do(u.fyneApp.Quit)
}

// The presenter methods below always arrive on the fyne thread: the
// controller only runs inside fyne.Do blocks or window event handlers.

func (u *UI) ShowEditor(e *session.Editor) {
	u.applyStyle(e.Annotator())
	u.editorWin = newEditorWindow(u, e)
	u.editorWin.show()
}

func (u *UI) CloseEditor(e *session.Editor) {
	if u.editorWin == nil || u.editorWin.ed != e {
		return
	}
	w := u.editorWin
	u.editorWin = nil
	w.close()
}

func (u *UI) ShowOverlay(ov *session.PinnedOverlay) {
	u.overlaySeq++
	u.applyStyle(ov.Annotator())
	w := newOverlayWindow(u, ov, u.overlaySeq)
	u.overlayWins[ov] = w
	w.show()
}

func (u *UI) CloseOverlay(ov *session.PinnedOverlay) {
	w, ok := u.overlayWins[ov]
	if !ok {
		return
	}
	delete(u.overlayWins, ov)
	w.close()
}

// Hint surfaces a transient message on the editor window.
func (u *UI) Hint(msg string) {
	if u.editorWin != nil {
		u.editorWin.hint.show(msg)
	}
}
