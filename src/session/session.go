// Package session orchestrates capture lifecycles: at most one full-screen
// editor, any number of pinned overlays, and the bounded gallery of prior
// captures. It holds direct references to the geometry and annotation
// engines and hands the canvas between editor and overlay through explicit
// ownership transfer.
package session

import (
	"errors"
	"image"
	"log"

	"shotpin/src/history"
	"shotpin/src/screenshot"
	"shotpin/src/selection"
)

var (
	// ErrEditorOpen rejects a capture while an editor is already active.
	ErrEditorOpen = errors.New("editor already open")
	// ErrNoRegion rejects pin/export when no usable region exists.
	ErrNoRegion = errors.New("no selection region")
)

// Presenter is the windowing side of the controller: it shows and tears
// down editor and overlay windows and surfaces transient hints. All calls
// arrive on the event-dispatch goroutine.
type Presenter interface {
	ShowEditor(*Editor)
	CloseEditor(*Editor)
	ShowOverlay(*PinnedOverlay)
	CloseOverlay(*PinnedOverlay)
	Hint(string)
}

// Exporter writes a region crop to the clipboard or to disk.
type Exporter interface {
	CopyImage(*image.RGBA) error
	SaveImage(*image.RGBA) (string, error)
}

// Options configures a Controller. Zero fields fall back to defaults; a nil
// Presenter or Exporter becomes a no-op, which the tests rely on.
type Options struct {
	Source       screenshot.Source
	Presenter    Presenter
	Exporter     Exporter
	MaxHistory   int
	MaxGallery   int
	MinSelection int
}

// Controller owns the session state machine.
type Controller struct {
	source       screenshot.Source
	presenter    Presenter
	exporter     Exporter
	maxHistory   int
	minSelection int

	gallery  *Gallery
	editor   *Editor
	overlays []*PinnedOverlay
}

func New(opts Options) *Controller {
	if opts.Source == nil {
		opts.Source = screenshot.SystemSource{}
	}
	if opts.Presenter == nil {
		opts.Presenter = nopPresenter{}
	}
	if opts.Exporter == nil {
		opts.Exporter = nopExporter{}
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = history.DefaultMax
	}
	if opts.MaxGallery <= 0 {
		opts.MaxGallery = DefaultMaxGallery
	}
	if opts.MinSelection <= 0 {
		opts.MinSelection = selection.MinSize
	}
	return &Controller{
		source:       opts.Source,
		presenter:    opts.Presenter,
		exporter:     opts.Exporter,
		maxHistory:   opts.MaxHistory,
		minSelection: opts.MinSelection,
		gallery:      NewGallery(opts.MaxGallery),
	}
}

// Editor returns the active editor, if any.
func (c *Controller) Editor() *Editor { return c.editor }

// Overlays returns the live pinned overlays.
func (c *Controller) Overlays() []*PinnedOverlay { return c.overlays }

// Gallery returns the capture gallery.
func (c *Controller) Gallery() *Gallery { return c.gallery }

// Capture grabs the desktop and opens the editor over it. A capture request
// while an editor is already open is a logged no-op.
func (c *Controller) Capture() error {
	if c.editor != nil {
		log.Printf("session: capture ignored, editor already open")
		return ErrEditorOpen
	}
	canvas, err := screenshot.Capture(c.source)
	if err != nil {
		return err
	}
	c.editor = newEditor(c, canvas)
	c.presenter.ShowEditor(c.editor)
	return nil
}

// CloseEditor tears down the active editor. Its canvas and any remaining
// history die with it; pinned overlays are unaffected.
func (c *Controller) CloseEditor(e *Editor) {
	if e == nil || e != c.editor {
		return
	}
	c.editor = nil
	e.hist.Clear()
	c.presenter.CloseEditor(e)
}

// Pin promotes the editor's region crop to a floating overlay. The editor's
// history moves to the overlay (the editor keeps none) and the editor
// closes. Without a usable region this is a logged no-op.
func (c *Controller) Pin(e *Editor) (*PinnedOverlay, error) {
	if e == nil || e != c.editor {
		return nil, ErrNoRegion
	}
	e.ann.FinalizeText()
	r, ok := e.usableRegion()
	if !ok {
		log.Printf("session: pin ignored, no usable region")
		return nil, ErrNoRegion
	}
	ov := newPinnedOverlay(c, e.canvas.Crop(r), e.canvas.Scale, r, e.hist.Move())
	c.overlays = append(c.overlays, ov)
	c.editor = nil
	c.presenter.CloseEditor(e)
	c.presenter.ShowOverlay(ov)
	return ov, nil
}

// Reopen is the inverse of Pin: the overlay's working raster, region, and
// history (cursor preserved) seed a fresh editor and the overlay closes.
// With an editor already open it is a logged no-op.
func (c *Controller) Reopen(ov *PinnedOverlay) (*Editor, error) {
	if c.editor != nil {
		log.Printf("session: reopen ignored, editor already open")
		return nil, ErrEditorOpen
	}
	if !c.removeOverlay(ov) {
		return nil, ErrNoRegion
	}
	c.editor = reopenedEditor(c, ov.working, ov.hist.Move())
	c.presenter.CloseOverlay(ov)
	c.presenter.ShowEditor(c.editor)
	return c.editor, nil
}

// CloseOverlay discards a pinned overlay along with its canvas and history.
func (c *Controller) CloseOverlay(ov *PinnedOverlay) {
	if !c.removeOverlay(ov) {
		return
	}
	ov.hist.Clear()
	c.presenter.CloseOverlay(ov)
}

func (c *Controller) removeOverlay(ov *PinnedOverlay) bool {
	for i, o := range c.overlays {
		if o == ov {
			c.overlays = append(c.overlays[:i], c.overlays[i+1:]...)
			return true
		}
	}
	return false
}

// restore paints a snapshot back onto a canvas: a whole-buffer snapshot
// replaces the content, a region crop lands at its stored coordinates.
func restore(c *screenshot.Canvas, snap history.Snapshot) {
	if snap.Image.Bounds().Size() == c.Bounds().Size() {
		c.Paste(snap.Image, c.Bounds().Min)
		return
	}
	c.Paste(snap.Image, snap.Region.Min)
}

type nopPresenter struct{}

func (nopPresenter) ShowEditor(*Editor) {}

func (nopPresenter) CloseEditor(*Editor) {}

func (nopPresenter) ShowOverlay(*PinnedOverlay) {}

func (nopPresenter) CloseOverlay(*PinnedOverlay) {}

func (nopPresenter) Hint(string) {}

type nopExporter struct{}

func (nopExporter) CopyImage(*image.RGBA) error           { return nil }
func (nopExporter) SaveImage(*image.RGBA) (string, error) { return "", nil }
