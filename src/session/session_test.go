package session

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"shotpin/src/annotate"
	"shotpin/src/screenshot"
)

// fakeSource captures one 300x200 display filled with a solid color.
type fakeSource struct{}

func (fakeSource) Displays() []screenshot.Display {
	return []screenshot.Display{{Bounds: image.Rect(0, 0, 300, 200), Scale: 1.0}}
}

func (fakeSource) Grab(d screenshot.Display) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, d.Bounds.Dx(), d.Bounds.Dy()))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img, nil
}

type recordingPresenter struct {
	hints []string
}

func (p *recordingPresenter) ShowEditor(*Editor) {}

func (p *recordingPresenter) CloseEditor(*Editor) {}

func (p *recordingPresenter) ShowOverlay(*PinnedOverlay) {}

func (p *recordingPresenter) CloseOverlay(*PinnedOverlay) {}

func (p *recordingPresenter) Hint(s string) { p.hints = append(p.hints, s) }

type countingExporter struct {
	copies int
	saves  int
}

func (x *countingExporter) CopyImage(*image.RGBA) error { x.copies++; return nil }
func (x *countingExporter) SaveImage(*image.RGBA) (string, error) {
	x.saves++
	return "out.png", nil
}

func newTestController() (*Controller, *recordingPresenter, *countingExporter) {
	p := &recordingPresenter{}
	x := &countingExporter{}
	return New(Options{Source: fakeSource{}, Presenter: p, Exporter: x}), p, x
}

// selectRegion drag-selects r on the active editor.
func selectRegion(t *testing.T, e *Editor, r image.Rectangle) {
	t.Helper()
	e.PointerDown(r.Min)
	e.PointerMove(r.Max, false)
	e.PointerUp(r.Max)
	got, ok := e.Selection().Region()
	if !ok || got != r {
		t.Fatalf("Selection not frozen at %v: got %v ok=%v", r, got, ok)
	}
}

// penStroke draws one committed stroke between two points.
func penStroke(e *Editor, from, to image.Point) {
	e.Annotator().SetTool(annotate.ToolPen)
	e.PointerDown(from)
	e.PointerMove(to, false)
	e.PointerUp(to)
	e.Annotator().SetTool(annotate.ToolPen) // back to none
}

func TestSecondCaptureIsNoOp(t *testing.T) {
	c, _, _ := newTestController()
	if err := c.Capture(); err != nil {
		t.Fatalf("First capture failed: %v", err)
	}
	first := c.Editor()
	if err := c.Capture(); !errors.Is(err, ErrEditorOpen) {
		t.Errorf("Expected ErrEditorOpen, got %v", err)
	}
	if c.Editor() != first {
		t.Error("Second capture replaced the active editor")
	}
}

func TestSelectionCommitsBaselineAndGalleryEntry(t *testing.T) {
	c, _, _ := newTestController()
	c.Capture()
	e := c.Editor()
	selectRegion(t, e, image.Rect(10, 10, 110, 60))

	if e.History().Len() != 1 {
		t.Errorf("Expected baseline snapshot, history len %d", e.History().Len())
	}
	if c.Gallery().Len() != 1 {
		t.Errorf("Expected one gallery entry, got %d", c.Gallery().Len())
	}
	if c.Gallery().At(0).Region != image.Rect(10, 10, 110, 60) {
		t.Errorf("Gallery entry region = %v", c.Gallery().At(0).Region)
	}
}

func TestTinySelectionLeavesNoTrace(t *testing.T) {
	c, _, _ := newTestController()
	c.Capture()
	e := c.Editor()
	e.PointerDown(image.Pt(20, 20))
	e.PointerMove(image.Pt(23, 23), false)
	e.PointerUp(image.Pt(23, 23))

	if _, ok := e.Selection().Region(); ok {
		t.Error("Tiny selection should be discarded")
	}
	if e.History().Len() != 0 {
		t.Errorf("Tiny selection must not snapshot, history len %d", e.History().Len())
	}
	if c.Gallery().Len() != 0 {
		t.Errorf("Tiny selection must not join the gallery, len %d", c.Gallery().Len())
	}
}

func TestUndoRestoresPreStrokePixels(t *testing.T) {
	c, _, _ := newTestController()
	c.Capture()
	e := c.Editor()
	region := image.Rect(10, 10, 110, 60)
	selectRegion(t, e, region)

	baseline := e.Canvas().Crop(region)
	penStroke(e, image.Pt(50, 30), image.Pt(80, 30))
	if e.History().Len() != 2 || e.History().Index() != 1 {
		t.Fatalf("Expected len 2 index 1 after stroke, got len %d index %d",
			e.History().Len(), e.History().Index())
	}
	if bytes.Equal(baseline.Pix, e.Canvas().Crop(region).Pix) {
		t.Fatal("Stroke did not change the region")
	}

	e.Undo()
	if e.History().Index() != 0 {
		t.Errorf("Expected index 0 after undo, got %d", e.History().Index())
	}
	if !bytes.Equal(baseline.Pix, e.Canvas().Crop(region).Pix) {
		t.Error("Undo did not restore pre-stroke pixels")
	}

	e.Redo()
	if e.History().Index() != 1 {
		t.Errorf("Expected index 1 after redo, got %d", e.History().Index())
	}
	if bytes.Equal(baseline.Pix, e.Canvas().Crop(region).Pix) {
		t.Error("Redo did not restore the stroke")
	}
}

func TestPinTransfersHistory(t *testing.T) {
	c, _, _ := newTestController()
	c.Capture()
	e := c.Editor()
	selectRegion(t, e, image.Rect(40, 20, 240, 170)) // 200x150
	penStroke(e, image.Pt(60, 60), image.Pt(120, 60))
	penStroke(e, image.Pt(60, 90), image.Pt(120, 90))
	if e.History().Len() != 3 {
		t.Fatalf("Expected 3 snapshots before pin, got %d", e.History().Len())
	}
	index := e.History().Index()

	ov, err := c.Pin(e)
	if err != nil {
		t.Fatalf("Pin failed: %v", err)
	}
	if e.History().Len() != 0 {
		t.Errorf("Editor history not emptied by pin: len %d", e.History().Len())
	}
	if ov.History().Len() != 3 || ov.History().Index() != index {
		t.Errorf("Overlay history len %d index %d, want 3/%d",
			ov.History().Len(), ov.History().Index(), index)
	}
	if c.Editor() != nil {
		t.Error("Editor should close on pin")
	}
	if len(c.Overlays()) != 1 || c.Overlays()[0] != ov {
		t.Errorf("Overlay not registered: %v", c.Overlays())
	}
	if got := ov.Canvas().Bounds().Size(); got != image.Pt(200, 150) {
		t.Errorf("Overlay canvas size %v, want 200x150", got)
	}
}

func TestPinWithoutRegionIsNoOp(t *testing.T) {
	c, _, _ := newTestController()
	c.Capture()
	e := c.Editor()
	if _, err := c.Pin(e); !errors.Is(err, ErrNoRegion) {
		t.Errorf("Expected ErrNoRegion, got %v", err)
	}
	if c.Editor() != e || len(c.Overlays()) != 0 {
		t.Error("Failed pin must leave session state unchanged")
	}
}

func TestReopenIsInverseOfPin(t *testing.T) {
	c, _, _ := newTestController()
	c.Capture()
	selectRegion(t, c.Editor(), image.Rect(40, 20, 240, 170))
	penStroke(c.Editor(), image.Pt(60, 60), image.Pt(120, 60))
	ov, _ := c.Pin(c.Editor())
	ov.Undo()
	index := ov.History().Index()

	e, err := c.Reopen(ov)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	if c.Editor() != e || len(c.Overlays()) != 0 {
		t.Error("Reopen should close the overlay and activate the editor")
	}
	if ov.History().Len() != 0 {
		t.Errorf("Overlay history not emptied by reopen: len %d", ov.History().Len())
	}
	if e.History().Len() != 2 || e.History().Index() != index {
		t.Errorf("Editor history len %d index %d, want 2/%d",
			e.History().Len(), e.History().Index(), index)
	}
	r, ok := e.Selection().Region()
	if !ok || r != e.Canvas().Bounds() {
		t.Errorf("Reopened editor region %v ok=%v, want full canvas", r, ok)
	}
}

func TestGalleryNavigation(t *testing.T) {
	c, p, _ := newTestController()
	c.Capture()
	selectRegion(t, c.Editor(), image.Rect(10, 10, 110, 60))
	c.CloseEditor(c.Editor())
	c.Capture()
	e := c.Editor()
	selectRegion(t, e, image.Rect(50, 50, 150, 150))
	penStroke(e, image.Pt(70, 70), image.Pt(120, 70))

	if !e.NavigatePrev() {
		t.Fatal("NavigatePrev from the second entry should succeed")
	}
	if e.History().Len() != 1 {
		t.Errorf("Navigation should reset history to one snapshot, len %d", e.History().Len())
	}
	r, _ := e.Selection().Region()
	if r != image.Rect(10, 10, 110, 60) {
		t.Errorf("Expected the first entry's region, got %v", r)
	}

	canvas := e.Canvas()
	if e.NavigatePrev() {
		t.Error("NavigatePrev at the first entry should be a no-op")
	}
	if len(p.hints) == 0 {
		t.Error("Boundary navigation should surface a hint")
	}
	if e.Canvas() != canvas || e.History().Len() != 1 {
		t.Error("Boundary navigation changed editor state")
	}

	if !e.NavigateNext() {
		t.Error("NavigateNext back to the second entry should succeed")
	}
}

func TestExportRequiresRegion(t *testing.T) {
	c, _, x := newTestController()
	c.Capture()
	e := c.Editor()
	if err := e.Copy(); !errors.Is(err, ErrNoRegion) {
		t.Errorf("Copy without region: %v", err)
	}
	if _, err := e.Save(); !errors.Is(err, ErrNoRegion) {
		t.Errorf("Save without region: %v", err)
	}
	if x.copies != 0 || x.saves != 0 {
		t.Error("Exporter must not run without a region")
	}

	selectRegion(t, e, image.Rect(10, 10, 110, 60))
	if err := e.Copy(); err != nil {
		t.Errorf("Copy failed: %v", err)
	}
	if path, err := e.Save(); err != nil || path != "out.png" {
		t.Errorf("Save = %q, %v", path, err)
	}
	if x.copies != 1 || x.saves != 1 {
		t.Errorf("Exporter calls: copies=%d saves=%d", x.copies, x.saves)
	}
}

func TestEscapeLayering(t *testing.T) {
	c, _, _ := newTestController()
	c.Capture()
	e := c.Editor()
	selectRegion(t, e, image.Rect(10, 10, 110, 60))

	e.Annotator().SetTool(annotate.ToolText)
	e.PointerDown(image.Pt(40, 40))
	if e.Escape() {
		t.Error("Escape with pending text should only cancel the entry")
	}
	if e.Annotator().PendingText() != nil {
		t.Error("Pending text not cancelled")
	}
	if e.Escape() {
		t.Error("Escape with an active tool should only deactivate it")
	}
	if e.Annotator().Active() {
		t.Error("Tool still active after escape")
	}
	if !e.Escape() {
		t.Error("Escape with nothing pending should close the editor")
	}
}

func TestOverlayOpacitySteps(t *testing.T) {
	c, _, _ := newTestController()
	c.Capture()
	selectRegion(t, c.Editor(), image.Rect(10, 10, 110, 60))
	ov, err := c.Pin(c.Editor())
	if err != nil {
		t.Fatalf("Pin failed: %v", err)
	}

	if got := ov.AdjustOpacity(false); got != 0.95 {
		t.Errorf("One step down from 1.0 = %v, want 0.95", got)
	}
	for i := 0; i < 50; i++ {
		ov.AdjustOpacity(false)
	}
	if ov.Opacity() != MinOpacity {
		t.Errorf("Opacity floor = %v, want %v", ov.Opacity(), MinOpacity)
	}
	for i := 0; i < 50; i++ {
		ov.AdjustOpacity(true)
	}
	if ov.Opacity() != MaxOpacity {
		t.Errorf("Opacity cap = %v, want %v", ov.Opacity(), MaxOpacity)
	}
}

func TestOverlayAnnotateUndo(t *testing.T) {
	c, _, _ := newTestController()
	c.Capture()
	selectRegion(t, c.Editor(), image.Rect(10, 10, 110, 60))
	ov, _ := c.Pin(c.Editor())

	before := append([]byte(nil), ov.Canvas().Image.Pix...)
	ov.Annotator().SetTool(annotate.ToolPen)
	ov.PointerDown(image.Pt(20, 20))
	ov.PointerMove(image.Pt(60, 20))
	ov.PointerUp(image.Pt(60, 20))
	if ov.History().Len() != 2 {
		t.Fatalf("Expected 2 snapshots after overlay stroke, got %d", ov.History().Len())
	}
	if bytes.Equal(before, ov.Canvas().Image.Pix) {
		t.Fatal("Overlay stroke did not draw")
	}

	ov.Undo()
	if !bytes.Equal(before, ov.Canvas().Image.Pix) {
		t.Error("Overlay undo did not restore the working buffer")
	}
}

func TestOverlayResizeKeepsCommittedAnnotations(t *testing.T) {
	c, _, _ := newTestController()
	c.Capture()
	selectRegion(t, c.Editor(), image.Rect(10, 10, 110, 60))
	ov, _ := c.Pin(c.Editor())

	ov.Annotator().SetTool(annotate.ToolPen)
	ov.PointerDown(image.Pt(20, 25))
	ov.PointerMove(image.Pt(80, 25))
	ov.PointerUp(image.Pt(80, 25))

	// A resize round trip rescales from the committed raster, so the
	// stroke must survive it.
	ov.Resize(120, 72)
	ov.Resize(100, 50)
	white := color.RGBA{255, 255, 255, 255}
	if px := ov.Canvas().Image.RGBAAt(50, 25); px == white {
		t.Error("Resize reverted the committed stroke")
	}

	// After an undo the rescale source must be the undone state, not the
	// stroke.
	ov.Undo()
	ov.Resize(120, 72)
	if px := ov.Canvas().Image.RGBAAt(60, 36); px != white {
		t.Errorf("Resize resurrected the undone stroke: %v", px)
	}
}

func TestOverlayResizeFromOriginal(t *testing.T) {
	c, _, _ := newTestController()
	c.Capture()
	selectRegion(t, c.Editor(), image.Rect(10, 10, 110, 60))
	ov, _ := c.Pin(c.Editor())

	ov.Resize(200, 100)
	if got := ov.Canvas().Bounds().Size(); got != image.Pt(200, 100) {
		t.Errorf("Resized canvas %v, want 200x100", got)
	}
	// Solid source stays solid through the bilinear rescale.
	if px := ov.Canvas().Image.RGBAAt(100, 50); px != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Rescaled pixel = %v", px)
	}
}
