package selection

import (
	"image"
	"testing"
)

func selected(t *testing.T, bounds, region image.Rectangle) *Engine {
	t.Helper()
	e := NewEngine(bounds)
	e.PointerDown(region.Min)
	e.PointerMove(region.Max, false)
	if e.PointerUp(region.Max) {
		t.Fatalf("Selection %v unexpectedly discarded", region)
	}
	return e
}

func TestSelectFreeze(t *testing.T) {
	e := selected(t, image.Rect(0, 0, 500, 400), image.Rect(10, 10, 110, 60))
	if e.State() != Selected {
		t.Errorf("Expected Selected state, got %v", e.State())
	}
	r, ok := e.Region()
	if !ok || r != image.Rect(10, 10, 110, 60) {
		t.Errorf("Expected frozen region (10,10)-(110,60), got %v ok=%v", r, ok)
	}
	if e.Aspect() != 2.0 {
		t.Errorf("Expected aspect 2.0, got %v", e.Aspect())
	}
}

func TestSelectReverseCornersNormalized(t *testing.T) {
	e := NewEngine(image.Rect(0, 0, 500, 400))
	e.PointerDown(image.Pt(110, 60))
	e.PointerMove(image.Pt(10, 10), false)
	e.PointerUp(image.Pt(10, 10))
	r, ok := e.Region()
	if !ok || r != image.Rect(10, 10, 110, 60) {
		t.Errorf("Expected normalized region, got %v ok=%v", r, ok)
	}
}

func TestTinySelectionDiscarded(t *testing.T) {
	e := NewEngine(image.Rect(0, 0, 500, 400))
	e.PointerDown(image.Pt(20, 20))
	e.PointerMove(image.Pt(23, 23), false)
	if !e.PointerUp(image.Pt(23, 23)) {
		t.Error("Expected 3x3 selection to be discarded")
	}
	if e.State() != Idle {
		t.Errorf("Expected Idle after discard, got %v", e.State())
	}
	if _, ok := e.Region(); ok {
		t.Error("Expected no region after discard")
	}
}

func TestHitTestCornersBeforeEdges(t *testing.T) {
	e := selected(t, image.Rect(0, 0, 500, 400), image.Rect(100, 100, 200, 180))

	cases := []struct {
		p    image.Point
		want Edge
	}{
		{image.Pt(100, 100), EdgeTopLeft},
		{image.Pt(205, 98), EdgeTopRight},
		{image.Pt(97, 183), EdgeBottomLeft},
		{image.Pt(200, 180), EdgeBottomRight},
		{image.Pt(150, 100), EdgeTop},
		{image.Pt(150, 181), EdgeBottom},
		{image.Pt(99, 140), EdgeLeft},
		{image.Pt(203, 140), EdgeRight},
		{image.Pt(150, 140), EdgeNone},    // interior
		{image.Pt(300, 300), EdgeNone},    // outside
		{image.Pt(104, 106), EdgeTopLeft}, // corner overlap wins
	}
	for _, c := range cases {
		if got := e.HitTest(c.p); got != c.want {
			t.Errorf("HitTest(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestResizeClampMinSize(t *testing.T) {
	edges := []struct {
		grab image.Point
		drag image.Point
	}{
		{image.Pt(100, 140), image.Pt(400, 140)},  // left edge dragged past right
		{image.Pt(200, 140), image.Pt(-50, 140)},  // right edge dragged past left
		{image.Pt(150, 100), image.Pt(150, 999)},  // top past bottom, off canvas
		{image.Pt(150, 180), image.Pt(150, -999)}, // bottom past top, off canvas
	}
	for _, c := range edges {
		e := selected(t, image.Rect(0, 0, 500, 400), image.Rect(100, 100, 200, 180))
		e.PointerDown(c.grab)
		if e.State() != Resizing {
			t.Fatalf("Expected Resizing after grab at %v, got %v", c.grab, e.State())
		}
		e.PointerMove(c.drag, false)
		e.PointerUp(c.drag)
		r, _ := e.Region()
		if r.Dx() < MinSize || r.Dy() < MinSize {
			t.Errorf("Resize via %v produced undersized region %v", c.grab, r)
		}
	}
}

func TestResizeRightEdge(t *testing.T) {
	e := selected(t, image.Rect(0, 0, 500, 400), image.Rect(100, 100, 200, 180))
	e.PointerDown(image.Pt(200, 140))
	e.PointerMove(image.Pt(300, 140), false)
	e.PointerUp(image.Pt(300, 140))
	r, _ := e.Region()
	if r != image.Rect(100, 100, 300, 180) {
		t.Errorf("Expected region widened to x=300, got %v", r)
	}
}

func TestResizeAspectLock(t *testing.T) {
	// 100x50 region, aspect 2.0. Dragging the right edge to width 200 with
	// the lock held must derive height 100.
	e := selected(t, image.Rect(0, 0, 500, 400), image.Rect(100, 100, 200, 150))
	e.PointerDown(image.Pt(200, 125))
	e.PointerMove(image.Pt(300, 125), true)
	e.PointerUp(image.Pt(300, 125))
	r, _ := e.Region()
	if r.Dx() != 200 || r.Dy() != 100 {
		t.Errorf("Expected 200x100 after aspect-locked resize, got %dx%d", r.Dx(), r.Dy())
	}
}

func TestResizeAspectLockClampedToBounds(t *testing.T) {
	// 100x50 region near the bottom edge, aspect 2.0. Dragging the right
	// edge far out wants height 150 but only 60 rows remain below, so the
	// height clamps to 60 and the width shrinks to 120 to keep the ratio.
	e := selected(t, image.Rect(0, 0, 500, 400), image.Rect(100, 340, 200, 390))
	e.PointerDown(image.Pt(200, 365))
	e.PointerMove(image.Pt(400, 365), true)
	e.PointerUp(image.Pt(400, 365))
	r, _ := e.Region()
	if !r.In(image.Rect(0, 0, 500, 400)) {
		t.Errorf("Aspect-locked resize escaped canvas: %v", r)
	}
	if r != image.Rect(100, 340, 220, 400) {
		t.Errorf("Expected clamped region (100,340)-(220,400), got %v", r)
	}

	// Same near the right edge with the bottom handle: the derived width
	// clamps to the 100 columns remaining and the height follows.
	e = selected(t, image.Rect(0, 0, 500, 400), image.Rect(400, 100, 480, 140))
	e.PointerDown(image.Pt(440, 140))
	e.PointerMove(image.Pt(440, 300), true)
	e.PointerUp(image.Pt(440, 300))
	r, _ = e.Region()
	if !r.In(image.Rect(0, 0, 500, 400)) {
		t.Errorf("Aspect-locked resize escaped canvas: %v", r)
	}
	if r != image.Rect(400, 100, 500, 150) {
		t.Errorf("Expected clamped region (400,100)-(500,150), got %v", r)
	}
}

func TestDragClampedToBounds(t *testing.T) {
	e := selected(t, image.Rect(0, 0, 500, 400), image.Rect(100, 100, 200, 180))
	e.PointerDown(image.Pt(150, 140)) // interior, no handle
	if e.State() != Dragging {
		t.Fatalf("Expected Dragging, got %v", e.State())
	}
	e.PointerMove(image.Pt(0, 0), false)
	e.PointerUp(image.Pt(0, 0))
	r, _ := e.Region()
	if r.Min.X < 0 || r.Min.Y < 0 {
		t.Errorf("Region escaped canvas: %v", r)
	}
	if r.Size() != image.Pt(100, 80) {
		t.Errorf("Drag changed region size: %v", r)
	}
}

func TestNudge(t *testing.T) {
	e := selected(t, image.Rect(0, 0, 500, 400), image.Rect(100, 100, 200, 180))
	e.Nudge(1, 0, false)
	r, _ := e.Region()
	if r.Min.X != 101 {
		t.Errorf("Expected x=101 after small nudge, got %v", r.Min)
	}
	e.Nudge(0, -1, true)
	r, _ = e.Region()
	if r.Min.Y != 90 {
		t.Errorf("Expected y=90 after large nudge, got %v", r.Min)
	}
	// Clamped at the canvas edge, size preserved.
	for i := 0; i < 50; i++ {
		e.Nudge(-1, 0, true)
	}
	r, _ = e.Region()
	if r.Min.X != 0 || r.Size() != image.Pt(100, 80) {
		t.Errorf("Expected region pinned at left edge, got %v", r)
	}
}

func TestCancelReturnsToIdle(t *testing.T) {
	e := selected(t, image.Rect(0, 0, 500, 400), image.Rect(100, 100, 200, 180))
	e.Cancel()
	if e.State() != Idle {
		t.Errorf("Expected Idle after cancel, got %v", e.State())
	}
	if _, ok := e.Region(); ok {
		t.Error("Expected no region after cancel")
	}
}
