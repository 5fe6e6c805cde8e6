// Package selection owns the active selection rectangle: the drag-select /
// move / resize state machine over a canvas. It never touches pixels; it
// only produces the current region for the annotation engine and painters.
package selection

import "image"

const (
	// MinSize is the canonical minimum selection dimension. Selections at
	// or below it are discarded on release, and resizes can never shrink a
	// side below it.
	MinSize = 10
	// HandleSize is the edge/corner hit-test margin in canvas pixels.
	HandleSize = 8
	// StepSmall and StepLarge are the arrow-key nudge distances.
	StepSmall = 1
	StepLarge = 10
)

// State is the interaction state of the engine.
type State int

const (
	Idle State = iota
	Selecting
	Selected
	Resizing
	Dragging
)

// Edge tags the selection edge or corner under the pointer.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeLeft
	EdgeRight
	EdgeTop
	EdgeBottom
	EdgeTopLeft
	EdgeTopRight
	EdgeBottomLeft
	EdgeBottomRight
)

// Engine is the selection state machine. All coordinates are canvas pixels.
type Engine struct {
	bounds image.Rectangle

	state      State
	start, end image.Point // corners; normalized once frozen
	hasRegion  bool

	edge       Edge
	dragOffset image.Point
	aspect     float64 // width/height captured at freeze
}

// NewEngine creates an idle engine clamped to the given canvas bounds.
func NewEngine(bounds image.Rectangle) *Engine {
	return &Engine{bounds: bounds, state: Idle}
}

func (e *Engine) State() State { return e.state }

func (e *Engine) HasRegion() bool { return e.hasRegion }

// Region returns the normalized selection rectangle, if any.
func (e *Engine) Region() (image.Rectangle, bool) {
	if !e.hasRegion && e.state != Selecting {
		return image.Rectangle{}, false
	}
	return image.Rectangle{Min: e.start, Max: e.end}.Canon(), true
}

// Aspect returns the width/height ratio captured when the region froze.
func (e *Engine) Aspect() float64 { return e.aspect }

// SetRegion seeds a frozen region, as when an editor is reopened from a
// pinned overlay.
func (e *Engine) SetRegion(r image.Rectangle) {
	e.freeze(r.Canon())
}

func (e *Engine) freeze(r image.Rectangle) {
	e.start = r.Min
	e.end = r.Max
	e.hasRegion = true
	e.state = Selected
	if r.Dy() > 0 {
		e.aspect = float64(r.Dx()) / float64(r.Dy())
	}
}

func (e *Engine) clamp(p image.Point) image.Point {
	if p.X < e.bounds.Min.X {
		p.X = e.bounds.Min.X
	}
	if p.X > e.bounds.Max.X {
		p.X = e.bounds.Max.X
	}
	if p.Y < e.bounds.Min.Y {
		p.Y = e.bounds.Min.Y
	}
	if p.Y > e.bounds.Max.Y {
		p.Y = e.bounds.Max.Y
	}
	return p
}

// HitTest classifies a pointer position against the frozen region. Corners
// win over edges when the proximity tests overlap.
func (e *Engine) HitTest(p image.Point) Edge {
	r, ok := e.Region()
	if !ok {
		return EdgeNone
	}
	expanded := r.Inset(-HandleSize)
	if !p.In(expanded) {
		return EdgeNone
	}

	atLeft := abs(p.X-r.Min.X) <= HandleSize
	atRight := abs(p.X-r.Max.X) <= HandleSize
	atTop := abs(p.Y-r.Min.Y) <= HandleSize
	atBottom := abs(p.Y-r.Max.Y) <= HandleSize

	switch {
	case atLeft && atTop:
		return EdgeTopLeft
	case atRight && atTop:
		return EdgeTopRight
	case atLeft && atBottom:
		return EdgeBottomLeft
	case atRight && atBottom:
		return EdgeBottomRight
	case atTop:
		return EdgeTop
	case atBottom:
		return EdgeBottom
	case atLeft:
		return EdgeLeft
	case atRight:
		return EdgeRight
	}
	return EdgeNone
}

// PointerDown starts a new selection, a resize, or a drag depending on the
// current state and hit test. The caller routes pointer events here only
// when no drawing tool is active.
func (e *Engine) PointerDown(p image.Point) {
	p = e.clamp(p)
	switch e.state {
	case Idle:
		e.start = p
		e.end = p
		e.state = Selecting
	case Selected:
		r, _ := e.Region()
		if edge := e.HitTest(p); edge != EdgeNone {
			e.edge = edge
			e.state = Resizing
			return
		}
		if p.In(r) {
			e.dragOffset = p.Sub(r.Min)
			e.state = Dragging
		}
	}
}

// PointerMove advances the in-flight selection, resize, or drag. aspectLock
// constrains a resize to the ratio captured when the region froze.
func (e *Engine) PointerMove(p image.Point, aspectLock bool) {
	p = e.clamp(p)
	switch e.state {
	case Selecting:
		e.end = p
	case Resizing:
		e.applyResize(p, aspectLock)
	case Dragging:
		r, _ := e.Region()
		e.moveTo(p.Sub(e.dragOffset), r.Size())
	}
}

// PointerUp finishes the current gesture. It reports true when a selection
// was discarded for being too small.
func (e *Engine) PointerUp(p image.Point) (discarded bool) {
	switch e.state {
	case Selecting:
		e.end = e.clamp(p)
		r := image.Rectangle{Min: e.start, Max: e.end}.Canon()
		if r.Dx() <= MinSize || r.Dy() <= MinSize {
			e.reset()
			return true
		}
		e.freeze(r)
	case Resizing:
		e.edge = EdgeNone
		e.state = Selected
		r, _ := e.Region()
		e.freeze(r) // re-normalize corners after the resize
	case Dragging:
		e.state = Selected
	}
	return false
}

// Nudge translates a frozen region by one arrow-key step, clamped to the
// canvas bounds. It is ignored mid-gesture.
func (e *Engine) Nudge(dx, dy int, large bool) {
	if e.state != Selected {
		return
	}
	step := StepSmall
	if large {
		step = StepLarge
	}
	r, _ := e.Region()
	e.moveTo(r.Min.Add(image.Pt(dx*step, dy*step)), r.Size())
}

// Cancel abandons any selection and returns to Idle.
func (e *Engine) Cancel() { e.reset() }

func (e *Engine) reset() {
	e.state = Idle
	e.hasRegion = false
	e.edge = EdgeNone
	e.start = image.Point{}
	e.end = image.Point{}
	e.aspect = 0
}

// moveTo places the region's top-left at p, keeping it fully inside bounds.
func (e *Engine) moveTo(p image.Point, size image.Point) {
	maxX := e.bounds.Max.X - size.X
	maxY := e.bounds.Max.Y - size.Y
	if p.X < e.bounds.Min.X {
		p.X = e.bounds.Min.X
	}
	if p.X > maxX {
		p.X = maxX
	}
	if p.Y < e.bounds.Min.Y {
		p.Y = e.bounds.Min.Y
	}
	if p.Y > maxY {
		p.Y = maxY
	}
	e.start = p
	e.end = p.Add(size)
}

// applyResize moves the corner(s) implicated by the active edge, keeping the
// opposite edge at least MinSize away.
func (e *Engine) applyResize(p image.Point, aspectLock bool) {
	switch e.edge {
	case EdgeLeft:
		e.start.X = min(p.X, e.end.X-MinSize)
	case EdgeRight:
		e.end.X = max(p.X, e.start.X+MinSize)
	case EdgeTop:
		e.start.Y = min(p.Y, e.end.Y-MinSize)
	case EdgeBottom:
		e.end.Y = max(p.Y, e.start.Y+MinSize)
	case EdgeTopLeft:
		e.start.X = min(p.X, e.end.X-MinSize)
		e.start.Y = min(p.Y, e.end.Y-MinSize)
	case EdgeTopRight:
		e.end.X = max(p.X, e.start.X+MinSize)
		e.start.Y = min(p.Y, e.end.Y-MinSize)
	case EdgeBottomLeft:
		e.start.X = min(p.X, e.end.X-MinSize)
		e.end.Y = max(p.Y, e.start.Y+MinSize)
	case EdgeBottomRight:
		e.end.X = max(p.X, e.start.X+MinSize)
		e.end.Y = max(p.Y, e.start.Y+MinSize)
	}
	if aspectLock && e.aspect > 0 {
		e.applyAspect()
	}
}

// applyAspect derives the free dimension from the one being dragged so the
// region keeps the ratio captured at freeze time. When the derived edge
// would leave the canvas it is clamped and the dragged dimension shrinks
// to preserve the ratio.
func (e *Engine) applyAspect() {
	w := e.end.X - e.start.X
	h := e.end.Y - e.start.Y
	switch e.edge {
	case EdgeTop, EdgeBottom:
		w = max(MinSize, int(float64(h)*e.aspect+0.5))
		if room := e.bounds.Max.X - e.start.X; w > room {
			w = max(MinSize, room)
			h = max(MinSize, int(float64(w)/e.aspect+0.5))
			if e.edge == EdgeTop {
				e.start.Y = e.end.Y - h
			} else {
				e.end.Y = e.start.Y + h
			}
		}
		e.end.X = e.start.X + w
	default:
		h = max(MinSize, int(float64(w)/e.aspect+0.5))
		top := e.edge == EdgeTopLeft || e.edge == EdgeTopRight
		room := e.bounds.Max.Y - e.start.Y
		if top {
			room = e.end.Y - e.bounds.Min.Y
		}
		if h > room {
			h = max(MinSize, room)
			w = max(MinSize, int(float64(h)*e.aspect+0.5))
			if e.edge == EdgeLeft || e.edge == EdgeTopLeft || e.edge == EdgeBottomLeft {
				e.start.X = e.end.X - w
			} else {
				e.end.X = e.start.X + w
			}
		}
		if top {
			e.start.Y = e.end.Y - h
		} else {
			e.end.Y = e.start.Y + h
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
