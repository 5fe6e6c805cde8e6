// Package annotate routes pointer and keyboard input to the active drawing
// tool and commits pixel mutations to the canvas. Pen strokes land directly
// in the buffer on every move; rectangles and lines are previewed and
// committed once on release; text is rasterized when its entry is finalized.
package annotate

import (
	"image"
	"image/color"
	"log"

	"github.com/gogpu/gg"
	ggtext "github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"shotpin/src/screenshot"
)

// Tool is the active annotation mode. Exactly one is active at a time.
type Tool int

const (
	ToolNone Tool = iota
	ToolPen
	ToolRect
	ToolLine
	ToolText
)

const (
	MinPenWidth  = 1
	MaxPenWidth  = 20
	MinFontSize  = 8
	MaxFontSize  = 72
	FontSizeStep = 2

	// The text-entry affordance has internal padding; committed text is
	// shifted by the same amount so it lands where the affordance showed it.
	entryPadX = 2
	entryPadY = 1

	rectFillAlpha = 50
)

// Style holds the shared pen settings.
type Style struct {
	Color    color.RGBA
	Width    int
	FontSize int
}

// DefaultStyle matches the editor defaults: 2px red pen, 16pt text.
func DefaultStyle() Style {
	return Style{Color: color.RGBA{255, 0, 0, 255}, Width: 2, FontSize: 16}
}

// Regioner supplies the clamping bounds; the selection engine satisfies it.
type Regioner interface {
	Region() (image.Rectangle, bool)
}

// Preview is an uncommitted shape for the painter to overlay.
type Preview struct {
	Tool     Tool
	Rect     image.Rectangle // ToolRect
	From, To image.Point     // ToolLine
}

// TextEntry is the pending text affordance.
type TextEntry struct {
	Pos  image.Point
	Text string
}

// Engine mutates the canvas according to the active tool. Committed actions
// are reported through the commit callback so the owner can snapshot.
type Engine struct {
	canvas   *screenshot.Canvas
	region   Regioner
	style    Style
	tool     Tool
	font     *ggtext.FontSource
	onCommit func()

	drawing     bool
	lastPoint   image.Point
	strokeStart image.Point
	outside     bool // pen left the clamp rect; suppress until re-entry
	dirty       bool // pen stroke touched pixels since pointer-down

	preview *Preview
	pending *TextEntry
}

// NewEngine creates an annotation engine drawing onto canvas, clamped to
// the region provider. onCommit is invoked after every committed action.
func NewEngine(canvas *screenshot.Canvas, region Regioner, onCommit func()) *Engine {
	font, err := ggtext.NewFontSource(goregular.TTF)
	if err != nil {
		// The bundled face always parses; fall back to no text rendering.
		log.Printf("annotate: font source unavailable: %v", err)
	}
	return &Engine{
		canvas:   canvas,
		region:   region,
		style:    DefaultStyle(),
		font:     font,
		onCommit: onCommit,
	}
}

// SetCanvas repoints the engine at a new buffer (gallery navigation,
// reopen from a pinned overlay).
func (e *Engine) SetCanvas(c *screenshot.Canvas) { e.canvas = c }

func (e *Engine) Tool() Tool { return e.tool }

func (e *Engine) Style() Style { return e.style }

func (e *Engine) Active() bool { return e.tool != ToolNone }

func (e *Engine) Drawing() bool { return e.drawing }

// SetTool activates a tool, deactivating the previous one. Re-selecting the
// active tool toggles back to none. A pending text entry is finalized first.
func (e *Engine) SetTool(t Tool) {
	if e.pending != nil {
		e.FinalizeText()
	}
	if t == e.tool {
		e.tool = ToolNone
		return
	}
	e.tool = t
}

func (e *Engine) SetColor(c color.RGBA) { e.style.Color = c }

func (e *Engine) SetPenWidth(w int) {
	if w < MinPenWidth {
		w = MinPenWidth
	}
	if w > MaxPenWidth {
		w = MaxPenWidth
	}
	e.style.Width = w
}

// SetFontSize clamps and sets the text size.
func (e *Engine) SetFontSize(s int) {
	if s < MinFontSize {
		s = MinFontSize
	}
	if s > MaxFontSize {
		s = MaxFontSize
	}
	e.style.FontSize = s
}

// Preview returns the uncommitted shape, if any.
func (e *Engine) Preview() *Preview { return e.preview }

// PendingText returns the active text entry, if any.
func (e *Engine) PendingText() *TextEntry { return e.pending }

// penRect is the innermost area the pen may touch: the region inset by half
// the pen width so the stroke never bleeds past the region edge.
func (e *Engine) penRect() (image.Rectangle, bool) {
	r, ok := e.region.Region()
	if !ok {
		return image.Rectangle{}, false
	}
	inset := r.Inset((e.style.Width + 1) / 2)
	if inset.Empty() {
		inset = image.Rectangle{Min: r.Min, Max: r.Min}
	}
	return inset, true
}

func clampTo(p image.Point, r image.Rectangle) image.Point {
	if p.X < r.Min.X {
		p.X = r.Min.X
	}
	if p.X > r.Max.X {
		p.X = r.Max.X
	}
	if p.Y < r.Min.Y {
		p.Y = r.Min.Y
	}
	if p.Y > r.Max.Y {
		p.Y = r.Max.Y
	}
	return p
}

// PointerDown begins a stroke, shape drag, or text entry at p.
func (e *Engine) PointerDown(p image.Point) {
	switch e.tool {
	case ToolPen:
		r, ok := e.penRect()
		if !ok {
			return
		}
		e.drawing = true
		e.dirty = false
		e.outside = !p.In(r.Inset(-1))
		e.lastPoint = clampTo(p, r)
	case ToolRect, ToolLine:
		e.drawing = true
		e.strokeStart = p
		e.updatePreview(p)
	case ToolText:
		e.StartText(p)
	}
}

// PointerMove extends the pen stroke or updates the shape preview.
func (e *Engine) PointerMove(p image.Point) {
	if !e.drawing {
		return
	}
	switch e.tool {
	case ToolPen:
		r, ok := e.penRect()
		if !ok {
			return
		}
		inside := p.In(r.Inset(-1))
		if !inside && e.outside {
			// Pointer is still out of bounds; drawing stays suppressed so
			// the stroke does not smear along the region edge.
			return
		}
		clamped := clampTo(p, r)
		e.strokeSegment(e.lastPoint, clamped)
		e.dirty = true
		e.lastPoint = clamped
		e.outside = !inside
	case ToolRect, ToolLine:
		e.updatePreview(p)
	}
}

// PointerUp finishes the gesture: a pen stroke commits one snapshot for the
// whole stroke, a shape is drawn once into the canvas and committed.
func (e *Engine) PointerUp(p image.Point) {
	if !e.drawing {
		return
	}
	e.drawing = false
	switch e.tool {
	case ToolPen:
		if e.dirty {
			e.commit()
		}
	case ToolRect:
		e.preview = nil
		from, to, ok := e.shapePoints(e.strokeStart, p)
		if ok {
			e.drawRect(image.Rectangle{Min: from, Max: to}.Canon())
			e.commit()
		}
	case ToolLine:
		e.preview = nil
		from, to, ok := e.shapePoints(e.strokeStart, p)
		if ok {
			e.drawLine(from, to)
			e.commit()
		}
	}
}

// shapePoints clamps a shape's endpoints to the region.
func (e *Engine) shapePoints(from, to image.Point) (image.Point, image.Point, bool) {
	r, ok := e.region.Region()
	if !ok {
		return from, to, false
	}
	return clampTo(from, r), clampTo(to, r), true
}

func (e *Engine) updatePreview(p image.Point) {
	from, to, ok := e.shapePoints(e.strokeStart, p)
	if !ok {
		return
	}
	switch e.tool {
	case ToolRect:
		e.preview = &Preview{Tool: ToolRect, Rect: image.Rectangle{Min: from, Max: to}.Canon()}
	case ToolLine:
		e.preview = &Preview{Tool: ToolLine, From: from, To: to}
	}
}

// StartText places the text affordance at p, finalizing any pending entry.
func (e *Engine) StartText(p image.Point) {
	if e.pending != nil {
		e.FinalizeText()
	}
	r, ok := e.region.Region()
	if !ok {
		return
	}
	e.pending = &TextEntry{Pos: clampTo(p, r)}
}

// SetEntryText mirrors the affordance's current content into the model.
func (e *Engine) SetEntryText(s string) {
	if e.pending != nil {
		e.pending.Text = s
	}
}

// FinalizeText rasterizes the pending entry into the canvas. An empty entry
// commits nothing.
func (e *Engine) FinalizeText() {
	entry := e.pending
	e.pending = nil
	if entry == nil || entry.Text == "" {
		return
	}
	e.drawText(entry.Text, entry.Pos)
	e.commit()
}

// CancelText discards the pending entry without drawing.
func (e *Engine) CancelText() { e.pending = nil }

// Scroll adjusts the font size while a text entry is active. Returns true
// when the event was consumed.
func (e *Engine) Scroll(up bool) bool {
	if e.pending == nil {
		return false
	}
	if up {
		e.style.FontSize += FontSizeStep
	} else {
		e.style.FontSize -= FontSizeStep
	}
	if e.style.FontSize < MinFontSize {
		e.style.FontSize = MinFontSize
	}
	if e.style.FontSize > MaxFontSize {
		e.style.FontSize = MaxFontSize
	}
	return true
}

func (e *Engine) commit() {
	if e.onCommit != nil {
		e.onCommit()
	}
}

// draw runs fn against a gg context over the canvas buffer and blits the
// result back in place.
func (e *Engine) draw(fn func(dc *gg.Context)) {
	dc := gg.NewContextForImage(e.canvas.Image)
	fn(dc)
	out, ok := dc.Image().(*image.RGBA)
	if !ok || len(out.Pix) != len(e.canvas.Image.Pix) {
		log.Printf("annotate: context buffer mismatch, dropping draw")
		return
	}
	copy(e.canvas.Image.Pix, out.Pix)
}

func (e *Engine) strokeSegment(from, to image.Point) {
	e.draw(func(dc *gg.Context) {
		dc.SetColor(e.style.Color)
		dc.SetLineWidth(float64(e.style.Width))
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
		dc.DrawLine(float64(from.X), float64(from.Y), float64(to.X), float64(to.Y))
		if err := dc.Stroke(); err != nil {
			log.Printf("annotate: stroke: %v", err)
		}
	})
}

func (e *Engine) drawLine(from, to image.Point) {
	e.strokeSegment(from, to)
}

func (e *Engine) drawRect(r image.Rectangle) {
	e.draw(func(dc *gg.Context) {
		dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
		c := e.style.Color
		dc.SetColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: rectFillAlpha})
		if err := dc.FillPreserve(); err != nil {
			log.Printf("annotate: fill: %v", err)
		}
		dc.SetColor(c)
		dc.SetLineWidth(float64(e.style.Width))
		if err := dc.Stroke(); err != nil {
			log.Printf("annotate: stroke: %v", err)
		}
	})
}

// RenderPending paints the text affordance onto frame: a boxed preview of
// the in-progress string at the entry position. The canvas is untouched;
// the affordance only exists until the entry finalizes or cancels.
func (e *Engine) RenderPending(frame *image.RGBA) {
	entry := e.pending
	if entry == nil || e.font == nil {
		return
	}
	face := e.font.Face(float64(e.style.FontSize))
	m := face.Metrics()
	dc := gg.NewContextForImage(frame)
	dc.SetFont(face)
	tw, _ := dc.MeasureString(entry.Text)
	boxW := tw + 2*entryPadX + 6
	if boxW < 40 {
		boxW = 40
	}
	boxH := m.Ascent + m.Descent + 2*entryPadY
	x, y := float64(entry.Pos.X), float64(entry.Pos.Y)
	dc.SetRGBA(1, 1, 1, 0.85)
	dc.DrawRectangle(x, y, boxW, boxH)
	if err := dc.Fill(); err != nil {
		log.Printf("annotate: affordance fill: %v", err)
	}
	dc.SetColor(e.style.Color)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x, y, boxW, boxH)
	if err := dc.Stroke(); err != nil {
		log.Printf("annotate: affordance stroke: %v", err)
	}
	if entry.Text != "" {
		dc.DrawString(entry.Text, x+entryPadX, y+entryPadY+m.Ascent)
	}
	out, ok := dc.Image().(*image.RGBA)
	if !ok || len(out.Pix) != len(frame.Pix) {
		return
	}
	copy(frame.Pix, out.Pix)
}

func (e *Engine) drawText(s string, pos image.Point) {
	if e.font == nil {
		return
	}
	face := e.font.Face(float64(e.style.FontSize))
	baseline := float64(pos.Y+entryPadY) + face.Metrics().Ascent
	e.draw(func(dc *gg.Context) {
		dc.SetFont(face)
		dc.SetColor(e.style.Color)
		dc.DrawString(s, float64(pos.X+entryPadX), baseline)
	})
}
