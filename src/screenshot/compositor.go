package screenshot

import (
	"image"
	"image/draw"
	"log"

	xdraw "golang.org/x/image/draw"
)

// Canvas is a mutable raster buffer. Coordinates used by the selection and
// annotation engines are buffer pixel coordinates; Scale records how many
// buffer pixels correspond to one logical (window) pixel.
type Canvas struct {
	Image *image.RGBA
	Scale float64
}

// Bounds returns the buffer extent in canvas coordinates.
func (c *Canvas) Bounds() image.Rectangle { return c.Image.Bounds() }

// Clone returns a deep copy of the canvas.
func (c *Canvas) Clone() *Canvas {
	dst := image.NewRGBA(c.Image.Bounds())
	copy(dst.Pix, c.Image.Pix)
	return &Canvas{Image: dst, Scale: c.Scale}
}

// Crop copies the given canvas-coordinate rectangle out of the buffer.
func (c *Canvas) Crop(r image.Rectangle) *image.RGBA {
	r = r.Intersect(c.Image.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), c.Image, r.Min, draw.Src)
	return dst
}

// Paste writes src into the buffer with its top-left corner at p.
func (c *Canvas) Paste(src *image.RGBA, p image.Point) {
	r := image.Rectangle{Min: p, Max: p.Add(src.Bounds().Size())}
	draw.Draw(c.Image, r.Intersect(c.Image.Bounds()), src, src.Bounds().Min, draw.Src)
}

// Frame is one display's captured pixels. Pixels may be nil when the grab
// failed; the compositor leaves a transparent gap in that case.
type Frame struct {
	Display
	Pixels *image.RGBA
}

// Composite merges per-screen captures into a single canvas spanning the
// virtual desktop. The output buffer is sized virtual-size x max(scale), so
// mixed-DPI setups keep the sharpest screen at native resolution; screens
// with a lower ratio are resampled up with a bilinear kernel before
// placement.
func Composite(frames []Frame) (*Canvas, error) {
	if len(frames) == 0 {
		return nil, ErrNoDisplay
	}

	virtual := frames[0].Bounds
	maxScale := 1.0
	for _, f := range frames {
		virtual = virtual.Union(f.Bounds)
		if f.Scale > maxScale {
			maxScale = f.Scale
		}
	}

	out := image.NewRGBA(image.Rect(0, 0,
		scaleDim(virtual.Dx(), maxScale), scaleDim(virtual.Dy(), maxScale)))

	for _, f := range frames {
		if f.Pixels == nil {
			continue
		}
		offset := f.Bounds.Min.Sub(virtual.Min)
		dst := image.Rect(
			scaleDim(offset.X, maxScale),
			scaleDim(offset.Y, maxScale),
			scaleDim(offset.X+f.Bounds.Dx(), maxScale),
			scaleDim(offset.Y+f.Bounds.Dy(), maxScale))

		if f.Pixels.Bounds().Size() == dst.Size() {
			draw.Draw(out, dst, f.Pixels, f.Pixels.Bounds().Min, draw.Src)
		} else {
			xdraw.BiLinear.Scale(out, dst, f.Pixels, f.Pixels.Bounds(), xdraw.Src, nil)
		}
		log.Printf("screenshot: placed display %v at %v (scale %.2f -> %.2f)",
			f.Bounds, dst.Min, f.Scale, maxScale)
	}

	return &Canvas{Image: out, Scale: maxScale}, nil
}

func scaleDim(v int, scale float64) int {
	return int(float64(v)*scale + 0.5)
}
