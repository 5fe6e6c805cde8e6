package ui

import (
	"fmt"
	"image/color"

	"shotpin/src/annotate"
)

// penPalette is the cycle order for the color key, on both the editor and
// pinned overlays.
var penPalette = []color.RGBA{
	{255, 0, 0, 255},
	{255, 165, 0, 255},
	{255, 215, 0, 255},
	{0, 170, 85, 255},
	{64, 140, 242, 255},
	{0, 0, 0, 255},
	{255, 255, 255, 255},
}

// nextPenColor returns the palette entry after c, restarting the cycle when
// c is not a palette color (a configured custom pen color).
func nextPenColor(c color.RGBA) color.RGBA {
	for i, p := range penPalette {
		if p == c {
			return penPalette[(i+1)%len(penPalette)]
		}
	}
	return penPalette[0]
}

// cyclePenColor advances the engine to the next palette color and returns
// the hint text to surface.
func cyclePenColor(ann *annotate.Engine) string {
	c := nextPenColor(ann.Style().Color)
	ann.SetColor(c)
	return fmt.Sprintf("Pen color #%02X%02X%02X", c.R, c.G, c.B)
}

// stepPenWidth adjusts the pen width by delta, bounded by the engine, and
// returns the hint text.
func stepPenWidth(ann *annotate.Engine, delta int) string {
	ann.SetPenWidth(ann.Style().Width + delta)
	return fmt.Sprintf("Pen width %d", ann.Style().Width)
}
