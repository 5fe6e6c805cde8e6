package session

import (
	"image"

	"shotpin/src/screenshot"
)

// DefaultMaxGallery bounds the capture gallery.
const DefaultMaxGallery = 20

// Capture is one finalized whole-desktop grab paired with its last-used
// region. Entries are immutable once appended; the editor navigates onto a
// clone, never the entry itself.
type Capture struct {
	Canvas *screenshot.Canvas
	Region image.Rectangle
}

// Gallery is the bounded list of prior captures, ordered oldest first. It
// is independent of per-region annotation history.
type Gallery struct {
	entries []Capture
	max     int
}

func NewGallery(max int) *Gallery {
	if max <= 0 {
		max = DefaultMaxGallery
	}
	return &Gallery{max: max}
}

func (g *Gallery) Len() int { return len(g.entries) }

func (g *Gallery) At(i int) Capture { return g.entries[i] }

// Append records a capture and returns its index. Past the bound the
// oldest entry is evicted.
func (g *Gallery) Append(c Capture) int {
	g.entries = append(g.entries, c)
	if len(g.entries) > g.max {
		g.entries = g.entries[1:]
	}
	return len(g.entries) - 1
}
