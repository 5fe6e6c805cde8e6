package screenshot

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/kbinani/screenshot"
)

// ErrNoDisplay is returned when no screen is available at capture time.
var ErrNoDisplay = errors.New("no active displays found")

// Display describes one physical screen in virtual-desktop coordinates.
type Display struct {
	// Bounds is the screen geometry in logical virtual-desktop coordinates.
	Bounds image.Rectangle
	// Scale is the device pixel ratio of the screen (>= 1).
	Scale float64
}

// Source enumerates displays and captures their raw pixels. The system
// implementation wraps kbinani/screenshot; tests provide fakes.
type Source interface {
	Displays() []Display
	Grab(d Display) (*image.RGBA, error)
}

// SystemSource captures real screens.
type SystemSource struct{}

func (SystemSource) Displays() []Display {
	n := screenshot.NumActiveDisplays()
	displays := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		// kbinani reports physical pixel bounds; with process DPI awareness
		// enabled the logical and physical spaces coincide.
		displays = append(displays, Display{Bounds: screenshot.GetDisplayBounds(i), Scale: 1.0})
	}
	return displays
}

func (SystemSource) Grab(d Display) (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(d.Bounds)
	if err != nil {
		return nil, fmt.Errorf("capture %v: %w", d.Bounds, err)
	}
	return img, nil
}

// Capture grabs every display from src and composites them into one Canvas.
// A display whose grab fails is skipped (transparent gap); with no displays
// at all the capture fails with ErrNoDisplay.
func Capture(src Source) (*Canvas, error) {
	displays := src.Displays()
	if len(displays) == 0 {
		return nil, ErrNoDisplay
	}
	frames := make([]Frame, 0, len(displays))
	for _, d := range displays {
		pixels, err := src.Grab(d)
		if err != nil {
			log.Printf("screenshot: skipping display %v: %v", d.Bounds, err)
			pixels = nil
		}
		frames = append(frames, Frame{Display: d, Pixels: pixels})
	}
	return Composite(frames)
}
