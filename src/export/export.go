// Package export writes region crops to the clipboard and to timestamped
// PNG files, surfacing the outcome as a desktop notification.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"shotpin/src/clipboard"
	"shotpin/src/notification"
)

// ErrClipboard reports that the platform clipboard could not be used.
var ErrClipboard = errors.New("clipboard unavailable")

// Sink is the session controller's export target.
type Sink struct {
	dir            string
	clipboardReady bool
}

// NewSink creates a sink saving into dir, or the user's Pictures directory
// when dir is empty. Clipboard initialization failure is tolerated; copies
// will fail with ErrClipboard until the process restarts.
func NewSink(dir string) *Sink {
	if dir == "" {
		dir = defaultDir()
	}
	s := &Sink{dir: dir}
	if err := clipboard.Init(); err != nil {
		log.Printf("export: clipboard init failed: %v", err)
	} else {
		s.clipboardReady = true
	}
	return s
}

// CopyImage places the crop on the clipboard as PNG.
func (s *Sink) CopyImage(img *image.RGBA) error {
	if !s.clipboardReady {
		notification.Show("ShotPin", "Copy failed: clipboard unavailable")
		return ErrClipboard
	}
	if err := clipboard.WriteImage(img); err != nil {
		notification.Show("ShotPin", "Copy failed")
		return fmt.Errorf("%w: %v", ErrClipboard, err)
	}
	notification.Show("ShotPin", "Region copied to clipboard")
	return nil
}

// SaveImage writes the crop to a timestamped PNG and returns its path.
func (s *Sink) SaveImage(img *image.RGBA) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}
	name := fmt.Sprintf("shotpin_%s.png", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		notification.Show("ShotPin", "Save failed")
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		notification.Show("ShotPin", "Save failed")
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	notification.Show("ShotPin", "Saved "+name)
	return path, nil
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Pictures")
}
