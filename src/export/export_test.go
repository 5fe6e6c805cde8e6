package export

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveImage(t *testing.T) {
	s := &Sink{dir: t.TempDir()}
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))

	path, err := s.SaveImage(img)
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "shotpin_") || !strings.HasSuffix(base, ".png") {
		t.Errorf("Unexpected file name %q", base)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Saved file missing: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Saved file is not a valid PNG: %v", err)
	}
	if decoded.Bounds().Size() != image.Pt(8, 6) {
		t.Errorf("Decoded size %v, want 8x6", decoded.Bounds().Size())
	}
}

func TestCopyWithoutClipboard(t *testing.T) {
	s := &Sink{dir: t.TempDir()} // clipboard never initialized
	if err := s.CopyImage(image.NewRGBA(image.Rect(0, 0, 4, 4))); !errors.Is(err, ErrClipboard) {
		t.Errorf("Expected ErrClipboard, got %v", err)
	}
}
