package config

import (
	"image/color"
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Set test environment variables
	os.Setenv("HOTKEY", "Ctrl+Shift+T")
	os.Setenv("ENABLE_FILE_LOGGING", "true")
	os.Setenv("MAX_HISTORY", "25")
	os.Setenv("PEN_COLOR", "#00FF7F")

	defer func() {
		// Clean up environment variables
		os.Unsetenv("HOTKEY")
		os.Unsetenv("ENABLE_FILE_LOGGING")
		os.Unsetenv("MAX_HISTORY")
		os.Unsetenv("PEN_COLOR")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Hotkey != "Ctrl+Shift+T" {
		t.Errorf("Expected Hotkey to be 'Ctrl+Shift+T', got '%s'", cfg.Hotkey)
	}
	if !cfg.EnableFileLogging {
		t.Errorf("Expected EnableFileLogging to be true, got %v", cfg.EnableFileLogging)
	}
	if cfg.MaxHistory != 25 {
		t.Errorf("Expected MaxHistory to be 25, got %d", cfg.MaxHistory)
	}
	if cfg.PenColor != (color.RGBA{0, 255, 127, 255}) {
		t.Errorf("Expected PenColor #00FF7F, got %v", cfg.PenColor)
	}
}

func TestDefaults(t *testing.T) {
	for _, key := range []string{"HOTKEY", "MAX_HISTORY", "MAX_GALLERY", "MIN_SELECTION", "PEN_WIDTH", "PEN_COLOR", "FONT_SIZE"} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Hotkey != "Ctrl+Shift+Q" {
		t.Errorf("Expected default hotkey Ctrl+Shift+Q, got '%s'", cfg.Hotkey)
	}
	if cfg.MaxHistory != 50 || cfg.MaxGallery != 20 {
		t.Errorf("Expected bounds 50/20, got %d/%d", cfg.MaxHistory, cfg.MaxGallery)
	}
	if cfg.MinSelection != 10 {
		t.Errorf("Expected MinSelection 10, got %d", cfg.MinSelection)
	}
	if cfg.PenWidth != 2 || cfg.FontSize != 16 {
		t.Errorf("Expected pen width 2 and font size 16, got %d/%d", cfg.PenWidth, cfg.FontSize)
	}
	if cfg.PenColor != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Expected default red pen, got %v", cfg.PenColor)
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"00ff7f", color.RGBA{0, 255, 127, 255}, false},
		{"#F00", color.RGBA{255, 0, 0, 255}, false},
		{"#12345", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}
	for _, c := range cases {
		got, err := parseHexColor(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("parseHexColor(%q) error = %v, wantErr %v", c.in, err, c.wantErr)
			continue
		}
		if !c.wantErr && got != c.want {
			t.Errorf("parseHexColor(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
