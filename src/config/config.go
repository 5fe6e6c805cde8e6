package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPathVar points at an alternate .env file when none sits next to the
// executable.
const EnvPathVar = "SHOTPIN_ENV"

type Config struct {
	Hotkey            string
	EnableFileLogging bool
	MaxHistory        int
	MaxGallery        int
	MinSelection      int
	PenWidth          int
	PenColor          color.RGBA
	FontSize          int
	SaveDir           string
}

// Load reads configuration from sources in priority order:
// 1) .env in the application (executable) directory
// 2) If not found, the SHOTPIN_ENV env var as a path to a config file
// Process environment variables override either file.
func Load() (*Config, error) {
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	penColor, err := parseHexColor(getEnvWithDefault("PEN_COLOR", "#FF0000"))
	if err != nil {
		return nil, fmt.Errorf("PEN_COLOR: %w", err)
	}

	cfg := &Config{
		Hotkey:            getEnvWithDefault("HOTKEY", "Ctrl+Shift+Q"),
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		MaxHistory:        getEnvInt("MAX_HISTORY", 50),
		MaxGallery:        getEnvInt("MAX_GALLERY", 20),
		MinSelection:      getEnvInt("MIN_SELECTION", 10),
		PenWidth:          getEnvInt("PEN_WIDTH", 2),
		PenColor:          penColor,
		FontSize:          getEnvInt("FONT_SIZE", 16),
		SaveDir:           os.Getenv("SAVE_DIR"),
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvPathVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

// parseHexColor accepts #RGB and #RRGGBB, with or without the leading #.
func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
