//go:build !windows

package ui

// Window alpha, z-order, and programmatic moves need native handles the
// toolkit does not expose off Windows; overlays still work, just fully
// opaque and window-manager positioned.

func applyWindowTransparency(string, float64) {}

func keepWindowOnTop(string) {}

func moveWindowBy(string, int, int) {}
