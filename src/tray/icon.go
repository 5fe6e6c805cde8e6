package tray

import (
	"bytes"
	"log"
	"sync"

	"github.com/gogpu/gg"
)

var (
	iconOnce  sync.Once
	iconBytes []byte
)

// icon renders the tray icon once: a pin head over a selection frame.
func icon() []byte {
	iconOnce.Do(func() {
		dc := gg.NewContext(32, 32)

		// Dashed selection frame
		dc.SetRGBA(0.0, 0.47, 0.83, 0.9)
		dc.SetLineWidth(2)
		dc.SetDash(4, 2)
		dc.DrawRectangle(3, 3, 22, 18)
		if err := dc.Stroke(); err != nil {
			log.Printf("tray: icon frame: %v", err)
		}
		dc.ClearDash()

		// Pin: head, collar, needle
		dc.SetRGB(0.85, 0.2, 0.2)
		dc.DrawCircle(22, 16, 5)
		if err := dc.Fill(); err != nil {
			log.Printf("tray: icon head: %v", err)
		}
		dc.SetRGB(0.6, 0.1, 0.1)
		dc.DrawCircle(22, 16, 5)
		dc.SetLineWidth(1)
		if err := dc.Stroke(); err != nil {
			log.Printf("tray: icon collar: %v", err)
		}
		dc.SetRGB(0.25, 0.25, 0.25)
		dc.SetLineWidth(2)
		dc.DrawLine(20, 20, 13, 28)
		if err := dc.Stroke(); err != nil {
			log.Printf("tray: icon needle: %v", err)
		}

		var buf bytes.Buffer
		if err := dc.EncodePNG(&buf); err != nil {
			log.Printf("tray: icon encode: %v", err)
			return
		}
		iconBytes = buf.Bytes()
	})
	return iconBytes
}
