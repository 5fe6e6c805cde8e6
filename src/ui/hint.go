package ui

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
)

const hintDuration = time.Second

// hintLabel is a transient message over a window. The hide timer is
// display-only: firing it changes nothing but visibility.
type hintLabel struct {
	text  *fynecanvas.Text
	timer *time.Timer
}

func newHintLabel() *hintLabel {
	t := fynecanvas.NewText("", color.White)
	t.TextSize = 18
	t.TextStyle = fyne.TextStyle{Bold: true}
	t.Alignment = fyne.TextAlignCenter
	t.Hidden = true
	return &hintLabel{text: t}
}

// show displays msg and rearms the single-shot hide timer.
func (h *hintLabel) show(msg string) {
	h.text.Text = msg
	h.text.Hidden = false
	h.text.Refresh()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.timer = time.AfterFunc(hintDuration, func() {
		fyne.Do(func() {
			h.text.Hidden = true
			h.text.Refresh()
		})
	})
}
