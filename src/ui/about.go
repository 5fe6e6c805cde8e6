package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"shotpin/src/tray"
)

func (u *UI) showAbout() {
	if u.aboutWin != nil {
		u.aboutWin.Show()
		u.aboutWin.RequestFocus()
		return
	}
	lines := []string{
		"ShotPin",
		"Region screenshots with annotations and pinned overlays.",
	}
	if u.hotkey != "" {
		lines = append(lines, fmt.Sprintf("Capture hotkey: %s", u.hotkey))
	}
	if extra := tray.AboutExtra(); extra != "" {
		lines = append(lines, extra)
	}
	label := widget.NewLabel(strings.Join(lines, "\n"))
	label.Alignment = fyne.TextAlignCenter

	w := u.fyneApp.NewWindow("About ShotPin")
	w.SetContent(container.NewCenter(label))
	w.Resize(fyne.NewSize(360, 180))
	w.SetCloseIntercept(w.Hide)
	u.aboutWin = w
	w.Show()
}
