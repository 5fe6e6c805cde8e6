//go:build windows

package ui

import (
	"log"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procFindWindow          = user32.NewProc("FindWindowW")
	procGetWindowLong       = user32.NewProc("GetWindowLongW")
	procSetWindowLong       = user32.NewProc("SetWindowLongW")
	procSetLayeredWindowAtr = user32.NewProc("SetLayeredWindowAttributes")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procMoveWindow          = user32.NewProc("MoveWindow")
	procSetWindowPos        = user32.NewProc("SetWindowPos")
)

const (
	wsExLayered   = 0x00080000
	lwaAlpha      = 0x00000002
	swpNoMove     = 0x0002
	swpNoSize     = 0x0001
	swpNoActivate = 0x0010
)

var (
	hwndTopmost = ^uintptr(0) // -1
	// GWL_EXSTYLE (-20) as uintptr, computed at runtime to avoid overflow
	gwlExStyle = uintptr(uint32(int32(-20)))
)

type winRect struct {
	Left, Top, Right, Bottom int32
}

func findWindow(title string) (uintptr, bool) {
	ptr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, false
	}
	hwnd, _, _ := procFindWindow.Call(0, uintptr(unsafe.Pointer(ptr)))
	return hwnd, hwnd != 0
}

// applyWindowTransparency sets the layered alpha on the named top-level
// window.
func applyWindowTransparency(title string, opacity float64) {
	hwnd, ok := findWindow(title)
	if !ok {
		log.Printf("ui: window %q not found for transparency", title)
		return
	}
	exStyle, _, _ := procGetWindowLong.Call(hwnd, gwlExStyle)
	procSetWindowLong.Call(hwnd, gwlExStyle, exStyle|wsExLayered)

	alpha := uintptr(opacity * 255)
	if ret, _, err := procSetLayeredWindowAtr.Call(hwnd, 0, alpha, lwaAlpha); ret == 0 {
		log.Printf("ui: SetLayeredWindowAttributes: %v", err)
	}
}

// keepWindowOnTop raises the named window into the topmost band.
func keepWindowOnTop(title string) {
	hwnd, ok := findWindow(title)
	if !ok {
		return
	}
	if ret, _, err := procSetWindowPos.Call(hwnd, hwndTopmost, 0, 0, 0, 0, swpNoMove|swpNoSize|swpNoActivate); ret == 0 {
		log.Printf("ui: SetWindowPos: %v", err)
	}
}

// moveWindowBy shifts the named window by a pixel delta, keeping its size.
func moveWindowBy(title string, dx, dy int) {
	hwnd, ok := findWindow(title)
	if !ok {
		return
	}
	var r winRect
	if ret, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r))); ret == 0 {
		return
	}
	w := r.Right - r.Left
	h := r.Bottom - r.Top
	procMoveWindow.Call(hwnd, uintptr(int(r.Left)+dx), uintptr(int(r.Top)+dy), uintptr(w), uintptr(h), 1)
}
