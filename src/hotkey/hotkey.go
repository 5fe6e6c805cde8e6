// Package hotkey watches the global keyboard hook for the configured
// capture combination. Parsing is separate from listening so the mapping
// stays testable without a hook.
package hotkey

import (
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Listen registers the hotkey combination and invokes callback on every
// full press. The callback runs on the hook goroutine; it should hand off
// to the event loop rather than do work itself.
func Listen(hotkeyConfig string, callback func()) {
	keys := parseHotkey(hotkeyConfig)

	type keyState struct {
		name     string
		rawcodes []uint16
		pressed  bool
	}

	var keyStates []keyState
	for _, keyName := range keys {
		rawcodes := keyNameToRawcodes(keyName)
		if len(rawcodes) == 0 {
			log.Printf("hotkey: cannot map key '%s' to rawcodes, combination may not work", keyName)
			continue
		}
		keyStates = append(keyStates, keyState{name: keyName, rawcodes: rawcodes})
	}

	if len(keyStates) == 0 {
		log.Printf("hotkey: no valid keys in configuration '%s'", hotkeyConfig)
		return
	}

	log.Printf("hotkey: listening for %s", hotkeyConfig)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("hotkey: panic in hook goroutine: %v", r)
			}
		}()

		var mu sync.Mutex

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("hotkey: gohook.Start() returned nil channel")
			return
		}

		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown:
				mu.Lock()
				for i := range keyStates {
					for _, rawcode := range keyStates[i].rawcodes {
						if ev.Rawcode == rawcode {
							keyStates[i].pressed = true
							break
						}
					}
				}

				allPressed := true
				for i := range keyStates {
					if !keyStates[i].pressed {
						allPressed = false
						break
					}
				}

				if allPressed {
					log.Printf("hotkey: %s activated", hotkeyConfig)
					for i := range keyStates {
						keyStates[i].pressed = false
					}
					mu.Unlock()
					if callback != nil {
						callback()
					}
				} else {
					mu.Unlock()
				}
			case gohook.KeyUp:
				mu.Lock()
				for i := range keyStates {
					for _, rawcode := range keyStates[i].rawcodes {
						if ev.Rawcode == rawcode {
							keyStates[i].pressed = false
							break
						}
					}
				}
				mu.Unlock()
			}
		}
		log.Printf("hotkey: event channel closed")
	}()
}

// parseHotkey converts a string like "Ctrl+Shift+q" to normalized key names.
func parseHotkey(hotkeyConfig string) []string {
	parts := strings.Split(strings.ToLower(hotkeyConfig), "+")
	var keys []string

	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "":
		case "win", "cmd", "super":
			keys = append(keys, "cmd")
		default:
			keys = append(keys, part)
		}
	}

	return keys
}

// keyNameToRawcodes maps a key name to its Windows virtual key codes.
// Modifiers return both left and right variants.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))

	// Single letters and digits map contiguously onto VK_A..VK_Z and
	// VK_0..VK_9.
	if len(keyName) == 1 {
		c := keyName[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 0x41}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 0x30}
		}
	}

	// F1..F24 map onto VK_F1 (0x70) upward.
	if strings.HasPrefix(keyName, "f") {
		if n, ok := atoiInRange(keyName[1:], 1, 24); ok {
			return []uint16{uint16(n-1) + 0x70}
		}
	}

	switch keyName {
	case "ctrl":
		return []uint16{162, 163} // VK_LCONTROL, VK_RCONTROL
	case "alt":
		return []uint16{164, 165} // VK_LMENU, VK_RMENU
	case "shift":
		return []uint16{160, 161} // VK_LSHIFT, VK_RSHIFT
	case "win", "cmd", "super":
		return []uint16{91, 92} // VK_LWIN, VK_RWIN
	case "space":
		return []uint16{32} // VK_SPACE
	case "enter", "return":
		return []uint16{13} // VK_RETURN
	case "esc", "escape":
		return []uint16{27} // VK_ESCAPE
	case "tab":
		return []uint16{9} // VK_TAB
	case "backspace":
		return []uint16{8} // VK_BACK
	case "delete", "del":
		return []uint16{46} // VK_DELETE
	case "insert", "ins":
		return []uint16{45} // VK_INSERT
	case "home":
		return []uint16{36} // VK_HOME
	case "end":
		return []uint16{35} // VK_END
	case "pageup", "pgup":
		return []uint16{33} // VK_PRIOR
	case "pagedown", "pgdn":
		return []uint16{34} // VK_NEXT
	case "left":
		return []uint16{37} // VK_LEFT
	case "up":
		return []uint16{38} // VK_UP
	case "right":
		return []uint16{39} // VK_RIGHT
	case "down":
		return []uint16{40} // VK_DOWN
	}

	log.Printf("hotkey: unknown key name '%s'", keyName)
	return nil
}

func atoiInRange(s string, lo, hi int) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	if n < lo || n > hi {
		return 0, false
	}
	return n, true
}
