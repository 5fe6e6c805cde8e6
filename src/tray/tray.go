package tray

import (
	"log"
	"sync"

	"github.com/getlantern/systray"
)

const defaultTooltip = "ShotPin"

// Callbacks are invoked from the systray menu goroutine.
type Callbacks struct {
	OnCapture func()
	OnAbout   func()
	OnQuit    func()
}

var (
	mu         sync.Mutex
	ready      bool
	tooltip    = defaultTooltip
	aboutExtra string
)

// Run starts the system tray and blocks until Quit is called.
func Run(cb Callbacks) {
	systray.Run(func() { onReady(cb) }, onExit)
}

// Quit asks the systray loop to exit.
func Quit() {
	systray.Quit()
}

func onReady(cb Callbacks) {
	systray.SetIcon(icon())
	systray.SetTitle("ShotPin")

	mu.Lock()
	ready = true
	tt := tooltip
	mu.Unlock()
	systray.SetTooltip(tt)

	mCapture := systray.AddMenuItem("Take Screenshot", "Select a region of the screen")
	mAbout := systray.AddMenuItem("About", "About ShotPin")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit ShotPin")

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				if cb.OnCapture != nil {
					cb.OnCapture()
				}
			case <-mAbout.ClickedCh:
				if cb.OnAbout != nil {
					cb.OnAbout()
				}
			case <-mQuit.ClickedCh:
				if cb.OnQuit != nil {
					cb.OnQuit()
				}
				systray.Quit()
				return
			}
		}
	}()
}

func onExit() {
	log.Printf("tray: exited")
}

// UpdateTooltip sets the tray tooltip text.
func UpdateTooltip(tt string) {
	mu.Lock()
	tooltip = tt
	ok := ready
	mu.Unlock()
	if ok {
		systray.SetTooltip(tt)
	}
}

// SetAboutExtra records runtime details (resident port and such) shown
// in the About text.
func SetAboutExtra(extra string) {
	mu.Lock()
	aboutExtra = extra
	mu.Unlock()
}

// AboutExtra returns the extra About text set at startup.
func AboutExtra() string {
	mu.Lock()
	defer mu.Unlock()
	return aboutExtra
}
