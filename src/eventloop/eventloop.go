package eventloop

import (
	"context"
	"fmt"
	"log"

	"shotpin/src/hotkey"
	"shotpin/src/singleinstance"
	"shotpin/src/tray"
)

// App is the surface the loop drives. Implementations marshal calls
// onto their own UI thread.
type App interface {
	TriggerCapture()
	ShowAbout()
	Quit()
}

// Command is a tray or menu action posted into the loop.
type Command int

const (
	CmdCapture Command = iota
	CmdAbout
	CmdQuit
)

// Loop is the single-threaded coordinator for hotkey, tray and
// run-once events.
type Loop struct {
	app            App
	srv            singleinstance.Server
	hotkeyCh       chan struct{}
	commands       chan Command
	defaultTooltip string
}

// New creates an event loop driving the given app.
func New(app App) *Loop {
	return &Loop{
		app:            app,
		hotkeyCh:       make(chan struct{}, 4),
		commands:       make(chan Command, 4),
		defaultTooltip: "ShotPin",
	}
}

// SetDefaultTooltip optionally sets the tray tooltip base text.
func (l *Loop) SetDefaultTooltip(tt string) { l.defaultTooltip = tt }

// StartHotkey registers a global hotkey and posts events into the loop.
func (l *Loop) StartHotkey(combo string) {
	if combo == "" {
		return
	}
	hotkey.Listen(combo, func() {
		select {
		case l.hotkeyCh <- struct{}{}:
		default:
		}
	})
}

// Post queues a tray command. Dropped when the loop is saturated.
func (l *Loop) Post(cmd Command) {
	select {
	case l.commands <- cmd:
	default:
		log.Printf("eventloop: dropped command %d", cmd)
	}
}

// Run starts the singleinstance server and dispatches events until ctx
// is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.srv = singleinstance.NewServer()
	if err := l.srv.Start(ctx); err != nil {
		return err
	}
	defer l.srv.Close()
	if p := l.srv.Port(); p > 0 {
		log.Printf("eventloop: resident listening on 127.0.0.1:%d", p)
		tray.SetAboutExtra(fmt.Sprintf("Resident TCP port: %d", p))
	}
	tray.UpdateTooltip(l.defaultTooltip)

	// Requests surface in the background so command handling never
	// blocks the accept path.
	reqCh := make(chan singleinstance.Request, 4)
	go func() {
		for {
			req, err := l.srv.Next(ctx)
			if err != nil {
				close(reqCh)
				return
			}
			reqCh <- req
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.hotkeyCh:
			log.Printf("eventloop: hotkey")
			l.app.TriggerCapture()
		case req, ok := <-reqCh:
			if !ok {
				return nil
			}
			log.Printf("eventloop: run-once request from %s", req.Remote)
			l.app.ShowAbout()
		case cmd := <-l.commands:
			l.dispatch(cmd)
		}
	}
}

func (l *Loop) dispatch(cmd Command) {
	switch cmd {
	case CmdCapture:
		l.app.TriggerCapture()
	case CmdAbout:
		l.app.ShowAbout()
	case CmdQuit:
		l.app.Quit()
	}
}
