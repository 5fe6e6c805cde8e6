package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"shotpin/src/annotate"
	"shotpin/src/config"
	"shotpin/src/eventloop"
	"shotpin/src/export"
	"shotpin/src/logutil"
	"shotpin/src/session"
	"shotpin/src/singleinstance"
	"shotpin/src/tray"
	"shotpin/src/ui"
)

func main() {
	// DPI awareness must precede any window or metrics query.
	enableDPIAwareness()
	runtime.LockOSThread()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	logutil.Setup(cfg.EnableFileLogging)
	logMonitorConfiguration()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A second invocation hands itself to the resident and exits.
	if singleinstance.NewClient().Notify(ctx) {
		log.Printf("resident took the request, exiting")
		fmt.Println("shotpin is already running")
		return
	}

	log.Printf("shotpin starting, hotkey %s", cfg.Hotkey)

	appUI := ui.New()
	appUI.SetHotkey(cfg.Hotkey)
	appUI.SetStyle(annotate.Style{
		Color:    cfg.PenColor,
		Width:    cfg.PenWidth,
		FontSize: cfg.FontSize,
	})

	ctrl := session.New(session.Options{
		Presenter:    appUI,
		Exporter:     export.NewSink(cfg.SaveDir),
		MaxHistory:   cfg.MaxHistory,
		MaxGallery:   cfg.MaxGallery,
		MinSelection: cfg.MinSelection,
	})
	appUI.SetController(ctrl)

	loop := eventloop.New(appUI)
	loop.SetDefaultTooltip(fmt.Sprintf("ShotPin - Press %s to capture", cfg.Hotkey))
	loop.StartHotkey(cfg.Hotkey)

	go func() {
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("event loop stopped: %v", err)
		}
	}()

	go tray.Run(tray.Callbacks{
		OnCapture: func() { loop.Post(eventloop.CmdCapture) },
		OnAbout:   func() { loop.Post(eventloop.CmdAbout) },
		OnQuit:    func() { loop.Post(eventloop.CmdQuit) },
	})

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		appUI.Quit()
	}()

	// The toolkit owns the main thread until quit.
	appUI.Run()

	cancel()
	tray.Quit()
	log.Printf("shotpin exited")
}
