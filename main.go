package main

import (
	"MouseKm/config"
	"MouseKm/i18n"
	"MouseKm/logutil"
	"MouseKm/tracker"
	"MouseKm/ui"
	"context"
	"embed"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

//go:embed assets/*
var content embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dataFile := cfg.DataFile
	if dataFile == "" {
		dataFile = tracker.DefaultPath()
	}

	logCloser := logutil.Setup(cfg.EnableFileLogging, filepath.Dir(dataFile))
	defer logCloser.Close()

	if cfg.Lang != "" {
		i18n.SetLang(cfg.Lang)
	}

	fyneApp := app.NewWithID("io.mousekm.tracker")

	var icon fyne.Resource
	if iconBytes, err := content.ReadFile("assets/icon.svg"); err == nil {
		icon = fyne.NewStaticResource("icon.svg", iconBytes)
		fyneApp.SetIcon(icon)
	} else {
		log.Printf("Failed to load icon. %v", err)
	}

	fyneApp.Settings().SetTheme(ui.NewCustomTheme())

	tr := tracker.New(tracker.Config{
		MetersPerPixel: cfg.MetersPerPixel,
		SampleInterval: cfg.SampleInterval,
		SaveInterval:   cfg.SaveInterval,
	}, tracker.SystemCursor{}, tracker.NewStore(dataFile))

	a := NewAppManager(tr, cfg.EnableSound)

	w, view := ui.CreateMainWindow(a, fyneApp)
	a.AttachView(w, view)

	if desk, ok := fyneApp.(desktop.App); ok {
		tray := ui.NewTray(a.ShowWindow, a.ShowResetConfirmation, fyneApp.Quit)
		desk.SetSystemTrayMenu(tray.Menu())
		if icon != nil {
			desk.SetSystemTrayIcon(icon)
		}
		a.AttachTray(tray)
	}

	ctx, cancel := context.WithCancel(context.Background())
	trackerDone := make(chan struct{})
	go func() {
		tr.Run(ctx)
		close(trackerDone)
	}()

	a.Start(ctx)
	w.SetOnClosed(func() {
		a.Stop()
		cancel()
	})

	w.ShowAndRun()

	a.Shutdown()
	cancel()
	<-trackerDone
}
