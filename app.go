// Package main contains the application wiring and the AppManager which
// coordinates the tracker, the distance meter, the poller, the tray and the
// UI.
//
// Maintenance notes / tips:
//   - Concurrency model: the Poller ticks on its own goroutine and calls
//     Meter.Poll; UI actions go through `cmdCh` to a single command-loop
//     goroutine (see `commandLoop`) which calls the Meter reset methods. The
//     Meter serializes backend calls itself, so a poll and a reset are never
//     in flight together.
//   - `cmdCh` is buffered. EnqueueCommand drops a command (logs and returns
//     false) if the buffer stays full for a short while rather than blocking
//     the UI.
//   - UI widgets are only touched inside fyne.Do; Meter listeners fire on
//     whatever goroutine made the change.
package main

import (
	"MouseKm/control"
	"MouseKm/distance"
	"MouseKm/tracker"
	"MouseKm/ui"
	"context"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate beep.SampleRate = 44100

// AppManager is the main application struct, holding all state.
type AppManager struct {
	mainWindow fyne.Window

	tracker *tracker.Tracker
	meter   *distance.Meter
	poller  *distance.Poller

	cmdCh     chan control.Command
	cmdCtx    context.Context
	cmdCancel context.CancelFunc
	loopDone  chan struct{}

	chime       *beep.Buffer
	speakerLock sync.Mutex
}

// NewAppManager creates a new application manager around a running tracker.
func NewAppManager(t *tracker.Tracker, enableSound bool) *AppManager {
	a := &AppManager{tracker: t}
	a.meter = distance.NewMeter(t)
	a.poller = distance.NewPoller(a.meter, distance.DefaultPollInterval)

	if enableSound {
		a.loadChime()
	}

	a.cmdCh = make(chan control.Command, 16)
	a.cmdCtx, a.cmdCancel = context.WithCancel(context.Background())
	a.loopDone = make(chan struct{})
	go a.commandLoop()

	return a
}

// Snapshot returns the state shown by the UI.
func (a *AppManager) Snapshot() distance.Snapshot {
	return a.meter.Snapshot()
}

// EnqueueCommand posts a command to the internal command loop. It returns
// false when the loop is stopped or stays busy and the command is dropped.
func (a *AppManager) EnqueueCommand(cmd control.Command) bool {
	if a.cmdCtx.Err() != nil {
		log.Printf("EnqueueCommand after shutdown: dropping %s command", cmd.Type)
		return false
	}
	select {
	case a.cmdCh <- cmd:
		return true
	case <-time.After(150 * time.Millisecond):
		log.Printf("EnqueueCommand timeout: dropping %s command", cmd.Type)
		return false
	}
}

func (a *AppManager) commandLoop() {
	defer close(a.loopDone)
	for {
		select {
		case <-a.cmdCtx.Done():
			return
		case cmd := <-a.cmdCh:
			var err error
			switch cmd.Type {
			case control.CmdRequestReset:
				a.meter.RequestReset()
			case control.CmdCancelReset:
				a.meter.CancelReset()
			case control.CmdConfirmReset:
				if err = a.meter.ConfirmReset(a.cmdCtx); err == nil {
					a.PlayChime()
				}
			}
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- err:
				default:
				}
			}
		}
	}
}

// AttachView wires the window and view so meter changes reach the screen.
func (a *AppManager) AttachView(w fyne.Window, v *ui.DistanceView) {
	a.mainWindow = w
	a.meter.OnChange(v.Update)
}

// AttachTray wires the tray menu so its distance line follows the meter.
func (a *AppManager) AttachTray(t *ui.Tray) {
	a.meter.OnChange(t.Update)
}

// ShowWindow brings the main window to the front.
func (a *AppManager) ShowWindow() {
	if a.mainWindow == nil {
		return
	}
	fyne.Do(func() {
		a.mainWindow.Show()
		a.mainWindow.RequestFocus()
	})
}

// ShowResetConfirmation shows the window and opens the confirmation gate.
// Used by the tray, which has no overlay of its own.
func (a *AppManager) ShowResetConfirmation() {
	a.ShowWindow()
	a.EnqueueCommand(control.Command{Type: control.CmdRequestReset})
}

// Start begins polling. Called once the window is about to be shown.
func (a *AppManager) Start(ctx context.Context) {
	a.poller.Start(ctx)
}

// Stop tears the poll timer down. Safe to call more than once.
func (a *AppManager) Stop() {
	a.poller.Stop()
}

func (a *AppManager) loadChime() {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("Audio disabled: Failed to initialize speaker: %v\n", err)
		return
	}

	buffer, err := newChime(sampleRate)
	if err != nil {
		log.Printf("Failed to build reset chime: %v", err)
		return
	}
	a.chime = buffer
}

// newChime renders two short rising tones into a buffer.
func newChime(sr beep.SampleRate) (*beep.Buffer, error) {
	low, err := generators.SineTone(sr, 660)
	if err != nil {
		return nil, err
	}
	high, err := generators.SineTone(sr, 880)
	if err != nil {
		return nil, err
	}

	note := sr.N(120 * time.Millisecond)
	tones := beep.Seq(beep.Take(note, low), beep.Take(note, high))

	buffer := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	buffer.Append(&effects.Volume{Streamer: tones, Base: 2, Volume: -2})
	return buffer, nil
}

// PlayChime plays the reset chime when audio is available.
func (a *AppManager) PlayChime() {
	if a.chime == nil {
		return
	}

	a.speakerLock.Lock()
	defer a.speakerLock.Unlock()

	speaker.Play(a.chime.Streamer(0, a.chime.Len()))
}

// Shutdown stops polling and the command loop. The tracker saves the counter
// itself when its context is cancelled.
func (a *AppManager) Shutdown() {
	a.Stop()
	if a.cmdCancel != nil {
		a.cmdCancel()
		<-a.loopDone
	}
}
