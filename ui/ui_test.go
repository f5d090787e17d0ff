package ui

import (
	"MouseKm/control"
	"MouseKm/distance"
	"context"
	"errors"
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
)

type fakeBackend struct {
	mu       sync.Mutex
	km       float64
	resetErr error
	resets   int
}

func (b *fakeBackend) ReadDistance(ctx context.Context) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.km, nil
}

func (b *fakeBackend) ResetDistance(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resets++
	if b.resetErr != nil {
		return b.resetErr
	}
	b.km = 0
	return nil
}

// syncApp applies commands inline, standing in for the command loop.
type syncApp struct {
	meter *distance.Meter
}

func (a *syncApp) Snapshot() distance.Snapshot {
	return a.meter.Snapshot()
}

func (a *syncApp) EnqueueCommand(cmd control.Command) bool {
	var err error
	switch cmd.Type {
	case control.CmdRequestReset:
		a.meter.RequestReset()
	case control.CmdCancelReset:
		a.meter.CancelReset()
	case control.CmdConfirmReset:
		err = a.meter.ConfirmReset(context.Background())
	}
	if cmd.Reply != nil {
		cmd.Reply <- err
	}
	return true
}

// droppingApp loses every command, like a command loop that never drains.
type droppingApp struct {
	dropped int
}

func (a *droppingApp) Snapshot() distance.Snapshot {
	return distance.Snapshot{State: distance.Confirming}
}

func (a *droppingApp) EnqueueCommand(cmd control.Command) bool {
	a.dropped++
	return false
}

func newTestView(t *testing.T, b *fakeBackend) (*DistanceView, *distance.Meter) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	m := distance.NewMeter(b)
	w := test.NewWindow(widget.NewLabel(""))
	t.Cleanup(w.Close)

	v := NewDistanceView(&syncApp{meter: m}, w.Canvas())
	m.OnChange(v.Update)
	w.SetContent(v.Content())
	return v, m
}

func TestViewShowsPolledDistance(t *testing.T) {
	b := &fakeBackend{km: 1.234}
	v, m := newTestView(t, b)

	if v.distanceText.Text != "0.000 km" {
		t.Fatalf("expected initial 0.000 km, got %q", v.distanceText.Text)
	}

	m.Poll(context.Background())
	if v.distanceText.Text != "1.234 km" {
		t.Fatalf("expected 1.234 km, got %q", v.distanceText.Text)
	}
}

func TestResetThenCancel(t *testing.T) {
	b := &fakeBackend{km: 2.5}
	v, m := newTestView(t, b)
	m.Poll(context.Background())

	test.Tap(v.resetButton)
	if v.confirmPopUp.Hidden {
		t.Fatal("expected confirmation overlay to be visible")
	}

	test.Tap(v.cancelButton)
	if !v.confirmPopUp.Hidden {
		t.Fatal("expected confirmation overlay to be hidden after cancel")
	}
	if v.distanceText.Text != "2.500 km" {
		t.Fatalf("expected distance unchanged, got %q", v.distanceText.Text)
	}
	if b.resets != 0 {
		t.Fatalf("expected no reset calls, got %d", b.resets)
	}
}

func TestResetThenConfirm(t *testing.T) {
	b := &fakeBackend{km: 1.234}
	v, m := newTestView(t, b)
	m.Poll(context.Background())

	test.Tap(v.resetButton)
	test.Tap(v.confirmButton)

	if v.distanceText.Text != "0.000 km" {
		t.Fatalf("expected 0.000 km, got %q", v.distanceText.Text)
	}
	if !v.confirmPopUp.Hidden {
		t.Fatal("expected dialog to close after a successful reset")
	}
	if m.State() != distance.Idle {
		t.Fatalf("expected idle, got %v", m.State())
	}
}

func TestFailedResetKeepsDialogOpen(t *testing.T) {
	b := &fakeBackend{km: 3, resetErr: errors.New("write failed")}
	v, m := newTestView(t, b)
	m.Poll(context.Background())

	test.Tap(v.resetButton)
	test.Tap(v.confirmButton)

	if v.confirmPopUp.Hidden {
		t.Fatal("expected dialog to stay open after a failed reset")
	}
	if v.distanceText.Text != "3.000 km" {
		t.Fatalf("expected distance unchanged, got %q", v.distanceText.Text)
	}
	if m.State() != distance.Confirming {
		t.Fatalf("expected confirming, got %v", m.State())
	}
}

func TestKeyboardShortcuts(t *testing.T) {
	b := &fakeBackend{km: 1}
	v, m := newTestView(t, b)
	m.Poll(context.Background())

	v.HandleKeyRune('r')
	if m.State() != distance.Confirming {
		t.Fatalf("expected 'r' to open the confirmation, got %v", m.State())
	}

	v.HandleKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	if m.State() != distance.Idle {
		t.Fatalf("expected Escape to cancel, got %v", m.State())
	}
	if b.resets != 0 {
		t.Fatalf("expected no reset calls, got %d", b.resets)
	}
}

func TestTrayLabelFollowsDistance(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	tray := NewTray(func() {}, func() {}, func() {})
	if tray.Label() != "0.000 km" {
		t.Fatalf("expected 0.000 km, got %q", tray.Label())
	}

	tray.Update(distance.Snapshot{Distance: 12.3456})
	if tray.Label() != "12.346 km" {
		t.Fatalf("expected 12.346 km, got %q", tray.Label())
	}
}

func TestDroppedConfirmReenablesButton(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	w := test.NewWindow(widget.NewLabel(""))
	defer w.Close()

	app := &droppingApp{}
	v := NewDistanceView(app, w.Canvas())
	w.SetContent(v.Content())

	test.Tap(v.confirmButton)
	if v.confirmButton.Disabled() {
		t.Fatal("expected confirm button to be usable again after a dropped command")
	}

	test.Tap(v.confirmButton)
	if app.dropped != 2 {
		t.Fatalf("expected both clicks to reach the app, got %d", app.dropped)
	}
}
