package ui

import (
	"MouseKm/control"
	"MouseKm/distance"
	"MouseKm/i18n"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// UI constants
const (
	TitleSize    float32 = 22
	DistanceSize float32 = 28
	WindowWidth          = 360
	WindowHeight         = 220
	CornerRadius         = 12.0
)

// App is what the UI needs from the application.
type App interface {
	Snapshot() distance.Snapshot
	// EnqueueCommand reports false when the command was dropped.
	EnqueueCommand(cmd control.Command) bool
}

// DistanceView is the distance card plus the reset confirmation overlay.
type DistanceView struct {
	app App

	distanceText  *canvas.Text
	resetButton   *widget.Button
	cancelButton  *widget.Button
	confirmButton *widget.Button
	confirmPopUp  *widget.PopUp
	content       fyne.CanvasObject
}

// NewDistanceView builds the card. The overlay is attached to c.
func NewDistanceView(a App, c fyne.Canvas) *DistanceView {
	v := &DistanceView{app: a}

	title := canvas.NewText(i18n.T("Mouse Distance Tracker"), color.White)
	title.TextStyle.Bold = true
	title.TextSize = TitleSize
	title.Alignment = fyne.TextAlignCenter

	v.distanceText = canvas.NewText(distance.Format(a.Snapshot().Distance), AccentColor)
	v.distanceText.TextStyle.Bold = true
	v.distanceText.TextSize = DistanceSize

	travelled := container.NewHBox(
		layout.NewSpacer(),
		widget.NewLabel(i18n.T("You have travelled:")),
		v.distanceText,
		layout.NewSpacer(),
	)

	v.resetButton = widget.NewButton(i18n.T("Reset counter"), func() {
		v.send(control.CmdRequestReset)
	})

	background := canvas.NewRectangle(CardColor)
	background.CornerRadius = CornerRadius

	card := container.NewStack(background, container.NewPadded(container.NewVBox(
		title,
		travelled,
		container.NewCenter(v.resetButton),
	)))
	v.content = container.NewPadded(card)

	v.confirmPopUp = widget.NewModalPopUp(v.buildConfirm(), c)
	return v
}

func (v *DistanceView) buildConfirm() fyne.CanvasObject {
	heading := widget.NewLabelWithStyle(i18n.T("Are you sure?"), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	message := widget.NewLabelWithStyle(i18n.T("Do you really want to reset the counter?"), fyne.TextAlignCenter, fyne.TextStyle{})

	v.cancelButton = widget.NewButton(i18n.T("Cancel"), func() {
		v.send(control.CmdCancelReset)
	})
	v.confirmButton = widget.NewButton(i18n.T("Yes, reset"), v.confirm)
	v.confirmButton.Importance = widget.DangerImportance

	return container.NewVBox(
		heading,
		message,
		container.NewHBox(layout.NewSpacer(), v.cancelButton, v.confirmButton, layout.NewSpacer()),
	)
}

// confirm disables the button until the reset call has answered so a slow
// backend cannot be hit twice from a double click.
func (v *DistanceView) confirm() {
	v.confirmButton.Disable()
	reply := make(chan error, 1)
	if !v.app.EnqueueCommand(control.Command{Type: control.CmdConfirmReset, Reply: reply}) {
		v.confirmButton.Enable()
		return
	}

	go func() {
		if err := <-reply; err != nil {
			log.Printf("Reset not applied: %v", err)
		}
		fyne.Do(func() {
			v.confirmButton.Enable()
		})
	}()
}

func (v *DistanceView) send(t control.CommandType) {
	v.app.EnqueueCommand(control.Command{Type: t})
}

// Content returns the root canvas object of the card.
func (v *DistanceView) Content() fyne.CanvasObject {
	return v.content
}

// Update renders s. Safe to call from any goroutine.
func (v *DistanceView) Update(s distance.Snapshot) {
	fyne.Do(func() {
		v.distanceText.Text = distance.Format(s.Distance)
		v.distanceText.Refresh()

		switch s.State {
		case distance.Confirming:
			if v.confirmPopUp.Hidden {
				v.confirmPopUp.Show()
			}
		case distance.Idle:
			if !v.confirmPopUp.Hidden {
				v.confirmPopUp.Hide()
			}
		}
	})
}

// HandleKeyRune maps 'r' to the reset button.
func (v *DistanceView) HandleKeyRune(r rune) {
	switch r {
	case 'r', 'R':
		if v.confirmPopUp.Hidden {
			v.resetButton.Tapped(&fyne.PointEvent{})
		}
	}
}

// HandleKey maps Escape and Enter to the overlay buttons.
func (v *DistanceView) HandleKey(ev *fyne.KeyEvent) {
	if v.confirmPopUp.Hidden {
		return
	}
	switch ev.Name {
	case fyne.KeyEscape:
		v.cancelButton.Tapped(&fyne.PointEvent{})
	case fyne.KeyReturn, fyne.KeyEnter:
		if !v.confirmButton.Disabled() {
			v.confirmButton.Tapped(&fyne.PointEvent{})
		}
	}
}

// CreateMainWindow builds the fixed-size main window around a DistanceView.
func CreateMainWindow(a App, fyneApp fyne.App) (fyne.Window, *DistanceView) {
	title := fyneApp.Metadata().Name
	if title == "" {
		title = i18n.T("Mouse Distance Tracker")
	}
	w := fyneApp.NewWindow(title)

	v := NewDistanceView(a, w.Canvas())
	w.Canvas().SetOnTypedRune(v.HandleKeyRune)
	w.Canvas().SetOnTypedKey(v.HandleKey)

	w.SetContent(v.Content())
	w.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	w.SetFixedSize(true)
	return w, v
}
