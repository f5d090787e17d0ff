package ui

import (
	"MouseKm/distance"
	"MouseKm/i18n"

	"fyne.io/fyne/v2"
)

// Tray is the system tray menu. The first item is a read-only line with the
// current distance, mirroring the window.
type Tray struct {
	menu         *fyne.Menu
	distanceItem *fyne.MenuItem
}

// NewTray builds the menu. onReset is expected to show the window and open
// the confirmation gate; onQuit shuts the application down.
func NewTray(onShow, onReset, onQuit func()) *Tray {
	t := &Tray{}

	t.distanceItem = fyne.NewMenuItem(distance.Format(0), nil)
	t.distanceItem.Disabled = true

	quit := fyne.NewMenuItem(i18n.T("Quit"), onQuit)
	quit.IsQuit = true

	t.menu = fyne.NewMenu("MouseKm",
		t.distanceItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(i18n.T("Show"), onShow),
		fyne.NewMenuItem(i18n.T("Reset"), onReset),
		quit,
	)
	return t
}

// Menu returns the menu to hand to desktop.App.SetSystemTrayMenu.
func (t *Tray) Menu() *fyne.Menu {
	return t.menu
}

// Label returns the text of the distance line.
func (t *Tray) Label() string {
	return t.distanceItem.Label
}

// Update refreshes the distance line when it changed.
func (t *Tray) Update(s distance.Snapshot) {
	label := distance.Format(s.Distance)
	fyne.Do(func() {
		if t.distanceItem.Label == label {
			return
		}
		t.distanceItem.Label = label
		t.menu.Refresh()
	})
}
