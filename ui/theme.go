package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var (
	// AccentColor highlights the distance value and the primary button.
	AccentColor = color.NRGBA{R: 0x3d, G: 0xa5, B: 0xf4, A: 0xff}
	// CardColor is the background of the distance card.
	CardColor = color.NRGBA{R: 0x24, G: 0x28, B: 0x30, A: 0xff}
)

// CustomTheme keeps the default theme and swaps in the application accent.
type CustomTheme struct {
	fyne.Theme
}

// NewCustomTheme creates a new instance of the custom theme.
func NewCustomTheme() fyne.Theme {
	return &CustomTheme{Theme: theme.DefaultTheme()}
}

// Color returns the accent for primary and focus colors, the default otherwise.
func (t *CustomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return AccentColor
	}
	return t.Theme.Color(name, variant)
}
