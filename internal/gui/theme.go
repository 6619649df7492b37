package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// edgeTheme keeps the default theme but takes its accent from the edge
// overlay colour, so highlighted controls match the marked pixels.
type edgeTheme struct {
	fyne.Theme
}

func NewTheme() fyne.Theme {
	return edgeTheme{Theme: theme.DefaultTheme()}
}

func (t edgeTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	dark := variant == theme.VariantDark

	switch name {
	case theme.ColorNameBackground:
		if dark {
			return color.RGBA{R: 30, G: 30, B: 30, A: 255}
		}
		return color.RGBA{R: 250, G: 249, B: 245, A: 255}
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		if dark {
			return color.RGBA{R: 96, G: 255, B: 96, A: 255}
		}
		return color.RGBA{R: 0, G: 150, B: 40, A: 255}
	case theme.ColorNameSelection:
		return color.RGBA{G: 255, A: 64}
	default:
		return t.Theme.Color(name, variant)
	}
}
