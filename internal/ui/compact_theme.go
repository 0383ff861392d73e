package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Accent colors
var (
	accentLight = color.NRGBA{R: 229, G: 57, B: 53, A: 255}
	accentDark  = color.NRGBA{R: 239, G: 83, B: 80, A: 255}
	successTint = color.NRGBA{R: 46, G: 160, B: 67, A: 255}
	warningTint = color.NRGBA{R: 245, G: 166, B: 35, A: 255}
)

// CompactTheme is the default theme with a red accent and tighter spacing,
// so the single-window layout fits a small window
type CompactTheme struct {
	base fyne.Theme
}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{base: theme.DefaultTheme()}
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		if variant == theme.VariantDark {
			return accentDark
		}
		return accentLight
	case theme.ColorNameSuccess:
		return successTint
	case theme.ColorNameWarning:
		return warningTint
	}
	return t.base.Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameInputRadius, theme.SizeNameSelectionRadius:
		return 4
	}
	return t.base.Size(name)
}
