package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconFolder   = "📁"
	IconError    = "❌"
	IconPaste    = "📋"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	ProgressLabelFormat = "%.0f%%"
)

// Layout sizing
const (
	StatusLabelWidth  float32 = 120
	SpeedLabelWidth   float32 = 180
	PercentLabelWidth float32 = 48

	RowMinWidth  float32 = 400
	RowMinHeight float32 = 96

	InfoThumbnailSize float32 = 96
)

// Dialog sizing
const (
	SettingsDialogWidth  float32 = 520
	SettingsDialogHeight float32 = 420
)

// Delays
const (
	NotificationAutoHide = 4 * time.Second
	ShutdownTimeout      = 10 * time.Second
)
