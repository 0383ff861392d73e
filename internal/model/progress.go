package model

import (
	"fmt"
	"strconv"
)

// UnknownDisplay is shown for any progress field the tool did not report or
// that could not be parsed
const UnknownDisplay = "--"

// Time formatting constants
const (
	SecondsPerHour   = 3600
	SecondsPerMinute = 60
)

// DownloadProgress is one progress snapshot of the active download
type DownloadProgress struct {
	Percent    float64 `json:"percent"` // 0 to 100
	Speed      string  `json:"speed"`   // e.g. "2.3MiB/s"
	ETA        string  `json:"eta"`
	Downloaded string  `json:"downloaded"`
	Total      string  `json:"total"`
}

// Fraction returns Percent scaled to 0.0..1.0 for progress bars
func (p DownloadProgress) Fraction() float64 {
	switch {
	case p.Percent <= 0:
		return 0
	case p.Percent >= 100:
		return 1
	default:
		return p.Percent / 100
	}
}

// String renders the snapshot on one line
func (p DownloadProgress) String() string {
	return fmt.Sprintf("%5.1f%% %s / %s at %s ETA %s", p.Percent, p.Downloaded, p.Total, p.Speed, p.ETA)
}

// FormatETA returns seconds formatted as mm:ss or hh:mm:ss, UnknownDisplay if negative
func FormatETA(seconds int) string {
	if seconds < 0 {
		return UnknownDisplay
	}

	hours := seconds / SecondsPerHour
	minutes := (seconds % SecondsPerHour) / SecondsPerMinute
	secs := seconds % SecondsPerMinute

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// FormatDuration renders a media duration in seconds, "0:00" style like yt-dlp's duration_string
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "0:00"
	}
	total := int(seconds + 0.5)
	hours := total / SecondsPerHour
	minutes := (total % SecondsPerHour) / SecondsPerMinute
	secs := total % SecondsPerMinute
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

var iecUnits = []string{"B", "KiB", "MiB", "GiB", "TiB"}

// FormatBytes renders a byte count with IEC units, e.g. "2.3MiB", matching
// the way yt-dlp prints sizes
func FormatBytes(n float64) string {
	if n < 0 {
		return UnknownDisplay
	}
	unit := 0
	for n >= 1024 && unit < len(iecUnits)-1 {
		n /= 1024
		unit++
	}
	if unit == 0 {
		return strconv.FormatFloat(n, 'f', 0, 64) + iecUnits[unit]
	}
	return strconv.FormatFloat(n, 'f', 1, 64) + iecUnits[unit]
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize renders a file size for format listings, e.g. "12.4 MB"
func FormatFileSize(bytes uint64) string {
	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", size, sizeUnits[unit])
}
