// Package ui contains the Fyne desktop window: paste a link, fetch its
// metadata, pick a format and folder, then follow one download with progress,
// cancel and reveal actions. All strings are localized via Localization.
package ui
