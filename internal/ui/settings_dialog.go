package ui

import (
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/vidgrab/internal/config"
	"github.com/ytget/vidgrab/internal/logger"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	downloadDirEntry *widget.Entry
	ytdlpEntry       *widget.Entry
	filenameEntry    *widget.Entry
	languageSelect   *widget.Select
	autoRevealCheck  *widget.Check

	// language display name to code
	languageCodes map[string]string
}

// ShowSettingsDialog builds and shows the settings dialog. onSaved runs after
// the new values are stored.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) {
	NewSettingsDialog(settings, localization, window, onSaved).Show()
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	l := sd.localization

	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(l.GetText(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.ytdlpEntry = widget.NewEntry()
	sd.ytdlpEntry.SetPlaceHolder(l.GetText(KeyAutoDetect))
	browseToolBtn := widget.NewButton(l.GetText(KeyBrowse), sd.onBrowseExecutable)
	ytdlpRow := container.NewBorder(nil, nil, nil, browseToolBtn, sd.ytdlpEntry)

	sd.filenameEntry = widget.NewEntry()
	sd.filenameEntry.SetPlaceHolder(config.DefaultFilenameTemplate)

	sd.languageCodes = make(map[string]string)
	var languageNames []string
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
		languageNames = append(languageNames, name)
	}
	sort.Strings(languageNames)
	sd.languageSelect = widget.NewSelect(languageNames, nil)

	sd.autoRevealCheck = widget.NewCheck(l.GetText(KeyAutoReveal), nil)

	form := widget.NewForm(
		widget.NewFormItem(l.GetText(KeyDownloadDirectory), downloadDirRow),
		widget.NewFormItem(l.GetText(KeyYTDLPPath), ytdlpRow),
		widget.NewFormItem(l.GetText(KeyFilenameTemplate), sd.filenameEntry),
		widget.NewFormItem(l.GetText(KeyLanguage), sd.languageSelect),
		widget.NewFormItem("", sd.autoRevealCheck),
	)

	sd.dialog = dialog.NewCustomConfirm(
		l.GetText(KeySettings),
		l.GetText(KeySave),
		l.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.ytdlpEntry.SetText(sd.settings.GetYTDLPPath())
	sd.filenameEntry.SetText(sd.settings.GetFilenameTemplate())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())

	current := sd.settings.GetLanguage()
	for name, code := range sd.languageCodes {
		if code == current {
			sd.languageSelect.SetSelected(name)
			break
		}
	}
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onBrowseExecutable lets the user pick the yt-dlp executable
func (sd *SettingsDialog) onBrowseExecutable() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		sd.ytdlpEntry.SetText(reader.URI().Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if dir := strings.TrimSpace(sd.downloadDirEntry.Text); dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}

	// empty restores auto-detection
	sd.settings.SetYTDLPPath(strings.TrimSpace(sd.ytdlpEntry.Text))
	sd.settings.SetFilenameTemplate(strings.TrimSpace(sd.filenameEntry.Text))
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)

	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}

	logger.Info("Settings saved",
		"download_dir", sd.settings.GetDownloadDirectory(),
		"ytdlp", sd.settings.GetYTDLPPath(),
		"template", sd.settings.GetFilenameTemplate(),
		"language", sd.settings.GetLanguage())

	if sd.onSaved != nil {
		sd.onSaved()
	}
}
