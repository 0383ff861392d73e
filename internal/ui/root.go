package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/vidgrab/internal/config"
	"github.com/ytget/vidgrab/internal/engine"
	"github.com/ytget/vidgrab/internal/logger"
	"github.com/ytget/vidgrab/internal/metadata"
	"github.com/ytget/vidgrab/internal/model"
	"github.com/ytget/vidgrab/internal/platform"
)

// Backend is the part of the engine the window drives
type Backend interface {
	FetchInfo(ctx context.Context, url string) (*model.VideoInfo, error)
	StartDownload(ctx context.Context, videoID, formatID, savePath string) *engine.Transfer
	CancelDownload()
	SetOutputTemplate(template string)
}

var _ Backend = (*engine.Engine)(nil)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	backend      Backend
	settings     *config.Settings
	localization *Localization

	// URL row
	urlEntry    *widget.Entry
	fetchBtn    *widget.Button
	pasteBtn    *widget.Button
	settingsBtn *widget.Button

	// Video info
	infoTitle    *widget.Label
	infoMeta     *widget.Label
	formatLabel  *widget.Label
	formatSelect *widget.Select

	// Destination
	dirLabel      *widget.Label
	dirEntry      *widget.Entry
	browseBtn     *widget.Button
	openFolderBtn *widget.Button
	downloadBtn   *widget.Button

	transferRow *TransferRow

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite

	mu          sync.Mutex
	info        *model.VideoInfo
	fetchCancel context.CancelFunc
	busy        bool
	noticeGen   int
}

// NewRootUI creates and initializes the main window content
func NewRootUI(window fyne.Window, app fyne.App, backend Backend, settings *config.Settings) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		backend:      backend,
		settings:     settings,
		localization: localization,
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	l := ui.localization
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(l.GetText(KeyEnterURL))
	ui.urlEntry.OnSubmitted = func(string) { ui.onFetchClick() }
	ui.fetchBtn = widget.NewButton(l.GetText(KeyFetch), ui.onFetchClick)
	ui.fetchBtn.Importance = widget.HighImportance
	ui.settingsBtn = widget.NewButton(IconSettings, ui.onShowSettings)
	ui.settingsBtn.Importance = widget.LowImportance
	ui.pasteBtn = widget.NewButton(IconPaste, ui.onPasteClick)
	ui.pasteBtn.Importance = widget.LowImportance
	urlRow := container.NewBorder(nil, nil, ui.settingsBtn, container.NewHBox(ui.pasteBtn, ui.fetchBtn), ui.urlEntry)

	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Wrapping = fyne.TextWrapWord
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewBorder(nil, nil, ui.notificationSpinner, nil, ui.notificationLabel)
	ui.notificationContainer.Hide()

	ui.infoTitle = widget.NewLabel("")
	ui.infoTitle.TextStyle = fyne.TextStyle{Bold: true}
	ui.infoTitle.Truncation = fyne.TextTruncateEllipsis
	ui.infoMeta = widget.NewLabel("")
	ui.formatLabel = widget.NewLabel(l.GetText(KeyFormat))
	ui.formatSelect = widget.NewSelect(nil, nil)
	ui.formatSelect.Disable()
	formatRow := container.NewBorder(nil, nil, ui.formatLabel, nil, ui.formatSelect)

	ui.dirLabel = widget.NewLabel(l.GetText(KeyDownloadDirectory))
	ui.dirEntry = widget.NewEntry()
	ui.dirEntry.SetText(ui.settings.GetDownloadDirectory())
	ui.browseBtn = widget.NewButton(l.GetText(KeyBrowse), ui.onBrowseDirectory)
	ui.openFolderBtn = widget.NewButton(IconFolder, ui.onOpenFolder)
	ui.openFolderBtn.Importance = widget.LowImportance
	dirRow := container.NewBorder(nil, nil, ui.dirLabel, container.NewHBox(ui.browseBtn, ui.openFolderBtn), ui.dirEntry)

	ui.downloadBtn = widget.NewButton(l.GetText(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.downloadBtn.Disable()

	ui.transferRow = NewTransferRow(l)
	ui.transferRow.SetCallbacks(ui.onCancelClick, ui.onRevealFile, ui.onCopyPath)

	content := container.NewVBox(
		urlRow,
		ui.notificationContainer,
		widget.NewSeparator(),
		ui.infoTitle,
		ui.infoMeta,
		formatRow,
		dirRow,
		container.NewBorder(nil, nil, nil, ui.downloadBtn),
		widget.NewSeparator(),
		ui.transferRow,
	)

	ui.window.SetContent(container.NewPadded(content))
	logger.Debug("UI setup completed")
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	l := ui.localization
	ui.window.SetTitle(l.GetText(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(l.GetText(KeyEnterURL))
	ui.fetchBtn.SetText(l.GetText(KeyFetch))
	ui.formatLabel.SetText(l.GetText(KeyFormat))
	ui.dirLabel.SetText(l.GetText(KeyDownloadDirectory))
	ui.browseBtn.SetText(l.GetText(KeyBrowse))
	ui.downloadBtn.SetText(l.GetText(KeyDownload))
	ui.transferRow.RefreshTexts()
}

// onPasteClick replaces the URL with the clipboard text
func (ui *RootUI) onPasteClick() {
	text := cleanText(ui.app.Clipboard().Content())
	if text == "" {
		return
	}
	ui.urlEntry.SetText(text)
	ui.window.Canvas().Focus(ui.urlEntry)
}

// onFetchClick validates the URL locally, then fetches metadata in the background
func (ui *RootUI) onFetchClick() {
	raw := cleanText(ui.urlEntry.Text)
	if raw == "" {
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterURL), false)
		return
	}
	if _, _, err := metadata.ValidateURL(raw); err != nil {
		ui.showError(err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ui.mu.Lock()
	if ui.fetchCancel != nil {
		ui.fetchCancel()
	}
	ui.fetchCancel = cancel
	ui.mu.Unlock()

	ui.fetchBtn.Disable()
	ui.showNotification(ui.localization.GetText(KeyFetchingInfo), true)

	go func() {
		info, err := ui.backend.FetchInfo(ctx, raw)
		fyne.Do(func() {
			ui.onInfoFetched(ctx, info, err)
		})
	}()
}

// onInfoFetched shows the result of a metadata lookup. Results of lookups
// superseded by a newer one are dropped.
func (ui *RootUI) onInfoFetched(ctx context.Context, info *model.VideoInfo, err error) {
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return
	}
	ui.fetchBtn.Enable()

	if err != nil {
		logger.Warn("Fetch info failed", "error", err)
		ui.showError(err)
		return
	}
	ui.hideNotification()
	ui.setInfo(info)
}

// setInfo fills the info panel and the format picker, best format first
func (ui *RootUI) setInfo(info *model.VideoInfo) {
	ui.mu.Lock()
	ui.info = info
	busy := ui.busy
	ui.mu.Unlock()

	ui.infoTitle.SetText(cleanText(info.Title))
	ui.infoMeta.SetText(infoDetails(info))

	labels := make([]string, len(info.Formats))
	for i, f := range info.Formats {
		labels[i] = f.Label()
	}
	ui.formatSelect.Options = labels
	ui.formatSelect.Enable()
	ui.formatSelect.SetSelectedIndex(0)

	if !busy {
		ui.downloadBtn.Enable()
	}
}

// infoDetails joins platform, author and duration
func infoDetails(info *model.VideoInfo) string {
	parts := []string{info.Platform.DisplayName()}
	if info.Author != "" {
		parts = append(parts, cleanText(info.Author))
	}
	if info.DurationDisplay != "" {
		parts = append(parts, info.DurationDisplay)
	}
	return strings.Join(parts, MiddleDotSeparator)
}

// selectedFormat returns the picked format, the best one when nothing is picked
func (ui *RootUI) selectedFormat(info *model.VideoInfo) (model.VideoFormat, bool) {
	idx := ui.formatSelect.SelectedIndex()
	if idx >= 0 && idx < len(info.Formats) {
		return info.Formats[idx], true
	}
	return info.DefaultFormat()
}

// onDownloadClick starts the download of the fetched video
func (ui *RootUI) onDownloadClick() {
	ui.mu.Lock()
	info := ui.info
	if info == nil || ui.busy {
		ui.mu.Unlock()
		return
	}
	ui.busy = true
	ui.mu.Unlock()

	format, _ := ui.selectedFormat(info)
	dir := strings.TrimSpace(ui.dirEntry.Text)
	if dir == "" {
		dir = ui.settings.GetDownloadDirectory()
		ui.dirEntry.SetText(dir)
	}
	ui.settings.SetDownloadDirectory(dir)

	logger.Info("Download requested", "title", info.Title, "format", format.FormatID, "dir", dir)

	ui.downloadBtn.Disable()
	ui.hideNotification()
	ui.transferRow.Begin(info.Title)

	transfer := ui.backend.StartDownload(context.Background(), info.DownloadTarget(), format.FormatID, dir)
	go ui.watchTransfer(transfer, info.Title)
}

// watchTransfer forwards progress to the row until the transfer ends
func (ui *RootUI) watchTransfer(transfer *engine.Transfer, title string) {
	for p := range transfer.Progress() {
		snapshot := p
		fyne.Do(func() {
			ui.transferRow.SetProgress(snapshot)
		})
	}

	res, err := transfer.Result()
	fyne.Do(func() {
		ui.onTransferFinished(title, res.Outcome, res.OutputPath, err)
	})
}

// onTransferFinished shows the outcome and re-enables downloading
func (ui *RootUI) onTransferFinished(title string, outcome model.Outcome, outputPath string, err error) {
	ui.mu.Lock()
	ui.busy = false
	hasInfo := ui.info != nil
	ui.mu.Unlock()
	if hasInfo {
		ui.downloadBtn.Enable()
	}

	if err != nil {
		logger.Warn("Download failed", "title", title, "error", err)
		ui.transferRow.Finish(model.SessionFailed, "", ui.localization.ErrorMessage(err))
		return
	}

	switch outcome {
	case model.OutcomeCompleted:
		path := outputPath
		if path != "" {
			if found, ferr := platform.FindFileWithFallback(path); ferr == nil {
				path = found
			} else {
				logger.Debug("Output file not found", "path", path, "error", ferr)
			}
		}
		ui.transferRow.Finish(model.SessionCompleted, path, "")
		ui.app.SendNotification(&fyne.Notification{
			Title:   ui.localization.GetText(KeyDownloadCompleted),
			Content: cleanText(title),
		})
		if path != "" && ui.settings.GetAutoRevealOnComplete() {
			ui.onRevealFile(path)
		}
	case model.OutcomeCancelled:
		ui.transferRow.Finish(model.SessionCancelled, "", "")
	default:
		ui.transferRow.Finish(model.SessionFailed, "", ui.localization.GetText(KeyErrUnknown))
	}
}

// onCancelClick requests cancellation; the row updates when the process exits
func (ui *RootUI) onCancelClick() {
	logger.Info("Cancel requested from UI")
	ui.backend.CancelDownload()
}

// onBrowseDirectory picks the save folder
func (ui *RootUI) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.dirEntry.SetText(uri.Path())
		ui.settings.SetDownloadDirectory(uri.Path())
	}, ui.window)
}

// onOpenFolder opens the save folder in the file manager
func (ui *RootUI) onOpenFolder() {
	dir := strings.TrimSpace(ui.dirEntry.Text)
	if dir == "" {
		dir = ui.settings.GetDownloadDirectory()
	}
	if err := platform.OpenFolder(dir); err != nil {
		logger.Error("Failed to open folder", "dir", dir, "error", err)
		ui.showNotification(ui.localization.GetText(KeyErrOpenFolder)+": "+dir, false)
	}
}

// onRevealFile highlights a downloaded file in the file manager
func (ui *RootUI) onRevealFile(filePath string) {
	if err := platform.RevealFile(filePath); err != nil {
		logger.Error("Failed to reveal file", "path", filePath, "error", err)
		ui.showNotification(ui.localization.GetText(KeyErrOpenFolder)+": "+filePath, false)
	}
}

// onCopyPath copies a file path to the clipboard
func (ui *RootUI) onCopyPath(filePath string) {
	ui.app.Clipboard().SetContent(filePath)
	ui.showNotification(ui.localization.GetText(KeyPathCopied), false)
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	previousTool := ui.settings.GetYTDLPPath()
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		ui.backend.SetOutputTemplate(ui.settings.GetFilenameTemplate())
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.dirEntry.SetText(ui.settings.GetDownloadDirectory())
		ui.refreshUITexts()
		ui.createMenu()

		message := ui.localization.GetText(KeySettingsSaved)
		if ui.settings.GetYTDLPPath() != previousTool {
			message += MiddleDotSeparator + ui.localization.GetText(KeyRestartRequired)
		}
		ui.showNotification(message, false)
	})
}

// showError shows the localized message for err
func (ui *RootUI) showError(err error) {
	ui.showNotification(IconError+" "+ui.localization.ErrorMessage(err), false)
}

// showNotification displays a message in the notification panel under the URL input.
// When spinning is true, a spinner is shown to indicate background activity.
// Messages without a spinner hide themselves after NotificationAutoHide.
func (ui *RootUI) showNotification(message string, spinning bool) {
	ui.noticeGen++
	gen := ui.noticeGen

	ui.notificationLabel.SetText(message)
	if spinning {
		ui.notificationSpinner.Show()
	} else {
		ui.notificationSpinner.Hide()
		time.AfterFunc(NotificationAutoHide, func() {
			fyne.Do(func() {
				if ui.noticeGen == gen {
					ui.hideNotification()
				}
			})
		})
	}
	ui.notificationContainer.Show()
}

// hideNotification hides the notification panel.
func (ui *RootUI) hideNotification() {
	ui.noticeGen++
	ui.notificationSpinner.Hide()
	ui.notificationContainer.Hide()
}
