package ui

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/vidgrab/internal/logger"
	"github.com/ytget/vidgrab/internal/model"
)

// TransferRow shows the state of the single active download: title, status,
// progress bar, speed and ETA, plus the actions available for the result
type TransferRow struct {
	widget.BaseWidget

	localization *Localization

	title      string
	state      model.SessionState
	progress   model.DownloadProgress
	outputPath string
	message    string

	// UI components
	titleLabel    *widget.Label
	statusLabel   *widget.Label
	progressBar   *widget.ProgressBar
	progressLabel *widget.Label
	speedEtaLabel *widget.Label
	sizeLabel     *widget.Label

	// Action buttons
	cancelBtn *widget.Button
	revealBtn *widget.Button // reveal in file manager
	copyBtn   *widget.Button

	// Callbacks
	onCancel   func()
	onReveal   func(filePath string)
	onCopyPath func(filePath string)
}

// NewTransferRow creates an idle transfer row
func NewTransferRow(localization *Localization) *TransferRow {
	tr := &TransferRow{
		localization: localization,
		state:        model.SessionIdle,
		progress:     unknownProgress(),
	}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	tr.update()
	return tr
}

func unknownProgress() model.DownloadProgress {
	return model.DownloadProgress{
		Speed:      model.UnknownDisplay,
		ETA:        model.UnknownDisplay,
		Downloaded: model.UnknownDisplay,
		Total:      model.UnknownDisplay,
	}
}

// SetCallbacks sets the action callbacks
func (tr *TransferRow) SetCallbacks(onCancel func(), onReveal, onCopyPath func(filePath string)) {
	tr.onCancel = onCancel
	tr.onReveal = onReveal
	tr.onCopyPath = onCopyPath
}

// Begin resets the row for a new download of title
func (tr *TransferRow) Begin(title string) {
	tr.title = cleanText(title)
	tr.state = model.SessionStarting
	tr.progress = unknownProgress()
	tr.outputPath = ""
	tr.message = ""
	tr.update()
}

// SetProgress shows one progress snapshot
func (tr *TransferRow) SetProgress(p model.DownloadProgress) {
	tr.state = model.SessionRunning
	tr.progress = p
	tr.update()
}

// Finish shows the terminal state. message is shown under the title for
// failures, outputPath enables the file actions.
func (tr *TransferRow) Finish(state model.SessionState, outputPath, message string) {
	tr.state = state
	tr.outputPath = outputPath
	tr.message = message
	if state == model.SessionCompleted {
		tr.progress.Percent = 100
		tr.progress.ETA = model.UnknownDisplay
	}
	tr.update()
}

// RefreshTexts re-reads localized labels after a language change
func (tr *TransferRow) RefreshTexts() {
	tr.cancelBtn.SetText(tr.localization.GetText(KeyCancel))
	tr.revealBtn.SetText(tr.localization.GetText(KeyOpenFile))
	tr.copyBtn.SetText(tr.localization.GetText(KeyCopyPath))
	tr.update()
}

// State returns the state currently displayed
func (tr *TransferRow) State() model.SessionState {
	return tr.state
}

// OutputPath returns the path of the finished file, empty if none
func (tr *TransferRow) OutputPath() string {
	return tr.outputPath
}

// createUI creates the UI components
func (tr *TransferRow) createUI() {
	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Alignment = fyne.TextAlignTrailing
	tr.progressBar = widget.NewProgressBar()
	tr.progressBar.TextFormatter = func() string { return "" }
	tr.progressLabel = widget.NewLabel("")
	tr.progressLabel.Alignment = fyne.TextAlignTrailing
	tr.speedEtaLabel = widget.NewLabel("")
	tr.speedEtaLabel.TextStyle = fyne.TextStyle{Monospace: true}
	tr.sizeLabel = widget.NewLabel("")
	tr.sizeLabel.TextStyle = fyne.TextStyle{Monospace: true}

	tr.cancelBtn = widget.NewButton(tr.localization.GetText(KeyCancel), func() {
		if tr.onCancel != nil {
			tr.onCancel()
		}
	})
	tr.cancelBtn.Importance = widget.DangerImportance

	tr.revealBtn = widget.NewButton(tr.localization.GetText(KeyOpenFile), func() {
		if tr.onReveal == nil || tr.outputPath == "" {
			logger.Debug("Reveal requested without output path", "state", tr.state)
			return
		}
		tr.onReveal(tr.outputPath)
	})

	tr.copyBtn = widget.NewButton(tr.localization.GetText(KeyCopyPath), func() {
		if tr.onCopyPath != nil && tr.outputPath != "" {
			tr.onCopyPath(tr.outputPath)
		}
	})
	tr.copyBtn.Importance = widget.LowImportance
}

// update pushes the row state into the widgets
func (tr *TransferRow) update() {
	title := tr.title
	if tr.message != "" {
		if title != "" {
			title += MiddleDotSeparator
		}
		title += tr.message
	}
	tr.titleLabel.SetText(title)

	status := tr.localization.StatusText(tr.state.String())
	switch tr.state {
	case model.SessionFailed:
		tr.statusLabel.Importance = widget.DangerImportance
		status = IconError + " " + status
	case model.SessionCompleted:
		tr.statusLabel.Importance = widget.SuccessImportance
	case model.SessionRunning, model.SessionStarting:
		tr.statusLabel.Importance = widget.HighImportance
		status = IconPlay + " " + status
	case model.SessionCancelled:
		tr.statusLabel.Importance = widget.WarningImportance
	default:
		tr.statusLabel.Importance = widget.MediumImportance
	}
	tr.statusLabel.SetText(status)

	tr.progressBar.SetValue(tr.progress.Fraction())
	if tr.state == model.SessionIdle {
		tr.progressLabel.SetText("")
	} else {
		tr.progressLabel.SetText(fmt.Sprintf(ProgressLabelFormat, tr.progress.Percent))
	}

	if tr.state.IsActive() {
		tr.speedEtaLabel.SetText(tr.progress.Speed + MiddleDotSeparator + tr.progress.ETA)
	} else {
		tr.speedEtaLabel.SetText("")
	}
	if tr.state == model.SessionIdle {
		tr.sizeLabel.SetText("")
	} else {
		tr.sizeLabel.SetText(tr.progress.Downloaded + " / " + tr.progress.Total)
	}

	tr.updateButtons()
}

// updateButtons updates button states based on session state
func (tr *TransferRow) updateButtons() {
	if tr.state.IsActive() {
		tr.cancelBtn.Enable()
	} else {
		tr.cancelBtn.Disable()
	}

	if tr.outputPath != "" {
		tr.revealBtn.Enable()
		tr.copyBtn.Enable()
	} else {
		tr.revealBtn.Disable()
		tr.copyBtn.Disable()
	}
}

// cleanText keeps labels on one line
func cleanText(s string) string {
	s = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s)
	return strings.TrimSpace(s)
}

// CreateRenderer creates the widget renderer
func (tr *TransferRow) CreateRenderer() fyne.WidgetRenderer {
	return &transferRowRenderer{row: tr}
}

// transferRowRenderer renders the transfer row widget
type transferRowRenderer struct {
	row    *TransferRow
	layout *fyne.Container
}

// Layout arranges the components
func (r *transferRowRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	if size.Width < RowMinWidth {
		size.Width = RowMinWidth
	}
	r.layout.Resize(size)
}

// MinSize returns the minimum size
func (r *transferRowRenderer) MinSize() fyne.Size {
	if r.layout != nil {
		return r.layout.MinSize()
	}
	return fyne.NewSize(RowMinWidth, RowMinHeight)
}

// Refresh refreshes the renderer
func (r *transferRowRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Refresh()
}

// Objects returns the container objects
func (r *transferRowRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

// Destroy cleans up the renderer
func (r *transferRowRenderer) Destroy() {}

// createLayout creates the main layout
func (r *transferRowRenderer) createLayout() {
	tr := r.row

	// fixedWidth reserves width using a transparent rectangle underneath
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	header := container.NewBorder(nil, nil, nil, fixedWidth(StatusLabelWidth, tr.statusLabel), tr.titleLabel)
	bar := container.NewBorder(nil, nil, nil, fixedWidth(PercentLabelWidth, tr.progressLabel), tr.progressBar)
	details := container.NewBorder(nil, nil, fixedWidth(SpeedLabelWidth, tr.speedEtaLabel), nil, tr.sizeLabel)
	actions := container.NewHBox(tr.cancelBtn, tr.revealBtn, tr.copyBtn)

	r.layout = container.NewVBox(
		header,
		bar,
		container.NewBorder(nil, nil, nil, actions, details),
		widget.NewSeparator(),
	)
}
