package ui

import (
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/vidgrab/internal/config"
	"github.com/ytget/vidgrab/internal/engine"
	"github.com/ytget/vidgrab/internal/model"
	"github.com/ytget/vidgrab/internal/process/processtest"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func newTestRoot(t *testing.T, scripts ...processtest.Script) (*RootUI, *processtest.Runner) {
	t.Helper()

	app := test.NewApp()
	t.Cleanup(app.Quit)

	runner := processtest.NewRunner(scripts...)
	backend := engine.New(engine.Options{Binary: "yt-dlp", Runner: runner})
	settings := config.NewSettings(app, config.Env{DownloadDir: t.TempDir()})
	settings.SetLanguage(LangEnglish)

	return NewRootUI(test.NewWindow(nil), app, backend, settings), runner
}

func testInfo() *model.VideoInfo {
	size := uint64(10 * 1024 * 1024)
	return &model.VideoInfo{
		ID:              "7301",
		Title:           "Cat\nvideo",
		Author:          "someone",
		DurationDisplay: "0:15",
		Platform:        model.PlatformTikTok,
		OriginalURL:     "https://www.tiktok.com/@someone/video/7301",
		Formats: []model.VideoFormat{
			{FormatID: "hd", Quality: "1080p", Extension: "mp4", FilesizeBytes: &size},
			{FormatID: "sd", Quality: "540p", Extension: "mp4"},
		},
	}
}

func TestRootUI_EmptyURL(t *testing.T) {
	ui, runner := newTestRoot(t)

	ui.onFetchClick()

	assert.Equal(t, ui.localization.GetText(KeyPleaseEnterURL), ui.notificationLabel.Text)
	assert.True(t, ui.notificationContainer.Visible())
	assert.Zero(t, runner.CallCount())
}

func TestRootUI_PasteFromClipboard(t *testing.T) {
	ui, runner := newTestRoot(t)
	ui.urlEntry.SetText("old")

	ui.app.Clipboard().SetContent(" https://www.tiktok.com/@a/video/1 \n")
	ui.onPasteClick()
	assert.Equal(t, "https://www.tiktok.com/@a/video/1", ui.urlEntry.Text)

	ui.app.Clipboard().SetContent("   ")
	ui.onPasteClick()
	assert.Equal(t, "https://www.tiktok.com/@a/video/1", ui.urlEntry.Text, "blank clipboard keeps the URL")
	assert.Zero(t, runner.CallCount())
}

func TestRootUI_UnsupportedURLSpawnsNothing(t *testing.T) {
	ui, runner := newTestRoot(t)

	ui.urlEntry.SetText("https://www.netflix.com/title/1")
	ui.onFetchClick()

	assert.Contains(t, ui.notificationLabel.Text, ui.localization.GetText(KeyErrUnsupportedURL))
	assert.Zero(t, runner.CallCount())
	assert.False(t, ui.fetchBtn.Disabled())
}

func TestRootUI_SetInfoSelectsBestFormat(t *testing.T) {
	ui, _ := newTestRoot(t)

	ui.setInfo(testInfo())

	assert.Equal(t, "Cat video", ui.infoTitle.Text)
	assert.Equal(t, "TikTok · someone · 0:15", ui.infoMeta.Text)
	assert.Equal(t, []string{"1080p (mp4, 10.0 MB)", "540p (mp4, ~)"}, ui.formatSelect.Options)
	assert.Equal(t, 0, ui.formatSelect.SelectedIndex())
	assert.False(t, ui.downloadBtn.Disabled())
}

func TestRootUI_DownloadCompletes(t *testing.T) {
	ui, runner := newTestRoot(t, processtest.Script{
		Lines: []string{
			"[download]  50.0% of 10.00MiB at 1.00MiB/s ETA 00:05",
			"[download] 100% of 10.00MiB in 00:00:10",
		},
	})
	dir := filepath.Join(t.TempDir(), "out")
	ui.dirEntry.SetText(dir)

	ui.setInfo(testInfo())
	ui.formatSelect.SetSelectedIndex(1)
	ui.onDownloadClick()

	assert.True(t, ui.downloadBtn.Disabled())
	require.Eventually(t, func() bool {
		return ui.transferRow.State() == model.SessionCompleted
	}, waitFor, tick)

	require.Equal(t, 1, runner.CallCount())
	args := runner.Calls()[0].Args
	assert.Contains(t, args, "sd+bestaudio/sd")
	assert.Equal(t, "https://www.tiktok.com/@someone/video/7301", args[len(args)-1])
	assert.Equal(t, dir, ui.settings.GetDownloadDirectory())
	assert.False(t, ui.downloadBtn.Disabled())
}

func TestRootUI_CancelDownload(t *testing.T) {
	ui, _ := newTestRoot(t, processtest.Script{
		Lines: []string{"[download]  10.0% of 10.00MiB at 1.00MiB/s ETA 00:09"},
		Hold:  true,
	})

	ui.setInfo(testInfo())
	ui.onDownloadClick()
	require.Eventually(t, func() bool {
		return ui.backend.(*engine.Engine).Busy()
	}, waitFor, tick)

	ui.onCancelClick()

	require.Eventually(t, func() bool {
		return ui.transferRow.State() == model.SessionCancelled
	}, waitFor, tick)
	assert.Empty(t, ui.transferRow.OutputPath())
}

func TestRootUI_SpawnFailureShowsMessage(t *testing.T) {
	ui, _ := newTestRoot(t, processtest.Script{SpawnFail: true})

	ui.setInfo(testInfo())
	ui.onDownloadClick()

	require.Eventually(t, func() bool {
		return ui.transferRow.State() == model.SessionFailed
	}, waitFor, tick)
	assert.Contains(t, ui.transferRow.titleLabel.Text, ui.localization.GetText(KeyErrToolMissing))
}

func TestRootUI_LanguageChange(t *testing.T) {
	ui, _ := newTestRoot(t)

	ui.onLanguageChange("vi")

	assert.Equal(t, "Tải xuống", ui.downloadBtn.Text)
	assert.Equal(t, "vi", ui.settings.GetLanguage())
}
