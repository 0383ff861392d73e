package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"github.com/ytget/vidgrab/internal/model"
)

func TestTransferRow_Lifecycle(t *testing.T) {
	test.NewApp()
	row := NewTransferRow(NewLocalization())

	assert.Equal(t, model.SessionIdle, row.State())
	assert.True(t, row.cancelBtn.Disabled())
	assert.Equal(t, "Ready", row.statusLabel.Text)

	row.Begin("Cat\tvideo")
	assert.Equal(t, "Cat video", row.titleLabel.Text)
	assert.False(t, row.cancelBtn.Disabled())

	row.SetProgress(model.DownloadProgress{Percent: 55, Speed: "1.00MiB/s", ETA: "00:04", Downloaded: "5.5MiB", Total: "10.00MiB"})
	assert.InDelta(t, 0.55, row.progressBar.Value, 0.0001)
	assert.Equal(t, "55%", row.progressLabel.Text)
	assert.Equal(t, "1.00MiB/s · 00:04", row.speedEtaLabel.Text)
	assert.Equal(t, "5.5MiB / 10.00MiB", row.sizeLabel.Text)

	row.Finish(model.SessionCompleted, "/tmp/Cat video.mp4", "")
	assert.Equal(t, 1.0, row.progressBar.Value)
	assert.True(t, row.cancelBtn.Disabled())
	assert.False(t, row.revealBtn.Disabled())
	assert.Equal(t, "/tmp/Cat video.mp4", row.OutputPath())
}

func TestTransferRow_Failure(t *testing.T) {
	test.NewApp()
	row := NewTransferRow(NewLocalization())

	var revealed string
	row.SetCallbacks(nil, func(p string) { revealed = p }, nil)

	row.Begin("Cat")
	row.Finish(model.SessionFailed, "", "Something went wrong.")

	assert.Equal(t, "Cat · Something went wrong.", row.titleLabel.Text)
	assert.Equal(t, IconError+" Failed", row.statusLabel.Text)
	assert.True(t, row.revealBtn.Disabled())

	test.Tap(row.revealBtn)
	assert.Empty(t, revealed)
}
