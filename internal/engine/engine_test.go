package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/vidgrab/internal/download"
	"github.com/ytget/vidgrab/internal/model"
	"github.com/ytget/vidgrab/internal/process/processtest"
)

const (
	testVideo = "https://www.tiktok.com/@user/video/1"
	waitFor   = 2 * time.Second
	tick      = 5 * time.Millisecond
)

func newTestEngine(scripts ...processtest.Script) (*Engine, *processtest.Runner) {
	runner := processtest.NewRunner(scripts...)
	return New(Options{Binary: "yt-dlp", Runner: runner}), runner
}

// drain reads the progress channel until it is closed
func drain(t *testing.T, tr *Transfer) []float64 {
	t.Helper()
	var out []float64
	timeout := time.After(waitFor)
	for {
		select {
		case p, ok := <-tr.Progress():
			if !ok {
				return out
			}
			out = append(out, p.Percent)
		case <-timeout:
			t.Fatal("progress channel was not closed")
			return nil
		}
	}
}

func TestFetchInfo(t *testing.T) {
	e, runner := newTestEngine(processtest.Script{
		Output: []byte(`{"title":"Cat","formats":[{"format_id":"1","height":1080}]}`),
	})

	info, err := e.FetchInfo(context.Background(), testVideo)
	require.NoError(t, err)
	assert.Equal(t, model.PlatformTikTok, info.Platform)
	assert.Equal(t, 1, runner.CallCount())
}

func TestStartDownload_ProgressThenClose(t *testing.T) {
	e, _ := newTestEngine(processtest.Script{
		Lines: []string{
			"[download]  10.0% of 10.00MiB at 1.00MiB/s ETA 00:09",
			"[download]  55.0% of 10.00MiB at 1.00MiB/s ETA 00:04",
			"[download] 100% of 10.00MiB in 00:00:10 at 1.00MiB/s",
		},
	})

	tr := e.StartDownload(context.Background(), testVideo, "1", t.TempDir())

	assert.Equal(t, []float64{10, 55, 100}, drain(t, tr))

	res, err := tr.Result()
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeCompleted, res.Outcome)

	_, ok := <-tr.Progress()
	assert.False(t, ok, "channel stays closed")
}

func TestStartDownload_BusyFinishesImmediately(t *testing.T) {
	e, runner := newTestEngine(processtest.Script{Hold: true})
	dir := t.TempDir()

	first := e.StartDownload(context.Background(), testVideo, "", dir)
	require.Eventually(t, func() bool { return e.State() == model.SessionRunning }, waitFor, tick)
	assert.True(t, e.Busy())

	second := e.StartDownload(context.Background(), testVideo, "", dir)
	assert.Empty(t, drain(t, second))
	_, err := second.Result()
	assert.ErrorIs(t, err, download.ErrSessionBusy)
	assert.Equal(t, 1, runner.CallCount())

	e.CancelDownload()
	drain(t, first)
	res, err := first.Result()
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeCancelled, res.Outcome)
	assert.False(t, e.Busy())
}

func TestStartDownload_CancelRightAway(t *testing.T) {
	e, runner := newTestEngine(
		processtest.Script{
			Lines: []string{
				"[download]  10.0% of 10.00MiB at 1.00MiB/s ETA 00:09",
				"[download]  55.0% of 10.00MiB at 1.00MiB/s ETA 00:04",
			},
			LineDelay: 20 * time.Millisecond,
		},
		processtest.Script{},
	)
	dir := t.TempDir()

	tr := e.StartDownload(context.Background(), testVideo, "", dir)
	e.CancelDownload()

	drain(t, tr)
	res, err := tr.Result()
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeCancelled, res.Outcome)
	assert.False(t, e.Busy())

	next := e.StartDownload(context.Background(), testVideo, "", dir)
	drain(t, next)
	res, err = next.Result()
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeCompleted, res.Outcome)
	assert.LessOrEqual(t, runner.CallCount(), 2)
}

func TestStartDownload_BackToBackRejectsSecond(t *testing.T) {
	e, runner := newTestEngine(processtest.Script{Hold: true})
	dir := t.TempDir()

	first := e.StartDownload(context.Background(), testVideo, "", dir)
	second := e.StartDownload(context.Background(), testVideo, "", dir)

	select {
	case <-second.Done():
	default:
		t.Fatal("rejected transfer must already be finished")
	}
	_, err := second.Result()
	assert.ErrorIs(t, err, download.ErrSessionBusy)
	assert.True(t, e.Busy())

	e.CancelDownload()
	drain(t, first)
	res, err := first.Result()
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeCancelled, res.Outcome)
	assert.LessOrEqual(t, runner.CallCount(), 1)
}

func TestCancelDownload_Idle(t *testing.T) {
	e, runner := newTestEngine()

	e.CancelDownload()
	e.CancelDownload()

	assert.Equal(t, model.SessionIdle, e.State())
	assert.Equal(t, 0, runner.CallCount())
}

func TestShutdown(t *testing.T) {
	e, runner := newTestEngine(processtest.Script{Hold: true})
	dir := t.TempDir()

	tr := e.StartDownload(context.Background(), testVideo, "", dir)
	require.Eventually(t, func() bool { return e.State() == model.SessionRunning }, waitFor, tick)

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, e.Shutdown(ctx))
	assert.True(t, runner.Last().Terminated())

	res, err := tr.Result()
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeCancelled, res.Outcome)

	_, err = e.StartDownload(context.Background(), testVideo, "", dir).Result()
	assert.ErrorIs(t, err, download.ErrShutdown)
}

func TestTransfer_DropsOldestWhenFull(t *testing.T) {
	tr := newTransfer(2)

	for _, pct := range []float64{1, 2, 3, 4} {
		tr.publish(model.DownloadProgress{Percent: pct})
	}
	tr.finish(download.Result{Outcome: model.OutcomeCompleted}, nil)
	tr.publish(model.DownloadProgress{Percent: 5})

	assert.Equal(t, []float64{3, 4}, drain(t, tr))

	select {
	case <-tr.Done():
	default:
		t.Fatal("Done must be closed after finish")
	}
}
