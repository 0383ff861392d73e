// Package engine is the boundary between hosts (desktop UI, CLI) and the
// download core. It exposes metadata lookup, a single download at a time with
// a per-download progress channel, cancellation and an explicit shutdown hook.
package engine

import (
	"context"
	"time"

	"github.com/ytget/vidgrab/internal/download"
	"github.com/ytget/vidgrab/internal/logger"
	"github.com/ytget/vidgrab/internal/metadata"
	"github.com/ytget/vidgrab/internal/model"
	"github.com/ytget/vidgrab/internal/process"
)

// ProgressBuffer is the capacity of a Transfer progress channel
const ProgressBuffer = 32

// Options configures an Engine
type Options struct {
	Binary         string         // yt-dlp executable
	Runner         process.Runner // nil uses process.NewRunner
	OutputTemplate string         // empty uses download.DefaultOutputTemplate
	FetchTimeout   time.Duration  // zero leaves the deadline to the caller's context
}

// Engine wires the extractor and the download manager to one runner
type Engine struct {
	extractor *metadata.Extractor
	manager   *download.Manager
}

// New creates an engine
func New(opts Options) *Engine {
	runner := opts.Runner
	if runner == nil {
		runner = process.NewRunner()
	}

	extractor := metadata.NewExtractor(runner, opts.Binary)
	if opts.FetchTimeout > 0 {
		extractor.SetTimeout(opts.FetchTimeout)
	}

	manager := download.NewManager(runner, opts.Binary)
	manager.SetOutputTemplate(opts.OutputTemplate)

	return &Engine{extractor: extractor, manager: manager}
}

// FetchInfo returns metadata for url
func (e *Engine) FetchInfo(ctx context.Context, url string) (*model.VideoInfo, error) {
	return e.extractor.FetchInfo(ctx, url)
}

// StartDownload starts a download in the background. The session is claimed
// before it returns, so CancelDownload applies to it right away and a second
// call is rejected. The returned Transfer reports progress and the final
// result; a busy or shut down engine yields a Transfer that is already
// finished with the corresponding error.
func (e *Engine) StartDownload(ctx context.Context, videoID, formatID, savePath string) *Transfer {
	t := newTransfer(ProgressBuffer)
	req := download.Request{VideoID: videoID, FormatID: formatID, SavePath: savePath}

	r, err := e.manager.Reserve(req)
	if err != nil {
		t.finish(download.Result{}, err)
		return t
	}

	go func() {
		res, err := r.Run(ctx, t.publish)
		t.finish(res, err)
	}()
	return t
}

// SetOutputTemplate changes the file name template used by later downloads
func (e *Engine) SetOutputTemplate(template string) {
	e.manager.SetOutputTemplate(template)
}

// CancelDownload cancels the active download, if any
func (e *Engine) CancelDownload() {
	e.manager.Cancel()
}

// Busy reports whether a download is in progress
func (e *Engine) Busy() bool {
	return e.manager.Active()
}

// State returns the state of the current download session
func (e *Engine) State() model.SessionState {
	return e.manager.State()
}

// Shutdown stops accepting downloads, cancels the active one and waits for
// its process to exit. Hosts call it before exiting.
func (e *Engine) Shutdown(ctx context.Context) error {
	logger.Info("Engine shutting down")
	return e.manager.Shutdown(ctx)
}
