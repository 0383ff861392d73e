package engine

import (
	"sync"

	"github.com/ytget/vidgrab/internal/download"
	"github.com/ytget/vidgrab/internal/model"
)

// Transfer is the handle of one download started through the engine
type Transfer struct {
	progress chan model.DownloadProgress
	done     chan struct{}

	mu     sync.Mutex
	closed bool
	result download.Result
	err    error
}

func newTransfer(buffer int) *Transfer {
	return &Transfer{
		progress: make(chan model.DownloadProgress, buffer),
		done:     make(chan struct{}),
	}
}

// Progress delivers snapshots in order. It is closed exactly once, when the
// download ends. When the consumer lags the oldest pending snapshot is dropped.
func (t *Transfer) Progress() <-chan model.DownloadProgress {
	return t.progress
}

// Done is closed once the result is available
func (t *Transfer) Done() <-chan struct{} {
	return t.done
}

// Result blocks until the download ends and returns its outcome
func (t *Transfer) Result() (download.Result, error) {
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.err
}

// publish never blocks the download
func (t *Transfer) publish(p model.DownloadProgress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	for {
		select {
		case t.progress <- p:
			return
		default:
		}
		// full: drop the oldest snapshot and retry
		select {
		case <-t.progress:
		default:
		}
	}
}

func (t *Transfer) finish(res download.Result, err error) {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		t.result = res
		t.err = err
		close(t.progress)
	}
	t.mu.Unlock()
	close(t.done)
}
