package download

import (
	"context"

	"github.com/ytget/vidgrab/internal/model"
)

// Downloader defines the interface for the download session manager.
type Downloader interface {
	// Start runs one download to completion. Only one may be active.
	Start(ctx context.Context, req Request, onProgress ProgressFunc) (Result, error)

	// Reserve claims the session slot synchronously; Run on the result starts it
	Reserve(req Request) (*Reservation, error)

	// Cancel requests termination of the active session; no-op when idle
	Cancel()

	// State returns the state of the current session, Idle when there is none
	State() model.SessionState

	// Active reports whether a session exists
	Active() bool

	// Shutdown rejects new sessions and waits for the active one to end
	Shutdown(ctx context.Context) error
}

var _ Downloader = (*Manager)(nil)
