package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ytget/vidgrab/internal/logger"
	"github.com/ytget/vidgrab/internal/model"
	"github.com/ytget/vidgrab/internal/platform"
	"github.com/ytget/vidgrab/internal/process"
	"github.com/ytget/vidgrab/internal/progress"
)

// yt-dlp invocation defaults
const (
	DefaultOutputTemplate = "%(title)s.%(ext)s"
	BestFormatSelector    = "best"
	MergeOutputFormat     = "mp4"
)

var (
	// ErrSessionBusy is returned by Start while another session exists
	ErrSessionBusy = errors.New("a download is already in progress")

	// ErrShutdown is returned by Start after Shutdown
	ErrShutdown = errors.New("download manager is shut down")

	// ErrInvalidRequest is returned for a request without a video or save path
	ErrInvalidRequest = errors.New("invalid download request")
)

// Request identifies what to download and where
type Request struct {
	VideoID  string // URL or extractor ID handed to yt-dlp
	FormatID string // empty selects the best format
	SavePath string // destination directory, created when missing
}

// Result describes how a session ended
type Result struct {
	SessionID  string
	Outcome    model.Outcome
	OutputPath string
	Duration   time.Duration
}

// ProgressFunc receives progress snapshots in arrival order
type ProgressFunc func(model.DownloadProgress)

// Manager runs at most one download session at a time
type Manager struct {
	runner   process.Runner
	binary   string
	template string

	mu      sync.Mutex
	session *session
	closed  bool
}

// NewManager creates a manager that runs binary through runner
func NewManager(runner process.Runner, binary string) *Manager {
	return &Manager{
		runner:   runner,
		binary:   binary,
		template: DefaultOutputTemplate,
	}
}

// SetOutputTemplate sets the yt-dlp output file name template
func (m *Manager) SetOutputTemplate(template string) {
	template = strings.TrimSpace(template)
	if template == "" {
		template = DefaultOutputTemplate
	}
	m.mu.Lock()
	m.template = template
	m.mu.Unlock()
}

// Start runs one download and blocks until the process exits. Cancelling ctx
// has the same effect as Cancel. A Cancelled outcome is not an error; a
// Failed outcome is returned together with the cause.
func (m *Manager) Start(ctx context.Context, req Request, onProgress ProgressFunc) (Result, error) {
	r, err := m.Reserve(req)
	if err != nil {
		return Result{}, err
	}
	return r.Run(ctx, onProgress)
}

// Reservation is a claimed session whose process has not been started yet.
// Cancel applies to it from the moment Reserve returns.
type Reservation struct {
	m    *Manager
	s    *session
	req  Request
	args []string
}

// Reserve claims the single session slot for req without spawning anything.
// The caller must call Run exactly once on the returned reservation.
func (m *Manager) Reserve(req Request) (*Reservation, error) {
	if strings.TrimSpace(req.VideoID) == "" || strings.TrimSpace(req.SavePath) == "" {
		return nil, ErrInvalidRequest
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrShutdown
	}
	if m.session != nil {
		return nil, ErrSessionBusy
	}
	s := newSession(req.SavePath)
	m.session = s
	return &Reservation{m: m, s: s, req: req, args: m.buildArgs(req)}, nil
}

// SessionID returns the ID of the reserved session
func (r *Reservation) SessionID() string {
	return r.s.id
}

// Run starts the reserved download and blocks until the process exits
func (r *Reservation) Run(ctx context.Context, onProgress ProgressFunc) (Result, error) {
	m, s, req := r.m, r.s, r.req
	defer m.release(s)

	result := Result{SessionID: s.id}
	logger.Info("Download session started", "session", s.id, "video", req.VideoID, "format", req.FormatID, "path", req.SavePath)

	if err := platform.CreateDirectoryIfNotExists(req.SavePath); err != nil {
		return m.fail(s, result, fmt.Errorf("prepare save path: %w", err))
	}

	if m.cancelRequested(s) {
		return m.finish(s, result, nil)
	}

	// the session, not the caller's context, decides when the process is terminated
	proc, err := m.runner.Run(context.WithoutCancel(ctx), m.binary, r.args, process.Options{Mode: process.ModeLines})
	if err != nil {
		return m.fail(s, result, err)
	}

	m.mu.Lock()
	s.proc = proc
	cancelled := s.cancelRequested
	if !cancelled {
		s.state = model.SessionRunning
	}
	m.mu.Unlock()

	if cancelled {
		m.terminate(s.id, proc)
	}

	go m.watchContext(ctx, s, proc)

	for line := range proc.Lines() {
		if path, ok := progress.ParseDestination(line); ok {
			result.OutputPath = path
			continue
		}
		p, ok := progress.ParseLine(line)
		if !ok || onProgress == nil || m.cancelRequested(s) {
			continue
		}
		onProgress(p)
	}

	return m.finish(s, result, proc.Wait())
}

// Cancel requests termination of the active session. It is a no-op when no
// session is active.
func (m *Manager) Cancel() {
	m.mu.Lock()
	s := m.session
	if s == nil || !s.state.IsActive() || s.cancelRequested {
		m.mu.Unlock()
		return
	}
	s.cancelRequested = true
	proc := s.proc
	m.mu.Unlock()

	logger.Info("Download cancel requested", "session", s.id)
	if proc != nil {
		m.terminate(s.id, proc)
	}
}

// State returns the state of the current session, Idle when there is none
func (m *Manager) State() model.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return model.SessionIdle
	}
	return m.session.state
}

// Active reports whether a session exists
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// Shutdown rejects further sessions, cancels the active one and waits until
// its process has exited or ctx ends.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	s := m.session
	m.mu.Unlock()

	if s == nil {
		logger.Debug("Download manager shut down, no active session")
		return nil
	}

	logger.Info("Shutting down active download", "session", s.id)
	m.Cancel()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		logger.Warn("Shutdown timed out waiting for download process", "session", s.id)
		return ctx.Err()
	}
}

// buildArgs assembles the yt-dlp command line; m.mu must be held
func (m *Manager) buildArgs(req Request) []string {
	selector := BestFormatSelector
	if id := strings.TrimSpace(req.FormatID); id != "" {
		selector = id + "+bestaudio/" + id
	}

	return []string{
		"-f", selector,
		"-o", filepath.Join(req.SavePath, m.template),
		"--no-playlist",
		"--newline",
		"--no-colors",
		"--merge-output-format", MergeOutputFormat,
		"--progress-template", progress.Template,
		req.VideoID,
	}
}

func (m *Manager) cancelRequested(s *session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return s.cancelRequested
}

func (m *Manager) watchContext(ctx context.Context, s *session, proc process.Process) {
	select {
	case <-ctx.Done():
		logger.Debug("Caller context ended, cancelling download", "session", s.id)
		m.Cancel()
	case <-proc.Done():
	}
}

func (m *Manager) terminate(id string, proc process.Process) {
	if err := proc.Terminate(); err != nil {
		logger.Error("Failed to terminate download process", "session", id, "pid", proc.PID(), "error", err)
	}
}

// finish classifies the exit: a requested cancel wins over any exit status
func (m *Manager) finish(s *session, result Result, waitErr error) (Result, error) {
	m.mu.Lock()
	switch {
	case s.cancelRequested:
		s.state = model.SessionCancelled
	case waitErr != nil:
		s.state = model.SessionFailed
	default:
		s.state = model.SessionCompleted
	}
	result.Outcome = s.state
	m.mu.Unlock()

	result.Duration = time.Since(s.started)

	switch result.Outcome {
	case model.OutcomeCompleted:
		logger.InfoWithDuration("Download completed", s.started, "session", s.id, "output", result.OutputPath)
		return result, nil
	case model.OutcomeCancelled:
		logger.Info("Download cancelled", "session", s.id)
		return result, nil
	default:
		logger.Error("Download failed", "session", s.id, "error", waitErr)
		return result, waitErr
	}
}

// fail ends a session that never got a running process. A cancel requested
// while starting still wins.
func (m *Manager) fail(s *session, result Result, err error) (Result, error) {
	m.mu.Lock()
	cancelled := s.cancelRequested
	if cancelled {
		s.state = model.SessionCancelled
	} else {
		s.state = model.SessionFailed
	}
	result.Outcome = s.state
	m.mu.Unlock()

	result.Duration = time.Since(s.started)
	if cancelled {
		logger.Info("Download cancelled while starting", "session", s.id, "error", err)
		return result, nil
	}
	logger.Error("Download failed to start", "session", s.id, "error", err)
	return result, err
}

// release drops the session so a new one may start
func (m *Manager) release(s *session) {
	m.mu.Lock()
	if m.session == s {
		m.session = nil
	}
	m.mu.Unlock()
	close(s.done)
}
