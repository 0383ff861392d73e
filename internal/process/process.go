package process

import (
	"context"
	"fmt"
	"strings"
)

// Mode selects how stdout is consumed
type Mode int

const (
	// ModeLines streams stdout as text lines through Process.Lines
	ModeLines Mode = iota

	// ModeJSON accumulates stdout into a single document read with Process.Output
	ModeJSON
)

// String returns the string representation of Mode
func (m Mode) String() string {
	switch m {
	case ModeLines:
		return "lines"
	case ModeJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Options configures a single process invocation
type Options struct {
	Dir  string   // working directory, empty for the current one
	Mode Mode     // stdout handling
	Env  []string // extra KEY=VALUE pairs appended to the inherited environment
}

// Runner spawns external commands. Each call owns exactly one OS process.
type Runner interface {
	Run(ctx context.Context, name string, args []string, opts Options) (Process, error)
}

// Process is a handle to a running command.
//
// In ModeLines the caller must drain Lines until it is closed; the channel is
// closed once stdout closes and is not restartable. Cancelling the context
// passed to Run terminates the process tree.
type Process interface {
	// PID returns the OS process id
	PID() int

	// Lines yields stdout lines in ModeLines; closed immediately in ModeJSON
	Lines() <-chan string

	// Output returns captured stdout in ModeJSON once the process has exited
	Output() []byte

	// Terminate signals the process and its descendants. Idempotent and a
	// no-op after exit.
	Terminate() error

	// Done is closed after the process has exited and been reaped
	Done() <-chan struct{}

	// Wait blocks until exit and returns nil or an *ExitError
	Wait() error
}

// SpawnError reports that the command could not be started
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitError reports a non-zero exit. Code is -1 when the process was killed
// by a signal.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("%s terminated: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Signaled reports whether the process ended because of a signal
func (e *ExitError) Signaled() bool {
	return e.Code < 0
}

// LastStderrLine returns the last non-empty stderr line, usually the tool's error message
func (e *ExitError) LastStderrLine() string {
	lines := strings.Split(strings.TrimSpace(e.Stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
