package model

// SessionState represents the lifecycle state of a download session
type SessionState string

const (
	// SessionIdle means no session exists
	SessionIdle SessionState = "Idle"

	// SessionStarting means the session was accepted and the process is being spawned
	SessionStarting SessionState = "Starting"

	// SessionRunning means the external process is confirmed running
	SessionRunning SessionState = "Running"

	// SessionCompleted means the process exited with code 0
	SessionCompleted SessionState = "Completed"

	// SessionFailed means the process failed to launch or exited non-zero
	SessionFailed SessionState = "Failed"

	// SessionCancelled means the operator requested termination before natural exit
	SessionCancelled SessionState = "Cancelled"
)

// String returns the string representation of SessionState
func (s SessionState) String() string {
	return string(s)
}

// IsActive returns true if a process is (or is about to be) attached to the session
func (s SessionState) IsActive() bool {
	return s == SessionStarting || s == SessionRunning
}

// IsFinished returns true if the state is terminal (completed, failed, or cancelled)
func (s SessionState) IsFinished() bool {
	return s == SessionCompleted || s == SessionFailed || s == SessionCancelled
}

// Outcome is the terminal result of a single session
type Outcome = SessionState

// Terminal outcomes
const (
	OutcomeCompleted = SessionCompleted
	OutcomeFailed    = SessionFailed
	OutcomeCancelled = SessionCancelled
)
