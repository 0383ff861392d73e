// Package processtest provides a scripted process.Runner for tests of code
// that drives the external tool, without spawning anything.
package processtest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ytget/vidgrab/internal/process"
)

// ErrNotFound is the spawn failure used by Script.SpawnFail
var ErrNotFound = errors.New("executable file not found in $PATH")

// Script describes how one fake process behaves
type Script struct {
	Lines     []string      // stdout lines emitted in order (ModeLines)
	Output    []byte        // stdout document (ModeJSON)
	LineDelay time.Duration // pause before each line
	ExitCode  int           // exit code after natural completion
	SpawnFail bool          // Run returns *process.SpawnError

	// Hold keeps the process alive after its lines until Terminate is called
	Hold bool

	// TerminatedCode is the exit code reported after Terminate; -1 means killed by signal
	TerminatedCode int
}

// Call records one Run invocation
type Call struct {
	Name     string
	Args     []string
	Options  process.Options
	Deadline time.Time // zero when the context had no deadline
}

// Runner replays scripts in order; once the queue is empty Default is used
type Runner struct {
	Default Script

	mu        sync.Mutex
	queue     []Script
	calls     []Call
	processes []*Process
}

// NewRunner creates a runner that replays scripts in order
func NewRunner(scripts ...Script) *Runner {
	return &Runner{queue: scripts}
}

// Push appends a script to the queue
func (r *Runner) Push(s Script) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, s)
}

// Calls returns a copy of all recorded invocations
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallCount returns how many times Run was invoked
func (r *Runner) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Last returns the most recently started process, nil if none
func (r *Runner) Last() *Process {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.processes) == 0 {
		return nil
	}
	return r.processes[len(r.processes)-1]
}

func (r *Runner) Run(ctx context.Context, name string, args []string, opts process.Options) (process.Process, error) {
	deadline, _ := ctx.Deadline()
	r.mu.Lock()
	r.calls = append(r.calls, Call{Name: name, Args: append([]string(nil), args...), Options: opts, Deadline: deadline})
	script := r.Default
	if len(r.queue) > 0 {
		script = r.queue[0]
		r.queue = r.queue[1:]
	}
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if script.SpawnFail {
		return nil, &process.SpawnError{Name: name, Err: ErrNotFound}
	}

	p := &Process{
		name:       name,
		script:     script,
		mode:       opts.Mode,
		lines:      make(chan string),
		done:       make(chan struct{}),
		terminated: make(chan struct{}),
	}

	r.mu.Lock()
	p.pid = 10000 + len(r.processes)
	r.processes = append(r.processes, p)
	r.mu.Unlock()

	go p.run()
	go func() {
		select {
		case <-ctx.Done():
			_ = p.Terminate()
		case <-p.done:
		}
	}()
	return p, nil
}

// Process is a fake process.Process driven by a Script
type Process struct {
	name   string
	pid    int
	script Script
	mode   process.Mode

	lines  chan string
	output []byte
	err    error
	done   chan struct{}

	mu         sync.Mutex
	termCalls  int
	termOnce   sync.Once
	terminated chan struct{}
}

func (p *Process) PID() int {
	return p.pid
}

func (p *Process) Lines() <-chan string {
	return p.lines
}

func (p *Process) Output() []byte {
	select {
	case <-p.done:
		return p.output
	default:
		return nil
	}
}

func (p *Process) Done() <-chan struct{} {
	return p.done
}

func (p *Process) Wait() error {
	<-p.done
	return p.err
}

func (p *Process) Terminate() error {
	p.mu.Lock()
	p.termCalls++
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	default:
	}
	p.termOnce.Do(func() { close(p.terminated) })
	return nil
}

// TerminateCalls returns how many times Terminate was invoked
func (p *Process) TerminateCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.termCalls
}

// Terminated reports whether Terminate reached a live process
func (p *Process) Terminated() bool {
	select {
	case <-p.terminated:
		return true
	default:
		return false
	}
}

func (p *Process) run() {
	killed := p.emit()
	close(p.lines)

	if !killed && p.script.Hold {
		<-p.terminated
		killed = true
	}

	switch {
	case killed:
		code := p.script.TerminatedCode
		if code == 0 {
			code = -1
		}
		p.err = &process.ExitError{Name: p.name, Code: code, Err: errors.New("signal: terminated")}
	case p.script.ExitCode != 0:
		p.err = &process.ExitError{Name: p.name, Code: p.script.ExitCode, Err: errors.New("exit status")}
	default:
		p.output = p.script.Output
	}
	close(p.done)
}

// emit sends scripted lines and reports whether termination cut it short
func (p *Process) emit() bool {
	if p.mode == process.ModeJSON {
		return false
	}
	for _, line := range p.script.Lines {
		if p.script.LineDelay > 0 {
			select {
			case <-time.After(p.script.LineDelay):
			case <-p.terminated:
				return true
			}
		}
		select {
		case p.lines <- line:
		case <-p.terminated:
			return true
		}
	}
	return false
}
