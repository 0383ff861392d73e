package process

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/ytget/vidgrab/internal/logger"
)

// Runner defaults
const (
	DefaultKillGrace   = 5 * time.Second
	DefaultStderrLimit = 4 * 1024
	MaxLineLength      = 256 * 1024
	lineBufferSize     = 64
)

// ExecRunner starts real OS processes
type ExecRunner struct {
	// KillGrace is how long Terminate waits before force-killing the tree
	KillGrace time.Duration

	// StderrLimit caps the stderr tail kept for ExitError
	StderrLimit int
}

// NewRunner creates a runner with default limits
func NewRunner() *ExecRunner {
	return &ExecRunner{
		KillGrace:   DefaultKillGrace,
		StderrLimit: DefaultStderrLimit,
	}
}

// Run starts name with args. Launch failures return *SpawnError; the runner
// never retries.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, opts Options) (Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(name, args...)
	cmd.Dir = opts.Dir
	isolate(cmd)
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Name: name, Err: err}
	}

	limit := r.StderrLimit
	if limit <= 0 {
		limit = DefaultStderrLimit
	}
	stderr := newTailBuffer(limit)
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Name: name, Err: err}
	}

	grace := r.KillGrace
	if grace <= 0 {
		grace = DefaultKillGrace
	}

	p := &execProcess{
		name:       name,
		cmd:        cmd,
		mode:       opts.Mode,
		stderr:     stderr,
		killGrace:  grace,
		lines:      make(chan string, lineBufferSize),
		done:       make(chan struct{}),
		terminated: make(chan struct{}),
	}

	logger.Debug("Process started", "name", name, "pid", p.PID(), "mode", opts.Mode)

	go p.consume(stdout)
	go p.watch(ctx)

	return p, nil
}

// execProcess is the Process backed by os/exec
type execProcess struct {
	name      string
	cmd       *exec.Cmd
	mode      Mode
	stderr    *tailBuffer
	killGrace time.Duration

	lines  chan string
	output []byte
	err    error
	done   chan struct{}

	termOnce   sync.Once
	terminated chan struct{}
}

func (p *execProcess) PID() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Lines() <-chan string {
	return p.lines
}

func (p *execProcess) Output() []byte {
	select {
	case <-p.done:
		return p.output
	default:
		return nil
	}
}

func (p *execProcess) Done() <-chan struct{} {
	return p.done
}

func (p *execProcess) Wait() error {
	<-p.done
	return p.err
}

func (p *execProcess) Terminate() error {
	select {
	case <-p.done:
		return nil
	default:
	}

	var err error
	p.termOnce.Do(func() {
		close(p.terminated)
		logger.Info("Terminating process tree", "name", p.name, "pid", p.PID())
		err = signalTree(p.cmd.Process, false)
		go p.escalate()
	})
	return err
}

// escalate force-kills the tree if it outlives the grace period
func (p *execProcess) escalate() {
	timer := time.NewTimer(p.killGrace)
	defer timer.Stop()

	select {
	case <-p.done:
	case <-timer.C:
		logger.Warn("Process ignored termination, killing", "name", p.name, "pid", p.PID(), "grace", p.killGrace)
		if err := signalTree(p.cmd.Process, true); err != nil {
			logger.Error("Failed to kill process tree", "pid", p.PID(), "error", err)
		}
	}
}

// watch terminates the process when ctx ends first
func (p *execProcess) watch(ctx context.Context) {
	select {
	case <-ctx.Done():
		if err := p.Terminate(); err != nil {
			logger.Warn("Terminate after context cancel failed", "pid", p.PID(), "error", err)
		}
	case <-p.done:
	}
}

// consume drains stdout, then reaps the process. Wait must not run before
// all reads from the pipe have finished.
func (p *execProcess) consume(stdout io.Reader) {
	if p.mode == ModeJSON {
		close(p.lines)
		data, err := io.ReadAll(stdout)
		if err != nil {
			logger.Warn("Reading process output failed", "name", p.name, "error", err)
		}
		p.output = data
	} else {
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
		scanner.Split(ScanLines)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				p.lines <- line
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Warn("Scanner error", "name", p.name, "error", err)
			// keep the pipe flowing so the child never blocks on a full pipe
			_, _ = io.Copy(io.Discard, stdout)
		}
		close(p.lines)
	}

	p.err = p.classify(p.cmd.Wait())
	close(p.done)

	logger.Debug("Process exited", "name", p.name, "pid", p.PID(), "error", p.err)
}

func (p *execProcess) classify(err error) error {
	if err == nil {
		return nil
	}

	exitErr := &ExitError{Name: p.name, Code: -1, Stderr: p.stderr.String(), Err: err}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		exitErr.Code = ee.ExitCode()
	}
	return exitErr
}
