package process

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

func collect(p Process) []string {
	var out []string
	for line := range p.Lines() {
		out = append(out, line)
	}
	return out
}

func TestRun_StreamsLines(t *testing.T) {
	skipOnWindows(t)

	p, err := NewRunner().Run(context.Background(), "sh", []string{"-c", `printf 'one\ntwo\rthree\r\nfour'`}, Options{Mode: ModeLines})
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two", "three", "four"}, collect(p))
	assert.NoError(t, p.Wait())
	assert.Nil(t, p.Output())
}

func TestRun_CapturesJSON(t *testing.T) {
	skipOnWindows(t)

	p, err := NewRunner().Run(context.Background(), "sh", []string{"-c", `echo '{"title":"Cat"}'`}, Options{Mode: ModeJSON})
	require.NoError(t, err)

	_, open := <-p.Lines()
	assert.False(t, open, "lines channel should be closed in JSON mode")

	require.NoError(t, p.Wait())
	assert.JSONEq(t, `{"title":"Cat"}`, string(p.Output()))
}

func TestRun_ExitCode(t *testing.T) {
	skipOnWindows(t)

	p, err := NewRunner().Run(context.Background(), "sh", []string{"-c", "echo boom >&2; exit 3"}, Options{})
	require.NoError(t, err)
	collect(p)

	err = p.Wait()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %T", err)
	assert.Equal(t, 3, exitErr.Code)
	assert.False(t, exitErr.Signaled())
	assert.Equal(t, "boom", exitErr.LastStderrLine())
}

func TestRun_SpawnError(t *testing.T) {
	_, err := NewRunner().Run(context.Background(), "definitely-not-a-real-binary-vidgrab", nil, Options{})

	var spawnErr *SpawnError
	require.True(t, errors.As(err, &spawnErr), "expected *SpawnError, got %T", err)
	assert.Equal(t, "definitely-not-a-real-binary-vidgrab", spawnErr.Name)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner().Run(ctx, "sh", []string{"-c", "true"}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTerminate_StopsProcessTree(t *testing.T) {
	skipOnWindows(t)

	p, err := NewRunner().Run(context.Background(), "sh", []string{"-c", "sleep 30 & sleep 30; wait"}, Options{})
	require.NoError(t, err)

	require.NoError(t, p.Terminate())
	require.NoError(t, p.Terminate(), "second Terminate must be a no-op")

	go collect(p)

	select {
	case <-p.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("process did not exit after Terminate")
	}

	var exitErr *ExitError
	require.True(t, errors.As(p.Wait(), &exitErr))
	assert.True(t, exitErr.Signaled())
}

func TestTerminate_AfterExitIsNoop(t *testing.T) {
	skipOnWindows(t)

	p, err := NewRunner().Run(context.Background(), "sh", []string{"-c", "true"}, Options{})
	require.NoError(t, err)
	collect(p)
	require.NoError(t, p.Wait())

	assert.NoError(t, p.Terminate())
}

func TestRun_ContextCancelTerminates(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithCancel(context.Background())
	p, err := NewRunner().Run(ctx, "sh", []string{"-c", "echo ready; sleep 30"}, Options{})
	require.NoError(t, err)

	assert.Equal(t, "ready", <-p.Lines())
	cancel()

	go collect(p)
	select {
	case <-p.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("process did not exit after context cancel")
	}
	assert.Error(t, p.Wait())
}

func TestScanLines_IncompleteCarriageReturn(t *testing.T) {
	advance, token, err := ScanLines([]byte("abc\r"), false)
	require.NoError(t, err)
	assert.Equal(t, 0, advance, "must wait for the byte after a trailing carriage return")
	assert.Nil(t, token)

	advance, token, err = ScanLines([]byte("abc\r"), true)
	require.NoError(t, err)
	assert.Equal(t, 4, advance)
	assert.Equal(t, "abc", string(token))
}

func TestTailBuffer_KeepsTail(t *testing.T) {
	buf := newTailBuffer(5)
	_, _ = buf.Write([]byte("hello"))
	_, _ = buf.Write([]byte(" world"))

	assert.Equal(t, "world", buf.String())
}
