//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// isolate puts the child in its own process group so the whole tree can be
// signalled at once
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// signalGroup signals every member of the process group led by pid
func signalGroup(pid int, kill bool) error {
	sig := syscall.SIGTERM
	if kill {
		sig = syscall.SIGKILL
	}
	return ignoreFinished(syscall.Kill(-pid, sig))
}
