//go:build windows

package process

import "os/exec"

// isolate is a no-op on Windows; descendants are found through the process table
func isolate(cmd *exec.Cmd) {}

// signalGroup is a no-op on Windows
func signalGroup(pid int, kill bool) error {
	return nil
}
