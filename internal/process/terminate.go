package process

import (
	"errors"
	"os"
	"syscall"

	ps "github.com/shirou/gopsutil/v3/process"
)

// maxTreeDepth bounds the descendant walk
const maxTreeDepth = 16

// signalTree sends a termination (or kill) request to proc and every
// descendant. Descendants are collected before anything is signalled so that
// children re-parented by an early parent exit are still reached; the process
// group is signalled as well to cover children the table walk missed.
func signalTree(proc *os.Process, kill bool) error {
	root, err := ps.NewProcess(int32(proc.Pid))
	if err != nil {
		if errors.Is(err, ps.ErrorProcessNotRunning) {
			return nil
		}
		// the process table lookup failed; fall back to the group and the direct handle
		if gerr := signalGroup(proc.Pid, kill); gerr != nil {
			return gerr
		}
		if kill {
			return ignoreFinished(proc.Kill())
		}
		return nil
	}

	tree := descendants(root, 0, map[int32]bool{root.Pid: true})

	var firstErr error
	record := func(err error) {
		if err = ignoreFinished(err); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	record(signalGroup(proc.Pid, kill))

	tree = append(tree, root)
	for _, p := range tree {
		var err error
		if kill {
			err = p.Kill()
		} else {
			err = p.Terminate()
		}
		record(err)
	}
	return firstErr
}

// descendants returns the children of p, deepest first
func descendants(p *ps.Process, depth int, seen map[int32]bool) []*ps.Process {
	if depth >= maxTreeDepth {
		return nil
	}
	children, err := p.Children()
	if err != nil {
		return nil
	}

	var out []*ps.Process
	for _, c := range children {
		if seen[c.Pid] {
			continue
		}
		seen[c.Pid] = true
		out = append(out, descendants(c, depth+1, seen)...)
		out = append(out, c)
	}
	return out
}

func ignoreFinished(err error) error {
	if err == nil || errors.Is(err, os.ErrProcessDone) || errors.Is(err, ps.ErrorProcessNotRunning) || errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}
