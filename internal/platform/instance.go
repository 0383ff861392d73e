package platform

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Single instance guard
const (
	InstanceLockName = "instance.lock"

	activateRequest = "activate"
	activateReply   = "ok"
	instanceTimeout = time.Second
)

// ErrAlreadyRunning is returned by AcquireInstance when another live
// instance holds the lock. That instance has been asked to show itself.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Instance holds the single instance lock until Release
type Instance struct {
	ln         net.Listener
	path       string
	port       string
	onActivate func()

	wg   sync.WaitGroup
	once sync.Once
}

// AcquireInstance takes the single instance lock in dir. The lock file holds
// the loopback port the owner listens on; a later launch connects to it,
// which calls onActivate in the owner, and gets ErrAlreadyRunning. A lock
// whose owner no longer answers is reclaimed.
func AcquireInstance(dir string, onActivate func()) (*Instance, error) {
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		return nil, fmt.Errorf("instance lock dir: %w", err)
	}
	path := filepath.Join(dir, InstanceLockName)

	for attempt := 0; attempt < 2; attempt++ {
		inst, err := tryAcquire(path, onActivate)
		if err == nil {
			return inst, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, err
		}
		if activateRunning(path) {
			return nil, ErrAlreadyRunning
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("remove stale instance lock: %w", err)
		}
	}
	return nil, ErrAlreadyRunning
}

// tryAcquire publishes a new listener's port under path. The port is written
// to a temporary file first and linked into place, so readers never see a
// partial lock.
func tryAcquire(path string, onActivate func()) (*Instance, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("instance listener: %w", err)
	}
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	tmp, err := os.CreateTemp(filepath.Dir(path), InstanceLockName+".*")
	if err != nil {
		ln.Close()
		return nil, err
	}
	_, err = tmp.WriteString(port)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Link(tmp.Name(), path)
	}
	os.Remove(tmp.Name())
	if err != nil {
		ln.Close()
		return nil, err
	}

	inst := &Instance{ln: ln, path: path, port: port, onActivate: onActivate}
	inst.wg.Add(1)
	go inst.serve()
	return inst, nil
}

// activateRunning asks the owner recorded in path to show itself and reports
// whether it answered
func activateRunning(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	port := strings.TrimSpace(string(data))
	if _, err := strconv.Atoi(port); err != nil {
		return false
	}

	conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", port), instanceTimeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(instanceTimeout))

	if _, err := fmt.Fprintln(conn, activateRequest); err != nil {
		return false
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	return err == nil && strings.TrimSpace(reply) == activateReply
}

func (i *Instance) serve() {
	defer i.wg.Done()
	for {
		conn, err := i.ln.Accept()
		if err != nil {
			return
		}
		i.handle(conn)
	}
}

func (i *Instance) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(instanceTimeout))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil || strings.TrimSpace(line) != activateRequest {
		return
	}
	if _, err := fmt.Fprintln(conn, activateReply); err != nil {
		return
	}
	if i.onActivate != nil {
		i.onActivate()
	}
}

// Release stops answering later launches and removes the lock if it is still
// ours. It is safe to call more than once.
func (i *Instance) Release() error {
	var err error
	i.once.Do(func() {
		i.ln.Close()
		i.wg.Wait()

		data, rerr := os.ReadFile(i.path)
		if rerr != nil || strings.TrimSpace(string(data)) != i.port {
			return
		}
		if rerr := os.Remove(i.path); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			err = rerr
		}
	})
	return err
}
