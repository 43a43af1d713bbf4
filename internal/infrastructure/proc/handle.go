package proc

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Handle supervises a single external tool invocation. The process is
// waited on in a background goroutine so callers can poll IsDone without
// blocking.
type Handle struct {
	cmd    *exec.Cmd
	stderr bytes.Buffer
	grace  time.Duration

	done       chan struct{}
	waitErr    error
	cancelOnce sync.Once
}

// Start launches name with args and begins waiting for it to exit.
// grace bounds how long Cancel waits for a terminated process before
// escalating to a kill.
func Start(name string, args []string, grace time.Duration) (*Handle, error) {
	h := &Handle{
		cmd:   exec.Command(name, args...),
		grace: grace,
		done:  make(chan struct{}),
	}
	h.cmd.Stdout = &h.stderr
	h.cmd.Stderr = &h.stderr

	if err := h.cmd.Start(); err != nil {
		return nil, fmt.Errorf("%s start failed: %w", name, err)
	}

	go func() {
		err := h.cmd.Wait()
		if err != nil {
			h.waitErr = fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(h.stderr.String()))
		}
		close(h.done)
	}()

	return h, nil
}

// IsDone reports whether the process has exited. Non-blocking.
func (h *Handle) IsDone() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Result returns the process outcome. Only valid after IsDone reports true.
func (h *Handle) Result() error {
	return h.waitErr
}

// Cancel sends SIGTERM to the process, escalating to SIGKILL if it has
// not exited within the grace period. Best-effort: the process may
// outlive the caller by at most the grace period.
func (h *Handle) Cancel() {
	h.cancelOnce.Do(func() {
		if h.cmd.Process == nil {
			return
		}
		_ = h.cmd.Process.Signal(syscall.SIGTERM)
		go func() {
			select {
			case <-h.done:
			case <-time.After(h.grace):
				_ = h.cmd.Process.Kill()
			}
		}()
	})
}
