//go:build !windows

package termsession

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// ptyPollTimeout bounds one non-blocking read probe in ReadPending.
const ptyPollTimeout = time.Millisecond

// PtyChannelFactory returns a factory that spawns commands on a Unix
// pseudo-terminal. termName is exported as TERM to the child.
func PtyChannelFactory(termName string) ChannelFactory {
	return func(cmd string, rows, cols int) (Channel, error) {
		return StartPtyChannel(cmd, termName, rows, cols)
	}
}

// PtyChannel runs a child process on a pseudo-terminal pair. Reads and
// writes go through the master side; size changes use the TIOCSWINSZ
// ioctl followed by an explicit SIGWINCH.
//
// The exit status is collected by a background goroutine, so Status is
// safe to poll from the session loop without blocking.
type PtyChannel struct {
	cmd    *exec.Cmd
	master *os.File

	mu     sync.Mutex
	status ChannelStatus
	closed bool
}

// StartPtyChannel spawns command on a new pty of the given size. An empty
// command starts an interactive shell; anything else is run through the
// shell with -c.
func StartPtyChannel(command, termName string, rows, cols int) (*PtyChannel, error) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	var cmd *exec.Cmd
	if command == "" {
		cmd = exec.Command(shell)
	} else {
		cmd = exec.Command(shell, "-c", command)
	}
	cmd.Env = append(os.Environ(), "TERM="+termName)

	master, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, err
	}
	ch := &PtyChannel{cmd: cmd, master: master, status: ChannelRunning}
	go ch.wait()
	return ch, nil
}

// wait collects the exit status. A nonzero exit code still counts as
// Ended; Failed is reserved for processes that never ran properly.
func (c *PtyChannel) wait() {
	err := c.cmd.Wait()
	c.mu.Lock()
	defer c.mu.Unlock()
	var exitErr *exec.ExitError
	if err == nil || errors.As(err, &exitErr) {
		c.status = ChannelEnded
	} else {
		c.status = ChannelFailed
	}
}

// Send writes bytes to the process input.
func (c *PtyChannel) Send(data []byte) error {
	if !c.IsOpen() {
		return ErrChannelClosed
	}
	_, err := c.master.Write(data)
	return err
}

// Read reads process output, blocking until some arrives. A closed pty
// reads as io.EOF regardless of how the platform reports it.
func (c *PtyChannel) Read(p []byte) (int, error) {
	n, err := c.master.Read(p)
	if err != nil && ptyClosed(err) {
		return n, io.EOF
	}
	return n, err
}

// ReadPending reads whatever output is already buffered without blocking
// for more. Returns 0, nil when nothing is pending.
func (c *PtyChannel) ReadPending(p []byte) (int, error) {
	if !c.IsOpen() {
		return 0, io.EOF
	}
	if err := c.master.SetReadDeadline(time.Now().Add(ptyPollTimeout)); err != nil {
		return c.Read(p)
	}
	n, err := c.master.Read(p)
	_ = c.master.SetReadDeadline(time.Time{})
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return n, nil
		}
		if ptyClosed(err) {
			return n, io.EOF
		}
	}
	return n, err
}

// IsOpen returns true until Close. The master stays readable after the
// child exits so buffered output can still be drained.
func (c *PtyChannel) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// ReportSize pushes the new size into the pty and nudges the process
// with SIGWINCH.
func (c *PtyChannel) ReportSize(rows, cols int) error {
	if !c.IsOpen() {
		return ErrChannelClosed
	}
	if err := pty.Setsize(c.master, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		return err
	}
	return c.signal(syscall.SIGWINCH)
}

// Status returns the process state.
func (c *PtyChannel) Status() ChannelStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Stop delivers the named signal to the process.
func (c *PtyChannel) Stop(sig Signal) error {
	s, ok := signalFor(sig)
	if !ok {
		return fmt.Errorf("unknown signal %q", sig)
	}
	return c.signal(s)
}

// Close releases the master side of the pty.
func (c *PtyChannel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.master.Close()
}

func (c *PtyChannel) signal(s os.Signal) error {
	if c.cmd.Process == nil {
		return ErrChannelClosed
	}
	return c.cmd.Process.Signal(s)
}

func signalFor(sig Signal) (os.Signal, bool) {
	switch sig {
	case SignalTerm:
		return syscall.SIGTERM, true
	case SignalInt:
		return syscall.SIGINT, true
	case SignalHup:
		return syscall.SIGHUP, true
	case SignalKill:
		return syscall.SIGKILL, true
	case SignalWinch:
		return syscall.SIGWINCH, true
	}
	return nil, false
}

// ptyClosed reports whether a read error means the pty is gone. Linux
// reports EIO on the master once the slave side closes.
func ptyClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, syscall.EIO)
}

var _ Channel = (*PtyChannel)(nil)
var _ io.Reader = (*PtyChannel)(nil)
var _ io.Closer = (*PtyChannel)(nil)
var _ pendingDrainer = (*PtyChannel)(nil)
