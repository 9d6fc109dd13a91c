package termsession

import "io"

// ChannelStatus describes the state of the process behind a channel.
type ChannelStatus int

const (
	// ChannelRunning means the process is alive and the channel is usable.
	ChannelRunning ChannelStatus = iota
	// ChannelEnded means the process exited.
	ChannelEnded
	// ChannelFailed means the process could not run or ended abnormally.
	ChannelFailed
)

// String returns the status as a word.
func (s ChannelStatus) String() string {
	switch s {
	case ChannelRunning:
		return "running"
	case ChannelEnded:
		return "ended"
	case ChannelFailed:
		return "failed"
	}
	return "unknown"
}

// Signal names a way to stop the process behind a channel.
type Signal string

const (
	// SignalTerm requests a graceful stop.
	SignalTerm Signal = "term"
	// SignalInt interrupts the process.
	SignalInt Signal = "int"
	// SignalHup signals that the controlling terminal went away.
	SignalHup Signal = "hup"
	// SignalKill force-terminates the process.
	SignalKill Signal = "kill"
	// SignalWinch notifies the process that the terminal size changed.
	SignalWinch Signal = "winch"
)

// Channel is the process I/O collaborator: the raw transport between the
// session and the child process. Spawning is the channel's business; the
// session only holds a non-owning handle.
type Channel interface {
	// Send writes bytes to the process input.
	Send(data []byte) error
	// IsOpen returns true while the transport is usable.
	IsOpen() bool
	// ReportSize tells the process side about a new terminal size using
	// the platform-appropriate mechanism. Failures are never fatal.
	ReportSize(rows, cols int) error
	// Status returns the process state.
	Status() ChannelStatus
	// Stop delivers the given signal to the process.
	Stop(sig Signal) error
}

// ChannelFactory spawns the process for a command and returns the channel
// connected to it.
type ChannelFactory func(cmd string, rows, cols int) (Channel, error)

// pendingDrainer is implemented by channels that can hand over process
// output without blocking. Wait uses it to keep pumping while polling.
type pendingDrainer interface {
	ReadPending(p []byte) (int, error)
}

// channelWriter adapts a Channel to io.Writer so the engine can write
// terminal responses (cursor position reports and similar) straight back
// to the process.
type channelWriter struct {
	ch Channel
}

func (w channelWriter) Write(p []byte) (int, error) {
	if !w.ch.IsOpen() {
		return len(p), nil
	}
	if err := w.ch.Send(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// NoopChannel is a closed channel with no process behind it. Useful as a
// placeholder where a session is constructed around pre-recorded output.
type NoopChannel struct{}

func (NoopChannel) Send(data []byte) error          { return ErrChannelClosed }
func (NoopChannel) IsOpen() bool                    { return false }
func (NoopChannel) ReportSize(rows, cols int) error { return nil }
func (NoopChannel) Status() ChannelStatus           { return ChannelEnded }
func (NoopChannel) Stop(sig Signal) error           { return nil }

var _ Channel = NoopChannel{}
var _ io.Writer = channelWriter{}
