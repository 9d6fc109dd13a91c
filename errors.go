package termsession

import "errors"

var (
	// ErrSpawn indicates that process start or engine construction failed.
	// Session creation is aborted and no partial state is retained.
	ErrSpawn = errors.New("termsession: spawn failed")

	// ErrNotFound indicates that no session exists for the given id.
	ErrNotFound = errors.New("termsession: session not found")

	// ErrChannelClosed indicates that the process channel is no longer open.
	ErrChannelClosed = errors.New("termsession: channel closed")

	// ErrEngineReleased indicates that the emulation engine has been released
	// (the session is frozen) and live queries are no longer possible.
	ErrEngineReleased = errors.New("termsession: engine released")

	// ErrEncodeOverflow indicates that an input event would produce a byte
	// sequence larger than the bounded output buffer. The event is dropped.
	ErrEncodeOverflow = errors.New("termsession: encoded input too large")

	// ErrWaitTimeout indicates that Wait returned before the job ended.
	ErrWaitTimeout = errors.New("termsession: wait timed out")
)
