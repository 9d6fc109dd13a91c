package termsession

import "io"

// Engine is the VT emulation collaborator: it interprets terminal escape
// sequences, maintains the cell grid, and encodes abstract input events
// into the byte sequences the current terminal modes call for.
//
// Feed and Flush form a synchronous pair: Feed buffers raw process bytes
// into the emulator, Flush interprets them and returns the resulting
// change events in order. No engine method may be called on a released
// engine.
type Engine interface {
	// Feed writes raw process output into the emulator.
	Feed(data []byte)
	// Flush interprets pending input and returns the change events it
	// produced, in order. PushLineEvent cells are already copied.
	Flush() []Event
	// Cell returns the cell at the given grid position.
	Cell(row, col int) Cell
	// Cursor returns the current cursor position and visibility.
	Cursor() (row, col int, visible bool)
	// SetSize resizes the grid. Change events, including the resulting
	// ResizeEvent, are reported by the next Flush.
	SetSize(rows, cols int)
	// EncodeKey converts a key event into the byte sequence to send to
	// the process. The sequence may be empty when the active modes call
	// for nothing to be sent.
	EncodeKey(ev KeyEvent) []byte
	// EncodeMouse converts a mouse event into the byte sequence to send
	// to the process. Returns nil when no mouse reporting mode is active.
	EncodeMouse(ev MouseEvent) []byte
	// Text returns the plain text of the half-open row range
	// [startRow, endRow), lines joined with newlines, trailing blanks
	// trimmed.
	Text(startRow, endRow int) string
	// Release frees the emulator. The engine must not be used afterwards.
	Release()
}

// EngineFactory constructs an engine with the given initial geometry.
// Responses the emulator generates (cursor position reports and similar)
// are written to w, which is connected to the process channel.
type EngineFactory func(rows, cols int, w io.Writer) Engine
