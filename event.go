package termsession

// Event is a change notification produced by an engine flush. Events are
// consumed synchronously, in order, by the session that fed the engine;
// no callback registration is involved.
type Event interface {
	event()
}

// DamageEvent reports that cell content changed in the half-open row range
// [StartRow, EndRow).
type DamageEvent struct {
	StartRow int
	EndRow   int
}

// MoveRectEvent reports that a rectangle of cells moved. It is handled
// exactly like damage over the combined row range; no move optimization is
// attempted.
type MoveRectEvent struct {
	StartRow int
	EndRow   int
}

// CursorMoveEvent reports a new cursor position and visibility.
type CursorMoveEvent struct {
	Row     int
	Col     int
	Visible bool
}

// ResizeEvent reports that the engine grid geometry changed.
type ResizeEvent struct {
	Rows int
	Cols int
}

// PushLineEvent reports a row pushed off the top of the grid. The cells
// are owned by the event; they were copied out of the engine before the
// event was emitted.
type PushLineEvent struct {
	Cells []Cell
}

// TitleEvent reports a window title change.
type TitleEvent struct {
	Title string
}

// CursorVisibilityEvent reports a cursor visibility change without a move.
type CursorVisibilityEvent struct {
	Visible bool
}

func (DamageEvent) event()           {}
func (MoveRectEvent) event()         {}
func (CursorMoveEvent) event()       {}
func (ResizeEvent) event()           {}
func (PushLineEvent) event()         {}
func (TitleEvent) event()            {}
func (CursorVisibilityEvent) event() {}
