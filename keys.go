package termsession

// maxEncodedLen bounds the byte sequence one input event may produce. No
// key or mouse event legitimately needs more; anything larger is dropped
// rather than risk corrupting the channel stream.
const maxEncodedLen = 200

// Key identifies a named key. Keys that only have meaning to the host UI
// are not part of this vocabulary; the encoder reports events it cannot
// map as not consumed so the host can act on them instead.
type Key uint16

const (
	// KeyNone marks a literal code point event (see KeyEvent.Rune).
	KeyNone Key = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyKp0
	KeyKp1
	KeyKp2
	KeyKp3
	KeyKp4
	KeyKp5
	KeyKp6
	KeyKp7
	KeyKp8
	KeyKp9
	KeyKpEnter
	KeyKpPlus
	KeyKpMinus
	KeyKpMultiply
	KeyKpDivide
	KeyKpPeriod
	// KeyPasteStart and KeyPasteEnd bracket pasted text. They encode to
	// bytes only when the engine has bracketed paste switched on.
	KeyPasteStart
	KeyPasteEnd
)

// Modifier is a bitmask of modifier keys held during an input event.
type Modifier uint8

const (
	// ModShift indicates the Shift key was held.
	ModShift Modifier = 1 << iota
	// ModAlt indicates the Alt key was held.
	ModAlt
	// ModCtrl indicates the Ctrl key was held.
	ModCtrl
	// ModMeta indicates the Meta/Super key was held.
	ModMeta
)

// HasShift returns true if the Shift modifier is set.
func (m Modifier) HasShift() bool { return m&ModShift != 0 }

// HasAlt returns true if the Alt modifier is set.
func (m Modifier) HasAlt() bool { return m&ModAlt != 0 }

// HasCtrl returns true if the Ctrl modifier is set.
func (m Modifier) HasCtrl() bool { return m&ModCtrl != 0 }

// HasMeta returns true if the Meta modifier is set.
func (m Modifier) HasMeta() bool { return m&ModMeta != 0 }

// KeyEvent is an abstract keyboard event: either a named key or, when Key
// is KeyNone, a literal code point in Rune.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mod  Modifier
}

// MouseButton identifies a mouse button. Buttons 1-3 click, drag and
// release; 4 and 5 are the scroll wheel.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota + 1
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseEvent is an abstract mouse event with the position given in cells
// relative to the session's viewport origin.
type MouseEvent struct {
	Button  MouseButton
	Pressed bool
	Motion  bool // a drag: button held while moving
	Row     int
	Col     int
	Mod     Modifier
}

// KeyEncoder maps abstract input events to the engine's encoder and reads
// back the bounded byte sequence to forward to the process channel. It
// does not construct escape sequences itself; that is the engine's job.
type KeyEncoder struct {
	engine Engine
	// outside latches when a click lands outside the viewport, so that
	// the drag and release that follow it are not consumed either.
	outside bool
}

// NewKeyEncoder creates an encoder delegating to the given engine.
func NewKeyEncoder(engine Engine) *KeyEncoder {
	return &KeyEncoder{engine: engine}
}

// EncodeKey converts a key event to bytes. The second return value
// reports whether the event was consumed; an unconsumed event should be
// handled by the host as a UI action. A consumed event whose encoding
// would exceed the bounded buffer is dropped and reported with
// ErrEncodeOverflow.
func (e *KeyEncoder) EncodeKey(ev KeyEvent) ([]byte, bool, error) {
	if ev.Key == KeyNone && ev.Rune == 0 {
		return nil, false, nil
	}
	data := e.engine.EncodeKey(ev)
	if len(data) > maxEncodedLen {
		return nil, true, ErrEncodeOverflow
	}
	return data, true, nil
}

// EncodeMouse converts a mouse event to bytes. Events outside the
// viewport bounds are not consumed, and neither are the drag and release
// that follow a click outside them. Wheel events are always consumed. An
// in-viewport event is consumed even when the engine has no mouse
// reporting mode active and encodes nothing.
func (e *KeyEncoder) EncodeMouse(ev MouseEvent, rows, cols int) ([]byte, bool, error) {
	wheel := ev.Button == MouseWheelUp || ev.Button == MouseWheelDown
	if !wheel {
		outside := ev.Row < 0 || ev.Row >= rows || ev.Col < 0 || ev.Col >= cols
		if ev.Pressed && !ev.Motion {
			// A fresh click decides the latch for the drag and release
			// that follow it.
			e.outside = outside
		}
		if outside || e.outside {
			return nil, false, nil
		}
	}
	data := e.engine.EncodeMouse(ev)
	if len(data) > maxEncodedLen {
		return nil, true, ErrEncodeOverflow
	}
	return data, true, nil
}
