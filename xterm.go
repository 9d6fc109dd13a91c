package termsession

import (
	"fmt"
	"unicode/utf8"

	headlessterm "github.com/danielgatis/go-headless-term"
)

// EncodeKey converts a key event into the xterm-style byte sequence the
// current terminal modes call for. Named keys always produce a sequence;
// a literal rune is encoded directly, with Ctrl and Alt folded in.
func (e *HeadlessEngine) EncodeKey(ev KeyEvent) []byte {
	return encodeKey(ev,
		e.term.HasMode(headlessterm.ModeCursorKeys),
		e.term.HasMode(headlessterm.ModeKeypadApplication),
		e.term.HasMode(headlessterm.ModeBracketedPaste))
}

// EncodeMouse converts a mouse event into the reporting sequence the
// active mouse mode calls for. Returns nil when no mouse reporting is
// active, or when motion is reported but motion tracking is off.
func (e *HeadlessEngine) EncodeMouse(ev MouseEvent) []byte {
	clicks := e.term.HasMode(headlessterm.ModeReportMouseClicks)
	cellMotion := e.term.HasMode(headlessterm.ModeReportCellMouseMotion)
	allMotion := e.term.HasMode(headlessterm.ModeReportAllMouseMotion)
	if !clicks && !cellMotion && !allMotion {
		return nil
	}
	if ev.Motion && !cellMotion && !allMotion {
		return nil
	}
	return encodeMouse(ev,
		e.term.HasMode(headlessterm.ModeSGRMouse),
		e.term.HasMode(headlessterm.ModeUTF8Mouse))
}

// modParam computes the xterm modifier parameter: 1 plus the modifier
// bits (Shift 1, Alt 2, Ctrl 4, Meta 8).
func modParam(m Modifier) int {
	p := 1
	if m.HasShift() {
		p++
	}
	if m.HasAlt() {
		p += 2
	}
	if m.HasCtrl() {
		p += 4
	}
	if m.HasMeta() {
		p += 8
	}
	return p
}

func encodeKey(ev KeyEvent, appCursor, appKeypad, bracketed bool) []byte {
	switch ev.Key {
	case KeyNone:
		return encodeRune(ev.Rune, ev.Mod)
	case KeyEnter:
		return withAltPrefix([]byte{'\r'}, ev.Mod)
	case KeyEscape:
		return []byte{0x1b}
	case KeyBackspace:
		// DEL, matching what xterm-256color terminfo advertises as kbs.
		return withAltPrefix([]byte{0x7f}, ev.Mod)
	case KeyTab:
		if ev.Mod.HasShift() {
			return []byte("\x1b[Z")
		}
		return withAltPrefix([]byte{'\t'}, ev.Mod)
	case KeyUp:
		return cursorKey('A', appCursor, ev.Mod)
	case KeyDown:
		return cursorKey('B', appCursor, ev.Mod)
	case KeyRight:
		return cursorKey('C', appCursor, ev.Mod)
	case KeyLeft:
		return cursorKey('D', appCursor, ev.Mod)
	case KeyHome:
		return cursorKey('H', appCursor, ev.Mod)
	case KeyEnd:
		return cursorKey('F', appCursor, ev.Mod)
	case KeyInsert:
		return tildeKey(2, ev.Mod)
	case KeyDelete:
		return tildeKey(3, ev.Mod)
	case KeyPageUp:
		return tildeKey(5, ev.Mod)
	case KeyPageDown:
		return tildeKey(6, ev.Mod)
	case KeyF1:
		return fnKey('P', ev.Mod)
	case KeyF2:
		return fnKey('Q', ev.Mod)
	case KeyF3:
		return fnKey('R', ev.Mod)
	case KeyF4:
		return fnKey('S', ev.Mod)
	case KeyF5:
		return tildeKey(15, ev.Mod)
	case KeyF6:
		return tildeKey(17, ev.Mod)
	case KeyF7:
		return tildeKey(18, ev.Mod)
	case KeyF8:
		return tildeKey(19, ev.Mod)
	case KeyF9:
		return tildeKey(20, ev.Mod)
	case KeyF10:
		return tildeKey(21, ev.Mod)
	case KeyF11:
		return tildeKey(23, ev.Mod)
	case KeyF12:
		return tildeKey(24, ev.Mod)
	case KeyKp0, KeyKp1, KeyKp2, KeyKp3, KeyKp4,
		KeyKp5, KeyKp6, KeyKp7, KeyKp8, KeyKp9,
		KeyKpEnter, KeyKpPlus, KeyKpMinus,
		KeyKpMultiply, KeyKpDivide, KeyKpPeriod:
		return keypadKey(ev.Key, appKeypad)
	case KeyPasteStart:
		if bracketed {
			return []byte("\x1b[200~")
		}
		return []byte{}
	case KeyPasteEnd:
		if bracketed {
			return []byte("\x1b[201~")
		}
		return []byte{}
	default:
		return []byte{}
	}
}

// cursorKey encodes the arrow and Home/End keys. With modifiers the CSI
// form carries them; otherwise application cursor mode selects SS3.
func cursorKey(final byte, app bool, m Modifier) []byte {
	if p := modParam(m); p > 1 {
		return []byte(fmt.Sprintf("\x1b[1;%d%c", p, final))
	}
	if app {
		return []byte{0x1b, 'O', final}
	}
	return []byte{0x1b, '[', final}
}

func tildeKey(code int, m Modifier) []byte {
	if p := modParam(m); p > 1 {
		return []byte(fmt.Sprintf("\x1b[%d;%d~", code, p))
	}
	return []byte(fmt.Sprintf("\x1b[%d~", code))
}

// fnKey encodes F1-F4, which use SS3 finals P-S unmodified.
func fnKey(final byte, m Modifier) []byte {
	if p := modParam(m); p > 1 {
		return []byte(fmt.Sprintf("\x1b[1;%d%c", p, final))
	}
	return []byte{0x1b, 'O', final}
}

var keypadFinals = map[Key][2]byte{
	KeyKp0:        {'0', 'p'},
	KeyKp1:        {'1', 'q'},
	KeyKp2:        {'2', 'r'},
	KeyKp3:        {'3', 's'},
	KeyKp4:        {'4', 't'},
	KeyKp5:        {'5', 'u'},
	KeyKp6:        {'6', 'v'},
	KeyKp7:        {'7', 'w'},
	KeyKp8:        {'8', 'x'},
	KeyKp9:        {'9', 'y'},
	KeyKpEnter:    {'\r', 'M'},
	KeyKpPlus:     {'+', 'k'},
	KeyKpMinus:    {'-', 'm'},
	KeyKpMultiply: {'*', 'j'},
	KeyKpDivide:   {'/', 'o'},
	KeyKpPeriod:   {'.', 'n'},
}

// keypadKey encodes the numeric keypad: SS3 sequences in application
// keypad mode, the literal ASCII character otherwise.
func keypadKey(k Key, app bool) []byte {
	finals, ok := keypadFinals[k]
	if !ok {
		return []byte{}
	}
	if app {
		return []byte{0x1b, 'O', finals[1]}
	}
	return []byte{finals[0]}
}

// encodeRune encodes a literal code point, folding Ctrl into the byte
// value where a control byte exists and prefixing ESC for Alt.
func encodeRune(r rune, m Modifier) []byte {
	var seq []byte
	if b, ok := ctrlByte(r); m.HasCtrl() && ok {
		seq = []byte{b}
	} else {
		seq = utf8.AppendRune(nil, r)
	}
	return withAltPrefix(seq, m)
}

// ctrlByte maps a rune to its control byte, following the xterm rules:
// letters fold to 0x01-0x1a, the 0x5b-0x5f range to 0x1b-0x1f, space and
// '@' to NUL, '?' to DEL.
func ctrlByte(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r) & 0x1f, true
	case r >= 'A' && r <= 'Z':
		return byte(r) & 0x1f, true
	case r >= '[' && r <= '_':
		return byte(r) & 0x1f, true
	case r == ' ' || r == '@':
		return 0, true
	case r == '?':
		return 0x7f, true
	default:
		return 0, false
	}
}

func withAltPrefix(seq []byte, m Modifier) []byte {
	if m.HasAlt() {
		return append([]byte{0x1b}, seq...)
	}
	return seq
}

// mouseButtonCode computes the xterm button code with modifier and
// motion bits folded in.
func mouseButtonCode(ev MouseEvent) int {
	var b int
	switch ev.Button {
	case MouseLeft:
		b = 0
	case MouseMiddle:
		b = 1
	case MouseRight:
		b = 2
	case MouseWheelUp:
		b = 64
	case MouseWheelDown:
		b = 65
	}
	if ev.Mod.HasShift() {
		b += 4
	}
	if ev.Mod.HasAlt() {
		b += 8
	}
	if ev.Mod.HasCtrl() {
		b += 16
	}
	if ev.Motion {
		b += 32
	}
	return b
}

func encodeMouse(ev MouseEvent, sgr, utf8Mouse bool) []byte {
	b := mouseButtonCode(ev)
	wheel := ev.Button == MouseWheelUp || ev.Button == MouseWheelDown
	release := !ev.Pressed && !ev.Motion && !wheel

	if sgr {
		final := byte('M')
		if release {
			final = 'm'
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", b, ev.Col+1, ev.Row+1, final))
	}

	// Legacy encodings carry the release in the button bits.
	if release {
		b = (b &^ 0x3) | 3
	}
	if utf8Mouse {
		seq := []byte("\x1b[M")
		seq = utf8.AppendRune(seq, rune(32+b))
		seq = utf8.AppendRune(seq, rune(32+ev.Col+1))
		seq = utf8.AppendRune(seq, rune(32+ev.Row+1))
		return seq
	}
	// X10 bytes cannot express coordinates past 223.
	col, row := ev.Col+1, ev.Row+1
	if col > 223 {
		col = 223
	}
	if row > 223 {
		row = 223
	}
	return []byte{0x1b, '[', 'M', byte(32 + b), byte(32 + col), byte(32 + row)}
}
