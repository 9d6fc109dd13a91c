package termsession

import (
	"bytes"
	"testing"
)

func TestEncodeKeyVectors(t *testing.T) {
	tests := []struct {
		name      string
		ev        KeyEvent
		appCursor bool
		appKeypad bool
		bracketed bool
		want      string
	}{
		{name: "up", ev: KeyEvent{Key: KeyUp}, want: "\x1b[A"},
		{name: "up application", ev: KeyEvent{Key: KeyUp}, appCursor: true, want: "\x1bOA"},
		{name: "shift up", ev: KeyEvent{Key: KeyUp, Mod: ModShift}, want: "\x1b[1;2A"},
		{name: "ctrl shift up", ev: KeyEvent{Key: KeyUp, Mod: ModShift | ModCtrl}, want: "\x1b[1;6A"},
		{name: "modified ignores application", ev: KeyEvent{Key: KeyUp, Mod: ModAlt}, appCursor: true, want: "\x1b[1;3A"},
		{name: "down", ev: KeyEvent{Key: KeyDown}, want: "\x1b[B"},
		{name: "right", ev: KeyEvent{Key: KeyRight}, want: "\x1b[C"},
		{name: "left", ev: KeyEvent{Key: KeyLeft}, want: "\x1b[D"},
		{name: "home", ev: KeyEvent{Key: KeyHome}, want: "\x1b[H"},
		{name: "end application", ev: KeyEvent{Key: KeyEnd}, appCursor: true, want: "\x1bOF"},
		{name: "insert", ev: KeyEvent{Key: KeyInsert}, want: "\x1b[2~"},
		{name: "delete", ev: KeyEvent{Key: KeyDelete}, want: "\x1b[3~"},
		{name: "ctrl delete", ev: KeyEvent{Key: KeyDelete, Mod: ModCtrl}, want: "\x1b[3;5~"},
		{name: "page up", ev: KeyEvent{Key: KeyPageUp}, want: "\x1b[5~"},
		{name: "page down", ev: KeyEvent{Key: KeyPageDown}, want: "\x1b[6~"},
		{name: "f1", ev: KeyEvent{Key: KeyF1}, want: "\x1bOP"},
		{name: "ctrl f1", ev: KeyEvent{Key: KeyF1, Mod: ModCtrl}, want: "\x1b[1;5P"},
		{name: "f4", ev: KeyEvent{Key: KeyF4}, want: "\x1bOS"},
		{name: "f5", ev: KeyEvent{Key: KeyF5}, want: "\x1b[15~"},
		{name: "f10", ev: KeyEvent{Key: KeyF10}, want: "\x1b[21~"},
		{name: "f12", ev: KeyEvent{Key: KeyF12}, want: "\x1b[24~"},
		{name: "shift f12", ev: KeyEvent{Key: KeyF12, Mod: ModShift}, want: "\x1b[24;2~"},
		{name: "enter", ev: KeyEvent{Key: KeyEnter}, want: "\r"},
		{name: "alt enter", ev: KeyEvent{Key: KeyEnter, Mod: ModAlt}, want: "\x1b\r"},
		{name: "escape", ev: KeyEvent{Key: KeyEscape}, want: "\x1b"},
		{name: "tab", ev: KeyEvent{Key: KeyTab}, want: "\t"},
		{name: "shift tab", ev: KeyEvent{Key: KeyTab, Mod: ModShift}, want: "\x1b[Z"},
		{name: "alt tab", ev: KeyEvent{Key: KeyTab, Mod: ModAlt}, want: "\x1b\t"},
		{name: "backspace", ev: KeyEvent{Key: KeyBackspace}, want: "\x7f"},
		{name: "alt backspace", ev: KeyEvent{Key: KeyBackspace, Mod: ModAlt}, want: "\x1b\x7f"},
		{name: "rune", ev: KeyEvent{Rune: 'x'}, want: "x"},
		{name: "alt rune", ev: KeyEvent{Rune: 'x', Mod: ModAlt}, want: "\x1bx"},
		{name: "ctrl a", ev: KeyEvent{Rune: 'a', Mod: ModCtrl}, want: "\x01"},
		{name: "ctrl space", ev: KeyEvent{Rune: ' ', Mod: ModCtrl}, want: "\x00"},
		{name: "ctrl question", ev: KeyEvent{Rune: '?', Mod: ModCtrl}, want: "\x7f"},
		{name: "ctrl alt b", ev: KeyEvent{Rune: 'b', Mod: ModCtrl | ModAlt}, want: "\x1b\x02"},
		{name: "ctrl digit stays literal", ev: KeyEvent{Rune: '1', Mod: ModCtrl}, want: "1"},
		{name: "multibyte rune", ev: KeyEvent{Rune: 'é'}, want: "é"},
		{name: "keypad digit", ev: KeyEvent{Key: KeyKp1}, want: "1"},
		{name: "keypad digit application", ev: KeyEvent{Key: KeyKp1}, appKeypad: true, want: "\x1bOq"},
		{name: "keypad enter", ev: KeyEvent{Key: KeyKpEnter}, want: "\r"},
		{name: "keypad enter application", ev: KeyEvent{Key: KeyKpEnter}, appKeypad: true, want: "\x1bOM"},
		{name: "keypad plus application", ev: KeyEvent{Key: KeyKpPlus}, appKeypad: true, want: "\x1bOk"},
		{name: "keypad period", ev: KeyEvent{Key: KeyKpPeriod}, want: "."},
		{name: "paste start", ev: KeyEvent{Key: KeyPasteStart}, bracketed: true, want: "\x1b[200~"},
		{name: "paste end", ev: KeyEvent{Key: KeyPasteEnd}, bracketed: true, want: "\x1b[201~"},
		{name: "paste start unbracketed", ev: KeyEvent{Key: KeyPasteStart}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeKey(tt.ev, tt.appCursor, tt.appKeypad, tt.bracketed)
			if string(got) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestModParam(t *testing.T) {
	tests := []struct {
		mod  Modifier
		want int
	}{
		{0, 1},
		{ModShift, 2},
		{ModAlt, 3},
		{ModShift | ModAlt, 4},
		{ModCtrl, 5},
		{ModShift | ModCtrl, 6},
		{ModAlt | ModCtrl, 7},
		{ModMeta, 9},
		{ModShift | ModAlt | ModCtrl | ModMeta, 16},
	}
	for _, tt := range tests {
		if got := modParam(tt.mod); got != tt.want {
			t.Errorf("modParam(%v): expected %d, got %d", tt.mod, tt.want, got)
		}
	}
}

func TestCtrlByte(t *testing.T) {
	tests := []struct {
		r    rune
		want byte
		ok   bool
	}{
		{'a', 0x01, true},
		{'z', 0x1a, true},
		{'A', 0x01, true},
		{'Z', 0x1a, true},
		{'[', 0x1b, true},
		{'\\', 0x1c, true},
		{']', 0x1d, true},
		{'^', 0x1e, true},
		{'_', 0x1f, true},
		{' ', 0x00, true},
		{'@', 0x00, true},
		{'?', 0x7f, true},
		{'1', 0, false},
		{'é', 0, false},
	}
	for _, tt := range tests {
		got, ok := ctrlByte(tt.r)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ctrlByte(%q): expected (%#x, %v), got (%#x, %v)", tt.r, tt.want, tt.ok, got, ok)
		}
	}
}

func TestEncodeMouseSGR(t *testing.T) {
	tests := []struct {
		name string
		ev   MouseEvent
		want string
	}{
		{name: "press", ev: MouseEvent{Button: MouseLeft, Pressed: true, Row: 4, Col: 9}, want: "\x1b[<0;10;5M"},
		{name: "release", ev: MouseEvent{Button: MouseLeft, Row: 4, Col: 9}, want: "\x1b[<0;10;5m"},
		{name: "middle press", ev: MouseEvent{Button: MouseMiddle, Pressed: true, Row: 0, Col: 0}, want: "\x1b[<1;1;1M"},
		{name: "right press", ev: MouseEvent{Button: MouseRight, Pressed: true, Row: 0, Col: 0}, want: "\x1b[<2;1;1M"},
		{name: "wheel up", ev: MouseEvent{Button: MouseWheelUp, Row: 4, Col: 9}, want: "\x1b[<64;10;5M"},
		{name: "wheel down", ev: MouseEvent{Button: MouseWheelDown, Row: 4, Col: 9}, want: "\x1b[<65;10;5M"},
		{name: "ctrl press", ev: MouseEvent{Button: MouseLeft, Pressed: true, Mod: ModCtrl, Row: 4, Col: 9}, want: "\x1b[<16;10;5M"},
		{name: "shift press", ev: MouseEvent{Button: MouseLeft, Pressed: true, Mod: ModShift, Row: 4, Col: 9}, want: "\x1b[<4;10;5M"},
		{name: "drag", ev: MouseEvent{Button: MouseLeft, Pressed: true, Motion: true, Row: 4, Col: 9}, want: "\x1b[<32;10;5M"},
		{name: "large coordinates", ev: MouseEvent{Button: MouseLeft, Pressed: true, Row: 499, Col: 999}, want: "\x1b[<0;1000;500M"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeMouse(tt.ev, true, false); string(got) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEncodeMouseX10(t *testing.T) {
	press := MouseEvent{Button: MouseLeft, Pressed: true, Row: 0, Col: 0}
	if got := encodeMouse(press, false, false); !bytes.Equal(got, []byte{0x1b, '[', 'M', 32, 33, 33}) {
		t.Errorf("expected X10 press, got %v", got)
	}

	release := MouseEvent{Button: MouseLeft, Row: 0, Col: 0}
	if got := encodeMouse(release, false, false); !bytes.Equal(got, []byte{0x1b, '[', 'M', 35, 33, 33}) {
		t.Errorf("expected X10 release with button bits 3, got %v", got)
	}

	wheel := MouseEvent{Button: MouseWheelUp, Row: 0, Col: 0}
	if got := encodeMouse(wheel, false, false); !bytes.Equal(got, []byte{0x1b, '[', 'M', 32 + 64, 33, 33}) {
		t.Errorf("expected X10 wheel to keep button bits, got %v", got)
	}

	far := MouseEvent{Button: MouseLeft, Pressed: true, Row: 500, Col: 500}
	if got := encodeMouse(far, false, false); !bytes.Equal(got, []byte{0x1b, '[', 'M', 32, 255, 255}) {
		t.Errorf("expected X10 coordinates capped at 223, got %v", got)
	}
}

func TestEncodeMouseUTF8(t *testing.T) {
	press := MouseEvent{Button: MouseLeft, Pressed: true, Row: 0, Col: 200}
	got := encodeMouse(press, false, true)
	want := append([]byte("\x1b[M"), 32)
	want = append(want, 0xc3, 0xa9) // rune 233 = 32 + col 201
	want = append(want, 33)
	if !bytes.Equal(got, want) {
		t.Errorf("expected UTF8 coordinates, got %v want %v", got, want)
	}
}
