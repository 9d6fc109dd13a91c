package termsession

import "testing"

func TestNewCellWidth(t *testing.T) {
	if c := NewCell('a'); c.Width != 1 {
		t.Errorf("expected width 1 for 'a', got %d", c.Width)
	}
	if c := NewCell('汉'); c.Width != 2 {
		t.Errorf("expected width 2 for 汉, got %d", c.Width)
	}
	if c := NewCell('é'); c.Width != 1 {
		t.Errorf("expected width 1 for é, got %d", c.Width)
	}
}

func TestCellIsBlank(t *testing.T) {
	if !(Cell{Width: 1}).IsBlank() {
		t.Error("expected zero-rune cell blank")
	}
	if NewCell('x').IsBlank() {
		t.Error("expected 'x' not blank")
	}
	if NewCell(' ').IsBlank() {
		t.Error("expected explicit space not blank")
	}
}

func TestCellAddCombining(t *testing.T) {
	c := NewCell('e')
	for i := 0; i < MaxCombining+3; i++ {
		c.AddCombining(rune(0x0300 + i))
	}

	for i := 0; i < MaxCombining; i++ {
		if c.Combining[i] != rune(0x0300+i) {
			t.Errorf("expected combining %d kept, got %#x", i, c.Combining[i])
		}
	}
	if got := len([]rune(c.Text())); got != 1+MaxCombining {
		t.Errorf("expected overflow dropped, got %d code points", got)
	}
}

func TestCellText(t *testing.T) {
	if got := (Cell{Width: 1}).Text(); got != " " {
		t.Errorf("expected blank cell to render a space, got %q", got)
	}

	c := NewCell('e')
	c.AddCombining(0x0301)
	if got := c.Text(); got != "é" {
		t.Errorf("expected combining sequence, got %q", got)
	}
}

func TestAttrFlagsHas(t *testing.T) {
	a := AttrBold | AttrUnderline
	tests := []struct {
		name string
		want bool
	}{
		{"bold", true},
		{"underline", true},
		{"italic", false},
		{"strike", false},
		{"reverse", false},
		{"nonsense", false},
	}
	for _, tt := range tests {
		if got := a.Has(tt.name); got != tt.want {
			t.Errorf("Has(%q): expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestColorHex(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{Color{}, "#000000"},
		{Color{R: 255, G: 255, B: 255}, "#ffffff"},
		{Color{R: 205, G: 49, B: 49}, "#cd3131"},
		{Color{R: 0, G: 16, B: 250}, "#0010fa"},
	}
	for _, tt := range tests {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
