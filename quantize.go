package termsession

// Quantization of true-color cell attributes to a constrained palette, for
// hosts that cannot display 24-bit color. Index 0 means "no match"; the 16
// standard ANSI colors map to fixed indices 1-16; with a 256-entry palette
// the remaining colors map into the grayscale ramp or the 6x6x6 color cube
// (1-based, so cube indices start at 17).

// ansiColors are the RGB values of the standard ANSI colors and the 1-based
// palette index each one maps to. Pure gray (128,128,128) is deliberately
// not listed: with 256 colors it quantizes into the grayscale ramp instead.
var ansiColors = [15]struct {
	c     Color
	index int
}{
	{Color{0x00, 0x00, 0x00}, 1},  // black
	{Color{0xe0, 0x00, 0x00}, 2},  // dark red
	{Color{0x00, 0xe0, 0x00}, 3},  // dark green
	{Color{0xe0, 0xe0, 0x00}, 4},  // dark yellow / brown
	{Color{0x00, 0x00, 0xe0}, 5},  // dark blue
	{Color{0xe0, 0x00, 0xe0}, 6},  // dark magenta
	{Color{0x00, 0xe0, 0xe0}, 7},  // dark cyan
	{Color{0xe0, 0xe0, 0xe0}, 8},  // light grey
	{Color{0xff, 0x40, 0x40}, 10}, // light red
	{Color{0x40, 0xff, 0x40}, 11}, // light green
	{Color{0xff, 0xff, 0x40}, 12}, // yellow
	{Color{0x40, 0x40, 0xff}, 13}, // light blue
	{Color{0xff, 0x40, 0xff}, 14}, // light magenta
	{Color{0x40, 0xff, 0xff}, 15}, // light cyan
	{Color{0xff, 0xff, 0xff}, 16}, // white
}

// grayCutoff are the upper bounds of the first 23 steps of the 24-step
// grayscale ramp. A gray component below cutoff[i] selects ramp index
// 233+i; anything brighter selects 256.
var grayCutoff = [23]int{
	0x05, 0x10, 0x1B, 0x26, 0x31, 0x3C, 0x47, 0x52,
	0x5D, 0x68, 0x73, 0x7F, 0x8A, 0x95, 0xA0, 0xAB,
	0xB6, 0xC1, 0xCC, 0xD7, 0xE2, 0xED, 0xF9,
}

// AnsiIndex returns the fixed 1-based palette index for a color exactly
// matching one of the standard ANSI colors, or 0 if there is no match.
func AnsiIndex(c Color) int {
	for _, ac := range ansiColors {
		if ac.c == c {
			return ac.index
		}
	}
	return 0
}

// PaletteIndex maps a true-color value to a 1-based index in a palette of
// the given size. Exact ANSI matches win; with at least 256 colors, pure
// grays map onto the 24-step grayscale ramp and everything else into the
// 6x6x6 color cube. Returns 0 when fewer than 256 colors are available and
// no exact match was found.
func PaletteIndex(c Color, colors int) int {
	if idx := AnsiIndex(c); idx != 0 {
		return idx
	}
	if colors < 256 {
		return 0
	}
	if c.R == c.G && c.G == c.B {
		for i, cut := range grayCutoff {
			if int(c.R) < cut {
				return 233 + i
			}
		}
		return 256
	}
	return 17 + (int(c.R)+25)/0x33*36 + (int(c.G)+25)/0x33*6 + (int(c.B)+25)/0x33
}
