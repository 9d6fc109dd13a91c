package termsession

import (
	"fmt"
	"strings"

	"github.com/unilibs/uniwidth"
)

// MaxCombining is the maximum number of combining code points kept per cell.
const MaxCombining = 5

// AttrFlags is a bitmask of cell rendering attributes.
type AttrFlags uint8

const (
	// AttrBold indicates bold text.
	AttrBold AttrFlags = 1 << iota
	// AttrItalic indicates italic text.
	AttrItalic
	// AttrUnderline indicates underlined text.
	AttrUnderline
	// AttrStrike indicates struck-through text.
	AttrStrike
	// AttrReverse indicates the cell colors are swapped.
	AttrReverse
)

// Has returns true if the attribute with the given name is set.
// Recognized names: "bold", "italic", "underline", "strike", "reverse".
func (a AttrFlags) Has(name string) bool {
	switch name {
	case "bold":
		return a&AttrBold != 0
	case "italic":
		return a&AttrItalic != 0
	case "underline":
		return a&AttrUnderline != 0
	case "strike":
		return a&AttrStrike != 0
	case "reverse":
		return a&AttrReverse != 0
	}
	return false
}

// Color is a true-color RGB triple.
type Color struct {
	R, G, B uint8
}

// Hex returns the color formatted as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Cell is one screen grid position: content, colors, attributes and display
// width. A zero primary rune marks an unused (blank) position; a blank cell
// renders as a single space.
//
// Wide characters occupy two grid columns: the character is stored with
// Width 2 and the following column holds a blank placeholder cell, so that
// a row's cell count always equals the column count it covers.
type Cell struct {
	Rune      rune
	Combining [MaxCombining]rune
	Width     int
	Fg        Color
	Bg        Color
	Attrs     AttrFlags
}

// NewCell creates a cell for the given primary code point. The display
// width is derived from the code point.
func NewCell(r rune) Cell {
	w := 1
	if uniwidth.RuneWidth(r) == 2 {
		w = 2
	}
	return Cell{Rune: r, Width: w}
}

// IsBlank returns true if the cell has no primary code point.
func (c Cell) IsBlank() bool {
	return c.Rune == 0
}

// AddCombining attaches a combining code point to the cell. Code points
// beyond the per-cell limit are dropped.
func (c *Cell) AddCombining(r rune) {
	for i := range c.Combining {
		if c.Combining[i] == 0 {
			c.Combining[i] = r
			return
		}
	}
}

// Text returns the cell content as a string: the primary code point
// followed by any combining code points. A blank cell renders as one space.
func (c Cell) Text() string {
	var sb strings.Builder
	if c.Rune == 0 {
		sb.WriteRune(' ')
	} else {
		sb.WriteRune(c.Rune)
	}
	for _, r := range c.Combining {
		if r == 0 {
			break
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ScrapedCell is one cell of a scraped row as exposed to the host editor:
// the textual content plus colors as "#rrggbb" strings, the attribute
// bitmask, and the display width.
type ScrapedCell struct {
	Chars string
	Fg    string
	Bg    string
	Attrs AttrFlags
	Width int
}
