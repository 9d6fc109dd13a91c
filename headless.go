package termsession

import (
	"image/color"
	"io"
	"strings"

	headlessterm "github.com/danielgatis/go-headless-term"
)

// HeadlessEngine adapts github.com/danielgatis/go-headless-term to the
// Engine interface. The emulator reports changes through dirty-cell
// tracking and a scrollback hook rather than an event stream, so Flush
// synthesizes the events: evicted rows come from the hook, damage from the
// dirty cells, and resize, cursor and title changes from comparing the
// emulator state against the last flush.
type HeadlessEngine struct {
	term *headlessterm.Terminal
	hook *evictionHook

	lastRows, lastCols           int
	lastCursorRow, lastCursorCol int
	lastCursorVis                bool
	lastTitle                    string
}

// HeadlessEngineFactory returns the factory for the default engine.
func HeadlessEngineFactory() EngineFactory {
	return func(rows, cols int, w io.Writer) Engine {
		return NewHeadlessEngine(rows, cols, w)
	}
}

// NewHeadlessEngine creates an engine of the given geometry. Responses
// the emulator generates are written to w; a nil w discards them.
func NewHeadlessEngine(rows, cols int, w io.Writer) *HeadlessEngine {
	hook := &evictionHook{}
	term := headlessterm.New(
		headlessterm.WithSize(rows, cols),
		headlessterm.WithScrollback(hook),
		headlessterm.WithPTYWriter(w),
	)
	e := &HeadlessEngine{
		term:          term,
		hook:          hook,
		lastRows:      term.Rows(),
		lastCols:      term.Cols(),
		lastCursorVis: term.CursorVisible(),
		lastTitle:     term.Title(),
	}
	e.lastCursorRow, e.lastCursorCol = term.CursorPos()
	return e
}

// Feed writes raw process output into the emulator.
func (e *HeadlessEngine) Feed(data []byte) {
	_, _ = e.term.Write(data)
}

// Flush returns the change events produced since the previous flush.
func (e *HeadlessEngine) Flush() []Event {
	events := make([]Event, 0, 4)

	// Evictions first: they happened while the grid scrolled, before the
	// damage snapshot below.
	for _, cells := range e.hook.take() {
		events = append(events, PushLineEvent{Cells: cells})
	}

	if rows, cols := e.term.Rows(), e.term.Cols(); rows != e.lastRows || cols != e.lastCols {
		e.lastRows, e.lastCols = rows, cols
		events = append(events, ResizeEvent{Rows: rows, Cols: cols})
	}

	if e.term.HasDirty() {
		if start, end, ok := dirtyRowRange(e.term.DirtyCells()); ok {
			events = append(events, DamageEvent{StartRow: start, EndRow: end})
		}
		e.term.ClearDirty()
	}

	row, col := e.term.CursorPos()
	vis := e.term.CursorVisible()
	if row != e.lastCursorRow || col != e.lastCursorCol {
		e.lastCursorRow, e.lastCursorCol, e.lastCursorVis = row, col, vis
		events = append(events, CursorMoveEvent{Row: row, Col: col, Visible: vis})
	} else if vis != e.lastCursorVis {
		e.lastCursorVis = vis
		events = append(events, CursorVisibilityEvent{Visible: vis})
	}

	if title := e.term.Title(); title != e.lastTitle {
		e.lastTitle = title
		events = append(events, TitleEvent{Title: title})
	}
	return events
}

// Cell returns the converted cell at the given grid position.
func (e *HeadlessEngine) Cell(row, col int) Cell {
	return convertCell(e.term.Cell(row, col))
}

// Cursor returns the cursor position and visibility.
func (e *HeadlessEngine) Cursor() (row, col int, visible bool) {
	row, col = e.term.CursorPos()
	return row, col, e.term.CursorVisible()
}

// SetSize resizes the emulator grid. The resulting events, including the
// ResizeEvent, are reported by the next Flush.
func (e *HeadlessEngine) SetSize(rows, cols int) {
	e.term.Resize(rows, cols)
}

// Text returns the text of the row range [startRow, endRow), lines joined
// with newlines, trailing blanks per line trimmed.
func (e *HeadlessEngine) Text(startRow, endRow int) string {
	if startRow < 0 {
		startRow = 0
	}
	if endRow > e.term.Rows() {
		endRow = e.term.Rows()
	}
	if startRow >= endRow {
		return ""
	}
	lines := make([]string, 0, endRow-startRow)
	for row := startRow; row < endRow; row++ {
		lines = append(lines, e.term.LineContent(row))
	}
	return strings.Join(lines, "\n")
}

// Release drops the emulator. The engine must not be used afterwards.
func (e *HeadlessEngine) Release() {
	e.term = nil
	e.hook = nil
}

func dirtyRowRange(cells []headlessterm.Position) (start, end int, ok bool) {
	if len(cells) == 0 {
		return 0, 0, false
	}
	start, end = cells[0].Row, cells[0].Row+1
	for _, p := range cells[1:] {
		if p.Row < start {
			start = p.Row
		}
		if p.Row+1 > end {
			end = p.Row + 1
		}
	}
	return start, end, true
}

// --- eviction hook ---

// evictionHook captures rows the emulator pushes off the top of the grid.
// Cells are converted, and thereby copied, inside Push: the emulator owns
// the slice it hands over and may reuse it afterwards.
type evictionHook struct {
	pending [][]Cell
}

func (h *evictionHook) Push(line []headlessterm.Cell) {
	cells := make([]Cell, len(line))
	for i := range line {
		cells[i] = convertCell(&line[i])
	}
	h.pending = append(h.pending, cells)
}

func (h *evictionHook) Pop() []headlessterm.Cell           { return nil }
func (h *evictionHook) Len() int                           { return len(h.pending) }
func (h *evictionHook) Line(index int) []headlessterm.Cell { return nil }
func (h *evictionHook) Clear()                             { h.pending = nil }
func (h *evictionHook) SetMaxLines(max int)                {}
func (h *evictionHook) MaxLines() int                      { return 0 }

// take drains the captured rows in arrival order.
func (h *evictionHook) take() [][]Cell {
	lines := h.pending
	h.pending = nil
	return lines
}

// --- cell conversion ---

var (
	defaultFg = fromRGBA(headlessterm.DefaultForeground)
	defaultBg = fromRGBA(headlessterm.DefaultBackground)
)

// convertCell maps an emulator cell to the session cell model. Untouched
// positions (a plain space with default colors and no attributes) become
// the zero rune, so trailing runs of them trim away; wide-char spacers
// become zero cells as well.
func convertCell(c *headlessterm.Cell) Cell {
	if c == nil || c.IsWideSpacer() {
		return Cell{Width: 1}
	}
	out := Cell{
		Rune:  c.Char,
		Width: 1,
		Fg:    resolveColor(c.Fg, true),
		Bg:    resolveColor(c.Bg, false),
		Attrs: convertAttrs(c.Flags),
	}
	if c.IsWide() {
		out.Width = 2
	}
	if (out.Rune == ' ' || out.Rune == 0) && out.Attrs == 0 &&
		out.Fg == defaultFg && out.Bg == defaultBg {
		out.Rune = 0
	}
	return out
}

func convertAttrs(f headlessterm.CellFlags) AttrFlags {
	const underlineAny = headlessterm.CellFlagUnderline |
		headlessterm.CellFlagDoubleUnderline |
		headlessterm.CellFlagCurlyUnderline |
		headlessterm.CellFlagDottedUnderline |
		headlessterm.CellFlagDashedUnderline

	var a AttrFlags
	if f&headlessterm.CellFlagBold != 0 {
		a |= AttrBold
	}
	if f&headlessterm.CellFlagItalic != 0 {
		a |= AttrItalic
	}
	if f&underlineAny != 0 {
		a |= AttrUnderline
	}
	if f&headlessterm.CellFlagStrike != 0 {
		a |= AttrStrike
	}
	if f&headlessterm.CellFlagReverse != 0 {
		a |= AttrReverse
	}
	return a
}

func fromRGBA(c color.RGBA) Color {
	return Color{R: c.R, G: c.G, B: c.B}
}

// resolveColor reduces the emulator's color representations (direct RGBA,
// palette index, semantic name) to a plain RGB triple using the default
// palette.
func resolveColor(c color.Color, fg bool) Color {
	switch v := c.(type) {
	case nil:
		if fg {
			return defaultFg
		}
		return defaultBg
	case color.RGBA:
		return Color{R: v.R, G: v.G, B: v.B}
	case *headlessterm.IndexedColor:
		if v.Index >= 0 && v.Index < 256 {
			return fromRGBA(headlessterm.DefaultPalette[v.Index])
		}
		if fg {
			return defaultFg
		}
		return defaultBg
	case *headlessterm.NamedColor:
		return resolveNamed(v.Name, fg)
	default:
		r, g, b, _ := c.RGBA()
		return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
	}
}

func resolveNamed(name int, fg bool) Color {
	switch {
	case name >= 0 && name < 16:
		return fromRGBA(headlessterm.DefaultPalette[name])
	case name == headlessterm.NamedColorForeground:
		return defaultFg
	case name == headlessterm.NamedColorBackground:
		return defaultBg
	case name == headlessterm.NamedColorCursor:
		return fromRGBA(headlessterm.DefaultCursorColor)
	case name >= headlessterm.NamedColorDimBlack && name <= headlessterm.NamedColorDimWhite:
		return dimmed(headlessterm.DefaultPalette[name-headlessterm.NamedColorDimBlack])
	case name == headlessterm.NamedColorBrightForeground:
		return fromRGBA(headlessterm.DefaultPalette[15])
	case name == headlessterm.NamedColorDimForeground:
		return dimmed(headlessterm.DefaultForeground)
	default:
		if fg {
			return defaultFg
		}
		return defaultBg
	}
}

func dimmed(base color.RGBA) Color {
	return Color{
		R: uint8(float64(base.R) * 0.66),
		G: uint8(float64(base.G) * 0.66),
		B: uint8(float64(base.B) * 0.66),
	}
}

var _ Engine = (*HeadlessEngine)(nil)
var _ headlessterm.ScrollbackProvider = (*evictionHook)(nil)
