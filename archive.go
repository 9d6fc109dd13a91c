package termsession

import "strings"

// ScrollbackLine is one archived row: an explicit column count plus the
// cells covering those columns. A fully blank row is stored with zero
// cells. Lines are immutable once appended.
type ScrollbackLine struct {
	cols  int
	cells []Cell
}

// Cols returns the number of columns the line covers. Trailing blank
// columns are not counted.
func (l ScrollbackLine) Cols() int {
	return l.cols
}

// Cell returns the cell at the given column, or a blank cell when the
// column is beyond the stored width.
func (l ScrollbackLine) Cell(col int) Cell {
	if col < 0 || col >= len(l.cells) {
		return Cell{}
	}
	return l.cells[col]
}

// Text renders the line as a string: each cell contributes its primary
// code point plus combining code points, blanks render as one space.
// Wide cells are followed by a placeholder column that is skipped.
func (l ScrollbackLine) Text() string {
	var sb strings.Builder
	for col := 0; col < l.cols; {
		c := l.Cell(col)
		sb.WriteString(c.Text())
		if c.Width == 2 {
			col += 2
		} else {
			col++
		}
	}
	return sb.String()
}

// ScrollbackArchive stores rows that were evicted off the top of the live
// grid or frozen out of it by a mode transition. Insertion order is
// chronological, oldest first. Row indices are stable under appends; they
// shift only when the session drops the oldest rows to enforce its
// scrollback limit.
type ScrollbackArchive struct {
	lines []ScrollbackLine
}

// NewScrollbackArchive creates an empty archive.
func NewScrollbackArchive() *ScrollbackArchive {
	return &ScrollbackArchive{lines: make([]ScrollbackLine, 0, 64)}
}

// Len returns the number of archived lines.
func (a *ScrollbackArchive) Len() int {
	return len(a.lines)
}

// Line returns the line at index, where 0 is the oldest. Out-of-range
// indices return a zero-width line.
func (a *ScrollbackArchive) Line(index int) ScrollbackLine {
	if index < 0 || index >= len(a.lines) {
		return ScrollbackLine{}
	}
	return a.lines[index]
}

// AppendCells archives a row of cells. Trailing blank cells are trimmed
// first, so a fully blank row is stored with zero cells. The cells are
// copied; the caller's slice may be reused afterwards. Returns the stored
// line.
func (a *ScrollbackArchive) AppendCells(cells []Cell) ScrollbackLine {
	length := 0
	for i, c := range cells {
		if !c.IsBlank() {
			length = i + 1
		}
	}
	line := ScrollbackLine{cols: length}
	if length > 0 {
		line.cells = make([]Cell, length)
		copy(line.cells, cells[:length])
	}
	a.lines = append(a.lines, line)
	return line
}

// AppendBlank archives an empty line.
func (a *ScrollbackArchive) AppendBlank() {
	a.lines = append(a.lines, ScrollbackLine{})
}

// DropFirst removes the n oldest lines. Later lines shift down by n;
// the session adjusts its scrolled count in step so document mapping
// stays intact.
func (a *ScrollbackArchive) DropFirst(n int) {
	if n <= 0 {
		return
	}
	if n >= len(a.lines) {
		a.lines = a.lines[:0]
		return
	}
	a.lines = append(a.lines[:0], a.lines[n:]...)
}

// TruncateTo drops every line at index n and beyond, undoing the most
// recent appends. Earlier lines keep their indices.
func (a *ScrollbackArchive) TruncateTo(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(a.lines) {
		a.lines = a.lines[:n]
	}
}

// Clear removes all archived lines.
func (a *ScrollbackArchive) Clear() {
	a.lines = a.lines[:0]
}
