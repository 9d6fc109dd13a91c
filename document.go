package termsession

// Document is the host-side text companion of a session. Lines evicted from
// the top of the terminal screen are rendered into it, and the final screen
// contents land in it when the session freezes. The session holds the
// document it was built with but never outlives it: destruction flows from
// the document to the session, not the other way around.
type Document interface {
	// AppendLine adds a line of text after the last line. A document that
	// still holds only its initial empty line replaces that line instead.
	AppendLine(text string)
	// RemoveFirstLines removes up to n lines from the start, when the
	// session trims its oldest scrollback. A document never becomes
	// empty; removing the final line leaves one empty line.
	RemoveFirstLines(n int)
	// RemoveLastLines removes up to n lines from the end. A document never
	// becomes empty; removing the final line leaves one empty line.
	RemoveLastLines(n int)
	// LineCount returns the number of lines.
	LineCount() int
	// Line returns the text of the 0-based line at index, or "" when index
	// is out of range.
	Line(index int) string
}

// Viewport is one host view displaying a session. Viewports drive the
// terminal size: the session adopts the smallest size among its bound
// viewports, and a process-initiated resize is pushed back to every one
// of them.
type Viewport interface {
	// Size returns the rows and columns the viewport can display.
	Size() (rows, cols int)
	// SetSize asks the viewport to adopt a new size.
	SetSize(rows, cols int)
}

// --- BufferDocument ---

// BufferDocument is an in-memory Document. It starts with a single empty
// line, like a freshly created editor buffer.
type BufferDocument struct {
	lines    []string
	pristine bool
}

// NewBufferDocument returns an empty document holding one empty line.
func NewBufferDocument() *BufferDocument {
	return &BufferDocument{lines: []string{""}, pristine: true}
}

// AppendLine adds a line, replacing the placeholder line on first use.
func (d *BufferDocument) AppendLine(text string) {
	if d.pristine {
		d.lines[0] = text
		d.pristine = false
		return
	}
	d.lines = append(d.lines, text)
}

// RemoveFirstLines removes up to n lines from the start, keeping at least one.
func (d *BufferDocument) RemoveFirstLines(n int) {
	if n > len(d.lines) {
		n = len(d.lines)
	}
	if n > 0 {
		d.lines = append(d.lines[:0], d.lines[n:]...)
	}
	if len(d.lines) == 0 {
		d.lines = []string{""}
		d.pristine = true
	}
}

// RemoveLastLines removes up to n lines from the end, keeping at least one.
func (d *BufferDocument) RemoveLastLines(n int) {
	for ; n > 0 && len(d.lines) > 0; n-- {
		d.lines = d.lines[:len(d.lines)-1]
	}
	if len(d.lines) == 0 {
		d.lines = []string{""}
		d.pristine = true
	}
}

// LineCount returns the number of lines.
func (d *BufferDocument) LineCount() int {
	return len(d.lines)
}

// Line returns the text of the line at index.
func (d *BufferDocument) Line(index int) string {
	if index < 0 || index >= len(d.lines) {
		return ""
	}
	return d.lines[index]
}

// --- FixedViewport ---

// FixedViewport is a Viewport with a settable size and no display attached.
type FixedViewport struct {
	rows, cols int
}

// NewFixedViewport returns a viewport of the given size.
func NewFixedViewport(rows, cols int) *FixedViewport {
	return &FixedViewport{rows: rows, cols: cols}
}

// Size returns the viewport size.
func (v *FixedViewport) Size() (rows, cols int) {
	return v.rows, v.cols
}

// SetSize adopts a new size.
func (v *FixedViewport) SetSize(rows, cols int) {
	v.rows, v.cols = rows, cols
}

var _ Document = (*BufferDocument)(nil)
var _ Viewport = (*FixedViewport)(nil)
