package termsession

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"
	"pkt.systems/pslog"
)

const (
	defaultRows          = 24
	defaultCols          = 80
	defaultTermName      = "xterm-256color"
	defaultMaxScrollback = 10000

	waitPollInterval = 10 * time.Millisecond
)

// TerminalSession binds one process channel to one emulation engine. It
// owns the engine handle (nil once frozen), the scrollback archive, the
// dirty row range and the mode state; the channel and the host document
// are collaborators it uses but does not own.
//
// A session is not safe for concurrent use. The host is expected to drive
// it from a single control loop, the way an editor alternates between
// waiting for keystrokes and waiting for process output.
type TerminalSession struct {
	id    string
	docID string
	name  string

	engine  Engine
	channel Channel
	pump    *OutputPump
	keys    *KeyEncoder

	doc     Document
	archive *ScrollbackArchive
	damage  DamageTracker

	// maxScrollback caps the archive length. Zero or negative leaves the
	// archive unbounded.
	maxScrollback int

	viewports []Viewport

	rows, cols           int
	rowsFixed, colsFixed bool

	mode          Mode
	channelClosed bool

	cursorRow, cursorCol int
	cursorVisible        bool

	title      string
	statusText string

	// scrolledCount is the number of archive rows produced by eviction,
	// as opposed to rows produced by mode-transition snapshots. It maps
	// grid rows to document lines once the content is frozen.
	scrolledCount int

	// pending holds process output received while in TerminalNormal. It
	// is replayed on resume. Back-pressure is the channel's business.
	pending []byte

	termName       string
	engineFactory  EngineFactory
	channelFactory ChannelFactory
	logger         pslog.Logger
}

// Option is a functional option for configuring a session.
type Option func(*TerminalSession)

// WithSize sets the initial terminal size.
func WithSize(rows, cols int) Option {
	return func(s *TerminalSession) {
		if rows > 0 {
			s.rows = rows
		}
		if cols > 0 {
			s.cols = cols
		}
	}
}

// WithFixedRows pins the row count against viewport reconciliation.
func WithFixedRows() Option {
	return func(s *TerminalSession) { s.rowsFixed = true }
}

// WithFixedCols pins the column count against viewport reconciliation.
func WithFixedCols() Option {
	return func(s *TerminalSession) { s.colsFixed = true }
}

// WithMaxScrollback caps the number of archived scrollback lines. Once an
// eviction fills the archive to the cap, the oldest tenth is dropped along
// with the matching document lines. Zero or negative disables the cap.
func WithMaxScrollback(n int) Option {
	return func(s *TerminalSession) { s.maxScrollback = n }
}

// WithLogger sets the logger.
func WithLogger(logger pslog.Logger) Option {
	return func(s *TerminalSession) { s.logger = logger }
}

// WithEngine sets the emulation engine factory.
func WithEngine(factory EngineFactory) Option {
	return func(s *TerminalSession) { s.engineFactory = factory }
}

// WithChannelFactory sets the process channel factory.
func WithChannelFactory(factory ChannelFactory) Option {
	return func(s *TerminalSession) { s.channelFactory = factory }
}

// WithDocument binds the host document the session mirrors content into.
func WithDocument(doc Document) Option {
	return func(s *TerminalSession) { s.doc = doc }
}

// WithDocumentID records the host's identifier for the bound document.
func WithDocumentID(id string) Option {
	return func(s *TerminalSession) { s.docID = id }
}

// WithTermName sets the TERM value the default channel factory uses.
func WithTermName(name string) Option {
	return func(s *TerminalSession) { s.termName = name }
}

// NewSession spawns cmd and builds a session around it. On failure no
// partial state is retained; the returned error wraps ErrSpawn.
func NewSession(cmd string, opts ...Option) (*TerminalSession, error) {
	s := &TerminalSession{
		id:            uuid.NewString(),
		name:          cmd,
		rows:          defaultRows,
		cols:          defaultCols,
		mode:          ModeLive,
		archive:       NewScrollbackArchive(),
		maxScrollback: defaultMaxScrollback,
		cursorVisible: true,
		termName:      defaultTermName,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = pslog.Ctx(context.Background())
	}
	s.logger = s.logger.With("session", s.id)
	if s.doc == nil {
		s.doc = NewBufferDocument()
	}
	if s.engineFactory == nil {
		s.engineFactory = HeadlessEngineFactory()
	}
	if s.channelFactory == nil {
		s.channelFactory = PtyChannelFactory(s.termName)
	}

	ch, err := s.channelFactory(cmd, s.rows, s.cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	s.channel = ch
	s.engine = s.engineFactory(s.rows, s.cols, channelWriter{ch: ch})
	s.keys = NewKeyEncoder(s.engine)
	s.pump = NewOutputPump(s.engine, s.applyEvent)
	s.logger.Debug("session started", "cmd", cmd, "rows", s.rows, "cols", s.cols)
	return s, nil
}

// --- identity and state queries ---

// ID returns the session id.
func (s *TerminalSession) ID() string { return s.id }

// DocumentID returns the host's identifier for the bound document, or ""
// when none was recorded.
func (s *TerminalSession) DocumentID() string { return s.docID }

// Mode returns the current session mode.
func (s *TerminalSession) Mode() Mode { return s.mode }

// ChannelClosed reports whether the channel-closed notification has been
// received. It latches independently of the mode.
func (s *TerminalSession) ChannelClosed() bool { return s.channelClosed }

// Channel returns the process channel the session was built around. Hosts
// use it to read output on their own goroutine before feeding it back
// through ProcessOutput.
func (s *TerminalSession) Channel() Channel { return s.channel }

// Size returns the current terminal geometry.
func (s *TerminalSession) Size() (rows, cols int) { return s.rows, s.cols }

// Cursor returns the cursor position and visibility.
func (s *TerminalSession) Cursor() (row, col int, visible bool) {
	return s.cursorRow, s.cursorCol, s.cursorVisible
}

// Title returns the window title set by the process, or "".
func (s *TerminalSession) Title() string { return s.title }

// Archive returns the scrollback archive.
func (s *TerminalSession) Archive() *ScrollbackArchive { return s.archive }

// ScrolledCount returns the number of archive rows produced by eviction.
func (s *TerminalSession) ScrolledCount() int { return s.scrolledCount }

func (s *TerminalSession) jobRunning() bool {
	return !s.channelClosed && s.channel != nil && s.channel.Status() == ChannelRunning
}

// Status returns "running" or "finished", with ",terminal" appended while
// the session is in TerminalNormal mode.
func (s *TerminalSession) Status() string {
	status := "finished"
	if s.jobRunning() {
		status = "running"
	}
	if s.mode == ModeTerminalNormal {
		status += ",terminal"
	}
	return status
}

// StatusText returns the text to show for the session name and state,
// formatted as `name [state]`. The result is cached until the title, mode
// or job state changes.
func (s *TerminalSession) StatusText() string {
	if s.statusText == "" {
		var txt string
		switch {
		case s.mode == ModeTerminalNormal:
			if s.jobRunning() {
				txt = "Terminal"
			} else {
				txt = "Terminal-finished"
			}
		case s.title != "":
			txt = s.title
		case s.jobRunning():
			txt = "running"
		default:
			txt = "finished"
		}
		s.statusText = s.name + " [" + txt + "]"
	}
	return s.statusText
}

// Line returns the text of a grid row. While the engine is alive the text
// comes from the live grid; after freezing it comes from the document,
// offset past the evicted rows.
func (s *TerminalSession) Line(row int) string {
	if row < 0 {
		return ""
	}
	if s.engine != nil {
		if row >= s.rows {
			return ""
		}
		return s.engine.Text(row, row+1)
	}
	return s.doc.Line(row + s.scrolledCount)
}

// Scrape returns the cells of a grid row with their colors and attributes.
// While the engine is alive the cells come from the live grid; after
// freezing they come from the archived snapshot, offset past the evicted
// rows.
func (s *TerminalSession) Scrape(row int) []ScrapedCell {
	if row < 0 {
		return nil
	}
	if s.engine != nil {
		if row >= s.rows {
			return nil
		}
		return s.scrapeGrid(row)
	}
	return scrapeLine(s.archive.Line(row + s.scrolledCount))
}

func (s *TerminalSession) scrapeGrid(row int) []ScrapedCell {
	cells := make([]ScrapedCell, 0, s.cols)
	for col := 0; col < s.cols; {
		c := s.engine.Cell(row, col)
		w := c.Width
		if w < 1 {
			w = 1
		}
		cells = append(cells, scrapedCell(c, w))
		col += w
	}
	return cells
}

func scrapeLine(line ScrollbackLine) []ScrapedCell {
	if line.Cols() == 0 {
		return nil
	}
	cells := make([]ScrapedCell, 0, line.Cols())
	for col := 0; col < line.Cols(); {
		c := line.Cell(col)
		w := c.Width
		if w < 1 {
			w = 1
		}
		cells = append(cells, scrapedCell(c, w))
		col += w
	}
	return cells
}

func scrapedCell(c Cell, width int) ScrapedCell {
	chars := ""
	if !c.IsBlank() {
		chars = c.Text()
	}
	return ScrapedCell{
		Chars: chars,
		Fg:    c.Fg.Hex(),
		Bg:    c.Bg.Hex(),
		Attrs: c.Attrs,
		Width: width,
	}
}

// DirtyRows returns the row range touched since the last ClearDirty. The
// range is a redraw bound, not a correctness guarantee: re-read the cells
// from the session for the rows in range.
func (s *TerminalSession) DirtyRows() (start, end int, ok bool) {
	return s.damage.Range()
}

// ClearDirty resets the dirty row range after a redraw.
func (s *TerminalSession) ClearDirty() {
	s.damage.Reset()
}

// --- process output ---

// ProcessOutput feeds a run of raw process output into the engine and
// applies the resulting events. While the session is in TerminalNormal the
// output is withheld and replayed on resume, so the frozen view never
// changes under the user.
func (s *TerminalSession) ProcessOutput(data []byte) {
	if s.engine == nil {
		s.logger.Debug("not writing output", "bytes", len(data))
		return
	}
	if s.mode == ModeTerminalNormal {
		s.pending = append(s.pending, data...)
		return
	}
	s.pump.Feed(data)
}

func (s *TerminalSession) applyEvent(ev Event) {
	switch ev := ev.(type) {
	case DamageEvent:
		s.damage.Mark(ev.StartRow, ev.EndRow)
	case MoveRectEvent:
		s.damage.Mark(ev.StartRow, ev.EndRow)
	case CursorMoveEvent:
		s.cursorRow, s.cursorCol, s.cursorVisible = ev.Row, ev.Col, ev.Visible
	case ResizeEvent:
		s.handleResize(ev.Rows, ev.Cols)
	case PushLineEvent:
		s.pushLine(ev.Cells)
	case TitleEvent:
		s.title = ev.Title
		s.statusText = ""
	case CursorVisibilityEvent:
		s.cursorVisible = ev.Visible
	}
}

// pushLine archives one row evicted off the top of the grid and mirrors
// its text into the document.
func (s *TerminalSession) pushLine(cells []Cell) {
	line := s.archive.AppendCells(cells)
	s.doc.AppendLine(line.Text())
	s.scrolledCount++
	s.limitScrollback()
}

// limitScrollback drops the oldest tenth of the archive, and the matching
// document lines, once an eviction fills the archive to the cap.
func (s *TerminalSession) limitScrollback() {
	if s.maxScrollback <= 0 || s.archive.Len() < s.maxScrollback {
		return
	}
	drop := s.maxScrollback / 10
	if drop < 1 {
		drop = 1
	}
	s.archive.DropFirst(drop)
	s.doc.RemoveFirstLines(drop)
	s.scrolledCount -= drop
	if s.scrolledCount < 0 {
		s.scrolledCount = 0
	}
	s.logger.Debug("scrollback trimmed", "dropped", drop, "kept", s.archive.Len())
}

// --- input ---

func (s *TerminalSession) send(data []byte) error {
	if s.channel == nil || !s.channel.IsOpen() {
		return ErrChannelClosed
	}
	if err := s.channel.Send(data); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// SendKey encodes a key event and forwards it to the process. The first
// return value reports whether the event was consumed; an unconsumed
// event is the host's to handle as a UI action. In TerminalNormal mode
// nothing is consumed, so every key stays a host command. Events whose
// encoding would overflow the bounded buffer are dropped, not sent.
func (s *TerminalSession) SendKey(ev KeyEvent) (bool, error) {
	if s.engine == nil {
		return false, ErrEngineReleased
	}
	if s.mode == ModeTerminalNormal {
		return false, nil
	}
	data, consumed, err := s.keys.EncodeKey(ev)
	if err != nil {
		s.logger.Warn("input dropped", "err", err)
		return consumed, nil
	}
	if !consumed || len(data) == 0 {
		return consumed, nil
	}
	return true, s.send(data)
}

// SendMouse encodes a mouse event and forwards it to the process. Events
// outside the viewport bounds, and drags that began outside them, are not
// consumed; neither is anything in TerminalNormal mode.
func (s *TerminalSession) SendMouse(ev MouseEvent) (bool, error) {
	if s.engine == nil {
		return false, ErrEngineReleased
	}
	if s.mode == ModeTerminalNormal {
		return false, nil
	}
	data, consumed, err := s.keys.EncodeMouse(ev, s.rows, s.cols)
	if err != nil {
		s.logger.Warn("input dropped", "err", err)
		return consumed, nil
	}
	if !consumed || len(data) == 0 {
		return consumed, nil
	}
	return true, s.send(data)
}

// SendText writes literal text to the process, one grapheme cluster per
// write so combining marks never arrive torn from their base character.
func (s *TerminalSession) SendText(text string) error {
	if s.engine == nil {
		return ErrEngineReleased
	}
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		if err := s.send(gr.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// Paste sends text wrapped in paste brackets when the engine has
// bracketed paste switched on, and as plain text otherwise. Like
// SendText it writes to the job in any mode; only interactive input is
// suspended by TerminalNormal.
func (s *TerminalSession) Paste(text string) error {
	if s.engine == nil {
		return ErrEngineReleased
	}
	if err := s.sendEncodedKey(KeyEvent{Key: KeyPasteStart}); err != nil {
		return err
	}
	if err := s.SendText(text); err != nil {
		return err
	}
	return s.sendEncodedKey(KeyEvent{Key: KeyPasteEnd})
}

// sendEncodedKey encodes and sends a key bypassing the mode gate. Used by
// the scripting surface, which writes to the job even in TerminalNormal.
func (s *TerminalSession) sendEncodedKey(ev KeyEvent) error {
	data, consumed, err := s.keys.EncodeKey(ev)
	if err != nil {
		s.logger.Warn("input dropped", "err", err)
		return nil
	}
	if !consumed || len(data) == 0 {
		return nil
	}
	return s.send(data)
}

// --- lifecycle ---

func (s *TerminalSession) drainPending(buf []byte) {
	dr, ok := s.channel.(pendingDrainer)
	if !ok {
		return
	}
	for {
		n, err := dr.ReadPending(buf)
		if n > 0 {
			s.ProcessOutput(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.HandleChannelClosed()
			}
			return
		}
		if n == 0 {
			return
		}
	}
}

// Wait blocks until the job ends and its output is drained, polling the
// channel. A timeout of zero or less waits indefinitely; on timeout the
// job keeps running and ErrWaitTimeout is returned.
func (s *TerminalSession) Wait(timeout time.Duration) error {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	buf := make([]byte, 4096)
	for {
		if s.channel == nil {
			return nil
		}
		s.drainPending(buf)
		if s.channelClosed {
			return nil
		}
		if s.channel.Status() != ChannelRunning {
			// A draining channel may still hold buffered output; its EOF
			// arrives through drainPending. Anything else is done now.
			if _, ok := s.channel.(pendingDrainer); !ok || !s.channel.IsOpen() {
				s.HandleChannelClosed()
				return nil
			}
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return ErrWaitTimeout
		}
		time.Sleep(waitPollInterval)
	}
}

// Close force-terminates the process, releases the engine and frees the
// archive. It is idempotent; destruction flows from the host document to
// the session, never the reverse.
func (s *TerminalSession) Close() error {
	var err error
	if s.channel != nil {
		if s.channel.Status() == ChannelRunning {
			err = s.channel.Stop(SignalKill)
		}
		if c, ok := s.channel.(io.Closer); ok {
			if cerr := c.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}
	if s.engine != nil {
		s.engine.Release()
		s.engine = nil
	}
	s.archive.Clear()
	s.pending = nil
	s.mode = ModeFrozen
	s.statusText = ""
	s.logger.Debug("session closed")
	return err
}
