package termsession

// Mode is the session input/display mode.
type Mode int

const (
	// ModeLive forwards keys to the process and drives a live display.
	// Sessions start in this mode.
	ModeLive Mode = iota
	// ModeTerminalNormal presents the session content as ordinary text;
	// keys are not forwarded and process output is withheld until resume.
	ModeTerminalNormal
	// ModeFrozen means the process ended and the engine was released.
	// There are no transitions out of it.
	ModeFrozen
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeTerminalNormal:
		return "terminal-normal"
	case ModeFrozen:
		return "frozen"
	}
	return "unknown"
}

// EnterTerminalNormal switches from forwarding keys to the job to showing
// the session content as ordinary text. The current grid is appended to
// the archive and the document; further process output is withheld until
// resume so the view never changes under the user.
func (s *TerminalSession) EnterTerminalNormal() error {
	if s.mode == ModeFrozen {
		return ErrEngineReleased
	}
	if s.mode == ModeTerminalNormal {
		return nil
	}
	s.snapshotGrid()
	s.mode = ModeTerminalNormal
	s.statusText = ""
	s.logger.Debug("entered terminal normal mode")
	return nil
}

// Resume switches back from TerminalNormal. With the channel still open
// the snapshot rows are rolled back and key forwarding resumes. With the
// channel closed the rollback is skipped, the content stays as the user
// saw it, and the session freezes: the deferred engine release happens
// here.
func (s *TerminalSession) Resume() error {
	if s.mode == ModeFrozen {
		return ErrEngineReleased
	}
	if s.mode == ModeLive {
		return nil
	}
	if s.channelClosed {
		if n := len(s.pending); n > 0 {
			s.logger.Debug("dropping withheld output", "bytes", n)
		}
		s.releaseEngine()
		s.logger.Debug("session frozen")
		return nil
	}
	s.rollback()
	s.mode = ModeLive
	s.statusText = ""
	s.damage.MarkAll(s.rows)
	if len(s.pending) > 0 {
		data := s.pending
		s.pending = nil
		s.pump.Feed(data)
	}
	s.logger.Debug("resumed live mode")
	return nil
}

// HandleChannelClosed handles the channel-closed notification. In Live
// mode the session freezes immediately: the grid is snapshotted into the
// archive and the document, then the engine is released. In TerminalNormal
// only the flag latches; the engine stays alive so the user keeps a
// consistent view, and the release is deferred to their resume.
func (s *TerminalSession) HandleChannelClosed() {
	if s.channelClosed {
		return
	}
	s.channelClosed = true
	s.title = ""
	s.statusText = ""
	if s.mode == ModeTerminalNormal {
		s.logger.Debug("channel closed, release deferred")
		return
	}
	s.freeze()
}

// HandleJobEnded handles the process-ended notification. Output may still
// be buffered in the channel, so nothing is torn down yet; only the title
// and the cached status text are dropped.
func (s *TerminalSession) HandleJobEnded() {
	s.title = ""
	s.statusText = ""
}

// InvalidateContent discards the archive after the host document was
// edited directly: the archived cells no longer match the document text,
// so attribute queries against them would lie. Meaningful only once
// content has been frozen into the document.
func (s *TerminalSession) InvalidateContent() {
	if s.mode == ModeLive || s.archive.Len() == 0 {
		return
	}
	s.archive.Clear()
	s.scrolledCount = 0
	s.logger.Debug("content invalidated")
}

// freeze snapshots the grid and releases the engine. Used when the
// channel closes outside TerminalNormal.
func (s *TerminalSession) freeze() {
	if s.engine != nil {
		s.snapshotGrid()
	}
	s.releaseEngine()
	s.logger.Debug("session frozen")
}

func (s *TerminalSession) releaseEngine() {
	if s.engine != nil {
		s.engine.Release()
		s.engine = nil
	}
	s.pending = nil
	s.damage.Reset()
	s.mode = ModeFrozen
	s.statusText = ""
}

// snapshotGrid appends the current grid contents to the archive and the
// document, top to bottom. Runs of blank rows are deferred and emitted as
// empty lines only when a non-blank row follows; trailing blank rows are
// dropped, so a shell's empty lines below the last prompt never pollute
// the scrollback.
func (s *TerminalSession) snapshotGrid() {
	skipped := 0
	for row := 0; row < s.rows; row++ {
		length := 0
		for col := 0; col < s.cols; col++ {
			if !s.engine.Cell(row, col).IsBlank() {
				length = col + 1
			}
		}
		if length == 0 {
			skipped++
			continue
		}
		for ; skipped > 0; skipped-- {
			s.archive.AppendBlank()
			s.doc.AppendLine("")
		}
		cells := make([]Cell, length)
		for col := 0; col < length; col++ {
			cells[col] = s.engine.Cell(row, col)
		}
		line := s.archive.AppendCells(cells)
		s.doc.AppendLine(line.Text())
	}
}

// rollback removes the rows the most recent snapshot appended from both
// the archive and the document, restoring the pre-snapshot line counts.
// Eviction rows produced before the snapshot stay untouched.
func (s *TerminalSession) rollback() {
	n := s.archive.Len() - s.scrolledCount
	if n <= 0 {
		return
	}
	s.archive.TruncateTo(s.scrolledCount)
	s.doc.RemoveLastLines(n)
}
