package termsession

// BindViewport attaches a host viewport displaying this session and
// reconciles the terminal size against all bound viewports.
func (s *TerminalSession) BindViewport(v Viewport) {
	for _, b := range s.viewports {
		if b == v {
			return
		}
	}
	s.viewports = append(s.viewports, v)
	s.ReconcileSize()
}

// UnbindViewport detaches a viewport. The terminal keeps its size until
// the next reconciliation.
func (s *TerminalSession) UnbindViewport(v Viewport) {
	for i, b := range s.viewports {
		if b == v {
			s.viewports = append(s.viewports[:i], s.viewports[i+1:]...)
			return
		}
	}
}

// ReconcileSize recomputes the terminal geometry after a viewport changed
// size. Unpinned dimensions adopt the smallest value across all bound
// viewports; pinned ones keep their configured size. The new size is
// applied to the engine and reported to the process side best-effort.
// Does nothing in TerminalNormal mode or after freezing.
func (s *TerminalSession) ReconcileSize() {
	if s.engine == nil || s.mode != ModeLive || len(s.viewports) == 0 {
		return
	}
	rows, cols := 0, 0
	for _, v := range s.viewports {
		vr, vc := v.Size()
		if vr > 0 && (rows == 0 || vr < rows) {
			rows = vr
		}
		if vc > 0 && (cols == 0 || vc < cols) {
			cols = vc
		}
	}
	if s.rowsFixed {
		rows = s.rows
	}
	if s.colsFixed {
		cols = s.cols
	}
	if rows <= 0 || cols <= 0 || (rows == s.rows && cols == s.cols) {
		return
	}
	s.logger.Debug("resizing terminal", "rows", rows, "cols", cols)
	s.engine.SetSize(rows, cols)
	s.pump.Flush()
	s.reportSize(rows, cols)
}

// handleResize applies an engine-reported geometry change: mirror the new
// size, push it into every bound viewport and mark the whole grid dirty.
func (s *TerminalSession) handleResize(rows, cols int) {
	s.rows, s.cols = rows, cols
	for _, v := range s.viewports {
		v.SetSize(rows, cols)
	}
	s.damage.Reset()
	s.damage.MarkAll(rows)
}

// reportSize tells the process side about the new size. Failure is logged
// and never fatal; the engine-side resize stands regardless.
func (s *TerminalSession) reportSize(rows, cols int) {
	if s.channel == nil || !s.channel.IsOpen() {
		return
	}
	if err := s.channel.ReportSize(rows, cols); err != nil {
		s.logger.Warn("size report failed", "rows", rows, "cols", cols, "err", err)
	}
}
