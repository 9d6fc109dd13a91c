package termsession

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func feedLines(s *TerminalSession, n int) {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "line-%02d", i)
	}
	s.ProcessOutput([]byte(sb.String()))
}

func TestOutputFillsGrid(t *testing.T) {
	s, _ := newLiveSession(t)

	s.ProcessOutput([]byte("hello\n"))

	if got := s.Line(0); got != "hello" {
		t.Errorf("expected row 0 'hello', got %q", got)
	}
	start, end, ok := s.DirtyRows()
	if !ok || start > 0 || end < 1 {
		t.Errorf("expected damage covering row 0, got [%d, %d) ok=%v", start, end, ok)
	}
	row, col, _ := s.Cursor()
	if row != 1 || col != 0 {
		t.Errorf("expected cursor (1, 0), got (%d, %d)", row, col)
	}
}

func TestDamageClearsAfterFlush(t *testing.T) {
	s, _ := newLiveSession(t)

	s.ProcessOutput([]byte("hello\n"))
	if _, _, ok := s.DirtyRows(); !ok {
		t.Fatal("expected dirty rows after output")
	}
	s.ClearDirty()
	if _, _, ok := s.DirtyRows(); ok {
		t.Error("expected no dirty rows after clear")
	}

	// Idle output produces no new damage.
	s.ProcessOutput(nil)
	if _, _, ok := s.DirtyRows(); ok {
		t.Error("expected no dirty rows without new output")
	}
}

func TestEvictionArchivesTopRow(t *testing.T) {
	doc := NewBufferDocument()
	s, _ := newLiveSession(t, WithDocument(doc))

	// One more line than the grid holds: exactly one row scrolls off.
	feedLines(s, 25)

	if got := s.Archive().Len(); got != 1 {
		t.Fatalf("expected 1 archived line, got %d", got)
	}
	if got := s.Archive().Line(0).Text(); got != "line-00" {
		t.Errorf("expected archived 'line-00', got %q", got)
	}
	if got := s.ScrolledCount(); got != 1 {
		t.Errorf("expected scrolled count 1, got %d", got)
	}
	if doc.LineCount() != 1 || doc.Line(0) != "line-00" {
		t.Errorf("expected document ['line-00'], got %d lines, first %q", doc.LineCount(), doc.Line(0))
	}
	if got := s.Line(0); got != "line-01" {
		t.Errorf("expected grid top 'line-01', got %q", got)
	}
	if got := s.Line(23); got != "line-24" {
		t.Errorf("expected grid bottom 'line-24', got %q", got)
	}
}

func TestScrollbackLimit(t *testing.T) {
	doc := NewBufferDocument()
	s, _ := newLiveSession(t, WithDocument(doc), WithMaxScrollback(10))

	// 16 rows scroll off the 24-row grid. Each time the archive fills to
	// the cap of 10, the oldest tenth of the cap is dropped.
	feedLines(s, 40)

	if got := s.Archive().Len(); got != 9 {
		t.Fatalf("expected 9 archived lines, got %d", got)
	}
	if got := s.ScrolledCount(); got != 9 {
		t.Errorf("expected scrolled count 9, got %d", got)
	}
	if got := s.Archive().Line(0).Text(); got != "line-07" {
		t.Errorf("expected oldest archived line 'line-07', got %q", got)
	}
	if doc.LineCount() != 9 || doc.Line(0) != "line-07" || doc.Line(8) != "line-15" {
		t.Errorf("expected document [line-07..line-15], got %d lines, first %q",
			doc.LineCount(), doc.Line(0))
	}
	if got := s.Line(0); got != "line-16" {
		t.Errorf("expected grid top 'line-16', got %q", got)
	}
}

func TestTerminalNormalRoundTrip(t *testing.T) {
	doc := NewBufferDocument()
	s, _ := newLiveSession(t, WithDocument(doc))

	s.ProcessOutput([]byte("alpha\nbeta"))

	if err := s.EnterTerminalNormal(); err != nil {
		t.Fatalf("EnterTerminalNormal: %v", err)
	}
	if s.Mode() != ModeTerminalNormal {
		t.Fatalf("expected ModeTerminalNormal, got %v", s.Mode())
	}
	if got := s.Archive().Len(); got != 2 {
		t.Errorf("expected 2 snapshot lines, got %d", got)
	}
	if doc.LineCount() != 2 || doc.Line(0) != "alpha" || doc.Line(1) != "beta" {
		t.Errorf("expected document [alpha beta], got %d lines", doc.LineCount())
	}

	if err := s.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if s.Mode() != ModeLive {
		t.Fatalf("expected ModeLive, got %v", s.Mode())
	}
	if got := s.Archive().Len(); got != 0 {
		t.Errorf("expected snapshot rolled back, archive has %d lines", got)
	}
	if doc.LineCount() != 1 || doc.Line(0) != "" {
		t.Errorf("expected document back to one empty line, got %d lines, first %q",
			doc.LineCount(), doc.Line(0))
	}

	start, end, ok := s.DirtyRows()
	if !ok || start != 0 || end != 24 {
		t.Errorf("expected full redraw after resume, got [%d, %d) ok=%v", start, end, ok)
	}
}

func TestRoundTripKeepsEvictedRows(t *testing.T) {
	doc := NewBufferDocument()
	s, _ := newLiveSession(t, WithDocument(doc))

	feedLines(s, 25)

	if err := s.EnterTerminalNormal(); err != nil {
		t.Fatalf("EnterTerminalNormal: %v", err)
	}
	if got := s.Archive().Len(); got != 25 {
		t.Errorf("expected 1 evicted + 24 snapshot lines, got %d", got)
	}
	if doc.LineCount() != 25 {
		t.Errorf("expected 25 document lines, got %d", doc.LineCount())
	}

	if err := s.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if got := s.Archive().Len(); got != 1 {
		t.Errorf("expected only the evicted row to remain, got %d", got)
	}
	if doc.LineCount() != 1 || doc.Line(0) != "line-00" {
		t.Errorf("expected document ['line-00'], got %d lines, first %q",
			doc.LineCount(), doc.Line(0))
	}
}

func TestSnapshotBlankRows(t *testing.T) {
	doc := NewBufferDocument()
	s, _ := newLiveSession(t, WithDocument(doc))

	// Interior blank rows survive as empty lines; the blank run below
	// the last content row is dropped.
	s.ProcessOutput([]byte("alpha\n\n\nbeta"))

	if err := s.EnterTerminalNormal(); err != nil {
		t.Fatalf("EnterTerminalNormal: %v", err)
	}
	if got := s.Archive().Len(); got != 4 {
		t.Fatalf("expected 4 snapshot lines, got %d", got)
	}
	want := []string{"alpha", "", "", "beta"}
	for i, w := range want {
		if got := s.Archive().Line(i).Text(); got != w {
			t.Errorf("line %d: expected %q, got %q", i, w, got)
		}
		if got := doc.Line(i); got != w {
			t.Errorf("document line %d: expected %q, got %q", i, w, got)
		}
	}
}

func TestEnterTerminalNormalTwice(t *testing.T) {
	s, _ := newLiveSession(t)
	s.ProcessOutput([]byte("once"))

	if err := s.EnterTerminalNormal(); err != nil {
		t.Fatalf("EnterTerminalNormal: %v", err)
	}
	n := s.Archive().Len()
	if err := s.EnterTerminalNormal(); err != nil {
		t.Fatalf("second EnterTerminalNormal: %v", err)
	}
	if got := s.Archive().Len(); got != n {
		t.Errorf("expected no second snapshot, archive went %d -> %d", n, got)
	}
}

func TestResumeWhileLive(t *testing.T) {
	s, _ := newLiveSession(t)

	if err := s.Resume(); err != nil {
		t.Errorf("expected Resume in live mode to be a no-op, got %v", err)
	}
	if s.Mode() != ModeLive {
		t.Errorf("expected ModeLive, got %v", s.Mode())
	}
}

func TestChannelClosedWhileLive(t *testing.T) {
	doc := NewBufferDocument()
	s, _ := newLiveSession(t, WithDocument(doc))

	s.ProcessOutput([]byte("bye"))
	s.HandleChannelClosed()

	if s.Mode() != ModeFrozen {
		t.Fatalf("expected ModeFrozen, got %v", s.Mode())
	}
	if !s.ChannelClosed() {
		t.Error("expected channel closed flag set")
	}
	if doc.LineCount() != 1 || doc.Line(0) != "bye" {
		t.Errorf("expected final grid in document, got %d lines, first %q",
			doc.LineCount(), doc.Line(0))
	}
	if got := s.Line(0); got != "bye" {
		t.Errorf("expected Line(0) 'bye' after freeze, got %q", got)
	}
	cells := s.Scrape(0)
	if len(cells) == 0 || cells[0].Chars != "b" {
		t.Errorf("expected frozen scrape to read the archive, got %+v", cells)
	}

	if _, err := s.SendKey(KeyEvent{Key: KeyEnter}); !errors.Is(err, ErrEngineReleased) {
		t.Errorf("expected ErrEngineReleased, got %v", err)
	}
	if err := s.EnterTerminalNormal(); !errors.Is(err, ErrEngineReleased) {
		t.Errorf("expected ErrEngineReleased from EnterTerminalNormal, got %v", err)
	}
}

func TestChannelClosedInTerminalNormal(t *testing.T) {
	doc := NewBufferDocument()
	s, _ := newLiveSession(t, WithDocument(doc))

	s.ProcessOutput([]byte("data"))
	if err := s.EnterTerminalNormal(); err != nil {
		t.Fatalf("EnterTerminalNormal: %v", err)
	}

	// The release is deferred: the user keeps a consistent view until
	// they resume.
	s.HandleChannelClosed()
	if s.Mode() != ModeTerminalNormal {
		t.Fatalf("expected ModeTerminalNormal, got %v", s.Mode())
	}
	if s.engine == nil {
		t.Fatal("expected engine alive until resume")
	}
	if doc.LineCount() != 1 || doc.Line(0) != "data" {
		t.Errorf("expected document unchanged, got %d lines", doc.LineCount())
	}

	if err := s.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if s.Mode() != ModeFrozen {
		t.Fatalf("expected ModeFrozen, got %v", s.Mode())
	}
	if s.engine != nil {
		t.Error("expected engine released on resume")
	}
	// No rollback, no second snapshot: the content stays as the user
	// saw it.
	if doc.LineCount() != 1 || doc.Line(0) != "data" {
		t.Errorf("expected document unchanged across freeze, got %d lines, first %q",
			doc.LineCount(), doc.Line(0))
	}
	if got := s.Archive().Len(); got != 1 {
		t.Errorf("expected archive unchanged, got %d lines", got)
	}
}

func TestResumeDropsWithheldOutputWhenClosed(t *testing.T) {
	doc := NewBufferDocument()
	s, _ := newLiveSession(t, WithDocument(doc))

	s.ProcessOutput([]byte("data"))
	if err := s.EnterTerminalNormal(); err != nil {
		t.Fatalf("EnterTerminalNormal: %v", err)
	}
	s.ProcessOutput([]byte("never shown"))
	s.HandleChannelClosed()

	if err := s.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if doc.LineCount() != 1 || doc.Line(0) != "data" {
		t.Errorf("expected withheld output dropped, got %d lines, first %q",
			doc.LineCount(), doc.Line(0))
	}
	if s.pending != nil {
		t.Error("expected pending output discarded")
	}
}

func TestInvalidateContent(t *testing.T) {
	s, _ := newLiveSession(t)

	s.ProcessOutput([]byte("data"))
	s.HandleChannelClosed()
	if s.Archive().Len() == 0 {
		t.Fatal("expected archived content after freeze")
	}

	s.InvalidateContent()
	if got := s.Archive().Len(); got != 0 {
		t.Errorf("expected archive cleared, got %d lines", got)
	}
	if got := s.ScrolledCount(); got != 0 {
		t.Errorf("expected scrolled count reset, got %d", got)
	}
}

func TestInvalidateContentLiveNoop(t *testing.T) {
	s, _ := newLiveSession(t)
	feedLines(s, 25)

	s.InvalidateContent()
	if got := s.Archive().Len(); got != 1 {
		t.Errorf("expected live archive untouched, got %d lines", got)
	}
}

func TestModeString(t *testing.T) {
	if ModeLive.String() != "live" {
		t.Errorf("expected 'live', got %q", ModeLive.String())
	}
	if ModeTerminalNormal.String() != "terminal-normal" {
		t.Errorf("expected 'terminal-normal', got %q", ModeTerminalNormal.String())
	}
	if ModeFrozen.String() != "frozen" {
		t.Errorf("expected 'frozen', got %q", ModeFrozen.String())
	}
}
