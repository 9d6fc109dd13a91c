// Package termsession runs child processes inside headless terminal
// sessions: each session binds a process I/O channel to a VT emulation
// engine, archives rows that scroll off the top, and exposes the result
// to a host editor or UI as plain text, styled cells, or a rendered image.
//
// # Quick Start
//
// Start a command in a session and read the grid:
//
//	sess, err := termsession.NewSession("ls -la --color")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Close()
//
//	sess.Wait(time.Second)
//	for row := 0; row < 24; row++ {
//	    fmt.Println(sess.Line(row))
//	}
//
// # Architecture
//
// The package is organized around these core types:
//
//   - [TerminalSession]: binds one channel to one engine and owns the
//     mode state, the archive and the damage range
//   - [SessionRegistry]: id-keyed collection of sessions with broadcast
//     routing for channel callbacks
//   - [Engine]: the VT emulation collaborator ([HeadlessEngine] adapts
//     github.com/danielgatis/go-headless-term)
//   - [Channel]: the process transport ([PtyChannel] runs commands on a
//     Unix pseudo-terminal)
//   - [ScrollbackArchive]: bounded store of rows evicted off the grid
//   - [Document]: the host-side line buffer mirroring the transcript
//
// # Session Modes
//
// A session is in exactly one of three modes:
//
//   - Live: process output flows into the engine and the grid updates
//   - Terminal-Normal: the grid is snapshotted into the archive and the
//     document so the host can scroll and yank it; output is withheld
//   - Frozen: the process is gone and the engine released; the document
//     keeps the final transcript
//
// EnterTerminalNormal and Resume switch between the first two. A session
// freezes when its channel closes in Live mode, or on the Resume after a
// close that happened during Terminal-Normal.
//
//	sess.EnterTerminalNormal() // snapshot, stop forwarding keys
//	// ... host scrolls, searches, yanks ...
//	sess.Resume()              // roll the snapshot back, go live again
//
// # Output and Damage
//
// ProcessOutput feeds raw process bytes through the engine and applies
// the resulting events: grid damage, cursor movement, evicted rows,
// title changes, resizes. The damage range accumulates until the host
// collects it:
//
//	sess.ProcessOutput(data)
//	if start, end, ok := sess.DirtyRows(); ok {
//	    redraw(start, end)
//	    sess.ClearDirty()
//	}
//
// # Input
//
// Keys and mouse events are abstract; the engine encodes them per the
// active terminal modes. The consumed flag reports whether the event was
// the terminal's to handle:
//
//	consumed, err := sess.SendKey(termsession.KeyEvent{Key: termsession.KeyUp})
//	if !consumed {
//	    // host UI action, not terminal input
//	}
//
// SendText sends literal text grapheme cluster by grapheme cluster, and
// Paste wraps it in bracketed-paste markers when the application turned
// them on.
//
// # Resizing
//
// Sessions track the viewports displaying them and size the engine to
// the smallest one, unless rows or columns are fixed:
//
//	sess.BindViewport(vp)
//	vp.SetSize(10, 40)
//	sess.ReconcileSize()
//
// # Rendering
//
// RenderTranscript draws the archive plus the grid into an image, with
// colors and attributes applied:
//
//	img := sess.RenderTranscript()
//	png.Encode(file, img)
//
// # Thread Safety
//
// A session is not safe for concurrent use: the host drives it from a
// single control loop, alternating between user input and process
// output. The pty channel's status tracking is internally synchronized,
// so Status can be polled from that loop while the exit status is
// collected in the background.
package termsession
