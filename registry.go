package termsession

import (
	"context"
	"fmt"
	"time"

	"pkt.systems/pslog"
)

// SessionRegistry is an insertion-ordered collection of live sessions. It
// exists for lifecycle: routing process-ended and channel-closed
// notifications to the matching sessions, enumerating sessions, and the
// id-keyed query surface a scripting layer calls. There is no process-wide
// registry; hosts create one and pass it around explicitly.
//
// Like the sessions it holds, a registry is driven from a single control
// loop and is not safe for concurrent use.
type SessionRegistry struct {
	sessions map[string]*TerminalSession
	order    []*TerminalSession
	logger   pslog.Logger
}

// RegistryOption is a functional option for configuring a registry.
type RegistryOption func(*SessionRegistry)

// WithRegistryLogger sets the logger handed down to sessions the registry
// starts.
func WithRegistryLogger(logger pslog.Logger) RegistryOption {
	return func(r *SessionRegistry) { r.logger = logger }
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry(opts ...RegistryOption) *SessionRegistry {
	r := &SessionRegistry{sessions: make(map[string]*TerminalSession)}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = pslog.Ctx(context.Background())
	}
	return r
}

// Start spawns cmd in a new session and registers it. On failure nothing
// is registered and the error wraps ErrSpawn; a half-initialized session
// never remains behind.
func (r *SessionRegistry) Start(cmd string, opts ...Option) (string, error) {
	opts = append([]Option{WithLogger(r.logger)}, opts...)
	s, err := NewSession(cmd, opts...)
	if err != nil {
		r.logger.Error("session start failed", "cmd", cmd, "err", err)
		return "", err
	}
	r.sessions[s.id] = s
	r.order = append(r.order, s)
	return s.id, nil
}

// Get returns the session with the given id.
func (r *SessionRegistry) Get(id string) (*TerminalSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// List returns the ids of all registered sessions in insertion order.
func (r *SessionRegistry) List() []string {
	ids := make([]string, 0, len(r.order))
	for _, s := range r.order {
		ids = append(ids, s.id)
	}
	return ids
}

// Close destroys the session with the given id and removes it from the
// registry. The process is force-terminated.
func (r *SessionRegistry) Close(id string) error {
	s, err := r.Get(id)
	if err != nil {
		return err
	}
	delete(r.sessions, id)
	for i, o := range r.order {
		if o == s {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return s.Close()
}

// CloseAll destroys every registered session.
func (r *SessionRegistry) CloseAll() {
	for _, s := range r.order {
		delete(r.sessions, s.id)
		if err := s.Close(); err != nil {
			r.logger.Warn("session close failed", "session", s.id, "err", err)
		}
	}
	r.order = r.order[:0]
}

// HandleChannelClosed routes a channel-closed notification to the
// session(s) bound to ch.
func (r *SessionRegistry) HandleChannelClosed(ch Channel) {
	for _, s := range r.order {
		if s.channel == ch {
			s.HandleChannelClosed()
		}
	}
}

// HandleJobEnded routes a process-ended notification to the session(s)
// bound to ch. Buffered output may still arrive afterwards, so the
// sessions are not torn down by this.
func (r *SessionRegistry) HandleJobEnded(ch Channel) {
	for _, s := range r.order {
		if s.channel == ch {
			s.HandleJobEnded()
		}
	}
}

// --- id-keyed query surface ---

// SendKeys writes literal text to the session's process. A frozen session
// swallows the text silently.
func (r *SessionRegistry) SendKeys(id, text string) error {
	s, err := r.Get(id)
	if err != nil {
		return err
	}
	if s.engine == nil {
		return nil
	}
	return s.SendText(text)
}

// Status returns the session status word.
func (r *SessionRegistry) Status(id string) (string, error) {
	s, err := r.Get(id)
	if err != nil {
		return "", err
	}
	return s.Status(), nil
}

// Title returns the session title.
func (r *SessionRegistry) Title(id string) (string, error) {
	s, err := r.Get(id)
	if err != nil {
		return "", err
	}
	return s.Title(), nil
}

// Cursor returns the session cursor position and visibility.
func (r *SessionRegistry) Cursor(id string) (row, col int, visible bool, err error) {
	s, err := r.Get(id)
	if err != nil {
		return 0, 0, false, err
	}
	row, col, visible = s.Cursor()
	return row, col, visible, nil
}

// Size returns the session geometry.
func (r *SessionRegistry) Size(id string) (rows, cols int, err error) {
	s, err := r.Get(id)
	if err != nil {
		return 0, 0, err
	}
	rows, cols = s.Size()
	return rows, cols, nil
}

// Line returns the text of a session grid row.
func (r *SessionRegistry) Line(id string, row int) (string, error) {
	s, err := r.Get(id)
	if err != nil {
		return "", err
	}
	return s.Line(row), nil
}

// Scrape returns the cells of a session grid row.
func (r *SessionRegistry) Scrape(id string, row int) ([]ScrapedCell, error) {
	s, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return s.Scrape(row), nil
}

// Wait blocks until the session's job ends and its output is drained, or
// the timeout elapses.
func (r *SessionRegistry) Wait(id string, timeout time.Duration) error {
	s, err := r.Get(id)
	if err != nil {
		return err
	}
	return s.Wait(timeout)
}
