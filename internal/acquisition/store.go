// Package acquisition holds the live acquisition state of the dashboard: the
// electrode selection, the session lifecycle and the stream ingestion engine
// that turns EEG frames into per-electrode quality scores.
package acquisition

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/neurales/dashboard/pkg/metrics"
)

// Listener receives a snapshot after every state change. Listeners are called
// in version order and must not call back into the Store.
type Listener func(State)

// Options configures a Store.
type Options struct {
	StreamURL string
	Dialer    Dialer
	Backend   Backend
	Jitter    Jitter
	Metrics   *metrics.Stream
	Logger    *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// NotifyTimeout bounds detached stop notifications. Defaults to
	// DefaultNotifyTimeout.
	NotifyTimeout time.Duration
}

// Store composes the session manager and the stream engine over one shared
// state block. All mutations are serialized by mu.
type Store struct {
	mu sync.Mutex
	st state

	notifyMu  sync.Mutex
	listeners []Listener

	engine   *Engine
	sessions *SessionManager
	logger   *zap.Logger
}

// NewStore builds a Store wired with its engine and session manager.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	notifyTimeout := opts.NotifyTimeout
	if notifyTimeout <= 0 {
		notifyTimeout = DefaultNotifyTimeout
	}
	jitter := opts.Jitter
	if jitter == nil {
		jitter = RandomJitter
	}
	s := &Store{st: newState(), logger: logger}
	s.engine = &Engine{
		store:   s,
		dialer:  opts.Dialer,
		url:     opts.StreamURL,
		jitter:  jitter,
		metrics: opts.Metrics,
		logger:  logger.Named("stream"),
		now:     now,
	}
	s.sessions = &SessionManager{
		store:   s,
		backend: opts.Backend,
		stream:  s.engine,
		metrics: opts.Metrics,
		logger:  logger.Named("session"),
		now:     now,

		notifyTimeout: notifyTimeout,
	}
	opts.Metrics.SetStatus(string(StatusIdle), allStatuses...)
	return s
}

// Engine returns the stream ingestion engine.
func (s *Store) Engine() *Engine { return s.engine }

// Sessions returns the session lifecycle manager.
func (s *Store) Sessions() *SessionManager { return s.sessions }

// Subscribe registers fn for state changes.
func (s *Store) Subscribe(fn Listener) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.snapshot()
}

// withLock runs fn under the state lock without publishing a change.
func (s *Store) withLock(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.st)
}

// update runs fn under the state lock. When fn reports a change, the version
// is bumped and listeners receive the new snapshot in order.
func (s *Store) update(fn func(st *state) bool) bool {
	s.mu.Lock()
	if !fn(&s.st) {
		s.mu.Unlock()
		return false
	}
	s.st.version++
	snap := s.st.snapshot()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	for _, l := range s.listeners {
		l(snap)
	}
	return true
}

// ToggleElectrode flips the selection of id and reports whether it is now selected.
func (s *Store) ToggleElectrode(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	var selected bool
	s.update(func(st *state) bool {
		selected = st.selection.Toggle(id)
		st.syncQuality()
		return true
	})
	return selected
}

// SetElectrodes replaces the selection.
func (s *Store) SetElectrodes(ids []string) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		cleaned = append(cleaned, strings.TrimSpace(id))
	}
	s.update(func(st *state) bool {
		st.selection.SetAll(cleaned)
		st.syncQuality()
		return true
	})
}

// ClearElectrodes empties the selection.
func (s *Store) ClearElectrodes() {
	s.update(func(st *state) bool {
		st.selection.Clear()
		st.syncQuality()
		return true
	})
}

// Start begins an acquisition session. See SessionManager.Start.
func (s *Store) Start(ctx context.Context) { s.sessions.Start(ctx) }

// Stop ends the current acquisition session. See SessionManager.Stop.
func (s *Store) Stop(ctx context.Context) { s.sessions.Stop(ctx) }

// StopDetached ends the session without waiting on the backend. See
// SessionManager.StopDetached.
func (s *Store) StopDetached(ctx context.Context) <-chan struct{} {
	return s.sessions.StopDetached(ctx)
}

// Close drops the stream connection without touching the session.
func (s *Store) Close() { s.engine.Disconnect() }

var allStatuses = []string{
	string(StatusIdle),
	string(StatusConnecting),
	string(StatusOpen),
	string(StatusClosed),
	string(StatusError),
}
