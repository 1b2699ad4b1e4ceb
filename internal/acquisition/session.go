package acquisition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/neurales/dashboard/pkg/metrics"
)

// Backend is the remote bookkeeping for acquisition sessions.
type Backend interface {
	StartAcquisition(ctx context.Context) (sessionID string, err error)
	StopAcquisition(ctx context.Context, sessionID string) error
}

// Streamer is the part of the engine the session manager drives.
type Streamer interface {
	Connect()
	Disconnect()
}

// ErrNoBackend is reported in logs when no Backend is configured; sessions
// then run on local ids only.
var ErrNoBackend = errors.New("no acquisition backend configured")

// DefaultNotifyTimeout bounds a detached stop notification.
const DefaultNotifyTimeout = 20 * time.Second

// LocalSessionPrefix starts the ids synthesized when the backend is unreachable.
const LocalSessionPrefix = "local-"

// SessionManager owns the running flag and the session id, and opens or
// closes the stream alongside them. It never reads stream state.
type SessionManager struct {
	store   *Store
	backend Backend
	stream  Streamer
	metrics *metrics.Stream
	logger  *zap.Logger
	now     func() time.Time

	notifyTimeout time.Duration
}

// Start requests a session from the backend and opens the stream. It is a
// no-op while a session is running or being started. A failed backend call
// falls back to a local id so live monitoring still works.
func (m *SessionManager) Start(ctx context.Context) {
	var proceed bool
	m.store.withLock(func(st *state) {
		if st.running || st.starting {
			return
		}
		st.starting = true
		proceed = true
	})
	if !proceed {
		return
	}

	id, err := m.requestSession(ctx)
	local := false
	if err != nil {
		local = true
		id = fmt.Sprintf("%s%d", LocalSessionPrefix, m.now().UnixMilli())
		m.logger.Warn("start session failed, using local id", zap.String("session_id", id), zap.Error(err))
	}

	m.store.update(func(st *state) bool {
		st.starting = false
		st.sessionID = id
		st.running = true
		return true
	})
	m.metrics.SessionStarted(local)
	m.logger.Info("session started", zap.String("session_id", id))
	m.stream.Connect()
}

func (m *SessionManager) requestSession(ctx context.Context) (string, error) {
	if m.backend == nil {
		return "", ErrNoBackend
	}
	id, err := m.backend.StartAcquisition(ctx)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", errors.New("empty session id")
	}
	return id, nil
}

// Stop ends the current session and waits for the backend notification.
func (m *SessionManager) Stop(ctx context.Context) {
	if id := m.End(); id != "" {
		m.Notify(ctx, id)
	}
}

// StopDetached ends the session locally and notifies the backend in the
// background, so the caller never waits on backend latency. The notification
// survives the cancellation of ctx and is bounded by the notify timeout. The
// returned channel is closed once it has finished.
func (m *SessionManager) StopDetached(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	id := m.End()
	if id == "" {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.notifyTimeout)
		defer cancel()
		m.Notify(nctx, id)
	}()
	return done
}

// End clears the running flag and the session id, closes the stream and
// returns the id that was running, or "" when there was none.
func (m *SessionManager) End() string {
	var id string
	m.store.update(func(st *state) bool {
		if st.sessionID == "" {
			return false
		}
		id = st.sessionID
		st.running = false
		st.sessionID = ""
		return true
	})
	if id == "" {
		return ""
	}
	m.stream.Disconnect()
	m.logger.Info("session stopped", zap.String("session_id", id))
	return id
}

// Notify tells the backend that session id ended. Failures are logged only.
func (m *SessionManager) Notify(ctx context.Context, id string) {
	if m.backend == nil {
		return
	}
	if err := m.backend.StopAcquisition(ctx, id); err != nil {
		m.logger.Debug("stop session notification failed", zap.String("session_id", id), zap.Error(err))
	}
}

// Running reports whether a session is active, and its id.
func (m *SessionManager) Running() (string, bool) {
	var (
		id      string
		running bool
	)
	m.store.withLock(func(st *state) {
		id, running = st.sessionID, st.running
	})
	return id, running
}
