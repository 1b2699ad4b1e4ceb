package acquisition

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/neurales/dashboard/pkg/metrics"
)

// Conn is one open stream connection.
type Conn interface {
	// ReadMessage blocks for the next message. It returns an error once the
	// connection is closed by either side.
	ReadMessage() ([]byte, error)
	Close() error
}

// Dialer opens stream connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// ErrNormalClosure marks a read error caused by an orderly close handshake.
// Dialers wrap it so the engine reports "closed" without passing through "error".
var ErrNormalClosure = errors.New("stream closed normally")

// connection is the single held stream instance. gen identifies it so that
// signals from a superseded instance are ignored.
type connection struct {
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
	conn   Conn
}

// Engine owns the stream connection and derives live metrics and electrode
// quality from inbound frames. Its fields are guarded by the Store lock.
type Engine struct {
	store   *Store
	dialer  Dialer
	url     string
	jitter  Jitter
	metrics *metrics.Stream
	logger  *zap.Logger
	now     func() time.Time

	held    *connection
	lastGen uint64
}

// URL returns the stream endpoint the engine dials.
func (e *Engine) URL() string { return e.url }

// Connect opens the stream unless a connection is already held.
func (e *Engine) Connect() {
	var c *connection
	e.store.update(func(st *state) bool {
		if e.held != nil {
			return false
		}
		e.lastGen++
		ctx, cancel := context.WithCancel(context.Background())
		c = &connection{gen: e.lastGen, ctx: ctx, cancel: cancel}
		e.held = c
		e.setStatus(st, StatusConnecting)
		st.syncQuality()
		return true
	})
	if c == nil {
		return
	}
	e.metrics.ConnectionOpened()
	e.logger.Info("connecting to stream", zap.String("url", e.url), zap.Uint64("conn", c.gen))
	go e.run(c)
}

// Disconnect requests the close of the held connection and returns to idle
// without waiting for the close handshake.
func (e *Engine) Disconnect() {
	var (
		c    *connection
		conn Conn
	)
	e.store.update(func(st *state) bool {
		c = e.held
		e.held = nil
		if c != nil {
			conn = c.conn
		}
		if c == nil && st.status == StatusIdle {
			return false
		}
		e.setStatus(st, StatusIdle)
		return true
	})
	if c == nil {
		return
	}
	c.cancel()
	if conn != nil {
		if err := conn.Close(); err != nil {
			e.logger.Debug("close stream", zap.Uint64("conn", c.gen), zap.Error(err))
		}
	}
	e.logger.Info("stream disconnected", zap.Uint64("conn", c.gen))
}

// Connected reports whether a connection instance is held.
func (e *Engine) Connected() bool {
	var ok bool
	e.store.withLock(func(*state) { ok = e.held != nil })
	return ok
}

func (e *Engine) run(c *connection) {
	if e.dialer == nil {
		e.handleError(c.gen, errors.New("no stream dialer configured"))
		e.handleClose(c.gen)
		return
	}
	conn, err := e.dialer.Dial(c.ctx, e.url)
	if err != nil {
		e.handleError(c.gen, err)
		e.handleClose(c.gen)
		return
	}
	if !e.attach(c, conn) {
		_ = conn.Close()
		return
	}
	e.handleOpen(c.gen)
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			if !errors.Is(err, ErrNormalClosure) {
				e.handleError(c.gen, err)
			}
			e.handleClose(c.gen)
			return
		}
		e.handleMessage(c.gen, data)
	}
}

// attach binds a dialed connection to its instance, unless Disconnect ran
// while the dial was in flight.
func (e *Engine) attach(c *connection, conn Conn) bool {
	var ok bool
	e.store.withLock(func(*state) {
		if e.held == c {
			c.conn = conn
			ok = true
		}
	})
	return ok
}

func (e *Engine) current(gen uint64) bool {
	return e.held != nil && e.held.gen == gen
}

func (e *Engine) setStatus(st *state, status StreamStatus) {
	st.status = status
	e.metrics.SetStatus(string(status), allStatuses...)
}

func (e *Engine) handleOpen(gen uint64) {
	if e.store.update(func(st *state) bool {
		if !e.current(gen) {
			return false
		}
		e.setStatus(st, StatusOpen)
		return true
	}) {
		e.logger.Info("stream open", zap.Uint64("conn", gen))
	}
}

func (e *Engine) handleClose(gen uint64) {
	var c *connection
	e.store.update(func(st *state) bool {
		if !e.current(gen) {
			return false
		}
		c = e.held
		e.held = nil
		if st.running {
			e.setStatus(st, StatusClosed)
		} else {
			e.setStatus(st, StatusIdle)
		}
		return true
	})
	if c != nil {
		c.cancel()
		e.logger.Info("stream closed", zap.Uint64("conn", gen))
	}
}

func (e *Engine) handleError(gen uint64, err error) {
	if e.store.update(func(st *state) bool {
		if !e.current(gen) {
			return false
		}
		e.setStatus(st, StatusError)
		return true
	}) {
		e.logger.Warn("stream error", zap.Uint64("conn", gen), zap.Error(err))
	}
}

func (e *Engine) handleMessage(gen uint64, data []byte) {
	var dropped error
	e.store.update(func(st *state) bool {
		if !e.current(gen) {
			return false
		}
		frame, err := DecodeFrame(data)
		if err != nil {
			dropped = err
			e.metrics.FrameDropped("decode")
			e.setStatus(st, StatusError)
			return true
		}
		if frame.IsError() {
			dropped = errors.New(frame.Error)
			e.metrics.FrameDropped("error_frame")
			e.setStatus(st, StatusError)
			return true
		}
		e.applyFrame(st, frame)
		e.metrics.FrameReceived()
		return true
	})
	if dropped != nil {
		e.logger.Warn("stream message dropped", zap.Uint64("conn", gen), zap.Error(dropped))
	}
}

// applyFrame replaces the live metrics and rescores every selected electrode.
// Iteration follows the selection, not the channels on the wire.
func (e *Engine) applyFrame(st *state, f *Frame) {
	base := BaseScore(f.Quality)
	st.live = &LiveMetrics{
		FatigueScore: f.Fatigue,
		Quality:      base,
		Timestamp:    e.now(),
		T0:           f.T0,
		SFreq:        f.SFreq,
	}
	st.alerts = append(st.alerts[:0:0], f.Alerts...)
	for _, id := range st.selection.ids {
		st.quality[id] = electrodeScore(f.SamplesFor(id), base, e.jitter.Next())
	}
}
