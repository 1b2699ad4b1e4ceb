package acquisition

import (
	"context"
	"errors"
	"sync"
	"time"
)

type fakeConn struct {
	msgs chan []byte
	done chan struct{}

	mu     sync.Mutex
	err    error
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{msgs: make(chan []byte, 16), done: make(chan struct{})}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case m := <-c.msgs:
		return m, nil
	case <-c.done:
		c.mu.Lock()
		defer c.mu.Unlock()
		return nil, c.err
	}
}

func (c *fakeConn) Close() error {
	c.finish(errors.New("use of closed connection"))
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

// finish makes pending and future reads fail with err.
func (c *fakeConn) finish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.done:
	default:
		c.err = err
		close(c.done)
	}
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
	urls  []string
	err   error
	// block holds every dial until closed or the dial context ends.
	block chan struct{}
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (Conn, error) {
	d.mu.Lock()
	d.urls = append(d.urls, url)
	block := d.block
	d.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	c := newFakeConn()
	d.conns = append(d.conns, c)
	return c, nil
}

func (d *fakeDialer) dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.urls)
}

func (d *fakeDialer) conn(i int) *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i >= len(d.conns) {
		return nil
	}
	return d.conns[i]
}

type fakeBackend struct {
	mu        sync.Mutex
	id        string
	startErr  error
	starts    int
	stops     []string
	stopGate  chan struct{}
	stopEnter chan struct{}
}

func (b *fakeBackend) StartAcquisition(context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.starts++
	return b.id, b.startErr
}

func (b *fakeBackend) StopAcquisition(ctx context.Context, id string) error {
	b.mu.Lock()
	b.stops = append(b.stops, id)
	gate, enter := b.stopGate, b.stopEnter
	b.mu.Unlock()
	if enter != nil {
		close(enter)
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (b *fakeBackend) startCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.starts
}

func (b *fakeBackend) stopped() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.stops...)
}

var fixedNow = time.UnixMilli(1700000000000)

func newTestStore(dialer Dialer, backend Backend) *Store {
	opts := Options{
		StreamURL: "ws://backend.test/eeg/stream",
		Jitter:    NoJitter,
		Now:       func() time.Time { return fixedNow },
	}
	if dialer != nil {
		opts.Dialer = dialer
	}
	if backend != nil {
		opts.Backend = backend
	}
	return NewStore(opts)
}

// recorder collects every published snapshot.
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) listen(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) all() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func (r *recorder) statuses() []StreamStatus {
	var out []StreamStatus
	for _, s := range r.all() {
		if len(out) == 0 || out[len(out)-1] != s.StreamStatus {
			out = append(out, s.StreamStatus)
		}
	}
	return out
}
