package acquisition

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// StreamPath is appended to the configured base to reach the live feed.
	StreamPath = "/eeg/stream"

	defaultStreamBase = "http://localhost:8000"
	closeWait         = time.Second
	maxFrameSize      = 16 << 20
)

// BuildStreamURL derives the stream endpoint from the configured bases. The
// first non-empty of wsBase and apiBase is used; an http(s) scheme becomes
// ws(s), a trailing slash is dropped and StreamPath is appended.
func BuildStreamURL(wsBase, apiBase string) string {
	base := strings.TrimSpace(wsBase)
	if base == "" {
		base = strings.TrimSpace(apiBase)
	}
	if base == "" {
		base = defaultStreamBase
	}
	if strings.HasPrefix(base, "http") {
		base = "ws" + strings.TrimPrefix(base, "http")
	}
	base = strings.TrimSuffix(base, "/")
	return base + StreamPath
}

// WebsocketDialer dials the live feed over gorilla/websocket.
type WebsocketDialer struct {
	dialer *websocket.Dialer
	header http.Header
}

// NewWebsocketDialer creates a dialer with the given handshake timeout.
// header is sent with every handshake and may be nil.
func NewWebsocketDialer(handshakeTimeout time.Duration, header http.Header) *WebsocketDialer {
	return &WebsocketDialer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
		header: header,
	}
}

// Dial opens a connection to url.
func (d *WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, d.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	conn.SetReadLimit(maxFrameSize)
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, fmt.Errorf("%w: %v", ErrNormalClosure, err)
		}
		return nil, err
	}
	return data, nil
}

// Close sends a close frame and tears down the socket without waiting for the
// peer's answer.
func (c *wsConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait))
	return c.conn.Close()
}
