package realtime

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peerState(t *testing.T, origin string, version int) []byte {
	t.Helper()
	raw, err := encodePeerMessage(origin, []byte(`{"version":`+strconv.Itoa(version)+`}`), time.UnixMilli(0))
	require.NoError(t, err)
	return raw
}

func TestNewRedisPubSubDefaultChannel(t *testing.T) {
	assert.Equal(t, StateChannel, NewRedisPubSub(nil, "", nil).Channel())
	assert.Equal(t, "ward-3", NewRedisPubSub(nil, "ward-3", nil).Channel())
}

func TestAcceptOrdersPerOrigin(t *testing.T) {
	r := NewRedisPubSub(nil, "", nil)

	origin, state, ok := r.accept(peerState(t, "a", 3))
	require.True(t, ok)
	assert.Equal(t, "a", origin)
	assert.JSONEq(t, `{"version":3}`, string(state))

	_, _, ok = r.accept(peerState(t, "a", 3))
	assert.False(t, ok, "duplicate")
	_, _, ok = r.accept(peerState(t, "a", 2))
	assert.False(t, ok, "reordered")

	_, _, ok = r.accept(peerState(t, "b", 1))
	assert.True(t, ok, "origins are independent")
	_, _, ok = r.accept(peerState(t, "a", 4))
	assert.True(t, ok)
}

func TestAcceptDropsMalformed(t *testing.T) {
	r := NewRedisPubSub(nil, "", nil)
	for _, raw := range []string{
		``,
		`nope`,
		`{"state":{"version":1}}`,
		`{"origin":"a"}`,
		`{"origin":"a","state":"x"}`,
	} {
		_, _, ok := r.accept([]byte(raw))
		assert.False(t, ok, raw)
	}
}
