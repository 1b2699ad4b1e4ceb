package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// StateChannel carries acquisition states between gateway instances.
	StateChannel  = "acquisition:state"
	publishWithin = 5 * time.Second
)

// peerMessage is one acquisition state on the wire, tagged with the hub that
// produced it.
type peerMessage struct {
	Origin string          `json:"origin"`
	State  json.RawMessage `json:"state"`
	SentAt int64           `json:"sent_at"`
}

// RedisPubSub bridges hubs of several gateway instances over one Redis
// channel. It implements RedisPublisher and RedisSubscriber.
type RedisPubSub struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger

	mu   sync.Mutex
	seen map[string]uint64 // origin -> last relayed state version
}

// NewRedisPubSub creates a bridge on channel, or on StateChannel when empty.
func NewRedisPubSub(client *redis.Client, channel string, logger *zap.Logger) *RedisPubSub {
	if channel == "" {
		channel = StateChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPubSub{client: client, channel: channel, logger: logger, seen: make(map[string]uint64)}
}

// Channel is the Redis channel in use.
func (r *RedisPubSub) Channel() string { return r.channel }

// PublishState publishes a state snapshot tagged with origin.
func (r *RedisPubSub) PublishState(origin string, payload []byte) error {
	body, err := encodePeerMessage(origin, payload, time.Now())
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishWithin)
	defer cancel()
	return r.client.Publish(ctx, r.channel, body).Err()
}

// SubscribeState calls handler for every state published by any instance,
// in order per origin. Reordered or malformed messages are dropped.
func (r *RedisPubSub) SubscribeState(handler func(origin string, payload []byte)) (cancel func(), err error) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err = sub.Receive(ctx); err != nil {
		cancelCtx()
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				origin, state, ok := r.accept([]byte(msg.Payload))
				if ok {
					handler(origin, state)
				}
			}
		}
	}()
	return cancelCtx, nil
}

// accept decodes raw and reports whether it is newer than what origin sent
// before.
func (r *RedisPubSub) accept(raw []byte) (string, []byte, bool) {
	m, version, err := decodePeerMessage(raw)
	if err != nil {
		r.logger.Debug("drop malformed peer state", zap.Error(err))
		return "", nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if last, ok := r.seen[m.Origin]; ok && version <= last {
		r.logger.Debug("drop stale peer state",
			zap.String("origin", m.Origin), zap.Uint64("version", version), zap.Uint64("last", last))
		return "", nil, false
	}
	r.seen[m.Origin] = version
	return m.Origin, m.State, true
}

func encodePeerMessage(origin string, state []byte, at time.Time) ([]byte, error) {
	return json.Marshal(peerMessage{Origin: origin, State: state, SentAt: at.UnixMilli()})
}

func decodePeerMessage(raw []byte) (*peerMessage, uint64, error) {
	var m peerMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, 0, err
	}
	if m.Origin == "" || len(m.State) == 0 {
		return nil, 0, fmt.Errorf("peer state without origin or state")
	}
	var v struct {
		Version uint64 `json:"version"`
	}
	if err := json.Unmarshal(m.State, &v); err != nil {
		return nil, 0, fmt.Errorf("peer state: %w", err)
	}
	return &m, v.Version, nil
}
