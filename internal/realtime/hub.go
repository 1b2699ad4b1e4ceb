package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neurales/dashboard/internal/acquisition"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60

	EventState     = "state"
	EventPeerState = "peer_state"
	EventError     = "error"

	publishQueue = 64
)

// Acquisition is the store surface browser clients drive.
type Acquisition interface {
	Snapshot() acquisition.State
	ToggleElectrode(id string) bool
	SetElectrodes(ids []string)
	ClearElectrodes()
	Start(ctx context.Context)
	StopDetached(ctx context.Context) <-chan struct{}
}

// RedisPublisher publishes local state events for other gateway instances.
type RedisPublisher interface {
	PublishState(origin string, payload []byte) error
}

// RedisSubscriber delivers state events published by any instance.
type RedisSubscriber interface {
	SubscribeState(handler func(origin string, payload []byte)) (cancel func(), err error)
}

// Hub fans acquisition state out to the connected browsers. With redis, each
// local state is also published, and states from other instances are relayed
// as peer_state without touching the local store.
type Hub struct {
	clients    map[string]*Client
	mu         sync.RWMutex
	store      Acquisition
	logger     *zap.Logger
	redis      RedisPublisher
	redisSub   RedisSubscriber
	instanceID string

	publish   chan []byte
	cancelSub func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewHub creates a hub for store. redisPub and redisSub may be nil.
func NewHub(store Acquisition, logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		store:      store,
		logger:     logger,
		redis:      redisPub,
		redisSub:   redisSub,
		instanceID: uuid.New().String(),
		publish:    make(chan []byte, publishQueue),
		done:       make(chan struct{}),
	}
}

// InstanceID tags the events this hub publishes.
func (h *Hub) InstanceID() string { return h.instanceID }

// Run subscribes to peer states and starts the publisher. It returns once
// the subscription is set up.
func (h *Hub) Run() error {
	if h.redisSub != nil {
		cancel, err := h.redisSub.SubscribeState(h.relayPeer)
		if err != nil {
			return err
		}
		h.cancelSub = cancel
	}
	if h.redis != nil {
		go h.publishLoop()
	}
	return nil
}

// Close stops the redis bridge.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		if h.cancelSub != nil {
			h.cancelSub()
		}
		close(h.done)
	})
}

// OnState is the store listener. It never blocks: slow clients and a slow
// redis lose intermediate states, and the next one supersedes them.
func (h *Hub) OnState(s acquisition.State) {
	data, err := json.Marshal(s)
	if err != nil {
		h.logger.Error("encode state", zap.Error(err))
		return
	}
	h.broadcastState(s.Version, data)
	if h.redis == nil {
		return
	}
	select {
	case h.publish <- data:
	default:
		h.logger.Debug("state publish queue full", zap.Uint64("version", s.Version))
	}
}

func (h *Hub) publishLoop() {
	for {
		select {
		case <-h.done:
			return
		case data := <-h.publish:
			if err := h.redis.PublishState(h.instanceID, data); err != nil {
				h.logger.Warn("publish state", zap.Error(err))
			}
		}
	}
}

func (h *Hub) relayPeer(origin string, payload []byte) {
	if origin == h.instanceID {
		return
	}
	h.Broadcast(EventPeerState, json.RawMessage(payload))
}

// Register adds a client and sends it the current state.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	h.sendState(c, h.store.Snapshot())
	h.logger.Debug("client connected", zap.String("client_id", c.ID))
}

// sendState queues s for c unless c already got the same or a newer version.
func (h *Hub) sendState(c *Client, s acquisition.State) {
	data, err := json.Marshal(s)
	if err != nil {
		h.logger.Error("encode state", zap.Error(err))
		return
	}
	msg := WSMessage{Event: EventState, Data: data}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	h.queueState(c, s.Version, msg)
}

// broadcastState queues a state for every client, each receiving versions in
// increasing order only.
func (h *Hub) broadcastState(version uint64, data []byte) {
	msg := WSMessage{Event: EventState, Data: data}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		h.queueState(c, version, msg)
	}
}

func (h *Hub) queueState(c *Client, version uint64, msg WSMessage) {
	if c.stateSent && version <= c.stateVersion {
		return
	}
	select {
	case c.send <- msg:
		c.stateSent = true
		c.stateVersion = version
	default:
	}
}

// Unregister removes a client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		close(c.send)
	}
	h.mu.Unlock()
	h.logger.Debug("client disconnected", zap.String("client_id", c.ID))
}

// Broadcast sends a message to all local clients.
func (h *Hub) Broadcast(event string, payload interface{}) {
	msg, ok := envelope(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// SendToClient sends a message to a single client.
func (h *Hub) SendToClient(clientID string, event string, payload interface{}) {
	msg, ok := envelope(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, found := h.clients[clientID]
	if !found {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func envelope(event string, payload interface{}) (WSMessage, bool) {
	var data []byte
	switch v := payload.(type) {
	case nil:
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return WSMessage{}, false
		}
	}
	return WSMessage{Event: event, Data: data}, true
}
