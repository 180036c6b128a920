// Package realtime implements the push transport: a WebSocket hub with
// per-user private channels and per-city locality channels, fanned out
// across instances through Redis Pub/Sub. Every push is best-effort; a
// missing transport or failed write never reaches API callers.
package realtime

import (
	"context"
	"encoding/json"
	"expvar"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis channel layout
const (
	cityChannelPrefix = "rt:city:"
	userEventsChannel = "rt:user_events"
)

var (
	wsConnectionsGauge   = expvar.NewInt("websocket_connections")
	wsEventsSentTotal    = expvar.NewInt("websocket_events_sent_total")
	wsEventsDroppedTotal = expvar.NewInt("websocket_events_dropped_total")
)

type userEventMessage struct {
	UserID           string          `json:"user_id"`
	Payload          json.RawMessage `json:"payload"`
	SenderInstanceID string          `json:"sender_instance_id"`
}

// Connection represents one WebSocket client
type Connection struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub manages WebSocket connections with Redis Pub/Sub for scalability
type Hub struct {
	// Local connections (this server instance only)
	connections map[uuid.UUID]map[*Connection]bool

	// Local city subscriptions: normalized city -> connections on this server
	localCities map[string]map[*Connection]bool

	redis  *redis.Client
	pubsub *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc

	instanceID string
	publishFn  func(ctx context.Context, channel string, payload []byte) error
}

// NewHub creates a WebSocket hub with Redis Pub/Sub
func NewHub(redisClient *redis.Client) *Hub {
	return NewHubWithInstanceID(redisClient, uuid.NewString())
}

// NewHubWithInstanceID creates a hub with an explicit instance identifier.
func NewHubWithInstanceID(redisClient *redis.Client, instanceID string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		localCities: make(map[string]map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
		instanceID:  instanceID,
	}

	if redisClient != nil {
		h.pubsub = redisClient.PSubscribe(ctx, cityChannelPrefix+"*", userEventsChannel)
		h.publishFn = func(ctx context.Context, channel string, payload []byte) error {
			return redisClient.Publish(ctx, channel, payload).Err()
		}
	}

	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.UserID] == nil {
				h.connections[conn.UserID] = make(map[*Connection]bool)
			}
			h.connections[conn.UserID][conn] = true
			h.mu.Unlock()
			wsConnectionsGauge.Add(1)
			log.Debug().Str("user_id", conn.UserID.String()).Msg("User connected to WebSocket")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.connections[conn.UserID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
					wsConnectionsGauge.Add(-1)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.UserID)
				}
			}
			for city, conns := range h.localCities {
				delete(conns, conn)
				if len(conns) == 0 {
					delete(h.localCities, city)
				}
			}
			h.mu.Unlock()
			log.Debug().Str("user_id", conn.UserID.String()).Msg("User disconnected from WebSocket")
		}
	}
}

// Stop shuts the hub down
func (h *Hub) Stop() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}

// runRedisSubscriber delivers cross-instance events to local clients
func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}

			if strings.HasPrefix(msg.Channel, cityChannelPrefix) {
				city := msg.Channel[len(cityChannelPrefix):]
				h.sendLocalToCity(city, []byte(msg.Payload))
				continue
			}

			if msg.Channel == userEventsChannel {
				h.handleUserEventPayload(msg.Payload)
			}
		}
	}
}

func (h *Hub) handleUserEventPayload(payload string) {
	var event userEventMessage
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return
	}
	// Local delivery already happened on the sending instance.
	if event.SenderInstanceID == h.instanceID {
		return
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return
	}
	h.sendLocalToUser(userID, []byte(event.Payload))
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// NormalizeCity canonicalizes a city name for channel matching.
func NormalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// SubscribeCity adds a connection to a locality channel
func (h *Hub) SubscribeCity(conn *Connection, city string) {
	city = NormalizeCity(city)
	if city == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.localCities[city] == nil {
		h.localCities[city] = make(map[*Connection]bool)
	}
	h.localCities[city][conn] = true
}

// UnsubscribeCity removes a connection from a locality channel
func (h *Hub) UnsubscribeCity(conn *Connection, city string) {
	city = NormalizeCity(city)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.localCities[city] != nil {
		delete(h.localCities[city], conn)
		if len(h.localCities[city]) == 0 {
			delete(h.localCities, city)
		}
	}
}

// PushToUserJSON sends a payload to every active connection of a user,
// on this instance directly and on the others via Redis.
func (h *Hub) PushToUserJSON(userID uuid.UUID, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.sendLocalToUser(userID, data)
	return h.publishUserEvent(userID, data)
}

// PushToCityJSON sends a payload to every connection subscribed to a city.
func (h *Hub) PushToCityJSON(city string, payload any) error {
	city = NormalizeCity(city)
	if city == "" {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if h.publishFn != nil {
		// Every instance, this one included, delivers on receipt.
		if err := h.publishFn(h.ctx, cityChannelPrefix+city, data); err != nil {
			log.Error().Err(err).Str("city", city).Msg("Redis publish failed")
			h.sendLocalToCity(city, data)
		}
		return nil
	}

	h.sendLocalToCity(city, data)
	return nil
}

func (h *Hub) sendLocalToUser(userID uuid.UUID, data []byte) {
	// Hold the read lock across the iteration: Run mutates the inner map
	// under the write lock, and iterating it concurrently is fatal.
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections[userID] {
		select {
		case conn.Send <- data:
			wsEventsSentTotal.Add(1)
		default:
			// Buffer full, skip this message
			wsEventsDroppedTotal.Add(1)
			log.Warn().Str("user_id", userID.String()).Msg("WebSocket send buffer full")
		}
	}
}

func (h *Hub) sendLocalToCity(city string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.localCities[city] {
		select {
		case conn.Send <- data:
			wsEventsSentTotal.Add(1)
		default:
			wsEventsDroppedTotal.Add(1)
		}
	}
}

func (h *Hub) publishUserEvent(userID uuid.UUID, data []byte) error {
	if h.publishFn == nil {
		return nil
	}

	event := userEventMessage{
		UserID:           userID.String(),
		Payload:          data,
		SenderInstanceID: h.instanceID,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return h.publishFn(h.ctx, userEventsChannel, payload)
}
