package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"cadastro-prestador-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "assistant_events"

// Frame is the envelope of every message written to a socket.
type Frame struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
	Code    int         `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

type Hub struct {
	// principal -> open connections (one per tab/device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// optional, fans Notify out to the other instances
	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run owns the client registry until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.PrincipalID] = append(h.clients[client.PrincipalID], client)
			h.mu.Unlock()
			h.logger.Info("HUB", "Client registered", map[string]interface{}{"provider_id": client.PrincipalID.String()})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.PrincipalID]
			for i, c := range clients {
				if c == client {
					h.clients[client.PrincipalID] = append(clients[:i], clients[i+1:]...)
					close(client.Send)
					break
				}
			}
			if len(h.clients[client.PrincipalID]) == 0 {
				delete(h.clients, client.PrincipalID)
			}
			h.mu.Unlock()
		}
	}
}

// Connected reports how many sockets the principal has open here.
func (h *Hub) Connected(principalID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[principalID])
}

// Notify pushes a frame to every socket of the principal, on this instance
// and, with Redis configured, on the others.
func (h *Hub) Notify(principalID uuid.UUID, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	h.deliver(principalID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{
			Origin:   h.instanceID,
			TargetID: principalID.String(),
			Message:  data,
		})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("HUB", "Failed to publish to cluster", map[string]interface{}{"error": err.Error()})
		}
	}
}

// deliver never blocks: a client whose buffer is full misses the frame.
func (h *Hub) deliver(principalID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[principalID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("HUB", "Client send buffer full, dropping frame", map[string]interface{}{"provider_id": principalID.String()})
		}
	}
}

type clusterMessage struct {
	Origin   string          `json:"origin"`
	TargetID string          `json:"target_id"`
	Message  json.RawMessage `json:"message"`
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("HUB", "Unparseable cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.instanceID {
			continue
		}
		id, err := uuid.Parse(payload.TargetID)
		if err != nil {
			continue
		}
		h.deliver(id, payload.Message)
	}
}

// NotifyEvent forwards a domain event to the sockets of the principal.
func (h *Hub) NotifyEvent(principalID uuid.UUID, eventType string, data map[string]interface{}) {
	h.Notify(principalID, Frame{Type: eventType, Data: data})
}
