package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-knowledge-base-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisActivityChannel carries activity frames between instances so every
// connected client sees the same stream regardless of which instance it
// landed on.
const redisActivityChannel = "cluster_events"

type Hub struct {
	// Registered clients. There are no accounts here, every connection
	// receives the full activity stream.
	clients map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Identifies this instance so mirrored frames are not replayed locally.
	origin string

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"connections": total})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"connections": total})
		}
	}
}

// Broadcast sends an activity frame to ALL connected clients, local and on
// other instances via Redis.
func (h *Hub) Broadcast(activityType string, payload map[string]interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": activityType,
		"data": payload,
	})

	h.send(data)

	if h.rdb != nil {
		envelope, _ := json.Marshal(clusterFrame{Origin: h.origin, Message: data})
		h.rdb.Publish(context.Background(), redisActivityChannel, envelope)
	}
}

// ClientCount reports how many connections are currently registered.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) send(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Slow consumer. Hand it to Run, which owns the channel close.
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", nil)
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

type clusterFrame struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisActivityChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var frame clusterFrame
		if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		// Frames published by this instance were already delivered locally.
		if frame.Origin == h.origin {
			continue
		}

		h.send(frame.Message)
	}
}
