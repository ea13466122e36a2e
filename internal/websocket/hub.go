package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"dhcp-admin-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type Hub struct {
	// Registered clients map: WorkspaceID -> List of Clients (multi-tab)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
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
			h.clients[client.WorkspaceID] = append(h.clients[client.WorkspaceID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"workspace_id": client.WorkspaceID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.WorkspaceID]; ok {
				for i, c := range clients {
					if c == client {
						// Remove from slice
						h.clients[client.WorkspaceID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.WorkspaceID]) == 0 {
					delete(h.clients, client.WorkspaceID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"workspace_id": client.WorkspaceID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastMirror pushes a live field edit to every tab attached to the
// workspace, so a change typed in one tab shows up in the others.
func (h *Hub) BroadcastMirror(workspaceID, field, value string) {
	h.send(workspaceID, map[string]interface{}{
		"type": "mirror",
		"data": map[string]string{"field": field, "value": value},
	})
}

// BroadcastRefresh tells attached tabs to re-pull the workspace view
// after a save, delete, or endpoint switch landed.
func (h *Hub) BroadcastRefresh(workspaceID string, reason string) {
	h.send(workspaceID, map[string]interface{}{
		"type": "refresh",
		"data": map[string]string{"reason": reason},
	})
}

func (h *Hub) send(workspaceID string, envelope map[string]interface{}) {
	// 1. Serialize
	data, _ := json.Marshal(envelope)

	// 2. Check locally
	h.mu.RLock()
	clients, localFound := h.clients[workspaceID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"workspace_id": workspaceID})
				close(client.Send)
				h.unregister <- client
			}
		}
	}

	// 3. Publish to Redis for other instances
	// (Always publish for multi-tab support)
	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_workspace_id": workspaceID,
			"message":             data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "workspace_events", jsonPayload)
	}
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to "workspace_events".
	// When a message arrives, check if we hold the workspace locally. If yes, send.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "workspace_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetWorkspaceID string          `json:"target_workspace_id"`
			Message           json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		// Check local
		h.mu.RLock()
		clients, ok := h.clients[payload.TargetWorkspaceID]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- payload.Message:
				default:
					close(client.Send)
					h.unregister <- client
				}
			}
		}
	}
}
