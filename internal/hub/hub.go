package hub

import (
	"encoding/json"
	"sync"

	"connect3/backend/internal/observability"

	"go.uber.org/zap"
)

// EventPostCreated is sent to every viewer in range of a new post.
const EventPostCreated = "post_created"

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Client is one open feed stream. The SSE handler reads encoded events from it.
type Client chan []byte

// NewClient returns a Client buffering up to size events.
func NewClient(size int) Client {
	return make(Client, size)
}

// Hub tracks the open feed streams of each user.
type Hub struct {
	users   map[string]map[Client]bool
	mu      sync.RWMutex
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(logger *zap.Logger, metrics *observability.Metrics) *Hub {
	return &Hub{
		users:   make(map[string]map[Client]bool),
		logger:  logger,
		metrics: metrics,
	}
}

// Subscribe registers client as a stream of userID.
func (h *Hub) Subscribe(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[Client]bool)
	}
	h.users[userID][client] = true
	h.metrics.SubscriberAdded()
}

// Unsubscribe removes client and closes it so the SSE handler stops.
func (h *Hub) Unsubscribe(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.users[userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client)
	h.metrics.SubscriberRemoved()
	if len(clients) == 0 {
		delete(h.users, userID)
	}
}

// Subscribers returns the number of open streams of userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// HasSubscribers reports whether any stream is open.
func (h *Hub) HasSubscribers() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users) > 0
}

// Publish sends event to every stream of the given users. Full client buffers
// drop the event rather than block the publisher.
func (h *Hub) Publish(userIDs []string, event Event) {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode hub event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for _, id := range userIDs {
		for client := range h.users[id] {
			select {
			case client <- messageBytes:
			default:
				dropped++
			}
		}
	}
	if dropped > 0 {
		h.logger.Warn("dropped hub event for slow clients",
			zap.String("type", event.Type), zap.Int("dropped", dropped))
	}
}

// Close ends every open stream. Used on shutdown, since SSE requests would
// otherwise hold the server open until their clients leave.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.users {
		for client := range clients {
			close(client)
			h.metrics.SubscriberRemoved()
		}
		delete(h.users, userID)
	}
}
