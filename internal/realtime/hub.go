package realtime

import (
	"encoding/json"
	"sync"
	"time"
)

// TopicRates is the topic rate-change events are published on.
const TopicRates = "rates"

// EventRatesUpdated is sent whenever a quoted rate changes.
const EventRatesUpdated = "rates.updated"

// Event is the message pushed to subscribers.
type Event struct {
	Type string    `json:"type"`
	Code string    `json:"code,omitempty"`
	Rate float64   `json:"rate"`
	At   time.Time `json:"at"`
}

// Client represents a single subscriber connection.
// The actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub keeps subscribers per topic and fans messages out to them.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[Client]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[Client]struct{})}
}

// Register adds a client under a topic.
func (h *Hub) Register(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[Client]struct{})
	}
	h.topics[topic][client] = struct{}{}
}

// Unregister removes a client; empty topics are dropped.
func (h *Hub) Unregister(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.topics[topic]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Subscribers counts the clients of a topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Broadcast sends message to every client of topic and returns how many
// accepted it. Failed clients are cleaned up by their own handler.
func (h *Hub) Broadcast(topic string, message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for c := range h.topics[topic] {
		if c.Send(message) {
			delivered++
		}
	}
	return delivered
}

// Publish encodes ev and broadcasts it on topic.
func (h *Hub) Publish(topic string, ev Event) (int, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return 0, err
	}
	return h.Broadcast(topic, data), nil
}
