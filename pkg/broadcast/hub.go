package broadcast

import (
	"sync"

	"github.com/dukapos/register-api/pkg/logger"
	"go.uber.org/zap"
)

// EventType identifies a register/display message.
type EventType string

// Register-to-display events
const (
	EventUpdateCart     EventType = "update_cart"
	EventPaymentStart   EventType = "payment_start"
	EventPaymentSuccess EventType = "payment_success"
	EventReset          EventType = "reset"
)

// Display-to-register events (a display requests, the register applies)
const (
	EventCustomerFound EventType = "customer_found"
	EventCustomerClear EventType = "customer_clear"
	EventSetPoints     EventType = "set_points"
)

// Event is one message on a register topic.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub is an in-process publish/subscribe channel keyed by register id.
// Delivery is fire-and-forget: FIFO per subscriber, no acks, no retries,
// no backfill. Publishing to a topic with no subscribers drops the event,
// and a subscriber whose buffer is full misses events rather than blocking
// the register.
type Hub struct {
	mu      sync.RWMutex
	topics  map[string]map[chan Event]struct{}
	bufSize int
}

// NewHub creates a hub whose subscriber channels buffer bufSize events.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 16
	}
	return &Hub{
		topics:  make(map[string]map[chan Event]struct{}),
		bufSize: bufSize,
	}
}

// Subscribe registers a listener on a register topic. The returned cancel
// function removes the subscription and closes the channel; it is safe to
// call more than once.
func (h *Hub) Subscribe(registerID string) (<-chan Event, func()) {
	ch := make(chan Event, h.bufSize)

	h.mu.Lock()
	subs, ok := h.topics[registerID]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.topics[registerID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if subs, ok := h.topics[registerID]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.topics, registerID)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish sends an event to every subscriber of a register topic without
// blocking. Events for slow subscribers are dropped.
func (h *Hub) Publish(registerID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.topics[registerID]
	if !ok {
		return
	}
	for ch := range subs {
		select {
		case ch <- event:
		default:
			logger.Log.Warn("broadcast: dropping event for slow subscriber",
				zap.String("register_id", registerID),
				zap.String("event", string(event.Type)),
			)
		}
	}
}

// Subscribers returns the number of listeners on a register topic.
func (h *Hub) Subscribers(registerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[registerID])
}
