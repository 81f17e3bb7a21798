package feed

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mentorlink/internal/logging"
)

// Scope decides which events a subscription receives. It is fixed when the
// subscription is created: students see their own documents, mentors the
// documents of the students assigned to them at subscribe time, admins
// everything.
type Scope struct {
	all      bool
	ownerIDs map[string]struct{}
}

// ScopeAll returns the unrestricted scope.
func ScopeAll() Scope {
	return Scope{all: true}
}

// ScopeOwners returns a scope restricted to documents owned by the given users.
func ScopeOwners(ownerIDs ...string) Scope {
	ids := make(map[string]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		ids[id] = struct{}{}
	}
	return Scope{ownerIDs: ids}
}

// Allows reports whether events for the given owner pass this scope.
func (s Scope) Allows(ownerID string) bool {
	if s.all {
		return true
	}
	_, ok := s.ownerIDs[ownerID]
	return ok
}

// Subscription is one consumer's handle on the feed. Events arrive on a
// buffered channel; when the consumer falls behind, new events are dropped
// rather than blocking the fan-out.
type Subscription struct {
	id     string
	scope  Scope
	events chan Event
	hub    *Hub
	once   sync.Once
}

// Events returns the channel the subscription's events arrive on. The channel
// is closed when the subscription or the hub shuts down.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close detaches the subscription and closes its channel. It is idempotent
// and safe to call concurrently with event delivery; after it returns no
// further events are delivered.
func (s *Subscription) Close() {
	s.once.Do(func() {
		if s.hub.unsubscribe(s.id) {
			s.hub.metrics.subscribers.Dec()
			close(s.events)
		}
	})
}

// Hub fans events out to the current subscriptions. Delivery is non-blocking;
// a full subscriber buffer drops the event and counts the drop.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	closed bool

	buffer  int
	log     *logging.Logger
	metrics *Metrics
}

// NewHub creates a hub whose subscriptions buffer up to buffer events each.
func NewHub(buffer int, log *logging.Logger, metrics *Metrics) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:    make(map[string]*Subscription),
		buffer:  buffer,
		log:     log,
		metrics: metrics,
	}
}

// Subscribe registers a new subscription with the given scope. Subscribing
// to a closed hub returns a subscription whose channel is already closed.
func (h *Hub) Subscribe(scope Scope) *Subscription {
	sub := &Subscription{
		id:     uuid.New().String(),
		scope:  scope,
		events: make(chan Event, h.buffer),
		hub:    h,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.events)
		return sub
	}
	h.subs[sub.id] = sub
	h.mu.Unlock()

	h.metrics.subscribers.Inc()
	return sub
}

// Publish delivers the event to every subscription whose scope allows it.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if !sub.scope.Allows(ev.OwnerID) {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			h.metrics.droppedEvents.Inc()
			h.log.Warn(context.Background(), "dropping feed event for slow subscriber",
				zap.String("subscription_id", sub.id),
				zap.String("document_id", ev.ID),
			)
		}
	}
}

// Len returns the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close shuts the hub down and closes every subscription channel. Events
// published after Close are discarded.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := h.subs
	h.subs = make(map[string]*Subscription)
	h.mu.Unlock()

	for _, sub := range subs {
		h.metrics.subscribers.Dec()
		close(sub.events)
	}
}

// unsubscribe removes the subscription and reports whether it was still
// registered. Channel closing is left to the caller that won the removal, so
// a send and a close can never race.
func (h *Hub) unsubscribe(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[id]; !ok {
		return false
	}
	delete(h.subs, id)
	return true
}
