// Package watch fans change notifications out to live subscribers of a trip.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/tripwiser/internal/metrics"
)

// bufferSize is the number of undelivered events a subscription holds
// before new ones are dropped.
const bufferSize = 16

// Entities carried by events.
const (
	EntityTrip        = "trip"
	EntityMember      = "member"
	EntitySchedule    = "schedule"
	EntityTransaction = "transaction"
)

// Event is a change notification for one document of a trip.
type Event struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
	TripID string `json:"tripId"`
}

// NewEvent creates an Event with the Type field derived from entity and action.
func NewEvent(tripID, entity, action, id string) Event {
	return Event{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
		TripID: tripID,
	}
}

// Broker keeps the active subscriptions per trip.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	closed bool

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewBroker creates a Broker. m may be nil.
func NewBroker(logger *slog.Logger, m *metrics.Metrics) *Broker {
	return &Broker{
		subs:    make(map[string]map[*Subscription]struct{}),
		logger:  logger.With("component", "watch"),
		metrics: m,
	}
}

// Subscribe registers a subscription to tripID's events. It is released by
// Close, when ctx is done, or when the broker shuts down; its channel is
// closed at that point.
func (b *Broker) Subscribe(ctx context.Context, tripID string) *Subscription {
	s := &Subscription{
		broker: b,
		tripID: tripID,
		ch:     make(chan Event, bufferSize),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		s.once.Do(func() { close(s.ch) })
		return s
	}
	if b.subs[tripID] == nil {
		b.subs[tripID] = make(map[*Subscription]struct{})
	}
	b.subs[tripID][s] = struct{}{}
	s.stop = context.AfterFunc(ctx, s.Close)
	b.mu.Unlock()

	b.metrics.SubscriptionOpened()
	b.logger.Debug("Subscription opened", "trip_id", tripID)
	return s
}

// Publish delivers ev to every subscriber of ev.TripID without blocking.
func (b *Broker) Publish(ev Event) {
	b.metrics.EventPublished(ev.Entity)

	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs[ev.TripID] {
		select {
		case s.ch <- ev:
		default:
			// Subscriber buffer full; it recomputes on the next event it gets.
			b.logger.Warn("Dropping event for slow subscriber", "trip_id", ev.TripID, "type", ev.Type)
		}
	}
}

// SubscriberCount returns the number of subscriptions to tripID.
func (b *Broker) SubscriberCount(tripID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[tripID])
}

// Close releases every subscription. Later subscriptions start closed.
func (b *Broker) Close() {
	b.mu.Lock()
	b.closed = true
	var all []*Subscription
	for _, set := range b.subs {
		for s := range set {
			all = append(all, s)
		}
	}
	b.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}

// remove unregisters s and closes its channel. It reports whether s was
// still registered.
func (b *Broker) remove(s *Subscription) bool {
	b.mu.Lock()
	set := b.subs[s.tripID]
	if _, ok := set[s]; !ok {
		b.mu.Unlock()
		return false
	}
	delete(set, s)
	if len(set) == 0 {
		delete(b.subs, s.tripID)
	}
	close(s.ch)
	stop := s.stop
	b.mu.Unlock()

	stop()
	return true
}

// Subscription receives the events of one trip.
type Subscription struct {
	broker *Broker
	tripID string
	ch     chan Event
	once   sync.Once
	stop   func() bool
}

// C returns the event channel. It is closed once the subscription ends.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Close ends the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		if s.broker.remove(s) {
			s.broker.metrics.SubscriptionClosed()
			s.broker.logger.Debug("Subscription closed", "trip_id", s.tripID)
		}
	})
}
