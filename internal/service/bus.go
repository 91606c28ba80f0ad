package service

import (
	"log"
	"sync"
)

// Event names delivered on the NotificationBus.
type Event string

const (
	EventStatusChanged   Event = "statusChanged"
	EventTrackingStarted Event = "tracking_started"
	EventTrackingStopped Event = "tracking_stopped"
	EventPositionUpdate  Event = "position_update"
	EventStageChanged    Event = "stage_changed"
	EventJourneyComplete Event = "journey_complete"
	EventTrackingError   Event = "tracking_error"
)

// Subscriber receives published events. Callbacks run synchronously on the
// publisher's goroutine, in subscription order.
type Subscriber func(event Event, payload any)

// NotificationBus is the fan-out between the core and its presentation
// collaborators. Delivery is synchronous and ordered; a panicking subscriber
// is logged and skipped, it never breaks delivery to the rest.
type NotificationBus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn Subscriber
}

// NewNotificationBus creates an empty bus.
func NewNotificationBus() *NotificationBus {
	return &NotificationBus{}
}

// Subscribe registers fn and returns a function that removes it again.
func (b *NotificationBus) Subscribe(fn Subscriber) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers event to every subscriber before returning.
func (b *NotificationBus) Publish(event Event, payload any) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		deliver(s.fn, event, payload)
	}
}

func deliver(fn Subscriber, event Event, payload any) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[BUS] subscriber panic on %s: %v", event, r)
		}
	}()
	fn(event, payload)
}
