package service

import "testing"

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	t.Parallel()

	bus := NewNotificationBus()

	var order []string
	bus.Subscribe(func(event Event, payload any) {
		order = append(order, "first")
	})
	bus.Subscribe(func(event Event, payload any) {
		order = append(order, "second")
	})

	bus.Publish(EventStatusChanged, nil)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected delivery in subscription order, got %v", order)
	}
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	bus := NewNotificationBus()

	calls := 0
	unsubscribe := bus.Subscribe(func(event Event, payload any) {
		calls++
	})

	bus.Publish(EventStatusChanged, nil)
	unsubscribe()
	bus.Publish(EventStatusChanged, nil)

	if calls != 1 {
		t.Errorf("expected 1 delivery, got %d", calls)
	}
}

func TestBus_PanickingSubscriberDoesNotBreakDelivery(t *testing.T) {
	t.Parallel()

	bus := NewNotificationBus()

	bus.Subscribe(func(event Event, payload any) {
		panic("subscriber bug")
	})
	delivered := false
	bus.Subscribe(func(event Event, payload any) {
		delivered = true
	})

	bus.Publish(EventPositionUpdate, nil)

	if !delivered {
		t.Error("expected delivery to continue past panicking subscriber")
	}
}

func TestBus_PayloadReachesSubscriber(t *testing.T) {
	t.Parallel()

	bus := NewNotificationBus()

	var got any
	bus.Subscribe(func(event Event, payload any) {
		if event == EventStageChanged {
			got = payload
		}
	})

	want := StagePayload{Stage: 2, Phase: "loading", Message: "Loading your items"}
	bus.Publish(EventStageChanged, want)

	payload, ok := got.(StagePayload)
	if !ok {
		t.Fatalf("expected StagePayload, got %T", got)
	}
	if payload != want {
		t.Errorf("expected %+v, got %+v", want, payload)
	}
}
