package runtime

import "testing"

func TestEventBusPublishDeliversToSubscriber(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	bus.Publish(Event{Kind: EventFlowStarted, FlowID: "flow-1"})

	select {
	case got := <-sub.C():
		ev, ok := got.(Event)
		if !ok {
			t.Fatalf("expected an Event, got %T", got)
		}
		if ev.FlowID != "flow-1" {
			t.Fatalf("FlowID = %q, want flow-1", ev.FlowID)
		}
	default:
		t.Fatalf("expected an event to be delivered")
	}
}

func TestEventBusFanOutToMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	a := bus.Subscribe()
	b := bus.Subscribe()
	defer a.Unsubscribe()
	defer b.Unsubscribe()

	bus.Publish(Event{Kind: EventWarning, Message: "hello"})

	for _, sub := range []*Subscription{a, b} {
		select {
		case got := <-sub.C():
			ev := got.(Event)
			if ev.Message != "hello" {
				t.Fatalf("Message = %q, want hello", ev.Message)
			}
		default:
			t.Fatalf("expected every subscriber to receive the event")
		}
	}
}

func TestEventBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe()
	sub.Unsubscribe()

	_, ok := <-sub.C()
	if ok {
		t.Fatalf("expected channel to be closed after Unsubscribe")
	}

	// Publishing after Unsubscribe must not panic.
	bus.Publish(Event{Kind: EventWarning})
}

func TestEventBusPublishSignalsLaggedWhenFull(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	for i := 0; i < BusCapacity; i++ {
		bus.Publish(Event{Kind: EventStateUpdate, Slot: uint64(i)})
	}
	// The channel is now full; one more publish should produce a Lagged
	// signal rather than blocking.
	bus.Publish(Event{Kind: EventStateUpdate, Slot: 99999})

	drained := 0
	var sawLagged bool
	for drained < BusCapacity {
		v := <-sub.C()
		if _, ok := v.(Lagged); ok {
			sawLagged = true
		}
		drained++
	}
	if !sawLagged {
		t.Fatalf("expected a Lagged signal once the subscriber channel filled up")
	}
}

// TestEventBusStalledSubscriberGetsAccumulatingLagThenNewestEvents models
// scenario S6: a subscriber with a buffer of 4 is stalled (never drained)
// while 10 StateUpdate events are published. On resume it must see a single
// Lagged(n) with n >= 6, immediately followed by the most recently published
// events in order — never the stalest ones the plain-FIFO bug used to hand
// back, and never a count stuck at 1 regardless of how much was dropped.
func TestEventBusStalledSubscriberGetsAccumulatingLagThenNewestEvents(t *testing.T) {
	bus := NewEventBusWithCapacity(4)
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	const total = 10
	for i := 0; i < total; i++ {
		bus.Publish(Event{Kind: EventStateUpdate, Slot: uint64(i)})
	}

	first := <-sub.C()
	lagged, ok := first.(Lagged)
	if !ok {
		t.Fatalf("expected the first drained value to be Lagged, got %T", first)
	}
	if lagged.N < 6 {
		t.Fatalf("Lagged.N = %d, want >= 6", lagged.N)
	}

	var gotSlots []uint64
	for {
		select {
		case v := <-sub.C():
			ev, ok := v.(Event)
			if !ok {
				t.Fatalf("expected only Events after the Lagged marker, got %T", v)
			}
			gotSlots = append(gotSlots, ev.Slot)
		default:
			goto drained
		}
	}
drained:
	wantCount := total - int(lagged.N)
	if len(gotSlots) != wantCount {
		t.Fatalf("retained %d events, want %d (total %d - dropped %d)", len(gotSlots), wantCount, total, lagged.N)
	}
	for i, slot := range gotSlots {
		wantSlot := uint64(total - wantCount + i)
		if slot != wantSlot {
			t.Fatalf("retained event[%d].Slot = %d, want %d (events must resume from the newest, in order)", i, slot, wantSlot)
		}
	}
}

// TestEventBusCapacityWiredFromConfiguredBroadcastBuffer exercises
// NewEventBusWithCapacity directly, confirming a subscriber's channel really
// is bounded by the requested capacity rather than the package default.
func TestEventBusCapacityWiredFromConfiguredBroadcastBuffer(t *testing.T) {
	bus := NewEventBusWithCapacity(2)
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	if cap(sub.sub.ch) != 2 {
		t.Fatalf("subscriber channel capacity = %d, want 2", cap(sub.sub.ch))
	}
}

// TestEventBusCapacityDefaultsWhenNonPositive guards NewEventBusWithCapacity's
// fallback to BusCapacity for a zero or negative request.
func TestEventBusCapacityDefaultsWhenNonPositive(t *testing.T) {
	bus := NewEventBusWithCapacity(0)
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	if cap(sub.sub.ch) != BusCapacity {
		t.Fatalf("subscriber channel capacity = %d, want default %d", cap(sub.sub.ch), BusCapacity)
	}
}

func TestEventBusCloseUnsubscribesEveryone(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe()
	bus.Close()

	_, ok := <-sub.C()
	if ok {
		t.Fatalf("expected channel closed after bus Close")
	}
}
