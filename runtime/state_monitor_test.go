package runtime

import (
	"context"
	"encoding/base64"
	"testing"
	"time"
)

func TestStateMonitorSubscribeUnsubscribeAccount(t *testing.T) {
	m := NewStateMonitor("ws://example.invalid", NewEventBus())
	m.SubscribeAccount("acct-1")
	m.SubscribeAccount("acct-2")

	accounts := m.snapshotAccounts()
	if len(accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(accounts))
	}

	m.UnsubscribeAccount("acct-1")
	accounts = m.snapshotAccounts()
	if len(accounts) != 1 || accounts[0] != "acct-2" {
		t.Fatalf("unexpected accounts after unsubscribe: %v", accounts)
	}
}

func TestStateMonitorHandleMessagePublishesStateUpdate(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	m := NewStateMonitor("ws://example.invalid", bus)

	payload := base64.StdEncoding.EncodeToString([]byte("account-bytes"))
	raw := []byte(`{
		"jsonrpc": "2.0",
		"method": "accountNotification",
		"params": {
			"result": {
				"context": {"slot": 42},
				"value": {
					"account": {
						"lamports": 100,
						"owner": "owner-1",
						"executable": false,
						"data": ["` + payload + `", "base64"]
					}
				}
			},
			"subscription": 1
		}
	}`)

	m.handleMessage(raw)

	select {
	case got := <-sub.C():
		ev, ok := got.(Event)
		if !ok {
			t.Fatalf("expected an Event, got %T", got)
		}
		if ev.Kind != EventStateUpdate {
			t.Fatalf("Kind = %v, want EventStateUpdate", ev.Kind)
		}
		if ev.Slot != 42 || ev.Lamports != 100 || ev.Owner != "owner-1" {
			t.Fatalf("unexpected event fields: %+v", ev)
		}
		if string(ev.Data) != "account-bytes" {
			t.Fatalf("Data = %q, want account-bytes", ev.Data)
		}
	default:
		t.Fatalf("expected handleMessage to publish a StateUpdate event")
	}
}

func TestStateMonitorHandleMessageIgnoresOtherMethods(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	m := NewStateMonitor("ws://example.invalid", bus)
	m.handleMessage([]byte(`{"jsonrpc":"2.0","method":"somethingElse","params":{}}`))

	select {
	case got := <-sub.C():
		t.Fatalf("expected no event for a non-notification method, got %#v", got)
	default:
	}
}

func TestStateMonitorHandleMessageMalformedIsIgnored(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	m := NewStateMonitor("ws://example.invalid", bus)
	m.handleMessage([]byte(`not json`))

	select {
	case got := <-sub.C():
		t.Fatalf("expected no event for malformed input, got %#v", got)
	default:
	}
}

func TestSleepBackoffReturnsFalseWhenContextAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	ok := sleepBackoff(ctx, 0)
	if ok {
		t.Fatalf("expected sleepBackoff to return false for a cancelled context")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("sleepBackoff should return promptly once the context is cancelled")
	}
}
