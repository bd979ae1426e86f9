package runtime

// state_monitor.go – subscribes to a ledger notification endpoint over a
// WebSocket JSON-RPC stream and republishes account-change notifications on
// the event bus (C8, §4.9). Reconnection uses exponential back-off with
// jitter, base 500ms, cap 30s; on every reconnect the monitor resubscribes
// to the full current account set before resuming delivery. Grounded on
// valence-runtime/src/state_monitor.rs's connect/subscribe/read loop,
// translated from tokio-tungstenite + broadcast channels into gorilla's
// websocket client plus the package's own EventBus.

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	reconnectBaseDelay = 500 * time.Millisecond
	reconnectCapDelay  = 30 * time.Second
)

type subscribeRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type wsNotification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type notificationParams struct {
	Result struct {
		Context struct {
			Slot uint64 `json:"slot"`
		} `json:"context"`
		Value struct {
			Account struct {
				Lamports   uint64   `json:"lamports"`
				Owner      string   `json:"owner"`
				Executable bool     `json:"executable"`
				Data       []string `json:"data"`
			} `json:"account"`
		} `json:"value"`
	} `json:"result"`
	Subscription uint64 `json:"subscription"`
}

// StateMonitor owns the single long-lived subscription task described in
// §4.9: one cooperative reader, a resubscribe-on-reconnect account set, and
// an EventBus it republishes StateUpdate events onto.
type StateMonitor struct {
	wsURL string
	bus   *EventBus

	mu       sync.RWMutex
	accounts map[string]struct{}

	cancel context.CancelFunc
	done   chan struct{}
}

// NewStateMonitor constructs a monitor that will dial wsURL and publish
// decoded account notifications onto bus.
func NewStateMonitor(wsURL string, bus *EventBus) *StateMonitor {
	return &StateMonitor{
		wsURL:    wsURL,
		bus:      bus,
		accounts: make(map[string]struct{}),
	}
}

// SubscribeAccount adds account to the live subscription set. If the
// monitor is already connected, call Resubscribe (or let the next
// reconnect pick it up) to push the change to the server.
func (m *StateMonitor) SubscribeAccount(account string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account] = struct{}{}
}

// UnsubscribeAccount removes account from the live subscription set.
func (m *StateMonitor) UnsubscribeAccount(account string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, account)
}

func (m *StateMonitor) snapshotAccounts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.accounts))
	for a := range m.accounts {
		out = append(out, a)
	}
	return out
}

// Start launches the monitor loop in its own goroutine; cancel it with
// Stop. Reconnection and back-off happen transparently inside the loop.
func (m *StateMonitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.run(ctx)
}

// Stop signals cancellation and waits for the loop to unwind. Per §4.9,
// subsequent Publish attempts against a stopped monitor are simply no-ops.
func (m *StateMonitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.done != nil {
		<-m.done
	}
}

func (m *StateMonitor) run(ctx context.Context) {
	defer close(m.done)
	attempt := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, m.wsURL, nil)
		if err != nil {
			m.bus.Publish(Event{Kind: EventWarning, Message: "state monitor dial failed: " + err.Error()})
			if !sleepBackoff(ctx, attempt) {
				return
			}
			attempt++
			continue
		}
		attempt = 0

		if err := m.resubscribeAll(conn); err != nil {
			m.bus.Publish(Event{Kind: EventWarning, Message: "state monitor resubscribe failed: " + err.Error()})
			conn.Close()
			if !sleepBackoff(ctx, attempt) {
				return
			}
			attempt++
			continue
		}

		if err := m.readLoop(ctx, conn); err != nil {
			m.bus.Publish(Event{Kind: EventWarning, Message: "state monitor connection lost: " + err.Error()})
		}
		conn.Close()

		select {
		case <-ctx.Done():
			return
		default:
		}
		if !sleepBackoff(ctx, attempt) {
			return
		}
		attempt++
	}
}

// resubscribeAll sends an accountSubscribe request for every account
// currently in the subscription set, per §4.9: "before each reconnect,
// resubscribe to all accounts currently in the subscription set."
func (m *StateMonitor) resubscribeAll(conn *websocket.Conn) error {
	var id uint64
	for _, account := range m.snapshotAccounts() {
		id++
		req := subscribeRequest{
			JSONRPC: "2.0",
			ID:      id,
			Method:  "accountSubscribe",
			Params: []any{
				account,
				map[string]string{"encoding": "base64", "commitment": "confirmed"},
			},
		}
		if err := conn.WriteJSON(req); err != nil {
			return err
		}
	}
	return nil
}

func (m *StateMonitor) readLoop(ctx context.Context, conn *websocket.Conn) error {
	msgs := make(chan []byte)
	errs := make(chan error, 1)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				errs <- err
				return
			}
			select {
			case msgs <- data:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			return err
		case data := <-msgs:
			m.handleMessage(data)
		}
	}
}

func (m *StateMonitor) handleMessage(raw []byte) {
	var note wsNotification
	if err := json.Unmarshal(raw, &note); err != nil {
		logrus.WithError(err).Warn("state monitor: malformed notification")
		return
	}
	if note.Method != "accountNotification" {
		return
	}
	var params notificationParams
	if err := json.Unmarshal(note.Params, &params); err != nil {
		logrus.WithError(err).Warn("state monitor: malformed account notification")
		return
	}
	var data []byte
	if len(params.Result.Value.Account.Data) > 0 {
		decoded, err := base64.StdEncoding.DecodeString(params.Result.Value.Account.Data[0])
		if err == nil {
			data = decoded
		}
	}
	m.bus.Publish(Event{
		Kind:       EventStateUpdate,
		Slot:       params.Result.Context.Slot,
		Lamports:   params.Result.Value.Account.Lamports,
		Owner:      params.Result.Value.Account.Owner,
		Executable: params.Result.Value.Account.Executable,
		Data:       data,
	})
}

// sleepBackoff sleeps for an exponential back-off delay with full jitter,
// base 500ms, cap 30s, returning false if ctx is cancelled first.
func sleepBackoff(ctx context.Context, attempt int) bool {
	if attempt > 6 {
		attempt = 6
	}
	delay := reconnectBaseDelay << uint(attempt)
	if delay <= 0 || delay > reconnectCapDelay {
		delay = reconnectCapDelay
	}
	jittered := time.Duration(rand.Int63n(int64(delay)))
	t := time.NewTimer(jittered)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
