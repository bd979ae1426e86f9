//go:build ignore
// +build ignore

package Tokens

import (
	"sync"
	"time"

	core "capkernel/core"
)

// PaymentRecord tracks a real-time payment lifecycle.
type PaymentRecord struct {
	ID        uint64
	Amount    uint64
	Currency  string
	Sender    core.Address
	Recipient core.Address
	Created   time.Time
	Settled   bool
	SettledAt time.Time
}

// SYN2200Token implements the real-time payments token standard.
type SYN2200Token struct {
	*core.BaseToken
	payments map[uint64]PaymentRecord
	payMu    sync.RWMutex
	nextID   uint64
}

// NewSYN2200Token creates a SYN2200 token bound to the given ledger.
func NewSYN2200Token(meta core.Metadata, init map[core.Address]uint64, ledger *core.Ledger, gas core.GasCalculator) (*SYN2200Token, error) {
	tok, err := (core.Factory{}).Create(meta, init)
	if err != nil {
		return nil, err
	}
	bt := tok.(*core.BaseToken)
	rtp := &SYN2200Token{
		BaseToken: bt,
		payments:  make(map[uint64]PaymentRecord),
	}
	bt.ledger = ledger
	bt.gas = gas
	core.RegisterToken(rtp)
	return rtp, nil
}

// SendPayment transfers funds instantly and records the payment.
func (t *SYN2200Token) SendPayment(from, to core.Address, amount uint64, currency string) (uint64, error) {
	if err := t.Transfer(from, to, amount); err != nil {
		return 0, err
	}
	t.payMu.Lock()
	defer t.payMu.Unlock()
	t.nextID++
	id := t.nextID
	t.payments[id] = PaymentRecord{
		ID:        id,
		Amount:    amount,
		Currency:  currency,
		Sender:    from,
		Recipient: to,
		Created:   time.Now().UTC(),
		Settled:   true,
		SettledAt: time.Now().UTC(),
	}
	return id, nil
}

// Payment returns a payment record by ID.
func (t *SYN2200Token) Payment(id uint64) (PaymentRecord, bool) {
	t.payMu.RLock()
	defer t.payMu.RUnlock()
	p, ok := t.payments[id]
	return p, ok
}
