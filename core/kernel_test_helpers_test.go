package core

import "testing"

// newTestLedger returns a fresh, file-backed ledger scoped to the test's
// temp directory, the same construction tmpLedgerConfig (ledger_test.go)
// already uses for ledger-level tests.
func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	cfg, cleanup := tmpLedgerConfig(t, nil)
	t.Cleanup(cleanup)
	led, err := NewLedger(cfg)
	if err != nil {
		t.Fatalf("newTestLedger: %v", err)
	}
	return led
}

func testAddress(b byte) Address {
	var a Address
	a[len(a)-1] = b
	return a
}
