package core

import "testing"

func TestSealKernelAuditEntryDeterministic(t *testing.T) {
	e := KernelAuditEntry{
		ID:        "evt-1",
		EventType: "BatchExecuted",
		Actor:     "owner-1",
		Operation: AuditOperation{Name: "Execute"},
		Result:    AuditSuccess,
	}
	sealed, err := SealKernelAuditEntry(e, "")
	if err != nil {
		t.Fatalf("SealKernelAuditEntry: %v", err)
	}
	if sealed.EntryHash == "" {
		t.Fatalf("expected a non-empty entry hash")
	}
	if sealed.PreviousHash != "" {
		t.Fatalf("first entry should have no previous hash, got %q", sealed.PreviousHash)
	}

	resealed, err := SealKernelAuditEntry(e, "")
	if err != nil {
		t.Fatalf("SealKernelAuditEntry (reseal): %v", err)
	}
	if resealed.EntryHash != sealed.EntryHash {
		t.Fatalf("sealing the same entry twice should be deterministic")
	}
}

func TestVerifyKernelAuditChainAcceptsValidChain(t *testing.T) {
	e1, err := SealKernelAuditEntry(KernelAuditEntry{ID: "1", EventType: "A", Result: AuditSuccess}, "")
	if err != nil {
		t.Fatalf("seal e1: %v", err)
	}
	e2, err := SealKernelAuditEntry(KernelAuditEntry{ID: "2", EventType: "B", Result: AuditSuccess}, e1.EntryHash)
	if err != nil {
		t.Fatalf("seal e2: %v", err)
	}
	e3, err := SealKernelAuditEntry(KernelAuditEntry{ID: "3", EventType: "C", Result: AuditDenied}, e2.EntryHash)
	if err != nil {
		t.Fatalf("seal e3: %v", err)
	}

	if err := VerifyKernelAuditChain([]KernelAuditEntry{e1, e2, e3}); err != nil {
		t.Fatalf("VerifyKernelAuditChain on a valid chain: %v", err)
	}
}

func TestVerifyKernelAuditChainDetectsTampering(t *testing.T) {
	e1, err := SealKernelAuditEntry(KernelAuditEntry{ID: "1", EventType: "A", Result: AuditSuccess}, "")
	if err != nil {
		t.Fatalf("seal e1: %v", err)
	}
	e2, err := SealKernelAuditEntry(KernelAuditEntry{ID: "2", EventType: "B", Result: AuditSuccess}, e1.EntryHash)
	if err != nil {
		t.Fatalf("seal e2: %v", err)
	}

	tampered := e2
	tampered.Actor = "someone-else"

	if err := VerifyKernelAuditChain([]KernelAuditEntry{e1, tampered}); err == nil {
		t.Fatalf("expected tampering to be detected")
	}
}

func TestVerifyKernelAuditChainDetectsBrokenLink(t *testing.T) {
	e1, err := SealKernelAuditEntry(KernelAuditEntry{ID: "1", EventType: "A", Result: AuditSuccess}, "")
	if err != nil {
		t.Fatalf("seal e1: %v", err)
	}
	e2, err := SealKernelAuditEntry(KernelAuditEntry{ID: "2", EventType: "B", Result: AuditSuccess}, "wrong-previous-hash")
	if err != nil {
		t.Fatalf("seal e2: %v", err)
	}

	if err := VerifyKernelAuditChain([]KernelAuditEntry{e1, e2}); err == nil {
		t.Fatalf("expected a broken chain link to be detected")
	}
}

func TestVerifyKernelAuditChainEmpty(t *testing.T) {
	if err := VerifyKernelAuditChain(nil); err != nil {
		t.Fatalf("empty chain should verify trivially: %v", err)
	}
}
