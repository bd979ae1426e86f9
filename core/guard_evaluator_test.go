package core

import (
	"crypto/sha256"
	"testing"
	"time"
)

func TestEvaluateGuardWhitelist(t *testing.T) {
	allowed := testAddress(1)
	other := testAddress(2)
	g := &Guard{Kind: GuardWhitelist, AllowedSenders: []Address{allowed}}

	ok, err := EvaluateGuard(g, &GuardContext{Submitter: allowed}, nil)
	if err != nil || !ok {
		t.Fatalf("whitelisted submitter: ok=%v err=%v", ok, err)
	}

	ok, err = EvaluateGuard(g, &GuardContext{Submitter: other}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("non-whitelisted submitter should be rejected")
	}
}

func TestEvaluateGuardTimeWindow(t *testing.T) {
	now := time.Now().UTC()
	g := &Guard{Kind: GuardTimeWindow, NotBefore: now.Add(-time.Hour), NotAfter: now.Add(time.Hour)}

	ok, err := EvaluateGuard(g, &GuardContext{Timestamp: now}, nil)
	if err != nil || !ok {
		t.Fatalf("in-window timestamp should pass: ok=%v err=%v", ok, err)
	}

	ok, err = EvaluateGuard(g, &GuardContext{Timestamp: now.Add(2 * time.Hour)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("out-of-window timestamp should be rejected")
	}
}

func TestEvaluateGuardZkProof(t *testing.T) {
	led := newTestLedger(t)
	store := NewVerificationKeyStore(led)
	owner := testAddress(1)

	vk := &VerificationKey{VKID: "vk-1", Owner: owner, ProofSystem: ProofSystemSP1, KeyBytes: []byte("key")}
	if err := store.Put(vk); err != nil {
		t.Fatalf("Put: %v", err)
	}

	publicValues := []byte("public")
	h := sha256.New()
	h.Write(vk.KeyBytes)
	h.Write(publicValues)
	proof := h.Sum(nil)

	g := &Guard{Kind: GuardZkProof, VKID: "vk-1", ProofSystem: ProofSystemSP1, Proof: proof, PublicValues: publicValues}
	ctx := &GuardContext{Owner: owner}

	ok, err := EvaluateGuard(g, ctx, store)
	if err != nil {
		t.Fatalf("EvaluateGuard: %v", err)
	}
	if !ok {
		t.Fatalf("expected valid proof to verify")
	}
}

func TestEvaluateGuardZkProofMissingKey(t *testing.T) {
	led := newTestLedger(t)
	store := NewVerificationKeyStore(led)

	g := &Guard{Kind: GuardZkProof, VKID: "missing", ProofSystem: ProofSystemSP1}
	if _, err := EvaluateGuard(g, &GuardContext{}, store); err != ErrVerificationKeyNotFound {
		t.Fatalf("EvaluateGuard with missing vk = %v, want ErrVerificationKeyNotFound", err)
	}
}

func TestEvaluateGuardZkProofProofSystemMismatch(t *testing.T) {
	led := newTestLedger(t)
	store := NewVerificationKeyStore(led)
	owner := testAddress(1)
	vk := &VerificationKey{VKID: "vk-2", Owner: owner, ProofSystem: ProofSystemGroth16}
	if err := store.Put(vk); err != nil {
		t.Fatalf("Put: %v", err)
	}

	g := &Guard{Kind: GuardZkProof, VKID: "vk-2", ProofSystem: ProofSystemSP1}
	if _, err := EvaluateGuard(g, &GuardContext{Owner: owner}, store); err != ErrProofSystemMismatch {
		t.Fatalf("EvaluateGuard with mismatched proof system = %v, want ErrProofSystemMismatch", err)
	}
}

func TestEvaluateGuardCompositeAND(t *testing.T) {
	allowed := testAddress(1)
	now := time.Now().UTC()
	g := &Guard{
		Kind: GuardComposite,
		Op:   CompositeAND,
		Children: []Guard{
			{Kind: GuardWhitelist, AllowedSenders: []Address{allowed}},
			{Kind: GuardTimeWindow, NotBefore: now.Add(-time.Hour), NotAfter: now.Add(time.Hour)},
		},
	}
	ctx := &GuardContext{Submitter: allowed, Timestamp: now}
	ok, err := EvaluateGuard(g, ctx, nil)
	if err != nil || !ok {
		t.Fatalf("AND of two passing guards should pass: ok=%v err=%v", ok, err)
	}

	ctx2 := &GuardContext{Submitter: testAddress(9), Timestamp: now}
	ok, err = EvaluateGuard(g, ctx2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("AND should fail when one child fails")
	}
}

func TestEvaluateGuardCompositeOR(t *testing.T) {
	allowed := testAddress(1)
	g := &Guard{
		Kind: GuardComposite,
		Op:   CompositeOR,
		Children: []Guard{
			{Kind: GuardWhitelist, AllowedSenders: []Address{allowed}},
			{Kind: GuardWhitelist, AllowedSenders: []Address{testAddress(2)}},
		},
	}
	ctx := &GuardContext{Submitter: testAddress(2)}
	ok, err := EvaluateGuard(g, ctx, nil)
	if err != nil || !ok {
		t.Fatalf("OR should pass if any child passes: ok=%v err=%v", ok, err)
	}

	ctx2 := &GuardContext{Submitter: testAddress(99)}
	ok, err = EvaluateGuard(g, ctx2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("OR should fail when no child passes")
	}
}

func TestEvaluateGuardCompositeEmptyChildren(t *testing.T) {
	g := &Guard{Kind: GuardComposite, Op: CompositeAND}
	if _, err := EvaluateGuard(g, &GuardContext{}, nil); err != ErrGuardRejected {
		t.Fatalf("empty composite = %v, want ErrGuardRejected", err)
	}
}

func TestEvaluateGuardRecursionDepthBound(t *testing.T) {
	// Build a composite chain deeper than maxGuardDepth.
	leaf := Guard{Kind: GuardWhitelist, AllowedSenders: []Address{testAddress(1)}}
	g := leaf
	for i := 0; i < maxGuardDepth+2; i++ {
		g = Guard{Kind: GuardComposite, Op: CompositeAND, Children: []Guard{g}}
	}
	if _, err := EvaluateGuard(&g, &GuardContext{Submitter: testAddress(1)}, nil); err != ErrRecursionTooDeep {
		t.Fatalf("deeply nested composite = %v, want ErrRecursionTooDeep", err)
	}
}

func TestEvaluateGuardNilIsVacuouslyTrue(t *testing.T) {
	ok, err := EvaluateGuard(nil, &GuardContext{}, nil)
	if err != nil || !ok {
		t.Fatalf("nil guard should evaluate true: ok=%v err=%v", ok, err)
	}
}
