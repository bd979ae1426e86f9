package core

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

func TestVerifierForDispatch(t *testing.T) {
	cases := []struct {
		system ProofSystem
		want   ProofSystem
	}{
		{ProofSystemSP1, ProofSystemSP1},
		{ProofSystemGroth16, ProofSystemGroth16},
		{ProofSystemPlonk, ProofSystemPlonk},
		{ProofSystemHalo2, ProofSystemHalo2},
	}
	for _, c := range cases {
		v, err := VerifierFor(c.system)
		if err != nil {
			t.Fatalf("VerifierFor(%v): %v", c.system, err)
		}
		if v.System() != c.want {
			t.Fatalf("System() = %v, want %v", v.System(), c.want)
		}
	}
	if _, err := VerifierFor(ProofSystem(99)); err != ErrProofSystemMismatch {
		t.Fatalf("VerifierFor(unknown) = %v, want ErrProofSystemMismatch", err)
	}
}

func TestSP1VerifierRoundTrip(t *testing.T) {
	vk := &VerificationKey{VKID: "sp1-1", KeyBytes: []byte("key-material")}
	publicValues := []byte("public")

	h := sha256.New()
	h.Write(vk.KeyBytes)
	h.Write(publicValues)
	proof := h.Sum(nil)

	ok, err := (SP1Verifier{}).Verify(vk, proof, publicValues)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected valid SP1 stand-in proof to verify")
	}

	ok, err = (SP1Verifier{}).Verify(vk, []byte("garbage"), publicValues)
	if err != nil {
		t.Fatalf("Verify with bad proof: %v", err)
	}
	if ok {
		t.Fatalf("expected tampered SP1 proof to fail verification")
	}
}

func TestHalo2VerifierRoundTrip(t *testing.T) {
	vk := &VerificationKey{VKID: "halo2-1", KeyBytes: []byte("key-material")}
	publicValues := []byte("public")

	h := sha256.New()
	h.Write(vk.KeyBytes)
	h.Write([]byte("halo2"))
	h.Write(publicValues)
	proof := h.Sum(nil)

	ok, err := (Halo2Verifier{}).Verify(vk, proof, publicValues)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected valid Halo2 stand-in proof to verify")
	}
}

func TestGroth16VerifierRoundTrip(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	pub := priv.PubKey()

	publicValues := []byte("public-inputs")
	digest := sha256.Sum256(publicValues)
	r, s, err := ecdsa.Sign(rand.Reader, priv.ToECDSA(), digest[:])
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	proof := make([]byte, 64)
	rBytes := r.Bytes()
	sBytes := s.Bytes()
	copy(proof[32-len(rBytes):32], rBytes)
	copy(proof[64-len(sBytes):64], sBytes)

	vk := &VerificationKey{VKID: "groth16-1", KeyBytes: pub.SerializeCompressed()}
	ok, err := (Groth16Verifier{}).Verify(vk, proof, publicValues)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected a validly signed Groth16 stand-in proof to verify")
	}
}

func TestGroth16VerifierRejectsBadProofLength(t *testing.T) {
	vk := &VerificationKey{VKID: "groth16-2", KeyBytes: []byte{}}
	if _, err := (Groth16Verifier{}).Verify(vk, []byte("short"), []byte("x")); err == nil {
		t.Fatalf("expected error for a proof of the wrong length")
	}
}

func TestVerificationKeyStorePutAndGet(t *testing.T) {
	led := newTestLedger(t)
	store := NewVerificationKeyStore(led)

	owner := testAddress(1)
	vk := &VerificationKey{VKID: "vk-1", Owner: owner, ProofSystem: ProofSystemSP1, KeyBytes: []byte("abc")}
	if err := store.Put(vk); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get("vk-1", owner)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.VKID != vk.VKID || got.ProofSystem != vk.ProofSystem {
		t.Fatalf("unexpected loaded vk: %+v", got)
	}
}

func TestVerificationKeyStoreGetUnknown(t *testing.T) {
	led := newTestLedger(t)
	store := NewVerificationKeyStore(led)
	if _, err := store.Get("missing", testAddress(1)); err != ErrVerificationKeyNotFound {
		t.Fatalf("Get(unknown) = %v, want ErrVerificationKeyNotFound", err)
	}
}
