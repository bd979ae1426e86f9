package runtime

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

func TestLocalKeypairSignerSignAndVerify(t *testing.T) {
	signer, err := NewLocalKeypairSigner()
	if err != nil {
		t.Fatalf("NewLocalKeypairSigner: %v", err)
	}
	if signer.Backend() != BackendLocalKeypair {
		t.Fatalf("Backend() = %v, want BackendLocalKeypair", signer.Backend())
	}

	msg := []byte("batch-execute-payload")
	res, err := signer.Sign(SigningRequest{Message: msg})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !res.Signed || len(res.Signature) != 64 {
		t.Fatalf("unexpected signing result: %+v", res)
	}

	pub, err := secp256k1.ParsePubKey(signer.PublicKeyBytes())
	if err != nil {
		t.Fatalf("ParsePubKey: %v", err)
	}
	hash := sha256.Sum256(msg)
	r := new(big.Int).SetBytes(res.Signature[:32])
	s := new(big.Int).SetBytes(res.Signature[32:])
	if !ecdsa.Verify(pub.ToECDSA(), hash[:], r, s) {
		t.Fatalf("signature failed to verify against the signer's own public key")
	}
}

func TestLocalKeypairSignerHasSigner(t *testing.T) {
	signer, err := NewLocalKeypairSigner()
	if err != nil {
		t.Fatalf("NewLocalKeypairSigner: %v", err)
	}
	if !signer.HasSigner(string(signer.PublicKeyBytes())) {
		t.Fatalf("HasSigner should report true for its own public key")
	}
	if signer.HasSigner("not-a-key") {
		t.Fatalf("HasSigner should report false for an unrelated key")
	}
}

func TestLoadLocalKeypairSignerRoundTrip(t *testing.T) {
	original, err := NewLocalKeypairSigner()
	if err != nil {
		t.Fatalf("NewLocalKeypairSigner: %v", err)
	}
	keyBytes := original.priv.Serialize()

	loaded, err := LoadLocalKeypairSigner(keyBytes)
	if err != nil {
		t.Fatalf("LoadLocalKeypairSigner: %v", err)
	}
	if string(loaded.PublicKeyBytes()) != string(original.PublicKeyBytes()) {
		t.Fatalf("loaded signer public key does not match original")
	}
}

func TestStubSignersReportUnavailable(t *testing.T) {
	backends := []Signer{
		NewHSMSigner(),
		NewHardwareWalletSigner(),
		NewMPCSigner(),
		NewRemoteSigner(),
		NewThresholdSignatureSigner(),
	}
	for _, s := range backends {
		if s.HasSigner("anything") {
			t.Fatalf("%v: stub signer should never report having a signer", s.Backend())
		}
		res, err := s.Sign(SigningRequest{Message: []byte("x")})
		if err != ErrSignerUnavailable {
			t.Fatalf("%v: Sign() error = %v, want ErrSignerUnavailable", s.Backend(), err)
		}
		if !res.Rejected {
			t.Fatalf("%v: expected Rejected=true in the signing result", s.Backend())
		}
	}
}
