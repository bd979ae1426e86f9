package runtime

// signer.go – the tagged-variant signing backend dispatcher of
// valence-runtime/src/security/signing.rs's SigningBackend/SigningService
// pair, translated from an async trait into a Go interface. Only
// LocalKeypairSigner does real cryptography (secp256k1/ECDSA, the same
// primitive core/compliance.go already uses for KYC signatures); the
// remaining backends are out-of-process integrations with no reference
// implementation in the example pack, so each is a thin stub that reports
// itself honestly as unavailable rather than pretending to sign.

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SigningBackend tags the concrete signer behind a Signer.
type SigningBackend string

const (
	BackendLocalKeypair       SigningBackend = "LocalKeypair"
	BackendHSM                SigningBackend = "HSM"
	BackendHardwareWallet     SigningBackend = "HardwareWallet"
	BackendMPC                SigningBackend = "MPC"
	BackendRemoteSigner       SigningBackend = "RemoteSigner"
	BackendThresholdSignature SigningBackend = "ThresholdSignature"
)

// RiskLevel is the risk assessment attached to a signing request, used by
// backends that gate on policy.
type RiskLevel uint8

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

// SigningRequest carries the message to sign plus the operational context a
// policy-aware backend may condition on.
type SigningRequest struct {
	RequestID       string
	Message         []byte
	RequiredSigners []string
	Operation       string
	Risk            RiskLevel
}

// SigningResult is the tagged-variant outcome of a sign attempt.
type SigningResult struct {
	Signed            bool
	Signature         []byte
	Rejected          bool
	RejectReason      string
	PendingApprovalID string
}

// ErrSignerUnavailable is returned by backends with no wired implementation
// in this deployment.
var ErrSignerUnavailable = errors.New("runtime: signing backend not available")

// Signer is the common operation set every signing backend implements.
type Signer interface {
	Backend() SigningBackend
	HasSigner(pubkey string) bool
	Sign(req SigningRequest) (SigningResult, error)
}

// LocalKeypairSigner signs with an in-process secp256k1 key. This is the
// only backend with a concrete cryptographic implementation; every other
// backend in this package delegates to an external system this module does
// not reach into.
type LocalKeypairSigner struct {
	priv *secp256k1.PrivateKey
}

// NewLocalKeypairSigner generates a fresh secp256k1 keypair.
func NewLocalKeypairSigner() (*LocalKeypairSigner, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &LocalKeypairSigner{priv: priv}, nil
}

// LoadLocalKeypairSigner wraps an existing 32-byte secp256k1 private key.
func LoadLocalKeypairSigner(keyBytes []byte) (*LocalKeypairSigner, error) {
	priv := secp256k1.PrivKeyFromBytes(keyBytes)
	if priv == nil {
		return nil, errors.New("runtime: invalid private key bytes")
	}
	return &LocalKeypairSigner{priv: priv}, nil
}

func (s *LocalKeypairSigner) Backend() SigningBackend { return BackendLocalKeypair }

// PublicKeyHex returns the signer's compressed public key, hex-free (raw
// bytes callers may hex-encode themselves).
func (s *LocalKeypairSigner) PublicKeyBytes() []byte {
	return s.priv.PubKey().SerializeCompressed()
}

func (s *LocalKeypairSigner) HasSigner(pubkey string) bool {
	return pubkey == string(s.PublicKeyBytes())
}

// Sign produces a deterministic-nonce-free ECDSA signature over
// sha256(message) as a 64-byte (r || s) blob, matching the encoding
// Groth16Verifier expects on the verification side.
func (s *LocalKeypairSigner) Sign(req SigningRequest) (SigningResult, error) {
	hash := sha256.Sum256(req.Message)
	sig, err := signRaw(s.priv.ToECDSA(), hash[:])
	if err != nil {
		return SigningResult{}, err
	}
	return SigningResult{Signed: true, Signature: sig}, nil
}

func signRaw(priv *ecdsa.PrivateKey, hash []byte) ([]byte, error) {
	r, s, err := ecdsa.Sign(rand.Reader, priv, hash)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 64)
	rb := r.Bytes()
	sb := s.Bytes()
	copy(out[32-len(rb):32], rb)
	copy(out[64-len(sb):64], sb)
	return out, nil
}

// stubSigner is the shared shape for every backend this module does not
// implement directly: it reports its identity and available signers
// honestly, and fails Sign with ErrSignerUnavailable rather than silently
// no-op-signing.
type stubSigner struct {
	backend SigningBackend
}

func (s stubSigner) Backend() SigningBackend        { return s.backend }
func (s stubSigner) HasSigner(pubkey string) bool    { return false }
func (s stubSigner) Sign(req SigningRequest) (SigningResult, error) {
	return SigningResult{Rejected: true, RejectReason: "backend not wired in this deployment"}, ErrSignerUnavailable
}

// NewHSMSigner, NewHardwareWalletSigner, NewMPCSigner, NewRemoteSigner, and
// NewThresholdSignatureSigner construct stand-in signers for the remaining
// SigningBackend variants. A real deployment replaces each with a client
// for the corresponding external signing system; the kernel only needs the
// Signer contract to stay stable across that swap.
func NewHSMSigner() Signer                { return stubSigner{backend: BackendHSM} }
func NewHardwareWalletSigner() Signer      { return stubSigner{backend: BackendHardwareWallet} }
func NewMPCSigner() Signer                 { return stubSigner{backend: BackendMPC} }
func NewRemoteSigner() Signer              { return stubSigner{backend: BackendRemoteSigner} }
func NewThresholdSignatureSigner() Signer  { return stubSigner{backend: BackendThresholdSignature} }
