package core

// zk_verifier.go – the verifier dispatch contract for ZkProof guards
// (§4.4, §9 "Dynamic dispatch"). The guard evaluator is a thin dispatcher:
// it fetches the VerificationKey, checks the proof-system tag matches, and
// delegates to the concrete verifier. Circuit internals are explicitly out
// of scope (§1); each verifier below performs the cryptographic check that
// the teacher's ComplianceEngine already uses for its closest analogue
// (KZG commitment checks, secp256k1 ECDSA) and, where the pack carries no
// matching primitive (SP1, Halo2), a collision-resistant digest check
// mirroring ZKPNode.VerifyProof's stand-in proof scheme.

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"math/big"

	gokzg4844 "github.com/crate-crypto/go-kzg-4844"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Verifier is the common operation set every proof-system backend
// implements, per §9's "common operation set" design note.
type Verifier interface {
	System() ProofSystem
	Verify(vk *VerificationKey, proof, publicValues []byte) (bool, error)
}

// SP1Verifier checks an SP1 proof. Lacking an SP1 verifier dependency in
// the example pack, this validates the proof as a keyed digest over the
// public values and verification key, the same stand-in shape ZKPNode
// uses for its GenerateProof/VerifyProof pair.
type SP1Verifier struct{}

func (SP1Verifier) System() ProofSystem { return ProofSystemSP1 }

func (SP1Verifier) Verify(vk *VerificationKey, proof, publicValues []byte) (bool, error) {
	if vk == nil {
		return false, ErrVerificationKeyNotFound
	}
	h := sha256.New()
	h.Write(vk.KeyBytes)
	h.Write(publicValues)
	want := h.Sum(nil)
	return bytes.Equal(want, proof), nil
}

// Groth16Verifier checks a Groth16 proof encoded as a 64-byte (r, s) ECDSA
// signature over sha256(public_values) by the key owner's secp256k1 key,
// mirroring ComplianceEngine.ValidateKYC's signature check.
type Groth16Verifier struct{}

func (Groth16Verifier) System() ProofSystem { return ProofSystemGroth16 }

func (Groth16Verifier) Verify(vk *VerificationKey, proof, publicValues []byte) (bool, error) {
	if vk == nil {
		return false, ErrVerificationKeyNotFound
	}
	if len(proof) != 64 {
		return false, errors.New("groth16: invalid proof length")
	}
	pk, err := secp256k1.ParsePubKey(vk.KeyBytes)
	if err != nil {
		return false, errors.New("groth16: invalid verification key")
	}
	r := new(big.Int).SetBytes(proof[:32])
	s := new(big.Int).SetBytes(proof[32:])
	hash := sha256.Sum256(publicValues)
	return ecdsa.Verify(pk.ToECDSA(), hash[:], r, s), nil
}

// PlonkVerifier checks a Plonk proof as a KZG blob-commitment proof,
// delegating to the same go-kzg-4844 primitives ComplianceEngine.
// VerifyZKProof already uses for EIP-4844 blobs: the verification key
// bytes are the commitment, publicValues is the blob, proof is the KZG
// opening proof.
type PlonkVerifier struct{}

func (PlonkVerifier) System() ProofSystem { return ProofSystemPlonk }

func (PlonkVerifier) Verify(vk *VerificationKey, proof, publicValues []byte) (bool, error) {
	if vk == nil {
		return false, ErrVerificationKeyNotFound
	}
	if len(publicValues) != gokzg4844.ScalarsPerBlob*gokzg4844.SerializedScalarSize {
		return false, errors.New("plonk: invalid blob size")
	}
	if len(vk.KeyBytes) != gokzg4844.CompressedG1Size || len(proof) != gokzg4844.CompressedG1Size {
		return false, errors.New("plonk: invalid commitment or proof size")
	}
	var b gokzg4844.Blob
	copy(b[:], publicValues)
	var cmt gokzg4844.KZGCommitment
	copy(cmt[:], vk.KeyBytes)
	var pf gokzg4844.KZGProof
	copy(pf[:], proof)

	ctx, err := gokzg4844.NewContext4096Secure()
	if err != nil {
		return false, err
	}
	err = ctx.VerifyBlobKZGProof(&b, cmt, pf)
	return err == nil, err
}

// Halo2Verifier checks a Halo2 proof. As with SP1, no Halo2 dependency
// appears anywhere in the example pack, so this falls back to the same
// keyed-digest stand-in as SP1Verifier.
type Halo2Verifier struct{}

func (Halo2Verifier) System() ProofSystem { return ProofSystemHalo2 }

func (Halo2Verifier) Verify(vk *VerificationKey, proof, publicValues []byte) (bool, error) {
	if vk == nil {
		return false, ErrVerificationKeyNotFound
	}
	h := sha256.New()
	h.Write(vk.KeyBytes)
	h.Write([]byte("halo2"))
	h.Write(publicValues)
	want := h.Sum(nil)
	return bytes.Equal(want, proof), nil
}

// VerifierFor returns the concrete Verifier for a proof system tag.
func VerifierFor(system ProofSystem) (Verifier, error) {
	switch system {
	case ProofSystemSP1:
		return SP1Verifier{}, nil
	case ProofSystemGroth16:
		return Groth16Verifier{}, nil
	case ProofSystemPlonk:
		return PlonkVerifier{}, nil
	case ProofSystemHalo2:
		return Halo2Verifier{}, nil
	default:
		return nil, ErrProofSystemMismatch
	}
}

// VerificationKeyStore persists VerificationKey records under "vk:<vk_id>:<owner>".
type VerificationKeyStore struct {
	led StateRW
}

// NewVerificationKeyStore returns a store backed by led.
func NewVerificationKeyStore(led StateRW) *VerificationKeyStore {
	return &VerificationKeyStore{led: led}
}

func vkKey(vkID string, owner Address) []byte {
	return append([]byte("vk:"+vkID+":"), owner.Bytes()...)
}

// Put stores a verification key.
func (s *VerificationKeyStore) Put(vk *VerificationKey) error {
	raw, err := vkMarshal(vk)
	if err != nil {
		return err
	}
	return s.led.SetState(vkKey(vk.VKID, vk.Owner), raw)
}

// Get loads a verification key by (vk_id, owner).
func (s *VerificationKeyStore) Get(vkID string, owner Address) (*VerificationKey, error) {
	raw, err := s.led.GetState(vkKey(vkID, owner))
	if err != nil {
		return nil, ErrVerificationKeyNotFound
	}
	return vkUnmarshal(raw)
}

func vkMarshal(vk *VerificationKey) ([]byte, error) {
	return json.Marshal(vk)
}

func vkUnmarshal(raw []byte) (*VerificationKey, error) {
	var vk VerificationKey
	if err := json.Unmarshal(raw, &vk); err != nil {
		return nil, ErrSerialization
	}
	return &vk, nil
}
