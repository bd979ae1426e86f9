package core

// guard.go – the guard data model of §3: a tagged-variant precondition
// checked before a batch executes. Evaluation itself lives in
// guard_evaluator.go; this file holds the wire/storage shapes.

import "time"

// GuardKind tags the variant carried by a Guard.
type GuardKind uint8

const (
	GuardWhitelist GuardKind = iota
	GuardTimeWindow
	GuardZkProof
	GuardComposite
)

// CompositeOp is the boolean combinator for GuardComposite.
type CompositeOp uint8

const (
	CompositeAND CompositeOp = iota
	CompositeOR
)

// ProofSystem names the proof system a ZkProof guard is written against.
type ProofSystem uint8

const (
	ProofSystemSP1 ProofSystem = iota
	ProofSystemGroth16
	ProofSystemPlonk
	ProofSystemHalo2
)

func (p ProofSystem) String() string {
	switch p {
	case ProofSystemSP1:
		return "SP1"
	case ProofSystemGroth16:
		return "Groth16"
	case ProofSystemPlonk:
		return "Plonk"
	case ProofSystemHalo2:
		return "Halo2"
	default:
		return "unknown"
	}
}

// Guard is a tagged-variant precondition: Whitelist, TimeWindow, ZkProof, or
// Composite. Only the fields relevant to Kind are populated.
type Guard struct {
	Kind GuardKind

	// Whitelist
	AllowedSenders []Address

	// TimeWindow
	NotBefore time.Time
	NotAfter  time.Time

	// ZkProof
	VKID                      string
	ProofSystem               ProofSystem
	Proof                     []byte
	PublicValues              []byte
	RequireWhitelistedSubmitter bool

	// Composite
	Op       CompositeOp
	Children []Guard
}

// VerificationKey maps (vk_id, owner) to proof-system metadata, per §3.
type VerificationKey struct {
	VKID                string      `json:"vk_id"`
	Owner               Address     `json:"owner"`
	ProofSystem         ProofSystem `json:"proof_system"`
	KeyBytes            []byte      `json:"key_bytes"`
	WhitelistedSubmitters []Address `json:"whitelisted_submitters"`
	Admin               Address     `json:"admin"`
}

// GuardContext carries the ambient facts a guard is evaluated against
// (§4.4): the session, the submitter, and a timestamp/usage snapshot.
type GuardContext struct {
	Session        *Session
	Owner          Address
	SequenceNumber uint64
	UsageCount     uint64
	Timestamp      time.Time
	SharedDataHash Hash
	Submitter      Address
}
