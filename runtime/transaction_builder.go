package runtime

// transaction_builder.go – assembles a compute-budget preamble and one or
// more batch-execute instructions into an unsigned transaction, simulating
// it before it is handed to a signer (C9, §4.10). The ledger-hash fetch and
// the simulate call are both JSON-RPC requests; rather than hand-roll an
// HTTP client this reuses go-ethereum's generic rpc.Client, the same
// dependency core/virtual_machine.go already pulls in for EVM-compatible
// CPI callees, against the kernel node's own JSON-RPC surface.

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"
)

// Instruction is one opaque, serialized step of a transaction message. The
// transaction builder only needs to know its byte encoding and the signer
// addresses it requires.
type Instruction struct {
	ProgramID string
	Data      []byte
	Signers   []string
}

// ComputeBudgetInstruction returns a synthetic instruction representing a
// compute-unit-limit or compute-unit-price preamble entry, per §4.10's
// `with_compute_units`/`with_priority_fee`.
func computeBudgetInstruction(kind string, value uint64) Instruction {
	return Instruction{ProgramID: "ComputeBudget111111111111111111111111111", Data: []byte(fmt.Sprintf("%s:%d", kind, value))}
}

// SimulationResult captures the outcome of simulating a built message,
// per §4.10's `build` contract.
type SimulationResult struct {
	Logs          []string `json:"logs"`
	UnitsConsumed uint64   `json:"units_consumed"`
	Err           string   `json:"err,omitempty"`
}

// UnsignedTx is the output of TransactionBuilder.Build.
type UnsignedTx struct {
	MessageBytes []byte            `json:"message_bytes"`
	RecentHash   string            `json:"recent_hash"`
	Signers      []string          `json:"signers"`
	Metadata     UnsignedTxMetadata `json:"metadata"`
}

// UnsignedTxMetadata is the descriptive metadata attached to an UnsignedTx.
type UnsignedTxMetadata struct {
	Description      string            `json:"description"`
	ComputeUnits     uint64            `json:"compute_units,omitempty"`
	PriorityFee      uint64            `json:"priority_fee,omitempty"`
	InstructionDigest string           `json:"instruction_digest"`
	Simulation       *SimulationResult `json:"simulation,omitempty"`
}

// TransactionBuilder accumulates instructions and assembles an UnsignedTx,
// per §4.10.
type TransactionBuilder struct {
	client           *rpc.Client
	maxRetries       int
	enableSimulation bool
	strictSimulation bool

	instructions []Instruction
	signerSet    map[string]struct{}
	computeUnits uint64
	priorityFee  uint64
}

// NewTransactionBuilder constructs a builder against the given JSON-RPC
// client. enableSimulation/strictSimulation mirror the `enable_simulation`
// config flag of §6: when strict, a failed simulation fails Build.
func NewTransactionBuilder(client *rpc.Client, maxRetries int, enableSimulation, strictSimulation bool) *TransactionBuilder {
	return &TransactionBuilder{
		client:           client,
		maxRetries:       maxRetries,
		enableSimulation: enableSimulation,
		strictSimulation: strictSimulation,
		signerSet:        make(map[string]struct{}),
	}
}

// AddInstruction appends ix and folds its signers into the distinct signer
// set tracked for the eventual transaction.
func (b *TransactionBuilder) AddInstruction(ix Instruction) *TransactionBuilder {
	b.instructions = append(b.instructions, ix)
	for _, s := range ix.Signers {
		b.signerSet[s] = struct{}{}
	}
	return b
}

// WithComputeUnits prepends a compute-unit-limit instruction.
func (b *TransactionBuilder) WithComputeUnits(n uint64) *TransactionBuilder {
	b.computeUnits = n
	return b
}

// WithPriorityFee prepends a compute-unit-price instruction.
func (b *TransactionBuilder) WithPriorityFee(f uint64) *TransactionBuilder {
	b.priorityFee = f
	return b
}

func (b *TransactionBuilder) orderedInstructions() []Instruction {
	preamble := make([]Instruction, 0, 2)
	if b.computeUnits > 0 {
		preamble = append(preamble, computeBudgetInstruction("limit", b.computeUnits))
	}
	if b.priorityFee > 0 {
		preamble = append(preamble, computeBudgetInstruction("price", b.priorityFee))
	}
	return append(preamble, b.instructions...)
}

func (b *TransactionBuilder) signers() []string {
	out := make([]string, 0, len(b.signerSet))
	for s := range b.signerSet {
		out = append(out, s)
	}
	return out
}

// Build composes the message, fetches a recent ledger hash, simulates it,
// and returns the resulting UnsignedTx, per §4.10. Fetch errors retry up to
// maxRetries with exponential back-off (§7); a cancelled or deadline-
// exceeded context is never retried.
func (b *TransactionBuilder) Build(ctx context.Context, description string) (*UnsignedTx, error) {
	ixs := b.orderedInstructions()
	message, err := json.Marshal(ixs)
	if err != nil {
		return nil, ErrBuildSerialization
	}

	recentHash, err := b.fetchRecentHashWithRetry(ctx)
	if err != nil {
		return nil, err
	}

	digest := digestInstructions(ixs)
	tx := &UnsignedTx{
		MessageBytes: message,
		RecentHash:   recentHash,
		Signers:      b.signers(),
		Metadata: UnsignedTxMetadata{
			Description:       description,
			ComputeUnits:      b.computeUnits,
			PriorityFee:       b.priorityFee,
			InstructionDigest: fmt.Sprintf("%x", digest),
		},
	}

	if b.enableSimulation {
		sim, err := b.simulateWithRetry(ctx, message)
		if err != nil {
			if b.strictSimulation {
				return nil, err
			}
			logrus.WithError(err).Warn("transaction builder: simulation failed, continuing (non-strict)")
		} else {
			tx.Metadata.Simulation = sim
			if b.strictSimulation && sim.Err != "" {
				return nil, ErrSimulationRejected
			}
		}
	}

	return tx, nil
}

var (
	ErrBuildSerialization = errors.New("transaction builder: serialization failed")
	ErrSimulationRejected = errors.New("transaction builder: simulation reported an error")
)

func (b *TransactionBuilder) fetchRecentHashWithRetry(ctx context.Context) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= b.maxRetries; attempt++ {
		var result string
		err := b.client.CallContext(ctx, &result, "kernel_getRecentHash")
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !retryBackoff(ctx, attempt) {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("transaction builder: recent hash fetch failed after %d attempts: %w", b.maxRetries+1, lastErr)
}

func (b *TransactionBuilder) simulateWithRetry(ctx context.Context, message []byte) (*SimulationResult, error) {
	var lastErr error
	for attempt := 0; attempt <= b.maxRetries; attempt++ {
		var result SimulationResult
		err := b.client.CallContext(ctx, &result, "kernel_simulateTransaction", message)
		if err == nil {
			return &result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !retryBackoff(ctx, attempt) {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("transaction builder: simulate failed after %d attempts: %w", b.maxRetries+1, lastErr)
}

// retryBackoff sleeps with exponential back-off and jitter between RPC
// retries, returning false if ctx is cancelled first.
func retryBackoff(ctx context.Context, attempt int) bool {
	if attempt > 6 {
		attempt = 6
	}
	base := 200 * time.Millisecond << uint(attempt)
	if base <= 0 || base > 10*time.Second {
		base = 10 * time.Second
	}
	jittered := time.Duration(rand.Int63n(int64(base)))
	t := time.NewTimer(jittered)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// digestInstructions returns a deterministic content digest of the ordered
// instruction set, used by callers that want to correlate a built message
// with an audit entry without re-serializing it.
func digestInstructions(ixs []Instruction) [32]byte {
	raw, _ := json.Marshal(ixs)
	return sha256.Sum256(raw)
}
