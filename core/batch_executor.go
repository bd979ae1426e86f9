package core

// batch_executor.go – interprets an OperationBatch against a Session and its
// ALT under borrow discipline and the CPI allowlist (§4.6). Execution is
// single-threaded and deterministic: operations run strictly in declared
// order, and any failure rolls back the entire batch (§8, property 1) by
// simply never persisting the in-memory working copy.

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"
)

// borrowKey uniquely identifies a borrowed account within a batch.
type borrowedEntry struct {
	index int
	mode  BorrowPermission
}

// BatchExecutor wires the registry, CPI allowlist, and session store needed
// to execute operation batches.
type BatchExecutor struct {
	Sessions  *SessionStore
	Registry  *FunctionRegistry
	Allowlist *CPIAllowlist
	Ledger    StateRW

	// VerificationKeys backs the ZkProof guard variant (§3); nil disables
	// ZkProof guards (EvaluateGuard then fails ErrVerificationKeyNotFound).
	VerificationKeys *VerificationKeyStore

	// AllowUnregisteredCPI, when true, lets a batch that declares
	// allow_unregistered_cpi skip the CPI allowlist check (§4.7). The caller
	// authorizing that flag is checked by the caller of Execute, not here.
	AllowUnregisteredCPI bool

	// ComputeBudget is the per-batch compute unit ceiling (§4.6).
	ComputeBudget uint64
}

// NewBatchExecutor wires a batch executor from its collaborators.
func NewBatchExecutor(sessions *SessionStore, registry *FunctionRegistry, allowlist *CPIAllowlist, led StateRW) *BatchExecutor {
	return &BatchExecutor{
		Sessions:         sessions,
		Registry:         registry,
		Allowlist:        allowlist,
		Ledger:           led,
		VerificationKeys: NewVerificationKeyStore(led),
		ComputeBudget:    1_000_000,
	}
}

// Execute runs batch against session sessID's ALT, honoring the batch's own
// account/operation bounds, enforcing the preconditions of §4.6 in order,
// and applying the per-operation semantics described there. On any error no
// mutation to the session is observable; on success the session's nonce and
// state root advance exactly once per CallRegisteredFunction/InvokeProgram
// and a BatchExecuted event is emitted.
func (e *BatchExecutor) Execute(sessID Hash, alt *ALT, batch *OperationBatch, caller Address, clock time.Time) error {
	sess, err := e.Sessions.Get(sessID)
	if err != nil {
		return err
	}

	// Precondition 1: caller authorization.
	if caller != sess.Owner {
		return ErrUnauthorized
	}
	// Precondition 2: linear consumption.
	if sess.Consumed {
		return ErrSessionAlreadyConsumed
	}
	// Precondition 3: declared size bounds.
	if err := batch.Validate(); err != nil {
		return err
	}
	// Precondition 5: every batch account must be a registered borrowable.
	for _, addr := range batch.Accounts {
		if _, err := alt.ValidateBorrowable(addr, PermRead); err != nil && !errors.Is(err, ErrInsufficientCapabilities) {
			return ErrUnregisteredAccount
		}
	}

	// §4.8: run the verification pipeline (pause state, capability
	// integrity, time window, parameter constraints) and, when the batch
	// carries one, the guard evaluator (§4.4) before any operation runs.
	if err := e.runVerificationPipeline(sess, batch, caller, clock); err != nil {
		return err
	}

	// Work on an in-memory copy of the session so a failure anywhere below
	// leaves the persisted session byte-identical to its pre-execution state
	// (§8, property 1).
	working := *sess
	meter := NewComputeMeter(e.ComputeBudget)
	borrowed := make(map[int]borrowedEntry)

	for _, op := range batch.Operations {
		if err := e.applyOperation(&working, alt, batch, op, borrowed, meter); err != nil {
			return err
		}
	}

	if len(borrowed) > 0 {
		if !batch.AutoRelease {
			return ErrAccountsStillBorrowed
		}
		for idx := range borrowed {
			delete(borrowed, idx)
		}
	}

	if err := e.Sessions.Commit(&working); err != nil {
		return err
	}

	e.emitBatchExecuted(working.ID, working.Nonce, working.StateRoot)
	return nil
}

// runVerificationPipeline assembles a PipelineInput from the batch and
// session in scope and runs it through DefaultPipeline (appending the guard
// stage when the batch declares a Guard), per §4.8's six-stage contract.
func (e *BatchExecutor) runVerificationPipeline(sess *Session, batch *OperationBatch, caller Address, clock time.Time) error {
	submitter := batch.GuardSubmitter
	if submitter == (Address{}) {
		submitter = caller
	}
	in := &PipelineInput{
		Ledger:        e.Ledger,
		Session:       sess,
		CurrentSlot:   batch.CurrentSlot,
		NotBeforeSlot: batch.NotBeforeSlot,
		NotAfterSlot:  batch.NotAfterSlot,
		HasSlotWindow: batch.HasSlotWindow,
		Guard:         batch.Guard,
		GuardContext: &GuardContext{
			Session:   sess,
			Owner:     sess.Owner,
			Timestamp: clock,
			Submitter: submitter,
		},
		VerificationKeys: e.VerificationKeys,
		Timestamp:        clock,
	}

	pipeline := DefaultPipeline()
	if batch.Guard != nil {
		pipeline = pipeline.WithGuardStage()
	}
	return pipeline.Run(in)
}

func (e *BatchExecutor) applyOperation(sess *Session, alt *ALT, batch *OperationBatch, op Operation, borrowed map[int]borrowedEntry, meter *ComputeMeter) error {
	switch op.Kind {
	case OpBorrowAccount:
		return e.borrowAccount(alt, batch, op, borrowed, meter)
	case OpReleaseAccount:
		return e.releaseAccount(op, borrowed, meter)
	case OpCallRegisteredFunction:
		return e.callRegisteredFunction(sess, batch, op, borrowed, meter)
	case OpInvokeProgram:
		return e.invokeProgram(sess, alt, batch, op, borrowed, meter)
	case OpUpdateMetadata:
		sess.Metadata = op.MetadataBytes
		return meter.Consume(ComputeCostUpdateMetadata)
	default:
		return ErrInvalidParameters
	}
}

func (e *BatchExecutor) borrowAccount(alt *ALT, batch *OperationBatch, op Operation, borrowed map[int]borrowedEntry, meter *ComputeMeter) error {
	if op.AccountIndex < 0 || op.AccountIndex >= len(batch.Accounts) {
		return ErrAccountIndexOutOfBounds
	}
	if _, already := borrowed[op.AccountIndex]; already {
		return ErrDoubleBorrow
	}
	addr := batch.Accounts[op.AccountIndex]
	if _, err := alt.ValidateBorrowable(addr, op.Mode); err != nil {
		return err
	}
	if err := meter.Consume(ComputeCostBorrowAccount); err != nil {
		return err
	}
	borrowed[op.AccountIndex] = borrowedEntry{index: op.AccountIndex, mode: op.Mode}
	return nil
}

func (e *BatchExecutor) releaseAccount(op Operation, borrowed map[int]borrowedEntry, meter *ComputeMeter) error {
	if _, ok := borrowed[op.AccountIndex]; !ok {
		return ErrNotBorrowed
	}
	if err := meter.Consume(ComputeCostReleaseAccount); err != nil {
		return err
	}
	delete(borrowed, op.AccountIndex)
	return nil
}

func (e *BatchExecutor) checkIndicesBorrowed(indices []int, borrowed map[int]borrowedEntry) error {
	for _, idx := range indices {
		if _, ok := borrowed[idx]; !ok {
			return ErrNotBorrowed
		}
	}
	return nil
}

func (e *BatchExecutor) callRegisteredFunction(sess *Session, batch *OperationBatch, op Operation, borrowed map[int]borrowedEntry, meter *ComputeMeter) error {
	entry, err := e.Registry.Lookup(op.RegistryID)
	if err != nil {
		return err
	}
	if entry.RespectDeregistration && !entry.Active {
		return ErrFunctionNotFound
	}
	if !entry.RequiredCapabilities.Subset(sess.Capabilities) {
		return ErrInsufficientCapabilities
	}
	if err := e.checkIndicesBorrowed(op.AccountIndices, borrowed); err != nil {
		return err
	}
	if !e.AllowUnregisteredCPI && e.Allowlist != nil && !e.Allowlist.Contains(entry.ProgramID) {
		return ErrCpiNotAllowlisted
	}
	if err := meter.Consume(ComputeCostCPIBase); err != nil {
		return err
	}

	if e.Ledger != nil {
		callerAddr := sess.Owner
		if _, err := e.Ledger.Call(callerAddr, entry.ProgramID, op.Data, big.NewInt(0), meter.Remaining()); err != nil {
			logrus.WithFields(logrus.Fields{"function": op.RegistryID.Hex(), "program": entry.ProgramID.Hex()}).Warnf("CallRegisteredFunction dispatch failed: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
		}
	}

	return sess.ApplyOperation(op.RegistryID, op.Data)
}

func (e *BatchExecutor) invokeProgram(sess *Session, alt *ALT, batch *OperationBatch, op Operation, borrowed map[int]borrowedEntry, meter *ComputeMeter) error {
	program, err := alt.GetProgram(op.ProgramIndex)
	if err != nil {
		return err
	}
	if !program.Active {
		return ErrInvalidProgramIndex
	}
	if err := e.checkIndicesBorrowed(op.AccountIndices, borrowed); err != nil {
		return err
	}
	if !e.AllowUnregisteredCPI && e.Allowlist != nil && !e.Allowlist.Contains(program.Address) {
		return ErrCpiNotAllowlisted
	}
	if err := meter.Consume(ComputeCostCPIBase); err != nil {
		return err
	}

	if e.Ledger != nil {
		if _, err := e.Ledger.Call(sess.Owner, program.Address, op.Data, big.NewInt(0), meter.Remaining()); err != nil {
			logrus.WithFields(logrus.Fields{"program": program.Address.Hex()}).Warnf("InvokeProgram dispatch failed: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
		}
	}

	var fn FunctionID
	copy(fn[:], program.Address.Bytes())
	return sess.ApplyOperation(fn, op.Data)
}

// emitBatchEvent is the payload shape for the BatchExecuted structured
// event of §4.6.
type emitBatchEvent struct {
	Session   Hash   `json:"session"`
	Nonce     uint64 `json:"nonce"`
	StateRoot Hash   `json:"state_root"`
}

// emitBatchExecuted persists and broadcasts a BatchExecuted event, reusing
// the package's Event record shape and its Broadcast hook (core/event_
// management.go, core/network.go) rather than EventManager.Emit, since the
// latter's *Context parameter is ambiguous in this package (both a type
// alias and an interface named Context are declared elsewhere).
func (e *BatchExecutor) emitBatchExecuted(sessID Hash, nonce uint64, stateRoot Hash) {
	payload, err := json.Marshal(emitBatchEvent{Session: sessID, Nonce: nonce, StateRoot: stateRoot})
	if err != nil {
		logrus.Warnf("BatchExecuted: marshal failed: %v", err)
		return
	}
	ev := Event{
		ID:        sessID.Hex() + ":" + fmt.Sprint(nonce),
		Type:      "BatchExecuted",
		Data:      payload,
		Timestamp: time.Now().Unix(),
	}
	if e.Ledger != nil {
		raw, _ := json.Marshal(ev)
		_ = e.Ledger.SetState([]byte("event:BatchExecuted:"+ev.ID), raw)
	}
	_ = Broadcast("event:BatchExecuted", payload)
}
