package core

import (
	"testing"
	"time"
)

func setupExecutorFixture(t *testing.T, caps Capability) (*BatchExecutor, *Session, *ALT) {
	t.Helper()
	led := newTestLedger(t)
	owner := testAddress(1)
	sessions := NewSessionStore(led)
	sess, err := sessions.Create(SessionParams{Owner: owner, Capabilities: caps})
	if err != nil {
		t.Fatalf("Create session: %v", err)
	}

	alt := NewALT(led, sess.ID, owner)
	registry := NewFunctionRegistry(led)
	allowlist := NewCPIAllowlist(led, owner)

	exec := &BatchExecutor{
		Sessions:      sessions,
		Registry:      registry,
		Allowlist:     allowlist,
		Ledger:        nil,
		ComputeBudget: 1_000_000,
	}
	return exec, sess, alt
}

func TestBatchExecutorUpdateMetadata(t *testing.T) {
	exec, sess, alt := setupExecutorFixture(t, CapRead|CapWrite)

	var meta [64]byte
	copy(meta[:], "hello")
	batch := &OperationBatch{
		Operations: []Operation{{Kind: OpUpdateMetadata, MetadataBytes: meta}},
	}
	owner := sess.Owner
	if err := exec.Execute(sess.ID, alt, batch, owner, time.Now()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	updated, err := exec.Sessions.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if updated.Metadata != meta {
		t.Fatalf("metadata not updated: %+v", updated.Metadata)
	}
}

func TestBatchExecutorUnauthorizedCaller(t *testing.T) {
	exec, sess, alt := setupExecutorFixture(t, CapRead)
	batch := &OperationBatch{}
	if err := exec.Execute(sess.ID, alt, batch, testAddress(99), time.Now()); err != ErrUnauthorized {
		t.Fatalf("Execute by non-owner = %v, want ErrUnauthorized", err)
	}
}

func TestBatchExecutorAlreadyConsumedSession(t *testing.T) {
	exec, sess, alt := setupExecutorFixture(t, CapRead)
	if _, err := exec.Sessions.Consume(sess.ID, nil); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	batch := &OperationBatch{}
	if err := exec.Execute(sess.ID, alt, batch, sess.Owner, time.Now()); err != ErrSessionAlreadyConsumed {
		t.Fatalf("Execute on consumed session = %v, want ErrSessionAlreadyConsumed", err)
	}
}

func TestBatchExecutorBorrowAndAutoRelease(t *testing.T) {
	exec, sess, alt := setupExecutorFixture(t, CapRead|CapWrite)
	owner := sess.Owner

	acct := testAddress(5)
	if _, err := alt.RegisterBorrowable(owner, acct, PermReadWrite, [32]byte{}); err != nil {
		t.Fatalf("RegisterBorrowable: %v", err)
	}

	batch := &OperationBatch{
		Accounts:    []Address{acct},
		Operations:  []Operation{{Kind: OpBorrowAccount, AccountIndex: 0, Mode: PermRead}},
		AutoRelease: true,
	}
	if err := exec.Execute(sess.ID, alt, batch, owner, time.Now()); err != nil {
		t.Fatalf("Execute with auto-release: %v", err)
	}
}

func TestBatchExecutorLeftBorrowedWithoutAutoRelease(t *testing.T) {
	exec, sess, alt := setupExecutorFixture(t, CapRead|CapWrite)
	owner := sess.Owner

	acct := testAddress(5)
	if _, err := alt.RegisterBorrowable(owner, acct, PermReadWrite, [32]byte{}); err != nil {
		t.Fatalf("RegisterBorrowable: %v", err)
	}

	batch := &OperationBatch{
		Accounts:    []Address{acct},
		Operations:  []Operation{{Kind: OpBorrowAccount, AccountIndex: 0, Mode: PermRead}},
		AutoRelease: false,
	}
	if err := exec.Execute(sess.ID, alt, batch, owner, time.Now()); err != ErrAccountsStillBorrowed {
		t.Fatalf("Execute leaving a borrow open = %v, want ErrAccountsStillBorrowed", err)
	}
}

func TestBatchExecutorDoubleBorrowRejected(t *testing.T) {
	exec, sess, alt := setupExecutorFixture(t, CapRead|CapWrite)
	owner := sess.Owner

	acct := testAddress(5)
	if _, err := alt.RegisterBorrowable(owner, acct, PermReadWrite, [32]byte{}); err != nil {
		t.Fatalf("RegisterBorrowable: %v", err)
	}

	batch := &OperationBatch{
		Accounts: []Address{acct},
		Operations: []Operation{
			{Kind: OpBorrowAccount, AccountIndex: 0, Mode: PermRead},
			{Kind: OpBorrowAccount, AccountIndex: 0, Mode: PermRead},
		},
		AutoRelease: true,
	}
	if err := exec.Execute(sess.ID, alt, batch, owner, time.Now()); err != ErrDoubleBorrow {
		t.Fatalf("Execute with a double borrow = %v, want ErrDoubleBorrow", err)
	}
}

func TestBatchExecutorCallRegisteredFunctionRequiresCapability(t *testing.T) {
	exec, sess, alt := setupExecutorFixture(t, CapRead)
	owner := sess.Owner

	program := testAddress(7)
	var bytecodeHash Hash
	bytecodeHash[0] = 0x42
	id, err := exec.Registry.Register(owner, program, bytecodeHash, CapAdmin, false)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	batch := &OperationBatch{
		Operations: []Operation{{Kind: OpCallRegisteredFunction, RegistryID: id}},
	}
	if err := exec.Execute(sess.ID, alt, batch, owner, time.Now()); err != ErrInsufficientCapabilities {
		t.Fatalf("Execute without required capability = %v, want ErrInsufficientCapabilities", err)
	}
}

func TestBatchExecutorCallRegisteredFunctionRejectsUnallowlistedCPI(t *testing.T) {
	exec, sess, alt := setupExecutorFixture(t, CapRead|CapExecute)
	owner := sess.Owner

	program := testAddress(7)
	var bytecodeHash Hash
	bytecodeHash[0] = 0x42
	id, err := exec.Registry.Register(owner, program, bytecodeHash, CapRead, false)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	batch := &OperationBatch{
		Operations: []Operation{{Kind: OpCallRegisteredFunction, RegistryID: id}},
	}
	if err := exec.Execute(sess.ID, alt, batch, owner, time.Now()); err != ErrCpiNotAllowlisted {
		t.Fatalf("Execute against non-allowlisted CPI target = %v, want ErrCpiNotAllowlisted", err)
	}
}

func TestBatchExecutorCallRegisteredFunctionSucceedsWhenAllowlisted(t *testing.T) {
	exec, sess, alt := setupExecutorFixture(t, CapRead|CapExecute)
	owner := sess.Owner

	program := testAddress(7)
	var bytecodeHash Hash
	bytecodeHash[0] = 0x42
	id, err := exec.Registry.Register(owner, program, bytecodeHash, CapRead, false)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := exec.Allowlist.Add(owner, program); err != nil {
		t.Fatalf("Allowlist Add: %v", err)
	}

	batch := &OperationBatch{
		Operations: []Operation{{Kind: OpCallRegisteredFunction, RegistryID: id}},
	}
	if err := exec.Execute(sess.ID, alt, batch, owner, time.Now()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	updated, err := exec.Sessions.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if updated.Nonce != 1 {
		t.Fatalf("nonce = %d, want 1", updated.Nonce)
	}
}

func TestBatchExecutorGuardRejectsNonWhitelistedSubmitter(t *testing.T) {
	exec, sess, alt := setupExecutorFixture(t, CapRead|CapWrite)
	owner := sess.Owner
	allowed := testAddress(42)

	batch := &OperationBatch{
		Operations:    []Operation{{Kind: OpUpdateMetadata}},
		Guard:         &Guard{Kind: GuardWhitelist, AllowedSenders: []Address{allowed}},
		GuardSubmitter: testAddress(43),
	}
	if err := exec.Execute(sess.ID, alt, batch, owner, time.Now()); err != ErrGuardRejected {
		t.Fatalf("Execute with a non-whitelisted submitter = %v, want ErrGuardRejected", err)
	}

	untouched, err := exec.Sessions.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if untouched.Nonce != 0 {
		t.Fatalf("guard rejection should not mutate the session, nonce = %d", untouched.Nonce)
	}
}

func TestBatchExecutorGuardAllowsWhitelistedSubmitter(t *testing.T) {
	exec, sess, alt := setupExecutorFixture(t, CapRead|CapWrite)
	owner := sess.Owner

	batch := &OperationBatch{
		Operations:    []Operation{{Kind: OpUpdateMetadata}},
		Guard:         &Guard{Kind: GuardWhitelist, AllowedSenders: []Address{owner}},
		GuardSubmitter: owner,
	}
	if err := exec.Execute(sess.ID, alt, batch, owner, time.Now()); err != nil {
		t.Fatalf("Execute with a whitelisted submitter: %v", err)
	}
}

func TestBatchExecutorPauseStageRejectsWhenKernelPaused(t *testing.T) {
	led := newTestLedger(t)
	owner := testAddress(1)
	sessions := NewSessionStore(led)
	sess, err := sessions.Create(SessionParams{Owner: owner, Capabilities: CapRead | CapWrite})
	if err != nil {
		t.Fatalf("Create session: %v", err)
	}
	alt := NewALT(led, sess.ID, owner)
	exec := &BatchExecutor{
		Sessions:      sessions,
		Registry:      NewFunctionRegistry(led),
		Allowlist:     NewCPIAllowlist(led, owner),
		Ledger:        led,
		ComputeBudget: 1_000_000,
	}

	if err := SetKernelPaused(led, true); err != nil {
		t.Fatalf("SetKernelPaused: %v", err)
	}

	batch := &OperationBatch{Operations: []Operation{{Kind: OpUpdateMetadata}}}
	if err := exec.Execute(sess.ID, alt, batch, owner, time.Now()); err != ErrPaused {
		t.Fatalf("Execute while paused = %v, want ErrPaused", err)
	}
}
