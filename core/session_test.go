package core

import "testing"

func TestSessionStoreCreateAndGet(t *testing.T) {
	led := newTestLedger(t)
	store := NewSessionStore(led)

	owner := testAddress(1)
	sess, err := store.Create(SessionParams{
		Owner:        owner,
		Capabilities: CapRead | CapWrite,
		Namespace:    "default",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.Consumed {
		t.Fatalf("freshly created session should not be consumed")
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Owner != owner || got.Capabilities != (CapRead|CapWrite) {
		t.Fatalf("unexpected loaded session: %+v", got)
	}
}

func TestSessionStoreGetUnknown(t *testing.T) {
	led := newTestLedger(t)
	store := NewSessionStore(led)
	if _, err := store.Get(testSessionHash(7)); err != ErrSessionNotFound {
		t.Fatalf("Get(unknown) = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionApplyOperationAdvancesStateRoot(t *testing.T) {
	sess := &Session{Owner: testAddress(1), Capabilities: CapRead}
	before := sess.StateRoot
	var fn FunctionID
	fn[0] = 1
	if err := sess.ApplyOperation(fn, []byte("payload")); err != nil {
		t.Fatalf("ApplyOperation: %v", err)
	}
	if sess.Nonce != 1 {
		t.Fatalf("nonce = %d, want 1", sess.Nonce)
	}
	if sess.StateRoot == before {
		t.Fatalf("state root did not change")
	}

	prevRoot := sess.StateRoot
	if err := sess.ApplyOperation(fn, []byte("payload2")); err != nil {
		t.Fatalf("second ApplyOperation: %v", err)
	}
	if sess.Nonce != 2 {
		t.Fatalf("nonce = %d, want 2", sess.Nonce)
	}
	if sess.StateRoot == prevRoot {
		t.Fatalf("state root should change again on a second operation")
	}
}

func TestSessionApplyOperationOverflow(t *testing.T) {
	sess := &Session{Nonce: ^uint64(0)}
	var fn FunctionID
	if err := sess.ApplyOperation(fn, nil); err != ErrArithmeticOverflow {
		t.Fatalf("ApplyOperation at max nonce = %v, want ErrArithmeticOverflow", err)
	}
}

func TestSessionNarrowCapabilities(t *testing.T) {
	sess := &Session{Capabilities: CapRead | CapWrite | CapExecute}
	if err := sess.NarrowCapabilities(CapRead); err != nil {
		t.Fatalf("narrow to subset: %v", err)
	}
	if sess.Capabilities != CapRead {
		t.Fatalf("capabilities after narrow = %v, want CapRead", sess.Capabilities)
	}
	if err := sess.NarrowCapabilities(CapRead | CapAdmin); err != ErrInsufficientCapabilities {
		t.Fatalf("widen attempt = %v, want ErrInsufficientCapabilities", err)
	}
}

func TestSessionStoreConsumeRejectsDoubleSpend(t *testing.T) {
	led := newTestLedger(t)
	store := NewSessionStore(led)

	sess, err := store.Create(SessionParams{Owner: testAddress(1), Capabilities: CapRead | CapWrite})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.Consume(sess.ID, nil); err != nil {
		t.Fatalf("first Consume: %v", err)
	}
	if _, err := store.Consume(sess.ID, nil); err != ErrSessionAlreadyConsumed {
		t.Fatalf("second Consume = %v, want ErrSessionAlreadyConsumed", err)
	}
}

func TestSessionStoreConsumeWithSuccessors(t *testing.T) {
	led := newTestLedger(t)
	store := NewSessionStore(led)

	owner := testAddress(1)
	sess, err := store.Create(SessionParams{Owner: owner, Capabilities: CapRead | CapWrite})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	successors := []SessionParams{
		{Owner: owner, Capabilities: CapRead, Namespace: "child-a"},
		{Owner: owner, Capabilities: CapWrite, Namespace: "child-b"},
	}
	children, err := store.Consume(sess.ID, successors)
	if err != nil {
		t.Fatalf("Consume with successors: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}

	parent, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get parent: %v", err)
	}
	if !parent.Consumed {
		t.Fatalf("parent should be marked consumed")
	}

	for _, c := range children {
		loaded, err := store.Get(c.ID)
		if err != nil {
			t.Fatalf("Get child %v: %v", c.ID, err)
		}
		if loaded.Consumed {
			t.Fatalf("freshly split child should not be consumed")
		}
	}
}

func TestSessionStoreConsumeRejectsWidenedSuccessor(t *testing.T) {
	led := newTestLedger(t)
	store := NewSessionStore(led)

	owner := testAddress(1)
	sess, err := store.Create(SessionParams{Owner: owner, Capabilities: CapRead})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = store.Consume(sess.ID, []SessionParams{{Owner: owner, Capabilities: CapRead | CapAdmin}})
	if err != ErrInsufficientCapabilities {
		t.Fatalf("Consume with widened successor = %v, want ErrInsufficientCapabilities", err)
	}
}

func TestSessionStoreCommitPersists(t *testing.T) {
	led := newTestLedger(t)
	store := NewSessionStore(led)

	sess, err := store.Create(SessionParams{Owner: testAddress(1), Capabilities: CapRead | CapWrite})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var fn FunctionID
	fn[0] = 9
	if err := sess.ApplyOperation(fn, []byte("x")); err != nil {
		t.Fatalf("ApplyOperation: %v", err)
	}
	if err := store.Commit(sess); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	reloaded, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if reloaded.Nonce != 1 {
		t.Fatalf("reloaded nonce = %d, want 1", reloaded.Nonce)
	}
}
