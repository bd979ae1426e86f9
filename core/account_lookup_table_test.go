package core

import "testing"

func testSessionHash(b byte) Hash {
	var h Hash
	h[0] = b
	return h
}

func TestALTRegisterBorrowableAndValidate(t *testing.T) {
	led := newTestLedger(t)
	authority := testAddress(1)
	alt := NewALT(led, testSessionHash(1), authority)

	addr := testAddress(2)
	idx, err := alt.RegisterBorrowable(authority, addr, PermReadWrite, [32]byte{})
	if err != nil {
		t.Fatalf("RegisterBorrowable: %v", err)
	}
	if idx != 0 {
		t.Fatalf("first registration index = %d, want 0", idx)
	}

	gotIdx, err := alt.ValidateBorrowable(addr, PermWrite)
	if err != nil {
		t.Fatalf("ValidateBorrowable: %v", err)
	}
	if gotIdx != idx {
		t.Fatalf("ValidateBorrowable index = %d, want %d", gotIdx, idx)
	}
}

func TestALTRegisterBorrowableUnauthorized(t *testing.T) {
	led := newTestLedger(t)
	authority := testAddress(1)
	alt := NewALT(led, testSessionHash(1), authority)

	if _, err := alt.RegisterBorrowable(testAddress(9), testAddress(2), PermRead, [32]byte{}); err != ErrUnauthorized {
		t.Fatalf("RegisterBorrowable by non-authority = %v, want ErrUnauthorized", err)
	}
}

func TestALTRegisterBorrowableDuplicateAndCapacity(t *testing.T) {
	led := newTestLedger(t)
	authority := testAddress(1)
	alt := NewALT(led, testSessionHash(1), authority)

	addr := testAddress(2)
	if _, err := alt.RegisterBorrowable(authority, addr, PermRead, [32]byte{}); err != nil {
		t.Fatalf("initial RegisterBorrowable: %v", err)
	}
	if _, err := alt.RegisterBorrowable(authority, addr, PermRead, [32]byte{}); err != ErrDuplicateAccount {
		t.Fatalf("duplicate RegisterBorrowable = %v, want ErrDuplicateAccount", err)
	}

	for i := 1; i < MaxRegisteredPerKind; i++ {
		if _, err := alt.RegisterBorrowable(authority, testAddress(byte(10+i)), PermRead, [32]byte{}); err != nil {
			t.Fatalf("RegisterBorrowable #%d: %v", i, err)
		}
	}
	if _, err := alt.RegisterBorrowable(authority, testAddress(200), PermRead, [32]byte{}); err != ErrTooManyAccounts {
		t.Fatalf("RegisterBorrowable beyond capacity = %v, want ErrTooManyAccounts", err)
	}
}

func TestALTValidateBorrowableInsufficientPermission(t *testing.T) {
	led := newTestLedger(t)
	authority := testAddress(1)
	alt := NewALT(led, testSessionHash(1), authority)

	addr := testAddress(2)
	if _, err := alt.RegisterBorrowable(authority, addr, PermRead, [32]byte{}); err != nil {
		t.Fatalf("RegisterBorrowable: %v", err)
	}
	if _, err := alt.ValidateBorrowable(addr, PermWrite); err == nil {
		t.Fatalf("expected error validating write access against a read-only registration")
	}
}

func TestALTValidateBorrowableUnregistered(t *testing.T) {
	led := newTestLedger(t)
	authority := testAddress(1)
	alt := NewALT(led, testSessionHash(1), authority)

	if _, err := alt.ValidateBorrowable(testAddress(99), PermRead); err != ErrUnregisteredAccount {
		t.Fatalf("ValidateBorrowable(unregistered) = %v, want ErrUnregisteredAccount", err)
	}
}

func TestALTRegisterProgramAndGet(t *testing.T) {
	led := newTestLedger(t)
	authority := testAddress(1)
	alt := NewALT(led, testSessionHash(2), authority)

	prog := testAddress(3)
	idx, err := alt.RegisterProgram(authority, prog, [32]byte{})
	if err != nil {
		t.Fatalf("RegisterProgram: %v", err)
	}
	entry, err := alt.GetProgram(idx)
	if err != nil {
		t.Fatalf("GetProgram: %v", err)
	}
	if entry.Address != prog || !entry.Active {
		t.Fatalf("unexpected program entry: %+v", entry)
	}
	if _, err := alt.GetProgram(idx + 1); err != ErrInvalidProgramIndex {
		t.Fatalf("GetProgram(out of range) = %v, want ErrInvalidProgramIndex", err)
	}
}

func TestALTRegisterGuardAndGet(t *testing.T) {
	led := newTestLedger(t)
	authority := testAddress(1)
	alt := NewALT(led, testSessionHash(3), authority)

	g := testAddress(4)
	idx, err := alt.RegisterGuard(authority, g, PermRead, [32]byte{})
	if err != nil {
		t.Fatalf("RegisterGuard: %v", err)
	}
	entry, err := alt.GetGuard(idx)
	if err != nil {
		t.Fatalf("GetGuard: %v", err)
	}
	if entry.Address != g {
		t.Fatalf("unexpected guard entry: %+v", entry)
	}
	if _, err := alt.GetGuard(idx + 1); err != ErrAccountIndexOutOfBounds {
		t.Fatalf("GetGuard(out of range) = %v, want ErrAccountIndexOutOfBounds", err)
	}
}

func TestALTLoadRoundTrip(t *testing.T) {
	led := newTestLedger(t)
	authority := testAddress(1)
	sessionID := testSessionHash(5)
	alt := NewALT(led, sessionID, authority)

	addr := testAddress(6)
	if _, err := alt.RegisterBorrowable(authority, addr, PermReadWrite, [32]byte{}); err != nil {
		t.Fatalf("RegisterBorrowable: %v", err)
	}

	loaded, err := LoadALT(led, sessionID, authority)
	if err != nil {
		t.Fatalf("LoadALT: %v", err)
	}
	if len(loaded.Borrowable) != 1 || loaded.Borrowable[0].Address != addr {
		t.Fatalf("loaded ALT mismatch: %+v", loaded.Borrowable)
	}
}

func TestALTLoadMissingReturnsEmpty(t *testing.T) {
	led := newTestLedger(t)
	authority := testAddress(1)
	alt, err := LoadALT(led, testSessionHash(42), authority)
	if err != nil {
		t.Fatalf("LoadALT on missing session: %v", err)
	}
	if len(alt.Borrowable) != 0 || len(alt.Programs) != 0 || len(alt.Guards) != 0 {
		t.Fatalf("expected empty ALT, got %+v", alt)
	}
}

func TestBorrowPermissionCovers(t *testing.T) {
	if !PermReadWrite.Covers(PermRead) || !PermReadWrite.Covers(PermWrite) {
		t.Fatalf("PermReadWrite should cover both read and write")
	}
	if PermRead.Covers(PermWrite) {
		t.Fatalf("PermRead should not cover write")
	}
	if !PermRead.Covers(PermRead) {
		t.Fatalf("PermRead should cover itself")
	}
}
