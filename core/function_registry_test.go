package core

import "testing"

func TestFunctionRegistryRegisterAndLookup(t *testing.T) {
	led := newTestLedger(t)
	reg := NewFunctionRegistry(led)

	importer := testAddress(1)
	program := testAddress(2)
	var bytecodeHash Hash
	bytecodeHash[0] = 0xAB

	id, err := reg.Register(importer, program, bytecodeHash, CapRead|CapExecute, true)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	entry, err := reg.Lookup(id)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry.ProgramID != program || entry.BytecodeHash != bytecodeHash {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if !entry.Active {
		t.Fatalf("expected freshly registered entry to be active")
	}
}

func TestFunctionRegistryDuplicate(t *testing.T) {
	led := newTestLedger(t)
	reg := NewFunctionRegistry(led)

	program := testAddress(2)
	var bytecodeHash Hash
	bytecodeHash[0] = 0xCD

	if _, err := reg.Register(testAddress(1), program, bytecodeHash, CapRead, false); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := reg.Register(testAddress(1), program, bytecodeHash, CapRead, false); err != ErrDuplicateFunction {
		t.Fatalf("second Register = %v, want ErrDuplicateFunction", err)
	}
}

func TestFunctionRegistryLookupFromLedgerOnCacheMiss(t *testing.T) {
	led := newTestLedger(t)
	reg := NewFunctionRegistry(led)

	program := testAddress(3)
	var bytecodeHash Hash
	bytecodeHash[0] = 0xEF
	id, err := reg.Register(testAddress(1), program, bytecodeHash, CapRead, false)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// A second registry instance over the same ledger has an empty cache and
	// must fall back to the persisted state.
	reg2 := NewFunctionRegistry(led)
	entry, err := reg2.Lookup(id)
	if err != nil {
		t.Fatalf("Lookup on cold cache: %v", err)
	}
	if entry.ProgramID != program {
		t.Fatalf("unexpected entry after cold lookup: %+v", entry)
	}
}

func TestFunctionRegistryVerify(t *testing.T) {
	led := newTestLedger(t)
	reg := NewFunctionRegistry(led)

	program := testAddress(4)
	var bytecodeHash Hash
	bytecodeHash[0] = 0x11
	id, err := reg.Register(testAddress(1), program, bytecodeHash, CapRead, false)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := reg.Verify(id, bytecodeHash); err != nil {
		t.Fatalf("Verify with matching hash: %v", err)
	}

	var wrongHash Hash
	wrongHash[0] = 0x22
	if _, err := reg.Verify(id, wrongHash); err != ErrBytecodeMismatch {
		t.Fatalf("Verify with mismatched hash = %v, want ErrBytecodeMismatch", err)
	}

	var zero Hash
	if _, err := reg.Verify(id, zero); err != nil {
		t.Fatalf("Verify with zero expected hash should skip the comparison: %v", err)
	}
}

func TestFunctionRegistryDeactivate(t *testing.T) {
	led := newTestLedger(t)
	reg := NewFunctionRegistry(led)

	importer := testAddress(1)
	program := testAddress(5)
	var bytecodeHash Hash
	bytecodeHash[0] = 0x33
	id, err := reg.Register(importer, program, bytecodeHash, CapRead, false)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := reg.Deactivate(testAddress(9), id); err != ErrUnauthorized {
		t.Fatalf("Deactivate by non-importer = %v, want ErrUnauthorized", err)
	}

	if err := reg.Deactivate(importer, id); err != nil {
		t.Fatalf("Deactivate by importer: %v", err)
	}

	if _, err := reg.Verify(id, bytecodeHash); err != ErrFunctionNotFound {
		t.Fatalf("Verify after deactivation = %v, want ErrFunctionNotFound", err)
	}
}

func TestFunctionRegistryLookupUnknown(t *testing.T) {
	led := newTestLedger(t)
	reg := NewFunctionRegistry(led)

	var unknown FunctionID
	unknown[0] = 0xFF
	if _, err := reg.Lookup(unknown); err != ErrFunctionNotFound {
		t.Fatalf("Lookup(unknown) = %v, want ErrFunctionNotFound", err)
	}
}
