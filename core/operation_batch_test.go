package core

import "testing"

func TestOperationBatchValidateWithinBounds(t *testing.T) {
	b := &OperationBatch{
		Accounts:   make([]Address, 2),
		Operations: []Operation{{Kind: OpBorrowAccount, AccountIndex: 0, Mode: PermRead}},
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestOperationBatchValidateTooManyAccounts(t *testing.T) {
	b := &OperationBatch{Accounts: make([]Address, MaxBatchAccounts+1)}
	if err := b.Validate(); err != ErrBatchTooLarge {
		t.Fatalf("Validate with too many accounts = %v, want ErrBatchTooLarge", err)
	}
}

func TestOperationBatchValidateTooManyOperations(t *testing.T) {
	b := &OperationBatch{Operations: make([]Operation, MaxBatchOperations+1)}
	if err := b.Validate(); err != ErrBatchTooLarge {
		t.Fatalf("Validate with too many operations = %v, want ErrBatchTooLarge", err)
	}
}

func TestOperationBatchValidateTooManyAccountIndices(t *testing.T) {
	op := Operation{Kind: OpInvokeProgram, AccountIndices: make([]int, MaxCPIAccountIndices+1)}
	b := &OperationBatch{Operations: []Operation{op}}
	if err := b.Validate(); err != ErrBatchTooLarge {
		t.Fatalf("Validate with too many account indices = %v, want ErrBatchTooLarge", err)
	}
}

func TestOperationBatchValidateDataTooLarge(t *testing.T) {
	op := Operation{Kind: OpCallRegisteredFunction, Data: make([]byte, MaxOperationDataSize+1)}
	b := &OperationBatch{Operations: []Operation{op}}
	if err := b.Validate(); err != ErrBatchTooLarge {
		t.Fatalf("Validate with oversized data = %v, want ErrBatchTooLarge", err)
	}
}
