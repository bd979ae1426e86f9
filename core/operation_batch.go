package core

// operation_batch.go – the fixed-capacity operation batch of §3: an address
// binding table plus an ordered sequence of tagged-variant operations,
// executed atomically by the batch executor (batch_executor.go).

// Bounds enforced on every batch, per §3.
const (
	MaxBatchAccounts      = 32
	MaxBatchOperations    = 16
	MaxCPIAccountIndices  = 8
	MaxOperationDataSize  = 1024
)

// OpKind tags the variant carried by an Operation.
type OpKind uint8

const (
	OpBorrowAccount OpKind = iota
	OpReleaseAccount
	OpCallRegisteredFunction
	OpInvokeProgram
	OpUpdateMetadata
)

// Operation is a tagged-variant primitive, one of BorrowAccount,
// ReleaseAccount, CallRegisteredFunction, InvokeProgram, or UpdateMetadata.
// Only the fields relevant to Kind are populated; the executor never reads
// the others.
type Operation struct {
	Kind OpKind

	// BorrowAccount / ReleaseAccount
	AccountIndex int
	Mode         BorrowPermission

	// CallRegisteredFunction
	RegistryID FunctionID

	// InvokeProgram
	ProgramIndex int

	// CallRegisteredFunction / InvokeProgram
	AccountIndices []int
	Data           []byte

	// UpdateMetadata
	MetadataBytes [64]byte
}

// OperationBatch is the fixed-size ordered operation sequence submitted
// against a session in a single batch-execute instruction (§6).
type OperationBatch struct {
	Accounts    []Address
	Operations  []Operation
	AutoRelease bool

	// Guard, when non-nil, is evaluated by the verification pipeline's
	// guard stage before any operation in the batch runs (§4.4, §4.8
	// stage 6). GuardSubmitter is the address checked against a
	// Whitelist/ZkProof guard's submitter constraints; it defaults to the
	// batch's caller when left zero.
	Guard          *Guard
	GuardSubmitter Address

	// CurrentSlot is the block-height/slot the optional time-window
	// pipeline stage is evaluated against (§4.8 stage 4).
	CurrentSlot   uint64
	NotBeforeSlot uint64
	NotAfterSlot  uint64
	HasSlotWindow bool
}

// Validate enforces the size bounds named in §3 before any operation runs.
func (b *OperationBatch) Validate() error {
	if len(b.Accounts) > MaxBatchAccounts {
		return ErrBatchTooLarge
	}
	if len(b.Operations) > MaxBatchOperations {
		return ErrBatchTooLarge
	}
	for _, op := range b.Operations {
		if len(op.AccountIndices) > MaxCPIAccountIndices {
			return ErrBatchTooLarge
		}
		if len(op.Data) > MaxOperationDataSize {
			return ErrBatchTooLarge
		}
	}
	return nil
}
