package core

import "errors"

// Sentinel error kinds for the capability-scoped execution kernel. Unlike
// most of the ad hoc string errors elsewhere in this package, callers here
// (the batch executor, the CLI, the off-chain runtime) need to switch on
// error kind, so these are proper sentinels checked with errors.Is.
var (
	ErrUnauthorized            = errors.New("kernel: unauthorized")
	ErrInsufficientCapabilities = errors.New("kernel: insufficient capabilities")
	ErrSessionAlreadyConsumed   = errors.New("kernel: session already consumed")
	ErrSessionNotFound          = errors.New("kernel: session not found")
	ErrFunctionNotFound         = errors.New("kernel: function not found")
	ErrDuplicateFunction        = errors.New("kernel: function already registered")
	ErrBytecodeMismatch         = errors.New("kernel: bytecode hash mismatch")
	ErrDuplicateAccount         = errors.New("kernel: duplicate account")
	ErrTooManyAccounts          = errors.New("kernel: too many accounts")
	ErrUnregisteredAccount      = errors.New("kernel: unregistered account")
	ErrAccountIndexOutOfBounds  = errors.New("kernel: account index out of bounds")
	ErrInvalidProgramIndex      = errors.New("kernel: invalid program index")
	ErrAccountsStillBorrowed    = errors.New("kernel: accounts still borrowed")
	ErrDoubleBorrow             = errors.New("kernel: account already borrowed")
	ErrNotBorrowed              = errors.New("kernel: account not borrowed")
	ErrCpiNotAllowlisted        = errors.New("kernel: cpi target not allowlisted")
	ErrGuardRejected            = errors.New("kernel: guard rejected")
	ErrProofSystemMismatch      = errors.New("kernel: proof system mismatch")
	ErrVerificationKeyNotFound  = errors.New("kernel: verification key not found")
	ErrSubmitterNotWhitelisted  = errors.New("kernel: submitter not whitelisted")
	ErrPaused                   = errors.New("kernel: execution paused")
	ErrTimeout                  = errors.New("kernel: timeout")
	ErrLagged                   = errors.New("kernel: subscriber lagged")
	ErrClosed                   = errors.New("kernel: channel closed")
	ErrSerialization            = errors.New("kernel: serialization error")
	ErrRPC                      = errors.New("kernel: rpc error")
	ErrSimulationFailed         = errors.New("kernel: simulation failed")
	ErrArithmeticOverflow       = errors.New("kernel: arithmetic overflow")
	ErrInvalidParameters        = errors.New("kernel: invalid parameters")
	ErrRecursionTooDeep         = errors.New("kernel: guard recursion too deep")
	ErrBatchTooLarge            = errors.New("kernel: batch exceeds declared bounds")
)
