package core

// account_lookup_table.go – per-session registry of borrowable accounts, CPI
// programs, and guard accounts (§3, §4.3). Persisted through StateRW under
// key prefixes scoped by session id, following the same "append-only,
// indices are stable references" discipline as the rest of the ledger's
// append-heavy records (see ledger.go's Blocks slice).

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MaxRegisteredPerKind is N, the fixed capacity of each ALT array.
const MaxRegisteredPerKind = 16

// BorrowPermission describes how a borrowable account may be accessed.
type BorrowPermission uint8

const (
	PermRead BorrowPermission = iota
	PermWrite
	PermReadWrite
)

// Covers reports whether p grants at least the access required by want.
func (p BorrowPermission) Covers(want BorrowPermission) bool {
	if p == PermReadWrite {
		return true
	}
	return p == want
}

// BorrowableEntry is one registered account available for borrowing.
type BorrowableEntry struct {
	Address     Address          `json:"address"`
	Permissions BorrowPermission `json:"permissions"`
	Label       [32]byte         `json:"label"`
}

// ProgramEntry is one registered CPI target.
type ProgramEntry struct {
	Address Address  `json:"address"`
	Active  bool     `json:"active"`
	Label   [32]byte `json:"label"`
}

// GuardEntry is one account readable by guard evaluation.
type GuardEntry struct {
	Address     Address          `json:"address"`
	Permissions BorrowPermission `json:"permissions"`
	Label       [32]byte         `json:"label"`
}

// ALT is the account lookup table owned 1:1 by a session.
type ALT struct {
	mu          sync.RWMutex
	led         StateRW
	sessionID   Hash
	authority   Address
	Borrowable  []BorrowableEntry `json:"borrowable"`
	Programs    []ProgramEntry    `json:"programs"`
	Guards      []GuardEntry      `json:"guards"`
}

func altKey(sessionID Hash) []byte {
	return append([]byte("alt:"), sessionID[:]...)
}

// NewALT creates an empty ALT scoped to the given session, owned by
// authority (the session owner — registration requires this signature).
func NewALT(led StateRW, sessionID Hash, authority Address) *ALT {
	return &ALT{led: led, sessionID: sessionID, authority: authority}
}

func (a *ALT) persist() error {
	raw, err := json.Marshal(a)
	if err != nil {
		return ErrSerialization
	}
	return a.led.SetState(altKey(a.sessionID), raw)
}

// LoadALT restores a previously persisted ALT for a session.
func LoadALT(led StateRW, sessionID Hash, authority Address) (*ALT, error) {
	raw, err := led.GetState(altKey(sessionID))
	if err != nil {
		return NewALT(led, sessionID, authority), nil
	}
	a := &ALT{led: led, sessionID: sessionID, authority: authority}
	if err := json.Unmarshal(raw, a); err != nil {
		return nil, ErrSerialization
	}
	return a, nil
}

// RegisterBorrowable appends a borrowable account. caller must match the
// ALT's authority (registration requires ALT-authority signature, §3).
func (a *ALT) RegisterBorrowable(caller, addr Address, perms BorrowPermission, label [32]byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if caller != a.authority {
		return -1, ErrUnauthorized
	}
	for _, e := range a.Borrowable {
		if e.Address == addr {
			return -1, ErrDuplicateAccount
		}
	}
	if len(a.Borrowable) >= MaxRegisteredPerKind {
		return -1, ErrTooManyAccounts
	}
	a.Borrowable = append(a.Borrowable, BorrowableEntry{Address: addr, Permissions: perms, Label: label})
	if err := a.persist(); err != nil {
		return -1, err
	}
	return len(a.Borrowable) - 1, nil
}

// RegisterProgram appends a CPI target program.
func (a *ALT) RegisterProgram(caller, addr Address, label [32]byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if caller != a.authority {
		return -1, ErrUnauthorized
	}
	for _, e := range a.Programs {
		if e.Address == addr {
			return -1, ErrDuplicateAccount
		}
	}
	if len(a.Programs) >= MaxRegisteredPerKind {
		return -1, ErrTooManyAccounts
	}
	a.Programs = append(a.Programs, ProgramEntry{Address: addr, Active: true, Label: label})
	if err := a.persist(); err != nil {
		return -1, err
	}
	return len(a.Programs) - 1, nil
}

// RegisterGuard appends a guard-readable account.
func (a *ALT) RegisterGuard(caller, addr Address, perms BorrowPermission, label [32]byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if caller != a.authority {
		return -1, ErrUnauthorized
	}
	for _, e := range a.Guards {
		if e.Address == addr {
			return -1, ErrDuplicateAccount
		}
	}
	if len(a.Guards) >= MaxRegisteredPerKind {
		return -1, ErrTooManyAccounts
	}
	a.Guards = append(a.Guards, GuardEntry{Address: addr, Permissions: perms, Label: label})
	if err := a.persist(); err != nil {
		return -1, err
	}
	return len(a.Guards) - 1, nil
}

// GetBorrowable returns the borrowable entry at index.
func (a *ALT) GetBorrowable(index int) (BorrowableEntry, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if index < 0 || index >= len(a.Borrowable) {
		return BorrowableEntry{}, ErrAccountIndexOutOfBounds
	}
	return a.Borrowable[index], nil
}

// GetProgram returns the program entry at index.
func (a *ALT) GetProgram(index int) (ProgramEntry, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if index < 0 || index >= len(a.Programs) {
		return ProgramEntry{}, ErrInvalidProgramIndex
	}
	return a.Programs[index], nil
}

// GetGuard returns the guard entry at index.
func (a *ALT) GetGuard(index int) (GuardEntry, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if index < 0 || index >= len(a.Guards) {
		return GuardEntry{}, ErrAccountIndexOutOfBounds
	}
	return a.Guards[index], nil
}

// ValidateBorrowable checks that addr is registered with at least the
// required permissions, returning its index.
func (a *ALT) ValidateBorrowable(addr Address, required BorrowPermission) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for i, e := range a.Borrowable {
		if e.Address == addr {
			if !e.Permissions.Covers(required) {
				return -1, fmt.Errorf("%w: have %v need %v", ErrInsufficientCapabilities, e.Permissions, required)
			}
			return i, nil
		}
	}
	return -1, ErrUnregisteredAccount
}
