package core

// function_registry.go – content-addressed registry mapping
// H = hash(program_id || bytecode_hash) to function metadata. Persists
// through the Ledger's key/value state exactly as AccessController does,
// with an in-memory cache guarded by a mutex to avoid round-tripping the
// ledger on every lookup.

import (
	"crypto/sha256"
	"encoding/json"
	"sync"
	"time"
)

const registryKeyPrefix = "registry:fn:"

// FunctionID is H = hash(program_id || bytecode_hash), a 32-byte digest.
type FunctionID [32]byte

// Hex renders the function id as a hex string, reusing Hash.Hex.
func (h FunctionID) Hex() string { return Hash(h).Hex() }

// FunctionEntry is a single registry record.
type FunctionEntry struct {
	ID                   FunctionID `json:"id"`
	ProgramID            Address    `json:"program_id"`
	BytecodeHash         Hash       `json:"bytecode_hash"`
	RequiredCapabilities Capability `json:"required_capabilities"`
	Active               bool       `json:"active"`
	ImportedAt           time.Time  `json:"imported_at"`
	RespectDeregistration bool      `json:"respect_deregistration"`
	Importer             Address    `json:"importer"`
}

// FunctionRegistry is the content-addressed function store of §4.2.
type FunctionRegistry struct {
	mu    sync.RWMutex
	led   StateRW
	cache map[FunctionID]*FunctionEntry
}

// NewFunctionRegistry returns a registry backed by the given ledger state.
func NewFunctionRegistry(led StateRW) *FunctionRegistry {
	return &FunctionRegistry{led: led, cache: make(map[FunctionID]*FunctionEntry)}
}

// ComputeFunctionID returns H = hash(program_id || bytecode_hash).
func ComputeFunctionID(programID Address, bytecodeHash Hash) FunctionID {
	buf := make([]byte, 0, len(programID)+len(bytecodeHash))
	buf = append(buf, programID[:]...)
	buf = append(buf, bytecodeHash[:]...)
	return FunctionID(sha256.Sum256(buf))
}

func registryKey(id FunctionID) []byte {
	return append([]byte(registryKeyPrefix), id[:]...)
}

// Register writes a new registry entry and returns its id. It fails with
// ErrDuplicateFunction if H already exists.
func (r *FunctionRegistry) Register(importer, programID Address, bytecodeHash Hash, required Capability, respectDeregistration bool) (FunctionID, error) {
	id := ComputeFunctionID(programID, bytecodeHash)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cache[id]; ok {
		return id, ErrDuplicateFunction
	}
	if ok, _ := r.led.HasState(registryKey(id)); ok {
		return id, ErrDuplicateFunction
	}

	entry := &FunctionEntry{
		ID:                    id,
		ProgramID:             programID,
		BytecodeHash:          bytecodeHash,
		RequiredCapabilities:  required,
		Active:                true,
		ImportedAt:            time.Now().UTC(),
		RespectDeregistration: respectDeregistration,
		Importer:              importer,
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return id, ErrSerialization
	}
	if err := r.led.SetState(registryKey(id), raw); err != nil {
		return id, err
	}
	r.cache[id] = entry
	return id, nil
}

// Lookup returns the entry for H, loading from the ledger and populating the
// cache on a miss. Fails with ErrFunctionNotFound if unknown.
func (r *FunctionRegistry) Lookup(id FunctionID) (*FunctionEntry, error) {
	r.mu.RLock()
	if e, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return e, nil
	}
	r.mu.RUnlock()

	raw, err := r.led.GetState(registryKey(id))
	if err != nil {
		return nil, ErrFunctionNotFound
	}
	var entry FunctionEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, ErrSerialization
	}

	r.mu.Lock()
	r.cache[id] = &entry
	r.mu.Unlock()
	return &entry, nil
}

// Verify fails if H is unknown or inactive, or (when expectedBytecodeHash is
// non-zero) if it disagrees with the stored bytecode hash.
func (r *FunctionRegistry) Verify(id FunctionID, expectedBytecodeHash Hash) (*FunctionEntry, error) {
	entry, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	if !entry.Active {
		return nil, ErrFunctionNotFound
	}
	var zero Hash
	if expectedBytecodeHash != zero && expectedBytecodeHash != entry.BytecodeHash {
		return nil, ErrBytecodeMismatch
	}
	return entry, nil
}

// Deactivate sets active=false. Only the importing authority may deactivate
// its own registration.
func (r *FunctionRegistry) Deactivate(caller Address, id FunctionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.cache[id]
	if !ok {
		raw, err := r.led.GetState(registryKey(id))
		if err != nil {
			return ErrFunctionNotFound
		}
		entry = &FunctionEntry{}
		if err := json.Unmarshal(raw, entry); err != nil {
			return ErrSerialization
		}
	}
	if entry.Importer != caller {
		return ErrUnauthorized
	}
	entry.Active = false
	raw, err := json.Marshal(entry)
	if err != nil {
		return ErrSerialization
	}
	if err := r.led.SetState(registryKey(id), raw); err != nil {
		return err
	}
	r.cache[id] = entry
	return nil
}
