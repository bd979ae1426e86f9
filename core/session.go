package core

// session.go – the linear-typed session object of §3/§4.5: a capability-
// scoped execution context carrying a rolling state-root hash, consumed
// exactly once. Persisted through StateRW the same way ContractManager
// persists contract metadata: a JSON blob under a well-known key prefix,
// with a small in-memory cache for the hot path.

import (
	"crypto/sha256"
	"encoding/json"
	"sync"
	"time"
)

const sessionKeyPrefix = "session:"

// Session is a linear resource: created, executed against zero or more
// times, and eventually consumed. Once consumed it can never be referenced
// again (§4.5's state machine).
type Session struct {
	ID           Hash       `json:"id"`
	Owner        Address    `json:"owner"`
	Capabilities Capability `json:"capabilities"`
	Nonce        uint64     `json:"nonce"`
	StateRoot    Hash       `json:"state_root"`
	ALTRef       Hash       `json:"alt_ref"`
	Consumed     bool       `json:"consumed"`
	Namespace    string     `json:"namespace"`
	Metadata     [64]byte   `json:"metadata"`
	CreatedAt    time.Time  `json:"created_at"`
}

// SessionParams describes a session creation (or successor) request, per
// the Session-creation parameters of §6.
type SessionParams struct {
	Owner        Address
	Capabilities Capability
	Namespace    string
	Metadata     [64]byte
	ParentID     *Hash
}

// SessionStore creates, loads, and persists sessions, and is the sole
// writer of the linear `consumed` transition.
type SessionStore struct {
	mu    sync.Mutex
	led   StateRW
	cache map[Hash]*Session
}

// NewSessionStore returns a store backed by the given ledger state.
func NewSessionStore(led StateRW) *SessionStore {
	return &SessionStore{led: led, cache: make(map[Hash]*Session)}
}

func sessionKey(id Hash) []byte {
	return append([]byte(sessionKeyPrefix), id[:]...)
}

// deriveSessionID derives a fresh, collision-resistant session id from the
// owner, namespace, and a monotonic creation timestamp.
func deriveSessionID(owner Address, namespace string, createdAt time.Time) Hash {
	h := sha256.New()
	h.Write(owner[:])
	h.Write([]byte(namespace))
	ts := createdAt.UnixNano()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(ts >> (8 * i))
	}
	h.Write(buf[:])
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Create materializes a new Active session and persists it.
func (s *SessionStore) Create(p SessionParams) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := time.Now().UTC()
	sess := &Session{
		ID:           deriveSessionID(p.Owner, p.Namespace, createdAt),
		Owner:        p.Owner,
		Capabilities: p.Capabilities,
		Namespace:    p.Namespace,
		Metadata:     p.Metadata,
		CreatedAt:    createdAt,
	}
	if err := s.persist(sess); err != nil {
		return nil, err
	}
	s.cache[sess.ID] = sess
	return sess, nil
}

func (s *SessionStore) persist(sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return ErrSerialization
	}
	return s.led.SetState(sessionKey(sess.ID), raw)
}

// Get loads a session by id, preferring the in-memory cache.
func (s *SessionStore) Get(id Hash) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

func (s *SessionStore) getLocked(id Hash) (*Session, error) {
	if sess, ok := s.cache[id]; ok {
		return sess, nil
	}
	raw, err := s.led.GetState(sessionKey(id))
	if err != nil {
		return nil, ErrSessionNotFound
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, ErrSerialization
	}
	s.cache[id] = &sess
	return &sess, nil
}

// ApplyOperation advances a session's nonce and state root for one
// successfully executed operation, per §4.5's update rule:
//
//	nonce'      := nonce + 1
//	state_root' := hash(state_root || H || p || nonce')
//
// It does not persist; the batch executor calls Commit once per batch so
// the whole sequence of operations is applied atomically.
func (s *Session) ApplyOperation(fn FunctionID, payload []byte) error {
	if s.Nonce == ^uint64(0) {
		return ErrArithmeticOverflow
	}
	s.Nonce++
	h := sha256.New()
	h.Write(s.StateRoot[:])
	h.Write(fn[:])
	h.Write(payload)
	var nonceBuf [8]byte
	for i := 0; i < 8; i++ {
		nonceBuf[i] = byte(s.Nonce >> (8 * i))
	}
	h.Write(nonceBuf[:])
	copy(s.StateRoot[:], h.Sum(nil))
	return nil
}

// NarrowCapabilities replaces the session's capability set with a narrower
// one. Capabilities are monotonically non-increasing (§3): widening is
// rejected with ErrInsufficientCapabilities.
func (s *Session) NarrowCapabilities(next Capability) error {
	if !next.Subset(s.Capabilities) {
		return ErrInsufficientCapabilities
	}
	s.Capabilities = next
	return nil
}

// Commit persists the (possibly mutated) in-memory session, replacing the
// cached copy. Callers hold no external lock; SessionStore serializes
// concurrent commits to the same id.
func (s *SessionStore) Commit(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(sess); err != nil {
		return err
	}
	s.cache[sess.ID] = sess
	return nil
}

// Consume marks a session as spent and, optionally, creates zero or more
// successor sessions in the same atomic step (a UTXO-like split). Both the
// consumption and the successor creation are persisted before Consume
// returns; a failure partway through leaves neither side visible to later
// readers relying on SessionStore as the sole writer.
func (s *SessionStore) Consume(id Hash, successors []SessionParams) ([]*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getLocked(id)
	if err != nil {
		return nil, err
	}
	if sess.Consumed {
		return nil, ErrSessionAlreadyConsumed
	}

	createdAt := time.Now().UTC()
	out := make([]*Session, 0, len(successors))
	for _, p := range successors {
		if !p.Capabilities.Subset(sess.Capabilities) {
			return nil, ErrInsufficientCapabilities
		}
		child := &Session{
			ID:           deriveSessionID(p.Owner, p.Namespace, createdAt),
			Owner:        p.Owner,
			Capabilities: p.Capabilities,
			Namespace:    p.Namespace,
			Metadata:     p.Metadata,
			CreatedAt:    createdAt,
		}
		out = append(out, child)
	}

	sess.Consumed = true
	if err := s.persist(sess); err != nil {
		return nil, err
	}
	s.cache[sess.ID] = sess

	for _, child := range out {
		if err := s.persist(child); err != nil {
			return nil, err
		}
		s.cache[child.ID] = child
	}
	return out, nil
}
