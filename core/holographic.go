package core

// Simple holographic data helpers used by HolographicNode.

// EncodeHolographic encodes input bytes into a holographic representation.
func EncodeHolographic(data []byte) ([]byte, error) {
	// Placeholder for actual multi-dimensional encoding
	return data, nil
}

// DecodeHolographic decodes holographic bytes back to the original data.
func DecodeHolographic(data []byte) ([]byte, error) {
	return data, nil
}

// StoreHolographicData persists encoded holographic data to the ledger and returns a reference hash.
func (l *Ledger) StoreHolographicData(data []byte) (Hash, error) {
	h := HashBytes(data)
	// minimal storage using ledger snapshot table
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.holoData == nil {
		l.holoData = make(map[Hash][]byte)
	}
	l.holoData[h] = data
	return h, nil
}

// HolographicData retrieves encoded data by hash.
func (l *Ledger) HolographicData(h Hash) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.holoData == nil {
		return nil, ErrNotFound
	}
	b, ok := l.holoData[h]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}
