package core

// cpi_allowlist.go – process-wide, authority-managed set of program
// addresses permitted as CPI targets (§4.7). Backed by StateRW, with an
// in-memory cache for the O(1) average `Contains` check, the same
// add/remove/contains shape as AccessController's role cache.

import "sync"

const cpiAllowKeyPrefix = "cpi:allow:"

// CPIAllowlist is the process-wide authority-managed CPI target set.
type CPIAllowlist struct {
	mu        sync.RWMutex
	led       StateRW
	authority Address
	cache     map[Address]struct{}
}

// NewCPIAllowlist returns an allowlist backed by led, managed by authority.
func NewCPIAllowlist(led StateRW, authority Address) *CPIAllowlist {
	return &CPIAllowlist{led: led, authority: authority, cache: make(map[Address]struct{})}
}

func cpiAllowKey(addr Address) []byte {
	return append([]byte(cpiAllowKeyPrefix), addr.Bytes()...)
}

// Add allowlists a program address. Only the managing authority may do so.
func (c *CPIAllowlist) Add(caller, addr Address) error {
	if caller != c.authority {
		return ErrUnauthorized
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.led.SetState(cpiAllowKey(addr), []byte{1}); err != nil {
		return err
	}
	c.cache[addr] = struct{}{}
	return nil
}

// Remove revokes a program address from the allowlist.
func (c *CPIAllowlist) Remove(caller, addr Address) error {
	if caller != c.authority {
		return ErrUnauthorized
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.led.DeleteState(cpiAllowKey(addr)); err != nil {
		return err
	}
	delete(c.cache, addr)
	return nil
}

// Contains reports whether addr is an allowlisted CPI target.
func (c *CPIAllowlist) Contains(addr Address) bool {
	c.mu.RLock()
	if _, ok := c.cache[addr]; ok {
		c.mu.RUnlock()
		return true
	}
	c.mu.RUnlock()

	ok, _ := c.led.HasState(cpiAllowKey(addr))
	if ok {
		c.mu.Lock()
		c.cache[addr] = struct{}{}
		c.mu.Unlock()
	}
	return ok
}
