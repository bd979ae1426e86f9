package core

// capability.go – 64-bit capability bitmap used throughout the kernel.
//
// The subset test is the sole authorization primitive checked at runtime: a
// session may invoke a function only if its capability bitmap is a superset
// of the function's required capabilities. Storing the set as a uint64
// keeps every check a single AND, which matters because it runs once per
// operation in a batch.

import "strings"

// Capability is a bitmap over at most 64 named permissions.
type Capability uint64

// Named permission bits. The zero value carries no capabilities.
const (
	CapRead Capability = 1 << iota
	CapWrite
	CapExecute
	CapTransfer
	CapMint
	CapBurn
	CapAdmin
	CapCreateAccount
	CapCallFunction
	CapDelegate
	CapFreeze
)

// capabilityNames maps each bit to its display name, in bit order. This is a
// display-only convenience (Open Question (i) in spec.md resolves the
// bitmap/string duality in favor of the bitmap; strings never persist).
var capabilityNames = []struct {
	bit  Capability
	name string
}{
	{CapRead, "Read"},
	{CapWrite, "Write"},
	{CapExecute, "Execute"},
	{CapTransfer, "Transfer"},
	{CapMint, "Mint"},
	{CapBurn, "Burn"},
	{CapAdmin, "Admin"},
	{CapCreateAccount, "CreateAccount"},
	{CapCallFunction, "CallFunction"},
	{CapDelegate, "Delegate"},
	{CapFreeze, "Freeze"},
}

// Has reports whether C carries the given capability bit.
func (c Capability) Has(cap Capability) bool {
	return c&cap == cap
}

// Require returns ErrInsufficientCapabilities if c does not carry cap.
func (c Capability) Require(cap Capability) error {
	if !c.Has(cap) {
		return ErrInsufficientCapabilities
	}
	return nil
}

// Subset reports whether a is a subset of b: (a &^ b) == 0.
func (a Capability) Subset(b Capability) bool {
	return a&^b == 0
}

// Union returns the bitwise union of a and b.
func (a Capability) Union(b Capability) Capability { return a | b }

// Intersect returns the bitwise intersection of a and b.
func (a Capability) Intersect(b Capability) Capability { return a & b }

// Difference returns the capabilities present in a but not in b.
func (a Capability) Difference(b Capability) Capability { return a &^ b }

// String renders the capability set as a "|"-joined list of names, for logs
// and CLI output only.
func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var names []string
	for _, n := range capabilityNames {
		if c.Has(n.bit) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "unknown"
	}
	return strings.Join(names, "|")
}

// ParseCapabilities builds a Capability bitmap from a list of names. Unknown
// names return ErrInvalidParameters; the zero-length list returns the empty
// set. This is the reverse of String and is, likewise, a convenience for
// config files and CLI flags.
func ParseCapabilities(names []string) (Capability, error) {
	var c Capability
	for _, want := range names {
		found := false
		for _, n := range capabilityNames {
			if strings.EqualFold(n.name, want) {
				c |= n.bit
				found = true
				break
			}
		}
		if !found {
			return 0, ErrInvalidParameters
		}
	}
	return c, nil
}
