package core

import "testing"

func TestCapabilitySubset(t *testing.T) {
	full := CapRead | CapWrite | CapExecute
	narrow := CapRead | CapWrite

	if !narrow.Subset(full) {
		t.Fatalf("narrow should be a subset of full")
	}
	if full.Subset(narrow) {
		t.Fatalf("full should not be a subset of narrow")
	}
}

func TestCapabilityRequire(t *testing.T) {
	c := CapRead | CapWrite
	if err := c.Require(CapRead); err != nil {
		t.Fatalf("Require(CapRead): %v", err)
	}
	if err := c.Require(CapAdmin); err != ErrInsufficientCapabilities {
		t.Fatalf("Require(CapAdmin) = %v, want ErrInsufficientCapabilities", err)
	}
}

func TestCapabilityParseAndString(t *testing.T) {
	c, err := ParseCapabilities([]string{"read", "Write", "EXECUTE"})
	if err != nil {
		t.Fatalf("ParseCapabilities: %v", err)
	}
	want := CapRead | CapWrite | CapExecute
	if c != want {
		t.Fatalf("parsed %v, want %v", c, want)
	}
	if c.String() != "Read|Write|Execute" {
		t.Fatalf("String() = %q", c.String())
	}
}

func TestCapabilityParseUnknownName(t *testing.T) {
	if _, err := ParseCapabilities([]string{"Teleport"}); err == nil {
		t.Fatalf("expected error for unknown capability name")
	}
}

func TestCapabilityZeroValueString(t *testing.T) {
	var c Capability
	if c.String() != "none" {
		t.Fatalf("zero value String() = %q, want none", c.String())
	}
}
