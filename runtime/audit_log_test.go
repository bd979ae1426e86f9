package runtime

import (
	"testing"

	"capkernel/core"
)

func TestAuditLogAppendAndReadChain(t *testing.T) {
	dir := t.TempDir()
	log, err := OpenAuditLog(AuditLogConfig{Dir: dir, RetentionDays: 30, MaxEntriesPerFile: 10})
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	defer log.Close()

	for i := 0; i < 3; i++ {
		entry := core.KernelAuditEntry{ID: string(rune('a' + i)), EventType: "Test", Result: core.AuditSuccess}
		if _, err := log.Append(entry); err != nil {
			t.Fatalf("Append #%d: %v", i, err)
		}
	}

	entries, err := log.ReadChain()
	if err != nil {
		t.Fatalf("ReadChain: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
}

func TestAuditLogChainSurvivesRotation(t *testing.T) {
	dir := t.TempDir()
	log, err := OpenAuditLog(AuditLogConfig{Dir: dir, RetentionDays: 30, MaxEntriesPerFile: 1})
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	defer log.Close()

	for i := 0; i < 3; i++ {
		entry := core.KernelAuditEntry{ID: string(rune('a' + i)), EventType: "Test", Result: core.AuditSuccess}
		if _, err := log.Append(entry); err != nil {
			t.Fatalf("Append #%d: %v", i, err)
		}
	}

	entries, err := log.ReadChain()
	if err != nil {
		t.Fatalf("ReadChain after forced rotation: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
}

func TestAuditLogPruneExpiredKeepsFreshFiles(t *testing.T) {
	dir := t.TempDir()
	log, err := OpenAuditLog(AuditLogConfig{Dir: dir, RetentionDays: 90, MaxEntriesPerFile: 10})
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	if _, err := log.Append(core.KernelAuditEntry{ID: "x", EventType: "Test", Result: core.AuditSuccess}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := log.PruneExpired(); err != nil {
		t.Fatalf("PruneExpired: %v", err)
	}
	log.Close()

	entries, err := log.ReadChain()
	if err != nil {
		t.Fatalf("ReadChain after prune: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("prune with a 90-day retention should not remove today's file, got %d entries", len(entries))
	}
}
