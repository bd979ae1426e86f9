package runtime

import (
	"errors"
	"testing"

	"capkernel/core"
)

var errBoom = errors.New("boom")

func TestRecorderRecordPublishesAuditLogEvent(t *testing.T) {
	dir := t.TempDir()
	log, err := OpenAuditLog(AuditLogConfig{Dir: dir, RetentionDays: 30, MaxEntriesPerFile: 100})
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	defer log.Close()

	bus := NewEventBus()
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	rec := NewRecorder(log, bus)
	entry, err := rec.Record("BatchExecuted", "owner-1", "session-1", core.AuditOperation{Name: "Execute"}, core.AuditSuccess, nil, "")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry.EntryHash == "" {
		t.Fatalf("expected the recorded entry to be sealed with a hash")
	}

	select {
	case got := <-sub.C():
		ev, ok := got.(Event)
		if !ok || ev.Kind != EventAuditLog {
			t.Fatalf("expected an AuditLog event, got %#v", got)
		}
	default:
		t.Fatalf("expected Record to publish an event on the bus")
	}
}

func TestRecorderRecordBatchOutcome(t *testing.T) {
	dir := t.TempDir()
	log, err := OpenAuditLog(AuditLogConfig{Dir: dir, RetentionDays: 30, MaxEntriesPerFile: 100})
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	defer log.Close()

	rec := NewRecorder(log, nil)
	entry, err := rec.RecordBatchOutcome("owner-1", "session-1", 3, core.AuditDenied, "insufficient capabilities")
	if err != nil {
		t.Fatalf("RecordBatchOutcome: %v", err)
	}
	if entry.Result != core.AuditDenied {
		t.Fatalf("Result = %v, want AuditDenied", entry.Result)
	}
	if entry.Context["error"] != "insufficient capabilities" {
		t.Fatalf("Context[error] = %q", entry.Context["error"])
	}
}

func TestRecorderRecordFlowOutcomeFailure(t *testing.T) {
	dir := t.TempDir()
	log, err := OpenAuditLog(AuditLogConfig{Dir: dir, RetentionDays: 30, MaxEntriesPerFile: 100})
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	defer log.Close()

	rec := NewRecorder(log, nil)
	res := FlowResult{FlowID: "flow-1", Success: false, DurationMS: 42, LastStep: "step-2", Err: errBoom}
	entry, err := rec.RecordFlowOutcome("owner-1", res)
	if err != nil {
		t.Fatalf("RecordFlowOutcome: %v", err)
	}
	if entry.Result != core.AuditFailure {
		t.Fatalf("Result = %v, want AuditFailure", entry.Result)
	}
	if entry.Context["error"] != errBoom.Error() {
		t.Fatalf("Context[error] = %q, want %q", entry.Context["error"], errBoom.Error())
	}
}
