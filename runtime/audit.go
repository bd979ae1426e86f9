package runtime

// audit.go – the in-process audit recorder that turns the structured
// decisions of the batch executor, the orchestrator, and the verification
// pipeline into sealed KernelAuditEntry records and feeds them to the
// file-backed AuditLog, publishing an AuditLog event on the bus for every
// write (§4.11, §6). Grounded on
// valence-runtime/src/security/audit.rs's AuditLogger (a thin façade over
// an AuditStorage trait) translated into a concrete struct over AuditLog.

import (
	"fmt"
	"time"

	"capkernel/core"

	"github.com/google/uuid"
)

// Recorder records security-relevant decisions to the audit log and
// announces each write on the event bus.
type Recorder struct {
	log *AuditLog
	bus *EventBus
}

// NewRecorder wires a recorder over log, announcing writes on bus.
func NewRecorder(log *AuditLog, bus *EventBus) *Recorder {
	return &Recorder{log: log, bus: bus}
}

// Record builds, seals, and appends a KernelAuditEntry, then publishes an
// AuditLog event carrying the entry id.
func (r *Recorder) Record(eventType, actor, resource string, op core.AuditOperation, result core.AuditResult, ctx map[string]string, parentID string) (core.KernelAuditEntry, error) {
	entry := core.KernelAuditEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Actor:     actor,
		Resource:  resource,
		Operation: op,
		Result:    result,
		Context:   ctx,
		ParentID:  parentID,
	}
	sealed, err := r.log.Append(entry)
	if err != nil {
		return sealed, err
	}
	if r.bus != nil {
		r.bus.Publish(Event{Kind: EventAuditLog, Message: fmt.Sprintf("%s:%s", sealed.EventType, sealed.ID)})
	}
	return sealed, nil
}

// RecordBatchOutcome is the convenience wrapper the batch executor's
// caller uses to record a BatchExecuted/Denied/Error decision.
func (r *Recorder) RecordBatchOutcome(actor, sessionID string, nonce uint64, result core.AuditResult, errMsg string) (core.KernelAuditEntry, error) {
	op := core.AuditOperation{Name: "BatchExecute", Parameters: fmt.Sprintf("session=%s nonce=%d", sessionID, nonce)}
	ctx := map[string]string{}
	if errMsg != "" {
		ctx["error"] = errMsg
	}
	return r.Record("BatchExecuted", actor, sessionID, op, result, ctx, "")
}

// RecordFlowOutcome records a completed orchestrator flow.
func (r *Recorder) RecordFlowOutcome(actor string, res FlowResult) (core.KernelAuditEntry, error) {
	result := core.AuditSuccess
	ctx := map[string]string{"duration_ms": fmt.Sprint(res.DurationMS), "last_step": res.LastStep}
	if !res.Success {
		result = core.AuditFailure
		if res.Err != nil {
			ctx["error"] = res.Err.Error()
		}
	}
	op := core.AuditOperation{Name: "Flow:" + res.FlowID}
	return r.Record("FlowCompleted", actor, res.FlowID, op, result, ctx, "")
}
