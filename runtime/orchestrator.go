package runtime

// orchestrator.go – the long-lived flow runner of §4.11 (C10): a flow is a
// directed graph of steps, each step builds and submits an unsigned
// transaction and waits for confirmation before the next step runs.
// Cancellation at any await point unwinds the flow cleanly and emits a
// Warning event rather than leaving an orphaned goroutine, mirroring the
// tick-driven progression loop of lifecycle_manager/src/orchestrator.rs
// generalized from a fixed poll-and-rule loop into an explicit step graph.

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// StepFunc executes one flow step, returning the built transaction's
// correlating id (e.g. a signature or digest) on success.
type StepFunc func(ctx context.Context, flowID string, prior string) (string, error)

// FlowStep is one named node in a flow's step graph.
type FlowStep struct {
	Name    string
	Timeout time.Duration
	Run     StepFunc
}

// Flow is a named, ordered sequence of steps. Steps run strictly in order;
// a later step waits for the previous step's result before starting.
type Flow struct {
	Name  string
	Steps []FlowStep
}

// Orchestrator runs Flows to completion, publishing FlowStarted,
// FlowStepCompleted, and FlowCompleted events on its bus as it goes.
type Orchestrator struct {
	bus *EventBus
}

// NewOrchestrator constructs an orchestrator publishing onto bus.
func NewOrchestrator(bus *EventBus) *Orchestrator {
	return &Orchestrator{bus: bus}
}

// FlowResult is the terminal outcome of RunFlow.
type FlowResult struct {
	FlowID     string
	Success    bool
	DurationMS int64
	LastStep   string
	Err        error
}

// RunFlow executes every step of f in order. Each step gets its own timeout
// derived from FlowStep.Timeout (zero means no per-step deadline beyond
// ctx's own). Cancellation at any await point aborts the remaining steps,
// emits Warning, and returns a non-nil error in FlowResult.
func (o *Orchestrator) RunFlow(ctx context.Context, flowID string, f *Flow) FlowResult {
	start := time.Now()
	o.bus.Publish(Event{Kind: EventFlowStarted, FlowID: flowID})

	var prior string
	for _, step := range f.Steps {
		stepCtx := ctx
		var cancel context.CancelFunc
		if step.Timeout > 0 {
			stepCtx, cancel = context.WithTimeout(ctx, step.Timeout)
		}

		result, err := step.Run(stepCtx, flowID, prior)
		if cancel != nil {
			cancel()
		}

		if err != nil {
			success := false
			o.bus.Publish(Event{Kind: EventFlowStepCompleted, FlowID: flowID, Step: step.Name, Message: err.Error()})
			if ctx.Err() != nil {
				o.bus.Publish(Event{Kind: EventWarning, FlowID: flowID, Message: fmt.Sprintf("flow %s cancelled at step %s", flowID, step.Name)})
			}
			duration := time.Since(start).Milliseconds()
			o.bus.Publish(Event{Kind: EventFlowCompleted, FlowID: flowID, Message: fmt.Sprintf("success=%v duration_ms=%d", success, duration)})
			return FlowResult{FlowID: flowID, Success: false, DurationMS: duration, LastStep: step.Name, Err: err}
		}

		o.bus.Publish(Event{Kind: EventFlowStepCompleted, FlowID: flowID, Step: step.Name, TransactionID: result})
		prior = result
		logrus.WithFields(logrus.Fields{"flow": flowID, "step": step.Name}).Debug("flow step completed")
	}

	duration := time.Since(start).Milliseconds()
	o.bus.Publish(Event{Kind: EventFlowCompleted, FlowID: flowID, Message: fmt.Sprintf("success=true duration_ms=%d", duration)})
	return FlowResult{FlowID: flowID, Success: true, DurationMS: duration, LastStep: lastStepName(f)}
}

func lastStepName(f *Flow) string {
	if len(f.Steps) == 0 {
		return ""
	}
	return f.Steps[len(f.Steps)-1].Name
}
