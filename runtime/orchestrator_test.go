package runtime

import (
	"context"
	"errors"
	"testing"
)

func drainEvents(sub *Subscription, n int) []Event {
	var out []Event
	for i := 0; i < n; i++ {
		v := <-sub.C()
		if ev, ok := v.(Event); ok {
			out = append(out, ev)
		}
	}
	return out
}

func TestOrchestratorRunFlowSuccess(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	o := NewOrchestrator(bus)
	flow := &Flow{
		Name: "test-flow",
		Steps: []FlowStep{
			{Name: "step-1", Run: func(ctx context.Context, flowID, prior string) (string, error) { return "tx-1", nil }},
			{Name: "step-2", Run: func(ctx context.Context, flowID, prior string) (string, error) { return "tx-2", nil }},
		},
	}

	res := o.RunFlow(context.Background(), "flow-1", flow)
	if !res.Success {
		t.Fatalf("expected flow to succeed, got err=%v", res.Err)
	}
	if res.LastStep != "step-2" {
		t.Fatalf("LastStep = %q, want step-2", res.LastStep)
	}

	events := drainEvents(sub, 4)
	if events[0].Kind != EventFlowStarted {
		t.Fatalf("first event = %v, want FlowStarted", events[0].Kind)
	}
	if events[len(events)-1].Kind != EventFlowCompleted {
		t.Fatalf("last event = %v, want FlowCompleted", events[len(events)-1].Kind)
	}
}

func TestOrchestratorRunFlowStepFailureAbortsRemaining(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	o := NewOrchestrator(bus)
	ranSecond := false
	flow := &Flow{
		Steps: []FlowStep{
			{Name: "step-1", Run: func(ctx context.Context, flowID, prior string) (string, error) {
				return "", errors.New("step failed")
			}},
			{Name: "step-2", Run: func(ctx context.Context, flowID, prior string) (string, error) {
				ranSecond = true
				return "tx", nil
			}},
		},
	}

	res := o.RunFlow(context.Background(), "flow-2", flow)
	if res.Success {
		t.Fatalf("expected flow to fail")
	}
	if res.LastStep != "step-1" {
		t.Fatalf("LastStep = %q, want step-1", res.LastStep)
	}
	if ranSecond {
		t.Fatalf("step-2 should never have run after step-1 failed")
	}
}

func TestOrchestratorRunFlowCancellation(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	o := NewOrchestrator(bus)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	flow := &Flow{
		Steps: []FlowStep{
			{Name: "step-1", Run: func(ctx context.Context, flowID, prior string) (string, error) {
				return "", ctx.Err()
			}},
		},
	}

	res := o.RunFlow(ctx, "flow-3", flow)
	if res.Success {
		t.Fatalf("expected a cancelled flow to fail")
	}

	var sawWarning bool
	for i := 0; i < 3; i++ {
		v := <-sub.C()
		if ev, ok := v.(Event); ok && ev.Kind == EventWarning {
			sawWarning = true
		}
	}
	if !sawWarning {
		t.Fatalf("expected a Warning event on cancellation")
	}
}

func TestOrchestratorRunFlowEmptySteps(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	o := NewOrchestrator(bus)
	res := o.RunFlow(context.Background(), "flow-4", &Flow{})
	if !res.Success {
		t.Fatalf("an empty flow should trivially succeed")
	}
	if res.LastStep != "" {
		t.Fatalf("LastStep = %q, want empty", res.LastStep)
	}
}
