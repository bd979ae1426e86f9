package core

import "testing"

func TestDefaultPipelinePassesOnCleanInput(t *testing.T) {
	sess := &Session{Capabilities: CapRead}
	in := &PipelineInput{Session: sess}
	if err := DefaultPipeline().Run(in); err != nil {
		t.Fatalf("clean input should pass the default pipeline: %v", err)
	}
}

func TestSystemAuthStageRejectsNilOrConsumedSession(t *testing.T) {
	if err := SystemAuthStage(&PipelineInput{}); err != ErrUnauthorized {
		t.Fatalf("nil session = %v, want ErrUnauthorized", err)
	}
	if err := SystemAuthStage(&PipelineInput{Session: &Session{Consumed: true}}); err != ErrSessionAlreadyConsumed {
		t.Fatalf("consumed session = %v, want ErrSessionAlreadyConsumed", err)
	}
}

func TestPauseStageRejectsWhenKernelPaused(t *testing.T) {
	led := newTestLedger(t)
	if err := SetKernelPaused(led, true); err != nil {
		t.Fatalf("SetKernelPaused: %v", err)
	}
	if err := PauseStage(&PipelineInput{Ledger: led}); err != ErrPaused {
		t.Fatalf("PauseStage while paused = %v, want ErrPaused", err)
	}

	if err := SetKernelPaused(led, false); err != nil {
		t.Fatalf("SetKernelPaused(false): %v", err)
	}
	if err := PauseStage(&PipelineInput{Ledger: led}); err != nil {
		t.Fatalf("PauseStage while unpaused: %v", err)
	}
}

func TestIsKernelPausedDefaultsFalse(t *testing.T) {
	led := newTestLedger(t)
	if IsKernelPaused(led) {
		t.Fatalf("kernel should not be paused before SetKernelPaused is ever called")
	}
}

func TestCapabilityIntegrityStage(t *testing.T) {
	fn := &FunctionEntry{RequiredCapabilities: CapAdmin}
	sess := &Session{Capabilities: CapRead}
	in := &PipelineInput{Session: sess, Function: fn}
	if err := CapabilityIntegrityStage(in); err != ErrInsufficientCapabilities {
		t.Fatalf("insufficient capability = %v, want ErrInsufficientCapabilities", err)
	}

	sess.Capabilities = CapAdmin | CapRead
	if err := CapabilityIntegrityStage(in); err != nil {
		t.Fatalf("sufficient capability should pass: %v", err)
	}
}

func TestTimeWindowStage(t *testing.T) {
	in := &PipelineInput{HasSlotWindow: true, CurrentSlot: 5, NotBeforeSlot: 10}
	if err := TimeWindowStage(in); err != ErrTimeout {
		t.Fatalf("slot before window = %v, want ErrTimeout", err)
	}

	in = &PipelineInput{HasSlotWindow: true, CurrentSlot: 20, NotAfterSlot: 10}
	if err := TimeWindowStage(in); err != ErrTimeout {
		t.Fatalf("slot after window = %v, want ErrTimeout", err)
	}

	in = &PipelineInput{HasSlotWindow: false, CurrentSlot: 999}
	if err := TimeWindowStage(in); err != nil {
		t.Fatalf("no window declared should always pass: %v", err)
	}
}

func TestParameterConstraintStage(t *testing.T) {
	in := &PipelineInput{ParamData: make([]byte, 100), MaxParamSize: 50}
	if err := ParameterConstraintStage(in); err != ErrInvalidParameters {
		t.Fatalf("oversized param data = %v, want ErrInvalidParameters", err)
	}

	in = &PipelineInput{ParamData: make([]byte, 10), MaxParamSize: 50}
	if err := ParameterConstraintStage(in); err != nil {
		t.Fatalf("in-bounds param data should pass: %v", err)
	}
}

func TestGuardEvaluationStage(t *testing.T) {
	allowed := testAddress(1)
	g := &Guard{Kind: GuardWhitelist, AllowedSenders: []Address{allowed}}

	in := &PipelineInput{Guard: g, GuardContext: &GuardContext{Submitter: allowed}}
	if err := GuardEvaluationStage(in); err != nil {
		t.Fatalf("passing guard should pass: %v", err)
	}

	in = &PipelineInput{Guard: g, GuardContext: &GuardContext{Submitter: testAddress(9)}}
	if err := GuardEvaluationStage(in); err != ErrGuardRejected {
		t.Fatalf("failing guard = %v, want ErrGuardRejected", err)
	}
}

func TestPipelineWithGuardStageAppendsExactlyOneStage(t *testing.T) {
	base := DefaultPipeline()
	extended := base.WithGuardStage()
	if len(extended.Stages) != len(base.Stages)+1 {
		t.Fatalf("WithGuardStage should append exactly one stage")
	}
	if len(base.Stages) != 5 {
		t.Fatalf("DefaultPipeline should have 5 stages, got %d", len(base.Stages))
	}
}

func TestPipelineRunStopsAtFirstFailure(t *testing.T) {
	calls := 0
	ok := func(*PipelineInput) error { calls++; return nil }
	fail := func(*PipelineInput) error { calls++; return ErrGuardRejected }
	never := func(*PipelineInput) error { calls++; return nil }

	p := &Pipeline{Stages: []Stage{ok, fail, never}}
	if err := p.Run(&PipelineInput{}); err != ErrGuardRejected {
		t.Fatalf("Run() = %v, want ErrGuardRejected", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 stages to run before stopping, got %d", calls)
	}
}
