package core

// verification_pipeline.go – chains the verification predicates of §4.8
// into a single pass/fail outcome (C7). Modeled on rollup_management.go's
// ledger-backed paused-flag pattern for the global pause stage and on
// access_control.go's StateRW-cache pattern for the rest.

import "time"

// kernelPausedKey is the ledger key for the global pause flag checked by
// PauseStage.
var kernelPausedKey = []byte("kernel:paused")

// SetKernelPaused flips the global pause flag checked by the verification
// pipeline's pause stage.
func SetKernelPaused(led StateRW, paused bool) error {
	v := byte(0)
	if paused {
		v = 1
	}
	return led.SetState(kernelPausedKey, []byte{v})
}

// IsKernelPaused reports the current global pause flag.
func IsKernelPaused(led StateRW) bool {
	b, err := led.GetState(kernelPausedKey)
	if err != nil || len(b) != 1 {
		return false
	}
	return b[0] == 1
}

// PipelineInput is the set of ambient facts a Stage may need. Not every
// stage reads every field.
type PipelineInput struct {
	Ledger         StateRW
	Session        *Session
	Function       *FunctionEntry
	CurrentSlot    uint64
	NotBeforeSlot  uint64
	NotAfterSlot   uint64
	HasSlotWindow  bool
	ParamData      []byte
	MaxParamSize   int
	Guard          *Guard
	GuardContext   *GuardContext
	VerificationKeys *VerificationKeyStore
	Timestamp      time.Time
}

// Stage is a single verification predicate; it returns nil on success or a
// sentinel error identifying the failure.
type Stage func(in *PipelineInput) error

// Pipeline is a declarative, ordered sequence of stages (§4.8): the default
// set is all five non-guard stages, in order, with a trailing guard stage
// appended whenever a capability specifies one.
type Pipeline struct {
	Stages []Stage
}

// DefaultPipeline assembles the default five-stage non-guard pipeline.
func DefaultPipeline() *Pipeline {
	return &Pipeline{Stages: []Stage{
		SystemAuthStage,
		PauseStage,
		CapabilityIntegrityStage,
		TimeWindowStage,
		ParameterConstraintStage,
	}}
}

// WithGuardStage returns a copy of p with the guard evaluation stage
// appended, for capabilities that declare a guard.
func (p *Pipeline) WithGuardStage() *Pipeline {
	stages := make([]Stage, len(p.Stages)+1)
	copy(stages, p.Stages)
	stages[len(p.Stages)] = GuardEvaluationStage
	return &Pipeline{Stages: stages}
}

// Run evaluates every stage left-to-right, aborting on the first failure.
func (p *Pipeline) Run(in *PipelineInput) error {
	for _, stage := range p.Stages {
		if err := stage(in); err != nil {
			return err
		}
	}
	return nil
}

// SystemAuthStage verifies the caller chain recorded on the session matches
// expectations: a session must exist and must not already be consumed,
// mirroring the entrypoint -> evaluator -> executor chain described in
// §4.8 stage 1 in terms this package's types actually carry.
func SystemAuthStage(in *PipelineInput) error {
	if in.Session == nil {
		return ErrUnauthorized
	}
	if in.Session.Consumed {
		return ErrSessionAlreadyConsumed
	}
	return nil
}

// PauseStage refuses execution while the kernel is globally paused.
func PauseStage(in *PipelineInput) error {
	if in.Ledger != nil && IsKernelPaused(in.Ledger) {
		return ErrPaused
	}
	return nil
}

// CapabilityIntegrityStage checks the function's required capabilities are
// a subset of the session's capabilities.
func CapabilityIntegrityStage(in *PipelineInput) error {
	if in.Function == nil {
		return nil
	}
	if in.Session == nil {
		return ErrUnauthorized
	}
	if !in.Function.RequiredCapabilities.Subset(in.Session.Capabilities) {
		return ErrInsufficientCapabilities
	}
	return nil
}

// TimeWindowStage checks the optional block-height/slot window condition.
func TimeWindowStage(in *PipelineInput) error {
	if !in.HasSlotWindow {
		return nil
	}
	if in.NotBeforeSlot != 0 && in.CurrentSlot < in.NotBeforeSlot {
		return ErrTimeout
	}
	if in.NotAfterSlot != 0 && in.CurrentSlot > in.NotAfterSlot {
		return ErrTimeout
	}
	return nil
}

// ParameterConstraintStage enforces the declared size limit on operation
// parameter data.
func ParameterConstraintStage(in *PipelineInput) error {
	if in.MaxParamSize <= 0 {
		return nil
	}
	if len(in.ParamData) > in.MaxParamSize {
		return ErrInvalidParameters
	}
	return nil
}

// GuardEvaluationStage runs the guard evaluator (§4.4) when a guard is
// attached to the pipeline input.
func GuardEvaluationStage(in *PipelineInput) error {
	if in.Guard == nil {
		return nil
	}
	ok, err := EvaluateGuard(in.Guard, in.GuardContext, in.VerificationKeys)
	if err != nil {
		return err
	}
	if !ok {
		return ErrGuardRejected
	}
	return nil
}
