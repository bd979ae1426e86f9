package core

// guard_evaluator.go – evaluates a Guard against a GuardContext (§4.4). The
// evaluator is pure: it never mutates ledger state and never borrows
// accounts; batch_executor.go decides what to do with the boolean result.
// Composite guards recurse with a bounded depth to rule out cyclic or
// maliciously deep guard trees (§8, property 4).

const maxGuardDepth = 8

// EvaluateGuard checks g against ctx, consulting vks for ZkProof guards.
func EvaluateGuard(g *Guard, ctx *GuardContext, vks *VerificationKeyStore) (bool, error) {
	return evaluateGuardDepth(g, ctx, vks, 0)
}

func evaluateGuardDepth(g *Guard, ctx *GuardContext, vks *VerificationKeyStore, depth int) (bool, error) {
	if g == nil {
		return true, nil
	}
	if depth >= maxGuardDepth {
		return false, ErrRecursionTooDeep
	}

	switch g.Kind {
	case GuardWhitelist:
		return evaluateWhitelist(g, ctx), nil
	case GuardTimeWindow:
		return evaluateTimeWindow(g, ctx), nil
	case GuardZkProof:
		return evaluateZkProof(g, ctx, vks)
	case GuardComposite:
		return evaluateComposite(g, ctx, vks, depth)
	default:
		return false, ErrGuardRejected
	}
}

func evaluateWhitelist(g *Guard, ctx *GuardContext) bool {
	for _, addr := range g.AllowedSenders {
		if addr == ctx.Submitter {
			return true
		}
	}
	return false
}

func evaluateTimeWindow(g *Guard, ctx *GuardContext) bool {
	if !g.NotBefore.IsZero() && ctx.Timestamp.Before(g.NotBefore) {
		return false
	}
	if !g.NotAfter.IsZero() && ctx.Timestamp.After(g.NotAfter) {
		return false
	}
	return true
}

func evaluateZkProof(g *Guard, ctx *GuardContext, vks *VerificationKeyStore) (bool, error) {
	if vks == nil {
		return false, ErrVerificationKeyNotFound
	}
	vk, err := vks.Get(g.VKID, ctx.Owner)
	if err != nil {
		return false, err
	}
	if vk.ProofSystem != g.ProofSystem {
		return false, ErrProofSystemMismatch
	}
	if g.RequireWhitelistedSubmitter {
		allowed := false
		for _, addr := range vk.WhitelistedSubmitters {
			if addr == ctx.Submitter {
				allowed = true
				break
			}
		}
		if !allowed {
			return false, ErrSubmitterNotWhitelisted
		}
	}
	verifier, err := VerifierFor(g.ProofSystem)
	if err != nil {
		return false, err
	}
	return verifier.Verify(vk, g.Proof, g.PublicValues)
}

func evaluateComposite(g *Guard, ctx *GuardContext, vks *VerificationKeyStore, depth int) (bool, error) {
	if len(g.Children) == 0 {
		return false, ErrGuardRejected
	}
	switch g.Op {
	case CompositeAND:
		for i := range g.Children {
			ok, err := evaluateGuardDepth(&g.Children[i], ctx, vks, depth+1)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case CompositeOR:
		var lastErr error
		for i := range g.Children {
			ok, err := evaluateGuardDepth(&g.Children[i], ctx, vks, depth+1)
			if err != nil {
				lastErr = err
				continue
			}
			if ok {
				return true, nil
			}
		}
		if lastErr != nil {
			return false, lastErr
		}
		return false, nil
	default:
		return false, ErrGuardRejected
	}
}
