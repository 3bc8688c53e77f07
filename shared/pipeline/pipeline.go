// Package pipeline implements the policy-gated mutation pipeline every portal
// write goes through: decode -> authorize -> precondition-check -> mutate ->
// audit -> invalidate. The three admin surfaces all call into this one
// module, so an authorization rule can never drift between them.
package pipeline

import (
	"context"
	"log"
	"strings"
)

// Executor performs the actual write for one logical mutation, including its
// precondition checks (dependent-row counts, rate limits, confirmation
// matches). It returns the reference of the affected entity and the
// diff-relevant metadata for the audit trail.
type Executor func(ctx context.Context) (EntityRef, map[string]interface{}, *Failure)

// Pipeline wires the shared side-effect collaborators. One instance per
// process; all state it touches is external (database, Redis).
type Pipeline struct {
	Recorder    AuditRecorder
	Invalidator ViewInvalidator
}

// Execute runs one mutation through the gate. Steps are strictly sequential:
// authorization, then the executor, then - only after the write has durably
// succeeded - the audit record and view invalidation. Audit failure is logged
// and does not roll back the mutation; it is an observability channel, not a
// correctness one.
func (p *Pipeline) Execute(ctx context.Context, actor *AccessContext, act Action, views []string, exec Executor) (EntityRef, *Failure) {
	if failure := Authorize(actor, act); failure != nil {
		return EntityRef{}, failure
	}

	ref, metadata, failure := exec(ctx)
	if failure != nil {
		return EntityRef{}, failure
	}

	if p.Recorder != nil {
		event := Event{Actor: actor, Action: act.Name, Ref: ref, Metadata: metadata}
		if err := p.Recorder.Record(ctx, event); err != nil {
			log.Printf("⚠️ audit record failed for %s %s/%s: %v", act.Name, ref.Table, ref.ID, err)
		}
	}

	if p.Invalidator != nil && len(views) > 0 {
		p.Invalidator.Invalidate(ctx, views...)
	}

	return ref, nil
}

// ConfirmName gates destructive actions behind a typed confirmation: the
// submitted text must case-insensitively equal the entity's current name.
// Checked before any destructive call is attempted.
func ConfirmName(submitted *string, actual string) *Failure {
	if submitted == nil || !strings.EqualFold(strings.TrimSpace(*submitted), strings.TrimSpace(actual)) {
		return Validation("confirm_name", "Confirmation text does not match the name")
	}
	return nil
}
