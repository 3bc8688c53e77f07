package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	events []Event
	err    error
}

func (r *fakeRecorder) Record(ctx context.Context, e Event) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

type fakeInvalidator struct {
	paths []string
}

func (i *fakeInvalidator) Invalidate(ctx context.Context, paths ...string) {
	i.paths = append(i.paths, paths...)
}

func globalAdminActor() *AccessContext {
	return &AccessContext{
		UserID:      uuid.New(),
		ProfileID:   uuid.New(),
		Email:       "ops@carelink.org",
		GlobalAdmin: true,
	}
}

func TestExecute_AuditsAndInvalidatesOnSuccess(t *testing.T) {
	recorder := &fakeRecorder{}
	invalidator := &fakeInvalidator{}
	pipe := &Pipeline{Recorder: recorder, Invalidator: invalidator}

	ref := RefUUID("organizations", uuid.New())
	act := Action{Name: "organization_created", Capability: CapGlobalOrgs}

	got, failure := pipe.Execute(context.Background(), globalAdminActor(), act, []string{"/organizations"},
		func(ctx context.Context) (EntityRef, map[string]interface{}, *Failure) {
			return ref, map[string]interface{}{"name": "Harbor Light"}, nil
		})

	require.Nil(t, failure)
	assert.Equal(t, ref, got)
	require.Len(t, recorder.events, 1)
	assert.Equal(t, "organization_created", recorder.events[0].Action)
	assert.Equal(t, ref, recorder.events[0].Ref)
	assert.Equal(t, []string{"/organizations"}, invalidator.paths)
}

func TestExecute_NoAuditOrInvalidationOnDenial(t *testing.T) {
	recorder := &fakeRecorder{}
	invalidator := &fakeInvalidator{}
	pipe := &Pipeline{Recorder: recorder, Invalidator: invalidator}

	executed := false
	act := Action{Name: "organization_created", Capability: CapGlobalOrgs}

	_, failure := pipe.Execute(context.Background(), &AccessContext{ProfileID: uuid.New()}, act, []string{"/organizations"},
		func(ctx context.Context) (EntityRef, map[string]interface{}, *Failure) {
			executed = true
			return EntityRef{}, nil, nil
		})

	require.NotNil(t, failure)
	assert.Equal(t, FailureUnauthorized, failure.Kind)
	assert.False(t, executed, "executor must not run when authorization fails")
	assert.Empty(t, recorder.events)
	assert.Empty(t, invalidator.paths)
}

func TestExecute_NoAuditOrInvalidationOnExecutorFailure(t *testing.T) {
	recorder := &fakeRecorder{}
	invalidator := &fakeInvalidator{}
	pipe := &Pipeline{Recorder: recorder, Invalidator: invalidator}

	act := Action{Name: "organization_deleted", Capability: CapGlobalOrgs}

	_, failure := pipe.Execute(context.Background(), globalAdminActor(), act, []string{"/organizations"},
		func(ctx context.Context) (EntityRef, map[string]interface{}, *Failure) {
			return EntityRef{}, nil, Integrity("")
		})

	require.NotNil(t, failure)
	assert.Equal(t, FailureIntegrity, failure.Kind)
	assert.Empty(t, recorder.events)
	assert.Empty(t, invalidator.paths)
}

func TestExecute_AuditFailureDoesNotFailMutation(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("audit store down")}
	invalidator := &fakeInvalidator{}
	pipe := &Pipeline{Recorder: recorder, Invalidator: invalidator}

	ref := RefUUID("invites", uuid.New())
	act := Action{Name: "invite_created", Capability: CapGlobalOrgs}

	got, failure := pipe.Execute(context.Background(), globalAdminActor(), act, []string{"/invites"},
		func(ctx context.Context) (EntityRef, map[string]interface{}, *Failure) {
			return ref, nil, nil
		})

	assert.Nil(t, failure)
	assert.Equal(t, ref, got)
	// Invalidation still happens even when the audit write failed
	assert.Equal(t, []string{"/invites"}, invalidator.paths)
}

func TestConfirmName(t *testing.T) {
	submit := func(s string) *string { return &s }

	assert.Nil(t, ConfirmName(submit("Harbor Light"), "Harbor Light"))
	assert.Nil(t, ConfirmName(submit("  harbor light "), "Harbor Light"))

	failure := ConfirmName(submit("Harbour Light"), "Harbor Light")
	require.NotNil(t, failure)
	assert.Equal(t, FailureValidation, failure.Kind)
	assert.Equal(t, "confirm_name", failure.Field)

	failure = ConfirmName(nil, "Harbor Light")
	require.NotNil(t, failure)
	assert.Equal(t, FailureValidation, failure.Kind)
}
