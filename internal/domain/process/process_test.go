package process

import (
	"testing"
	"time"
)

func snapshot(state string, created time.Time) ProcessState {
	return ProcessState{
		State:     state,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestCurrentStateNameBeforeFirstTransition(t *testing.T) {
	p := New("proc-1", "soletojoint", "tenure-1")

	if p.CurrentState != nil {
		t.Error("expected nil CurrentState on a fresh process")
	}
	if got := p.CurrentStateName(); got != StateApplicationInitialised {
		t.Errorf("CurrentStateName() = %q, want %q", got, StateApplicationInitialised)
	}
	if len(p.PreviousStates) != 0 {
		t.Errorf("PreviousStates length = %d, want 0", len(p.PreviousStates))
	}
}

func TestApplyStateMovesCurrentIntoHistory(t *testing.T) {
	p := New("proc-1", "soletojoint", "tenure-1")
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	p.ApplyState(snapshot("SelectTenants", base))
	if len(p.PreviousStates) != 0 {
		t.Errorf("history after first transition = %d entries, want 0", len(p.PreviousStates))
	}

	p.ApplyState(snapshot("AutomatedChecksPassed", base.Add(time.Hour)))
	if p.CurrentStateName() != "AutomatedChecksPassed" {
		t.Errorf("CurrentStateName() = %q, want AutomatedChecksPassed", p.CurrentStateName())
	}
	if len(p.PreviousStates) != 1 {
		t.Fatalf("history = %d entries, want 1", len(p.PreviousStates))
	}
	if p.PreviousStates[0].State != "SelectTenants" {
		t.Errorf("history[0] = %q, want SelectTenants", p.PreviousStates[0].State)
	}
}

func TestApplyStateReentryKeepsCreatedAt(t *testing.T) {
	p := New("proc-1", "soletojoint", "tenure-1")
	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	p.ApplyState(snapshot("AppointmentRescheduled", first))
	p.ApplyState(snapshot("AppointmentRescheduled", second))

	if got := p.CurrentState.CreatedAt; !got.Equal(first) {
		t.Errorf("CreatedAt after re-entry = %v, want first entry time %v", got, first)
	}
	if got := p.CurrentState.UpdatedAt; !got.Equal(second) {
		t.Errorf("UpdatedAt after re-entry = %v, want %v", got, second)
	}

	// Re-entry still grows history: both visits are auditable.
	if len(p.PreviousStates) != 1 {
		t.Fatalf("history = %d entries, want 1", len(p.PreviousStates))
	}
	if p.PreviousStates[0].State != "AppointmentRescheduled" {
		t.Errorf("history[0] = %q, want AppointmentRescheduled", p.PreviousStates[0].State)
	}
}

func TestAddRelatedEntityDeduplicates(t *testing.T) {
	p := New("proc-1", "soletojoint", "tenure-1")

	p.AddRelatedEntity(RelatedEntity{ID: "person-2", TargetType: "person", SubType: "householdMember"})
	p.AddRelatedEntity(RelatedEntity{ID: "person-2", TargetType: "person", SubType: "householdMember"})
	p.AddRelatedEntity(RelatedEntity{ID: "person-2", TargetType: "person", SubType: "newName"})

	if len(p.RelatedEntities) != 2 {
		t.Errorf("related entities = %d, want 2", len(p.RelatedEntities))
	}
}

func TestPatchAssignment(t *testing.T) {
	p := New("proc-1", "soletojoint", "tenure-1")
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// No-op before the first transition
	p.PatchAssignment("housing-officer", now)
	if p.CurrentState != nil {
		t.Fatal("PatchAssignment must not create a snapshot")
	}

	p.ApplyState(snapshot("ApplicationSubmitted", now))
	p.PatchAssignment("tenancy-investigation", now.Add(time.Minute))

	if got := p.CurrentState.Assignment; got != "tenancy-investigation" {
		t.Errorf("Assignment = %q, want tenancy-investigation", got)
	}
	if len(p.PreviousStates) != 0 {
		t.Error("PatchAssignment must not grow history")
	}
}
