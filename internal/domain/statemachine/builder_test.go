package statemachine

import (
	"context"
	"reflect"
	"testing"
)

const (
	stateDraft    = State("Draft")
	stateReview   = State("Review")
	stateApproved = State("Approved")
	stateRejected = State("Rejected")
	triggerSubmit = Trigger("Submit")
	triggerDecide = Trigger("Decide")
	triggerRework = Trigger("Rework")
	triggerPassed = Trigger("Passed")
	triggerFailed = Trigger("Failed")
)

func buildTestDefinition(t *testing.T) *Definition {
	t.Helper()

	b := NewBuilder("review", stateDraft)
	b.MarkInternal(triggerPassed, triggerFailed)

	b.Configure(stateDraft).
		Permit(triggerSubmit, stateReview)

	b.Configure(stateReview).
		PermitInternal(triggerDecide, func(ctx context.Context, tc *TransitionContext) (Trigger, error) {
			return triggerPassed, nil
		}).
		Permit(triggerPassed, stateApproved).
		Permit(triggerFailed, stateRejected).
		PermitReentry(triggerRework, nil)

	return b.Build()
}

func TestDefinitionEdgeLookup(t *testing.T) {
	def := buildTestDefinition(t)

	tests := []struct {
		name    string
		state   State
		trigger Trigger
		found   bool
	}{
		{"configured edge", stateDraft, triggerSubmit, true},
		{"internal edge", stateReview, triggerDecide, true},
		{"reentry edge", stateReview, triggerRework, true},
		{"unknown trigger", stateDraft, triggerDecide, false},
		{"unknown state", stateApproved, triggerSubmit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := def.Edge(tt.state, tt.trigger)
			if ok != tt.found {
				t.Errorf("Edge(%s, %s) found = %v, want %v", tt.state, tt.trigger, ok, tt.found)
			}
		})
	}
}

func TestDefinitionPermittedTriggersExcludesInternal(t *testing.T) {
	def := buildTestDefinition(t)

	got := def.PermittedTriggers(stateReview)
	want := []string{"Decide", "Rework"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PermittedTriggers(%s) = %v, want %v", stateReview, got, want)
	}

	if got := def.PermittedTriggers(stateApproved); len(got) != 0 {
		t.Errorf("PermittedTriggers(%s) = %v, want empty", stateApproved, got)
	}
}

func TestDefinitionIsInternalTrigger(t *testing.T) {
	def := buildTestDefinition(t)

	if !def.IsInternalTrigger(triggerPassed) {
		t.Error("expected triggerPassed to be internal")
	}
	if def.IsInternalTrigger(triggerSubmit) {
		t.Error("expected triggerSubmit to be external")
	}
}

func TestDefinitionInitialState(t *testing.T) {
	def := buildTestDefinition(t)

	if def.InitialState() != stateDraft {
		t.Errorf("InitialState() = %s, want %s", def.InitialState(), stateDraft)
	}
	if def.Name() != "review" {
		t.Errorf("Name() = %s, want review", def.Name())
	}
}

func TestReentryEdgeKeepsDestination(t *testing.T) {
	def := buildTestDefinition(t)

	edge, ok := def.Edge(stateReview, triggerRework)
	if !ok {
		t.Fatal("expected reentry edge")
	}
	if !edge.Reentry {
		t.Error("expected Reentry to be set")
	}
	if edge.Destination != stateReview {
		t.Errorf("Destination = %s, want %s", edge.Destination, stateReview)
	}
}

func TestInternalEdgeHasNoDestination(t *testing.T) {
	def := buildTestDefinition(t)

	edge, ok := def.Edge(stateReview, triggerDecide)
	if !ok {
		t.Fatal("expected internal edge")
	}
	if !edge.Internal() {
		t.Error("expected Internal() to be true")
	}
	if edge.Destination != "" {
		t.Errorf("Destination = %s, want empty", edge.Destination)
	}
}

func TestBuilderPanicsOnDuplicateEdge(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate edge")
		}
	}()

	b := NewBuilder("dup", stateDraft)
	b.Configure(stateDraft).
		Permit(triggerSubmit, stateReview).
		Permit(triggerSubmit, stateApproved)
}

func TestBuildPanicsOnUnresolvableInternalTrigger(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on internal trigger without edge")
		}
	}()

	b := NewBuilder("orphan", stateDraft)
	b.MarkInternal(triggerPassed)
	b.Configure(stateDraft).Permit(triggerSubmit, stateReview)
	b.Build()
}

func TestAssignPanicsBeforePermit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on Assign before Permit")
		}
	}()

	b := NewBuilder("assign", stateDraft)
	b.Configure(stateDraft).Assign(triggerSubmit, "some-team")
}

func TestAssignStampsEdge(t *testing.T) {
	b := NewBuilder("assign", stateDraft)
	b.Configure(stateDraft).
		Permit(triggerSubmit, stateReview).
		Assign(triggerSubmit, "review-team")
	def := b.Build()

	edge, _ := def.Edge(stateDraft, triggerSubmit)
	if edge.Assignment != "review-team" {
		t.Errorf("Assignment = %q, want review-team", edge.Assignment)
	}
}
