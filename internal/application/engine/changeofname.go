package engine

import (
	"context"
	"strings"

	"github.com/openhousing/processes/internal/domain/event"
	"github.com/openhousing/processes/internal/domain/form"
	"github.com/openhousing/processes/internal/domain/process"
	"github.com/openhousing/processes/internal/domain/statemachine"
)

// validateNewName requires at least one name part on the request
func validateNewName(ctx context.Context, tc *statemachine.TransitionContext) error {
	return form.RequireAtLeastOne(tc.Form, KeyTitle, KeyFirstName, KeyMiddleName, KeySurname)
}

// recordNewName records the submitted name as a related entity so the
// requested change is readable off the aggregate.
func recordNewName(ctx context.Context, tc *statemachine.TransitionContext) error {
	parts := make([]string, 0, 4)
	for _, key := range []string{KeyTitle, KeyFirstName, KeyMiddleName, KeySurname} {
		if val, ok := tc.Form[key]; ok {
			parts = append(parts, val.Text())
		}
	}

	tc.Process.AddRelatedEntity(process.RelatedEntity{
		ID:          tc.Process.TargetID,
		TargetType:  "person",
		SubType:     "newName",
		Description: strings.Join(parts, " "),
	})
	return nil
}

// NewChangeOfNameDefinition builds the transition graph for a legal name
// change request. It shares the document and investigation subgraphs with the
// sole-to-joint process.
func NewChangeOfNameDefinition(c Collaborators) *statemachine.Definition {
	b := statemachine.NewBuilder(ProcessNameChangeOfName, StateApplicationInitialised)

	b.MarkInternal(
		TriggerTIRecommendApprove,
		TriggerTIRecommendDecline,
		TriggerTIRecommendInterview,
		TriggerHOApprovalPassed,
		TriggerHOApprovalFailed,
	)

	appointment := []statemachine.ValidatorFunc{requireAppointment}
	review := []statemachine.ValidatorFunc{requireDocumentReview}
	name := []statemachine.ValidatorFunc{validateNewName}

	closed := emit(c, event.KindProcessClosed, KeyReason, KeyComment)
	cancelled := emit(c, event.KindProcessClosed, KeyComment)
	updated := emit(c, event.KindProcessUpdated)
	nameUpdated := emit(c, event.KindProcessUpdated, KeyTitle, KeyFirstName, KeyMiddleName, KeySurname)

	b.Configure(StateApplicationInitialised).
		Permit(TriggerStartApplication, StateEnterNewName, emit(c, event.KindProcessStarted))

	b.Configure(StateEnterNewName).
		PermitChecked(TriggerEnterName, StateNameSubmitted, name, recordNewName, nameUpdated).
		Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)

	b.Configure(StateNameSubmitted).
		Permit(TriggerRequestDocumentsDes, StateDocumentsRequestedDes, updated).
		PermitChecked(TriggerRequestDocumentsAppointment, StateDocumentsRequestedAppointment,
			appointment, emit(c, event.KindProcessUpdated, KeyAppointmentDateTime)).
		Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)

	configureDocumentsSubgraph(b, c, appointment, review, cancelled)

	b.Configure(StateDocumentChecksPassed).
		Permit(TriggerSubmitApplication, StateApplicationSubmitted, updated).
		Assign(TriggerSubmitApplication, assignmentTenancyInvestigator).
		Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)

	configureInvestigationSubgraph(b, c, appointment, cancelled)

	b.Configure(StateHOApprovalFailed).
		Permit(TriggerCloseProcess, StateProcessClosed, closed)

	b.Configure(StateHOApprovalPassed).
		Permit(TriggerUpdateName, StateNameUpdated, nameUpdated).
		Assign(TriggerUpdateName, assignmentHousingOfficer).
		Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)

	b.Configure(StateNameUpdated).
		Permit(TriggerCompleteProcess, StateProcessCompleted, emit(c, event.KindProcessCompleted))

	return b.Build()
}

// DefaultDefinitions builds the registry of supported process types
func DefaultDefinitions(c Collaborators) map[string]*statemachine.Definition {
	return map[string]*statemachine.Definition{
		ProcessNameSoleToJoint:  NewSoleToJointDefinition(c),
		ProcessNameChangeOfName: NewChangeOfNameDefinition(c),
	}
}
