package engine

import (
	"context"
	"fmt"

	"github.com/openhousing/processes/internal/application/port"
	"github.com/openhousing/processes/internal/domain/eligibility"
	"github.com/openhousing/processes/internal/domain/event"
	"github.com/openhousing/processes/internal/domain/form"
	"github.com/openhousing/processes/internal/domain/process"
	"github.com/openhousing/processes/internal/domain/statemachine"
)

// resolveAutomatedEligibility is the guard behind CheckAutomatedEligibility.
// It fetches the tenure and the proposed tenant, runs the automated rule
// battery and routes to the pass or fail trigger. The proposed tenant is
// staged as a related entity so the aggregate records who the application
// concerns.
func resolveAutomatedEligibility(c Collaborators) statemachine.ResolverFunc {
	return func(ctx context.Context, tc *statemachine.TransitionContext) (statemachine.Trigger, error) {
		if err := form.RequireAll(tc.Form, KeyIncomingTenantID, KeyTenantID); err != nil {
			return "", err
		}

		incomingTenantID := tc.Form[KeyIncomingTenantID].Text()
		tenantID := tc.Form[KeyTenantID].Text()

		tenure, err := c.Tenures.GetTenureByID(ctx, tc.Process.TargetID)
		if err != nil {
			return "", fmt.Errorf("tenure lookup for %s: %w", tc.Process.TargetID, err)
		}
		if tenure == nil {
			return "", fmt.Errorf("%w: tenure %s", port.ErrDomainReferenceNotFound, tc.Process.TargetID)
		}

		proposed, err := c.Persons.GetPersonByID(ctx, incomingTenantID)
		if err != nil {
			return "", fmt.Errorf("person lookup for %s: %w", incomingTenantID, err)
		}
		if proposed == nil {
			return "", fmt.Errorf("%w: person %s", port.ErrDomainReferenceNotFound, incomingTenantID)
		}

		checker := eligibility.NewAutomatedChecker()
		passed, err := checker.Evaluate(&eligibility.Context{
			Tenure:     tenure,
			Proposed:   proposed,
			TenantID:   tenantID,
			ProposedID: incomingTenantID,
			Now:        c.now(),
		})
		if err != nil {
			return "", err
		}

		tc.Eligibility = checker.Results()
		tc.Related = append(tc.Related, process.RelatedEntity{
			ID:          incomingTenantID,
			TargetType:  "person",
			SubType:     "householdMember",
			Description: proposed.FullName(),
		})

		if passed {
			return TriggerAutomatedEligibilityPassed, nil
		}
		return TriggerAutomatedEligibilityFailed, nil
	}
}

// NewSoleToJointDefinition builds the transition graph for converting a sole
// tenancy into a joint tenancy.
func NewSoleToJointDefinition(c Collaborators) *statemachine.Definition {
	b := statemachine.NewBuilder(ProcessNameSoleToJoint, StateApplicationInitialised)

	b.MarkInternal(
		TriggerAutomatedEligibilityPassed,
		TriggerAutomatedEligibilityFailed,
		TriggerManualEligibilityPassed,
		TriggerManualEligibilityFailed,
		TriggerBreachChecksPassed,
		TriggerBreachChecksFailed,
		TriggerTIRecommendApprove,
		TriggerTIRecommendDecline,
		TriggerTIRecommendInterview,
		TriggerHOApprovalPassed,
		TriggerHOApprovalFailed,
	)

	appointment := []statemachine.ValidatorFunc{requireAppointment}
	review := []statemachine.ValidatorFunc{requireDocumentReview}

	closed := emit(c, event.KindProcessClosed, KeyReason, KeyComment)
	cancelled := emit(c, event.KindProcessClosed, KeyComment)
	updated := emit(c, event.KindProcessUpdated)

	b.Configure(StateApplicationInitialised).
		Permit(TriggerStartApplication, StateSelectTenants, emit(c, event.KindProcessStarted))

	b.Configure(StateSelectTenants).
		PermitInternal(TriggerCheckAutomatedEligibility, resolveAutomatedEligibility(c)).
		Permit(TriggerAutomatedEligibilityPassed, StateAutomatedChecksPassed, updated).
		Permit(TriggerAutomatedEligibilityFailed, StateAutomatedChecksFailed, updated)

	b.Configure(StateAutomatedChecksFailed).
		Permit(TriggerCloseProcess, StateProcessClosed, closed)

	b.Configure(StateAutomatedChecksPassed).
		PermitInternal(TriggerCheckManualEligibility,
			booleanGate(manualEligibilityQuestions, TriggerManualEligibilityPassed, TriggerManualEligibilityFailed)).
		Permit(TriggerManualEligibilityPassed, StateManualChecksPassed, updated).
		Permit(TriggerManualEligibilityFailed, StateManualChecksFailed, updated).
		Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)

	b.Configure(StateManualChecksFailed).
		Permit(TriggerCloseProcess, StateProcessClosed, closed)

	b.Configure(StateManualChecksPassed).
		PermitInternal(TriggerCheckTenancyBreach,
			booleanGate(breachCheckQuestions, TriggerBreachChecksPassed, TriggerBreachChecksFailed)).
		Permit(TriggerBreachChecksPassed, StateBreachChecksPassed, updated).
		Permit(TriggerBreachChecksFailed, StateBreachChecksFailed, updated).
		Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)

	b.Configure(StateBreachChecksFailed).
		Permit(TriggerCloseProcess, StateProcessClosed, closed)

	b.Configure(StateBreachChecksPassed).
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
		PermitChecked(TriggerScheduleTenureAppointment, StateTenureAppointmentScheduled,
			appointment, emit(c, event.KindProcessUpdated, KeyAppointmentDateTime)).
		Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)

	b.Configure(StateTenureAppointmentScheduled).
		PermitChecked(TriggerRescheduleTenureAppointment, StateTenureAppointmentRescheduled,
			appointment, emit(c, event.KindProcessUpdated, KeyAppointmentDateTime)).
		Permit(TriggerUpdateTenure, StateTenureUpdated, updated).
		Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)

	b.Configure(StateTenureAppointmentRescheduled).
		PermitReentry(TriggerRescheduleTenureAppointment,
			appointment, emit(c, event.KindProcessUpdated, KeyAppointmentDateTime)).
		Permit(TriggerUpdateTenure, StateTenureUpdated, updated).
		Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)

	b.Configure(StateTenureUpdated).
		Permit(TriggerCompleteProcess, StateProcessCompleted, emit(c, event.KindProcessCompleted))

	return b.Build()
}

// configureDocumentsSubgraph wires the document request/reschedule/review
// states shared by both process types.
func configureDocumentsSubgraph(b *statemachine.Builder, c Collaborators,
	appointment, review []statemachine.ValidatorFunc, cancelled statemachine.ActionFunc) {

	updated := emit(c, event.KindProcessUpdated)
	appointmentUpdated := emit(c, event.KindProcessUpdated, KeyAppointmentDateTime)

	b.Configure(StateDocumentsRequestedDes).
		PermitChecked(TriggerRequestDocumentsAppointment, StateDocumentsRequestedAppointment,
			appointment, appointmentUpdated).
		PermitChecked(TriggerReviewDocuments, StateDocumentChecksPassed, review, updated).
		Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)

	b.Configure(StateDocumentsRequestedAppointment).
		PermitChecked(TriggerRescheduleDocumentsAppointment, StateDocumentsAppointmentRescheduled,
			appointment, appointmentUpdated).
		PermitChecked(TriggerReviewDocuments, StateDocumentChecksPassed, review, updated).
		Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)

	b.Configure(StateDocumentsAppointmentRescheduled).
		PermitReentry(TriggerRescheduleDocumentsAppointment, appointment, appointmentUpdated).
		PermitChecked(TriggerReviewDocuments, StateDocumentChecksPassed, review, updated).
		Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)
}

// configureInvestigationSubgraph wires the tenure investigation, interview and
// housing-officer approval states shared by both process types.
func configureInvestigationSubgraph(b *statemachine.Builder, c Collaborators,
	appointment []statemachine.ValidatorFunc, cancelled statemachine.ActionFunc) {

	appointmentUpdated := emit(c, event.KindProcessUpdated, KeyAppointmentDateTime)

	tiGate := recommendationGate(KeyTIRecommendation, map[string]statemachine.Trigger{
		RecommendationApprove:     TriggerTIRecommendApprove,
		RecommendationDecline:     TriggerTIRecommendDecline,
		RecommendationAppointment: TriggerTIRecommendInterview,
	})
	hoGate := recommendationGate(KeyHORecommendation, map[string]statemachine.Trigger{
		RecommendationApprove: TriggerHOApprovalPassed,
		RecommendationDecline: TriggerHOApprovalFailed,
	})

	tiUpdated := emit(c, event.KindProcessUpdated, KeyTIRecommendation)
	hoUpdated := emit(c, event.KindProcessUpdated, KeyHORecommendation, KeyReason)

	b.Configure(StateApplicationSubmitted).
		PermitInternal(TriggerTenureInvestigation, tiGate).
		Permit(TriggerTIRecommendApprove, StateTenureInvestigationPassed, tiUpdated).
		Permit(TriggerTIRecommendDecline, StateTenureInvestigationFailed, tiUpdated).
		Permit(TriggerTIRecommendInterview, StateTenureInvestigationPassedWithInt, tiUpdated).
		Assign(TriggerTIRecommendApprove, assignmentAreaHousingManager).
		Assign(TriggerTIRecommendDecline, assignmentAreaHousingManager).
		Assign(TriggerTIRecommendInterview, assignmentAreaHousingManager)

	for _, state := range []statemachine.State{
		StateTenureInvestigationPassed,
		StateTenureInvestigationFailed,
		StateTenureInvestigationPassedWithInt,
	} {
		b.Configure(state).
			PermitInternal(TriggerHOApproval, hoGate).
			Permit(TriggerHOApprovalPassed, StateHOApprovalPassed, hoUpdated).
			Permit(TriggerHOApprovalFailed, StateHOApprovalFailed, hoUpdated).
			PermitChecked(TriggerScheduleInterview, StateInterviewScheduled, appointment, appointmentUpdated).
			Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)
	}

	b.Configure(StateInterviewScheduled).
		PermitChecked(TriggerRescheduleInterview, StateInterviewRescheduled, appointment, appointmentUpdated).
		PermitInternal(TriggerHOApproval, hoGate).
		Permit(TriggerHOApprovalPassed, StateHOApprovalPassed, hoUpdated).
		Permit(TriggerHOApprovalFailed, StateHOApprovalFailed, hoUpdated).
		Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)

	b.Configure(StateInterviewRescheduled).
		PermitReentry(TriggerRescheduleInterview, appointment, appointmentUpdated).
		PermitInternal(TriggerHOApproval, hoGate).
		Permit(TriggerHOApprovalPassed, StateHOApprovalPassed, hoUpdated).
		Permit(TriggerHOApprovalFailed, StateHOApprovalFailed, hoUpdated).
		Permit(TriggerCancelProcess, StateProcessCancelled, cancelled)
}
