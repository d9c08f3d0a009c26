package engine

import "github.com/openhousing/processes/internal/domain/statemachine"

// Process names governed by the default definition registry
const (
	ProcessNameSoleToJoint  = "soletojoint"
	ProcessNameChangeOfName = "changeofname"
)

// States shared by both process types
const (
	StateApplicationInitialised = statemachine.State("ApplicationInitialised")

	StateDocumentsRequestedDes           = statemachine.State("DocumentsRequestedDes")
	StateDocumentsRequestedAppointment   = statemachine.State("DocumentsRequestedAppointment")
	StateDocumentsAppointmentRescheduled = statemachine.State("DocumentsAppointmentRescheduled")
	StateDocumentChecksPassed            = statemachine.State("DocumentChecksPassed")

	StateApplicationSubmitted             = statemachine.State("ApplicationSubmitted")
	StateTenureInvestigationPassed        = statemachine.State("TenureInvestigationPassed")
	StateTenureInvestigationFailed        = statemachine.State("TenureInvestigationFailed")
	StateTenureInvestigationPassedWithInt = statemachine.State("TenureInvestigationPassedWithInt")
	StateInterviewScheduled               = statemachine.State("InterviewScheduled")
	StateInterviewRescheduled             = statemachine.State("InterviewRescheduled")
	StateHOApprovalPassed                 = statemachine.State("HOApprovalPassed")
	StateHOApprovalFailed                 = statemachine.State("HOApprovalFailed")

	StateProcessClosed    = statemachine.State("ProcessClosed")
	StateProcessCancelled = statemachine.State("ProcessCancelled")
	StateProcessCompleted = statemachine.State("ProcessCompleted")
)

// Sole-to-joint specific states
const (
	StateSelectTenants                = statemachine.State("SelectTenants")
	StateAutomatedChecksPassed        = statemachine.State("AutomatedChecksPassed")
	StateAutomatedChecksFailed        = statemachine.State("AutomatedChecksFailed")
	StateManualChecksPassed           = statemachine.State("ManualChecksPassed")
	StateManualChecksFailed           = statemachine.State("ManualChecksFailed")
	StateBreachChecksPassed           = statemachine.State("BreachChecksPassed")
	StateBreachChecksFailed           = statemachine.State("BreachChecksFailed")
	StateTenureAppointmentScheduled   = statemachine.State("TenureAppointmentScheduled")
	StateTenureAppointmentRescheduled = statemachine.State("TenureAppointmentRescheduled")
	StateTenureUpdated                = statemachine.State("TenureUpdated")
)

// Change-of-name specific states
const (
	StateEnterNewName  = statemachine.State("EnterNewName")
	StateNameSubmitted = statemachine.State("NameSubmitted")
	StateNameUpdated   = statemachine.State("NameUpdated")
)

// Externally invocable triggers
const (
	TriggerStartApplication = statemachine.Trigger("StartApplication")

	TriggerCheckAutomatedEligibility = statemachine.Trigger("CheckAutomatedEligibility")
	TriggerCheckManualEligibility    = statemachine.Trigger("CheckManualEligibility")
	TriggerCheckTenancyBreach        = statemachine.Trigger("CheckTenancyBreach")

	TriggerRequestDocumentsDes            = statemachine.Trigger("RequestDocumentsDes")
	TriggerRequestDocumentsAppointment    = statemachine.Trigger("RequestDocumentsAppointment")
	TriggerRescheduleDocumentsAppointment = statemachine.Trigger("RescheduleDocumentsAppointment")
	TriggerReviewDocuments                = statemachine.Trigger("ReviewDocuments")

	TriggerSubmitApplication   = statemachine.Trigger("SubmitApplication")
	TriggerTenureInvestigation = statemachine.Trigger("TenureInvestigation")
	TriggerScheduleInterview   = statemachine.Trigger("ScheduleInterview")
	TriggerRescheduleInterview = statemachine.Trigger("RescheduleInterview")
	TriggerHOApproval          = statemachine.Trigger("HOApproval")

	TriggerScheduleTenureAppointment   = statemachine.Trigger("ScheduleTenureAppointment")
	TriggerRescheduleTenureAppointment = statemachine.Trigger("RescheduleTenureAppointment")
	TriggerUpdateTenure                = statemachine.Trigger("UpdateTenure")

	TriggerEnterName  = statemachine.Trigger("EnterName")
	TriggerUpdateName = statemachine.Trigger("UpdateName")

	TriggerCancelProcess   = statemachine.Trigger("CancelProcess")
	TriggerCloseProcess    = statemachine.Trigger("CloseProcess")
	TriggerCompleteProcess = statemachine.Trigger("CompleteProcess")
)

// Internal routing triggers, produced only by guard resolution
const (
	TriggerAutomatedEligibilityPassed = statemachine.Trigger("AutomatedEligibilityPassed")
	TriggerAutomatedEligibilityFailed = statemachine.Trigger("AutomatedEligibilityFailed")
	TriggerManualEligibilityPassed    = statemachine.Trigger("ManualEligibilityPassed")
	TriggerManualEligibilityFailed    = statemachine.Trigger("ManualEligibilityFailed")
	TriggerBreachChecksPassed         = statemachine.Trigger("BreachChecksPassed")
	TriggerBreachChecksFailed         = statemachine.Trigger("BreachChecksFailed")
	TriggerTIRecommendApprove         = statemachine.Trigger("TenureInvestigationPassed")
	TriggerTIRecommendDecline         = statemachine.Trigger("TenureInvestigationFailed")
	TriggerTIRecommendInterview       = statemachine.Trigger("TenureInvestigationPassedWithInt")
	TriggerHOApprovalPassed           = statemachine.Trigger("HOApprovalPassed")
	TriggerHOApprovalFailed           = statemachine.Trigger("HOApprovalFailed")
)

// Form data keys
const (
	KeyIncomingTenantID    = "incomingTenantId"
	KeyTenantID            = "tenantId"
	KeyAppointmentDateTime = "appointmentDateTime"
	KeyReason              = "reason"
	KeyComment             = "comment"

	KeyTIRecommendation = "tenureInvestigationRecommendation"
	KeyHORecommendation = "hoRecommendation"

	KeyTitle      = "title"
	KeyFirstName  = "firstName"
	KeyMiddleName = "middleName"
	KeySurname    = "surname"
)

// Recommendation values accepted on investigation and approval forms
const (
	RecommendationApprove     = "approve"
	RecommendationDecline     = "decline"
	RecommendationAppointment = "appointment"
)

// Manual eligibility questions with their passing answers
var manualEligibilityQuestions = map[string]bool{
	"br11": true,  // proposed tenant living at the property
	"br12": false, // court order prohibits occupation
	"br13": false, // possession notice in force against the household
	"br15": false, // proposed tenant holds a joint tenancy elsewhere
	"br16": true,  // relationship evidence provided
}

// Tenancy breach questions with their passing answers
var breachCheckQuestions = map[string]bool{
	"br5":  false, // tenancy breach identified
	"br10": false, // rent arrears above the action threshold
	"br17": false, // live notice of seeking possession
	"br18": false, // property subject to legal action
}

// Document review confirmations; at least one must be recorded
var documentReviewKeys = []string{
	"seenPhotographicId",
	"seenSecondId",
	"seenProofOfRelationship",
	"isNotInImmigrationControl",
	"incomingTenantLivingInProperty",
}

// Assignment tags stamped on snapshots at hand-over points
const (
	assignmentHousingOfficer      = "housing-officer"
	assignmentTenancyInvestigator = "tenancy-investigation"
	assignmentAreaHousingManager  = "area-housing-manager"
)
