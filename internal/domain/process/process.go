package process

import (
	"time"

	"github.com/openhousing/processes/internal/domain/form"
)

// StateApplicationInitialised is the implicit state of a process that has not
// yet taken its first transition. It is never stored as a snapshot.
const StateApplicationInitialised = "ApplicationInitialised"

// RelatedEntity references an auxiliary domain record discovered while a
// process is worked, e.g. the proposed joint tenant.
type RelatedEntity struct {
	ID          string `json:"id"`
	TargetType  string `json:"targetType"`
	SubType     string `json:"subType,omitempty"`
	Description string `json:"description,omitempty"`
}

// ProcessData is the payload submitted with a triggering request, retained
// verbatim on the resulting state snapshot.
type ProcessData struct {
	FormData  form.Data `json:"formData,omitempty"`
	Documents []string  `json:"documents,omitempty"`
}

// ProcessState is an immutable snapshot taken at one point in the state machine
type ProcessState struct {
	State             string      `json:"state"`
	PermittedTriggers []string    `json:"permittedTriggers"`
	Assignment        string      `json:"assignment,omitempty"`
	ProcessData       ProcessData `json:"processData"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// Process is the long-lived case record tracked through a named workflow
type Process struct {
	ID              string          `json:"id"`
	ProcessName     string          `json:"processName"`
	TargetID        string          `json:"targetId"`
	RelatedEntities []RelatedEntity `json:"relatedEntities,omitempty"`
	CurrentState    *ProcessState   `json:"currentState,omitempty"`
	PreviousStates  []ProcessState  `json:"previousStates"`

	// VersionNumber is owned by the persistence layer; it is incremented on
	// every successful save, never by the engine.
	VersionNumber int64 `json:"versionNumber"`
}

// New creates a process that has not yet started; CurrentState stays nil until
// the first trigger is accepted.
func New(id, processName, targetID string) *Process {
	return &Process{
		ID:          id,
		ProcessName: processName,
		TargetID:    targetID,
	}
}

// CurrentStateName returns the name of the live state, or
// StateApplicationInitialised when no transition has happened yet.
func (p *Process) CurrentStateName() string {
	if p.CurrentState == nil {
		return StateApplicationInitialised
	}
	return p.CurrentState.State
}

// ApplyState installs a new current snapshot, moving the prior one into
// history. Re-entering the same state keeps the original CreatedAt so the
// timestamp records first entry; UpdatedAt always reflects this entry.
func (p *Process) ApplyState(next ProcessState) {
	if p.CurrentState != nil {
		if p.CurrentState.State == next.State {
			next.CreatedAt = p.CurrentState.CreatedAt
		}
		p.PreviousStates = append(p.PreviousStates, *p.CurrentState)
	}
	p.CurrentState = &next
}

// AddRelatedEntity appends a related entity reference. Entries are never
// removed; an entity already recorded with the same ID and sub type is
// left untouched.
func (p *Process) AddRelatedEntity(entity RelatedEntity) {
	for _, existing := range p.RelatedEntities {
		if existing.ID == entity.ID && existing.SubType == entity.SubType {
			return
		}
	}
	p.RelatedEntities = append(p.RelatedEntities, entity)
}

// PatchAssignment replaces the owner tag on the live snapshot without a state
// transition. No-op before the first transition.
func (p *Process) PatchAssignment(assignment string, now time.Time) {
	if p.CurrentState == nil {
		return
	}
	p.CurrentState.Assignment = assignment
	p.CurrentState.UpdatedAt = now
}
