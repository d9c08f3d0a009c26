package statemachine

import (
	"context"
	"sort"

	"github.com/openhousing/processes/internal/domain/form"
	"github.com/openhousing/processes/internal/domain/process"
)

// State names a node in a process type's transition graph
type State string

// Trigger names an event that may cause a transition
type Trigger string

func (s State) String() string { return string(s) }

func (t Trigger) String() string { return string(t) }

// TransitionContext carries the inputs of one transition request through guard
// resolution, validation and entry actions. Guards stage their side outputs
// (related entities, eligibility results) here instead of mutating the
// aggregate; the driver applies them only after the snapshot swap succeeds.
type TransitionContext struct {
	Process   *process.Process
	Trigger   Trigger
	Form      form.Data
	Documents []string
	Actor     string

	// FromState and ToState are filled in by the driver; ToState only once the
	// destination has been resolved.
	FromState State
	ToState   State

	// Related holds entity references staged by guards, appended to the
	// aggregate after the transition is applied.
	Related []process.RelatedEntity

	// Eligibility holds the per-rule result map produced by an automated
	// eligibility guard, retained for audit surfacing.
	Eligibility map[string]bool
}

// ResolverFunc resolves an internal trigger's follow-up trigger from the
// submitted form data and domain state. It runs strictly before any aggregate
// mutation; a returned error aborts the transition.
type ResolverFunc func(ctx context.Context, tc *TransitionContext) (Trigger, error)

// ValidatorFunc checks a direct transition's inputs before any mutation
type ValidatorFunc func(ctx context.Context, tc *TransitionContext) error

// ActionFunc runs after a successful transition, e.g. to emit a domain event.
// Failures are reported by the driver but do not roll the transition back.
type ActionFunc func(ctx context.Context, tc *TransitionContext) error

// Edge is one entry in a process type's transition table
type Edge struct {
	From    State
	Trigger Trigger

	// Destination is fixed for direct edges. Reentry edges keep Destination
	// equal to From. Internal edges leave it empty and carry a Resolve func.
	Destination State
	Reentry     bool

	// Resolve picks the internal follow-up trigger; non-nil only for internal
	// edges.
	Resolve ResolverFunc

	// Assignment is the team/owner tag stamped on the destination snapshot
	Assignment string

	Validators []ValidatorFunc
	OnEntry    []ActionFunc
}

// Internal reports whether the edge's destination is resolved at runtime
func (e *Edge) Internal() bool {
	return e.Resolve != nil
}

// Definition is a process type's declarative transition graph together with
// the guard, validator and entry-action bindings of each edge. Definitions are
// immutable once built and shared across invocations.
type Definition struct {
	name         string
	initialState State
	edges        map[State]map[Trigger]*Edge

	// internalTriggers marks triggers that only exist as resolver results.
	// They are excluded from permitted-trigger sets and cannot be fired
	// externally.
	internalTriggers map[Trigger]bool
}

// Name returns the process name this definition governs
func (d *Definition) Name() string {
	return d.name
}

// InitialState returns the implicit state of a process before its first transition
func (d *Definition) InitialState() State {
	return d.initialState
}

// Edge looks up the transition table entry for a (state, trigger) pair
func (d *Definition) Edge(state State, trigger Trigger) (*Edge, bool) {
	outgoing, ok := d.edges[state]
	if !ok {
		return nil, false
	}
	edge, ok := outgoing[trigger]
	return edge, ok
}

// IsInternalTrigger reports whether the trigger is an internal routing trigger
func (d *Definition) IsInternalTrigger(trigger Trigger) bool {
	return d.internalTriggers[trigger]
}

// PermittedTriggers returns the externally invocable triggers legal from the
// given state, sorted for deterministic snapshots. Internal routing triggers
// are never included.
func (d *Definition) PermittedTriggers(state State) []string {
	outgoing := d.edges[state]
	permitted := make([]string, 0, len(outgoing))
	for trigger := range outgoing {
		if d.internalTriggers[trigger] {
			continue
		}
		permitted = append(permitted, trigger.String())
	}
	sort.Strings(permitted)
	return permitted
}

// States returns every state that has at least one outgoing edge
func (d *Definition) States() []string {
	states := make([]string, 0, len(d.edges))
	for state := range d.edges {
		states = append(states, state.String())
	}
	sort.Strings(states)
	return states
}
