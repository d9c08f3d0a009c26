package statemachine

import "fmt"

// Builder assembles a Definition from fluent per-state configuration, in the
// manner of:
//
//	b := statemachine.NewBuilder("soletojoint", initialState)
//	b.Configure(stateSelectTenants).
//		PermitInternal(triggerCheckEligibility, resolver).
//		Permit(triggerEligibilityPassed, stateChecksPassed, actions...)
//	def := b.Build()
type Builder struct {
	name         string
	initialState State
	edges        map[State]map[Trigger]*Edge
	internal     map[Trigger]bool
}

// StateConfig configures the outgoing edges of one state
type StateConfig struct {
	builder *Builder
	state   State
}

// NewBuilder creates a builder for the named process type
func NewBuilder(name string, initialState State) *Builder {
	return &Builder{
		name:         name,
		initialState: initialState,
		edges:        make(map[State]map[Trigger]*Edge),
		internal:     make(map[Trigger]bool),
	}
}

// Configure returns the configuration for the given state, creating it on
// first use.
func (b *Builder) Configure(state State) *StateConfig {
	if _, ok := b.edges[state]; !ok {
		b.edges[state] = make(map[Trigger]*Edge)
	}
	return &StateConfig{builder: b, state: state}
}

// MarkInternal registers triggers that only exist as resolver results. They
// are excluded from permitted-trigger sets and rejected when fired externally.
func (b *Builder) MarkInternal(triggers ...Trigger) *Builder {
	for _, trigger := range triggers {
		b.internal[trigger] = true
	}
	return b
}

// Build finalizes the definition. It panics on a malformed graph (duplicate
// edges are caught at registration; here we verify internal triggers resolve
// somewhere) because definitions are static program configuration.
func (b *Builder) Build() *Definition {
	for trigger := range b.internal {
		found := false
		for _, outgoing := range b.edges {
			if _, ok := outgoing[trigger]; ok {
				found = true
				break
			}
		}
		if !found {
			panic(fmt.Sprintf("statemachine: internal trigger %q has no edge in definition %q", trigger, b.name))
		}
	}

	return &Definition{
		name:             b.name,
		initialState:     b.initialState,
		edges:            b.edges,
		internalTriggers: b.internal,
	}
}

func (c *StateConfig) add(edge *Edge) *StateConfig {
	if _, exists := c.builder.edges[c.state][edge.Trigger]; exists {
		panic(fmt.Sprintf("statemachine: duplicate edge (%s, %s) in definition %q", c.state, edge.Trigger, c.builder.name))
	}
	c.builder.edges[c.state][edge.Trigger] = edge
	return c
}

// Permit adds a direct edge to a fixed destination state
func (c *StateConfig) Permit(trigger Trigger, destination State, actions ...ActionFunc) *StateConfig {
	return c.add(&Edge{
		From:        c.state,
		Trigger:     trigger,
		Destination: destination,
		OnEntry:     actions,
	})
}

// PermitChecked adds a direct edge whose inputs are validated before the
// transition is applied.
func (c *StateConfig) PermitChecked(trigger Trigger, destination State, validators []ValidatorFunc, actions ...ActionFunc) *StateConfig {
	return c.add(&Edge{
		From:        c.state,
		Trigger:     trigger,
		Destination: destination,
		Validators:  validators,
		OnEntry:     actions,
	})
}

// PermitReentry adds a self-loop edge; the state re-enters itself and the
// prior snapshot still moves into history.
func (c *StateConfig) PermitReentry(trigger Trigger, validators []ValidatorFunc, actions ...ActionFunc) *StateConfig {
	return c.add(&Edge{
		From:        c.state,
		Trigger:     trigger,
		Destination: c.state,
		Reentry:     true,
		Validators:  validators,
		OnEntry:     actions,
	})
}

// PermitInternal adds an internal edge whose destination is resolved at
// runtime: the resolver returns a follow-up trigger whose own edge from this
// state is then applied.
func (c *StateConfig) PermitInternal(trigger Trigger, resolve ResolverFunc) *StateConfig {
	return c.add(&Edge{
		From:    c.state,
		Trigger: trigger,
		Resolve: resolve,
	})
}

// Assign sets the owner tag stamped on snapshots entered via the given
// trigger's edge from this state.
func (c *StateConfig) Assign(trigger Trigger, assignment string) *StateConfig {
	edge, ok := c.builder.edges[c.state][trigger]
	if !ok {
		panic(fmt.Sprintf("statemachine: Assign before Permit for (%s, %s)", c.state, trigger))
	}
	edge.Assignment = assignment
	return c
}
