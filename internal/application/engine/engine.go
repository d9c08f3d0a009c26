package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openhousing/processes/internal/domain/form"
	"github.com/openhousing/processes/internal/domain/process"
	"github.com/openhousing/processes/internal/domain/statemachine"
	"go.uber.org/zap"
)

// Request carries one trigger invocation against a process
type Request struct {
	Trigger   string
	FormData  map[string]any
	Documents []string
	Actor     string
}

// Engine drives process aggregates through their definitions. It holds no
// per-process state between calls; definitions are immutable configuration
// passed in at construction.
type Engine struct {
	definitions map[string]*statemachine.Definition
	logger      *zap.Logger

	// lastEligibility is a value copy of the most recent automated
	// eligibility run, exposed for audit surfacing.
	mu              sync.RWMutex
	lastEligibility map[string]bool
}

// New creates an engine over the given definition registry, keyed by process name
func New(definitions map[string]*statemachine.Definition, logger *zap.Logger) *Engine {
	return &Engine{
		definitions: definitions,
		logger:      logger,
	}
}

// Process fires a trigger against the aggregate. All validation and guard
// resolution happens strictly before any mutation; on failure the aggregate is
// returned untouched. Entry-action failures after the transition (e.g. event
// publication) are logged, not rolled back, and the transition stands.
func (e *Engine) Process(ctx context.Context, p *process.Process, req Request) error {
	def, ok := e.definitions[p.ProcessName]
	if !ok {
		return fmt.Errorf("no definition registered for process name %q", p.ProcessName)
	}

	current := statemachine.State(p.CurrentStateName())
	trigger := statemachine.Trigger(req.Trigger)

	// Internal routing triggers are never externally invocable, even where an
	// edge for them exists.
	if def.IsInternalTrigger(trigger) {
		return &statemachine.IllegalTransitionError{State: current, Trigger: trigger}
	}

	edge, ok := def.Edge(current, trigger)
	if !ok {
		return &statemachine.IllegalTransitionError{State: current, Trigger: trigger}
	}

	tc := &statemachine.TransitionContext{
		Process:   p,
		Trigger:   trigger,
		Form:      form.FromMap(req.FormData),
		Documents: req.Documents,
		Actor:     req.Actor,
		FromState: current,
	}

	applied := edge
	if edge.Internal() {
		resolved, err := edge.Resolve(ctx, tc)
		if err != nil {
			return err
		}
		applied, ok = def.Edge(current, resolved)
		if !ok {
			return fmt.Errorf("definition %q: trigger %q resolved to %q which has no edge from state %q",
				def.Name(), trigger, resolved, current)
		}
	}

	for _, validate := range applied.Validators {
		if err := validate(ctx, tc); err != nil {
			return err
		}
	}

	destination := applied.Destination
	tc.ToState = destination

	now := time.Now()
	p.ApplyState(process.ProcessState{
		State:             destination.String(),
		PermittedTriggers: def.PermittedTriggers(destination),
		Assignment:        applied.Assignment,
		ProcessData: process.ProcessData{
			FormData:  tc.Form,
			Documents: req.Documents,
		},
		CreatedAt: now,
		UpdatedAt: now,
	})

	for _, related := range tc.Related {
		p.AddRelatedEntity(related)
	}

	if tc.Eligibility != nil {
		e.mu.Lock()
		e.lastEligibility = tc.Eligibility
		e.mu.Unlock()
	}

	for _, action := range applied.OnEntry {
		if err := action(ctx, tc); err != nil {
			e.logger.Error("Entry action failed after transition",
				zap.String("process_id", p.ID),
				zap.String("process_name", p.ProcessName),
				zap.String("trigger", req.Trigger),
				zap.String("new_state", destination.String()),
				zap.Error(err))
		}
	}

	e.logger.Info("Process transitioned",
		zap.String("process_id", p.ID),
		zap.String("process_name", p.ProcessName),
		zap.String("trigger", req.Trigger),
		zap.String("old_state", current.String()),
		zap.String("new_state", destination.String()))

	return nil
}

// EligibilityResults returns the per-rule outcome map of the most recent
// automated eligibility transition, for audit and debug surfacing.
func (e *Engine) EligibilityResults() map[string]bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string]bool, len(e.lastEligibility))
	for id, ok := range e.lastEligibility {
		out[id] = ok
	}
	return out
}

// Definition exposes the registered definition for a process name, e.g. for
// callers rendering the full trigger graph.
func (e *Engine) Definition(processName string) (*statemachine.Definition, bool) {
	def, ok := e.definitions[processName]
	return def, ok
}
