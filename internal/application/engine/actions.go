package engine

import (
	"context"
	"sort"
	"time"

	"github.com/openhousing/processes/internal/application/port"
	"github.com/openhousing/processes/internal/domain/event"
	"github.com/openhousing/processes/internal/domain/form"
	"github.com/openhousing/processes/internal/domain/statemachine"
)

// Collaborators bundles the external lookups and the event publisher bound
// into process definitions at construction.
type Collaborators struct {
	Tenures   port.TenureGateway
	Persons   port.PersonGateway
	Publisher port.EventPublisher

	// Clock defaults to time.Now; injectable for deterministic rule tests
	Clock func() time.Time
}

func (c Collaborators) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// emit builds an entry action that publishes a process change event of the
// given kind, attaching only the listed form fields as payload.
func emit(c Collaborators, kind event.Kind, payloadKeys ...string) statemachine.ActionFunc {
	return func(ctx context.Context, tc *statemachine.TransitionContext) error {
		evt := event.New(kind, tc.Process.ID, tc.Process.ProcessName, tc.Process.TargetID).
			WithTransition(tc.FromState.String(), tc.ToState.String(), tc.Trigger.String()).
			WithActor(tc.Actor)

		for _, key := range payloadKeys {
			if val, ok := tc.Form[key]; ok {
				evt.WithPayload(key, val.Text())
			}
		}

		return c.Publisher.Publish(ctx, evt)
	}
}

// requireAppointment validates that a parseable appointment date-time was
// submitted with the request.
func requireAppointment(ctx context.Context, tc *statemachine.TransitionContext) error {
	_, err := form.RequireDateTime(tc.Form, KeyAppointmentDateTime)
	return err
}

// requireDocumentReview validates that at least one document confirmation was
// recorded.
func requireDocumentReview(ctx context.Context, tc *statemachine.TransitionContext) error {
	return form.RequireAtLeastOne(tc.Form, documentReviewKeys...)
}

// booleanGate builds a resolver that compares submitted yes/no answers against
// their passing values and routes to the pass or fail trigger. Every listed
// question must be answered and parseable.
func booleanGate(questions map[string]bool, pass, fail statemachine.Trigger) statemachine.ResolverFunc {
	keys := make([]string, 0, len(questions))
	for key := range questions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return func(ctx context.Context, tc *statemachine.TransitionContext) (statemachine.Trigger, error) {
		if err := form.RequireAll(tc.Form, keys...); err != nil {
			return "", err
		}

		for key, expected := range questions {
			answer, err := form.RequireBool(tc.Form, key)
			if err != nil {
				return "", err
			}
			if answer != expected {
				return fail, nil
			}
		}

		return pass, nil
	}
}

// recommendationGate builds a resolver that maps a restricted form value to a
// follow-up trigger, e.g. approve/decline/appointment.
func recommendationGate(key string, routes map[string]statemachine.Trigger) statemachine.ResolverFunc {
	allowed := make([]string, 0, len(routes))
	for value := range routes {
		allowed = append(allowed, value)
	}
	sort.Strings(allowed)

	return func(ctx context.Context, tc *statemachine.TransitionContext) (statemachine.Trigger, error) {
		value, err := form.RequireValueIn(tc.Form, key, allowed...)
		if err != nil {
			return "", err
		}
		return routes[value], nil
	}
}
