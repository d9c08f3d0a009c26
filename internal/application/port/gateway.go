package port

import (
	"context"
	"errors"

	"github.com/openhousing/processes/internal/domain/entity"
	"github.com/openhousing/processes/internal/domain/event"
)

// ErrDomainReferenceNotFound is returned when a tenure or person lookup
// referenced by a process comes back empty. It indicates a dependency
// inconsistency rather than a bad request.
var ErrDomainReferenceNotFound = errors.New("domain reference not found")

// TenureGateway is the narrow tenancy lookup used by eligibility guards
type TenureGateway interface {
	GetTenureByID(ctx context.Context, id string) (*entity.Tenure, error)
}

// PersonGateway is the narrow person lookup used by eligibility guards
type PersonGateway interface {
	GetPersonByID(ctx context.Context, id string) (*entity.Person, error)
}

// EventPublisher publishes process change events. Publication failures after
// a successful transition are reported by callers but never rolled back.
type EventPublisher interface {
	Publish(ctx context.Context, evt *event.Event) error
}
