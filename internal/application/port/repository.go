package port

import (
	"context"
	"errors"

	"github.com/openhousing/processes/internal/domain/process"
)

var (
	// ErrProcessNotFound is returned when no process exists for the given ID
	ErrProcessNotFound = errors.New("process not found")

	// ErrVersionConflict is returned when a save carries a stale version number.
	// The caller must re-fetch and resubmit; no state change is applied.
	ErrVersionConflict = errors.New("version conflict")

	// ErrProcessExists is returned when creating a process with a taken ID
	ErrProcessExists = errors.New("process already exists")
)

// ProcessRepository defines persistence operations for the Process aggregate.
// Save enforces optimistic concurrency: it applies the write only if the
// stored version still equals expectedVersion, atomically, and increments the
// aggregate's VersionNumber on success.
type ProcessRepository interface {
	Create(ctx context.Context, p *process.Process) error
	GetByID(ctx context.Context, id string) (*process.Process, error)
	Save(ctx context.Context, p *process.Process, expectedVersion int64) error
	ListByTargetID(ctx context.Context, targetID string, limit, offset int) ([]*process.Process, error)
}
