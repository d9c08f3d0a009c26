package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openhousing/processes/internal/application/port"
	"github.com/openhousing/processes/internal/domain/process"
	"github.com/openhousing/processes/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// ProcessRepository implements port.ProcessRepository on sqlite. Snapshots and
// related entities are stored as JSON documents; optimistic concurrency is a
// conditional update on the stored version number.
type ProcessRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewProcessRepository creates a new process repository
func NewProcessRepository(db *sqlite.DB, logger *zap.Logger) port.ProcessRepository {
	return &ProcessRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new process at version 1
func (r *ProcessRepository) Create(ctx context.Context, p *process.Process) error {
	related, current, previous, err := encodeProcess(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO processes (
			id, process_name, target_id, related_entities,
			current_state, previous_states, version_number
		) VALUES (?, ?, ?, ?, ?, ?, 1)
	`

	_, err = r.db.Executor(ctx).ExecContext(ctx, query,
		p.ID, p.ProcessName, p.TargetID, related, current, previous)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", port.ErrProcessExists, p.ID)
		}
		r.logger.Error("Failed to create process", zap.String("id", p.ID), zap.Error(err))
		return fmt.Errorf("failed to create process: %w", err)
	}

	p.VersionNumber = 1
	return nil
}

// GetByID retrieves a process by ID
func (r *ProcessRepository) GetByID(ctx context.Context, id string) (*process.Process, error) {
	query := `
		SELECT id, process_name, target_id, related_entities,
			current_state, previous_states, version_number
		FROM processes
		WHERE id = ?
	`

	row := r.db.Executor(ctx).QueryRowContext(ctx, query, id)
	p, err := scanProcess(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", port.ErrProcessNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to get process", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get process: %w", err)
	}

	return p, nil
}

// Save persists the aggregate if the stored version still matches
// expectedVersion, incrementing the version in the same statement. A zero-row
// update against an existing row means another writer got there first.
func (r *ProcessRepository) Save(ctx context.Context, p *process.Process, expectedVersion int64) error {
	related, current, previous, err := encodeProcess(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE processes
		SET related_entities = ?, current_state = ?, previous_states = ?,
			version_number = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version_number = ?
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		related, current, previous, expectedVersion+1, p.ID, expectedVersion)
	if err != nil {
		r.logger.Error("Failed to save process", zap.String("id", p.ID), zap.Error(err))
		return fmt.Errorf("failed to save process: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}

	if affected == 0 {
		var stored int64
		err := r.db.Executor(ctx).QueryRowContext(ctx,
			`SELECT version_number FROM processes WHERE id = ?`, p.ID).Scan(&stored)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: %s", port.ErrProcessNotFound, p.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to inspect process version: %w", err)
		}
		return fmt.Errorf("%w: process %s is at version %d, caller expected %d",
			port.ErrVersionConflict, p.ID, stored, expectedVersion)
	}

	p.VersionNumber = expectedVersion + 1
	return nil
}

// ListByTargetID retrieves the processes concerning one domain entity
func (r *ProcessRepository) ListByTargetID(ctx context.Context, targetID string, limit, offset int) ([]*process.Process, error) {
	query := `
		SELECT id, process_name, target_id, related_entities,
			current_state, previous_states, version_number
		FROM processes
		WHERE target_id = ?
		ORDER BY created_at
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, targetID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list processes", zap.String("target_id", targetID), zap.Error(err))
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	defer rows.Close()

	var processes []*process.Process
	for rows.Next() {
		p, err := scanProcess(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan process: %w", err)
		}
		processes = append(processes, p)
	}

	return processes, rows.Err()
}

// encodeProcess marshals the JSON document columns
func encodeProcess(p *process.Process) (related, current, previous []byte, err error) {
	entities := p.RelatedEntities
	if entities == nil {
		entities = []process.RelatedEntity{}
	}
	related, err = json.Marshal(entities)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode related entities: %w", err)
	}

	if p.CurrentState != nil {
		current, err = json.Marshal(p.CurrentState)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode current state: %w", err)
		}
	}

	states := p.PreviousStates
	if states == nil {
		states = []process.ProcessState{}
	}
	previous, err = json.Marshal(states)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode previous states: %w", err)
	}

	return related, current, previous, nil
}

// scanProcess reads one row via the given scan function
func scanProcess(scan func(dest ...any) error) (*process.Process, error) {
	var p process.Process
	var related, previous []byte
	var current sql.NullString

	err := scan(&p.ID, &p.ProcessName, &p.TargetID, &related,
		&current, &previous, &p.VersionNumber)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(related, &p.RelatedEntities); err != nil {
		return nil, fmt.Errorf("failed to decode related entities: %w", err)
	}
	if err := json.Unmarshal(previous, &p.PreviousStates); err != nil {
		return nil, fmt.Errorf("failed to decode previous states: %w", err)
	}
	if current.Valid && current.String != "" {
		var state process.ProcessState
		if err := json.Unmarshal([]byte(current.String), &state); err != nil {
			return nil, fmt.Errorf("failed to decode current state: %w", err)
		}
		p.CurrentState = &state
	}

	return &p, nil
}

// isUniqueViolation reports whether the error is a primary-key conflict
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
