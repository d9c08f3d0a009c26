package service

import (
	"context"
	"fmt"

	"github.com/openhousing/processes/internal/application/engine"
	"github.com/openhousing/processes/internal/application/port"
	"github.com/openhousing/processes/internal/domain/process"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ProcessService manages process aggregates across load, transition and save.
// Version conflicts are detected before the engine runs and again atomically
// at save time; on conflict the caller must re-fetch and resubmit.
type ProcessService interface {
	// StartProcess creates a process and fires its first trigger
	StartProcess(ctx context.Context, id, processName, targetID string, req engine.Request) (*process.Process, error)

	// TriggerProcess fires a trigger against a stored process. expectedVersion
	// is the version the caller last read; a stale value fails with
	// port.ErrVersionConflict without invoking the engine.
	TriggerProcess(ctx context.Context, id string, expectedVersion int64, req engine.Request) (*process.Process, error)

	// GetProcess returns a stored process
	GetProcess(ctx context.Context, id string) (*process.Process, error)

	// ListProcessesByTarget returns the processes concerning one domain entity
	ListProcessesByTarget(ctx context.Context, targetID string, limit, offset int) ([]*process.Process, error)
}

type processServiceImpl struct {
	repo   port.ProcessRepository
	engine *engine.Engine
	logger Logger
}

// NewProcessService creates a new ProcessService
func NewProcessService(repo port.ProcessRepository, eng *engine.Engine, logger Logger) ProcessService {
	return &processServiceImpl{
		repo:   repo,
		engine: eng,
		logger: logger,
	}
}

// StartProcess creates a process and fires its first trigger
func (s *processServiceImpl) StartProcess(ctx context.Context, id, processName, targetID string, req engine.Request) (*process.Process, error) {
	p := process.New(id, processName, targetID)

	if err := s.engine.Process(ctx, p, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create process %s: %w", id, err)
	}

	s.logger.Info("Process started",
		"process_id", id,
		"process_name", processName,
		"state", p.CurrentStateName())

	return p, nil
}

// TriggerProcess fires a trigger against a stored process
func (s *processServiceImpl) TriggerProcess(ctx context.Context, id string, expectedVersion int64, req engine.Request) (*process.Process, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Reject stale callers before any guard or mutation runs
	if p.VersionNumber != expectedVersion {
		return nil, fmt.Errorf("%w: process %s is at version %d, caller expected %d",
			port.ErrVersionConflict, id, p.VersionNumber, expectedVersion)
	}

	if err := s.engine.Process(ctx, p, req); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, p, expectedVersion); err != nil {
		return nil, err
	}

	return p, nil
}

// GetProcess returns a stored process
func (s *processServiceImpl) GetProcess(ctx context.Context, id string) (*process.Process, error) {
	return s.repo.GetByID(ctx, id)
}

// ListProcessesByTarget returns the processes concerning one domain entity
func (s *processServiceImpl) ListProcessesByTarget(ctx context.Context, targetID string, limit, offset int) ([]*process.Process, error) {
	return s.repo.ListByTargetID(ctx, targetID, limit, offset)
}
