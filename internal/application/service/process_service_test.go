package service

import (
	"context"
	"testing"
	"time"

	"github.com/openhousing/processes/internal/application/engine"
	"github.com/openhousing/processes/internal/application/port"
	"github.com/openhousing/processes/internal/domain/entity"
	"github.com/openhousing/processes/internal/domain/event"
	"github.com/openhousing/processes/internal/domain/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockRepo is a function-field stub for port.ProcessRepository
type mockRepo struct {
	createFunc func(ctx context.Context, p *process.Process) error
	getFunc    func(ctx context.Context, id string) (*process.Process, error)
	saveFunc   func(ctx context.Context, p *process.Process, expectedVersion int64) error
	listFunc   func(ctx context.Context, targetID string, limit, offset int) ([]*process.Process, error)

	saveCalls int
}

func (m *mockRepo) Create(ctx context.Context, p *process.Process) error {
	return m.createFunc(ctx, p)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*process.Process, error) {
	return m.getFunc(ctx, id)
}

func (m *mockRepo) Save(ctx context.Context, p *process.Process, expectedVersion int64) error {
	m.saveCalls++
	return m.saveFunc(ctx, p, expectedVersion)
}

func (m *mockRepo) ListByTargetID(ctx context.Context, targetID string, limit, offset int) ([]*process.Process, error) {
	return m.listFunc(ctx, targetID, limit, offset)
}

type stubTenures struct{ tenure *entity.Tenure }

func (s *stubTenures) GetTenureByID(ctx context.Context, id string) (*entity.Tenure, error) {
	return s.tenure, nil
}

type stubPersons struct{ person *entity.Person }

func (s *stubPersons) GetPersonByID(ctx context.Context, id string) (*entity.Person, error) {
	return s.person, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, evt *event.Event) error { return nil }

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}

func newTestEngine() *engine.Engine {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	defs := engine.DefaultDefinitions(engine.Collaborators{
		Tenures:   &stubTenures{},
		Persons:   &stubPersons{},
		Publisher: noopPublisher{},
		Clock:     func() time.Time { return now },
	})
	return engine.New(defs, zap.NewNop())
}

func seededProcess(version int64) *process.Process {
	p := process.New("proc-1", "soletojoint", "tenure-1")
	p.ApplyState(process.ProcessState{
		State:             "AutomatedChecksFailed",
		PermittedTriggers: []string{"CloseProcess"},
	})
	p.VersionNumber = version
	return p
}

func TestStartProcessCreatesAggregate(t *testing.T) {
	var created *process.Process
	repo := &mockRepo{
		createFunc: func(ctx context.Context, p *process.Process) error {
			created = p
			p.VersionNumber = 1
			return nil
		},
	}

	svc := NewProcessService(repo, newTestEngine(), noopLogger{})

	p, err := svc.StartProcess(context.Background(), "proc-1", "soletojoint", "tenure-1", engine.Request{
		Trigger: "StartApplication",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "SelectTenants", p.CurrentStateName())
	assert.Equal(t, int64(1), p.VersionNumber)
}

func TestStartProcessRejectsBadFirstTrigger(t *testing.T) {
	repo := &mockRepo{
		createFunc: func(ctx context.Context, p *process.Process) error {
			t.Fatal("Create must not be called when the engine rejects the trigger")
			return nil
		},
	}

	svc := NewProcessService(repo, newTestEngine(), noopLogger{})

	_, err := svc.StartProcess(context.Background(), "proc-1", "soletojoint", "tenure-1", engine.Request{
		Trigger: "UpdateTenure",
	})
	require.Error(t, err)
}

func TestTriggerProcessSavesWithExpectedVersion(t *testing.T) {
	repo := &mockRepo{
		getFunc: func(ctx context.Context, id string) (*process.Process, error) {
			return seededProcess(3), nil
		},
		saveFunc: func(ctx context.Context, p *process.Process, expectedVersion int64) error {
			assert.Equal(t, int64(3), expectedVersion)
			p.VersionNumber = expectedVersion + 1
			return nil
		},
	}

	svc := NewProcessService(repo, newTestEngine(), noopLogger{})

	p, err := svc.TriggerProcess(context.Background(), "proc-1", 3, engine.Request{
		Trigger: "CloseProcess",
	})
	require.NoError(t, err)
	assert.Equal(t, "ProcessClosed", p.CurrentStateName())
	assert.Equal(t, 1, repo.saveCalls)
}

func TestTriggerProcessStaleVersionConflicts(t *testing.T) {
	repo := &mockRepo{
		getFunc: func(ctx context.Context, id string) (*process.Process, error) {
			return seededProcess(3), nil
		},
		saveFunc: func(ctx context.Context, p *process.Process, expectedVersion int64) error {
			return nil
		},
	}

	svc := NewProcessService(repo, newTestEngine(), noopLogger{})

	_, err := svc.TriggerProcess(context.Background(), "proc-1", 2, engine.Request{
		Trigger: "CloseProcess",
	})
	require.ErrorIs(t, err, port.ErrVersionConflict)
	assert.Zero(t, repo.saveCalls, "a stale caller must be rejected before any save")
}

func TestTriggerProcessNotFound(t *testing.T) {
	repo := &mockRepo{
		getFunc: func(ctx context.Context, id string) (*process.Process, error) {
			return nil, port.ErrProcessNotFound
		},
	}

	svc := NewProcessService(repo, newTestEngine(), noopLogger{})

	_, err := svc.TriggerProcess(context.Background(), "missing", 1, engine.Request{
		Trigger: "CloseProcess",
	})
	require.ErrorIs(t, err, port.ErrProcessNotFound)
}

func TestTriggerProcessEngineFailureSkipsSave(t *testing.T) {
	repo := &mockRepo{
		getFunc: func(ctx context.Context, id string) (*process.Process, error) {
			return seededProcess(1), nil
		},
		saveFunc: func(ctx context.Context, p *process.Process, expectedVersion int64) error {
			return nil
		},
	}

	svc := NewProcessService(repo, newTestEngine(), noopLogger{})

	_, err := svc.TriggerProcess(context.Background(), "proc-1", 1, engine.Request{
		Trigger: "UpdateTenure",
	})
	require.Error(t, err)
	assert.Zero(t, repo.saveCalls)
}

func TestListProcessesByTarget(t *testing.T) {
	repo := &mockRepo{
		listFunc: func(ctx context.Context, targetID string, limit, offset int) ([]*process.Process, error) {
			assert.Equal(t, "tenure-1", targetID)
			return []*process.Process{seededProcess(1)}, nil
		},
	}

	svc := NewProcessService(repo, newTestEngine(), noopLogger{})

	got, err := svc.ListProcessesByTarget(context.Background(), "tenure-1", 20, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
