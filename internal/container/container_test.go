package container

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/openhousing/processes/internal/application/engine"
	"github.com/openhousing/processes/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Database: config.DatabaseConfig{
			Path:            filepath.Join(t.TempDir(), "processes.db"),
			MaxOpenConns:    2,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Minute,
		},
		Logger:  config.LoggerConfig{Level: "info", Format: "json"},
		Service: config.ServiceConfig{DefaultPageSize: 20, MaxPageSize: 100},
	}
}

func TestContainerLifecycle(t *testing.T) {
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	assert.False(t, c.Ready())

	require.NoError(t, c.Start(context.Background()))
	assert.True(t, c.Ready())

	require.NotNil(t, c.Repositories())
	require.NotNil(t, c.Dispatcher())
	require.NotNil(t, c.Engine())
	require.NotNil(t, c.Processes())

	health := c.Health()
	assert.True(t, health.Overall)
	assert.True(t, health.Components["database"].Healthy)
	assert.True(t, health.Components["dispatcher"].Healthy)

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Start(context.Background()), "a closed container must not restart")
}

func TestNewContainerRejectsNilDependencies(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	require.Error(t, err)

	_, err = NewContainer(testConfig(t), nil)
	require.Error(t, err)

	bad := testConfig(t)
	bad.Database.Path = ""
	_, err = NewContainer(bad, zap.NewNop())
	require.Error(t, err)
}

func TestContainerRunsProcessEndToEnd(t *testing.T) {
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	ctx := context.Background()
	svc := c.Processes()

	p, err := svc.StartProcess(ctx, "proc-1", engine.ProcessNameChangeOfName, "person-1", engine.Request{
		Trigger: "StartApplication",
		Actor:   "officer-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "EnterNewName", p.CurrentStateName())
	assert.Equal(t, int64(1), p.VersionNumber)

	p, err = svc.TriggerProcess(ctx, "proc-1", 1, engine.Request{
		Trigger:  "EnterName",
		FormData: map[string]any{"firstName": "Sam", "surname": "Smith"},
	})
	require.NoError(t, err)
	assert.Equal(t, "NameSubmitted", p.CurrentStateName())
	assert.Equal(t, int64(2), p.VersionNumber)

	// Reloading yields the persisted aggregate with its history
	got, err := svc.GetProcess(ctx, "proc-1")
	require.NoError(t, err)
	assert.Equal(t, "NameSubmitted", got.CurrentStateName())
	require.Len(t, got.PreviousStates, 1)
	assert.Equal(t, "EnterNewName", got.PreviousStates[0].State)
}
