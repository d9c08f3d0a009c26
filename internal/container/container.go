package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/openhousing/processes/internal/application/dispatcher"
	"github.com/openhousing/processes/internal/application/engine"
	"github.com/openhousing/processes/internal/application/port"
	"github.com/openhousing/processes/internal/application/service"
	"github.com/openhousing/processes/internal/config"
	"github.com/openhousing/processes/internal/domain/event"
	"github.com/openhousing/processes/internal/infrastructure/persistence/repository"
	"github.com/openhousing/processes/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	db           *sqlite.DB
	repositories *RepositoryBundle

	// Application
	dispatcher dispatcher.Dispatcher
	engine     *engine.Engine
	processes  service.ProcessService

	// Lifecycle
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups the storage ports for convenient access.
type RepositoryBundle struct {
	Process port.ProcessRepository
	Tenures port.TenureGateway
	Persons port.PersonGateway
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Database, migrations and repositories
// 2. Event dispatcher
// 3. Process engine and service
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}

	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	if err := c.initDatabase(c.ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	c.initDispatcher()
	c.logger.Info("Dispatcher initialized")

	c.initEngineAndService()
	c.logger.Info("Process engine and service initialized")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		} else {
			c.logger.Info("Dispatcher closed")
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	if c.db != nil {
		if err := c.db.Ping(); err != nil {
			status.Components["database"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["database"] = ComponentHealth{Healthy: true}
		}
	} else {
		status.Components["database"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	if c.dispatcher != nil {
		status.Components["dispatcher"] = ComponentHealth{Healthy: true}
	} else {
		status.Components["dispatcher"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	return status
}

// initDatabase opens the database, applies the schema and builds repositories.
func (c *Container) initDatabase(ctx context.Context) error {
	db, err := sqlite.Open(sqlite.Config{
		Path:            c.config.Database.Path,
		MaxOpenConns:    c.config.Database.MaxOpenConns,
		MaxIdleConns:    c.config.Database.MaxIdleConns,
		ConnMaxLifetime: c.config.Database.ConnMaxLifetime,
	}, c.logger)
	if err != nil {
		return err
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return err
	}

	c.db = db
	c.repositories = &RepositoryBundle{
		Process: repository.NewProcessRepository(db, c.logger),
		Tenures: repository.NewTenureRepository(db, c.logger),
		Persons: repository.NewPersonRepository(db, c.logger),
	}
	return nil
}

// initDispatcher builds the event dispatcher with an audit-log subscriber.
// Outward transports (notification hub, message bus) register alongside it.
func (c *Container) initDispatcher() {
	d := dispatcher.New(dispatcher.WithLogger(&loggerAdapter{logger: c.logger}))

	d.SubscribeAll("audit-log", func(ctx context.Context, evt *event.Event) error {
		c.logger.Info("Process event",
			zap.String("event_id", evt.ID),
			zap.String("event_kind", evt.Kind.String()),
			zap.String("process_id", evt.ProcessID),
			zap.String("process_name", evt.ProcessName),
			zap.String("old_state", evt.OldState),
			zap.String("new_state", evt.NewState),
			zap.String("trigger", evt.Trigger),
			zap.String("actor", evt.Actor))
		return nil
	})

	c.dispatcher = d
}

// initEngineAndService builds the process definitions, engine and service.
func (c *Container) initEngineAndService() {
	definitions := engine.DefaultDefinitions(engine.Collaborators{
		Tenures:   c.repositories.Tenures,
		Persons:   c.repositories.Persons,
		Publisher: c.dispatcher,
	})

	c.engine = engine.New(definitions, c.logger)
	c.processes = service.NewProcessService(c.repositories.Process, c.engine, &loggerAdapter{logger: c.logger})
}

// Getters for accessing container components

// DB returns the database handle.
func (c *Container) DB() *sqlite.DB {
	return c.db
}

// Repositories returns the storage ports.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Engine returns the process engine.
func (c *Container) Engine() *engine.Engine {
	return c.engine
}

// Processes returns the process service.
func (c *Container) Processes() service.ProcessService {
	return c.processes
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// loggerAdapter adapts zap.Logger to the key-value logger interfaces of the
// dispatcher and service packages.
type loggerAdapter struct {
	logger *zap.Logger
}

func (a *loggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *loggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
