package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	domain "github.com/ManishCody/project-tracker/domain/task"
	"github.com/ManishCody/project-tracker/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module provides task management services (core domain). It owns the
// SQLite database and exposes the CRUD operations both as a direct
// *Service and as request-reply services on the bus.
type Module struct {
	db       *gorm.DB
	repo     *domain.Repository
	service  *Service
	cache    CacheService
	eventBus mono.EventBus
	dbPath   string
}

var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.EventEmitterModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new task module backed by the given SQLite path.
func NewModule(dbPath string) *Module {
	return &Module{dbPath: dbPath}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "task"
}

// SetCache wires the optional cache service. Safe to call before or
// after Start.
func (m *Module) SetCache(c CacheService) {
	m.cache = c
	if m.service != nil {
		m.service.SetCache(c)
	}
}

// SetEventBus wires the event bus for mutation events. Called by the
// framework before Start; the bus is handed to the service once built.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
	if m.service != nil {
		m.service.SetEventBus(bus)
	}
}

// EmitEvents declares the events this module publishes.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
// The framework prefixes service names with "services.task." on the bus.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.handleCreate,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.handleGet,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update", json.Unmarshal, json.Marshal, m.handleUpdate,
	); err != nil {
		return fmt.Errorf("failed to register update service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete", json.Unmarshal, json.Marshal, m.handleDelete,
	); err != nil {
		return fmt.Errorf("failed to register delete service: %w", err)
	}

	log.Printf("[task] Registered services: services.task.{create,get,list,update,delete}")
	return nil
}

// Start opens the database, runs migrations and builds the service.
func (m *Module) Start(_ context.Context) error {
	log.Printf("[task] Connecting to SQLite database: %s", m.dbPath)

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	m.repo = domain.NewRepository(db)
	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	m.service = NewService(m.repo, m.cache)
	if m.eventBus != nil {
		m.service.SetEventBus(m.eventBus)
	}

	log.Println("[task] Module started")
	return nil
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}
	log.Println("[task] Closing database connection...")
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	log.Println("[task] Database connection closed")
	return nil
}

// Health performs a health check on the task module.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{Healthy: false, Message: "database not initialized"}
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("failed to get sql.DB: %v", err)}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("database ping failed: %v", err)}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.dbPath,
		},
	}
}

// GetService returns the task service for direct in-process wiring.
func (m *Module) GetService() *Service {
	return m.service
}

// Bus handlers. Errors are carried inside the reply as ErrorInfo so the
// adapter on the other side can reconstruct typed errors; the handler
// itself never fails the request-reply exchange for a domain error.

func (m *Module) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskReply, error) {
	resp, err := m.service.CreateTask(ctx, &req)
	return TaskReply{Task: resp, Err: toErrorInfo(err)}, nil
}

func (m *Module) handleGet(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskReply, error) {
	resp, err := m.service.GetTask(ctx, req.TaskID)
	return TaskReply{Task: resp, Err: toErrorInfo(err)}, nil
}

func (m *Module) handleList(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksReply, error) {
	tasks, err := m.service.ListTasks(ctx, req)
	return ListTasksReply{Tasks: tasks, Total: len(tasks), Err: toErrorInfo(err)}, nil
}

func (m *Module) handleUpdate(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskReply, error) {
	resp, err := m.service.UpdateTask(ctx, &req)
	return TaskReply{Task: resp, Err: toErrorInfo(err)}, nil
}

func (m *Module) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskReply, error) {
	err := m.service.DeleteTask(ctx, req.TaskID)
	return DeleteTaskReply{Deleted: err == nil, Err: toErrorInfo(err)}, nil
}
