package api

import (
	"context"
	"fmt"
	"log"

	"github.com/ManishCody/project-tracker/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
)

// Module is the driving adapter exposing the REST API. It reaches the
// core domain through the TaskPort bus adapter.
type Module struct {
	app      *fiber.App
	taskPort task.TaskPort
	port     int
}

var _ mono.Module = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new API module listening on the given port.
func NewModule(port int) *Module {
	return &Module{port: port}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"task"}
}

// SetDependencyServiceContainer receives service containers from
// dependencies and builds the bus adapter.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "task" {
		m.taskPort = task.NewTaskAdapter(container)
	}
}

// SetTaskPort overrides the port with a direct implementation, used by
// tests and embedded deployments.
func (m *Module) SetTaskPort(p task.TaskPort) {
	m.taskPort = p
}

// Start builds the Fiber app and begins serving.
func (m *Module) Start(_ context.Context) error {
	if m.taskPort == nil {
		return fmt.Errorf("taskPort dependency not set")
	}

	m.app = NewApp(m.taskPort)

	go func() {
		addr := fmt.Sprintf(":%d", m.port)
		log.Printf("[api] Starting HTTP server on %s", addr)
		if err := m.app.Listen(addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	return nil
}

// Stop shuts down the HTTP server gracefully.
func (m *Module) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// GetApp returns the Fiber app (for testing).
func (m *Module) GetApp() *fiber.App {
	return m.app
}
