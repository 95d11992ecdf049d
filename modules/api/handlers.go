package api

import (
	"errors"

	domain "github.com/ManishCody/project-tracker/domain/task"
	"github.com/ManishCody/project-tracker/modules/task"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Handlers adapts HTTP requests to task port calls and shapes every
// response into the {success, data|error, count} envelope.
type Handlers struct {
	tasks task.TaskPort
}

// NewHandlers creates the HTTP handlers over a task port.
func NewHandlers(tasks task.TaskPort) *Handlers {
	return &Handlers{tasks: tasks}
}

// NewApp builds a Fiber app with middleware and routes configured.
// Shared between the module and the handler tests.
func NewApp(tasks task.TaskPort) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Project Tracker API",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())

	h := NewHandlers(tasks)
	app.Get("/health", h.HealthCheck)

	tasksGroup := app.Group("/api/tasks")
	tasksGroup.Get("/", h.ListTasks)
	tasksGroup.Post("/", h.CreateTask)
	tasksGroup.Get("/:id", h.GetTask)
	tasksGroup.Put("/:id", h.UpdateTask)
	tasksGroup.Delete("/:id", h.DeleteTask)

	return app
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "healthy"})
}

// ListTasks handles GET /api/tasks with optional equality filters.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	req := task.ListTasksRequest{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Project:  c.Query("project"),
	}

	tasks, err := h.tasks.ListTasks(c.Context(), req)
	if err != nil {
		return fail(c, statusFor(err), err.Error())
	}

	data := make([]taskJSON, 0, len(tasks))
	for i := range tasks {
		data = append(data, toTaskJSON(&tasks[i]))
	}

	count := len(data)
	return c.JSON(envelope{Success: true, Count: &count, Data: data})
}

// CreateTask handles POST /api/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var body createTaskBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.tasks.CreateTask(c.Context(), body.toRequest())
	if err != nil {
		return fail(c, statusFor(err), err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(envelope{Success: true, Data: toTaskJSON(resp)})
}

// GetTask handles GET /api/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	resp, err := h.tasks.GetTask(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, statusFor(err), errMessage(err))
	}
	return c.JSON(envelope{Success: true, Data: toTaskJSON(resp)})
}

// UpdateTask handles PUT /api/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var body updateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.tasks.UpdateTask(c.Context(), body.toRequest(c.Params("id")))
	if err != nil {
		return fail(c, statusFor(err), errMessage(err))
	}
	return c.JSON(envelope{Success: true, Data: toTaskJSON(resp)})
}

// DeleteTask handles DELETE /api/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	if err := h.tasks.DeleteTask(c.Context(), c.Params("id")); err != nil {
		return fail(c, statusFor(err), errMessage(err))
	}
	return c.JSON(envelope{Success: true, Data: fiber.Map{}})
}

// statusFor maps service errors to HTTP status codes. Validation and
// schema violations are client errors; everything unexpected is a
// store/server failure.
func statusFor(err error) int {
	var vErr *task.ValidationError
	var sErr *domain.SchemaError
	switch {
	case errors.As(err, &vErr), errors.As(err, &sErr):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// errMessage keeps the not-found wording stable for API consumers.
func errMessage(err error) string {
	if errors.Is(err, domain.ErrNotFound) {
		return "Task not found"
	}
	return err.Error()
}

// fail writes an error envelope with the given status.
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(envelope{Success: false, Error: message})
}

// errorHandler handles errors escaping Fiber routes.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return fail(c, code, message)
}
