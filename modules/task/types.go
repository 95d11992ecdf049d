package task

import (
	"context"
	"time"

	domain "github.com/ManishCody/project-tracker/domain/task"
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
	Project     string     `json:"project,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	TaskID string `json:"task_id"`
}

// ListTasksRequest is the request for listing tasks. All filters are
// equality-only; empty means unfiltered.
type ListTasksRequest struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	Project  string `json:"project,omitempty"`
}

// UpdateTaskRequest is the request for partially updating a task.
// Nil fields keep their previous value.
type UpdateTaskRequest struct {
	TaskID      string     `json:"task_id"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Assignee    *string    `json:"assignee,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
	Project     *string    `json:"project,omitempty"`
	Tags        *[]string  `json:"tags,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

// TaskResponse is the response for a single task.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority,omitempty"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Assignee    string    `json:"assignee,omitempty"`
	Progress    int       `json:"progress"`
	Project     string    `json:"project,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Error kinds carried across the service bus. Go error types do not
// survive JSON serialization, so replies carry an ErrorInfo that the
// adapter converts back into typed errors.
const (
	ErrorKindValidation = "validation"
	ErrorKindSchema     = "schema"
	ErrorKindNotFound   = "not_found"
	ErrorKindInternal   = "internal"
)

// ErrorInfo is the wire form of a service error.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// TaskReply wraps a single-task service response.
type TaskReply struct {
	Task *TaskResponse `json:"task,omitempty"`
	Err  *ErrorInfo    `json:"error,omitempty"`
}

// ListTasksReply wraps the list service response.
type ListTasksReply struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
	Err   *ErrorInfo     `json:"error,omitempty"`
}

// DeleteTaskReply wraps the delete service response.
type DeleteTaskReply struct {
	Deleted bool       `json:"deleted"`
	Err     *ErrorInfo `json:"error,omitempty"`
}

// TaskPort defines the interface for task operations (hexagonal port).
// Implemented by both the Service (direct, in-process) and the bus
// adapter, so driving adapters can use either.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, taskID string) (*TaskResponse, error)
	ListTasks(ctx context.Context, req ListTasksRequest) ([]TaskResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, taskID string) error
}

// toTaskResponse converts a domain Task to a TaskResponse.
func toTaskResponse(t *domain.Task) *TaskResponse {
	tags := make([]string, len(t.Tags))
	copy(tags, t.Tags)
	return &TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Assignee:    t.Assignee,
		Progress:    t.Progress,
		Project:     t.Project,
		Tags:        tags,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
