package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// taskAdapter wraps ServiceContainer for type-safe cross-module calls.
// It is the bus-side implementation of TaskPort: replies carry an
// ErrorInfo which the adapter converts back into the typed errors the
// caller would see from the Service directly.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
// container is the task module's ServiceContainer received via
// SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// CreateTask creates a new task via the create service.
func (a *taskAdapter) CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error) {
	var reply TaskReply
	if err := helper.CallRequestReplyService(
		ctx, a.container, "create", json.Marshal, json.Unmarshal, req, &reply,
	); err != nil {
		return nil, fmt.Errorf("create service call failed: %w", err)
	}
	if reply.Err != nil {
		return nil, reply.Err.AsError()
	}
	return reply.Task, nil
}

// GetTask retrieves a task by ID via the get service.
func (a *taskAdapter) GetTask(ctx context.Context, taskID string) (*TaskResponse, error) {
	req := GetTaskRequest{TaskID: taskID}
	var reply TaskReply
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get", json.Marshal, json.Unmarshal, &req, &reply,
	); err != nil {
		return nil, fmt.Errorf("get service call failed: %w", err)
	}
	if reply.Err != nil {
		return nil, reply.Err.AsError()
	}
	return reply.Task, nil
}

// ListTasks lists tasks matching the filter via the list service.
func (a *taskAdapter) ListTasks(ctx context.Context, req ListTasksRequest) ([]TaskResponse, error) {
	var reply ListTasksReply
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list", json.Marshal, json.Unmarshal, &req, &reply,
	); err != nil {
		return nil, fmt.Errorf("list service call failed: %w", err)
	}
	if reply.Err != nil {
		return nil, reply.Err.AsError()
	}
	return reply.Tasks, nil
}

// UpdateTask updates a task via the update service.
func (a *taskAdapter) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error) {
	var reply TaskReply
	if err := helper.CallRequestReplyService(
		ctx, a.container, "update", json.Marshal, json.Unmarshal, req, &reply,
	); err != nil {
		return nil, fmt.Errorf("update service call failed: %w", err)
	}
	if reply.Err != nil {
		return nil, reply.Err.AsError()
	}
	return reply.Task, nil
}

// DeleteTask deletes a task via the delete service.
func (a *taskAdapter) DeleteTask(ctx context.Context, taskID string) error {
	req := DeleteTaskRequest{TaskID: taskID}
	var reply DeleteTaskReply
	if err := helper.CallRequestReplyService(
		ctx, a.container, "delete", json.Marshal, json.Unmarshal, &req, &reply,
	); err != nil {
		return fmt.Errorf("delete service call failed: %w", err)
	}
	if reply.Err != nil {
		return reply.Err.AsError()
	}
	return nil
}
