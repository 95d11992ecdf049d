package client

import (
	"context"
	"log"
	"sync"
)

// Notifier receives user-facing outcome messages. The cache never
// decides how to present them; injecting the notifier keeps data access
// and presentation separate.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier writes notifications to the standard logger.
type LogNotifier struct{}

func (LogNotifier) Success(message string) { log.Printf("[tasks] %s", message) }
func (LogNotifier) Error(message string)   { log.Printf("[tasks] Error: %s", message) }

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Error(string)   {}

// TaskCache is a client-held mirror of the server's task set. It never
// predicts a mutation's outcome: every mutating call re-syncs from the
// authoritative server response, and a failed call leaves local state
// untouched.
type TaskCache struct {
	client   *Client
	notifier Notifier

	mu    sync.RWMutex
	tasks []Task
}

// NewTaskCache creates a cache over the given client. A nil notifier
// silently drops notifications.
func NewTaskCache(c *Client, notifier Notifier) *TaskCache {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &TaskCache{
		client:   c,
		notifier: notifier,
		tasks:    make([]Task, 0),
	}
}

// FetchAll replaces the local set with the server's current contents.
func (tc *TaskCache) FetchAll(ctx context.Context) error {
	tasks, err := tc.client.ListTasks(ctx, ListFilter{})
	if err != nil {
		tc.notifier.Error("Failed to load tasks: " + err.Error())
		return err
	}

	tc.mu.Lock()
	tc.tasks = tasks
	tc.mu.Unlock()
	return nil
}

// Add creates a task and appends the server's returned document to the
// local set.
func (tc *TaskCache) Add(ctx context.Context, form TaskForm) (*Task, error) {
	created, err := tc.client.CreateTask(ctx, form)
	if err != nil {
		tc.notifier.Error("Failed to create task: " + err.Error())
		return nil, err
	}

	tc.mu.Lock()
	tc.tasks = append(tc.tasks, *created)
	tc.mu.Unlock()

	tc.notifier.Success("Task created successfully")
	return created, nil
}

// Update applies a partial update and replaces the matching local
// record with the server's merged document. Fields the response omits
// fall back to the prior local value.
func (tc *TaskCache) Update(ctx context.Context, id string, update TaskUpdate) (*Task, error) {
	updated, err := tc.client.UpdateTask(ctx, id, update)
	if err != nil {
		tc.notifier.Error("Failed to update task: " + err.Error())
		return nil, err
	}

	tc.mu.Lock()
	for i := range tc.tasks {
		if tc.tasks[i].Matches(id) {
			merged := mergeTask(tc.tasks[i], *updated)
			tc.tasks[i] = merged
			updated = &merged
			break
		}
	}
	tc.mu.Unlock()

	tc.notifier.Success("Task updated")
	return updated, nil
}

// Delete removes a task on the server and from the local set.
func (tc *TaskCache) Delete(ctx context.Context, id string) error {
	if err := tc.client.DeleteTask(ctx, id); err != nil {
		tc.notifier.Error("Failed to delete task: " + err.Error())
		return err
	}

	tc.mu.Lock()
	kept := tc.tasks[:0]
	for _, t := range tc.tasks {
		if !t.Matches(id) {
			kept = append(kept, t)
		}
	}
	tc.tasks = kept
	tc.mu.Unlock()

	tc.notifier.Success("Task deleted")
	return nil
}

// Snapshot returns a copy of the local task set.
func (tc *TaskCache) Snapshot() []Task {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	result := make([]Task, len(tc.tasks))
	copy(result, tc.tasks)
	return result
}

// Len returns the number of locally held tasks.
func (tc *TaskCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.tasks)
}

// mergeTask overlays the server's document onto the prior local record,
// keeping prior values for fields the response omitted.
func mergeTask(prev, next Task) Task {
	if next.ID == "" {
		next.ID = prev.ID
	}
	if next.MongoID == "" {
		next.MongoID = prev.MongoID
	}
	if next.CreatedAt.IsZero() {
		next.CreatedAt = prev.CreatedAt
	}
	if next.UpdatedAt.IsZero() {
		next.UpdatedAt = prev.UpdatedAt
	}
	if next.Tags == nil {
		next.Tags = prev.Tags
	}
	return next
}
