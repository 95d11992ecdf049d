package notification

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ManishCody/project-tracker/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Entry is a recorded notification.
type Entry struct {
	TaskID    string    `json:"task_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Module records task mutations as user-facing notifications. It is a
// driven adapter: the presentation side of the original toast layer,
// fed from domain events instead of being called from data-access code.
type Module struct {
	entries []Entry
	mu      sync.RWMutex
}

var _ mono.Module = (*Module)(nil)
var _ mono.EventConsumerModule = (*Module)(nil)

func NewModule() *Module {
	return &Module{entries: make([]Entry, 0)}
}

func (m *Module) Name() string {
	return "notification"
}

func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	log.Printf("[notification] Registered event consumers: TaskCreated, TaskUpdated, TaskDeleted")
	return nil
}

func (m *Module) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Task created: %s - %s", event.TaskID, event.Title)
	m.record(event.TaskID, "task_created", fmt.Sprintf("Task '%s' created", event.Title))
	return nil
}

func (m *Module) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Task updated: %s (status=%s, progress=%d%%)", event.TaskID, event.Status, event.Progress)
	m.record(event.TaskID, "task_updated", fmt.Sprintf("Task '%s' updated", event.Title))
	return nil
}

func (m *Module) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Task deleted: %s", event.TaskID)
	m.record(event.TaskID, "task_deleted", fmt.Sprintf("Task '%s' deleted", event.Title))
	return nil
}

func (m *Module) record(taskID, entryType, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, Entry{
		TaskID:    taskID,
		Type:      entryType,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// Entries returns a copy of all recorded notifications.
func (m *Module) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Entry, len(m.entries))
	copy(result, m.entries)
	return result
}

func (m *Module) Start(_ context.Context) error {
	log.Println("[notification] Module started - listening for task events")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	log.Println("[notification] Module stopped")
	return nil
}
