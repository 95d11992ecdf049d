package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("task not found")

// Filter holds the equality filters supported by FindMany.
// Empty fields are ignored.
type Filter struct {
	Status   string
	Priority string
	Project  string
}

// Repository provides database operations for tasks.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate runs database migrations for the tasks table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&Task{})
}

// Create validates and inserts a new task. The caller is expected to have
// assigned ID and timestamps; trimming happens here so stored strings are
// always normalized.
func (r *Repository) Create(ctx context.Context, t *Task) error {
	normalize(t)
	if err := t.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*Task, error) {
	var t Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// FindMany retrieves tasks matching the filter, newest first.
func (r *Repository) FindMany(ctx context.Context, filter Filter) ([]Task, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Project != "" {
		query = query.Where("project = ?", filter.Project)
	}

	tasks := make([]Task, 0)
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update validates and saves the merged task, re-stamping UpdatedAt.
func (r *Repository) Update(ctx context.Context, t *Task) error {
	normalize(t)
	if err := t.Validate(); err != nil {
		return err
	}
	t.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&Task{}).Where("id = ?", t.ID).
		Select("*").Omit("id", "created_at").Updates(t)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task by ID. Returns true when a row was deleted.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return result.RowsAffected > 0, nil
}

// normalize trims the free-text fields before validation so length
// checks and stored values agree.
func normalize(t *Task) {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	t.Assignee = strings.TrimSpace(t.Assignee)
	t.Project = strings.TrimSpace(t.Project)
	if t.Tags == nil {
		t.Tags = StringList{}
	}
}
