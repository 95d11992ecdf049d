package task

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Status represents the workflow state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority represents the urgency of a task. Empty means unset.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority is a known value or unset.
func (p Priority) Valid() bool {
	switch p {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// StringList stores a list of tags as a JSON-encoded text column.
type StringList []string

// Value implements driver.Valuer for GORM.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for GORM.
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported tags column type %T", value)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Task is the single entity tracked by the system. Stored in the tasks
// table with hard deletes; the server is the sole authority over ID and
// the createdAt/updatedAt timestamps.
type Task struct {
	ID          string     `gorm:"primarykey;size:36" json:"id"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	Description string     `gorm:"size:500;not null" json:"description"`
	Status      Status     `gorm:"size:20;not null;default:pending" json:"status"`
	Priority    Priority   `gorm:"size:10" json:"priority,omitempty"`
	StartDate   time.Time  `gorm:"not null" json:"startDate"`
	EndDate     time.Time  `gorm:"not null" json:"endDate"`
	Assignee    string     `gorm:"size:100" json:"assignee,omitempty"`
	Progress    int        `gorm:"not null;default:0" json:"progress"`
	Project     string     `gorm:"size:100;index" json:"project,omitempty"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName returns the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}

// SchemaError reports a constraint violation detected at the persistence
// boundary. It is a client error: the document was rejected, not lost.
type SchemaError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	return e.Message
}

func schemaErrorf(field, format string, args ...any) *SchemaError {
	return &SchemaError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate enforces the schema constraints applied on every write,
// create and update alike. Returns *SchemaError on the first violation.
func (t *Task) Validate() error {
	// Length limits count characters, not bytes
	title := strings.TrimSpace(t.Title)
	if utf8.RuneCountInString(title) < 3 {
		return schemaErrorf("title", "Title must be at least 3 characters")
	}
	if utf8.RuneCountInString(title) > 100 {
		return schemaErrorf("title", "Title cannot exceed 100 characters")
	}

	desc := strings.TrimSpace(t.Description)
	if utf8.RuneCountInString(desc) < 10 {
		return schemaErrorf("description", "Description must be at least 10 characters")
	}
	if utf8.RuneCountInString(desc) > 500 {
		return schemaErrorf("description", "Description cannot exceed 500 characters")
	}

	if !t.Status.Valid() {
		return schemaErrorf("status", "Invalid status: %s", t.Status)
	}
	if !t.Priority.Valid() {
		return schemaErrorf("priority", "Invalid priority: %s", t.Priority)
	}

	if t.StartDate.IsZero() {
		return schemaErrorf("startDate", "Start date is required")
	}
	if t.EndDate.IsZero() {
		return schemaErrorf("endDate", "End date is required")
	}
	if !t.EndDate.After(t.StartDate) {
		return schemaErrorf("endDate", "End date must be after start date")
	}

	if t.Progress < 0 || t.Progress > 100 {
		return schemaErrorf("progress", "Progress must be between 0 and 100")
	}

	return nil
}
