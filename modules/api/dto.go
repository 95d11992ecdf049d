package api

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ManishCody/project-tracker/modules/task"
)

// envelope is the uniform response wrapper: {success, data|error, count}.
type envelope struct {
	Success bool   `json:"success"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// taskJSON is the serialization form of a task. The store's canonical
// identifier is mirrored onto both `id` and `_id` here, at the boundary
// only, for consumers that expect either spelling. `progress` is always
// present.
type taskJSON struct {
	MongoID     string    `json:"_id"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority,omitempty"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Assignee    string    `json:"assignee,omitempty"`
	Progress    int       `json:"progress"`
	Project     string    `json:"project,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toTaskJSON(t *task.TaskResponse) taskJSON {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return taskJSON{
		MongoID:     t.ID,
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
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

// dateValue accepts calendar dates as "2006-01-02" or full RFC 3339
// timestamps, the two formats browser clients actually send.
type dateValue struct {
	time.Time
}

func (d *dateValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// flexInt tolerates numeric, string-numeric and malformed progress
// values: anything that does not parse coerces to 0 rather than
// rejecting the whole payload.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*f = flexInt(n)
			return nil
		}
	}
	*f = 0
	return nil
}

// createTaskBody is the POST /api/tasks request body.
type createTaskBody struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *dateValue `json:"startDate"`
	EndDate     *dateValue `json:"endDate"`
	Assignee    string     `json:"assignee"`
	Progress    *flexInt   `json:"progress"`
	Project     string     `json:"project"`
	Tags        []string   `json:"tags"`
	// Legacy alias for progress sent by old clients; accepted and discarded.
	Percentage json.RawMessage `json:"percentage"`
}

func (b *createTaskBody) toRequest() *task.CreateTaskRequest {
	req := &task.CreateTaskRequest{
		Title:       b.Title,
		Description: b.Description,
		Status:      b.Status,
		Priority:    b.Priority,
		Assignee:    b.Assignee,
		Project:     b.Project,
		Tags:        b.Tags,
	}
	if b.StartDate != nil {
		req.StartDate = &b.StartDate.Time
	}
	if b.EndDate != nil {
		req.EndDate = &b.EndDate.Time
	}
	if b.Progress != nil {
		p := int(*b.Progress)
		req.Progress = &p
	}
	return req
}

// updateTaskBody is the PUT /api/tasks/:id request body. Absent fields
// keep their stored values.
type updateTaskBody struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	StartDate   *dateValue `json:"startDate"`
	EndDate     *dateValue `json:"endDate"`
	Assignee    *string    `json:"assignee"`
	Progress    *flexInt   `json:"progress"`
	Project     *string    `json:"project"`
	Tags        *[]string  `json:"tags"`
	// Legacy alias for progress sent by old clients; accepted and discarded.
	Percentage json.RawMessage `json:"percentage"`
}

func (b *updateTaskBody) toRequest(taskID string) *task.UpdateTaskRequest {
	req := &task.UpdateTaskRequest{
		TaskID:      taskID,
		Title:       b.Title,
		Description: b.Description,
		Status:      b.Status,
		Priority:    b.Priority,
		Assignee:    b.Assignee,
		Project:     b.Project,
		Tags:        b.Tags,
	}
	if b.StartDate != nil {
		req.StartDate = &b.StartDate.Time
	}
	if b.EndDate != nil {
		req.EndDate = &b.EndDate.Time
	}
	if b.Progress != nil {
		p := int(*b.Progress)
		req.Progress = &p
	}
	return req
}

// HealthResponse is the HTTP response for the health check.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
