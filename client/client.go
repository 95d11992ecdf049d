// Package client provides a Go client for the project-tracker REST API
// and an in-memory mirror of the task set for dashboard consumers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Task is the wire form of a task as returned by the API. The server
// mirrors its canonical identifier onto both `id` and `_id`; the client
// normalizes whichever is present onto both fields after decoding.
type Task struct {
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

// Matches reports whether the task is identified by the given id, under
// either identifier alias.
func (t *Task) Matches(id string) bool {
	return t.ID == id || t.MongoID == id
}

func (t *Task) normalizeID() {
	if t.ID == "" {
		t.ID = t.MongoID
	}
	if t.MongoID == "" {
		t.MongoID = t.ID
	}
}

// TaskForm is the payload for creating a task.
type TaskForm struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
	Project     string     `json:"project,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// TaskUpdate is a partial update; nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Assignee    *string    `json:"assignee,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
	Project     *string    `json:"project,omitempty"`
	Tags        *[]string  `json:"tags,omitempty"`
}

// ListFilter holds the equality filters of the list endpoint.
type ListFilter struct {
	Status   string
	Priority string
	Project  string
}

// APIError is a failure envelope returned by the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// IsNotFound reports whether the error is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}

// Client talks to the project-tracker REST API.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a client for the API at baseURL, e.g. "http://localhost:3000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
	}
}

// NewWithHTTPClient creates a client using a caller-supplied http.Client.
func NewWithHTTPClient(baseURL string, httpc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ListTasks fetches tasks matching the filter, newest first.
func (c *Client) ListTasks(ctx context.Context, filter ListFilter) ([]Task, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.Priority != "" {
		query.Set("priority", filter.Priority)
	}
	if filter.Project != "" {
		query.Set("project", filter.Project)
	}

	path := "/api/tasks"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var tasks []Task
	if err := json.Unmarshal(env.Data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode task list: %w", err)
	}
	for i := range tasks {
		tasks[i].normalizeID()
	}
	return tasks, nil
}

// GetTask fetches a single task by ID.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeTask(env.Data)
}

// CreateTask creates a new task and returns the server's document.
func (c *Client) CreateTask(ctx context.Context, form TaskForm) (*Task, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/tasks", form)
	if err != nil {
		return nil, err
	}
	return decodeTask(env.Data)
}

// UpdateTask applies a partial update and returns the merged document.
func (c *Client) UpdateTask(ctx context.Context, id string, update TaskUpdate) (*Task, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), update)
	if err != nil {
		return nil, err
	}
	return decodeTask(env.Data)
}

// DeleteTask deletes a task by ID.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*apiEnvelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !env.Success {
		message := env.Error
		if message == "" {
			message = http.StatusText(res.StatusCode)
		}
		return nil, &APIError{Status: res.StatusCode, Message: message}
	}
	return &env, nil
}

func decodeTask(data json.RawMessage) (*Task, error) {
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode task: %w", err)
	}
	t.normalizeID()
	return &t, nil
}
