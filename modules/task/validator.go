package task

import (
	"strings"
	"unicode/utf8"

	domain "github.com/ManishCody/project-tracker/domain/task"
)

// Payload validation for the task write paths. These are pure
// functions: they inspect a candidate payload and either produce a
// normalized entity (or merged entity) or a *ValidationError. Length
// ceilings, enum membership and date ordering are left to the schema
// layer, which rejects them with *SchemaError on write.

// ValidateCreate checks the required fields of a create payload and
// builds the entity with its defaults applied. ID and timestamps are
// assigned by the service.
func ValidateCreate(req *CreateTaskRequest) (*domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if utf8.RuneCountInString(title) < 3 {
		return nil, &ValidationError{Message: "Title must be at least 3 characters"}
	}

	description := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(description) < 10 {
		return nil, &ValidationError{Message: "Description must be at least 10 characters"}
	}

	if req.StartDate == nil || req.EndDate == nil {
		return nil, &ValidationError{Message: "Start date and end date are required"}
	}

	status := domain.Status(req.Status)
	if status == "" {
		status = domain.StatusPending
	}

	progress := 0
	if req.Progress != nil {
		progress = clampProgress(*req.Progress)
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	return &domain.Task{
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    domain.Priority(req.Priority),
		StartDate:   *req.StartDate,
		EndDate:     *req.EndDate,
		Assignee:    strings.TrimSpace(req.Assignee),
		Progress:    progress,
		Project:     strings.TrimSpace(req.Project),
		Tags:        domain.StringList(tags),
	}, nil
}

// ApplyUpdate merges the supplied fields of an update payload onto the
// existing entity. Nil fields keep their previous value. The minimum
// length rules apply to updates the same as creates; the merged result
// still goes through schema validation at the store.
func ApplyUpdate(t *domain.Task, req *UpdateTaskRequest) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if utf8.RuneCountInString(title) < 3 {
			return &ValidationError{Message: "Title must be at least 3 characters"}
		}
		t.Title = title
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if utf8.RuneCountInString(description) < 10 {
			return &ValidationError{Message: "Description must be at least 10 characters"}
		}
		t.Description = description
	}

	if req.Status != nil {
		t.Status = domain.Status(*req.Status)
	}
	if req.Priority != nil {
		t.Priority = domain.Priority(*req.Priority)
	}
	if req.StartDate != nil {
		t.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		t.EndDate = *req.EndDate
	}
	if req.Assignee != nil {
		t.Assignee = strings.TrimSpace(*req.Assignee)
	}
	if req.Progress != nil {
		t.Progress = clampProgress(*req.Progress)
	}
	if req.Project != nil {
		t.Project = strings.TrimSpace(*req.Project)
	}
	if req.Tags != nil {
		t.Tags = domain.StringList(*req.Tags)
	}

	return nil
}

// clampProgress bounds progress into [0,100].
func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
