package task

import (
	"context"
	"fmt"
	"log"
	"time"

	domain "github.com/ManishCody/project-tracker/domain/task"
	"github.com/ManishCody/project-tracker/events"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// CacheService is the slice of the cache module the task service needs.
// A nil CacheService disables caching entirely.
type CacheService interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	InvalidateAll(ctx context.Context) error
}

// Service implements the core task operations over the repository,
// with an optional read-through cache in front of the read paths.
type Service struct {
	repo     *domain.Repository
	cache    CacheService
	sfGroup  singleflight.Group // Prevents cache stampede
	eventBus mono.EventBus
}

var _ TaskPort = (*Service)(nil)

// NewService creates a new task service. cache may be nil.
func NewService(repo *domain.Repository, cache CacheService) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// SetEventBus wires the event bus used for task mutation events.
func (s *Service) SetEventBus(bus mono.EventBus) {
	s.eventBus = bus
}

// SetCache wires (or replaces) the read cache.
func (s *Service) SetCache(cache CacheService) {
	s.cache = cache
}

// CreateTask validates the payload, assigns ID and timestamps, and
// persists the new task.
func (s *Service) CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error) {
	t, err := ValidateCreate(req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t.ID = uuid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	if s.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			Project:   t.Project,
			Assignee:  t.Assignee,
			CreatedAt: t.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(s.eventBus, event, nil); err != nil {
			// Event publishing is best-effort; log but don't fail the operation
			log.Printf("[task] Warning: failed to publish TaskCreated event for task %s: %v", t.ID, err)
		}
	}

	return toTaskResponse(t), nil
}

// GetTask retrieves a single task, cache-aside when a cache is wired.
func (s *Service) GetTask(ctx context.Context, taskID string) (*TaskResponse, error) {
	cacheKey := "id:" + taskID

	if s.cache != nil {
		var cached TaskResponse
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Printf("[task] Cache error for %s: %v", taskID, err)
		}
		if found {
			return &cached, nil
		}
	}

	val, err, _ := s.sfGroup.Do(cacheKey, func() (any, error) {
		return s.repo.FindByID(ctx, taskID)
	})
	if err != nil {
		return nil, err
	}

	resp := toTaskResponse(val.(*domain.Task))
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, resp); err != nil {
			log.Printf("[task] Warning: failed to cache task %s: %v", taskID, err)
		}
	}
	return resp, nil
}

// ListTasks retrieves tasks matching the filter, newest first.
func (s *Service) ListTasks(ctx context.Context, req ListTasksRequest) ([]TaskResponse, error) {
	cacheKey := fmt.Sprintf("list:%s:%s:%s", req.Status, req.Priority, req.Project)

	if s.cache != nil {
		var cached []TaskResponse
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Printf("[task] Cache error for list: %v", err)
		}
		if found {
			return cached, nil
		}
	}

	val, err, _ := s.sfGroup.Do(cacheKey, func() (any, error) {
		return s.repo.FindMany(ctx, domain.Filter{
			Status:   req.Status,
			Priority: req.Priority,
			Project:  req.Project,
		})
	})
	if err != nil {
		return nil, err
	}

	tasks := val.([]domain.Task)
	resp := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, *toTaskResponse(&tasks[i]))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, resp); err != nil {
			log.Printf("[task] Warning: failed to cache task list: %v", err)
		}
	}
	return resp, nil
}

// UpdateTask merges the supplied fields onto the stored task and saves
// the result. Unsupplied fields keep their previous values.
func (s *Service) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error) {
	t, err := s.repo.FindByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	if err := ApplyUpdate(t, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	if s.eventBus != nil {
		event := events.TaskUpdatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			Status:    string(t.Status),
			Progress:  t.Progress,
			UpdatedAt: t.UpdatedAt,
		}
		if err := events.TaskUpdatedV1.Publish(s.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskUpdated event for task %s: %v", t.ID, err)
		}
	}

	return toTaskResponse(t), nil
}

// DeleteTask hard-deletes a task by ID.
func (s *Service) DeleteTask(ctx context.Context, taskID string) error {
	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, taskID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.invalidate(ctx)

	if s.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    taskID,
			Title:     t.Title,
			DeletedAt: time.Now(),
		}
		if err := events.TaskDeletedV1.Publish(s.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskDeleted event for task %s: %v", taskID, err)
		}
	}

	return nil
}

// invalidate drops all cached reads after a mutation. Cache errors are
// logged, never surfaced: the store is the ground truth.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Printf("[task] Warning: failed to invalidate cache: %v", err)
	}
}
