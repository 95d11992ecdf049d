package task

import (
	"context"
	"testing"
	"time"

	domain "github.com/ManishCody/project-tracker/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo := domain.NewRepository(db)
	require.NoError(t, repo.Migrate())

	return NewService(repo, nil)
}

func createTestTask(t *testing.T, svc *Service) *TaskResponse {
	t.Helper()

	resp, err := svc.CreateTask(context.Background(), validCreateRequest())
	require.NoError(t, err)
	return resp
}

func TestService_CreateTask(t *testing.T) {
	svc := setupTestService(t)

	resp := createTestTask(t, svc)

	assert.NotEmpty(t, resp.ID)
	assert.Len(t, resp.ID, 36, "IDs are UUIDs")
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 0, resp.Progress)
	assert.NotNil(t, resp.Tags)
	assert.False(t, resp.CreatedAt.IsZero())
	assert.Equal(t, resp.CreatedAt, resp.UpdatedAt)
}

func TestService_CreateTask_ValidationError(t *testing.T) {
	svc := setupTestService(t)

	req := validCreateRequest()
	req.Title = "ab"

	_, err := svc.CreateTask(context.Background(), req)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestService_GetTask(t *testing.T) {
	svc := setupTestService(t)
	created := createTestTask(t, svc)

	got, err := svc.GetTask(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)

	_, err = svc.GetTask(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_ListTasks(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	first := createTestTask(t, svc)
	time.Sleep(10 * time.Millisecond)

	req := validCreateRequest()
	req.Title = "Website Redesign"
	req.Status = "completed"
	second, err := svc.CreateTask(ctx, req)
	require.NoError(t, err)

	all, err := svc.ListTasks(ctx, ListTasksRequest{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, first.ID, all[1].ID)

	completed, err := svc.ListTasks(ctx, ListTasksRequest{Status: "completed"})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, second.ID, completed[0].ID)

	none, err := svc.ListTasks(ctx, ListTasksRequest{Project: "absent"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestService_UpdateTask(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	created := createTestTask(t, svc)

	time.Sleep(10 * time.Millisecond)

	updated, err := svc.UpdateTask(ctx, &UpdateTaskRequest{
		TaskID:   created.ID,
		Status:   strPtr("in-progress"),
		Progress: intPtr(40),
	})
	require.NoError(t, err)

	assert.Equal(t, "in-progress", updated.Status)
	assert.Equal(t, 40, updated.Progress)
	assert.Equal(t, created.Title, updated.Title, "unsupplied fields survive")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())

	// The merge is persisted, not just reflected in the response
	got, err := svc.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "in-progress", got.Status)
	assert.Equal(t, 40, got.Progress)
}

func TestService_UpdateTask_EmptyRequest(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	created := createTestTask(t, svc)

	time.Sleep(10 * time.Millisecond)

	// No fields supplied: every value survives, only updatedAt moves
	updated, err := svc.UpdateTask(ctx, &UpdateTaskRequest{TaskID: created.ID})
	require.NoError(t, err)

	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Status, updated.Status)
	assert.Equal(t, created.Progress, updated.Progress)
	assert.Equal(t, created.StartDate.Unix(), updated.StartDate.Unix())
	assert.Equal(t, created.EndDate.Unix(), updated.EndDate.Unix())
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestService_UpdateTask_NotFound(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.UpdateTask(context.Background(), &UpdateTaskRequest{
		TaskID: "no-such-id",
		Status: strPtr("completed"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_UpdateTask_Rejections(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	created := createTestTask(t, svc)

	_, err := svc.UpdateTask(ctx, &UpdateTaskRequest{
		TaskID: created.ID,
		Title:  strPtr("ab"),
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	// Moving the end date before the start date trips schema validation
	before := created.StartDate.AddDate(0, 0, -1)
	_, err = svc.UpdateTask(ctx, &UpdateTaskRequest{
		TaskID:  created.ID,
		EndDate: &before,
	})
	var sErr *domain.SchemaError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, "endDate", sErr.Field)

	// Failed updates leave the stored task untouched
	got, err := svc.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.EndDate.Unix(), got.EndDate.Unix())
}

func TestService_DeleteTask(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	created := createTestTask(t, svc)

	require.NoError(t, svc.DeleteTask(ctx, created.ID))

	_, err := svc.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteTask(ctx, created.ID), domain.ErrNotFound)
}
