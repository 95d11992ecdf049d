package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestRepo creates a repository over an in-memory SQLite database.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	repo := NewRepository(db)
	if err := repo.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return repo
}

func newTestTask(title string) *Task {
	now := time.Now()
	return &Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: "A test task with a long enough description",
		Status:      StatusPending,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Tags:        StringList{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestRepository_CreateAndFindByID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created := newTestTask("  Create Test  ")
	created.Project = " marketing "
	if err := repo.Create(ctx, created); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}

	// Strings are trimmed before persisting
	if found.Title != "Create Test" {
		t.Errorf("expected trimmed title, got %q", found.Title)
	}
	if found.Project != "marketing" {
		t.Errorf("expected trimmed project, got %q", found.Project)
	}
	if found.Status != StatusPending {
		t.Errorf("expected status pending, got %q", found.Status)
	}
}

func TestRepository_Create_SchemaViolations(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("end before start", func(t *testing.T) {
		tk := newTestTask("Date Ordering")
		tk.EndDate = tk.StartDate.AddDate(0, 0, -1)

		err := repo.Create(ctx, tk)
		var sErr *SchemaError
		if !errors.As(err, &sErr) {
			t.Fatalf("expected *SchemaError, got %v", err)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		tk := newTestTask("Status Check")
		tk.Status = "archived"

		err := repo.Create(ctx, tk)
		var sErr *SchemaError
		if !errors.As(err, &sErr) {
			t.Fatalf("expected *SchemaError, got %v", err)
		}
	})
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.FindByID(context.Background(), "non-existent-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_FindMany(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	base := time.Now()
	specs := []struct {
		title    string
		status   Status
		priority Priority
		project  string
		age      time.Duration
	}{
		{"Oldest", StatusCompleted, PriorityLow, "alpha", 3 * time.Hour},
		{"Middle", StatusPending, PriorityHigh, "alpha", 2 * time.Hour},
		{"Newest", StatusPending, PriorityLow, "beta", 1 * time.Hour},
	}
	for _, s := range specs {
		tk := newTestTask(s.title)
		tk.Status = s.status
		tk.Priority = s.priority
		tk.Project = s.project
		tk.CreatedAt = base.Add(-s.age)
		if err := repo.Create(ctx, tk); err != nil {
			t.Fatalf("failed to create %s: %v", s.title, err)
		}
	}

	t.Run("no filter, newest first", func(t *testing.T) {
		tasks, err := repo.FindMany(ctx, Filter{})
		if err != nil {
			t.Fatalf("FindMany() error = %v", err)
		}
		if len(tasks) != 3 {
			t.Fatalf("expected 3 tasks, got %d", len(tasks))
		}
		if tasks[0].Title != "Newest" || tasks[2].Title != "Oldest" {
			t.Errorf("unexpected order: %s, %s, %s", tasks[0].Title, tasks[1].Title, tasks[2].Title)
		}
	})

	t.Run("filter by status", func(t *testing.T) {
		tasks, err := repo.FindMany(ctx, Filter{Status: "pending"})
		if err != nil {
			t.Fatalf("FindMany() error = %v", err)
		}
		if len(tasks) != 2 {
			t.Errorf("expected 2 pending tasks, got %d", len(tasks))
		}
	})

	t.Run("filter by priority and project", func(t *testing.T) {
		tasks, err := repo.FindMany(ctx, Filter{Priority: "low", Project: "alpha"})
		if err != nil {
			t.Fatalf("FindMany() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].Title != "Oldest" {
			t.Errorf("unexpected result: %v", tasks)
		}
	})

	t.Run("empty database returns empty slice", func(t *testing.T) {
		empty := setupTestRepo(t)
		tasks, err := empty.FindMany(ctx, Filter{})
		if err != nil {
			t.Fatalf("FindMany() error = %v", err)
		}
		if tasks == nil || len(tasks) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", tasks)
		}
	})
}

func TestRepository_Update(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	tk := newTestTask("Original Title")
	if err := repo.Create(ctx, tk); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	t.Run("update existing task", func(t *testing.T) {
		before := tk.UpdatedAt
		time.Sleep(10 * time.Millisecond)

		tk.Title = "Updated Title"
		tk.Progress = 40
		if err := repo.Update(ctx, tk); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		found, err := repo.FindByID(ctx, tk.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.Title != "Updated Title" {
			t.Errorf("expected updated title, got %q", found.Title)
		}
		if found.Progress != 40 {
			t.Errorf("expected progress 40, got %d", found.Progress)
		}
		if !found.UpdatedAt.After(before) {
			t.Error("expected UpdatedAt to be bumped")
		}
	})

	t.Run("update re-validates the merged result", func(t *testing.T) {
		tk.EndDate = tk.StartDate
		err := repo.Update(ctx, tk)
		var sErr *SchemaError
		if !errors.As(err, &sErr) {
			t.Fatalf("expected *SchemaError, got %v", err)
		}
		tk.EndDate = tk.StartDate.AddDate(0, 0, 9)
	})

	t.Run("update non-existent task", func(t *testing.T) {
		ghost := newTestTask("Ghost Task")
		if err := repo.Update(ctx, ghost); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRepository_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	tk := newTestTask("To Be Deleted")
	if err := repo.Create(ctx, tk); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	t.Run("delete existing task", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, tk.ID)
		if err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if !deleted {
			t.Error("expected deleted = true")
		}

		// Hard delete: the row is gone
		if _, err := repo.FindByID(ctx, tk.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("delete non-existent task", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, "non-existent-id")
		if err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if deleted {
			t.Error("expected deleted = false")
		}
	})
}
