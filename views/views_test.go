package views

import (
	"testing"
	"time"

	"github.com/ManishCody/project-tracker/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleTasks() []client.Task {
	return []client.Task{
		{ID: "1", Title: "Marketing Research", Status: "completed", Progress: 100, Project: "marketing", Assignee: "Jessica",
			StartDate: day(2024, time.January, 15), EndDate: day(2024, time.February, 10)},
		{ID: "2", Title: "Website Redesign", Status: "completed", Progress: 100, Project: "web", Assignee: "Sam",
			StartDate: day(2024, time.February, 1), EndDate: day(2024, time.March, 20)},
		{ID: "3", Title: "Campaign Launch", Status: "in-progress", Progress: 50, Project: "marketing", Assignee: "Jessica",
			StartDate: day(2024, time.March, 1), EndDate: day(2024, time.April, 5)},
		{ID: "4", Title: "Quarterly Report", Status: "pending", Progress: 0, Project: "ops",
			StartDate: day(2024, time.April, 1), EndDate: day(2024, time.April, 30)},
	}
}

func TestApply_Unrestricted(t *testing.T) {
	tasks := sampleTasks()
	got := Apply(tasks, NewFilter())
	assert.Equal(t, tasks, got, "default filter keeps everything, in order")
}

func TestNewFilter_StatusesIndependent(t *testing.T) {
	f := NewFilter()
	f.Statuses[0] = "mutated"

	assert.Equal(t, []string{"pending", "in-progress", "completed"}, AllStatuses,
		"mutating a filter must not corrupt the shared default")

	g := NewFilter()
	assert.Equal(t, AllStatuses, g.Statuses)
}

func TestApply_Project(t *testing.T) {
	f := NewFilter()
	f.Project = "marketing"

	got := Apply(sampleTasks(), f)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestApply_StatusSet(t *testing.T) {
	f := NewFilter()
	f.Statuses = []string{"in-progress", "completed"}

	got := Apply(sampleTasks(), f)
	require.Len(t, got, 3)
	for _, task := range got {
		assert.NotEqual(t, "pending", task.Status)
	}
}

func TestApply_EmptyStatusSet(t *testing.T) {
	f := NewFilter()
	f.Statuses = nil

	got := Apply(sampleTasks(), f)
	assert.Empty(t, got, "no statuses selected means nothing matches")
}

func TestApply_Assignee(t *testing.T) {
	f := NewFilter()
	f.Assignee = "Sam"

	got := Apply(sampleTasks(), f)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestApply_Search(t *testing.T) {
	f := NewFilter()
	f.Search = "jess"

	got := Apply(sampleTasks(), f)
	require.Len(t, got, 2, "search matches assignee case-insensitively")

	f.Search = "redesign"
	got = Apply(sampleTasks(), f)
	require.Len(t, got, 1)
	assert.Equal(t, "Website Redesign", got[0].Title)

	f.Search = "zzz"
	assert.Empty(t, Apply(sampleTasks(), f))
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(sampleTasks())

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Pending)
	// Progresses 100, 100, 50, 0 average to 62.5, rounded up
	assert.Equal(t, 63, stats.AvgProgress)
	assert.Equal(t, 50, stats.CompletionPercentage)
	assert.Equal(t, 3, stats.OnTrack)
	assert.Equal(t, 1, stats.AtRisk)
}

func TestComputeStats_FollowsFilter(t *testing.T) {
	f := NewFilter()
	f.Statuses = []string{"in-progress", "completed"}

	stats := ComputeStats(Apply(sampleTasks(), f))
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 67, stats.CompletionPercentage)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil)
	assert.Equal(t, Stats{}, stats)
}

func TestComputeStats_RiskBuckets(t *testing.T) {
	tasks := []client.Task{
		{Status: "in-progress", Progress: 50},
		{Status: "in-progress", Progress: 49},
		{Status: "completed", Progress: 30},
		{Status: "pending", Progress: 0},
	}

	stats := ComputeStats(tasks)
	assert.Equal(t, 1, stats.OnTrack, "exactly 50 percent counts as on track")
	assert.Equal(t, 2, stats.AtRisk, "completed tasks are never at risk")
}

func TestComputeDateRange(t *testing.T) {
	r := ComputeDateRange(sampleTasks(), time.Now())

	assert.Equal(t, day(2024, time.January, 1), r.Start, "floored to the first of the earliest month")
	assert.Equal(t, day(2024, time.April, 30), r.End, "ceiled to the last day of the latest month")
	assert.Equal(t, 121, r.DayCount, "inclusive of both endpoints")
}

func TestComputeDateRange_SingleMonth(t *testing.T) {
	tasks := []client.Task{
		{StartDate: day(2024, time.February, 10), EndDate: day(2024, time.February, 15)},
	}

	r := ComputeDateRange(tasks, time.Now())
	assert.Equal(t, day(2024, time.February, 1), r.Start)
	assert.Equal(t, day(2024, time.February, 29), r.End, "leap year February ends on the 29th")
	assert.Equal(t, 29, r.DayCount)
}

func TestComputeDateRange_Empty(t *testing.T) {
	now := day(2024, time.June, 1)
	r := ComputeDateRange(nil, now)

	assert.Equal(t, now, r.Start)
	assert.Equal(t, now.AddDate(0, 0, 60), r.End)
	assert.Equal(t, 60, r.DayCount)
}

func TestUniqueAssignees(t *testing.T) {
	tasks := append(sampleTasks(), client.Task{ID: "5", Assignee: UnassignedLabel, Status: "pending"})

	got := UniqueAssignees(tasks)
	assert.Equal(t, []string{"Jessica", "Sam"}, got)
}

func TestDisplayAssignee(t *testing.T) {
	assert.Equal(t, "Jessica", DisplayAssignee(client.Task{Assignee: "Jessica"}))
	assert.Equal(t, UnassignedLabel, DisplayAssignee(client.Task{}))
}
