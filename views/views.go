// Package views holds the pure derived-state computations the
// dashboard runs over the client's task mirror: filtering, stats
// aggregation, timeline date ranges and assignee lists. Task sets are
// small, so everything is recomputed from scratch on each call.
package views

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ManishCody/project-tracker/client"
)

// UnassignedLabel is the display fallback for tasks with no assignee.
const UnassignedLabel = "Unassigned"

// AllStatuses is the default status filter set.
var AllStatuses = []string{"pending", "in-progress", "completed"}

// All is the sentinel filter value meaning no restriction.
const All = "all"

// Filter describes the active dashboard view.
type Filter struct {
	Project  string   // All or a project key
	Statuses []string // statuses currently included
	Assignee string   // All or an assignee name
	Search   string   // case-insensitive substring of title or assignee
}

// NewFilter returns the unrestricted filter. Statuses is a fresh copy,
// safe for the caller to mutate.
func NewFilter() Filter {
	statuses := make([]string, len(AllStatuses))
	copy(statuses, AllStatuses)
	return Filter{
		Project:  All,
		Statuses: statuses,
		Assignee: All,
	}
}

// Matches reports whether the task belongs to the filtered view.
func Matches(t client.Task, f Filter) bool {
	if f.Project != All && t.Project != f.Project {
		return false
	}

	inSet := false
	for _, s := range f.Statuses {
		if t.Status == s {
			inSet = true
			break
		}
	}
	if !inSet {
		return false
	}

	if f.Assignee != All && t.Assignee != f.Assignee {
		return false
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		title := strings.ToLower(t.Title)
		assignee := strings.ToLower(t.Assignee)
		if !strings.Contains(title, needle) && !strings.Contains(assignee, needle) {
			return false
		}
	}

	return true
}

// Apply returns the subset of tasks matching the filter, preserving order.
func Apply(tasks []client.Task, f Filter) []client.Task {
	result := make([]client.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, f) {
			result = append(result, t)
		}
	}
	return result
}

// Stats aggregates the status buckets and progress of a task subset.
type Stats struct {
	Total                int `json:"total"`
	Completed            int `json:"completed"`
	InProgress           int `json:"in_progress"`
	Pending              int `json:"pending"`
	AvgProgress          int `json:"avg_progress"`
	CompletionPercentage int `json:"completion_percentage"`
	OnTrack              int `json:"on_track"`
	AtRisk               int `json:"at_risk"`
}

// ComputeStats computes the dashboard stats over the given subset.
// All values are zero when the subset is empty.
func ComputeStats(tasks []client.Task) Stats {
	stats := Stats{Total: len(tasks)}

	progressSum := 0
	for _, t := range tasks {
		switch t.Status {
		case "completed":
			stats.Completed++
		case "in-progress":
			stats.InProgress++
		case "pending":
			stats.Pending++
		}
		progressSum += t.Progress

		if t.Progress >= 50 {
			stats.OnTrack++
		} else if t.Status != "completed" {
			stats.AtRisk++
		}
	}

	if stats.Total > 0 {
		stats.AvgProgress = int(math.Round(float64(progressSum) / float64(stats.Total)))
		stats.CompletionPercentage = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}

// DateRange is the timeline span covering a task set.
type DateRange struct {
	Start    time.Time
	End      time.Time
	DayCount int
}

// ComputeDateRange derives the timeline window: the earliest start date
// floored to the first of its month through the latest end date ceiled
// to the last day of its month, inclusive. An empty task set yields a
// 60-day window anchored at now.
func ComputeDateRange(tasks []client.Task, now time.Time) DateRange {
	if len(tasks) == 0 {
		return DateRange{
			Start:    now,
			End:      now.AddDate(0, 0, 60),
			DayCount: 60,
		}
	}

	min := tasks[0].StartDate
	max := tasks[0].EndDate
	for _, t := range tasks[1:] {
		if t.StartDate.Before(min) {
			min = t.StartDate
		}
		if t.EndDate.After(max) {
			max = t.EndDate
		}
	}

	start := time.Date(min.Year(), min.Month(), 1, 0, 0, 0, 0, min.Location())
	// Day 0 of the next month is the last day of this one.
	end := time.Date(max.Year(), max.Month()+1, 0, 0, 0, 0, 0, max.Location())

	return DateRange{
		Start:    start,
		End:      end,
		DayCount: daysBetween(start, end) + 1,
	}
}

// daysBetween counts whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay) / (24 * time.Hour))
}

// UniqueAssignees returns the distinct non-empty assignees, excluding
// the unassigned sentinel, sorted lexicographically.
func UniqueAssignees(tasks []client.Task) []string {
	seen := make(map[string]struct{})
	for _, t := range tasks {
		if t.Assignee == "" || t.Assignee == UnassignedLabel {
			continue
		}
		seen[t.Assignee] = struct{}{}
	}

	result := make([]string, 0, len(seen))
	for a := range seen {
		result = append(result, a)
	}
	sort.Strings(result)
	return result
}

// DisplayAssignee returns the assignee for display, falling back to
// the unassigned sentinel.
func DisplayAssignee(t client.Task) string {
	if t.Assignee == "" {
		return UnassignedLabel
	}
	return t.Assignee
}
