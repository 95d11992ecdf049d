package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ManishCody/project-tracker/client"
	"github.com/ManishCody/project-tracker/views"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// NewListCommand lists tasks, applying the dashboard filters locally.
func NewListCommand(opts *RootOptions) *cobra.Command {
	var (
		status   []string
		priority string
		project  string
		assignee string
		search   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(opts.Addr)
			tasks, err := c.ListTasks(cmd.Context(), client.ListFilter{Priority: priority})
			if err != nil {
				return err
			}

			filter := views.NewFilter()
			if len(status) > 0 {
				filter.Statuses = status
			}
			if project != "" {
				filter.Project = project
			}
			if assignee != "" {
				filter.Assignee = assignee
			}
			filter.Search = search

			filtered := views.Apply(tasks, filter)

			if opts.Format == "json" {
				return printJSON(filtered)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tASSIGNEE\tPROGRESS\tSTART\tEND")
			for _, t := range filtered {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%s\t%s\n",
					t.ID, t.Title, t.Status, views.DisplayAssignee(t), t.Progress,
					t.StartDate.Format(dateLayout), t.EndDate.Format(dateLayout))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringSliceVar(&status, "status", nil, "statuses to include (default all)")
	cmd.Flags().StringVar(&priority, "priority", "", "filter by priority")
	cmd.Flags().StringVar(&project, "project", "", "filter by project")
	cmd.Flags().StringVar(&assignee, "assignee", "", "filter by assignee")
	cmd.Flags().StringVar(&search, "search", "", "search in title and assignee")
	return cmd
}

// NewGetCommand fetches a single task by ID.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a task by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(opts.Addr)
			t, err := c.GetTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return printJSON(t)
			}
			printTask(t)
			return nil
		},
	}
}

// NewCreateCommand creates a new task.
func NewCreateCommand(opts *RootOptions) *cobra.Command {
	var (
		form     client.TaskForm
		start    string
		end      string
		progress int
		tags     []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := time.Parse(dateLayout, start)
			if err != nil {
				return fmt.Errorf("invalid --start date %q: %w", start, err)
			}
			endDate, err := time.Parse(dateLayout, end)
			if err != nil {
				return fmt.Errorf("invalid --end date %q: %w", end, err)
			}
			form.StartDate = &startDate
			form.EndDate = &endDate
			form.Tags = tags
			if cmd.Flags().Changed("progress") {
				form.Progress = &progress
			}

			cache := client.NewTaskCache(client.New(opts.Addr), notifierFor(opts))
			created, err := cache.Add(cmd.Context(), form)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return printJSON(created)
			}
			printTask(created)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Title, "title", "", "task title (required)")
	cmd.Flags().StringVar(&form.Description, "description", "", "task description (required)")
	cmd.Flags().StringVar(&start, "start", "", "start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&end, "end", "", "end date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&form.Status, "status", "", "status (pending|in-progress|completed)")
	cmd.Flags().StringVar(&form.Priority, "priority", "", "priority (low|medium|high)")
	cmd.Flags().StringVar(&form.Assignee, "assignee", "", "assignee")
	cmd.Flags().StringVar(&form.Project, "project", "", "project key")
	cmd.Flags().IntVar(&progress, "progress", 0, "progress 0-100")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

// NewUpdateCommand applies a partial update; only the flags that were
// set are sent.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	var (
		title       string
		description string
		status      string
		priority    string
		assignee    string
		project     string
		start       string
		end         string
		progress    int
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task (only supplied flags change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update client.TaskUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				update.Title = &title
			}
			if flags.Changed("description") {
				update.Description = &description
			}
			if flags.Changed("status") {
				update.Status = &status
			}
			if flags.Changed("priority") {
				update.Priority = &priority
			}
			if flags.Changed("assignee") {
				update.Assignee = &assignee
			}
			if flags.Changed("project") {
				update.Project = &project
			}
			if flags.Changed("progress") {
				update.Progress = &progress
			}
			if flags.Changed("tags") {
				update.Tags = &tags
			}
			if flags.Changed("start") {
				startDate, err := time.Parse(dateLayout, start)
				if err != nil {
					return fmt.Errorf("invalid --start date %q: %w", start, err)
				}
				update.StartDate = &startDate
			}
			if flags.Changed("end") {
				endDate, err := time.Parse(dateLayout, end)
				if err != nil {
					return fmt.Errorf("invalid --end date %q: %w", end, err)
				}
				update.EndDate = &endDate
			}

			cache := client.NewTaskCache(client.New(opts.Addr), notifierFor(opts))
			updated, err := cache.Update(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return printJSON(updated)
			}
			printTask(updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&status, "status", "", "status")
	cmd.Flags().StringVar(&priority, "priority", "", "priority")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee")
	cmd.Flags().StringVar(&project, "project", "", "project key")
	cmd.Flags().StringVar(&start, "start", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "end date, YYYY-MM-DD")
	cmd.Flags().IntVar(&progress, "progress", 0, "progress 0-100")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags")
	return cmd
}

// NewDeleteCommand deletes a task by ID.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := client.NewTaskCache(client.New(opts.Addr), notifierFor(opts))
			return cache.Delete(cmd.Context(), args[0])
		},
	}
}

// NewStatsCommand prints the dashboard stats for a project scope.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task stats (optionally scoped to a project)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(opts.Addr)
			tasks, err := c.ListTasks(cmd.Context(), client.ListFilter{Project: project})
			if err != nil {
				return err
			}

			stats := views.ComputeStats(tasks)
			if opts.Format == "json" {
				return printJSON(stats)
			}

			fmt.Printf("Total:        %d\n", stats.Total)
			fmt.Printf("Completed:    %d (%d%% of total)\n", stats.Completed, stats.CompletionPercentage)
			fmt.Printf("In Progress:  %d\n", stats.InProgress)
			fmt.Printf("Pending:      %d\n", stats.Pending)
			fmt.Printf("Avg Progress: %d%%\n", stats.AvgProgress)
			fmt.Printf("On Track:     %d\n", stats.OnTrack)
			fmt.Printf("At Risk:      %d\n", stats.AtRisk)
			if assignees := views.UniqueAssignees(tasks); len(assignees) > 0 {
				fmt.Printf("Assignees:    %s\n", strings.Join(assignees, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "scope stats to a project")
	return cmd
}

// NewTimelineCommand prints the timeline window covering the task set.
func NewTimelineCommand(opts *RootOptions) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show the timeline date range for the task set",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(opts.Addr)
			tasks, err := c.ListTasks(cmd.Context(), client.ListFilter{Project: project})
			if err != nil {
				return err
			}

			dr := views.ComputeDateRange(tasks, time.Now())
			if opts.Format == "json" {
				return printJSON(map[string]any{
					"start":     dr.Start.Format(dateLayout),
					"end":       dr.End.Format(dateLayout),
					"day_count": dr.DayCount,
				})
			}

			fmt.Printf("Start:    %s\n", dr.Start.Format(dateLayout))
			fmt.Printf("End:      %s\n", dr.End.Format(dateLayout))
			fmt.Printf("Days:     %d\n", dr.DayCount)
			fmt.Printf("Tasks:    %d\n", len(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "scope to a project")
	return cmd
}

// notifierFor silences notifications in JSON mode so the output stays
// machine-readable.
func notifierFor(opts *RootOptions) client.Notifier {
	if opts.Format == "json" {
		return nil
	}
	return client.LogNotifier{}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTask(t *client.Task) {
	fmt.Printf("ID:          %s\n", t.ID)
	fmt.Printf("Title:       %s\n", t.Title)
	fmt.Printf("Description: %s\n", t.Description)
	fmt.Printf("Status:      %s\n", t.Status)
	if t.Priority != "" {
		fmt.Printf("Priority:    %s\n", t.Priority)
	}
	fmt.Printf("Assignee:    %s\n", views.DisplayAssignee(*t))
	fmt.Printf("Progress:    %d%%\n", t.Progress)
	if t.Project != "" {
		fmt.Printf("Project:     %s\n", t.Project)
	}
	if len(t.Tags) > 0 {
		fmt.Printf("Tags:        %s\n", strings.Join(t.Tags, ", "))
	}
	fmt.Printf("Start:       %s\n", t.StartDate.Format(dateLayout))
	fmt.Printf("End:         %s\n", t.EndDate.Format(dateLayout))
}
