package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/parser"
	"github.com/opus-software/opus/internal/store"
)

func newTaskCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(g),
		newTaskShowCmd(g),
		newTaskEditCmd(g),
		newTaskMoveCmd(g),
		newTaskDoneCmd(g),
		newTaskRemoveCmd(g),
	)
	return cmd
}

type taskFlags struct {
	epic        string
	title       string
	description string
	priority    string
	status      string
	assignee    string
	unassign    bool
	labels      []string
	due         string
}

func newTaskAddCmd(g *globalFlags) *cobra.Command {
	f := &taskFlags{}
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to an epic",
		Long: `Add a task to an epic, with optional smart parsing of the title.

Smart parsing syntax:
  #label1,label2  - Labels of the epic's space, by name or id
  @user           - Assignee, by user id or email
  +priority       - Priority (low/medium/high/urgent or 1-4)
  !status         - Status (todo/doing/done)
  due:3days       - Due date (today, tomorrow, dd/mm/yyyy, yyyy-mm-dd, X days, X hours, X weeks)

Flags take precedence over the parsed values.

Example:
  opus task add "Fix login bug #auth,ui @ana@opus.dev +high due:2d" --epic e1`,
		Args: cobra.MinimumNArgs(1),
	}
	cmd.Flags().StringVarP(&f.epic, "epic", "e", "", "Epic id (required)")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Description")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Priority: low, medium, high, urgent or 1-4")
	cmd.Flags().StringVar(&f.status, "status", "", "Status: todo, doing, done")
	cmd.Flags().StringVarP(&f.assignee, "assignee", "a", "", "Assignee id or email")
	cmd.Flags().StringSliceVarP(&f.labels, "labels", "l", nil, "Comma-separated label names or ids")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date")
	_ = cmd.MarkFlagRequired("epic")

	cmd.RunE = online(g, func(ctx context.Context, e *env, args []string) error {
		now := time.Now()
		parsed := parser.ParseTitle(strings.Join(args, " "), now)
		if len(parsed.Errors) > 0 {
			return fmt.Errorf("could not parse task: %s", strings.Join(parsed.Errors, ", "))
		}

		in := models.CreateTask{
			EpicID:      f.epic,
			Title:       parsed.Title,
			Description: f.description,
			Status:      parsed.Status,
			Priority:    parsed.Priority,
			DueDate:     parsed.DueDate,
		}
		if f.priority != "" {
			p, ok := parser.ParsePriority(f.priority)
			if !ok {
				return fmt.Errorf("unknown priority %q", f.priority)
			}
			in.Priority = p
		}
		if f.status != "" {
			st, ok := parser.ParseStatus(f.status)
			if !ok {
				return fmt.Errorf("unknown status %q", f.status)
			}
			in.Status = st
		}
		if f.due != "" {
			due, err := parser.ParseDueDate(f.due, now)
			if err != nil {
				return fmt.Errorf("error parsing due date: %w", err)
			}
			in.DueDate = due
		}

		assignee := parsed.Assignee
		if f.assignee != "" {
			assignee = f.assignee
		}
		if assignee != "" {
			in.AssigneeID = resolveUser(e.state(), assignee)
		}

		names := parsed.Labels
		if len(f.labels) > 0 {
			names = f.labels
		}
		if len(names) > 0 {
			ids, err := resolveLabels(e, f.epic, names)
			if err != nil {
				return err
			}
			in.Labels = ids
		}

		task, err := e.ws.CreateTask(ctx, in)
		if err != nil {
			return err
		}
		e.persist(ctx)

		s := e.state()
		fmt.Fprintf(e.out, "✅ Created task %s: %s\n", task.ID, task.Title)
		fmt.Fprintf(e.out, "  Priority: %s\n", task.Priority)
		if a := task.Assignee(); a != "" {
			fmt.Fprintf(e.out, "  Assignee: %s\n", userName(s, a))
		}
		if names := labelNames(s, task); names != "" {
			fmt.Fprintf(e.out, "  Labels: %s\n", names)
		}
		if task.DueDate != nil {
			fmt.Fprintf(e.out, "  Due: %s\n", parser.FormatDueDate(task.DueDate, now))
		}
		return nil
	})
	return cmd
}

// resolveUser maps an email to a user id when the user is known; anything
// else is taken as an id.
func resolveUser(s store.State, idOrEmail string) string {
	for _, u := range s.Users {
		if u.ID == idOrEmail || strings.EqualFold(u.Email, idOrEmail) {
			return u.ID
		}
	}
	return idOrEmail
}

func resolveLabels(e *env, epicID string, names []string) ([]string, error) {
	spaceID, ok := e.ws.EpicSpace(epicID)
	if !ok {
		return nil, fmt.Errorf("epic %s is not in the local cache: run 'opus sync' to resolve labels", epicID)
	}
	ids, unknown := e.ws.ResolveLabels(spaceID, names)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown label(s) %s in space %s: create them with 'opus label create'",
			strings.Join(unknown, ", "), spaceID)
	}
	return ids, nil
}

func newTaskShowCmd(g *globalFlags) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task with fresh data from the service",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.RunE = online(g, func(ctx context.Context, e *env, args []string) error {
		task, err := e.ws.FetchTask(ctx, args[0])
		if err != nil {
			return err
		}
		e.persist(ctx)
		if jsonOutput {
			return printJSON(e.out, task)
		}
		due := ""
		if task.DueDate != nil {
			due = parser.FormatDueDate(task.DueDate, time.Now())
		}
		printTaskDetail(e.out, e.state(), task, due)
		return nil
	})
	return cmd
}

func newTaskEditCmd(g *globalFlags) *cobra.Command {
	f := &taskFlags{}
	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task",
		Long: `Edit a task. Only the flags you pass are changed. The change is shown
locally right away and undone if the service rejects it.`,
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&f.priority, "priority", "", "New priority")
	cmd.Flags().StringVar(&f.status, "status", "", "New status")
	cmd.Flags().StringVarP(&f.assignee, "assignee", "a", "", "New assignee id or email")
	cmd.Flags().BoolVar(&f.unassign, "unassign", false, "Remove the assignee")
	cmd.Flags().StringSliceVarP(&f.labels, "labels", "l", nil, "Replace labels (names or ids)")
	cmd.Flags().StringVar(&f.due, "due", "", "New due date")
	cmd.Flags().StringVarP(&f.epic, "epic", "e", "", "Move to another epic")

	cmd.RunE = online(g, func(ctx context.Context, e *env, args []string) error {
		id := args[0]
		fl := cmd.Flags()
		var patch models.TaskPatch

		if fl.Changed("title") {
			patch.Title = &f.title
		}
		if fl.Changed("description") {
			patch.Description = &f.description
		}
		if fl.Changed("priority") {
			p, ok := parser.ParsePriority(f.priority)
			if !ok {
				return fmt.Errorf("unknown priority %q", f.priority)
			}
			patch.Priority = &p
		}
		if fl.Changed("status") {
			st, ok := parser.ParseStatus(f.status)
			if !ok {
				return fmt.Errorf("unknown status %q", f.status)
			}
			patch.Status = &st
		}
		switch {
		case f.unassign:
			none := ""
			patch.AssigneeID = &none
		case fl.Changed("assignee"):
			a := resolveUser(e.state(), f.assignee)
			patch.AssigneeID = &a
		}
		if fl.Changed("due") {
			due, err := parser.ParseDueDate(f.due, time.Now())
			if err != nil {
				return fmt.Errorf("error parsing due date: %w", err)
			}
			patch.DueDate = due
		}
		if fl.Changed("epic") {
			patch.EpicID = &f.epic
		}
		if fl.Changed("labels") {
			epic := f.epic
			if epic == "" {
				if t, ok := store.TaskByID(e.state(), id); ok {
					epic = t.EpicID
				}
			}
			ids, err := resolveLabels(e, epic, f.labels)
			if err != nil {
				return err
			}
			patch.Labels = &ids
		}
		if patch.IsEmpty() {
			return fmt.Errorf("nothing to update")
		}

		task, earned, err := e.ws.UpdateTask(ctx, id, patch)
		if err != nil {
			return err
		}
		e.persist(ctx)
		fmt.Fprintf(e.out, "✏️  Updated task %s: %s\n", task.ID, task.Title)
		e.recordBadges(ctx, earned)
		return nil
	})
	return cmd
}

func newTaskMoveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <todo|doing|done>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			status, ok := parser.ParseStatus(args[1])
			if !ok {
				return fmt.Errorf("unknown status %q: use todo, doing or done", args[1])
			}
			task, earned, err := e.ws.MoveTask(ctx, args[0], status)
			if err != nil {
				return err
			}
			e.persist(ctx)
			fmt.Fprintf(e.out, "➡️  Moved task %s to %s: %s\n", task.ID, task.Status, task.Title)
			e.recordBadges(ctx, earned)
			return nil
		}),
	}
}

func newTaskDoneCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			if t, ok := store.TaskByID(e.state(), args[0]); ok && t.Status == models.TaskDone {
				return fmt.Errorf("task %s is already completed", args[0])
			}
			task, earned, err := e.ws.CompleteTask(ctx, args[0])
			if err != nil {
				return err
			}
			e.persist(ctx)
			fmt.Fprintf(e.out, "✅ Marked task %s as done: %s\n", task.ID, task.Title)
			e.recordBadges(ctx, earned)
			return nil
		}),
	}
}

func newTaskRemoveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			if err := e.ws.DeleteTask(ctx, args[0]); err != nil {
				return err
			}
			e.persist(ctx)
			fmt.Fprintf(e.out, "🗑️  Deleted task %s\n", args[0])
			return nil
		}),
	}
}
