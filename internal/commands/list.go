package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/parser"
	"github.com/opus-software/opus/internal/store"
)

type listFlags struct {
	space    string
	project  string
	epic     string
	status   string
	assignee string
	json     bool
	offline  bool
}

func newListCmd(g *globalFlags) *cobra.Command {
	f := &listFlags{}
	cmd := &cobra.Command{
		Use:     "ls [spaces|projects|epics|tasks|labels|users]",
		Aliases: []string{"list"},
		Short:   "List workspace entities",
		Long: `List spaces, projects, epics, tasks, labels or users of the selected
company. Tasks are listed when no kind is given. Data is synced first unless
--offline is set, in which case the local cache is used.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"spaces", "projects", "epics", "tasks", "labels", "users"},
	}
	cmd.RunE = readOnly(g, &f.offline, func(ctx context.Context, e *env, args []string) error {
		if err := e.ensureLoaded(ctx); err != nil {
			return err
		}
		kind := "tasks"
		if len(args) == 1 {
			kind = args[0]
		}
		return list(e, kind, f)
	})

	cmd.Flags().StringVarP(&f.space, "space", "s", "", "Filter by space id")
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "Filter by project id")
	cmd.Flags().StringVarP(&f.epic, "epic", "e", "", "Filter by epic id")
	cmd.Flags().StringVar(&f.status, "status", "", "Filter tasks by status: todo, doing, done")
	cmd.Flags().StringVarP(&f.assignee, "assignee", "a", "", "Filter tasks by assignee id")
	cmd.Flags().BoolVar(&f.json, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&f.offline, "offline", false, "Use the local cache without syncing")
	return cmd
}

func list(e *env, kind string, f *listFlags) error {
	s := e.state()
	switch kind {
	case "spaces", "space":
		if f.json {
			return printJSON(e.out, s.Spaces)
		}
		fmt.Fprintf(e.out, "%-12s %-30s %s\n", "ID", "NAME", "PROJECTS")
		rule(e.out)
		for _, sp := range s.Spaces {
			fmt.Fprintf(e.out, "%-12s %-30s %d\n", cut(sp.ID, 12), cut(sp.Name, 30), len(store.SpaceProjects(s, sp.ID)))
		}

	case "projects", "project":
		projects := s.Projects
		if f.space != "" {
			projects = store.SpaceProjects(s, f.space)
		}
		if f.json {
			return printJSON(e.out, projects)
		}
		fmt.Fprintf(e.out, "%-12s %-10s %-30s %-10s %s\n", "ID", "KEY", "NAME", "STATUS", "EPICS")
		rule(e.out)
		for _, p := range projects {
			fmt.Fprintf(e.out, "%-12s %-10s %-30s %-10s %d\n",
				cut(p.ID, 12), p.ProjectKey, cut(p.Name, 30), p.Status, len(store.ProjectEpics(s, p.ID)))
		}

	case "epics", "epic":
		epics := s.Epics
		if f.project != "" {
			epics = store.ProjectEpics(s, f.project)
		}
		if f.json {
			return printJSON(e.out, epics)
		}
		fmt.Fprintf(e.out, "%-12s %-34s %-12s %s\n", "ID", "TITLE", "STATUS", "PROGRESS")
		rule(e.out)
		for _, ep := range epics {
			progress := store.EpicProgress(s, ep.ID)
			fmt.Fprintf(e.out, "%-12s %-34s %-12s %3d%% (%d/%d)\n",
				cut(ep.ID, 12), cut(ep.Title, 34), progress.Status, progress.Percent, progress.Done, progress.Total)
		}

	case "tasks", "task":
		tasks, err := filterTasks(s, f)
		if err != nil {
			return err
		}
		if f.json {
			return printJSON(e.out, tasks)
		}
		if len(tasks) == 0 {
			fmt.Fprintln(e.out, "No tasks found. Use 'opus task add \"title\" --epic <id>' to create one.")
			return nil
		}
		printTasks(e.out, s, tasks)

	case "labels", "label":
		labels := s.Labels
		if f.space != "" {
			labels = store.SpaceLabels(s, f.space)
		}
		if f.json {
			return printJSON(e.out, labels)
		}
		fmt.Fprintf(e.out, "%-12s %-24s %-8s %s\n", "ID", "NAME", "COLOR", "SPACE")
		rule(e.out)
		for _, l := range labels {
			fmt.Fprintf(e.out, "%-12s %-24s %-8s %s\n", cut(l.ID, 12), cut(l.Name, 24), l.Color, l.SpaceID)
		}

	case "users", "user":
		if f.json {
			return printJSON(e.out, s.Users)
		}
		fmt.Fprintf(e.out, "%-12s %-24s %-28s %-8s %s\n", "ID", "NAME", "EMAIL", "ROLE", "LEVEL")
		rule(e.out)
		for _, u := range s.Users {
			fmt.Fprintf(e.out, "%-12s %-24s %-28s %-8s %d\n",
				cut(u.ID, 12), cut(u.FullName, 24), cut(u.Email, 28), u.GlobalRole, u.Level)
		}

	default:
		return fmt.Errorf("unknown kind %q: use spaces, projects, epics, tasks, labels or users", kind)
	}
	return nil
}

func filterTasks(s store.State, f *listFlags) ([]models.Task, error) {
	var tasks []models.Task
	switch {
	case f.epic != "":
		tasks = store.EpicTasks(s, f.epic)
	case f.project != "":
		tasks = store.ProjectTasks(s, f.project)
	case f.space != "":
		for _, p := range store.SpaceProjects(s, f.space) {
			tasks = append(tasks, store.ProjectTasks(s, p.ID)...)
		}
	default:
		tasks = slices.Clone(s.Tasks)
	}

	if f.status != "" {
		status, ok := parser.ParseStatus(f.status)
		if !ok {
			return nil, fmt.Errorf("unknown status %q: use todo, doing or done", f.status)
		}
		tasks = slices.DeleteFunc(tasks, func(t models.Task) bool { return t.Status != status })
	}
	if f.assignee != "" {
		tasks = slices.DeleteFunc(tasks, func(t models.Task) bool { return t.Assignee() != f.assignee })
	}
	return tasks, nil
}
