package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opus-software/opus/internal/store"
)

func newSearchCmd(g *globalFlags) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
		useCache   bool
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search tasks across titles, descriptions, labels, status and priority",
		Long: `Search tasks with ranked matching:
- Exact match (highest priority)
- Prefix match
- Suffix match
- Contains (lowest priority)

Search is case insensitive. Ties keep board order.`,
		Args: cobra.MinimumNArgs(1),
	}
	cmd.RunE = readOnly(g, &useCache, func(ctx context.Context, e *env, args []string) error {
		if err := e.ensureLoaded(ctx); err != nil {
			return err
		}
		query := strings.Join(args, " ")
		s := e.state()
		tasks := store.SearchTasks(s, query)
		if limit > 0 && len(tasks) > limit {
			tasks = tasks[:limit]
		}

		if jsonOutput {
			return printJSON(e.out, map[string]any{
				"query": query,
				"count": len(tasks),
				"tasks": tasks,
			})
		}

		fmt.Fprintf(e.out, "Search results for '%s' (%d found):\n", query, len(tasks))
		if len(tasks) == 0 {
			fmt.Fprintln(e.out, "No tasks found matching your search.")
			return nil
		}
		fmt.Fprintln(e.out)
		printTasks(e.out, s, tasks)
		return nil
	})

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Limit number of results")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&useCache, "offline", false, "Search the local cache without syncing")
	return cmd
}
