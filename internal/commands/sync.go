package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Load the selected company from the service into the local cache",
		Args:  cobra.NoArgs,
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			report, err := e.refresh(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Synced %s: %d spaces, %d projects, %d epics, %d tasks, %d labels, %d users\n",
				e.company.Name, report.Spaces, report.Projects, report.Epics, report.Tasks, report.Labels, report.Users)
			if report.Partial() {
				fmt.Fprintf(e.out, "⚠️  %d part(s) failed to load; the data above may be incomplete\n", len(report.Failures))
			}
			return nil
		}),
	}
}
