package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opus-software/opus/internal/store"
	"github.com/opus-software/opus/internal/tui"
)

func newBoardCmd(g *globalFlags) *cobra.Command {
	var projectID, epicID string
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the kanban board for a project or an epic",
		Long: `Open an interactive kanban board with todo, in-progress and done columns.

Keys:
  ←/→ h/l       Change column
  ↑/↓ k/j       Change card
  H/L           Move the card one column (saved immediately)
  d             Move the card to done
  /             Search
  q/esc         Quit`,
		Args: cobra.NoArgs,
		RunE: online(g, func(ctx context.Context, e *env, _ []string) error {
			if err := e.ensureLoaded(ctx); err != nil {
				return err
			}

			s := e.state()
			title := e.company.Name
			switch {
			case epicID != "":
				ep, ok := store.EpicByID(s, epicID)
				if !ok {
					return fmt.Errorf("epic %s not found", epicID)
				}
				title = ep.Title
			case projectID != "":
				p, ok := store.ProjectByID(s, projectID)
				if !ok {
					return fmt.Errorf("project %s not found", projectID)
				}
				title = fmt.Sprintf("%s · %s", p.ProjectKey, p.Name)
			}

			// badges earned on the board are persisted with the snapshot
			defer e.persist(ctx)
			return tui.RunBoard(e.ws, tui.BoardOptions{Title: title, ProjectID: projectID, EpicID: epicID})
		}),
	}
	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Project id")
	cmd.Flags().StringVarP(&epicID, "epic", "e", "", "Epic id")
	return cmd
}
