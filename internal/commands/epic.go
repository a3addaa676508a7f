package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opus-software/opus/internal/models"
)

func newEpicCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epic",
		Short: "Manage epics",
	}

	var (
		projectID, title, summary, status, assignee string
		progress                                    int
	)

	create := &cobra.Command{
		Use:   "create <title>",
		Short: "Create an epic in a project",
		Args:  cobra.ExactArgs(1),
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			ep, err := e.ws.CreateEpic(ctx, models.CreateEpic{ProjectID: projectID, Title: args[0], Summary: summary})
			if err != nil {
				return err
			}
			e.persist(ctx)
			fmt.Fprintf(e.out, "✅ Created epic %s: %s\n", ep.ID, ep.Title)
			return nil
		}),
	}
	create.Flags().StringVarP(&projectID, "project", "p", "", "Project id (required)")
	create.Flags().StringVar(&summary, "summary", "", "Summary")
	_ = create.MarkFlagRequired("project")

	update := &cobra.Command{
		Use:   "update <epic-id>",
		Short: "Update an epic",
		Long: `Update an epic. The project is looked up in the local cache; pass
--project when the epic has not been synced yet.`,
		Args: cobra.ExactArgs(1),
	}
	update.Flags().StringVarP(&projectID, "project", "p", "", "Project id of the epic")
	update.Flags().StringVarP(&title, "title", "t", "", "New title")
	update.Flags().StringVar(&summary, "summary", "", "New summary")
	update.Flags().StringVar(&status, "status", "", "New status: todo, in-progress, completed")
	update.Flags().IntVar(&progress, "progress", 0, "Progress 0-100")
	update.Flags().StringVarP(&assignee, "assignee", "a", "", "Owner user id")
	update.RunE = online(g, func(ctx context.Context, e *env, args []string) error {
		var patch models.EpicPatch
		fl := update.Flags()
		if fl.Changed("project") {
			patch.ProjectID = &projectID
		}
		if fl.Changed("title") {
			patch.Title = &title
		}
		if fl.Changed("summary") {
			patch.Summary = &summary
		}
		if fl.Changed("status") {
			st := models.EpicStatus(status)
			patch.Status = &st
		}
		if fl.Changed("progress") {
			patch.Progress = &progress
		}
		if fl.Changed("assignee") {
			patch.AssigneeID = &assignee
		}
		ep, err := e.ws.UpdateEpic(ctx, args[0], patch)
		if err != nil {
			return err
		}
		e.persist(ctx)
		fmt.Fprintf(e.out, "✏️  Updated epic %s: %s (%s)\n", ep.ID, ep.Title, ep.Status)
		return nil
	})

	del := &cobra.Command{
		Use:     "delete <epic-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an epic with its tasks",
		Args:    cobra.ExactArgs(1),
	}
	del.Flags().StringVarP(&projectID, "project", "p", "", "Project id of the epic")
	del.RunE = online(g, func(ctx context.Context, e *env, args []string) error {
		if err := e.ws.DeleteEpic(ctx, args[0], projectID); err != nil {
			return err
		}
		e.persist(ctx)
		fmt.Fprintf(e.out, "🗑️  Deleted epic %s\n", args[0])
		return nil
	})

	cmd.AddCommand(create, update, del)
	return cmd
}
