package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opus-software/opus/internal/models"
)

func newProjectCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	var (
		spaceID, name, key, description, color, assignee, status string
	)

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project in a space",
		Long: `Create a project in a space. The project key is 2 to 10 letters or
digits and is stored uppercased, e.g. "web" becomes "WEB".`,
		Args: cobra.ExactArgs(1),
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			p, err := e.ws.CreateProject(ctx, models.CreateProject{
				SpaceID:     spaceID,
				Name:        args[0],
				ProjectKey:  key,
				Description: description,
				Status:      models.ProjectStatus(status),
				Color:       color,
				AssigneeID:  assignee,
			})
			if err != nil {
				return err
			}
			e.persist(ctx)
			fmt.Fprintf(e.out, "✅ Created project %s [%s]: %s\n", p.ID, p.ProjectKey, p.Name)
			return nil
		}),
	}
	create.Flags().StringVarP(&spaceID, "space", "s", "", "Space id (required)")
	create.Flags().StringVarP(&key, "key", "k", "", "Project key (required)")
	create.Flags().StringVarP(&description, "description", "d", "", "Description")
	create.Flags().StringVar(&color, "color", "", "Colour")
	create.Flags().StringVarP(&assignee, "assignee", "a", "", "Lead user id")
	create.Flags().StringVar(&status, "status", "", "Status (default active)")
	_ = create.MarkFlagRequired("space")
	_ = create.MarkFlagRequired("key")

	update := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
	}
	update.Flags().StringVarP(&name, "name", "n", "", "New name")
	update.Flags().StringVarP(&key, "key", "k", "", "New project key")
	update.Flags().StringVarP(&description, "description", "d", "", "New description")
	update.Flags().StringVar(&color, "color", "", "New colour")
	update.Flags().StringVarP(&assignee, "assignee", "a", "", "New lead user id")
	update.Flags().StringVar(&status, "status", "", "New status")
	update.Flags().StringVarP(&spaceID, "space", "s", "", "Move to another space")
	update.RunE = online(g, func(ctx context.Context, e *env, args []string) error {
		var patch models.ProjectPatch
		fl := update.Flags()
		if fl.Changed("name") {
			patch.Name = &name
		}
		if fl.Changed("key") {
			patch.ProjectKey = &key
		}
		if fl.Changed("description") {
			patch.Description = &description
		}
		if fl.Changed("color") {
			patch.Color = &color
		}
		if fl.Changed("assignee") {
			patch.AssigneeID = &assignee
		}
		if fl.Changed("status") {
			st := models.ProjectStatus(status)
			patch.Status = &st
		}
		if fl.Changed("space") {
			patch.SpaceID = &spaceID
		}
		if patch == (models.ProjectPatch{}) {
			return fmt.Errorf("nothing to update")
		}
		p, err := e.ws.UpdateProject(ctx, args[0], patch)
		if err != nil {
			return err
		}
		e.persist(ctx)
		fmt.Fprintf(e.out, "✏️  Updated project %s [%s]: %s\n", p.ID, p.ProjectKey, p.Name)
		return nil
	})

	archive := &cobra.Command{
		Use:     "archive <project-id>",
		Aliases: []string{"a"},
		Short:   "Archive a project",
		Args:    cobra.ExactArgs(1),
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			p, err := e.ws.ArchiveProject(ctx, args[0])
			if err != nil {
				return err
			}
			e.persist(ctx)
			fmt.Fprintf(e.out, "🗃️  Archived project %s: %s\n", p.ID, p.Name)
			return nil
		}),
	}

	unarchive := &cobra.Command{
		Use:     "unarchive <project-id>",
		Aliases: []string{"ua"},
		Short:   "Unarchive a project (back to active)",
		Args:    cobra.ExactArgs(1),
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			p, err := e.ws.UnarchiveProject(ctx, args[0])
			if err != nil {
				return err
			}
			e.persist(ctx)
			fmt.Fprintf(e.out, "📤 Unarchived project %s: %s\n", p.ID, p.Name)
			fmt.Fprintf(e.out, "Status: %s\n", p.Status)
			return nil
		}),
	}

	del := &cobra.Command{
		Use:     "delete <project-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a project with its epics and tasks",
		Args:    cobra.ExactArgs(1),
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			if err := e.ws.DeleteProject(ctx, args[0]); err != nil {
				return err
			}
			e.persist(ctx)
			fmt.Fprintf(e.out, "🗑️  Deleted project %s\n", args[0])
			return nil
		}),
	}

	cmd.AddCommand(create, update, archive, unarchive, del)
	return cmd
}
