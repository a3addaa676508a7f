package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opus-software/opus/internal/models"
)

func newSpaceCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "space",
		Short: "Create, rename or delete spaces",
	}

	var name, description string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a space in the selected company",
		Args:  cobra.ExactArgs(1),
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			sp, err := e.ws.CreateSpace(ctx, models.CreateSpace{Name: args[0], Description: description})
			if err != nil {
				return err
			}
			e.persist(ctx)
			fmt.Fprintf(e.out, "✅ Created space %s: %s\n", sp.ID, sp.Name)
			return nil
		}),
	}
	create.Flags().StringVarP(&description, "description", "d", "", "Description")

	update := &cobra.Command{
		Use:   "update <space-id>",
		Short: "Update a space",
		Args:  cobra.ExactArgs(1),
	}
	update.Flags().StringVarP(&name, "name", "n", "", "New name")
	update.Flags().StringVarP(&description, "description", "d", "", "New description")
	update.RunE = online(g, func(ctx context.Context, e *env, args []string) error {
		var patch models.SpacePatch
		if update.Flags().Changed("name") {
			patch.Name = &name
		}
		if update.Flags().Changed("description") {
			patch.Description = &description
		}
		if patch == (models.SpacePatch{}) {
			return fmt.Errorf("nothing to update: pass --name or --description")
		}
		sp, err := e.ws.UpdateSpace(ctx, args[0], patch)
		if err != nil {
			return err
		}
		e.persist(ctx)
		fmt.Fprintf(e.out, "✏️  Updated space %s: %s\n", sp.ID, sp.Name)
		return nil
	})

	del := &cobra.Command{
		Use:     "delete <space-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a space with its projects, epics and tasks",
		Args:    cobra.ExactArgs(1),
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			if err := e.ws.DeleteSpace(ctx, args[0]); err != nil {
				return err
			}
			e.persist(ctx)
			fmt.Fprintf(e.out, "🗑️  Deleted space %s\n", args[0])
			return nil
		}),
	}

	cmd.AddCommand(create, update, del)
	return cmd
}
