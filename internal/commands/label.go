package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opus-software/opus/internal/models"
)

func newLabelCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage labels",
	}

	var spaceID, color string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a label in a space",
		Args:  cobra.ExactArgs(1),
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			l, err := e.ws.CreateLabel(ctx, models.CreateLabel{
				SpaceID: spaceID,
				Name:    args[0],
				Color:   models.ParseLabelColor(color),
			})
			if err != nil {
				return err
			}
			e.persist(ctx)
			fmt.Fprintf(e.out, "✅ Created label %s: %s (%s)\n", l.ID, l.Name, l.Color)
			return nil
		}),
	}
	create.Flags().StringVarP(&spaceID, "space", "s", "", "Space id (required)")
	create.Flags().StringVar(&color, "color", "gray", "red, blue, green, yellow, orange, purple, pink or gray")
	_ = create.MarkFlagRequired("space")

	cmd.AddCommand(create)
	return cmd
}
