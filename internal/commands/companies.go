package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opus-software/opus/internal/models"
)

func newCompaniesCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "List the companies you can switch between with --company",
		Args:    cobra.NoArgs,
		RunE: offline(g, func(_ context.Context, e *env, _ []string) error {
			for _, c := range models.Companies() {
				marker := " "
				if c.ID == e.company.ID {
					marker = "*"
				}
				fmt.Fprintf(e.out, "%s %-12s %-16s %s\n", marker, c.ID, c.Slug, c.Name)
			}
			return nil
		}),
	}
}
