package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opus-software/opus/internal/badges"
	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/store"
)

func newBadgesCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "badges [user-id]",
		Short: "Show earned badges",
		Long: `Show the badges earned in this company. With a user id, show that user's
badges and the ones still to earn.`,
		Args: cobra.MaximumNArgs(1),
		RunE: offline(g, func(ctx context.Context, e *env, args []string) error {
			var rows []models.UserBadge
			if e.cache != nil {
				var err error
				if rows, err = e.cache.LoadUserBadges(ctx, e.company.ID); err != nil {
					return err
				}
			}
			s := e.state()

			if len(args) == 0 {
				if len(rows) == 0 {
					fmt.Fprintln(e.out, "No badges earned yet. Finish a task with 'opus task done <id>'.")
					return nil
				}
				for _, ub := range rows {
					b, ok := models.FindBadge(ub.BadgeID)
					if !ok {
						continue
					}
					fmt.Fprintf(e.out, "%s %-24s %-26s %s\n", b.Icon, cut(userName(s, ub.UserID), 24), b.Name, ub.EarnedAt.Format("02/01/2006"))
				}
				return nil
			}

			userID := args[0]
			earned := badges.Earned(userID, rows)
			got := map[string]bool{}
			fmt.Fprintf(e.out, "Badges of %s\n", userName(s, userID))
			rule(e.out)
			for _, eb := range earned {
				got[eb.ID] = true
				fmt.Fprintf(e.out, "%s %-26s earned %s\n", eb.Icon, eb.Name, eb.EarnedAt.Format("02/01/2006"))
			}
			for _, b := range models.BadgeCatalog() {
				if !got[b.ID] {
					fmt.Fprintf(e.out, "· %-26s %s\n", b.Name, b.Description)
				}
			}
			if u, ok := store.UserByID(s, userID); ok {
				fmt.Fprintf(e.out, "\nLevel %d · %d/%d XP\n", u.Level, u.Experience, u.ExpNextLevel)
			}
			return nil
		}),
	}
}
