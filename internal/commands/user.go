package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opus-software/opus/internal/models"
)

func newUserCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage company users",
	}

	var email, fullName, avatar, jobTitle, role, status string

	create := &cobra.Command{
		Use:   "create <email>",
		Short: "Invite a user to the selected company",
		Args:  cobra.ExactArgs(1),
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			u, err := e.ws.CreateUser(ctx, models.CreateUser{
				Email:      args[0],
				FullName:   fullName,
				AvatarURL:  avatar,
				JobTitle:   jobTitle,
				GlobalRole: models.UserRole(role),
				Status:     models.UserStatus(status),
			})
			if err != nil {
				return err
			}
			e.persist(ctx)
			fmt.Fprintf(e.out, "✅ Created user %s: %s <%s>\n", u.ID, u.FullName, u.Email)
			return nil
		}),
	}
	create.Flags().StringVarP(&fullName, "name", "n", "", "Full name")
	create.Flags().StringVar(&avatar, "avatar", "", "Avatar URL")
	create.Flags().StringVar(&jobTitle, "job-title", "", "Job title")
	create.Flags().StringVar(&role, "role", "", "Role: admin, member or viewer")
	create.Flags().StringVar(&status, "status", "", "Status")

	show := &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show a user as the service has it",
		Args:  cobra.ExactArgs(1),
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			u, err := e.ws.GetUser(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "%s <%s>\n", u.FullName, u.Email)
			fmt.Fprintf(e.out, "ID:     %s\n", u.ID)
			fmt.Fprintf(e.out, "Role:   %s\n", u.GlobalRole)
			fmt.Fprintf(e.out, "Status: %s\n", u.Status)
			if u.JobTitle != "" {
				fmt.Fprintf(e.out, "Title:  %s\n", u.JobTitle)
			}
			fmt.Fprintf(e.out, "Level:  %d (%d/%d XP)\n", u.Level, u.Experience, u.ExpNextLevel)
			return nil
		}),
	}

	update := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Update a user",
		Args:  cobra.ExactArgs(1),
	}
	update.Flags().StringVar(&email, "email", "", "New email")
	update.Flags().StringVarP(&fullName, "name", "n", "", "New full name")
	update.Flags().StringVar(&avatar, "avatar", "", "New avatar URL")
	update.Flags().StringVar(&jobTitle, "job-title", "", "New job title")
	update.Flags().StringVar(&role, "role", "", "New role")
	update.Flags().StringVar(&status, "status", "", "New status")
	update.RunE = online(g, func(ctx context.Context, e *env, args []string) error {
		var patch models.UserPatch
		fl := update.Flags()
		if fl.Changed("email") {
			patch.Email = &email
		}
		if fl.Changed("name") {
			patch.FullName = &fullName
		}
		if fl.Changed("avatar") {
			patch.AvatarURL = &avatar
		}
		if fl.Changed("job-title") {
			patch.JobTitle = &jobTitle
		}
		if fl.Changed("role") {
			r := models.UserRole(role)
			patch.GlobalRole = &r
		}
		if fl.Changed("status") {
			st := models.UserStatus(status)
			patch.Status = &st
		}
		if patch == (models.UserPatch{}) {
			return fmt.Errorf("nothing to update")
		}
		u, err := e.ws.UpdateUser(ctx, args[0], patch)
		if err != nil {
			return err
		}
		e.persist(ctx)
		fmt.Fprintf(e.out, "✏️  Updated user %s: %s <%s>\n", u.ID, u.FullName, u.Email)
		return nil
	})

	del := &cobra.Command{
		Use:     "delete <user-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a user from the company",
		Args:    cobra.ExactArgs(1),
		RunE: online(g, func(ctx context.Context, e *env, args []string) error {
			if err := e.ws.DeleteUser(ctx, args[0]); err != nil {
				return err
			}
			e.persist(ctx)
			fmt.Fprintf(e.out, "🗑️  Deleted user %s\n", args[0])
			return nil
		}),
	}

	cmd.AddCommand(create, show, update, del)
	return cmd
}
