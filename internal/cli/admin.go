package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/hsmith-dev/Trasker-WebApp/internal/app"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/services"
	"github.com/spf13/cobra"
)

// adminCmd groups operator commands. They act directly on the store and do
// not need --username.
func adminCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage users, teams and memberships",
	}

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	userCmd.AddCommand(adminUserAddCmd(env))
	userCmd.AddCommand(adminUserListCmd(env))
	userCmd.AddCommand(adminUserUpdateCmd(env))

	teamCmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams and memberships",
	}
	teamCmd.AddCommand(adminTeamAddCmd(env))
	teamCmd.AddCommand(adminTeamListCmd(env))
	teamCmd.AddCommand(adminTeamUpdateCmd(env))
	teamCmd.AddCommand(adminTeamAssignCmd(env))
	teamCmd.AddCommand(adminTeamRemoveCmd(env))

	cmd.AddCommand(userCmd)
	cmd.AddCommand(teamCmd)
	return cmd
}

func adminUserAddCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [username]",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.services()
			if err != nil {
				return err
			}

			input := services.CreateUserInput{Username: args[0]}
			input.Password, _ = cmd.Flags().GetString("user-password")
			input.FullName, _ = cmd.Flags().GetString("full-name")
			input.Email, _ = cmd.Flags().GetString("email")

			user, err := a.Admin.CreateUser(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %d: %s\n", user.ID, user.Username)
			return nil
		},
	}

	cmd.Flags().String("user-password", "", "Initial password of the new user")
	cmd.Flags().String("full-name", "", "Full name")
	cmd.Flags().String("email", "", "Email address")
	cmd.MarkFlagRequired("user-password")
	return cmd
}

func adminUserListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List users",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.services()
			if err != nil {
				return err
			}

			users, err := a.Admin.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tFULL NAME\tEMAIL")
			for _, user := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", user.ID, user.Username, orDash(user.FullName), orDash(user.Email))
			}
			return w.Flush()
		},
	}
}

func adminUserUpdateCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [username]",
		Short: "Change a user's profile or password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.services()
			if err != nil {
				return err
			}
			user, err := a.Admin.FindUser(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("user %q: %w", args[0], err)
			}

			var input services.UpdateUserInput
			input.FullName = changedString(cmd, "full-name")
			input.Email = changedString(cmd, "email")
			input.Password = changedString(cmd, "user-password")

			if _, err := a.Admin.UpdateUser(cmd.Context(), user.ID, input); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated user %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().String("user-password", "", "New password")
	cmd.Flags().String("full-name", "", "Full name")
	cmd.Flags().String("email", "", "Email address")
	return cmd
}

func adminTeamAddCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.services()
			if err != nil {
				return err
			}

			description, _ := cmd.Flags().GetString("description")
			team, err := a.Admin.CreateTeam(cmd.Context(), args[0], description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created team %d: %s\n", team.ID, team.Name)
			return nil
		},
	}

	cmd.Flags().StringP("description", "d", "", "Team description")
	return cmd
}

func adminTeamListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List teams and their members",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.services()
			if err != nil {
				return err
			}

			teams, err := a.Admin.ListTeams(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMEMBERS")
			for _, team := range teams {
				members, err := a.Admin.ListMembers(cmd.Context(), team.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", team.ID, team.Name, memberNames(members))
			}
			return w.Flush()
		},
	}
}

func adminTeamUpdateCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [name]",
		Short: "Rename or re-describe a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.services()
			if err != nil {
				return err
			}
			team, err := a.Admin.FindTeam(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("team %q: %w", args[0], err)
			}

			updated, err := a.Admin.UpdateTeam(cmd.Context(), team.ID, services.UpdateTeamInput{
				Name:        changedString(cmd, "rename"),
				Description: changedString(cmd, "description"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated team %d: %s\n", updated.ID, updated.Name)
			return nil
		},
	}

	cmd.Flags().String("rename", "", "New team name")
	cmd.Flags().StringP("description", "d", "", "Team description")
	return cmd
}

func adminTeamAssignCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "assign [team] [username]",
		Short: "Add a user to a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.services()
			if err != nil {
				return err
			}
			team, user, err := resolveMembership(cmd.Context(), a, args[0], args[1])
			if err != nil {
				return err
			}

			if _, err := a.Admin.AddMember(cmd.Context(), team.ID, user.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", user.Username, team.Name)
			return nil
		},
	}
}

func adminTeamRemoveCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "remove [team] [username]",
		Short: "Remove a user from a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.services()
			if err != nil {
				return err
			}
			team, user, err := resolveMembership(cmd.Context(), a, args[0], args[1])
			if err != nil {
				return err
			}

			if err := a.Admin.RemoveMember(cmd.Context(), team.ID, user.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", user.Username, team.Name)
			return nil
		},
	}
}

func resolveMembership(ctx context.Context, a *app.App, teamName, username string) (*models.Team, *models.User, error) {
	team, err := a.Admin.FindTeam(ctx, teamName)
	if err != nil {
		return nil, nil, fmt.Errorf("team %q: %w", teamName, err)
	}
	user, err := a.Admin.FindUser(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("user %q: %w", username, err)
	}
	return team, user, nil
}

func memberNames(members []models.Membership) string {
	if len(members) == 0 {
		return "-"
	}
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.User.Username
	}
	return strings.Join(names, ", ")
}

// changedString returns the flag value only when it was given.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, _ := cmd.Flags().GetString(name)
	return &value
}
