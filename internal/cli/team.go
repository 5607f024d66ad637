package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func teamCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Show the acting user's teams",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List joined teams; the active one is starred",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, vis, err := env.login(cmd.Context())
			if err != nil {
				return err
			}

			teams, err := a.Auth.ListTeams(cmd.Context(), vis.UserID)
			if err != nil {
				return err
			}
			if len(teams) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Not a member of any team.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "\tID\tNAME")
			for _, team := range teams {
				marker := ""
				if vis.TeamID != nil && *vis.TeamID == team.ID {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", marker, team.ID, team.Name)
			}
			return w.Flush()
		},
	})

	return cmd
}
