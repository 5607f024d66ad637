// Package cli implements the trasker operator command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hsmith-dev/Trasker-WebApp/internal/app"
	"github.com/hsmith-dev/Trasker-WebApp/internal/config"
	"github.com/hsmith-dev/Trasker-WebApp/internal/database"
	"github.com/hsmith-dev/Trasker-WebApp/internal/logging"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Env supplies the store to commands. Open is called at most once per run.
type Env struct {
	Open func() (*gorm.DB, error)
	// Options configures the services built over the opened store.
	Options app.Options

	username string
	password string
	team     string

	db  *gorm.DB
	app *app.App
}

func (e *Env) services() (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	db, err := e.Open()
	if err != nil {
		return nil, err
	}
	e.db = db
	e.app = app.New(db, e.Options)
	return e.app, nil
}

// login authenticates the --username/--password flags and applies --team.
func (e *Env) login(ctx context.Context) (*app.App, visibility.Context, error) {
	a, err := e.services()
	if err != nil {
		return nil, visibility.Context{}, err
	}
	if e.username == "" {
		return nil, visibility.Context{}, fmt.Errorf("--username is required (or set TRASKER_USERNAME)")
	}

	_, vis, err := a.Auth.Login(ctx, e.username, e.password)
	if err != nil {
		return nil, visibility.Context{}, err
	}
	if e.team == "" {
		return a, vis, nil
	}

	teams, err := a.Auth.ListTeams(ctx, vis.UserID)
	if err != nil {
		return nil, visibility.Context{}, err
	}
	for _, team := range teams {
		if strings.EqualFold(team.Name, e.team) {
			vis, err = a.Auth.SwitchTeam(ctx, vis, team.ID)
			return a, vis, err
		}
	}
	return nil, visibility.Context{}, fmt.Errorf("not a member of team %q", e.team)
}

// NewRootCommand builds the command tree over env.
func NewRootCommand(env *Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trasker",
		Short: "Trasker - multi-tenant task tracker",
		Long: `trasker manages tasks, timers and teams directly against the Trasker store.

Task and timer commands act as the user named by --username, scoped to the
user's default team or the one named by --team.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&env.username, "username", "u", os.Getenv("TRASKER_USERNAME"), "Acting user")
	rootCmd.PersistentFlags().StringVarP(&env.password, "password", "p", os.Getenv("TRASKER_PASSWORD"), "Password of the acting user")
	rootCmd.PersistentFlags().StringVarP(&env.team, "team", "t", "", "Team to make active (defaults to the first joined team)")

	rootCmd.AddCommand(taskCmd(env))
	rootCmd.AddCommand(timerCmd(env))
	rootCmd.AddCommand(teamCmd(env))
	rootCmd.AddCommand(adminCmd(env))
	rootCmd.AddCommand(migrateCmd(env))

	return rootCmd
}

// Execute runs the CLI against the configured store.
func Execute() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	env := &Env{
		Open: func() (*gorm.DB, error) {
			return database.Connect(cfg, log)
		},
		Options: app.Options{Logger: log},
	}
	defer func() {
		if env.db != nil {
			database.Close(env.db)
		}
	}()

	return NewRootCommand(env).Execute()
}

func migrateCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.services()
			if err != nil {
				return err
			}
			log := env.Options.Logger
			if log == nil {
				log = logging.New(cmd.ErrOrStderr(), "text", "info")
			}
			if err := database.Migrate(a.DB, log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
}
