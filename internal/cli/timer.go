package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func timerCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Track time on a task",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "start [task-id]",
		Short: "Start the timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, vis, err := env.login(cmd.Context())
			if err != nil {
				return err
			}

			session, err := a.Timers.StartTimer(cmd.Context(), vis, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Timer started for task %d at %s\n", id, session.StartTime.Format("15:04:05"))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stop [task-id]",
		Short: "Stop the timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, vis, err := env.login(cmd.Context())
			if err != nil {
				return err
			}

			result, err := a.Timers.StopTimer(cmd.Context(), vis, id)
			if err != nil {
				return err
			}
			if !result.Stopped {
				fmt.Fprintf(cmd.OutOrStdout(), "No timer running for task %d\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Timer stopped for task %d after %s\n", id, formatSeconds(result.ElapsedSeconds))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status [task-id]",
		Short: "Show whether the timer runs and the total tracked time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, vis, err := env.login(cmd.Context())
			if err != nil {
				return err
			}

			status, err := a.Timers.Status(cmd.Context(), vis, id)
			if err != nil {
				return err
			}
			state := "stopped"
			if status.Running {
				state = "running"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d: %s, %s tracked\n", id, state, formatSeconds(status.TotalElapsed))
			return nil
		},
	})

	return cmd
}
