package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/repository"
	"github.com/hsmith-dev/Trasker-WebApp/internal/services"
	"github.com/hsmith-dev/Trasker-WebApp/internal/utils"
	"github.com/spf13/cobra"
)

func taskCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(taskListCmd(env))
	cmd.AddCommand(taskAddCmd(env))
	cmd.AddCommand(taskShowCmd(env))
	cmd.AddCommand(taskStatusCmd(env))
	cmd.AddCommand(taskRemoveCmd(env))
	return cmd
}

func taskListCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List visible tasks",
		Long:    "List tasks visible in the active scope. --active hides completed tasks and sorts by due date and priority.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, vis, err := env.login(cmd.Context())
			if err != nil {
				return err
			}

			var filter repository.TaskFilter
			if active, _ := cmd.Flags().GetBool("active"); active {
				filter.ExcludeCompleted = true
				filter.SortActive = true
			}
			if status, _ := cmd.Flags().GetString("status"); status != "" {
				s := models.TaskStatus(status)
				filter.Status = &s
			}
			if priority, _ := cmd.Flags().GetString("priority"); priority != "" {
				p := models.TaskPriority(priority)
				filter.Priority = &p
			}
			if category, _ := cmd.Flags().GetString("category"); category != "" {
				filter.Category = &category
			}
			filter.Keyword, _ = cmd.Flags().GetString("search")

			tasks, _, err := a.Tasks.ListTasks(cmd.Context(), vis, filter)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			printTasks(cmd.OutOrStdout(), tasks)
			return nil
		},
	}

	cmd.Flags().Bool("active", false, "Hide completed tasks and sort by urgency")
	cmd.Flags().StringP("status", "s", "", "Filter by status")
	cmd.Flags().String("priority", "", "Filter by priority")
	cmd.Flags().StringP("category", "c", "", "Filter by category")
	cmd.Flags().StringP("search", "q", "", "Case-insensitive search in title and description")
	return cmd
}

func taskAddCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, vis, err := env.login(cmd.Context())
			if err != nil {
				return err
			}

			input := services.CreateTaskInput{Title: strings.Join(args, " ")}
			input.Description, _ = cmd.Flags().GetString("description")
			input.Category, _ = cmd.Flags().GetString("category")
			input.Personal, _ = cmd.Flags().GetBool("personal")
			if priority, _ := cmd.Flags().GetString("priority"); priority != "" {
				input.Priority = models.TaskPriority(priority)
			}
			due, _ := cmd.Flags().GetString("due")
			if input.DueDate, err = utils.ParseOptionalDate(due); err != nil {
				return err
			}
			if parent, _ := cmd.Flags().GetUint64("parent"); parent != 0 {
				input.ParentTaskID = &parent
			}
			if sprint, _ := cmd.Flags().GetUint64("sprint"); sprint != 0 {
				input.SprintID = &sprint
			}

			task, err := a.Tasks.CreateTask(cmd.Context(), vis, input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %d: %s\n", task.ID, task.Title)
			return nil
		},
	}

	cmd.Flags().StringP("description", "d", "", "Task description")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().String("priority", "", "Critical, High, Medium or Low")
	cmd.Flags().StringP("category", "c", "", "Task category")
	cmd.Flags().Uint64("parent", 0, "Parent task ID")
	cmd.Flags().Uint64("sprint", 0, "Sprint ID")
	cmd.Flags().Bool("personal", false, "Do not share the task with the active team")
	return cmd
}

func taskShowCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show task details and tracked time",
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

			task, err := a.Tasks.GetTask(cmd.Context(), vis, id)
			if err != nil {
				return err
			}
			status, err := a.Timers.Status(cmd.Context(), vis, id)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID:\t%d\n", task.ID)
			fmt.Fprintf(w, "Title:\t%s\n", task.Title)
			if task.Description != "" {
				fmt.Fprintf(w, "Description:\t%s\n", task.Description)
			}
			fmt.Fprintf(w, "Status:\t%s\n", task.Status)
			fmt.Fprintf(w, "Priority:\t%s\n", task.Priority)
			fmt.Fprintf(w, "Category:\t%s\n", task.Category)
			fmt.Fprintf(w, "Due:\t%s\n", orDash(utils.FormatDate(task.DueDate)))
			fmt.Fprintf(w, "Owner:\t%s\n", task.Owner.Username)
			fmt.Fprintf(w, "Team:\t%s\n", teamName(task))
			fmt.Fprintf(w, "Tracked:\t%s\n", formatSeconds(status.TotalElapsed))
			if status.Running {
				fmt.Fprintf(w, "Timer:\trunning since %s\n", status.OpenSession.StartTime.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func taskStatusCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "status [task-id] [status]",
		Short: "Change the status of a task",
		Long:  "Change the status of a task. Valid statuses: Holding, Pending, In Progress, Completed, Archived, Cancelled, Failed.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, vis, err := env.login(cmd.Context())
			if err != nil {
				return err
			}

			status := models.TaskStatus(strings.Join(args[1:], " "))
			task, err := a.Tasks.UpdateTask(cmd.Context(), vis, id, services.UpdateTaskInput{Status: &status})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s\n", task.ID, task.Status)
			return nil
		},
	}
}

func taskRemoveCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm [task-id]",
		Aliases: []string{"delete"},
		Short:   "Delete a task with its sub-tasks and sessions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, vis, err := env.login(cmd.Context())
			if err != nil {
				return err
			}

			if err := a.Tasks.DeleteTask(cmd.Context(), vis, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
			return nil
		},
	}
}

func printTasks(out io.Writer, tasks []models.Task) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tDUE\tTEAM\tTITLE")
	for _, task := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			task.ID,
			task.Status,
			task.Priority,
			orDash(utils.FormatDate(task.DueDate)),
			teamName(&task),
			task.Title,
		)
	}
	w.Flush()
}

func teamName(task *models.Task) string {
	if task.Team == nil || task.Team.Name == "" {
		return "-"
	}
	return task.Team.Name
}

func parseID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatSeconds renders a duration as h:mm:ss.
func formatSeconds(total int64) string {
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
}
