package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

var (
	queueStatus string
	queueLimit  int
	queueJSON   bool
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect and manage sync tasks",
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sync tasks",
	Args:  cobra.NoArgs,
	RunE:  runQueueList,
}

var queueRetryCmd = &cobra.Command{
	Use:   "retry <task-id>",
	Short: "Reset a dead or pending task so it runs again",
	Long: `Resets the task's attempts and makes it due now. A running "serve"
process picks it up on its next drain.`,
	Args: cobra.ExactArgs(1),
	RunE: runQueueRetry,
}

var queuePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove finished tasks older than the retention period",
	Args:  cobra.NoArgs,
	RunE:  runQueuePurge,
}

func init() {
	queueListCmd.Flags().StringVar(&queueStatus, "status", "", "filter by status (pending, running, done, dead)")
	queueListCmd.Flags().IntVarP(&queueLimit, "limit", "n", 50, "maximum number of tasks")
	queueListCmd.Flags().BoolVar(&queueJSON, "json", false, "output tasks as JSON")
	queueCmd.AddCommand(queueListCmd, queueRetryCmd, queuePurgeCmd)
	rootCmd.AddCommand(queueCmd)
}

func runQueueList(cmd *cobra.Command, _ []string) error {
	status := domain.TaskStatus(queueStatus)
	if status != "" && !status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, queueStatus)
	}

	app, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	tasks, err := app.Queue.List(cmd.Context(), status, queueLimit)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	if queueJSON {
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal tasks: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	stats, err := app.Queue.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("queue stats: %w", err)
	}
	cmd.Printf("pending %d  running %d  done %d  dead %d\n\n", stats.Pending, stats.Running, stats.Done, stats.Dead)

	if len(tasks) == 0 {
		cmd.Println("No tasks.")
		return nil
	}
	for i := range tasks {
		task := &tasks[i]
		cmd.Printf("%s  %-7s  %-30s  attempts %d  %s\n",
			task.ID, task.Status, task.Event, task.Attempts, task.UpdatedAt.Format(time.RFC3339))
		if task.LastError != "" {
			cmd.Printf("    last error: %s\n", task.LastError)
		}
	}
	return nil
}

func runQueueRetry(cmd *cobra.Command, args []string) error {
	app, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	task, err := app.Queue.Retry(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("retry %s: %w", args[0], err)
	}
	cmd.Printf("Task %s (%s) is pending again.\n", task.ID, task.Event)
	return nil
}

func runQueuePurge(cmd *cobra.Command, _ []string) error {
	app, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	n, err := app.Queue.Prune(cmd.Context())
	if err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	cmd.Printf("Removed %d finished tasks.\n", n)
	return nil
}
