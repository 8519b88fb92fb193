package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/searchsync/internal/core/services"
)

var (
	scheduleHistory int
	scheduleJSON    bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show housekeeping jobs and their recent runs",
	Long: `Lists the queue-drain and queue-prune jobs as last recorded by a
"serve" process, with the outcome of their most recent runs.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().IntVarP(&scheduleHistory, "history", "n", 3, "runs to show per job")
	scheduleCmd.Flags().BoolVar(&scheduleJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	app, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	scheduler := services.NewScheduler(app.Settings.GetSchedulerConfig(), app.SchedulerStore, app.Queue)
	status, err := scheduler.Status(cmd.Context(), scheduleHistory)
	if err != nil {
		return err
	}

	if scheduleJSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schedule: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(status) == 0 {
		cmd.Println("No jobs recorded. Start \"searchsync serve\" to register them.")
		return nil
	}
	for _, st := range status {
		task := st.Task
		state := "enabled"
		if !task.Enabled {
			state = "disabled"
		}
		cmd.Printf("%-12s  %-8s  every %-8s  next %s\n", task.ID, state, task.Interval, stamp(task.NextRun))
		if task.LastError != "" {
			cmd.Printf("    last error: %s\n", task.LastError)
		}
		for _, r := range st.Recent {
			outcome := fmt.Sprintf("ok, %d tasks", r.ItemsProcessed)
			if !r.Success {
				outcome = "failed: " + r.Error
			}
			cmd.Printf("    %s  %s  %s\n", stamp(r.StartedAt), r.Duration().Round(time.Millisecond), outcome)
		}
	}
	return nil
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.RFC3339)
}
