package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driving"
)

var (
	syncDelete bool
	syncDryRun bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync a single page or content item now",
	Long: `Fetches one page or content item, normalises it and writes it to the
index immediately, bypassing the queue. Use --delete to remove it instead.`,
}

var syncPageCmd = &cobra.Command{
	Use:   "page <page-id>",
	Short: "Sync a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runSync(cmd, domain.NewPageEvent(id, syncState()))
	},
}

var syncContentCmd = &cobra.Command{
	Use:   "content <reference-name> <content-id>",
	Short: "Sync a content item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		return runSync(cmd, domain.NewContentEvent(args[0], id, syncState()))
	},
}

func init() {
	syncCmd.PersistentFlags().BoolVar(&syncDelete, "delete", false, "remove the document from the index")
	syncCmd.PersistentFlags().BoolVar(&syncDryRun, "dry-run", false, "write to an in-memory index and print the document")
	syncCmd.AddCommand(syncPageCmd, syncContentCmd)
	rootCmd.AddCommand(syncCmd)
}

func syncState() domain.ContentState {
	if syncDelete {
		return domain.StateDeleted
	}
	return domain.StatePublished
}

func runSync(cmd *cobra.Command, event domain.ChangeEvent) error {
	app, err := newApp(appOptions{dryRun: syncDryRun})
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Sync.Apply(cmd.Context(), event)
	if err != nil {
		return fmt.Errorf("sync %s: %w", event, err)
	}

	cmd.Printf("%s %s\n", result.Action, result.ObjectID)
	if result.Action == driving.ActionUpserted && result.Document != nil {
		printDocument(cmd, result.Document)
	}
	return nil
}

func printDocument(cmd *cobra.Command, doc *domain.IndexDocument) {
	cmd.Printf("  Title:       %s\n", doc.Title)
	if doc.Description != "" {
		cmd.Printf("  Description: %s\n", doc.Description)
	}
	if doc.Path != nil {
		cmd.Printf("  Path:        %s\n", *doc.Path)
	}
	cmd.Printf("  Tags:        %v\n", doc.Tags)
	for _, h := range doc.Headings {
		cmd.Printf("  - %s\n", h)
	}
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a positive integer id", domain.ErrInvalidInput, arg)
	}
	return id, nil
}
