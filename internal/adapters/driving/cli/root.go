// Package cli provides the searchsync command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/searchsync/internal/logger"
)

// version is set at build time.
var version = "dev"

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "searchsync",
	Short: "Keep the site search index in step with the CMS",
	Long: `searchsync receives content-change webhooks from Agility CMS and keeps
the site search index up to date. Pages and content items are fetched,
normalised into search documents and written to Algolia, with a local
bleve mirror that can be searched from the terminal or over MCP.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.searchsync)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}
