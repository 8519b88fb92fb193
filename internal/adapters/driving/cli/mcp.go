package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/searchsync/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose search and resync to MCP clients",
	Long: `Serves the local index mirror and the sync queue to MCP clients.

Tools:
  search   keyword search over indexed pages and posts
  resync   queue a page or content item for re-indexing

Resources:
  searchsync://status          index and queue counts
  searchsync://tasks/{status}  sync tasks by status

Stdio is used unless --http is given. Resync requests are only applied
by a running "searchsync serve" process; to share its open index, use
"serve --mcp-addr" instead.

Examples:
  searchsync mcp serve
  searchsync mcp serve --http 127.0.0.1:8090`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	app, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	server, err := mcp.NewServer(&mcp.Ports{Search: app.Search, Queue: app.Queue}, version)
	if err != nil {
		return err
	}

	if mcpHTTPAddr == "" {
		return server.Run(cmd.Context())
	}
	cmd.Printf("MCP server listening on http://%s\n", mcpHTTPAddr)
	return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
}
