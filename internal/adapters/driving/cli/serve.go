package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/searchsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/searchsync/internal/adapters/driving/mcp"
	"github.com/custodia-labs/searchsync/internal/adapters/driving/webhook"
	"github.com/custodia-labs/searchsync/internal/core/services"
	"github.com/custodia-labs/searchsync/internal/logger"
)

var (
	serveAddr    string
	serveMCPAddr string
	serveDryRun  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	Long: `Starts the HTTP endpoint that receives Agility CMS webhooks, the sync
workers that apply accepted events to the index and the scheduler that
retries due tasks and prunes finished ones.

Every webhook POST is answered with 200. Failures are retried with
backoff and tasks that keep failing are kept as dead for inspection with
"searchsync queue list --status dead".`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides webhook.addr)")
	serveCmd.Flags().StringVar(&serveMCPAddr, "mcp-addr", "", "also serve MCP over HTTP on this address")
	serveCmd.Flags().BoolVar(&serveDryRun, "dry-run", false, "keep tasks and documents in memory")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := newApp(appOptions{dryRun: serveDryRun})
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validator, err := webhook.NewPayloadValidator()
	if err != nil {
		return err
	}
	handler := webhook.NewHandler(app.Queue, validator, app.Config.Webhook.Secret)

	addr := app.Config.Webhook.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	server := webhook.NewServer(addr, app.Config.Webhook.Path, handler)

	if err := app.Queue.Start(ctx); err != nil {
		return fmt.Errorf("start queue: %w", err)
	}
	defer app.Queue.Stop()

	// The scheduler drains into the queue and writes the store, so it is
	// fully stopped before either is torn down.
	scheduler := services.NewScheduler(app.Settings.GetSchedulerConfig(), app.SchedulerStore, app.Queue)
	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("scheduler stopped: %v", err)
		}
	}()
	defer func() {
		_ = scheduler.Stop()
		<-schedulerDone
	}()

	if app.ConfigStore != nil {
		go watchConfig(ctx, app, handler)
	}

	// The local index is held open by this process, so MCP shares it here.
	if serveMCPAddr != "" {
		mcpServer, err := mcp.NewServer(&mcp.Ports{Search: app.Search, Queue: app.Queue}, version)
		if err != nil {
			return err
		}
		go func() {
			if err := mcpServer.RunHTTP(ctx, serveMCPAddr); err != nil {
				logger.Error("mcp server stopped: %v", err)
			}
		}()
	}

	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	cmd.Printf("Listening on %s%s (index: %s %s)\n",
		server.Addr(), app.Config.Webhook.Path, app.Config.Index.Backend, app.Config.Index.Name)

	return server.Wait(ctx)
}

// watchConfig applies settings that can change without a restart.
func watchConfig(ctx context.Context, app *App, handler *webhook.Handler) {
	watcher := file.NewWatcher(app.ConfigStore, func() {
		settings, err := app.Settings.Get()
		if err != nil {
			logger.Warn("config reload: %v", err)
			return
		}
		handler.SetSecret(settings.Webhook.Secret)
		logger.Info("config reloaded from %s; webhook secret applied, other changes need a restart",
			app.ConfigStore.Path())
	})
	if err := watcher.Run(ctx); err != nil {
		logger.Warn("config watcher stopped: %v", err)
	}
}
