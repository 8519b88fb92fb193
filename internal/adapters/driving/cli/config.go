package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/searchsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long: `Settings are read from config.toml in the configuration directory.
Credentials can also be supplied through AGILITY_GUID,
AGILITY_API_FETCH_KEY, ALGOLIA_APP_ID, ALGOLIA_ADMIN_API_KEY and
SEARCHSYNC_WEBHOOK_SECRET, which take precedence over the file.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := file.NewConfigStore(configDir)
		if err != nil {
			return err
		}
		cmd.Println(store.Path())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings with secrets masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := file.NewConfigStore(configDir)
		if err != nil {
			return err
		}
		settings, err := services.NewSettingsService(store).Get()
		if err != nil {
			return err
		}
		printSettings(cmd, settings)
		if err := settings.Validate(); err != nil {
			cmd.Printf("\nInvalid: %v\n", err)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func printSettings(cmd *cobra.Command, s *domain.Settings) {
	cmd.Println("[agility]")
	cmd.Printf("  guid                = %s\n", s.Agility.GUID)
	cmd.Printf("  api_key             = %s\n", mask(s.Agility.APIKey))
	cmd.Printf("  base_url            = %s\n", s.Agility.BaseURL)
	cmd.Printf("  locale              = %s\n", s.Agility.Locale)
	cmd.Printf("  channel             = %s\n", s.Agility.Channel)
	cmd.Printf("  requests_per_second = %g\n", s.Agility.RequestsPerSecond)
	cmd.Printf("  burst               = %d\n", s.Agility.Burst)
	cmd.Println("[index]")
	cmd.Printf("  backend  = %s\n", s.Index.Backend)
	cmd.Printf("  name     = %s\n", s.Index.Name)
	cmd.Printf("  app_id   = %s\n", s.Index.AppID)
	cmd.Printf("  api_key  = %s\n", mask(s.Index.APIKey))
	cmd.Printf("  path     = %s\n", s.Index.Path)
	cmd.Printf("  page_tag = %s\n", s.Index.PageTag)
	cmd.Println("[webhook]")
	cmd.Printf("  addr   = %s\n", s.Webhook.Addr)
	cmd.Printf("  path   = %s\n", s.Webhook.Path)
	cmd.Printf("  secret = %s\n", mask(s.Webhook.Secret))
	cmd.Println("[queue]")
	cmd.Printf("  workers         = %d\n", s.Queue.Workers)
	cmd.Printf("  capacity        = %d\n", s.Queue.Capacity)
	cmd.Printf("  max_attempts    = %d\n", s.Queue.MaxAttempts)
	cmd.Printf("  attempt_timeout = %s\n", s.Queue.AttemptTimeout)
	cmd.Printf("  backoff_base    = %s\n", s.Queue.BackoffBase)
	cmd.Printf("  backoff_max     = %s\n", s.Queue.BackoffMax)
	cmd.Printf("  retention       = %s\n", s.Queue.Retention)
}

// mask hides all but the last four characters of a secret.
func mask(secret string) string {
	switch {
	case secret == "":
		return "(not set)"
	case len(secret) <= 4:
		return "****"
	default:
		return "****" + secret[len(secret)-4:]
	}
}
