package driving

import "github.com/custodia-labs/searchsync/internal/core/domain"

// SettingsService manages service settings.
type SettingsService interface {
	// Get retrieves current settings, applying defaults and environment overrides.
	Get() (*domain.Settings, error)

	// Save persists settings to the config store. Secrets are not written.
	Save(settings *domain.Settings) error
}
