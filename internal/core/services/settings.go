package services

import (
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
	"github.com/custodia-labs/searchsync/internal/core/ports/driving"
	"github.com/custodia-labs/searchsync/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAgilityGUID    = "agility.guid"
	keyAgilityAPIKey  = "agility.api_key"
	keyAgilityBaseURL = "agility.base_url"
	keyAgilityLocale  = "agility.locale"
	keyAgilityChannel = "agility.channel"
	keyAgilityRPS     = "agility.requests_per_second"
	keyAgilityBurst   = "agility.burst"

	keyIndexBackend = "index.backend"
	keyIndexName    = "index.name"
	keyIndexAppID   = "index.app_id"
	keyIndexAPIKey  = "index.api_key"
	keyIndexPath    = "index.path"
	keyIndexPageTag = "index.page_tag"

	keyWebhookAddr   = "webhook.addr"
	keyWebhookPath   = "webhook.path"
	keyWebhookSecret = "webhook.secret"

	keyQueueWorkers        = "queue.workers"
	keyQueueCapacity       = "queue.capacity"
	keyQueueMaxAttempts    = "queue.max_attempts"
	keyQueueAttemptTimeout = "queue.attempt_timeout"
	keyQueueBackoffBase    = "queue.backoff_base"
	keyQueueBackoffMax     = "queue.backoff_max"
	keyQueueRetention      = "queue.retention"
)

// Environment variables that override secrets from the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvAgilityGUID   = "AGILITY_GUID"
	EnvAgilityAPIKey = "AGILITY_API_FETCH_KEY"
	EnvAlgoliaAppID  = "ALGOLIA_APP_ID"
	EnvAlgoliaAPIKey = "ALGOLIA_ADMIN_API_KEY"
	EnvWebhookSecret = "SEARCHSYNC_WEBHOOK_SECRET"
)

// SettingsService reads service settings from the config store.
// Missing keys fall back to domain.DefaultSettings and secrets may be
// supplied through the environment instead of the file.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Agility: domain.AgilitySettings{
			GUID:              s.getSecret(keyAgilityGUID, EnvAgilityGUID),
			APIKey:            s.getSecret(keyAgilityAPIKey, EnvAgilityAPIKey),
			BaseURL:           s.configStore.GetString(keyAgilityBaseURL), // Empty derives the URL from the GUID
			Locale:            s.getString(keyAgilityLocale, defaults.Agility.Locale),
			Channel:           s.getString(keyAgilityChannel, defaults.Agility.Channel),
			RequestsPerSecond: s.getFloat(keyAgilityRPS, defaults.Agility.RequestsPerSecond),
			Burst:             s.getInt(keyAgilityBurst, defaults.Agility.Burst),
		},
		Index: domain.IndexSettings{
			Backend: s.getBackend(defaults.Index.Backend),
			Name:    s.getString(keyIndexName, defaults.Index.Name),
			AppID:   s.getSecret(keyIndexAppID, EnvAlgoliaAppID),
			APIKey:  s.getSecret(keyIndexAPIKey, EnvAlgoliaAPIKey),
			Path:    s.configStore.GetString(keyIndexPath),
			PageTag: s.getString(keyIndexPageTag, defaults.Index.PageTag),
		},
		Webhook: domain.WebhookSettings{
			Addr:   s.getString(keyWebhookAddr, defaults.Webhook.Addr),
			Path:   s.getString(keyWebhookPath, defaults.Webhook.Path),
			Secret: s.getSecret(keyWebhookSecret, EnvWebhookSecret),
		},
		Queue: domain.QueueSettings{
			Workers:        s.getInt(keyQueueWorkers, defaults.Queue.Workers),
			Capacity:       s.getInt(keyQueueCapacity, defaults.Queue.Capacity),
			MaxAttempts:    s.getInt(keyQueueMaxAttempts, defaults.Queue.MaxAttempts),
			AttemptTimeout: s.getDuration(keyQueueAttemptTimeout, defaults.Queue.AttemptTimeout),
			BackoffBase:    s.getDuration(keyQueueBackoffBase, defaults.Queue.BackoffBase),
			BackoffMax:     s.getDuration(keyQueueBackoffMax, defaults.Queue.BackoffMax),
			Retention:      s.getDuration(keyQueueRetention, defaults.Queue.Retention),
		},
	}

	return settings, nil
}

// Save persists settings. Secrets are left to the file or the environment
// and are never written back.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyAgilityBaseURL, settings.Agility.BaseURL},
		{keyAgilityLocale, settings.Agility.Locale},
		{keyAgilityChannel, settings.Agility.Channel},
		{keyAgilityRPS, settings.Agility.RequestsPerSecond},
		{keyAgilityBurst, settings.Agility.Burst},
		{keyIndexBackend, settings.Index.Backend.String()},
		{keyIndexName, settings.Index.Name},
		{keyIndexPath, settings.Index.Path},
		{keyIndexPageTag, settings.Index.PageTag},
		{keyWebhookAddr, settings.Webhook.Addr},
		{keyWebhookPath, settings.Webhook.Path},
		{keyQueueWorkers, settings.Queue.Workers},
		{keyQueueCapacity, settings.Queue.Capacity},
		{keyQueueMaxAttempts, settings.Queue.MaxAttempts},
		{keyQueueAttemptTimeout, settings.Queue.AttemptTimeout.String()},
		{keyQueueBackoffBase, settings.Queue.BackoffBase.String()},
		{keyQueueBackoffMax, settings.Queue.BackoffMax.String()},
		{keyQueueRetention, settings.Queue.Retention.String()},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// GetSchedulerConfig returns the scheduler configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetSchedulerConfig() domain.SchedulerConfig {
	defaults := domain.DefaultSchedulerConfig()

	// Master switch
	if _, exists := s.configStore.Get("scheduler.enabled"); exists {
		defaults.Enabled = s.configStore.GetBool("scheduler.enabled")
	}
	defaults.Tick = s.getDuration("scheduler.tick", defaults.Tick)

	// Map from task ID to config key (underscore version for TOML)
	taskKeys := map[string]string{
		domain.TaskIDQueueDrain: "queue_drain",
		domain.TaskIDQueuePrune: "queue_prune",
	}

	for taskID, configKey := range taskKeys {
		prefix := "scheduler." + configKey + "."

		taskCfg := defaults.TaskConfigs[taskID]
		if _, exists := s.configStore.Get(prefix + "enabled"); exists {
			taskCfg.Enabled = s.configStore.GetBool(prefix + "enabled")
		}
		taskCfg.Interval = s.getDuration(prefix+"interval", taskCfg.Interval)

		defaults.TaskConfigs[taskID] = taskCfg
	}

	return defaults
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getSecret prefers the environment over the config file.
func (s *SettingsService) getSecret(key, env string) string {
	if val := s.getenv(env); val != "" {
		return val
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// getDuration parses a duration string such as "30s" or "6h".
// Invalid values are logged and replaced by the default.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		logger.Warn("config: invalid duration %s = %q, using %s", key, val, defaultVal)
		return defaultVal
	}
	return d
}

func (s *SettingsService) getBackend(defaultVal domain.IndexBackend) domain.IndexBackend {
	val := s.configStore.GetString(keyIndexBackend)
	if val == "" {
		return defaultVal
	}
	// Unknown backends are kept so Validate can report them.
	return domain.IndexBackend(val)
}
