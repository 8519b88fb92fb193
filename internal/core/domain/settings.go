package domain

import (
	"errors"
	"fmt"
	"time"
)

// IndexBackend selects where index documents are written.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendAlgolia writes to a hosted Algolia index.
	IndexBackendAlgolia IndexBackend = "algolia"

	// IndexBackendBleve writes to a local on-disk bleve index.
	IndexBackendBleve IndexBackend = "bleve"

	// IndexBackendMemory keeps documents in process. Useful for dry runs.
	IndexBackendMemory IndexBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexBackendAlgolia, IndexBackendBleve, IndexBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b IndexBackend) String() string {
	return string(b)
}

// AgilitySettings configures the content source.
type AgilitySettings struct {
	// GUID is the instance identifier.
	GUID string

	// APIKey is the fetch API key.
	APIKey string

	// BaseURL overrides the fetch endpoint. Empty derives it from GUID.
	BaseURL string

	// Locale is the language code, e.g. "en-us".
	Locale string

	// Channel is the sitemap channel, e.g. "website".
	Channel string

	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64

	// Burst is the maximum burst size.
	Burst int
}

// IsConfigured returns true if the content source can be reached.
func (a AgilitySettings) IsConfigured() bool {
	return a.GUID != "" && a.APIKey != ""
}

// IndexSettings configures the search index.
type IndexSettings struct {
	// Backend selects the index implementation.
	Backend IndexBackend

	// Name is the index name.
	Name string

	// AppID is the Algolia application ID.
	AppID string

	// APIKey is the Algolia admin API key.
	APIKey string

	// Path is the bleve index directory. Empty uses the data directory.
	Path string

	// PageTag is the facet label applied to pages.
	PageTag string
}

// WebhookSettings configures the inbound HTTP endpoint.
type WebhookSettings struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Path is the webhook route.
	Path string

	// Secret, when set, must match the X-Webhook-Secret header.
	Secret string
}

// QueueSettings configures asynchronous processing of accepted events.
type QueueSettings struct {
	// Workers is the number of concurrent sync workers.
	Workers int

	// Capacity is the in-memory buffer size.
	Capacity int

	// MaxAttempts is the number of attempts before a task is dead-lettered.
	MaxAttempts int

	// AttemptTimeout bounds a single attempt.
	AttemptTimeout time.Duration

	// BackoffBase is the delay after the first failure. It doubles per attempt.
	BackoffBase time.Duration

	// BackoffMax caps the retry delay.
	BackoffMax time.Duration

	// Retention is how long finished tasks are kept.
	Retention time.Duration
}

// Backoff returns the delay before the next attempt after attempts failures.
func (q QueueSettings) Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := q.BackoffBase
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= q.BackoffMax {
			return q.BackoffMax
		}
	}
	if d > q.BackoffMax {
		return q.BackoffMax
	}
	return d
}

// Settings holds all service settings.
type Settings struct {
	Agility AgilitySettings
	Index   IndexSettings
	Webhook WebhookSettings
	Queue   QueueSettings
}

// DefaultSettings returns settings with sensible defaults.
// Credentials are left empty and must come from the config file or environment.
func DefaultSettings() Settings {
	return Settings{
		Agility: AgilitySettings{
			Locale:            "en-us",
			Channel:           "website",
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Index: IndexSettings{
			Backend: IndexBackendBleve,
			Name:    "main-index",
			PageTag: "UJET",
		},
		Webhook: WebhookSettings{
			Addr: ":8080",
			Path: "/webhooks/agility",
		},
		Queue: QueueSettings{
			Workers:        2,
			Capacity:       256,
			MaxAttempts:    5,
			AttemptTimeout: 30 * time.Second,
			BackoffBase:    2 * time.Second,
			BackoffMax:     5 * time.Minute,
			Retention:      7 * 24 * time.Hour,
		},
	}
}

// Validate checks that the settings can run the service.
func (s Settings) Validate() error {
	var errs []error
	if !s.Index.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("index.backend: unknown backend %q", s.Index.Backend))
	}
	if s.Index.Backend == IndexBackendAlgolia && (s.Index.AppID == "" || s.Index.APIKey == "") {
		errs = append(errs, errors.New("index: algolia backend needs app_id and api_key"))
	}
	if s.Index.Name == "" {
		errs = append(errs, errors.New("index.name: must not be empty"))
	}
	if s.Queue.Workers < 1 {
		errs = append(errs, errors.New("queue.workers: must be at least 1"))
	}
	if s.Queue.MaxAttempts < 1 {
		errs = append(errs, errors.New("queue.max_attempts: must be at least 1"))
	}
	if s.Queue.BackoffBase <= 0 || s.Queue.BackoffMax < s.Queue.BackoffBase {
		errs = append(errs, errors.New("queue: backoff_max must be >= backoff_base > 0"))
	}
	if s.Webhook.Path == "" || s.Webhook.Path[0] != '/' {
		errs = append(errs, errors.New("webhook.path: must start with /"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
