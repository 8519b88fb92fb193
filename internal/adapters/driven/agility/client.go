package agility

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
	"github.com/custodia-labs/searchsync/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.ContentSource = (*Client)(nil)

const (
	// HeaderAPIKey carries the fetch API key.
	HeaderAPIKey = "APIKey"

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"

	// defaultTimeout bounds a single HTTP request.
	defaultTimeout = 15 * time.Second

	// maxBodyBytes caps response bodies.
	maxBodyBytes = 16 << 20

	// contentLinkDepth is how deep linked content is expanded.
	contentLinkDepth = 3
)

// Config holds connection settings for the Fetch API.
type Config struct {
	// GUID is the instance identifier.
	GUID string

	// APIKey is the fetch API key.
	APIKey string

	// BaseURL overrides the endpoint derived from GUID.
	BaseURL string

	// Locale is the language code, e.g. "en-us".
	Locale string

	// Channel is the sitemap channel, e.g. "website".
	Channel string

	// RequestsPerSecond and Burst configure the rate limiter.
	RequestsPerSecond float64
	Burst             int
}

// ConfigFromSettings builds a client config from service settings.
func ConfigFromSettings(s domain.AgilitySettings) Config {
	return Config{
		GUID:              s.GUID,
		APIKey:            s.APIKey,
		BaseURL:           s.BaseURL,
		Locale:            s.Locale,
		Channel:           s.Channel,
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
	}
}

// Client is a rate-limited Fetch API client.
type Client struct {
	http    *http.Client
	limiter *RateLimiter
	baseURL string
	apiKey  string
	locale  string
	channel string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.http = c
	}
}

// NewClient creates a client. It fails when neither a GUID nor a base URL is set.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		if cfg.GUID == "" {
			return nil, fmt.Errorf("%w: agility guid is required", domain.ErrInvalidInput)
		}
		baseURL = fmt.Sprintf("https://%s-api.agilitycms.cloud/fetch", cfg.GUID)
	}
	if cfg.Locale == "" {
		cfg.Locale = "en-us"
	}
	if cfg.Channel == "" {
		cfg.Channel = "website"
	}

	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		locale:  cfg.Locale,
		channel: cfg.Channel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetPage retrieves a page with its modules and linked content expanded.
func (c *Client) GetPage(ctx context.Context, pageID int) (*domain.ContentRecord, error) {
	var page wirePage
	query := url.Values{
		"expandAllContentLinks": {"true"},
		"contentLinkDepth":      {strconv.Itoa(contentLinkDepth)},
	}
	if err := c.get(ctx, c.endpoint("page", strconv.Itoa(pageID)), query, &page); err != nil {
		return nil, err
	}
	if page.PageID == 0 {
		page.PageID = pageID
	}
	return page.toRecord()
}

// GetContentItem retrieves a content item with linked content expanded.
func (c *Client) GetContentItem(ctx context.Context, contentID int) (*domain.ContentRecord, error) {
	var item wireItem
	query := url.Values{
		"expandAllContentLinks": {"true"},
		"contentLinkDepth":      {strconv.Itoa(contentLinkDepth)},
	}
	if err := c.get(ctx, c.endpoint("item", strconv.Itoa(contentID)), query, &item); err != nil {
		return nil, err
	}
	if item.ContentID == 0 {
		item.ContentID = contentID
	}
	record := item.toRecord()
	return &record, nil
}

// GetSitemapFlat retrieves the flattened sitemap of the configured channel.
func (c *Client) GetSitemapFlat(ctx context.Context) (domain.SitemapIndex, error) {
	var flat map[string]wireSitemapEntry
	if err := c.get(ctx, c.endpoint("sitemap", "flat", c.channel), nil, &flat); err != nil {
		return nil, err
	}
	return toSitemapIndex(flat), nil
}

// GetDynamicPageURL resolves a content item's path through the dynamic
// pages listed in the flattened sitemap.
func (c *Client) GetDynamicPageURL(ctx context.Context, contentID int) (string, error) {
	sitemap, err := c.GetSitemapFlat(ctx)
	if err != nil {
		return "", err
	}
	entry, ok := sitemap.FindByContentID(contentID)
	if !ok {
		return "", fmt.Errorf("%w: no dynamic page for content %d", domain.ErrNotFound, contentID)
	}
	return entry.Path, nil
}

// endpoint joins path segments under the locale.
func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, 0, len(segments)+1)
	escaped = append(escaped, url.PathEscape(c.locale))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

// get performs a rate-limited GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(HeaderAPIKey, c.apiKey)
	req.Header.Set("Accept", "application/json")

	logger.Debug("agility: GET %s", endpoint)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("agility request: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// checkStatus maps HTTP status codes to domain errors.
func (c *Client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get(HeaderRetryAfter))
		c.limiter.RecordRateLimitError(retryAfter)
		return fmt.Errorf("%w: retry after %s", domain.ErrRateLimited, retryAfter)
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("agility: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
