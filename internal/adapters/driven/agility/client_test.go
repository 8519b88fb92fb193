package agility

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL + "/fetch/",
		Locale:  "en-us",
		Channel: "website",
	}, WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	client, err := NewClient(Config{GUID: "abc123-u", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "https://abc123-u-api.agilitycms.cloud/fetch", client.baseURL)
	assert.Equal(t, "en-us", client.locale)
	assert.Equal(t, "website", client.channel)
}

func TestConfigFromSettings(t *testing.T) {
	s := domain.DefaultSettings().Agility
	s.GUID = "g"
	s.APIKey = "k"

	cfg := ConfigFromSettings(s)
	assert.Equal(t, "g", cfg.GUID)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, s.Burst, cfg.Burst)
}

func TestClient_GetPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fetch/en-us/page/12", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get(HeaderAPIKey))
		assert.Equal(t, "true", r.URL.Query().Get("expandAllContentLinks"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pageID":12,"name":"pricing","title":"Pricing","zones":{"MainContentZone":[
			{"module":"Hero","item":{"contentID":1,"properties":{"definitionName":"Hero"},"fields":{"heading":"{\"text\":\"Plans\"}"}}}
		]}}`))
	})

	page, err := client.GetPage(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, 12, page.ID)
	assert.Equal(t, "pricing", page.Name)
	require.Len(t, page.Modules, 1)
}

func TestClient_GetContentItem(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fetch/en-us/item/101", r.URL.Path)
		_, _ = w.Write([]byte(`{"contentID":101,"properties":{"referenceName":"blogposts","definitionName":"BlogPost"},
			"fields":{"title":"Hello","content":"<h2>A</h2>"}}`))
	})

	item, err := client.GetContentItem(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, 101, item.ID)
	assert.Equal(t, "blogposts", item.ReferenceName)
	assert.Equal(t, []string{"title", "content"}, fieldNames(item.Fields))
}

func TestClient_GetSitemapFlatAndDynamicURL(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/fetch/en-us/sitemap/flat/website", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"/blog": {"pageID": 3, "name": "blog", "path": "/blog", "title": "Blog"},
			"/blog/cutting-aht": {"pageID": 4, "name": "cutting-aht", "path": "/blog/cutting-aht", "contentID": 101}
		}`))
	})
	ctx := context.Background()

	sitemap, err := client.GetSitemapFlat(ctx)
	require.NoError(t, err)
	assert.Len(t, sitemap, 2)
	assert.Equal(t, "Blog", sitemap["/blog"].Title)

	path, err := client.GetDynamicPageURL(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "/blog/cutting-aht", path)

	_, err = client.GetDynamicPageURL(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetContentItem(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_RateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(HeaderRetryAfter, "7")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	before := time.Now()
	_, err := client.GetPage(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.WithinDuration(t, before.Add(7*time.Second), client.limiter.backoffUntil(), time.Second)

	// The next request waits for the backoff window and honours cancellation
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.GetPage(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})

	_, err := client.GetSitemapFlat(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestClient_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"contentID": `))
	})

	_, err := client.GetContentItem(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 5*time.Second, parseRetryAfter("5"))
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-3"))
}

func TestRateLimiter_DefaultBackoff(t *testing.T) {
	limiter := NewRateLimiter(0, 0)
	limiter.RecordRateLimitError(0)
	assert.WithinDuration(t, time.Now().Add(defaultRetryAfter), limiter.backoffUntil(), time.Second)

	// A shorter window never shrinks an existing one
	limiter.RecordRateLimitError(time.Second)
	assert.WithinDuration(t, time.Now().Add(defaultRetryAfter), limiter.backoffUntil(), time.Second)
}

func TestRateLimiter_Throttles(t *testing.T) {
	limiter := NewRateLimiter(1000, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Wait(ctx))
	}
	assert.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond)
}
