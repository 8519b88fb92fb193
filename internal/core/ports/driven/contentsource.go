package driven

import (
	"context"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

// ContentSource fetches authoritative records from the headless CMS.
// Backed by the Agility CMS Fetch API.
type ContentSource interface {
	// GetPage retrieves a page with its main-zone modules expanded.
	// Returns domain.ErrNotFound if the page does not exist.
	GetPage(ctx context.Context, pageID int) (*domain.ContentRecord, error)

	// GetContentItem retrieves a content item with linked content expanded.
	// Returns domain.ErrNotFound if the item does not exist.
	GetContentItem(ctx context.Context, contentID int) (*domain.ContentRecord, error)

	// GetSitemapFlat retrieves the flattened sitemap of the configured channel.
	GetSitemapFlat(ctx context.Context) (domain.SitemapIndex, error)

	// GetDynamicPageURL resolves the public path of a content item.
	// Returns domain.ErrNotFound if no dynamic page renders the item.
	GetDynamicPageURL(ctx context.Context, contentID int) (string, error)
}
