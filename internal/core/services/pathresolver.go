package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
	"github.com/custodia-labs/searchsync/internal/logger"
)

// PathResolver maps records to their canonical public path.
type PathResolver struct {
	source driven.ContentSource
}

// NewPathResolver creates a resolver backed by the content source.
func NewPathResolver(source driven.ContentSource) *PathResolver {
	return &PathResolver{source: source}
}

// PagePath finds the page in the flattened sitemap by matching its name
// against the last segment of each sitemap path. The sitemap is keyed by
// path, not page ID, so two pages sharing a name are ambiguous.
// Returns domain.ErrPathNotFound when nothing matches.
func (p *PathResolver) PagePath(sitemap domain.SitemapIndex, page *domain.ContentRecord) (string, error) {
	if page == nil {
		return "", domain.ErrInvalidInput
	}
	entry, ok := sitemap.FindByName(page.Name)
	if !ok {
		return "", fmt.Errorf("%w: page %d (%q)", domain.ErrPathNotFound, page.ID, page.Name)
	}
	return entry.Path, nil
}

// ContentPath resolves a content item through its dynamic page.
// A missing dynamic page yields a nil path and no error; the document is
// still indexed and picks up its path on a later sync.
func (p *PathResolver) ContentPath(ctx context.Context, contentID int) (*string, error) {
	path, err := p.source.GetDynamicPageURL(ctx, contentID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && path == "") {
		logger.Debug("No dynamic page URL for content %d", contentID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve dynamic page url: %w", err)
	}
	return &path, nil
}
