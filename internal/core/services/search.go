package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
	"github.com/custodia-labs/searchsync/internal/core/ports/driving"
	"github.com/custodia-labs/searchsync/internal/logger"
)

var _ driving.SearchService = (*SearchService)(nil)

// Search limits. Zero or negative means DefaultSearchLimit; anything above
// MaxSearchLimit is clamped.
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// SearchService answers keyword queries from the local mirror for the CLI
// and MCP. Site visitors query Algolia directly and never reach it.
type SearchService struct {
	index driven.SearchableIndex
}

// NewSearchService wraps a searchable index. A nil index makes every call
// return domain.ErrIndexUnavailable.
func NewSearchService(index driven.SearchableIndex) *SearchService {
	return &SearchService{index: index}
}

// Search returns up to limit hits for query. A blank query returns an
// empty result without touching the index.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchHit{}, nil
	}
	if s.index == nil {
		return nil, domain.ErrIndexUnavailable
	}
	switch {
	case limit <= 0:
		limit = DefaultSearchLimit
	case limit > MaxSearchLimit:
		limit = MaxSearchLimit
	}

	start := time.Now()
	hits, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	logger.Debug("search %q: %d hits in %s", query, len(hits), time.Since(start).Round(time.Microsecond))
	return hits, nil
}

// Count returns the number of documents in the mirror.
func (s *SearchService) Count(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, domain.ErrIndexUnavailable
	}
	return s.index.Count(ctx)
}
