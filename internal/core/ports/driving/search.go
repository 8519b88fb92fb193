package driving

import (
	"context"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

// SearchService queries the local index mirror.
type SearchService interface {
	// Search performs a keyword search.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error)

	// Count returns the number of indexed documents.
	Count(ctx context.Context) (int, error)
}
