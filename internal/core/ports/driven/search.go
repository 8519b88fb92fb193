package driven

import (
	"context"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

// SearchIndex is the external index that serves site search.
// Backed by Algolia in production and bleve locally.
type SearchIndex interface {
	// SaveObject stores the document, fully replacing any document
	// with the same ObjectID.
	SaveObject(ctx context.Context, doc *domain.IndexDocument) error

	// DeleteObject removes a document. Deleting a missing key is not an error.
	DeleteObject(ctx context.Context, objectID string) error

	// Close releases resources.
	Close() error
}

// SearchableIndex is a SearchIndex that can also be queried locally.
type SearchableIndex interface {
	SearchIndex

	// Search performs a keyword search and returns the best matches.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
}
