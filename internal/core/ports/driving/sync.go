package driving

import (
	"context"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

// SyncService applies a single change event to the search index.
type SyncService interface {
	// Route checks that the event can be applied.
	// Returns domain.ErrUnroutable for content types that are not indexed.
	Route(event domain.ChangeEvent) error

	// Apply fetches, normalises and writes (or deletes) the event's subject.
	// Each call issues exactly one index write.
	Apply(ctx context.Context, event domain.ChangeEvent) (*SyncResult, error)
}

// SyncAction is the index operation a sync performed.
type SyncAction string

// Sync actions.
const (
	// ActionUpserted means the document was saved.
	ActionUpserted SyncAction = "upserted"

	// ActionDeleted means the document was removed.
	ActionDeleted SyncAction = "deleted"
)

// SyncResult describes what Apply did.
type SyncResult struct {
	// ObjectID is the index key that was written.
	ObjectID string

	// Action is the index operation performed.
	Action SyncAction

	// Document is the saved document. Nil for deletes.
	Document *domain.IndexDocument
}
