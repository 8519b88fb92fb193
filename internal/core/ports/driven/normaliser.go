package driven

import (
	"github.com/custodia-labs/searchsync/internal/core/domain"
)

// Normaliser maps a fetched record to its index document.
// Implementations are pure: no network access and no side effects.
type Normaliser interface {
	// Kind returns the normaliser's name (e.g. "blogpost").
	Kind() string

	// SubjectKind returns whether this normaliser handles pages or content items.
	SubjectKind() domain.SubjectKind

	// Tag returns the facet label applied to every document it produces.
	Tag() string

	// Normalise builds the index document. path is nil when it is unknown.
	Normalise(record *domain.ContentRecord, path *string) (*domain.IndexDocument, error)
}

// NormaliserRegistry selects the normaliser for a change event.
type NormaliserRegistry interface {
	// ForPage returns the page normaliser.
	ForPage() Normaliser

	// ForReferenceName returns the normaliser for a content type.
	// Returns false for content types that are not indexed.
	ForReferenceName(referenceName string) (Normaliser, bool)

	// ReferenceNames returns every indexed content type, sorted.
	ReferenceNames() []string
}
