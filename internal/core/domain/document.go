package domain

// IndexDocument is the canonical record pushed to the search index.
// ObjectID is stable across updates to the same entity; re-indexing
// replaces the stored document rather than adding another one.
type IndexDocument struct {
	// ObjectID is the index key. Page IDs carry PageObjectSuffix.
	ObjectID string `json:"objectID"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// Description is the meta description shown in results.
	Description string `json:"description"`

	// Headings are the document's headings in document order.
	Headings []string `json:"headings"`

	// Tags is the categorical facet (e.g. "Blog").
	Tags []string `json:"_tags"`

	// Path is the canonical public URL path. Nil when it could not be resolved.
	Path *string `json:"path,omitempty"`
}

// PathOrEmpty returns the resolved path or "".
func (d *IndexDocument) PathOrEmpty() string {
	if d.Path == nil {
		return ""
	}
	return *d.Path
}

// SearchHit is a single match from a searchable index.
type SearchHit struct {
	// ObjectID is the matched document key.
	ObjectID string

	// Score is the relevance score.
	Score float64

	// Document is the stored document, when the index keeps it.
	Document *IndexDocument
}
