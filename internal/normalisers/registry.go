package normalisers

import (
	"sort"

	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
	"github.com/custodia-labs/searchsync/internal/normalisers/content"
	"github.com/custodia-labs/searchsync/internal/normalisers/page"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps content reference names to their normalisers.
type Registry struct {
	page    driven.Normaliser
	content map[string]driven.Normaliser
}

// NewRegistry creates an empty registry with the given page normaliser.
func NewRegistry(pageNormaliser driven.Normaliser) *Registry {
	return &Registry{
		page:    pageNormaliser,
		content: make(map[string]driven.Normaliser),
	}
}

// DefaultRegistry returns the registry of every indexed content type.
// pageTag overrides the page facet label when non-empty.
func DefaultRegistry(pageTag string) *Registry {
	r := NewRegistry(page.New(pageTag))

	blog := content.NewBlogPost()
	press := content.NewPressRelease()
	resource := content.NewResource()

	r.Register("blogposts", blog)
	r.Register("pressreleasearticle", press)
	for _, name := range []string{"ebooks", "guides", "integrations", "webinars", "whitepapers"} {
		r.Register(name, resource)
	}
	return r
}

// Register maps a reference name to a normaliser, replacing any existing row.
func (r *Registry) Register(referenceName string, n driven.Normaliser) {
	r.content[referenceName] = n
}

// ForPage returns the page normaliser.
func (r *Registry) ForPage() driven.Normaliser {
	return r.page
}

// ForReferenceName returns the normaliser for a content type.
func (r *Registry) ForReferenceName(referenceName string) (driven.Normaliser, bool) {
	n, ok := r.content[referenceName]
	return n, ok
}

// ReferenceNames returns every indexed content type, sorted.
func (r *Registry) ReferenceNames() []string {
	names := make([]string, 0, len(r.content))
	for name := range r.content {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
