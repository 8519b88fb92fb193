package page

import (
	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
	"github.com/custodia-labs/searchsync/internal/normalisers/headings"
)

// DefaultTag is the facet label applied to pages.
const DefaultTag = "UJET"

// OverrideSEODefinition is the module definition whose meta description
// takes precedence over the page's own SEO settings.
const OverrideSEODefinition = "OverrideSEO"

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles sitemap pages.
type Normaliser struct {
	tag string
}

// New creates a page normaliser. An empty tag uses DefaultTag.
func New(tag string) *Normaliser {
	if tag == "" {
		tag = DefaultTag
	}
	return &Normaliser{tag: tag}
}

// Kind returns the normaliser's name.
func (n *Normaliser) Kind() string {
	return "page"
}

// SubjectKind returns domain.SubjectPage.
func (n *Normaliser) SubjectKind() domain.SubjectKind {
	return domain.SubjectPage
}

// Tag returns the facet label.
func (n *Normaliser) Tag() string {
	return n.tag
}

// Normalise converts a page and its modules to an index document.
// The description comes from an OverrideSEO module when one is present
// and non-empty, otherwise from the page's SEO settings.
func (n *Normaliser) Normalise(record *domain.ContentRecord, path *string) (*domain.IndexDocument, error) {
	if record == nil {
		return nil, domain.ErrInvalidInput
	}

	return &domain.IndexDocument{
		ObjectID:    domain.ObjectIDFor(domain.SubjectPage, record.ID),
		Title:       record.Title,
		Description: description(record),
		Headings:    headings.FromModules(record.Modules),
		Tags:        []string{n.tag},
		Path:        path,
	}, nil
}

func description(record *domain.ContentRecord) string {
	if module, ok := record.FindModule(OverrideSEODefinition); ok {
		if d := module.Fields.String("metaDescription"); d != "" {
			return d
		}
	}
	return record.SEO.MetaDescription
}
