// Package content normalises CMS content items: blog posts, press
// releases and downloadable resources. The three kinds share one shape and
// differ only in their rich-text body field and facet label.
package content

import (
	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
	"github.com/custodia-labs/searchsync/internal/normalisers/headings"
)

// Facet labels for content kinds.
const (
	TagBlog      = "Blog"
	TagNewsroom  = "Newsroom"
	TagResources = "Resources"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles one content kind.
type Normaliser struct {
	kind      string
	bodyField string
	tag       string
}

// NewBlogPost creates the normaliser for blog posts.
// Headings are read from the "content" field.
func NewBlogPost() *Normaliser {
	return &Normaliser{kind: "blogpost", bodyField: "content", tag: TagBlog}
}

// NewPressRelease creates the normaliser for press release articles.
func NewPressRelease() *Normaliser {
	return &Normaliser{kind: "pressrelease", bodyField: "text", tag: TagNewsroom}
}

// NewResource creates the normaliser for ebooks, guides, integrations,
// webinars and whitepapers.
func NewResource() *Normaliser {
	return &Normaliser{kind: "resource", bodyField: "text", tag: TagResources}
}

// Kind returns the normaliser's name.
func (n *Normaliser) Kind() string {
	return n.kind
}

// SubjectKind returns domain.SubjectContentItem.
func (n *Normaliser) SubjectKind() domain.SubjectKind {
	return domain.SubjectContentItem
}

// Tag returns the facet label.
func (n *Normaliser) Tag() string {
	return n.tag
}

// Normalise converts a content item to an index document.
func (n *Normaliser) Normalise(record *domain.ContentRecord, path *string) (*domain.IndexDocument, error) {
	if record == nil {
		return nil, domain.ErrInvalidInput
	}

	found := headings.FromHTML(record.Fields.String(n.bodyField))
	if found == nil {
		found = []string{}
	}

	return &domain.IndexDocument{
		ObjectID:    domain.ObjectIDFor(domain.SubjectContentItem, record.ID),
		Title:       record.Fields.String("title"),
		Description: record.Fields.FirstString("metaDescription", "ogDescription"),
		Headings:    found,
		Tags:        []string{n.tag},
		Path:        path,
	}, nil
}
