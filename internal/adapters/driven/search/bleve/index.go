// Package bleve provides a local on-disk search index backed by bleve.
// It mirrors what is pushed to the hosted index so that documents can be
// inspected and searched without leaving the terminal.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.SearchableIndex = (*Index)(nil)

// Stored field names.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldHeadings    = "headings"
	fieldTags        = "tags"
	fieldPath        = "path"
)

// Index is a bleve implementation of driven.SearchableIndex.
type Index struct {
	index bleve.Index
}

// Open opens the index at dir, creating it when it does not exist.
func Open(dir string) (*Index, error) {
	index, err := bleve.Open(dir)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		if err := os.MkdirAll(filepath.Dir(dir), 0700); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
		index, err = bleve.New(dir, bleve.NewIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open bleve index %s: %w", dir, err)
	}
	return &Index{index: index}, nil
}

// NewInMemory creates an index that lives only in memory.
func NewInMemory() (*Index, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create in-memory bleve index: %w", err)
	}
	return &Index{index: index}, nil
}

// SaveObject indexes the document under its ObjectID, replacing any
// previous version.
func (i *Index) SaveObject(_ context.Context, doc *domain.IndexDocument) error {
	if doc == nil || doc.ObjectID == "" {
		return domain.ErrInvalidInput
	}
	if err := i.index.Index(doc.ObjectID, toStored(doc)); err != nil {
		return fmt.Errorf("bleve index %s: %w", doc.ObjectID, err)
	}
	return nil
}

// DeleteObject removes a document. Missing documents are ignored.
func (i *Index) DeleteObject(_ context.Context, objectID string) error {
	if err := i.index.Delete(objectID); err != nil {
		return fmt.Errorf("bleve delete %s: %w", objectID, err)
	}
	return nil
}

// Search runs a match query across all stored fields.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	if limit > 0 {
		req.Size = limit
	}
	req.Fields = []string{"*"}

	result, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hits = append(hits, domain.SearchHit{
			ObjectID: hit.ID,
			Score:    hit.Score,
			Document: fromStored(hit.ID, hit.Fields),
		})
	}
	return hits, nil
}

// Count returns the number of stored documents.
func (i *Index) Count(_ context.Context) (int, error) {
	n, err := i.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("bleve count: %w", err)
	}
	return int(n), nil
}

// Close closes the underlying index.
func (i *Index) Close() error {
	return i.index.Close()
}

// toStored flattens a document into the map bleve indexes.
func toStored(doc *domain.IndexDocument) map[string]interface{} {
	stored := map[string]interface{}{
		fieldTitle:       doc.Title,
		fieldDescription: doc.Description,
		fieldHeadings:    doc.Headings,
		fieldTags:        doc.Tags,
	}
	if doc.Path != nil {
		stored[fieldPath] = *doc.Path
	}
	return stored
}

// fromStored rebuilds a document from stored hit fields.
func fromStored(id string, fields map[string]interface{}) *domain.IndexDocument {
	doc := &domain.IndexDocument{
		ObjectID: id,
		Headings: stringList(fields[fieldHeadings]),
		Tags:     stringList(fields[fieldTags]),
	}
	if title, ok := fields[fieldTitle].(string); ok {
		doc.Title = title
	}
	if description, ok := fields[fieldDescription].(string); ok {
		doc.Description = description
	}
	if path, ok := fields[fieldPath].(string); ok {
		doc.Path = &path
	}
	return doc
}

// stringList reads a stored array. bleve returns single-element arrays
// as a bare value.
func stringList(value interface{}) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}
