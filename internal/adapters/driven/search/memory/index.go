// Package memory provides an in-process search index for tests and dry runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.SearchableIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.SearchableIndex.
// Documents are keyed by ObjectID, so saving replaces.
type Index struct {
	mu      sync.RWMutex
	objects map[string]domain.IndexDocument
	saves   int
	deletes int
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{objects: make(map[string]domain.IndexDocument)}
}

// SaveObject stores the document, replacing any with the same ObjectID.
func (i *Index) SaveObject(_ context.Context, doc *domain.IndexDocument) error {
	if doc == nil || doc.ObjectID == "" {
		return domain.ErrInvalidInput
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.objects[doc.ObjectID] = cloneDocument(doc)
	i.saves++
	return nil
}

// DeleteObject removes a document. Missing keys are ignored.
func (i *Index) DeleteObject(_ context.Context, objectID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.objects, objectID)
	i.deletes++
	return nil
}

// Get returns a stored document.
func (i *Index) Get(objectID string) (*domain.IndexDocument, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	doc, ok := i.objects[objectID]
	if !ok {
		return nil, false
	}
	clone := cloneDocument(&doc)
	return &clone, true
}

// Writes returns how many saves and deletes the index has received.
func (i *Index) Writes() (saves, deletes int) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.saves, i.deletes
}

// Search scores each document by how many query terms appear in its
// title, headings and description. Title matches weigh the most.
func (i *Index) Search(_ context.Context, query string, limit int) ([]domain.SearchHit, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return []domain.SearchHit{}, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	hits := []domain.SearchHit{}
	for id := range i.objects {
		doc := i.objects[id]
		score := scoreDocument(&doc, terms)
		if score == 0 {
			continue
		}
		clone := cloneDocument(&doc)
		hits = append(hits, domain.SearchHit{ObjectID: id, Score: score, Document: &clone})
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].ObjectID < hits[b].ObjectID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Count returns the number of stored documents.
func (i *Index) Count(_ context.Context) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.objects), nil
}

// Close is a no-op.
func (i *Index) Close() error {
	return nil
}

func scoreDocument(doc *domain.IndexDocument, terms []string) float64 {
	title := strings.ToLower(doc.Title)
	headings := strings.ToLower(strings.Join(doc.Headings, " "))
	description := strings.ToLower(doc.Description)

	var score float64
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += 3
		}
		if strings.Contains(headings, term) {
			score += 2
		}
		if strings.Contains(description, term) {
			score++
		}
	}
	return score
}

func cloneDocument(doc *domain.IndexDocument) domain.IndexDocument {
	clone := *doc
	clone.Headings = append([]string(nil), doc.Headings...)
	clone.Tags = append([]string(nil), doc.Tags...)
	if doc.Path != nil {
		path := *doc.Path
		clone.Path = &path
	}
	return clone
}
