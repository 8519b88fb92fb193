// Package algolia pushes documents to a hosted Algolia index.
package algolia

import (
	"context"
	"fmt"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.SearchIndex = (*Index)(nil)

// ObjectWriter is the subset of the Algolia index client used here.
// The client takes a context.Context among its variadic options and
// aborts the HTTP request when it is done.
type ObjectWriter interface {
	SaveObject(object interface{}, opts ...interface{}) (search.SaveObjectRes, error)
	DeleteObject(objectID string, opts ...interface{}) (search.DeleteTaskRes, error)
}

// Config holds the Algolia credentials and target index.
type Config struct {
	AppID     string
	APIKey    string
	IndexName string
}

// Index is an Algolia implementation of driven.SearchIndex.
type Index struct {
	writer ObjectWriter
	name   string
}

// New creates an index client from credentials.
func New(cfg Config) (*Index, error) {
	if cfg.AppID == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("algolia app id and api key are required: %w", domain.ErrInvalidInput)
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("algolia index name is required: %w", domain.ErrInvalidInput)
	}
	client := search.NewClient(cfg.AppID, cfg.APIKey)
	return NewWithWriter(client.InitIndex(cfg.IndexName), cfg.IndexName), nil
}

// NewWithWriter wraps an existing writer. Used by tests.
func NewWithWriter(writer ObjectWriter, name string) *Index {
	return &Index{writer: writer, name: name}
}

// SaveObject replaces the stored object with the same objectID.
func (i *Index) SaveObject(ctx context.Context, doc *domain.IndexDocument) error {
	if doc == nil || doc.ObjectID == "" {
		return domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := i.writer.SaveObject(doc, ctx); err != nil {
		return fmt.Errorf("algolia save %s to %s: %w", doc.ObjectID, i.name, err)
	}
	return nil
}

// DeleteObject removes an object. Algolia treats missing objects as a no-op.
func (i *Index) DeleteObject(ctx context.Context, objectID string) error {
	if objectID == "" {
		return domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := i.writer.DeleteObject(objectID, ctx); err != nil {
		return fmt.Errorf("algolia delete %s from %s: %w", objectID, i.name, err)
	}
	return nil
}

// Close is a no-op; the Algolia client holds no long-lived resources.
func (i *Index) Close() error {
	return nil
}

// Name returns the target index name.
func (i *Index) Name() string {
	return i.name
}
