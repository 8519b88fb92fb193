// Package search holds index composition shared by the index adapters.
package search

import (
	"context"
	"errors"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
	"github.com/custodia-labs/searchsync/internal/logger"
)

// Ensure Mirror implements the interface.
var _ driven.SearchIndex = (*Mirror)(nil)

// Mirror writes to a primary index and copies every write to a local
// searchable index. The primary decides success; local failures are logged.
type Mirror struct {
	primary driven.SearchIndex
	local   driven.SearchableIndex
}

// NewMirror creates a mirrored index.
func NewMirror(primary driven.SearchIndex, local driven.SearchableIndex) *Mirror {
	return &Mirror{primary: primary, local: local}
}

// SaveObject saves to the primary, then the local copy.
func (m *Mirror) SaveObject(ctx context.Context, doc *domain.IndexDocument) error {
	if err := m.primary.SaveObject(ctx, doc); err != nil {
		return err
	}
	if err := m.local.SaveObject(ctx, doc); err != nil {
		logger.Warn("mirror: local save of %s failed: %v", doc.ObjectID, err)
	}
	return nil
}

// DeleteObject deletes from the primary, then the local copy.
func (m *Mirror) DeleteObject(ctx context.Context, objectID string) error {
	if err := m.primary.DeleteObject(ctx, objectID); err != nil {
		return err
	}
	if err := m.local.DeleteObject(ctx, objectID); err != nil {
		logger.Warn("mirror: local delete of %s failed: %v", objectID, err)
	}
	return nil
}

// Close closes both indexes.
func (m *Mirror) Close() error {
	return errors.Join(m.primary.Close(), m.local.Close())
}
