package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
	"github.com/custodia-labs/searchsync/internal/core/ports/driving"
	"github.com/custodia-labs/searchsync/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncService = (*SyncOrchestrator)(nil)

// SyncOrchestrator applies change events to the search index.
// Each Apply is independent and holds no state between calls.
type SyncOrchestrator struct {
	source   driven.ContentSource
	index    driven.SearchIndex
	router   *EventRouter
	resolver *PathResolver
}

// NewSyncOrchestrator creates a new sync orchestrator.
func NewSyncOrchestrator(
	source driven.ContentSource,
	index driven.SearchIndex,
	registry driven.NormaliserRegistry,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		source:   source,
		index:    index,
		router:   NewEventRouter(registry),
		resolver: NewPathResolver(source),
	}
}

// Route checks that the event is well formed and indexed.
func (o *SyncOrchestrator) Route(event domain.ChangeEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	_, err := o.router.Route(event)
	return err
}

// Apply runs the pipeline for one event:
//
//  1. route the event to its normaliser
//  2. removals delete by object ID without touching the content source
//  3. fetch the record (pages also fetch the sitemap, concurrently)
//  4. resolve the public path
//  5. normalise and save
func (o *SyncOrchestrator) Apply(ctx context.Context, event domain.ChangeEvent) (*driving.SyncResult, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	// 1. ROUTE
	normaliser, err := o.router.Route(event)
	if err != nil {
		return nil, err
	}

	if o.index == nil {
		return nil, domain.ErrIndexUnavailable
	}

	// 2. DELETE SHORT-CIRCUIT
	if event.IsRemoval() {
		objectID := event.ObjectID()
		logger.Debug("Deleting %s as %s", event, objectID)
		if err := o.index.DeleteObject(ctx, objectID); err != nil {
			return nil, fmt.Errorf("delete object %s: %w", objectID, err)
		}
		return &driving.SyncResult{ObjectID: objectID, Action: driving.ActionDeleted}, nil
	}

	if o.source == nil {
		return nil, domain.ErrContentSourceUnavailable
	}

	// 3-4. FETCH AND RESOLVE
	var (
		record *domain.ContentRecord
		path   *string
	)
	switch event.SubjectKind {
	case domain.SubjectPage:
		record, path, err = o.fetchPage(ctx, event.SubjectID)
	default:
		record, path, err = o.fetchContentItem(ctx, event.SubjectID)
	}
	if err != nil {
		return nil, err
	}

	// 5. NORMALISE AND SAVE
	doc, err := normaliser.Normalise(record, path)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", normaliser.Kind(), err)
	}
	if err := o.index.SaveObject(ctx, doc); err != nil {
		return nil, fmt.Errorf("save object %s: %w", doc.ObjectID, err)
	}

	logger.Debug("Indexed %s as %s (%d headings, path %q)", event, doc.ObjectID, len(doc.Headings), doc.PathOrEmpty())
	return &driving.SyncResult{ObjectID: doc.ObjectID, Action: driving.ActionUpserted, Document: doc}, nil
}

// fetchPage fetches the page and the flattened sitemap in parallel and
// resolves the page's path once both have arrived.
func (o *SyncOrchestrator) fetchPage(ctx context.Context, pageID int) (*domain.ContentRecord, *string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg         sync.WaitGroup
		page       *domain.ContentRecord
		sitemap    domain.SitemapIndex
		pageErr    error
		sitemapErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		page, pageErr = o.source.GetPage(ctx, pageID)
		if pageErr != nil {
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		sitemap, sitemapErr = o.source.GetSitemapFlat(ctx)
		if sitemapErr != nil {
			cancel()
		}
	}()
	wg.Wait()

	if pageErr != nil {
		return nil, nil, fmt.Errorf("get page %d: %w", pageID, pageErr)
	}
	if sitemapErr != nil {
		return nil, nil, fmt.Errorf("get sitemap: %w", sitemapErr)
	}

	path, err := o.resolver.PagePath(sitemap, page)
	if err != nil {
		return nil, nil, err
	}
	return page, &path, nil
}

// fetchContentItem fetches a content item and its dynamic page path.
func (o *SyncOrchestrator) fetchContentItem(ctx context.Context, contentID int) (*domain.ContentRecord, *string, error) {
	record, err := o.source.GetContentItem(ctx, contentID)
	if err != nil {
		return nil, nil, fmt.Errorf("get content item %d: %w", contentID, err)
	}
	path, err := o.resolver.ContentPath(ctx, contentID)
	if err != nil {
		return nil, nil, err
	}
	return record, path, nil
}
