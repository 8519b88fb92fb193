package services

import (
	"context"
	"errors"
	stdsync "sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/searchsync/internal/adapters/driven/search/memory"
	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
	"github.com/custodia-labs/searchsync/internal/core/ports/driving"
	"github.com/custodia-labs/searchsync/internal/normalisers"
)

// --- Mock implementations for sync testing ---

// syncMockSource implements driven.ContentSource for testing.
type syncMockSource struct {
	mu       stdsync.Mutex
	pages    map[int]*domain.ContentRecord
	items    map[int]*domain.ContentRecord
	sitemap  domain.SitemapIndex
	dynamic  map[int]string
	pageErr  error
	itemErr  error
	mapErr   error
	urlErr   error
	calls    atomic.Int32
	barrier  chan struct{} // when set, GetPage and GetSitemapFlat wait for each other
	arrivals atomic.Int32
}

func newSyncMockSource() *syncMockSource {
	return &syncMockSource{
		pages:   make(map[int]*domain.ContentRecord),
		items:   make(map[int]*domain.ContentRecord),
		sitemap: domain.SitemapIndex{},
		dynamic: make(map[int]string),
	}
}

func (m *syncMockSource) rendezvous(ctx context.Context) error {
	if m.barrier == nil {
		return nil
	}
	if m.arrivals.Add(1) == 2 {
		close(m.barrier)
	}
	select {
	case <-m.barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *syncMockSource) GetPage(ctx context.Context, pageID int) (*domain.ContentRecord, error) {
	m.calls.Add(1)
	if err := m.rendezvous(ctx); err != nil {
		return nil, err
	}
	if m.pageErr != nil {
		return nil, m.pageErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	page, ok := m.pages[pageID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return page, nil
}

func (m *syncMockSource) GetContentItem(_ context.Context, contentID int) (*domain.ContentRecord, error) {
	m.calls.Add(1)
	if m.itemErr != nil {
		return nil, m.itemErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[contentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (m *syncMockSource) GetSitemapFlat(ctx context.Context) (domain.SitemapIndex, error) {
	m.calls.Add(1)
	if err := m.rendezvous(ctx); err != nil {
		return nil, err
	}
	if m.mapErr != nil {
		return nil, m.mapErr
	}
	return m.sitemap, nil
}

func (m *syncMockSource) GetDynamicPageURL(_ context.Context, contentID int) (string, error) {
	m.calls.Add(1)
	if m.urlErr != nil {
		return "", m.urlErr
	}
	path, ok := m.dynamic[contentID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return path, nil
}

var _ driven.ContentSource = (*syncMockSource)(nil)

// syncFailingIndex implements driven.SearchIndex and fails every write.
type syncFailingIndex struct {
	err error
}

func (f *syncFailingIndex) SaveObject(_ context.Context, _ *domain.IndexDocument) error {
	return f.err
}

func (f *syncFailingIndex) DeleteObject(_ context.Context, _ string) error {
	return f.err
}

func (f *syncFailingIndex) Close() error { return nil }

func blogPost(id int) *domain.ContentRecord {
	return &domain.ContentRecord{
		ID:            id,
		ReferenceName: "blogposts",
		Fields: domain.Fields{
			{Name: "title", Value: domain.StringField("Reducing handle time")},
			{Name: "metaDescription", Value: domain.StringField("Five ways to cut AHT")},
			{Name: "content", Value: domain.StringField("<h2>Measure</h2><p>x</p><h2>Automate</h2>")},
		},
	}
}

func aboutPage() *domain.ContentRecord {
	return &domain.ContentRecord{
		ID:    7,
		Name:  "about",
		Title: "About us",
		SEO:   domain.SEO{MetaDescription: "Who we are"},
		Modules: []domain.ContentRecord{
			{DefinitionName: "Hero", Fields: domain.Fields{
				{Name: "heading", Value: domain.StringField(`{"text":"Our story","type":"h1"}`)},
			}},
		},
	}
}

func newTestOrchestrator(source driven.ContentSource, index driven.SearchIndex) *SyncOrchestrator {
	return NewSyncOrchestrator(source, index, normalisers.DefaultRegistry(""))
}

// --- Tests ---

func TestSyncOrchestrator_ContentUpsert(t *testing.T) {
	source := newSyncMockSource()
	source.items[101] = blogPost(101)
	source.dynamic[101] = "/blog/reducing-handle-time"
	index := memory.NewIndex()

	orch := newTestOrchestrator(source, index)
	result, err := orch.Apply(context.Background(), domain.NewContentEvent("blogposts", 101, domain.StatePublished))
	require.NoError(t, err)

	assert.Equal(t, driving.ActionUpserted, result.Action)
	assert.Equal(t, "101", result.ObjectID)

	doc, ok := index.Get("101")
	require.True(t, ok)
	assert.Equal(t, "Reducing handle time", doc.Title)
	assert.Equal(t, "Five ways to cut AHT", doc.Description)
	assert.Equal(t, []string{"Measure", "Automate"}, doc.Headings)
	assert.Equal(t, []string{"Blog"}, doc.Tags)
	assert.Equal(t, "/blog/reducing-handle-time", doc.PathOrEmpty())
}

func TestSyncOrchestrator_UpsertIsIdempotent(t *testing.T) {
	source := newSyncMockSource()
	source.items[101] = blogPost(101)
	index := memory.NewIndex()
	orch := newTestOrchestrator(source, index)
	event := domain.NewContentEvent("blogposts", 101, domain.StateUpdated)

	first, err := orch.Apply(context.Background(), event)
	require.NoError(t, err)
	second, err := orch.Apply(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, first.Document, second.Document)
	count, err := index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSyncOrchestrator_ContentPathMissingIsNil(t *testing.T) {
	source := newSyncMockSource()
	source.items[101] = blogPost(101)
	index := memory.NewIndex()

	orch := newTestOrchestrator(source, index)
	result, err := orch.Apply(context.Background(), domain.NewContentEvent("blogposts", 101, domain.StatePublished))
	require.NoError(t, err)
	assert.Nil(t, result.Document.Path)
}

func TestSyncOrchestrator_ContentPathErrorPropagates(t *testing.T) {
	source := newSyncMockSource()
	source.items[101] = blogPost(101)
	source.urlErr = errors.New("connection reset")
	index := memory.NewIndex()

	orch := newTestOrchestrator(source, index)
	_, err := orch.Apply(context.Background(), domain.NewContentEvent("blogposts", 101, domain.StatePublished))
	require.Error(t, err)

	saves, _ := index.Writes()
	assert.Equal(t, 0, saves)
}

func TestSyncOrchestrator_PageUpsert(t *testing.T) {
	source := newSyncMockSource()
	source.pages[7] = aboutPage()
	source.sitemap = domain.SitemapIndex{
		"/company/about": {PageID: 7, Name: "about", Path: "/company/about", Title: "About us"},
		"/pricing":       {PageID: 8, Name: "pricing", Path: "/pricing"},
	}
	index := memory.NewIndex()

	orch := newTestOrchestrator(source, index)
	result, err := orch.Apply(context.Background(), domain.NewPageEvent(7, domain.StatePublished))
	require.NoError(t, err)

	assert.Equal(t, "7p", result.ObjectID)
	doc, ok := index.Get("7p")
	require.True(t, ok)
	assert.Equal(t, "About us", doc.Title)
	assert.Equal(t, "Who we are", doc.Description)
	assert.Equal(t, []string{"Our story"}, doc.Headings)
	assert.Equal(t, []string{"UJET"}, doc.Tags)
	assert.Equal(t, "/company/about", doc.PathOrEmpty())
}

func TestSyncOrchestrator_PageAndSitemapFetchedConcurrently(t *testing.T) {
	source := newSyncMockSource()
	source.pages[7] = aboutPage()
	source.sitemap = domain.SitemapIndex{"/about": {PageID: 7, Name: "about", Path: "/about"}}
	// Each fetch blocks until the other has started; sequential fetching deadlocks.
	source.barrier = make(chan struct{})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	orch := newTestOrchestrator(source, memory.NewIndex())
	_, err := orch.Apply(ctx, domain.NewPageEvent(7, domain.StatePublished))
	require.NoError(t, err)
}

func TestSyncOrchestrator_PagePathMissWritesNothing(t *testing.T) {
	source := newSyncMockSource()
	source.pages[7] = aboutPage()
	source.sitemap = domain.SitemapIndex{"/pricing": {PageID: 8, Name: "pricing", Path: "/pricing"}}
	index := memory.NewIndex()

	orch := newTestOrchestrator(source, index)
	_, err := orch.Apply(context.Background(), domain.NewPageEvent(7, domain.StatePublished))
	assert.ErrorIs(t, err, domain.ErrPathNotFound)

	saves, deletes := index.Writes()
	assert.Equal(t, 0, saves)
	assert.Equal(t, 0, deletes)
}

func TestSyncOrchestrator_SitemapErrorWritesNothing(t *testing.T) {
	source := newSyncMockSource()
	source.pages[7] = aboutPage()
	source.mapErr = errors.New("upstream 500")
	index := memory.NewIndex()

	orch := newTestOrchestrator(source, index)
	_, err := orch.Apply(context.Background(), domain.NewPageEvent(7, domain.StatePublished))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get sitemap")

	saves, _ := index.Writes()
	assert.Equal(t, 0, saves)
}

func TestSyncOrchestrator_DeleteShortCircuits(t *testing.T) {
	tests := []struct {
		name     string
		event    domain.ChangeEvent
		objectID string
	}{
		{"deleted page", domain.NewPageEvent(7, domain.StateDeleted), "7p"},
		{"unpublished page", domain.NewPageEvent(7, domain.StateUnpublished), "7p"},
		{"deleted content", domain.NewContentEvent("ebooks", 55, domain.StateDeleted), "55"},
		{"unpublished content", domain.NewContentEvent("webinars", 56, domain.StateUnpublished), "56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newSyncMockSource()
			index := memory.NewIndex()
			require.NoError(t, index.SaveObject(context.Background(), &domain.IndexDocument{ObjectID: tt.objectID}))

			orch := newTestOrchestrator(source, index)
			result, err := orch.Apply(context.Background(), tt.event)
			require.NoError(t, err)

			assert.Equal(t, driving.ActionDeleted, result.Action)
			assert.Equal(t, tt.objectID, result.ObjectID)
			assert.Nil(t, result.Document)
			assert.Equal(t, int32(0), source.calls.Load(), "removals must not fetch")

			_, ok := index.Get(tt.objectID)
			assert.False(t, ok)
		})
	}
}

func TestSyncOrchestrator_DeleteDoesNotNeedContentSource(t *testing.T) {
	index := memory.NewIndex()
	orch := newTestOrchestrator(nil, index)

	_, err := orch.Apply(context.Background(), domain.NewPageEvent(9, domain.StateDeleted))
	assert.NoError(t, err)
}

func TestSyncOrchestrator_UnknownReferenceName(t *testing.T) {
	source := newSyncMockSource()
	index := memory.NewIndex()
	orch := newTestOrchestrator(source, index)

	event := domain.NewContentEvent("careers", 3, domain.StatePublished)
	assert.ErrorIs(t, orch.Route(event), domain.ErrUnroutable)

	_, err := orch.Apply(context.Background(), event)
	assert.ErrorIs(t, err, domain.ErrUnroutable)

	assert.Equal(t, int32(0), source.calls.Load())
	saves, deletes := index.Writes()
	assert.Zero(t, saves+deletes)
}

func TestSyncOrchestrator_InvalidEvent(t *testing.T) {
	orch := newTestOrchestrator(newSyncMockSource(), memory.NewIndex())

	_, err := orch.Apply(context.Background(), domain.ChangeEvent{SubjectKind: domain.SubjectPage, State: domain.StatePublished})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSyncOrchestrator_MissingCollaborators(t *testing.T) {
	event := domain.NewContentEvent("blogposts", 1, domain.StatePublished)

	_, err := newTestOrchestrator(newSyncMockSource(), nil).Apply(context.Background(), event)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)

	_, err = newTestOrchestrator(nil, memory.NewIndex()).Apply(context.Background(), event)
	assert.ErrorIs(t, err, domain.ErrContentSourceUnavailable)
}

func TestSyncOrchestrator_FetchErrorWrapped(t *testing.T) {
	source := newSyncMockSource()
	orch := newTestOrchestrator(source, memory.NewIndex())

	_, err := orch.Apply(context.Background(), domain.NewContentEvent("blogposts", 404, domain.StatePublished))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncOrchestrator_IndexErrorWrapped(t *testing.T) {
	source := newSyncMockSource()
	source.items[101] = blogPost(101)
	indexErr := errors.New("algolia down")

	orch := newTestOrchestrator(source, &syncFailingIndex{err: indexErr})
	_, err := orch.Apply(context.Background(), domain.NewContentEvent("blogposts", 101, domain.StatePublished))
	assert.ErrorIs(t, err, indexErr)
}
