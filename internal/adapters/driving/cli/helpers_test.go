package cli

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"

	searchmemory "github.com/custodia-labs/searchsync/internal/adapters/driven/search/memory"
	"github.com/custodia-labs/searchsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/services"
	"github.com/custodia-labs/searchsync/internal/normalisers"
)

// fakeSource serves one page and one blog post.
type fakeSource struct {
	calls atomic.Int32
}

func (s *fakeSource) GetPage(_ context.Context, pageID int) (*domain.ContentRecord, error) {
	s.calls.Add(1)
	if pageID != 7 {
		return nil, domain.ErrNotFound
	}
	return &domain.ContentRecord{
		ID:    7,
		Name:  "about",
		Title: "About us",
		SEO:   domain.SEO{MetaDescription: "Who we are"},
	}, nil
}

func (s *fakeSource) GetContentItem(_ context.Context, contentID int) (*domain.ContentRecord, error) {
	s.calls.Add(1)
	if contentID != 42 {
		return nil, domain.ErrNotFound
	}
	return &domain.ContentRecord{
		ID:            42,
		ReferenceName: "blogposts",
		Fields: domain.Fields{
			{Name: "title", Value: domain.StringField("Scaling support")},
			{Name: "metaDescription", Value: domain.StringField("How teams scale")},
			{Name: "content", Value: domain.StringField("<h2>Staffing</h2><p>body</p>")},
		},
	}, nil
}

func (s *fakeSource) GetSitemapFlat(context.Context) (domain.SitemapIndex, error) {
	s.calls.Add(1)
	return domain.SitemapIndex{
		"/company/about": {PageID: 7, Name: "about", Path: "/company/about", Title: "About us"},
	}, nil
}

func (s *fakeSource) GetDynamicPageURL(context.Context, int) (string, error) {
	s.calls.Add(1)
	return "/blog/scaling-support", nil
}

// testApp is an in-memory app wired like buildApp.
type testApp struct {
	*App
	source *fakeSource
	index  *searchmemory.Index
	tasks  *memory.TaskStore
}

// setupTestApp replaces the app factory with an in-memory app.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	settings := domain.DefaultSettings()
	settings.Index.Backend = domain.IndexBackendMemory

	source := &fakeSource{}
	index := searchmemory.NewIndex()
	tasks := memory.NewTaskStore()
	syncer := services.NewSyncOrchestrator(source, index, normalisers.DefaultRegistry(settings.Index.PageTag))
	queue := services.NewTaskQueue(tasks, syncer, settings.Queue)

	app := &App{
		Settings:       services.NewSettingsService(memory.NewConfigStore()),
		Config:         &settings,
		TaskStore:      tasks,
		SchedulerStore: memory.NewSchedulerStore(),
		Index:          index,
		Local:          index,
		Sync:           syncer,
		Queue:          queue,
		Search:         services.NewSearchService(index),
	}

	original := newApp
	newApp = func(appOptions) (*App, error) { return app, nil }
	t.Cleanup(func() { newApp = original })

	return &testApp{App: app, source: source, index: index, tasks: tasks}
}

// executeCommand runs the root command with args and returns its output.
// Flag globals are reset afterwards so tests stay independent.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func resetFlags() {
	verbose = false
	configDir = ""
	syncDelete = false
	syncDryRun = false
	queueStatus = ""
	queueLimit = 50
	queueJSON = false
	searchLimit = 10
	searchJSON = false
	serveAddr = ""
	serveMCPAddr = ""
	serveDryRun = false
	versionShort = false
	scheduleHistory = 3
	scheduleJSON = false
	mcpHTTPAddr = ""
}
