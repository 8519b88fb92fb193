// Package mcp serves the local index mirror and the sync queue over the
// Model Context Protocol, so assistants can search content and request
// re-indexing of a page or content item.
package mcp

import (
	"errors"

	"github.com/custodia-labs/searchsync/internal/core/ports/driving"
)

var (
	// ErrMissingSearchService means the server was built without a search service.
	ErrMissingSearchService = errors.New("mcp: search service is required")

	// ErrMissingQueue is returned by resync when no task queue is wired.
	ErrMissingQueue = errors.New("mcp: resync needs the task queue")
)

// Ports are the core services behind the MCP tools and resources.
// Search is required. Without Queue the server is read-only.
type Ports struct {
	Search driving.SearchService
	Queue  driving.TaskQueue
}

// Validate checks that the required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
