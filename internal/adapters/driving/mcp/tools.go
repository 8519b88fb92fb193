package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find documents"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ObjectID    string   `json:"object_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Path        string   `json:"path,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Score       float64  `json:"score"`
}

// ResyncInput is the input schema for the resync tool.
type ResyncInput struct {
	PageID        int    `json:"page_id,omitempty" jsonschema:"page ID to resync; set this or content_id"`
	ContentID     int    `json:"content_id,omitempty" jsonschema:"content item ID to resync"`
	ReferenceName string `json:"reference_name,omitempty" jsonschema:"content reference name, e.g. blogposts; required with content_id"`
	Delete        bool   `json:"delete,omitempty" jsonschema:"remove the document from the index instead of refreshing it"`
}

// ResyncOutput is the output schema for the resync tool.
type ResyncOutput struct {
	TaskID   string `json:"task_id"`
	ObjectID string `json:"object_id"`
	Status   string `json:"status"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the local mirror of the site search index",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resync",
		Description: "Queue a page or content item to be re-fetched and re-indexed",
	}, s.handleResync)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	hits, err := s.ports.Search.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(hits)),
		Count:   len(hits),
	}

	for i := range hits {
		result := SearchResultOutput{ObjectID: hits[i].ObjectID, Score: hits[i].Score}
		if doc := hits[i].Document; doc != nil {
			result.Title = doc.Title
			result.Description = doc.Description
			result.Path = doc.PathOrEmpty()
			result.Tags = doc.Tags
		}
		output.Results[i] = result
	}

	return nil, output, nil
}

// handleResync handles the resync tool invocation.
func (s *Server) handleResync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResyncInput,
) (*mcp.CallToolResult, ResyncOutput, error) {
	if s.ports.Queue == nil {
		return nil, ResyncOutput{}, ErrMissingQueue
	}

	state := domain.StatePublished
	if input.Delete {
		state = domain.StateDeleted
	}

	var event domain.ChangeEvent
	switch {
	case input.PageID > 0 && input.ContentID == 0:
		event = domain.NewPageEvent(input.PageID, state)
	case input.ContentID > 0 && input.PageID == 0:
		event = domain.NewContentEvent(input.ReferenceName, input.ContentID, state)
	default:
		return nil, ResyncOutput{}, fmt.Errorf("%w: set exactly one of page_id or content_id", domain.ErrInvalidInput)
	}

	task, err := s.ports.Queue.Enqueue(ctx, event)
	if err != nil {
		return nil, ResyncOutput{}, fmt.Errorf("queue %s: %w", event, err)
	}

	return nil, ResyncOutput{
		TaskID:   task.ID,
		ObjectID: event.ObjectID(),
		Status:   string(task.Status),
	}, nil
}
