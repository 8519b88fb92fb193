package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for searchsync resources.
	uriScheme = "searchsync://"

	// taskListLimit caps task listings.
	taskListLimit = 100
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Document count of the local index and sync queue counts",
		MIMEType:    "application/json",
	}, s.handleStatusResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "tasks/{status}",
		Name:        "sync-tasks",
		Description: "Sync tasks with a given status (pending, running, done, dead)",
		MIMEType:    "application/json",
	}, s.handleTasksResource)
}

// statusInfo is the body of the status resource.
type statusInfo struct {
	Documents int                `json:"documents"`
	Queue     *domain.QueueStats `json:"queue,omitempty"`
}

// handleStatusResource reports index and queue counts.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	count, err := s.ports.Search.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	info := statusInfo{Documents: count}
	if s.ports.Queue != nil {
		stats, err := s.ports.Queue.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading queue stats: %w", err)
		}
		info.Queue = &stats
	}

	return jsonResource(req.Params.URI, info)
}

// handleTasksResource lists tasks with the status named in the URI.
func (s *Server) handleTasksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Queue == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	status := extractTaskStatus(req.Params.URI)
	if !status.IsValid() {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	tasks, err := s.ports.Queue.List(ctx, status, taskListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	type taskInfo struct {
		ID        string `json:"id"`
		Event     string `json:"event"`
		ObjectID  string `json:"object_id"`
		Attempts  int    `json:"attempts"`
		LastError string `json:"last_error,omitempty"`
		UpdatedAt string `json:"updated_at"`
	}

	infos := make([]taskInfo, len(tasks))
	for i := range tasks {
		infos[i] = taskInfo{
			ID:        tasks[i].ID,
			Event:     tasks[i].Event.String(),
			ObjectID:  tasks[i].Event.ObjectID(),
			Attempts:  tasks[i].Attempts,
			LastError: tasks[i].LastError,
			UpdatedAt: tasks[i].UpdatedAt.Format(time.RFC3339),
		}
	}

	return jsonResource(req.Params.URI, infos)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTaskStatus extracts the status from a URI like searchsync://tasks/{status}.
func extractTaskStatus(uri string) domain.TaskStatus {
	const prefix = uriScheme + "tasks/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return domain.TaskStatus(strings.TrimPrefix(uri, prefix))
}
