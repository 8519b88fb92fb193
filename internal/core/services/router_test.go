package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/normalisers"
)

func TestEventRouter_Route(t *testing.T) {
	router := NewEventRouter(normalisers.DefaultRegistry(""))

	tests := []struct {
		name     string
		event    domain.ChangeEvent
		wantKind string
		wantTag  string
	}{
		{"page", domain.NewPageEvent(1, domain.StatePublished), "page", "UJET"},
		{"blog post", domain.NewContentEvent("blogposts", 1, domain.StatePublished), "blogpost", "Blog"},
		{"press release", domain.NewContentEvent("pressreleasearticle", 1, domain.StatePublished), "pressrelease", "Newsroom"},
		{"ebook", domain.NewContentEvent("ebooks", 1, domain.StatePublished), "resource", "Resources"},
		{"webinar", domain.NewContentEvent("webinars", 1, domain.StateDeleted), "resource", "Resources"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := router.Route(tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, n.Kind())
			assert.Equal(t, tt.wantTag, n.Tag())
		})
	}
}

func TestEventRouter_UnknownReferenceName(t *testing.T) {
	router := NewEventRouter(normalisers.DefaultRegistry(""))

	_, err := router.Route(domain.NewContentEvent("jobpostings", 1, domain.StatePublished))
	assert.ErrorIs(t, err, domain.ErrUnroutable)
	assert.Contains(t, err.Error(), "jobpostings")
}

func TestEventRouter_ReferenceNameIsCaseSensitive(t *testing.T) {
	router := NewEventRouter(normalisers.DefaultRegistry(""))

	_, err := router.Route(domain.NewContentEvent("BlogPosts", 1, domain.StatePublished))
	assert.ErrorIs(t, err, domain.ErrUnroutable)
}

func TestEventRouter_UnknownSubjectKind(t *testing.T) {
	router := NewEventRouter(normalisers.DefaultRegistry(""))

	_, err := router.Route(domain.ChangeEvent{SubjectKind: domain.SubjectKind(9), SubjectID: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
