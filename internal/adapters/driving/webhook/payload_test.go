package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

func TestPayloadValidator_Decode(t *testing.T) {
	v, err := NewPayloadValidator()
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
		want domain.ChangeEvent
	}{
		{
			name: "page event",
			body: `{"pageID": 12, "state": "Published"}`,
			want: domain.NewPageEvent(12, domain.StatePublished),
		},
		{
			name: "page id as string",
			body: `{"pageID": "12", "state": "Deleted"}`,
			want: domain.NewPageEvent(12, domain.StateDeleted),
		},
		{
			name: "content event",
			body: `{"referenceName": "blogposts", "contentID": 42, "state": "Updated"}`,
			want: domain.NewContentEvent("blogposts", 42, domain.StateUpdated),
		},
		{
			name: "content id as string with extra fields",
			body: `{"referenceName": "ebooks", "contentID": "7", "state": "Unpublished", "languageCode": "en-us"}`,
			want: domain.NewContentEvent("ebooks", 7, domain.StateUnpublished),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Decode([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPayloadValidator_DecodeRejects(t *testing.T) {
	v, err := NewPayloadValidator()
	require.NoError(t, err)

	tests := map[string]string{
		"not json":              `state=Published`,
		"empty object":          `{}`,
		"array":                 `[1, 2]`,
		"missing state":         `{"pageID": 1}`,
		"unknown state":         `{"pageID": 1, "state": "Archived"}`,
		"zero page id":          `{"pageID": 0, "state": "Published"}`,
		"non numeric id":        `{"pageID": "abc", "state": "Published"}`,
		"content without name":  `{"contentID": 5, "state": "Published"}`,
		"name without content":  `{"referenceName": "blogposts", "state": "Published"}`,
		"both subjects":         `{"pageID": 1, "referenceName": "blogposts", "contentID": 5, "state": "Published"}`,
		"empty reference name":  `{"referenceName": "", "contentID": 5, "state": "Published"}`,
		"fractional content id": `{"referenceName": "blogposts", "contentID": 1.5, "state": "Published"}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Decode([]byte(body))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestFlexibleID_UnmarshalJSON(t *testing.T) {
	var id flexibleID
	require.NoError(t, id.UnmarshalJSON([]byte(`"15"`)))
	assert.Equal(t, flexibleID(15), id)

	require.NoError(t, id.UnmarshalJSON([]byte(`null`)))
	assert.Equal(t, flexibleID(0), id)

	assert.Error(t, id.UnmarshalJSON([]byte(`"x1"`)))
}
