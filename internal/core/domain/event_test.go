package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectKind_String(t *testing.T) {
	assert.Equal(t, "page", SubjectPage.String())
	assert.Equal(t, "content", SubjectContentItem.String())
	assert.Equal(t, "unknown", SubjectKind(9).String())
}

func TestContentState(t *testing.T) {
	tests := []struct {
		state   ContentState
		valid   bool
		removal bool
	}{
		{StatePublished, true, false},
		{StateUpdated, true, false},
		{StateDeleted, true, true},
		{StateUnpublished, true, true},
		{ContentState("published"), false, false},
		{ContentState(""), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.state.IsValid())
			assert.Equal(t, tt.removal, tt.state.IsRemoval())
		})
	}
}

func TestChangeEvent_ObjectID(t *testing.T) {
	page := NewPageEvent(42, StatePublished)
	content := NewContentEvent("blogposts", 42, StatePublished)

	assert.Equal(t, "42p", page.ObjectID())
	assert.Equal(t, "42", content.ObjectID())
	assert.NotEqual(t, page.ObjectID(), content.ObjectID())
}

func TestChangeEvent_IsRemoval(t *testing.T) {
	assert.False(t, NewPageEvent(1, StateUpdated).IsRemoval())
	assert.True(t, NewPageEvent(1, StateUnpublished).IsRemoval())
	assert.True(t, NewContentEvent("ebooks", 1, StateDeleted).IsRemoval())
}

func TestChangeEvent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		event   ChangeEvent
		wantErr bool
	}{
		{"page", NewPageEvent(7, StatePublished), false},
		{"content", NewContentEvent("blogposts", 7, StateDeleted), false},
		{"zero id", NewPageEvent(0, StatePublished), true},
		{"negative id", NewContentEvent("blogposts", -3, StatePublished), true},
		{"unknown state", NewPageEvent(7, ContentState("Archived")), true},
		{"content without reference name", NewContentEvent("", 7, StatePublished), true},
		{
			"page with reference name",
			ChangeEvent{SubjectKind: SubjectPage, SubjectID: 7, TypeHint: "blogposts", State: StatePublished},
			true,
		},
		{
			"unknown kind",
			ChangeEvent{SubjectKind: SubjectKind(5), SubjectID: 7, State: StatePublished},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChangeEvent_String(t *testing.T) {
	assert.Equal(t, "page 7 (Published)", NewPageEvent(7, StatePublished).String())
	assert.Equal(t, "blogposts 12 (Deleted)", NewContentEvent("blogposts", 12, StateDeleted).String())
}
