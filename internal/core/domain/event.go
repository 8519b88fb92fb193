package domain

import (
	"fmt"
	"strconv"
)

// SubjectKind identifies what a change event is about.
type SubjectKind int

const (
	// SubjectPage is a sitemap page.
	SubjectPage SubjectKind = iota

	// SubjectContentItem is a content item such as a blog post or ebook.
	SubjectContentItem
)

// String returns the string representation.
func (k SubjectKind) String() string {
	switch k {
	case SubjectPage:
		return "page"
	case SubjectContentItem:
		return "content"
	default:
		return "unknown"
	}
}

// ContentState is the lifecycle state reported by the CMS.
type ContentState string

// Known content states.
const (
	StatePublished   ContentState = "Published"
	StateUpdated     ContentState = "Updated"
	StateDeleted     ContentState = "Deleted"
	StateUnpublished ContentState = "Unpublished"
)

// IsValid returns true if the state is recognised.
func (s ContentState) IsValid() bool {
	switch s {
	case StatePublished, StateUpdated, StateDeleted, StateUnpublished:
		return true
	default:
		return false
	}
}

// IsRemoval returns true when the subject must leave the index.
func (s ContentState) IsRemoval() bool {
	return s == StateDeleted || s == StateUnpublished
}

// PageObjectSuffix is appended to page IDs so they never collide with
// content IDs, which share the same numeric space.
const PageObjectSuffix = "p"

// ChangeEvent is a single content-change notification from the CMS.
// Exactly one of a page ID or a (content ID, reference name) pair
// identifies the subject.
type ChangeEvent struct {
	// SubjectKind says whether SubjectID is a page or a content item.
	SubjectKind SubjectKind `json:"subjectKind"`

	// SubjectID is the page ID or content ID.
	SubjectID int `json:"subjectId"`

	// TypeHint is the content reference name. Empty for page events.
	TypeHint string `json:"typeHint,omitempty"`

	// State is the lifecycle state of the subject.
	State ContentState `json:"state"`
}

// NewPageEvent creates a change event for a page.
func NewPageEvent(pageID int, state ContentState) ChangeEvent {
	return ChangeEvent{SubjectKind: SubjectPage, SubjectID: pageID, State: state}
}

// NewContentEvent creates a change event for a content item.
func NewContentEvent(referenceName string, contentID int, state ContentState) ChangeEvent {
	return ChangeEvent{
		SubjectKind: SubjectContentItem,
		SubjectID:   contentID,
		TypeHint:    referenceName,
		State:       state,
	}
}

// ObjectID returns the index key for the event's subject.
func (e ChangeEvent) ObjectID() string {
	return ObjectIDFor(e.SubjectKind, e.SubjectID)
}

// ObjectIDFor builds the index key for a subject.
func ObjectIDFor(kind SubjectKind, id int) string {
	if kind == SubjectPage {
		return strconv.Itoa(id) + PageObjectSuffix
	}
	return strconv.Itoa(id)
}

// IsRemoval reports whether the event removes its subject from the index.
func (e ChangeEvent) IsRemoval() bool {
	return e.State.IsRemoval()
}

// Validate checks the event is well formed.
func (e ChangeEvent) Validate() error {
	if e.SubjectID <= 0 {
		return fmt.Errorf("%w: subject id must be positive", ErrInvalidInput)
	}
	if !e.State.IsValid() {
		return fmt.Errorf("%w: unknown state %q", ErrInvalidInput, e.State)
	}
	switch e.SubjectKind {
	case SubjectPage:
		if e.TypeHint != "" {
			return fmt.Errorf("%w: page events carry no reference name", ErrInvalidInput)
		}
	case SubjectContentItem:
		if e.TypeHint == "" {
			return fmt.Errorf("%w: content events need a reference name", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown subject kind", ErrInvalidInput)
	}
	return nil
}

// String returns a short description used in logs.
func (e ChangeEvent) String() string {
	if e.SubjectKind == SubjectPage {
		return fmt.Sprintf("page %d (%s)", e.SubjectID, e.State)
	}
	return fmt.Sprintf("%s %d (%s)", e.TypeHint, e.SubjectID, e.State)
}
