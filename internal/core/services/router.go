package services

import (
	"fmt"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
)

// EventRouter classifies change events and picks their normaliser.
// It has no side effects beyond the lookup.
type EventRouter struct {
	registry driven.NormaliserRegistry
}

// NewEventRouter creates a router over the given registry.
func NewEventRouter(registry driven.NormaliserRegistry) *EventRouter {
	return &EventRouter{registry: registry}
}

// Route returns the normaliser for an event.
// Page events always route to the page normaliser. Content events whose
// reference name is not in the registry return domain.ErrUnroutable.
func (r *EventRouter) Route(event domain.ChangeEvent) (driven.Normaliser, error) {
	switch event.SubjectKind {
	case domain.SubjectPage:
		return r.registry.ForPage(), nil
	case domain.SubjectContentItem:
		n, ok := r.registry.ForReferenceName(event.TypeHint)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnroutable, event.TypeHint)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: unknown subject kind %d", domain.ErrInvalidInput, event.SubjectKind)
	}
}
