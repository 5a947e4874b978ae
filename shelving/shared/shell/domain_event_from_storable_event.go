package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	payload := storableEvent.PayloadJSON

	switch storableEvent.EventType {
	case core.AuthorRegisteredEventType:
		return unmarshal[core.AuthorRegistered](payload)
	case core.BookAddedToCatalogEventType:
		return unmarshal[core.BookAddedToCatalog](payload)
	case core.BookRemovedFromCatalogEventType:
		return unmarshal[core.BookRemovedFromCatalog](payload)
	case core.RemovingBookFromCatalogFailedEventType:
		return unmarshal[core.RemovingBookFromCatalogFailed](payload)

	case core.ShelfAddedEventType:
		return unmarshal[core.ShelfAdded](payload)
	case core.ShelfRemovedEventType:
		return unmarshal[core.ShelfRemoved](payload)
	case core.AddingShelfFailedEventType:
		return unmarshal[core.AddingShelfFailed](payload)

	case core.BookPlacedOnShelfEventType:
		return unmarshal[core.BookPlacedOnShelf](payload)
	case core.BookTakenOffShelfEventType:
		return unmarshal[core.BookTakenOffShelf](payload)
	case core.PlacingBookOnShelfFailedEventType:
		return unmarshal[core.PlacingBookOnShelfFailed](payload)

	case core.BookcaseCreatedEventType:
		return unmarshal[core.BookcaseCreated](payload)
	case core.CreatingBookcaseFailedEventType:
		return unmarshal[core.CreatingBookcaseFailed](payload)
	case core.BookcaseDeletionStartedEventType:
		return unmarshal[core.BookcaseDeletionStarted](payload)
	case core.BookcaseDeletedEventType:
		return unmarshal[core.BookcaseDeleted](payload)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshal[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
