// Package memengine provides an in-memory engine for dynamic event streams.
//
// It has the same filter and conditional append semantics as the SQL engines and
// is meant for tests, demos and the "memory" storage setting of the CLI.
// Nothing survives the process.
package memengine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore/internal/observe"
)

const engineName = "memory"

type storedEvent struct {
	sequenceNumber eventstore.MaxSequenceNumberUint
	event          eventstore.StorableEvent
	payload        map[string]any
}

// EventStore is a mutex-guarded append-only log. The zero value is not usable, use NewEventStore.
type EventStore struct {
	mu       *sync.RWMutex
	log      *[]storedEvent
	observer observe.Instrumentation
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.observer.Logger = logger
		return nil
	}
}

func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.observer.ContextualLogger = logger
		return nil
	}
}

func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.observer.Metrics = collector
		return nil
	}
}

func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.observer.Tracing = collector
		return nil
	}
}

// NewEventStore creates an empty in-memory EventStore.
func NewEventStore(options ...Option) (EventStore, error) {
	log := make([]storedEvent, 0)
	es := EventStore{
		mu:       &sync.RWMutex{},
		log:      &log,
		observer: observe.Instrumentation{Engine: engineName},
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventStore{}, err
		}
	}

	return es, nil
}

// Query returns the events matching filter in sequence order and the stream's max sequence number.
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	_, op := es.observer.Start(ctx, observe.OperationQuery, nil)

	if err := ctx.Err(); err != nil {
		op.Failed("query canceled", observe.ErrorTypeExecQuery, err)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	events := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range *es.log {
		if matches(filter, stored) {
			events = append(events, stored.event)
			maxSequenceNumber = stored.sequenceNumber
		}
	}

	op.QuerySucceeded(len(events), maxSequenceNumber)

	return events, maxSequenceNumber, nil
}

// Append appends the events atomically if the stream selected by filter still has expectedMaxSequenceNumber.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	storableEvents ...eventstore.StorableEvent,
) error {

	_, op := es.observer.Start(ctx, observe.OperationAppend, map[string]string{
		"event_count": fmt.Sprintf("%d", len(storableEvents)),
	})

	if len(storableEvents) == 0 {
		op.Failed("append called without events", observe.ErrorTypeNoEvents, eventstore.ErrEmptyEventsList)
		return eventstore.ErrEmptyEventsList
	}

	if err := ctx.Err(); err != nil {
		op.Failed("append canceled", observe.ErrorTypeExecQuery, err)
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	decoded := make([]map[string]any, len(storableEvents))
	for i, event := range storableEvents {
		payload := make(map[string]any)
		if err := jsoniter.ConfigFastest.Unmarshal(event.PayloadJSON, &payload); err != nil {
			op.Failed("payload is not a json object", observe.ErrorTypeBuildEvent, err)
			return errors.Join(eventstore.ErrAppendingEventFailed, err)
		}

		decoded[i] = payload
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	current := eventstore.MaxSequenceNumberUint(0)
	for _, stored := range *es.log {
		if matches(filter, stored) {
			current = stored.sequenceNumber
		}
	}

	if current != expectedMaxSequenceNumber {
		op.Conflicted(expectedMaxSequenceNumber, 0)
		return eventstore.ErrConcurrencyConflict
	}

	next := eventstore.MaxSequenceNumberUint(len(*es.log))
	for i, event := range storableEvents {
		next++
		*es.log = append(*es.log, storedEvent{
			sequenceNumber: next,
			event: eventstore.StorableEvent{
				EventType:    event.EventType,
				OccurredAt:   event.OccurredAt,
				PayloadJSON:  slices.Clone(event.PayloadJSON),
				MetadataJSON: slices.Clone(event.MetadataJSON),
			},
			payload: decoded[i],
		})
	}

	op.AppendSucceeded(len(storableEvents))

	return nil
}

// Len returns the number of events in the log.
func (es EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(*es.log)
}

func matches(filter eventstore.Filter, stored storedEvent) bool {
	if filter.IsEmpty() {
		return true
	}

	for _, item := range filter.Items() {
		if item.IsEmpty() || matchesItem(item, stored) {
			return true
		}
	}

	return false
}

func matchesItem(item eventstore.FilterItem, stored storedEvent) bool {
	if len(item.EventTypes()) > 0 && !slices.Contains(item.EventTypes(), stored.event.EventType) {
		return false
	}

	if len(item.Predicates()) == 0 {
		return true
	}

	for _, predicate := range item.Predicates() {
		value, ok := stored.payload[predicate.Key()].(string)
		hit := ok && value == predicate.Val()

		if hit && !item.AllPredicatesMustMatch() {
			return true
		}

		if !hit && item.AllPredicatesMustMatch() {
			return false
		}
	}

	return item.AllPredicatesMustMatch()
}
