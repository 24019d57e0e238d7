package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/selshape/internal/event/topic"
)

// Event represents an event in the system.
type Event[T any] struct {
	// Type is the hierarchical event type (e.g., "cursor.selection.changed").
	Type topic.Topic

	// Payload contains the event-specific data.
	Payload T

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// NewEvent creates a new event with the given type and payload.
func NewEvent[T any](eventType topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: timeNow(),
			Source:    source,
		},
	}
}

// EventTopic returns the event's topic for type-erased handling.
func (e Event[T]) EventTopic() topic.Topic {
	return e.Type
}

// TopicProvider is implemented by events the bus can route.
type TopicProvider interface {
	EventTopic() topic.Topic
}

// timeNow is a variable to allow testing with fixed timestamps.
var timeNow = time.Now
