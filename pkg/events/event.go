package events

import "time"

const (
	TypeIndexBuilt             = "INDEX_BUILT"
	TypeIndexInvalidated       = "INDEX_INVALIDATED"
	TypeConversationDeployed   = "CONVERSATION_DEPLOYED"
	TypeConversationSummarized = "CONVERSATION_SUMMARIZED"
	TypeFeedbackGenerated      = "FEEDBACK_GENERATED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "INDEX_BUILT").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Subject is the bus subject an event of this type is published on.
func Subject(eventType string) string {
	return "events." + eventType
}
