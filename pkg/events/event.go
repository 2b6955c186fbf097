package events

import (
	"context"
	"time"
)

const (
	UserLogin           = "USER_LOGIN"
	AssessmentCompleted = "ASSESSMENT_COMPLETED"
	BookingCreated      = "BOOKING_CREATED"
	BookingCancelled    = "BOOKING_CANCELLED"
	GroupMessageFlagged = "GROUP_MESSAGE_FLAGGED"
	InsightGenerated    = "INSIGHT_GENERATED"
	SystemBroadcast     = "SYSTEM_BROADCAST"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

// Publisher is implemented by the NATS publisher. Services hold this
// interface so a missing broker can be passed as nil.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
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
