package events

import (
	"context"
	"time"
)

const (
	ProviderRegistered            = "PROVIDER_REGISTERED"
	ProviderRegistrationCompleted = "PROVIDER_REGISTRATION_COMPLETED"
	ProviderStatusChanged         = "PROVIDER_STATUS_CHANGED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "PROVIDER_REGISTERED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher is implemented by every event sink (in-process bus, NATS).
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
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

// Envelope is the wire form of an event.
type Envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurredAt"`
}

func ToEnvelope(e Event) Envelope {
	return Envelope{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()}
}

func (e Envelope) Event() BaseEvent {
	return BaseEvent{Type: e.Type, Data: e.Data, OccurredAt: e.OccurredAt}
}
