package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RECORD_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used for audit events.
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

// Mutation event types emitted by the workspace coordinator.
const (
	TypeRecordCreated = "RECORD_CREATED"
	TypeRecordUpdated = "RECORD_UPDATED"
	TypeRecordDeleted = "RECORD_DELETED"
)

// NewRecordEvent builds the audit event for one record mutation.
func NewRecordEvent(eventType, workspaceID, endpoint, recordID string) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"workspace_id": workspaceID,
			"endpoint":     endpoint,
			"record_id":    recordID,
		},
		OccurredAt: time.Now(),
	}
}
