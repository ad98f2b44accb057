package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that occurred in the domain
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	AggID     uuid.UUID `json:"aggregate_id"`
	AggType   string    `json:"aggregate_type"`
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e *BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the ID of the aggregate that produced this event
func (e *BaseDomainEvent) AggregateID() uuid.UUID {
	return e.AggID
}

// AggregateType returns the type of the aggregate
func (e *BaseDomainEvent) AggregateType() string {
	return e.AggType
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType, aggType string, aggID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		AggID:     aggID,
		AggType:   aggType,
	}
}

// EventTypeStatusChanged is published after a status change mutation commits
const EventTypeStatusChanged = "StatusChanged"

// EventTypeRecordSaved is published after a create or update mutation commits
const EventTypeRecordSaved = "RecordSaved"

// EventTypeRecordDeleted is published after a delete mutation commits
const EventTypeRecordDeleted = "RecordDeleted"

// StatusChangedEvent carries the table and the new status of a changed row
type StatusChangedEvent struct {
	BaseDomainEvent
	Status  Status `json:"status"`
	Cascade bool   `json:"cascade"`
}

// NewStatusChangedEvent creates a StatusChangedEvent
func NewStatusChangedEvent(table string, id uuid.UUID, status Status, cascade bool) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: NewBaseDomainEvent(EventTypeStatusChanged, table, id),
		Status:          status,
		Cascade:         cascade,
	}
}

// RecordEvent signals that a row was written or removed
type RecordEvent struct {
	BaseDomainEvent
}

// NewRecordSavedEvent creates a RecordSaved event
func NewRecordSavedEvent(table string, id uuid.UUID) *RecordEvent {
	return &RecordEvent{BaseDomainEvent: NewBaseDomainEvent(EventTypeRecordSaved, table, id)}
}

// NewRecordDeletedEvent creates a RecordDeleted event
func NewRecordDeletedEvent(table string, id uuid.UUID) *RecordEvent {
	return &RecordEvent{BaseDomainEvent: NewBaseDomainEvent(EventTypeRecordDeleted, table, id)}
}
