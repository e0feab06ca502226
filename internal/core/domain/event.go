package domain

// EventType enumerates the patient changes that are published.
type EventType string

const (
	EventCreated EventType = "CREATED"
	EventUpdated EventType = "UPDATED"
)

// PatientChangeEvent is the transient wire-only record handed to the event
// publisher after a successful create or update. It is never persisted by
// this service.
type PatientChangeEvent struct {
	PatientID string
	Name      string
	Email     string
	Type      EventType
}
