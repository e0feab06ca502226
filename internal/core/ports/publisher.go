package ports

import "github.com/medtrack/patient-system/internal/core/domain"

// EventPublisher hands a patient change to the broker, best-effort. Publish
// never blocks the write pipeline and never reports failure to it; delivery
// problems are logged and counted downstream.
type EventPublisher interface {
	Publish(event domain.PatientChangeEvent)
}
