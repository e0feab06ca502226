package ports

import (
	"context"
	"time"
)

// PatientInput carries all data needed to create or update a patient. Dates
// arrive already parsed; the transport layer owns text validation.
type PatientInput struct {
	Name           string
	Email          string
	Address        string
	DateOfBirth    time.Time
	RegisteredDate time.Time
}

// PatientResult is the caller-visible view of a patient. RegisteredDate is
// intentionally absent from responses.
type PatientResult struct {
	ID          string
	Name        string
	Email       string
	Address     string
	DateOfBirth time.Time
}

// PatientService defines the write pipeline and read operations over
// patient records.
type PatientService interface {
	CreatePatient(ctx context.Context, input PatientInput) (*PatientResult, error)
	UpdatePatient(ctx context.Context, id string, input PatientInput) (*PatientResult, error)
	DeletePatient(ctx context.Context, id string) error
	GetPatient(ctx context.Context, id string) (*PatientResult, error)
	ListPatients(ctx context.Context) ([]PatientResult, error)
}
