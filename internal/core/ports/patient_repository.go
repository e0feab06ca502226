package ports

import (
	"context"

	"github.com/medtrack/patient-system/internal/core/domain"
)

// PatientRepository defines persistence operations for patient records.
// All operations act on single documents; the store provides atomicity per
// call, nothing here spans calls.
type PatientRepository interface {
	Insert(ctx context.Context, p *domain.Patient) error
	Update(ctx context.Context, p *domain.Patient) error
	FindByID(ctx context.Context, id string) (*domain.Patient, error)
	// ExistsByEmail reports whether any patient uses the given email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByEmailExcludingID reports whether a patient other than id uses
	// the given email. Used on update so a record can keep its own email.
	ExistsByEmailExcludingID(ctx context.Context, email, id string) (bool, error)
	DeleteByID(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*domain.Patient, error)
}
