package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medtrack/patient-system/internal/api/metrics"
	"github.com/medtrack/patient-system/internal/core/domain"
	"github.com/medtrack/patient-system/internal/core/ports"
)

const defaultBillingTimeout = 5 * time.Second

// PatientService implements the patient write pipeline: uniqueness checks,
// persistence, billing account creation, and best-effort event publication.
type PatientService struct {
	repo           ports.PatientRepository
	billing        ports.BillingClient
	publisher      ports.EventPublisher
	billingTimeout time.Duration
	logger         zerolog.Logger
}

func NewPatientService(
	repo ports.PatientRepository,
	billing ports.BillingClient,
	publisher ports.EventPublisher,
	billingTimeout time.Duration,
	logger zerolog.Logger,
) *PatientService {
	if billingTimeout <= 0 {
		billingTimeout = defaultBillingTimeout
	}
	return &PatientService{
		repo:           repo,
		billing:        billing,
		publisher:      publisher,
		billingTimeout: billingTimeout,
		logger:         logger,
	}
}

// CreatePatient persists a new patient, opens its billing account, and
// publishes a CREATED event. The billing call runs under a bounded timeout;
// if it fails, the just-inserted record is deleted again so the store and
// the billing system never disagree about which patients exist.
func (s *PatientService) CreatePatient(ctx context.Context, input ports.PatientInput) (*ports.PatientResult, error) {
	exists, err := s.repo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("create patient: email check: %w", err)
	}
	if exists {
		metrics.EmailConflictsTotal.WithLabelValues("create").Inc()
		return nil, domain.ErrEmailExists
	}

	patient := &domain.Patient{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Email:          input.Email,
		Address:        input.Address,
		DateOfBirth:    input.DateOfBirth,
		RegisteredDate: input.RegisteredDate,
	}

	if err := s.repo.Insert(ctx, patient); err != nil {
		s.logger.Error().Err(err).Msg("failed to insert patient")
		return nil, fmt.Errorf("create patient: %w", err)
	}

	if err := s.createBillingAccount(ctx, patient); err != nil {
		metrics.BillingCallsTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Str("patient_id", patient.ID).Msg("billing account creation failed, compensating")
		s.compensateInsert(ctx, patient.ID)
		return nil, fmt.Errorf("create patient: %w: %w", domain.ErrBillingFailure, err)
	}
	metrics.BillingCallsTotal.WithLabelValues("ok").Inc()

	s.publisher.Publish(domain.PatientChangeEvent{
		PatientID: patient.ID,
		Name:      patient.Name,
		Email:     patient.Email,
		Type:      domain.EventCreated,
	})

	metrics.PatientsCreatedTotal.Inc()
	s.logger.Info().Str("patient_id", patient.ID).Str("email", patient.Email).Msg("patient created")

	return toResult(patient), nil
}

// UpdatePatient overwrites all mutable fields of an existing record. The
// email check excludes the record itself so a patient can keep its own email.
func (s *PatientService) UpdatePatient(ctx context.Context, id string, input ports.PatientInput) (*ports.PatientResult, error) {
	patient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByEmailExcludingID(ctx, input.Email, id)
	if err != nil {
		return nil, fmt.Errorf("update patient: email check: %w", err)
	}
	if taken {
		metrics.EmailConflictsTotal.WithLabelValues("update").Inc()
		return nil, domain.ErrEmailExists
	}

	patient.Name = input.Name
	patient.Email = input.Email
	patient.Address = input.Address
	patient.DateOfBirth = input.DateOfBirth
	patient.RegisteredDate = input.RegisteredDate

	if err := s.repo.Update(ctx, patient); err != nil {
		s.logger.Error().Err(err).Str("patient_id", id).Msg("failed to update patient")
		return nil, fmt.Errorf("update patient: %w", err)
	}

	s.publisher.Publish(domain.PatientChangeEvent{
		PatientID: patient.ID,
		Name:      patient.Name,
		Email:     patient.Email,
		Type:      domain.EventUpdated,
	})

	metrics.PatientsUpdatedTotal.Inc()
	s.logger.Info().Str("patient_id", patient.ID).Msg("patient updated")

	return toResult(patient), nil
}

// DeletePatient removes an existing record. No event is emitted on deletion.
func (s *PatientService) DeletePatient(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("patient_id", id).Msg("failed to delete patient")
		return fmt.Errorf("delete patient: %w", err)
	}

	metrics.PatientsDeletedTotal.Inc()
	s.logger.Info().Str("patient_id", id).Msg("patient deleted")
	return nil
}

func (s *PatientService) GetPatient(ctx context.Context, id string) (*ports.PatientResult, error) {
	patient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResult(patient), nil
}

func (s *PatientService) ListPatients(ctx context.Context) ([]ports.PatientResult, error) {
	patients, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}

	out := make([]ports.PatientResult, len(patients))
	for i, p := range patients {
		out[i] = *toResult(p)
	}
	return out, nil
}

func (s *PatientService) createBillingAccount(ctx context.Context, p *domain.Patient) error {
	ctx, cancel := context.WithTimeout(ctx, s.billingTimeout)
	defer cancel()
	return s.billing.CreateBillingAccount(ctx, p.ID, p.Name, p.Email)
}

// compensateInsert undoes a patient insert whose billing call failed. The
// delete runs on a fresh context so a caller-cancelled request cannot leave
// the orphan row behind.
func (s *PatientService) compensateInsert(ctx context.Context, id string) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.billingTimeout)
	defer cancel()
	if err := s.repo.DeleteByID(cleanupCtx, id); err != nil {
		s.logger.Error().Err(err).Str("patient_id", id).Msg("compensation delete failed, orphan record remains")
	}
}

func toResult(p *domain.Patient) *ports.PatientResult {
	return &ports.PatientResult{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Address:     p.Address,
		DateOfBirth: p.DateOfBirth,
	}
}
