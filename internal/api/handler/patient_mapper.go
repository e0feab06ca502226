package handler

import (
	"fmt"
	"time"

	"github.com/medtrack/patient-system/internal/core/ports"
)

const dateLayout = "2006-01-02"

// --- Request → Service input ---

// toPatientInput parses the request into a service DTO. The validator has
// already checked the date format, so parse errors only occur when a request
// bypasses validation.
func toPatientInput(req patientRequest) (ports.PatientInput, error) {
	dob, err := time.ParseInLocation(dateLayout, req.DateOfBirth, time.UTC)
	if err != nil {
		return ports.PatientInput{}, fmt.Errorf("date_of_birth must be a valid date (YYYY-MM-DD)")
	}
	registered, err := time.ParseInLocation(dateLayout, req.RegisteredDate, time.UTC)
	if err != nil {
		return ports.PatientInput{}, fmt.Errorf("registered_date must be a valid date (YYYY-MM-DD)")
	}

	return ports.PatientInput{
		Name:           req.Name,
		Email:          req.Email,
		Address:        req.Address,
		DateOfBirth:    dob,
		RegisteredDate: registered,
	}, nil
}

// --- Service result → HTTP response ---

func toPatientResponse(r *ports.PatientResult) patientResponse {
	return patientResponse{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Address:     r.Address,
		DateOfBirth: r.DateOfBirth.Format(dateLayout),
	}
}

func toListResponse(results []ports.PatientResult) listPatientsResponse {
	items := make([]patientResponse, len(results))
	for i := range results {
		items[i] = toPatientResponse(&results[i])
	}
	return listPatientsResponse{Data: items}
}
