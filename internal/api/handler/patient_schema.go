package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// patientRequest is the body of both POST /v1/patients and PUT /v1/patients/:id.
// Dates travel as ISO calendar-date text and are parsed by the mapper.
type patientRequest struct {
	Name           string `json:"name"            validate:"required"`
	Email          string `json:"email"           validate:"required,email"`
	Address        string `json:"address"         validate:"required"`
	DateOfBirth    string `json:"date_of_birth"   validate:"required,datetime=2006-01-02"`
	RegisteredDate string `json:"registered_date" validate:"required,datetime=2006-01-02"`
}

// patientResponse is the caller-visible view of a patient. The registration
// date is intentionally not part of the response contract.
type patientResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth"`
}

type listPatientsResponse struct {
	Data []patientResponse `json:"data"`
}
