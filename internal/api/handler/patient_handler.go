package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medtrack/patient-system/internal/core/ports"
)

// PatientHandler handles HTTP requests for patient operations. Error-to-status
// mapping lives in the central HTTP error handler.
type PatientHandler struct {
	service ports.PatientService
}

func NewPatientHandler(service ports.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

// Create handles POST /v1/patients.
//
// @Summary      Register a new patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      patientRequest  true  "Patient details"
// @Success      201   {object}  patientResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/patients [post]
func (h *PatientHandler) Create(c echo.Context) error {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input, err := toPatientInput(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.CreatePatient(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toPatientResponse(result))
}

// Update handles PUT /v1/patients/:id.
//
// @Summary      Update an existing patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Patient id"
// @Param        body  body      patientRequest  true  "Patient details"
// @Success      200   {object}  patientResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/patients/{id} [put]
func (h *PatientHandler) Update(c echo.Context) error {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input, err := toPatientInput(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.UpdatePatient(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPatientResponse(result))
}

// Delete handles DELETE /v1/patients/:id.
//
// @Summary      Delete a patient
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Patient id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/patients/{id} [delete]
func (h *PatientHandler) Delete(c echo.Context) error {
	if err := h.service.DeletePatient(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/patients/:id.
//
// @Summary      Get a patient by id
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Patient id"
// @Success      200  {object}  patientResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/patients/{id} [get]
func (h *PatientHandler) Get(c echo.Context) error {
	result, err := h.service.GetPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPatientResponse(result))
}

// List handles GET /v1/patients.
//
// @Summary      List all patients
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listPatientsResponse
// @Router       /v1/patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	results, err := h.service.ListPatients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(results))
}
