package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medtrack/patient-system/internal/core/domain"
)

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"patient not found", domain.ErrPatientNotFound, http.StatusNotFound, "patient not found"},
		{"wrapped not found", fmt.Errorf("get: %w", domain.ErrPatientNotFound), http.StatusNotFound, "patient not found"},
		{"email conflict", domain.ErrEmailExists, http.StatusConflict, "email address already exists"},
		{"billing failure", fmt.Errorf("create patient: %w: boom", domain.ErrBillingFailure), http.StatusBadGateway, "billing account creation failed"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"user conflict", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"echo error passthrough", echo.NewHTTPError(http.StatusBadRequest, "name is required"), http.StatusBadRequest, "name is required"},
		{"unexpected error", errors.New("mongo timeout"), http.StatusInternalServerError, "internal server error"},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Errorf("status: want %d, got %d", tc.wantCode, rec.Code)
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Error != tc.wantMsg {
				t.Errorf("message: want %q, got %q", tc.wantMsg, resp.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	handler := NewHTTPErrorHandler(zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := c.String(http.StatusOK, "already written"); err != nil {
		t.Fatalf("write response: %v", err)
	}

	handler(errors.New("late failure"), c)

	if rec.Body.String() != "already written" {
		t.Errorf("committed response was modified: %q", rec.Body.String())
	}
}
