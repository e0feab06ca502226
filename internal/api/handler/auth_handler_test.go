package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medtrack/patient-system/internal/core/domain"
)

type stubAuthService struct {
	registeredUser *domain.User
	registerErr    error

	loginToken string
	loginUser  *domain.User
	loginErr   error
}

func (s *stubAuthService) Register(_ context.Context, _, _, _ string) (*domain.User, error) {
	return s.registeredUser, s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (string, *domain.User, error) {
	return s.loginToken, s.loginUser, s.loginErr
}

func newAuthContext(target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{registeredUser: &domain.User{
		ID:           "user-1",
		Email:        "admin@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         domain.RoleAdmin,
	}}
	h := NewAuthHandler(svc)
	c, rec := newAuthContext("/auth/register", `{"email":"admin@example.com","password":"s3cretpass","role":"ADMIN"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status: want 201, got %d", rec.Code)
	}

	// The password hash must never appear in the response body.
	if strings.Contains(rec.Body.String(), "$2a$10$") {
		t.Error("password hash leaked in response")
	}
	if !strings.Contains(rec.Body.String(), "admin@example.com") {
		t.Errorf("response missing user email: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, _ := newAuthContext("/auth/register", `{"email":"a@example.com","password":"short","role":"USER"}`)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if msg, _ := he.Message.(string); !strings.Contains(msg, "password must be at least 8") {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestAuthHandler_Register_InvalidRole(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, _ := newAuthContext("/auth/register", `{"email":"a@example.com","password":"s3cretpass","role":"ROOT"}`)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{
		loginToken: "header.payload.signature",
		loginUser:  &domain.User{ID: "user-1", Email: "a@example.com", Role: domain.RoleUser},
	}
	h := NewAuthHandler(svc)
	c, rec := newAuthContext("/auth/login", `{"email":"a@example.com","password":"s3cretpass"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status: want 200, got %d", rec.Code)
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "header.payload.signature" {
		t.Errorf("token mismatch: %q", resp.Token)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: domain.ErrInvalidCredentials}
	h := NewAuthHandler(svc)
	c, _ := newAuthContext("/auth/login", `{"email":"a@example.com","password":"wrongpass1"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Validate(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/validate", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("subject", "a@example.com")
	c.Set("role", domain.RoleUser)

	if err := h.Validate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["subject"] != "a@example.com" || resp["role"] != domain.RoleUser {
		t.Errorf("response mismatch: %v", resp)
	}
}
