package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/medtrack/patient-system/internal/core/domain"
	"github.com/medtrack/patient-system/internal/core/ports"
	"github.com/medtrack/patient-system/internal/core/token"
)

// AuthService implements registration and login. Successful logins return a
// bearer token issued by the token service.
type AuthService struct {
	repo   ports.AuthRepository
	tokens *token.Service
}

func NewAuthService(repo ports.AuthRepository, tokens *token.Service) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, email, password, role string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	return s.repo.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}

	return tok, user, nil
}
