package ports

import (
	"context"

	"github.com/medtrack/patient-system/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
