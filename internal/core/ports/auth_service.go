package ports

import (
	"context"
	"time"

	"github.com/99minutos/content-api/internal/core/domain"
)

// RegisterInput carries a self-service registration. The role is never taken from
// the caller.
type RegisterInput struct {
	Name     string
	LastName string
	Age      int
	Email    string
	Password string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
