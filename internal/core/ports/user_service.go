package ports

import (
	"context"

	"github.com/99minutos/content-api/internal/core/domain"
	"github.com/99minutos/content-api/internal/core/security"
)

// CreateUserInput is an admin-initiated account creation.
type CreateUserInput struct {
	Name     string
	LastName string
	Age      int
	Email    string
	Password string
	Role     domain.Role // empty means USER
}

// UpdateUserInput holds the profile fields a user may change.
type UpdateUserInput struct {
	Name     string
	LastName string
	Age      int
}

// UserService exposes user operations. Every method receives the request principal
// explicitly; nil means anonymous.
type UserService interface {
	Create(ctx context.Context, p *security.Principal, in CreateUserInput) (*domain.User, error)
	List(ctx context.Context, p *security.Principal) ([]*domain.User, error)
	Get(ctx context.Context, p *security.Principal, id string) (*domain.User, error)
	Update(ctx context.Context, p *security.Principal, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, p *security.Principal, id string) (*domain.User, error)
	FindByAge(ctx context.Context, p *security.Principal, age int) ([]*domain.User, error)
	FindByAgeGreaterThan(ctx context.Context, p *security.Principal, age int) ([]*domain.User, error)
	FindByEmail(ctx context.Context, p *security.Principal, email string) (*domain.User, error)
}
