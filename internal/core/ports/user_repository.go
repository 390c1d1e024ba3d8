package ports

import (
	"context"

	"github.com/99minutos/content-api/internal/core/domain"
)

// UserRepository is the credential store. Lookups that match nothing return
// domain.ErrUserNotFound; Create on a taken email returns domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	FindByAge(ctx context.Context, age int) ([]*domain.User, error)
	FindByAgeGreaterThan(ctx context.Context, age int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
