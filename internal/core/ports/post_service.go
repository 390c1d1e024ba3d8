package ports

import (
	"context"

	"github.com/99minutos/content-api/internal/core/domain"
	"github.com/99minutos/content-api/internal/core/security"
)

type CreatePostInput struct {
	Title   string
	Content string
}

// PostService exposes post operations. Reads are public; creation is owner-or-admin.
type PostService interface {
	Create(ctx context.Context, p *security.Principal, userID string, in CreatePostInput) (*domain.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	FindByTitle(ctx context.Context, title string) ([]*domain.Post, error)
	SearchByTitle(ctx context.Context, keyword string) ([]*domain.Post, error)
}
