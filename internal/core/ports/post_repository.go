package ports

import (
	"context"

	"github.com/99minutos/content-api/internal/core/domain"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
	// FindByTitle matches the title exactly.
	FindByTitle(ctx context.Context, title string) ([]*domain.Post, error)
	// SearchByTitle matches posts whose title contains keyword (case-sensitive).
	SearchByTitle(ctx context.Context, keyword string) ([]*domain.Post, error)
	DeleteByAuthor(ctx context.Context, authorID string) (int64, error)
}
