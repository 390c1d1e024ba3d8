package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/99minutos/content-api/internal/core/domain"
)

// PostRepository keeps posts in insertion order.
type PostRepository struct {
	mu    sync.RWMutex
	posts []*domain.Post
}

func NewPostRepository() *PostRepository {
	return &PostRepository{}
}

func (r *PostRepository) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *post
	stored.ID = uuid.NewString()
	r.posts = append(r.posts, &stored)

	out := stored
	return &out, nil
}

func (r *PostRepository) List(_ context.Context) ([]*domain.Post, error) {
	return r.match(func(*domain.Post) bool { return true }), nil
}

func (r *PostRepository) ListByAuthor(_ context.Context, authorID string) ([]*domain.Post, error) {
	return r.match(func(p *domain.Post) bool { return p.AuthorID == authorID }), nil
}

func (r *PostRepository) FindByTitle(_ context.Context, title string) ([]*domain.Post, error) {
	return r.match(func(p *domain.Post) bool { return p.Title == title }), nil
}

func (r *PostRepository) SearchByTitle(_ context.Context, keyword string) ([]*domain.Post, error) {
	return r.match(func(p *domain.Post) bool { return strings.Contains(p.Title, keyword) }), nil
}

func (r *PostRepository) DeleteByAuthor(_ context.Context, authorID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]*domain.Post, 0, len(r.posts))
	var removed int64
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	r.posts = kept
	return removed, nil
}

func (r *PostRepository) match(keep func(*domain.Post) bool) []*domain.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Post, 0)
	for _, p := range r.posts {
		if keep(p) {
			c := *p
			out = append(out, &c)
		}
	}
	return out
}
