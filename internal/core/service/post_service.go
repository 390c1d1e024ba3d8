package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/content-api/internal/core/domain"
	"github.com/99minutos/content-api/internal/core/ports"
	"github.com/99minutos/content-api/internal/core/security"
)

const msgCreateOwnPost = "You can only create posts for yourself"

type PostService struct {
	posts  ports.PostRepository
	users  ports.UserRepository
	policy security.Policy
	audit  ports.AuditRecorder
	log    zerolog.Logger
	now    func() time.Time
}

func NewPostService(posts ports.PostRepository, users ports.UserRepository, policy security.Policy, audit ports.AuditRecorder, log zerolog.Logger) *PostService {
	if audit == nil {
		audit = nopAudit{}
	}
	return &PostService{posts: posts, users: users, policy: policy, audit: audit, log: log, now: time.Now}
}

// Create writes a post on behalf of user userID. Only that user or an admin may.
func (s *PostService) Create(ctx context.Context, p *security.Principal, userID string, in ports.CreatePostInput) (*domain.Post, error) {
	if err := s.policy.RequireCapability(p, security.CapabilityAuthenticated).Err(""); err != nil {
		return nil, err
	}
	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.DecideOwnership(p, author.Email).Err(msgCreateOwnPost); err != nil {
		s.log.Warn().Str("principal", p.Email).Str("user_id", userID).Msg(msgCreateOwnPost)
		recordDenial(s.audit, s.now(), p, "user:"+userID+":posts", msgCreateOwnPost)
		return nil, err
	}

	post, err := s.posts.Create(ctx, &domain.Post{
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		AuthorID:    author.ID,
		AuthorEmail: author.Email,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("post_id", post.ID).Str("user_id", userID).Msg("post created")
	return post, nil
}

// ListByUser returns the posts of userID, or ErrUserNotFound when the user does
// not exist.
func (s *PostService) ListByUser(ctx context.Context, userID string) ([]*domain.Post, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.posts.ListByAuthor(ctx, userID)
}

func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	return s.posts.List(ctx)
}

func (s *PostService) FindByTitle(ctx context.Context, title string) ([]*domain.Post, error) {
	return nonEmptyPosts(s.posts.FindByTitle(ctx, title))
}

func (s *PostService) SearchByTitle(ctx context.Context, keyword string) ([]*domain.Post, error) {
	return nonEmptyPosts(s.posts.SearchByTitle(ctx, keyword))
}

func nonEmptyPosts(posts []*domain.Post, err error) ([]*domain.Post, error) {
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, domain.ErrPostNotFound
	}
	return posts, nil
}
