package service

import (
	"context"
	"errors"
	"testing"

	"github.com/99minutos/content-api/internal/core/domain"
	"github.com/99minutos/content-api/internal/core/ports"
	"github.com/99minutos/content-api/internal/core/security"
)

func newPostFixture(t *testing.T) (*PostService, *userFixture) {
	t.Helper()
	f := newUserFixture(t)
	return NewPostService(f.posts, f.users, security.DefaultPolicy(), f.audit, discardLogger), f
}

func TestPostService_Create(t *testing.T) {
	svc, f := newPostFixture(t)
	in := ports.CreatePostInput{Title: " Hello ", Content: "world"}

	if _, err := svc.Create(context.Background(), nil, f.alice.ID, in); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.Create(context.Background(), alice, "missing", in); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	_, err := svc.Create(context.Background(), bob, f.alice.ID, in)
	if !errors.Is(err, domain.ErrForbidden) || err.Error() != "You can only create posts for yourself" {
		t.Fatalf("expected forbidden, got %v", err)
	}

	post, err := svc.Create(context.Background(), alice, f.alice.ID, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.Title != "Hello" || post.AuthorID != f.alice.ID || post.AuthorEmail != "alice@example.com" {
		t.Fatalf("unexpected post: %+v", post)
	}

	if _, err := svc.Create(context.Background(), root, f.alice.ID, in); err != nil {
		t.Fatalf("admin create: %v", err)
	}
}

func TestPostService_Reads(t *testing.T) {
	svc, f := newPostFixture(t)
	_, _ = svc.Create(context.Background(), alice, f.alice.ID, ports.CreatePostInput{Title: "Go tips", Content: "c1"})
	_, _ = svc.Create(context.Background(), bob, f.bob.ID, ports.CreatePostInput{Title: "Go tricks", Content: "c2"})

	all, err := svc.List(context.Background())
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 posts, got %d (%v)", len(all), err)
	}

	mine, err := svc.ListByUser(context.Background(), f.alice.ID)
	if err != nil || len(mine) != 1 || mine[0].Title != "Go tips" {
		t.Fatalf("unexpected posts: %+v (%v)", mine, err)
	}
	if _, err := svc.ListByUser(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	byTitle, err := svc.FindByTitle(context.Background(), "Go tricks")
	if err != nil || len(byTitle) != 1 {
		t.Fatalf("unexpected result: %+v (%v)", byTitle, err)
	}
	if _, err := svc.FindByTitle(context.Background(), "go tricks"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("title match is exact, got %v", err)
	}

	found, err := svc.SearchByTitle(context.Background(), "Go t")
	if err != nil || len(found) != 2 {
		t.Fatalf("expected 2 matches, got %d (%v)", len(found), err)
	}
	if _, err := svc.SearchByTitle(context.Background(), "Rust"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
