package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/content-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User
	seq       int
	updateErr error
	findErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("u%d", r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) filter(keep func(*domain.User) bool) []*domain.User {
	out := []*domain.User{}
	for _, u := range r.users {
		if keep(u) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	return r.filter(func(*domain.User) bool { return true }), nil
}

func (r *stubUserRepo) FindByAge(_ context.Context, age int) ([]*domain.User, error) {
	return r.filter(func(u *domain.User) bool { return u.Age == age }), nil
}

func (r *stubUserRepo) FindByAgeGreaterThan(_ context.Context, age int) ([]*domain.User, error) {
	return r.filter(func(u *domain.User) bool { return u.Age > age }), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubPostRepo struct {
	posts []*domain.Post
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	clone := *p
	clone.ID = fmt.Sprintf("p%d", len(r.posts)+1)
	r.posts = append(r.posts, &clone)
	out := clone
	return &out, nil
}

func (r *stubPostRepo) match(keep func(*domain.Post) bool) []*domain.Post {
	out := []*domain.Post{}
	for _, p := range r.posts {
		if keep(p) {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out
}

func (r *stubPostRepo) List(_ context.Context) ([]*domain.Post, error) {
	return r.match(func(*domain.Post) bool { return true }), nil
}

func (r *stubPostRepo) ListByAuthor(_ context.Context, authorID string) ([]*domain.Post, error) {
	return r.match(func(p *domain.Post) bool { return p.AuthorID == authorID }), nil
}

func (r *stubPostRepo) FindByTitle(_ context.Context, title string) ([]*domain.Post, error) {
	return r.match(func(p *domain.Post) bool { return p.Title == title }), nil
}

func (r *stubPostRepo) SearchByTitle(_ context.Context, keyword string) ([]*domain.Post, error) {
	return r.match(func(p *domain.Post) bool { return strings.Contains(p.Title, keyword) }), nil
}

func (r *stubPostRepo) DeleteByAuthor(_ context.Context, authorID string) (int64, error) {
	kept := r.posts[:0]
	var n int64
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			n++
			continue
		}
		kept = append(kept, p)
	}
	r.posts = kept
	return n, nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

// plainHasher is a reversible stand-in for bcrypt so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, d string) bool      { return d == "hashed:"+p }

type stubThrottle struct {
	blocked  bool
	failures map[string]int
	resets   int
}

func newStubThrottle() *stubThrottle { return &stubThrottle{failures: map[string]int{}} }

func (t *stubThrottle) Allowed(context.Context, string) (bool, error) { return !t.blocked, nil }
func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}
func (t *stubThrottle) Reset(context.Context, string) error {
	t.resets++
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) types() []domain.AuditEventType {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditEventType, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Type)
	}
	return out
}
